package interp

import (
	"fmt"
	"sort"
)

// KeyframeStore delivers the keyframes of a field in time order.
type KeyframeStore interface {
	Keyframes(*Field) ([]Keyframe, error)
}

// LinkChainStore delivers the link chains of a field.
type LinkChainStore interface {
	LinkChains(*Field) ([]LinkChain, error)
}

// PatternTable tells whether a line pattern looks the same in both
// directions. Unknown patterns count as symmetric.
type PatternTable interface {
	IsSymmetric(pattern string) (sym, known bool)
}

// FrameSink receives the inbetween frames. A nil frame clears the slot.
type FrameSink interface {
	WriteInbetween(field *Field, slot int, frame *Frame) error
}

// MemoryStore holds keyframes, link chains and pattern symmetry in memory.
// It serves every field alike.
type MemoryStore struct {
	Frames   []Keyframe
	Chains   []LinkChain
	Patterns map[string]bool // pattern -> symmetric
}

// Keyframes returns the frames sorted by time.
func (m *MemoryStore) Keyframes(*Field) ([]Keyframe, error) {
	frames := make([]Keyframe, len(m.Frames))
	copy(frames, m.Frames)
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].Time < frames[j].Time })
	return frames, nil
}

// LinkChains returns the chains.
func (m *MemoryStore) LinkChains(*Field) ([]LinkChain, error) {
	return m.Chains, nil
}

// IsSymmetric looks up a pattern.
func (m *MemoryStore) IsSymmetric(pattern string) (bool, bool) {
	sym, ok := m.Patterns[pattern]
	return sym, ok
}

// MemorySink collects inbetween frames by slot.
type MemorySink struct {
	Slots  map[int]*Frame
	Writes int
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{Slots: make(map[int]*Frame)}
}

// WriteInbetween stores frame at slot, or clears the slot for a nil frame.
func (s *MemorySink) WriteInbetween(field *Field, slot int, frame *Frame) error {
	if slot < 0 || slot >= field.Axis.Count {
		return fmt.Errorf("slot %d outside axis of %s", slot, field)
	}
	s.Writes++
	if frame == nil {
		delete(s.Slots, slot)
		return nil
	}
	s.Slots[slot] = frame
	return nil
}

// Frame returns the frame at slot, or nil.
func (s *MemorySink) Frame(slot int) *Frame {
	return s.Slots[slot]
}
