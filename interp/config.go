package interp

import (
	"errors"
	"fmt"
	"io"

	"github.com/npillmayer/linktween/polyline"
	"github.com/npillmayer/linktween/tween"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of the interpolation.
type Config struct {
	// Segment point count = round(MaxWeight*max + MinWeight*min) over the
	// keyframes, at least MinSegmentPoints.
	MaxWeight        float64 `yaml:"max_weight"`
	MinWeight        float64 `yaml:"min_weight"`
	MinSegmentPoints int     `yaml:"min_segment_points"`

	// Display resolution = ResolutionFactor × smallest mean point spacing,
	// at least MinResolution. Blended points closer than
	// resolution/CondenseDivisor are dropped.
	ResolutionFactor float64 `yaml:"resolution_factor"`
	MinResolution    float64 `yaml:"min_resolution"`
	CondenseDivisor  float64 `yaml:"condense_divisor"`

	MaxResampleIterations int     `yaml:"max_resample_iterations"`
	MaxCrossingRepairs    int     `yaml:"max_crossing_repairs"`
	Tension               float64 `yaml:"tension"`

	Blend BlendConfig `yaml:"blend"`
}

// BlendConfig configures the quasi-linear temporal blend.
type BlendConfig struct {
	Mode     string  `yaml:"mode"` // "proportional" or "fixed"
	PropMin  float64 `yaml:"prop_min"`
	PropAvg  float64 `yaml:"prop_avg"`
	FixedMin float64 `yaml:"fixed_min"`
	FixedAvg float64 `yaml:"fixed_avg"`
	Clamp    bool    `yaml:"clamp"`
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	p := tween.DefaultParams()
	return Config{
		MaxWeight:             0.75,
		MinWeight:             0.25,
		MinSegmentPoints:      3,
		ResolutionFactor:      0.75,
		MinResolution:         1.0,
		CondenseDivisor:       500.0,
		MaxResampleIterations: polyline.DefaultOptions().MaxIter,
		MaxCrossingRepairs:    32,
		Tension:               1.0,
		Blend: BlendConfig{
			Mode:     p.Mode.String(),
			PropMin:  p.PropMin,
			PropAvg:  p.PropAvg,
			FixedMin: p.FixedMin,
			FixedAvg: p.FixedAvg,
			Clamp:    true,
		},
	}
}

// LoadConfig reads a YAML configuration. Keys not present keep their
// defaults. An empty document gives the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every value for its range.
func (c Config) Validate() error {
	switch {
	case c.MaxWeight < 0 || c.MinWeight < 0 || c.MaxWeight+c.MinWeight <= 0:
		return fmt.Errorf("%w: segment weights %g/%g", ErrInvalidConfig, c.MaxWeight, c.MinWeight)
	case c.MinSegmentPoints < 2:
		return fmt.Errorf("%w: min_segment_points %d < 2", ErrInvalidConfig, c.MinSegmentPoints)
	case c.ResolutionFactor <= 0:
		return fmt.Errorf("%w: resolution_factor %g", ErrInvalidConfig, c.ResolutionFactor)
	case c.MinResolution <= 0:
		return fmt.Errorf("%w: min_resolution %g", ErrInvalidConfig, c.MinResolution)
	case c.CondenseDivisor <= 0:
		return fmt.Errorf("%w: condense_divisor %g", ErrInvalidConfig, c.CondenseDivisor)
	case c.MaxResampleIterations < 1:
		return fmt.Errorf("%w: max_resample_iterations %d", ErrInvalidConfig, c.MaxResampleIterations)
	case c.MaxCrossingRepairs < 0:
		return fmt.Errorf("%w: max_crossing_repairs %d", ErrInvalidConfig, c.MaxCrossingRepairs)
	case c.Tension < 0.75 || c.Tension > 4:
		return fmt.Errorf("%w: tension %g outside [0.75, 4]", ErrInvalidConfig, c.Tension)
	}
	if _, err := tween.ParseMode(c.Blend.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Blend.PropMin > c.Blend.PropAvg || c.Blend.FixedMin > c.Blend.FixedAvg {
		return fmt.Errorf("%w: blend thresholds min above avg", ErrInvalidConfig)
	}
	return nil
}

// params converts the blend settings. The mode has been validated.
func (c Config) params() tween.Params {
	mode, _ := tween.ParseMode(c.Blend.Mode)
	return tween.Params{
		Mode:     mode,
		PropMin:  c.Blend.PropMin,
		PropAvg:  c.Blend.PropAvg,
		FixedMin: c.Blend.FixedMin,
		FixedAvg: c.Blend.FixedAvg,
		Clamp:    c.Blend.Clamp,
	}
}

func (c Config) options(closed bool) polyline.Options {
	return polyline.Options{
		Tension: c.Tension,
		Closed:  closed,
		MaxIter: c.MaxResampleIterations,
	}
}
