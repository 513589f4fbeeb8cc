/*
Package tween interpolates sparse 2D key values over time.

Three interpolators are provided: Tween fits a cubic spline through the
keys, PieceWise interpolates linearly, and QuasiLinear blends the two
depending on the speed of movement between consecutive keys. Slow spans
get linear interpolation, fast spans get the spline, and spans in between
get a weighted average. This avoids "fishhook" artifacts of the spline
where a point hardly moves.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package tween

import (
	"fmt"

	"github.com/npillmayer/linktween"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'tween'
func tracer() tracing.Trace {
	return tracing.Select("tween")
}

// Mode selects the thresholds of QuasiLinear.
type Mode int

const (
	// Proportional thresholds are fractions of the fastest span's speed.
	Proportional Mode = iota
	// Fixed thresholds are absolute speeds in map units per time unit.
	Fixed
)

func (m Mode) String() string {
	switch m {
	case Proportional:
		return "proportional"
	case Fixed:
		return "fixed"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts "proportional" or "fixed" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "proportional", "":
		return Proportional, nil
	case "fixed":
		return Fixed, nil
	}
	return Proportional, fmt.Errorf("unknown quasi-linear mode %q", s)
}

// Params configure QuasiLinear.
type Params struct {
	Mode     Mode
	PropMin  float64 // below this fraction of the top speed, interpolate linearly
	PropAvg  float64 // above this fraction of the top speed, use the spline
	FixedMin float64 // Fixed mode counterpart of PropMin
	FixedAvg float64 // Fixed mode counterpart of PropAvg
	// Clamp restricts each value between the first and last key to the
	// interval of its two bracketing key values.
	Clamp bool
}

// DefaultParams returns proportional thresholds 0.02 and 0.05 and fixed
// thresholds 10 and 25, with clamping switched off.
func DefaultParams() Params {
	return Params{
		Mode:     Proportional,
		PropMin:  0.02,
		PropAvg:  0.05,
		FixedMin: 10.0,
		FixedAvg: 25.0,
	}
}

// Tween interpolates vals given at strictly increasing keys to the times in
// tweens, using a cubic spline. The key list is extended by one linearly
// extrapolated key at either end before fitting.
func Tween(keys []float64, vals []linktween.Pair, tweens []float64) []linktween.Pair {
	out := make([]linktween.Pair, len(tweens))
	n := len(keys)
	if n == 0 {
		return out
	}
	if n == 1 {
		for i := range out {
			out[i] = vals[0]
		}
		return out
	}
	more := n + 2
	t := make([]float64, more)
	x := make([]float64, more)
	y := make([]float64, more)
	for i := 0; i < n; i++ {
		t[i+1], x[i+1], y[i+1] = keys[i], vals[i].X(), vals[i].Y()
	}
	t[0] = 2*keys[0] - keys[1]
	x[0] = 2*vals[0].X() - vals[1].X()
	y[0] = 2*vals[0].Y() - vals[1].Y()
	t[more-1] = 2*keys[n-1] - keys[n-2]
	x[more-1] = 2*vals[n-1].X() - vals[n-2].X()
	y[more-1] = 2*vals[n-1].Y() - vals[n-2].Y()
	sx, sy := Spline(t, x), Spline(t, y)
	for i, parm := range tweens {
		out[i] = linktween.P(sx.Eval(parm), sy.Eval(parm))
	}
	return out
}

// PieceWise interpolates vals given at increasing keys linearly to the times
// in tweens. Times outside the key range get the first or last value.
func PieceWise(keys []float64, vals []linktween.Pair, tweens []float64) []linktween.Pair {
	out := make([]linktween.Pair, len(tweens))
	n := len(keys)
	if n == 0 {
		return out
	}
	for i, parm := range tweens {
		switch {
		case parm <= keys[0]:
			out[i] = vals[0]
		case parm >= keys[n-1]:
			out[i] = vals[n-1]
		default:
			k := bracket(keys, parm)
			if parm == keys[k] {
				out[i] = vals[k]
				continue
			}
			fact := (parm - keys[k-1]) / (keys[k] - keys[k-1])
			out[i] = linktween.Lerp(vals[k-1], vals[k], fact)
		}
	}
	return out
}

// bracket returns the smallest k ≥ 1 with parm ≤ keys[k], or n-1.
func bracket(keys []float64, parm float64) int {
	k := 1
	for k < len(keys)-1 && parm > keys[k] {
		k++
	}
	return k
}

// QuasiLinear interpolates vals given at strictly increasing keys to the
// times in tweens. For every time, the span of keys it falls into selects
// the method: spans whose squared speed is below the min threshold are
// interpolated linearly, spans above the avg threshold by spline, and spans
// in between by a weighted average of both.
func QuasiLinear(keys []float64, vals []linktween.Pair, tweens []float64, params Params) []linktween.Pair {
	n := len(keys)
	if n <= 1 {
		return PieceWise(keys, vals, tweens)
	}
	keydist2 := make([]float64, n)
	maxdist2 := 0.0
	for k := 1; k < n; k++ {
		diffl := keys[k] - keys[k-1]
		if diffl <= 0 {
			continue
		}
		d := vals[k] - vals[k-1]
		keydist2[k] = (d.X()*d.X() + d.Y()*d.Y()) / (diffl * diffl)
		if keydist2[k] > maxdist2 {
			maxdist2 = keydist2[k]
		}
	}
	var distmin, distavg float64
	switch params.Mode {
	case Fixed:
		distmin = params.FixedMin * params.FixedMin
		distavg = params.FixedAvg * params.FixedAvg
	default:
		distmin = maxdist2 * params.PropMin * params.PropMin
		distavg = maxdist2 * params.PropAvg * params.PropAvg
	}
	spline := Tween(keys, vals, tweens)
	piece := PieceWise(keys, vals, tweens)
	out := make([]linktween.Pair, len(tweens))
	for i, parm := range tweens {
		k := bracket(keys, parm)
		switch {
		case keydist2[k] <= 0 || keydist2[k] < distmin:
			out[i] = piece[i]
		case keydist2[k] < distavg:
			fact := (keydist2[k] - distmin) / (distavg - distmin)
			out[i] = piece[i].Scaled(1-fact) + spline[i].Scaled(fact)
		default:
			out[i] = spline[i]
		}
		if params.Clamp && parm >= keys[0] && parm <= keys[n-1] {
			out[i] = clampTo(out[i], vals[k-1], vals[k])
		}
	}
	tracer().Debugf("quasi-linear: %d keys, %d tweens, max speed² %.4g", n, len(tweens), maxdist2)
	return out
}

func clampTo(p, a, b linktween.Pair) linktween.Pair {
	return linktween.P(linktween.Clamp(p.X(), a.X(), b.X()), linktween.Clamp(p.Y(), a.Y(), b.Y()))
}
