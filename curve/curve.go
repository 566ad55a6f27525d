// Package curve implements keyframe curves and their quantized on-disk
// encoding.
//
// A Group holds one or more curves sharing a frame range and repeat modes.
// Each curve is stored in one of eight key layouts (format.Quantization),
// ranging from four 32-bit floats per key down to a single packed 32-bit
// word. Integer layouts quantize frames and values against per-curve scale
// and offset parameters derived from the key range; slopes are stored as
// saturating fixed-point numbers.
//
// Groups whose only curve has fewer than two keys are stored as a single
// constant float.
package curve

import (
	"github.com/arloliu/ctrbin/format"
)

// Key is one keyframe.
type Key struct {
	Frame    float32
	Value    float32
	InSlope  float32
	OutSlope float32
}

// Curve is a sequence of keyframes stored with one quantization.
type Curve struct {
	StartFrame   float32
	EndFrame     float32
	Quantization format.Quantization
	// Linear selects linear instead of stepped interpolation for the
	// step/linear quantizations.
	Linear bool
	Keys   []Key
}

// Evaluate returns the curve value at frame. Frames outside the key range
// clamp to the first or last key.
func (c *Curve) Evaluate(frame float32) float32 {
	keys := c.Keys
	switch {
	case len(keys) == 0:
		return 0
	case len(keys) == 1 || frame <= keys[0].Frame:
		return keys[0].Value
	case frame >= keys[len(keys)-1].Frame:
		return keys[len(keys)-1].Value
	}

	i := 1
	for keys[i].Frame < frame {
		i++
	}
	lhs, rhs := keys[i-1], keys[i]

	span := rhs.Frame - lhs.Frame
	if span <= 0 {
		return rhs.Value
	}
	t := (frame - lhs.Frame) / span

	if c.Quantization.Stepped() {
		if !c.Linear {
			return lhs.Value
		}

		return lhs.Value + (rhs.Value-lhs.Value)*t
	}

	return hermite(lhs.Value, rhs.Value, lhs.OutSlope*span, rhs.InSlope*span, t)
}

func hermite(p0, p1, m0, m1, t float32) float32 {
	t2 := t * t
	t3 := t2 * t

	return (2*t3-3*t2+1)*p0 + (t3-2*t2+t)*m0 + (-2*t3+3*t2)*p1 + (t3-t2)*m1
}
