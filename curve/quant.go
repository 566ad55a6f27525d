package curve

import (
	"fmt"
	"math"

	"github.com/arloliu/ctrbin/cursor"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
)

type slopeKind uint8

const (
	slopeNone slopeKind = iota
	slopeFloat
	slopeFixed16 // signed 16-bit, 1/256 steps
	slopeFixed12 // signed 12-bit, 1/32 steps
)

// layout describes the key encoding of one quantization.
type layout struct {
	size      int
	floats    bool // frame and value stored as float32
	frameBits uint
	valueBits uint
	slope     slopeKind
	unified   bool // one slope shared by both tangents
}

var layouts = [...]layout{
	format.Hermite128:       {size: 16, floats: true, slope: slopeFloat},
	format.Hermite64:        {size: 8, frameBits: 12, valueBits: 20, slope: slopeFixed16},
	format.Hermite48:        {size: 6, frameBits: 8, valueBits: 16, slope: slopeFixed12},
	format.UnifiedHermite96: {size: 12, floats: true, slope: slopeFloat, unified: true},
	format.UnifiedHermite48: {size: 6, frameBits: 16, valueBits: 16, slope: slopeFixed16, unified: true},
	format.UnifiedHermite32: {size: 4, frameBits: 8, valueBits: 12, slope: slopeFixed12, unified: true},
	format.StepLinear64:     {size: 8, floats: true},
	format.StepLinear32:     {size: 4, frameBits: 12, valueBits: 20},
}

func layoutOf(q format.Quantization) (layout, error) {
	if !q.Valid() {
		return layout{}, fmt.Errorf("quantization %d: %w", q, errs.ErrMalformedRecord)
	}

	return layouts[q], nil
}

// KeySize returns the encoded size of one key in bytes.
func KeySize(q format.Quantization) int {
	if !q.Valid() {
		return 0
	}

	return layouts[q].size
}

// HasScale reports whether curves in quantization q carry the value scale,
// value offset and frame scale parameters.
func HasScale(q format.Quantization) bool {
	return q.Valid() && !layouts[q].floats
}

// Params are the dequantization parameters of one curve.
type Params struct {
	ValueScale  float32
	ValueOffset float32
	FrameScale  float32
}

func maxQ(bits uint) uint32 {
	return 1<<bits - 1
}

// DeriveParams computes the quantization parameters for keys in q. Float
// layouts use scale 1 and offset 0. Integer layouts map the value range onto
// the full value bit width and scale frames only when the largest frame
// does not fit the frame bit width. Negative frames cannot be quantized.
func DeriveParams(q format.Quantization, keys []Key) (Params, error) {
	lay, err := layoutOf(q)
	if err != nil {
		return Params{}, err
	}

	p := Params{ValueScale: 1, FrameScale: 1}
	if lay.floats || len(keys) == 0 {
		return p, nil
	}

	minValue, maxValue := keys[0].Value, keys[0].Value
	var maxFrame float32
	for _, k := range keys {
		if k.Frame < 0 {
			return Params{}, fmt.Errorf("frame %g in %s: %w", k.Frame, q, errs.ErrMalformedRecord)
		}
		minValue = min(minValue, k.Value)
		maxValue = max(maxValue, k.Value)
		maxFrame = max(maxFrame, k.Frame)
	}

	p.ValueOffset = minValue
	if span := maxValue - minValue; span > 0 {
		p.ValueScale = span / float32(maxQ(lay.valueBits))
	}
	if limit := float32(maxQ(lay.frameBits)); maxFrame > limit {
		p.FrameScale = maxFrame / limit
	}

	return p, nil
}

func quantize(v, offset, scale float32, bits uint) uint32 {
	q := math.Round(float64((v - offset) / scale))
	limit := float64(maxQ(bits))

	return uint32(math.Max(0, math.Min(q, limit)))
}

func dequantize(q uint32, offset, scale float32) float32 {
	return float32(float32(q)*scale) + offset
}

// fixed converts a slope to a signed fixed-point integer of the given bit
// width, saturating at the representable range.
func fixed(v float32, bits uint, one float64) int32 {
	lo := -float64(int32(1) << (bits - 1))
	hi := float64(int32(1)<<(bits-1) - 1)
	q := math.Round(float64(v) * one)

	return int32(math.Max(lo, math.Min(q, hi)))
}

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

func slopeScale(kind slopeKind) (bits uint, one float64) {
	if kind == slopeFixed12 {
		return 12, 32
	}

	return 16, 256
}

func writeKey(c *cursor.Cursor, lay layout, p Params, k Key) {
	if lay.floats {
		c.WriteF32(k.Frame)
		c.WriteF32(k.Value)
		switch {
		case lay.slope == slopeFloat && lay.unified:
			c.WriteF32(k.OutSlope)
		case lay.slope == slopeFloat:
			c.WriteF32(k.InSlope)
			c.WriteF32(k.OutSlope)
		}

		return
	}

	frame := quantize(k.Frame, 0, p.FrameScale, lay.frameBits)
	value := quantize(k.Value, p.ValueOffset, p.ValueScale, lay.valueBits)
	bits, one := slopeScale(lay.slope)
	in := uint32(fixed(k.InSlope, bits, one)) & maxQ(bits)
	out := uint32(fixed(k.OutSlope, bits, one)) & maxQ(bits)

	switch lay.size {
	case 8: // Hermite64
		c.WriteU32(frame | value<<12)
		c.WriteU16(uint16(in))
		c.WriteU16(uint16(out))
	case 6:
		if lay.unified { // UnifiedHermite48
			c.WriteU16(uint16(frame))
			c.WriteU16(uint16(value))
			c.WriteU16(uint16(out))

			return
		}
		// Hermite48: frame:8 value:16 in:12 out:12 as three 16-bit words.
		packed := uint64(frame) | uint64(value)<<8 | uint64(in)<<24 | uint64(out)<<36
		c.WriteU16(uint16(packed))
		c.WriteU16(uint16(packed >> 16))
		c.WriteU16(uint16(packed >> 32))
	case 4:
		if lay.slope == slopeNone { // StepLinear32
			c.WriteU32(frame | value<<12)
			return
		}
		// UnifiedHermite32: frame:8 value:12 slope:12.
		c.WriteU32(frame | value<<8 | out<<20)
	}
}

func readKey(c *cursor.Cursor, lay layout, p Params) Key {
	if lay.floats {
		k := Key{Frame: c.ReadF32(), Value: c.ReadF32()}
		switch {
		case lay.slope == slopeFloat && lay.unified:
			k.InSlope = c.ReadF32()
			k.OutSlope = k.InSlope
		case lay.slope == slopeFloat:
			k.InSlope = c.ReadF32()
			k.OutSlope = c.ReadF32()
		}

		return k
	}

	var frame, value, in, out uint32
	switch lay.size {
	case 8:
		word := c.ReadU32()
		frame, value = word&maxQ(12), word>>12
		in, out = uint32(c.ReadU16()), uint32(c.ReadU16())
	case 6:
		if lay.unified {
			frame, value = uint32(c.ReadU16()), uint32(c.ReadU16())
			in = uint32(c.ReadU16())
			out = in

			break
		}
		packed := uint64(c.ReadU16()) | uint64(c.ReadU16())<<16 | uint64(c.ReadU16())<<32
		frame = uint32(packed & 0xFF)
		value = uint32(packed>>8) & 0xFFFF
		in = uint32(packed>>24) & 0xFFF
		out = uint32(packed>>36) & 0xFFF
	case 4:
		word := c.ReadU32()
		if lay.slope == slopeNone {
			frame, value = word&maxQ(12), word>>12

			break
		}
		frame, value = word&0xFF, word>>8&0xFFF
		in = word >> 20
		out = in
	}

	k := Key{
		Frame: dequantize(frame, 0, p.FrameScale),
		Value: dequantize(value, p.ValueOffset, p.ValueScale),
	}
	if lay.slope != slopeNone {
		bits, one := slopeScale(lay.slope)
		k.InSlope = float32(float64(signExtend(in, bits)) / one)
		k.OutSlope = float32(float64(signExtend(out, bits)) / one)
	}

	return k
}
