package curve

import (
	"fmt"

	"github.com/arloliu/ctrbin/cursor"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/reloc"
	"github.com/arloliu/ctrbin/schema"
)

// Group flag bits.
const (
	FlagConstant  uint32 = 1 << 1
	FlagQuantized uint32 = 1 << 2
)

// Curve format flag bits, stored below the quantization ordinal.
const (
	formatSingleKey uint32 = 1 << 0
	formatLinear    uint32 = 1 << 2
	formatHermite   uint32 = 1 << 3
	formatShift            = 5
)

// Group is a set of curves animating one scalar or vector target.
type Group struct {
	StartFrame float32
	EndFrame   float32
	PreRepeat  format.LoopType
	PostRepeat format.LoopType
	Curves     []Curve

	flags uint32
}

var _ schema.CustomLayout = (*Group)(nil)

// Constant creates a group holding a single constant value.
func Constant(v float32) *Group {
	return &Group{Curves: []Curve{{Keys: []Key{{Value: v}}}}}
}

// IsConstant reports whether the group is stored as a single value.
func (g *Group) IsConstant() bool {
	return len(g.Curves) == 1 && len(g.Curves[0].Keys) < 2
}

// Layout declares the fixed group header.
func (g *Group) Layout(l *schema.Layout) {
	l.F32("StartFrame", &g.StartFrame)
	l.F32("EndFrame", &g.EndFrame)
	schema.Enum8(l, "PreRepeat", &g.PreRepeat)
	schema.Enum8(l, "PostRepeat", &g.PostRepeat)
	l.Pad(2)
	l.U32("Flags", &g.flags)
}

func (*Group) Strategy() schema.Strategy { return schema.StrategyCurve }

// DecodeLayout reads the constant value or the curve pointer table that
// follows the header.
func (g *Group) DecodeLayout(d *schema.Decoder) error {
	c := d.Cursor()

	if g.flags&FlagConstant != 0 {
		g.Curves = []Curve{{
			StartFrame: g.StartFrame,
			EndFrame:   g.EndFrame,
			Keys:       []Key{{Value: c.ReadF32()}},
		}}

		return c.Err()
	}

	count := c.ReadU32()
	if err := c.Err(); err != nil {
		return err
	}
	if int64(count)*4 > int64(c.Len()-c.Tell()) {
		return fmt.Errorf("curve count %d exceeds buffer: %w", count, errs.ErrMalformedRecord)
	}

	local := reloc.Resolver{Mode: reloc.SelfRelative, Size: c.Len()}
	g.Curves = make([]Curve, count)
	end := c.Tell() + int(count)*4
	for i := range g.Curves {
		slot := c.Tell()
		abs, ok, err := local.Resolve(c.ReadU32(), slot)
		if err != nil {
			return fmt.Errorf("curve %d: %w", i, err)
		}
		if !ok {
			continue
		}
		err = c.WithPosition(abs, func() error {
			err := readCurve(c, &g.Curves[i])
			c.Align(4, 0)
			end = max(end, c.Tell())

			return err
		})
		if err != nil {
			return fmt.Errorf("curve %d: %w", i, err)
		}
	}

	// Curve bodies follow the pointer table inline; continue after the last one.
	if err := c.Seek(end); err != nil {
		return err
	}

	return c.Err()
}

// EncodeLayout writes the whole group. A group whose only curve has fewer
// than two keys collapses to a constant.
func (g *Group) EncodeLayout(e *schema.Encoder) (bool, error) {
	c := e.Cursor()

	g.flags = FlagQuantized
	if g.IsConstant() {
		g.flags = FlagConstant
	}

	c.WriteF32(g.StartFrame)
	c.WriteF32(g.EndFrame)
	c.WriteU8(uint8(g.PreRepeat))
	c.WriteU8(uint8(g.PostRepeat))
	c.WriteU16(0)
	c.WriteU32(g.flags)

	if g.flags&FlagConstant != 0 {
		var v float32
		if keys := g.Curves[0].Keys; len(keys) == 1 {
			v = keys[0].Value
		}
		c.WriteF32(v)

		return true, c.Err()
	}

	c.WriteU32(uint32(len(g.Curves)))
	slots := make([]*reloc.LocalSlot, len(g.Curves))
	for i := range slots {
		slots[i] = e.Table().ReserveLocal(c)
	}

	for i := range g.Curves {
		if err := slots[i].PatchHere(); err != nil {
			return true, err
		}
		if err := writeCurve(c, &g.Curves[i]); err != nil {
			return true, fmt.Errorf("curve %d: %w", i, err)
		}
	}

	return true, c.Err()
}

func formatFlags(cv *Curve) uint32 {
	flags := uint32(cv.Quantization) << formatShift
	if len(cv.Keys) == 1 {
		flags |= formatSingleKey
	}
	switch {
	case !cv.Quantization.Stepped():
		flags |= formatHermite
	case cv.Linear:
		flags |= formatLinear
	}

	return flags
}

func writeCurve(c *cursor.Cursor, cv *Curve) error {
	lay, err := layoutOf(cv.Quantization)
	if err != nil {
		return err
	}
	p, err := DeriveParams(cv.Quantization, cv.Keys)
	if err != nil {
		return err
	}

	var invDuration float32
	if cv.EndFrame != 0 {
		invDuration = 1 / cv.EndFrame
	}

	c.WriteF32(cv.StartFrame)
	c.WriteF32(cv.EndFrame)
	c.WriteU32(formatFlags(cv))
	c.WriteU32(uint32(len(cv.Keys)))
	c.WriteF32(invDuration)
	if !lay.floats {
		c.WriteF32(p.ValueScale)
		c.WriteF32(p.ValueOffset)
		c.WriteF32(p.FrameScale)
	}
	for _, k := range cv.Keys {
		writeKey(c, lay, p, k)
	}
	c.Align(4, 0)

	return c.Err()
}

func readCurve(c *cursor.Cursor, cv *Curve) error {
	cv.StartFrame = c.ReadF32()
	cv.EndFrame = c.ReadF32()
	flags := c.ReadU32()
	count := c.ReadU32()
	_ = c.ReadF32() // inverse duration, derived from EndFrame
	if err := c.Err(); err != nil {
		return err
	}

	cv.Quantization = format.Quantization(flags >> formatShift)
	lay, err := layoutOf(cv.Quantization)
	if err != nil {
		return err
	}
	cv.Linear = cv.Quantization.Stepped() && flags&formatLinear != 0

	p := Params{ValueScale: 1, FrameScale: 1}
	if !lay.floats {
		p.ValueScale = c.ReadF32()
		p.ValueOffset = c.ReadF32()
		p.FrameScale = c.ReadF32()
	}

	if int64(count)*int64(lay.size) > int64(c.Len()-c.Tell()) {
		return fmt.Errorf("%d %s keys exceed buffer: %w", count, cv.Quantization, errs.ErrMalformedRecord)
	}

	cv.Keys = make([]Key, count)
	for i := range cv.Keys {
		cv.Keys[i] = readKey(c, lay, p)
	}

	return c.Err()
}
