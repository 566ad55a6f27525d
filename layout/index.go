package layout

import (
	"fmt"
	"slices"

	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/schema"
)

// WideIndices is set on an index buffer address when the indices are 16 bits wide.
const WideIndices uint32 = 0x80000000

// IndexBuffer is a list of vertex indices stored as 8-bit values when every
// index fits, and as 16-bit values otherwise. The address is relocated with
// format.RelocRawDataIndex8 or format.RelocRawDataIndex16 accordingly.
type IndexBuffer struct {
	Indices []uint16
}

var _ schema.CustomLayout = (*IndexBuffer)(nil)

// Wide reports whether the indices need 16 bits.
func (b *IndexBuffer) Wide() bool {
	return len(b.Indices) > 0 && slices.Max(b.Indices) > 0xFF
}

// Layout is empty: both words are handled by the custom codec, since the
// element width lives in the address flag bits.
func (*IndexBuffer) Layout(*schema.Layout) {}

func (*IndexBuffer) Strategy() schema.Strategy { return schema.StrategyIndexBuffer }

func (b *IndexBuffer) DecodeLayout(d *schema.Decoder) error {
	c := d.Cursor()
	raw, abs, ok, err := d.ReadPointer()
	if err != nil {
		return err
	}
	count := c.ReadU32()
	if err := c.Err(); err != nil {
		return err
	}

	b.Indices = nil
	if !ok || count == 0 {
		return nil
	}

	width := int64(1)
	if raw&WideIndices != 0 {
		width = 2
	}
	if int64(abs)+int64(count)*width > int64(c.Len()) {
		return fmt.Errorf("%d indices at %#x overrun buffer of %#x bytes: %w", count, abs, c.Len(), errs.ErrMalformedRecord)
	}

	return c.WithPosition(abs, func() error {
		b.Indices = make([]uint16, count)
		for i := range b.Indices {
			if width == 2 {
				b.Indices[i] = c.ReadU16()
			} else {
				b.Indices[i] = uint16(c.ReadU8())
			}
		}

		return c.Err()
	})
}

func (b *IndexBuffer) EncodeLayout(e *schema.Encoder) (bool, error) {
	c := e.Cursor()
	if len(b.Indices) == 0 {
		c.WriteU32(0)
		c.WriteU32(0)

		return true, c.Err()
	}

	target := schema.Target{Section: format.SectionRawData, Align: 4, Kind: format.RelocRawDataIndex8}
	wide := b.Wide()
	if wide {
		if e.Dialect().FlagMask&WideIndices == 0 {
			return true, fmt.Errorf("dialect %s cannot flag 16-bit indices: %w", e.Dialect().Name, errs.ErrMalformedRecord)
		}
		target.Kind = format.RelocRawDataIndex16
		target.Flags = WideIndices
	}

	indices := b.Indices
	e.WritePointer(e.Defer(target, func(e *schema.Encoder) error {
		c := e.Cursor()
		for _, idx := range indices {
			if wide {
				c.WriteU16(idx)
			} else {
				c.WriteU8(uint8(idx))
			}
		}

		return nil
	}))
	c.WriteU32(uint32(len(b.Indices)))

	return true, c.Err()
}
