package layout

import (
	"fmt"

	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/schema"
)

// Blob is a length-prefixed byte payload stored out of line. Where the
// payload goes is chosen by the enclosing record through At; without a
// target it joins the dialect's record section.
type Blob struct {
	Data []byte

	length uint32
	target schema.Target
}

var _ schema.CustomLayout = (*Blob)(nil)

// At sets the payload target and returns b, so records can declare
// l.Embed("Image", r.Image.At(target)).
func (b *Blob) At(target schema.Target) *Blob {
	b.target = target
	return b
}

func (b *Blob) Layout(l *schema.Layout) {
	l.U32("Length", &b.length)
}

func (*Blob) Strategy() schema.Strategy { return schema.StrategyRawBlob }

func (b *Blob) DecodeLayout(d *schema.Decoder) error {
	c := d.Cursor()
	_, abs, ok, err := d.ReadPointer()
	if err != nil {
		return err
	}

	b.Data = nil
	if !ok {
		if b.length != 0 {
			return fmt.Errorf("blob of %d bytes behind null pointer: %w", b.length, errs.ErrMalformedRecord)
		}

		return nil
	}
	if int64(abs)+int64(b.length) > int64(c.Len()) {
		return fmt.Errorf("blob of %d bytes at %#x: %w", b.length, abs, errs.ErrMalformedRecord)
	}

	return c.WithPosition(abs, func() error {
		b.Data = c.ReadBytes(int(b.length))
		return c.Err()
	})
}

func (b *Blob) EncodeLayout(e *schema.Encoder) (bool, error) {
	c := e.Cursor()
	b.length = uint32(len(b.Data))
	c.WriteU32(b.length)

	if len(b.Data) == 0 {
		c.WriteU32(0)
		return true, c.Err()
	}

	target := b.target
	if target.Section == format.SectionHeader {
		target = e.Dialect().RecordTarget()
	}
	if target.Align == 0 {
		target.Align = 4
	}
	data := b.Data
	e.WritePointer(e.Defer(target, func(e *schema.Encoder) error {
		e.Cursor().WriteBytes(data)
		return nil
	}))

	return true, c.Err()
}
