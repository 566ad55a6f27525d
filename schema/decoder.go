package schema

import (
	"fmt"

	"github.com/arloliu/ctrbin/cursor"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/reloc"
)

// Decoder reads records from a cursor positioned over a whole container.
type Decoder struct {
	c        *cursor.Cursor
	dialect  Dialect
	resolver reloc.Resolver
	version  uint32
	depth    int
}

// NewDecoder creates a decoder for a container of the given dialect and
// stream version. For section-relative dialects the relocation table must
// already have been applied to the cursor's buffer.
func NewDecoder(c *cursor.Cursor, dialect Dialect, version uint32) *Decoder {
	return &Decoder{
		c:       c,
		dialect: dialect,
		version: version,
		resolver: reloc.Resolver{
			Mode:     dialect.Mode,
			Size:     c.Len(),
			FlagMask: dialect.FlagMask,
		},
	}
}

// Cursor returns the underlying cursor.
func (d *Decoder) Cursor() *cursor.Cursor { return d.c }

// Dialect returns the container conventions.
func (d *Decoder) Dialect() Dialect { return d.dialect }

// Version returns the stream version used by version-gated fields.
func (d *Decoder) Version() uint32 { return d.version }

// Resolver returns the pointer resolver.
func (d *Decoder) Resolver() reloc.Resolver { return d.resolver }

// Decode reads r at the current position. Version conditions are evaluated
// once, before the first field is read.
func (d *Decoder) Decode(r Record) error {
	if d.depth >= MaxDepth {
		return fmt.Errorf("%T: nesting deeper than %d: %w", r, MaxDepth, errs.ErrMalformedRecord)
	}
	d.depth++
	defer func() { d.depth-- }()

	custom, isCustom := r.(CustomLayout)
	if isCustom {
		if err := checkStrategy(custom); err != nil {
			return err
		}
	}

	var l Layout
	r.Layout(&l)

	for _, f := range active(l.fields, d.version) {
		err := f.decode(d)
		if err == nil {
			err = d.c.Err()
		}
		if err != nil {
			return fmt.Errorf("%T.%s: %w", r, f.Name, err)
		}
	}

	if isCustom {
		err := custom.DecodeLayout(d)
		if err == nil {
			err = d.c.Err()
		}
		if err != nil {
			return fmt.Errorf("%T: %s layout: %w", r, custom.Strategy(), err)
		}
	}

	return nil
}

// ReadPointer reads a pointer at the current position and resolves it.
func (d *Decoder) ReadPointer() (raw uint32, abs int, ok bool, err error) {
	slot := d.c.Tell()
	raw = d.c.ReadU32()
	if err = d.c.Err(); err != nil {
		return raw, 0, false, err
	}
	abs, ok, err = d.resolver.Resolve(raw, slot)

	return raw, abs, ok, err
}

// Follow reads a pointer and, unless it is null, runs fn with the cursor at
// the target. The cursor position after the pointer is restored afterwards.
func (d *Decoder) Follow(fn func() error) (bool, error) {
	_, abs, ok, err := d.ReadPointer()
	if err != nil || !ok {
		return false, err
	}

	return true, d.c.WithPosition(abs, fn)
}

// ReadString reads a string pointer. A null pointer yields "".
func (d *Decoder) ReadString() (string, error) {
	var s string
	_, err := d.Follow(func() error {
		s = d.c.ReadCString()
		return d.c.Err()
	})

	return s, err
}

func active(fields []Field, version uint32) []Field {
	out := fields[:0:0]
	for _, f := range fields {
		if f.Cond.Holds(version) {
			out = append(out, f)
		}
	}

	return out
}
