package schema

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/errs"
)

// Elem describes how one collection element is read and written.
type Elem[T any] struct {
	// Size is the encoded size of one element, or 0 when it varies.
	Size  int
	Read  func(d *Decoder) (T, error)
	Write func(e *Encoder, v T) error
}

// RecordPtr constrains P to a pointer to a record type T.
type RecordPtr[T any] interface {
	*T
	Record
}

// TaggedRecord is a record stored in a polymorphic slot.
type TaggedRecord interface {
	dispatch.Tagged
	Record
}

var (
	U8Elem = Elem[uint8]{
		Size:  1,
		Read:  func(d *Decoder) (uint8, error) { return d.c.ReadU8(), nil },
		Write: func(e *Encoder, v uint8) error { e.Cursor().WriteU8(v); return nil },
	}
	I8Elem = Elem[int8]{
		Size:  1,
		Read:  func(d *Decoder) (int8, error) { return d.c.ReadI8(), nil },
		Write: func(e *Encoder, v int8) error { e.Cursor().WriteI8(v); return nil },
	}
	U16Elem = Elem[uint16]{
		Size:  2,
		Read:  func(d *Decoder) (uint16, error) { return d.c.ReadU16(), nil },
		Write: func(e *Encoder, v uint16) error { e.Cursor().WriteU16(v); return nil },
	}
	U32Elem = Elem[uint32]{
		Size:  4,
		Read:  func(d *Decoder) (uint32, error) { return d.c.ReadU32(), nil },
		Write: func(e *Encoder, v uint32) error { e.Cursor().WriteU32(v); return nil },
	}
	I32Elem = Elem[int32]{
		Size:  4,
		Read:  func(d *Decoder) (int32, error) { return d.c.ReadI32(), nil },
		Write: func(e *Encoder, v int32) error { e.Cursor().WriteI32(v); return nil },
	}
	F32Elem = Elem[float32]{
		Size:  4,
		Read:  func(d *Decoder) (float32, error) { return d.c.ReadF32(), nil },
		Write: func(e *Encoder, v float32) error { e.Cursor().WriteF32(v); return nil },
	}
	Vec4Elem = Elem[mgl32.Vec4]{
		Size:  16,
		Read:  func(d *Decoder) (mgl32.Vec4, error) { return d.c.ReadVec4(), nil },
		Write: func(e *Encoder, v mgl32.Vec4) error { e.Cursor().WriteVec4(v); return nil },
	}
	// StringElem stores each element as a pointer into the string section.
	StringElem = Elem[string]{
		Size:  4,
		Read:  func(d *Decoder) (string, error) { return d.ReadString() },
		Write: func(e *Encoder, v string) error { e.WriteString(v); return nil },
	}
)

// RecordOf returns the element codec for records of type T stored inline.
func RecordOf[T any, P RecordPtr[T]]() Elem[P] {
	return Elem[P]{
		Read: func(d *Decoder) (P, error) {
			p := P(new(T))
			return p, d.Decode(p)
		},
		Write: func(e *Encoder, p P) error {
			if (*T)(p) == nil {
				return fmt.Errorf("nil %T element: %w", p, errs.ErrMalformedRecord)
			}

			return e.Encode(p)
		},
	}
}

// TaggedOf returns the element codec for tagged records stored inline with
// a leading 32-bit tag.
func TaggedOf[T TaggedRecord](table *dispatch.Table[T]) Elem[T] {
	return Elem[T]{
		Read: func(d *Decoder) (T, error) {
			tag := d.c.ReadU32()
			if err := d.c.Err(); err != nil {
				var zero T
				return zero, err
			}
			v, err := table.New(tag)
			if err != nil {
				return v, err
			}

			return v, d.Decode(v)
		},
		Write: func(e *Encoder, v T) error {
			tag, err := table.TagFor(v)
			if err != nil {
				return err
			}
			e.Cursor().WriteU32(tag)

			return e.Encode(v)
		},
	}
}

// Indirect stores each element as a pointer to a separately queued copy of
// elem. A null pointer decodes to the zero value.
func Indirect[T any](elem Elem[T]) Elem[T] {
	return Elem[T]{
		Size: 4,
		Read: func(d *Decoder) (T, error) {
			var out T
			_, err := d.Follow(func() error {
				v, err := elem.Read(d)
				out = v

				return err
			})

			return out, err
		},
		Write: func(e *Encoder, v T) error {
			ptr := e.Defer(e.Dialect().RecordTarget(), func(e *Encoder) error {
				return elem.Write(e, v)
			})
			e.WritePointer(ptr)

			return nil
		},
	}
}
