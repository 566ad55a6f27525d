package schema

import (
	"fmt"

	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/reloc"
)

// List declares a pointer-indirected variable-length collection: an element
// count and a pointer to the contiguous elements, in the dialect's order.
func List[T any](l *Layout, name string, v *[]T, elem Elem[T]) {
	l.Add(name, KindList,
		func(d *Decoder) error {
			items, err := decodeList(d, elem)
			*v = items

			return err
		},
		func(e *Encoder) error {
			return encodeList(e, *v, elem)
		})
}

func decodeList[T any](d *Decoder, elem Elem[T]) ([]T, error) {
	var count, raw uint32
	var slot int
	if d.dialect.CountFirst {
		count = d.c.ReadU32()
		slot = d.c.Tell()
		raw = d.c.ReadU32()
	} else {
		slot = d.c.Tell()
		raw = d.c.ReadU32()
		count = d.c.ReadU32()
	}
	if err := d.c.Err(); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	if int64(count) > int64(d.c.Len()) {
		return nil, fmt.Errorf("element count %d exceeds buffer: %w", count, errs.ErrMalformedRecord)
	}

	abs, ok, err := d.resolver.Resolve(raw, slot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%d elements behind a null pointer: %w", count, errs.ErrMalformedRecord)
	}

	items := make([]T, 0, count)
	err = d.c.WithPosition(abs, func() error {
		return readN(d, elem, int(count), &items)
	})

	return items, err
}

func readN[T any](d *Decoder, elem Elem[T], n int, items *[]T) error {
	for i := range n {
		v, err := elem.Read(d)
		if err == nil {
			err = d.c.Err()
		}
		if err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
		*items = append(*items, v)
	}

	return nil
}

func writeAll[T any](e *Encoder, elem Elem[T], items []T) error {
	for i, v := range items {
		if err := elem.Write(e, v); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}

	return nil
}

func encodeList[T any](e *Encoder, items []T, elem Elem[T]) error {
	var ptr reloc.Pointer
	if len(items) > 0 {
		ptr = e.Defer(e.Dialect().RecordTarget(), func(e *Encoder) error {
			return writeAll(e, elem, items)
		})
	}

	c := e.Cursor()
	if e.dialect.CountFirst {
		c.WriteU32(uint32(len(items)))
		e.WritePointer(ptr)
	} else {
		e.WritePointer(ptr)
		c.WriteU32(uint32(len(items)))
	}

	return nil
}

// Inline declares a fixed-length array stored inline. Encoding a nil slice
// writes zeros when the element size is known.
func Inline[T any](l *Layout, name string, v *[]T, n int, elem Elem[T]) {
	l.Add(name, KindInline,
		func(d *Decoder) error {
			items := make([]T, 0, n)
			err := readN(d, elem, n, &items)
			*v = items

			return err
		},
		func(e *Encoder) error {
			if len(*v) == 0 && elem.Size > 0 {
				e.Cursor().WriteZeros(n * elem.Size)
				return nil
			}
			if len(*v) != n {
				return fmt.Errorf("inline array: have %d, want %d: %w", len(*v), n, errs.ErrMalformedRecord)
			}

			return writeAll(e, elem, *v)
		})
}

// Ref declares an optional pointer to a record.
func Ref[T any, P RecordPtr[T]](l *Layout, name string, v *P) {
	l.Add(name, KindRef,
		func(d *Decoder) error {
			*v = nil
			_, err := d.Follow(func() error {
				p := P(new(T))
				*v = p

				return d.Decode(p)
			})

			return err
		},
		func(e *Encoder) error {
			if (*T)(*v) == nil {
				e.WritePointer(reloc.Pointer{})
				return nil
			}
			rec := *v
			e.WritePointer(e.Defer(e.Dialect().RecordTarget(), func(e *Encoder) error {
				return e.Encode(rec)
			}))

			return nil
		})
}

// Tagged declares an optional pointer to a tagged record whose 32-bit tag
// is the first word of the pointed-to record.
func Tagged[T TaggedRecord](l *Layout, name string, v *T, table *dispatch.Table[T]) {
	elem := TaggedOf(table)
	l.Add(name, KindTagged,
		func(d *Decoder) error {
			var zero T
			*v = zero
			_, err := d.Follow(func() error {
				rec, err := elem.Read(d)
				*v = rec

				return err
			})

			return err
		},
		func(e *Encoder) error {
			if any(*v) == nil {
				e.WritePointer(reloc.Pointer{})
				return nil
			}
			rec := *v
			if _, err := table.TagFor(rec); err != nil {
				return err
			}
			e.WritePointer(e.Defer(e.Dialect().RecordTarget(), func(e *Encoder) error {
				return elem.Write(e, rec)
			}))

			return nil
		})
}

// ExternalTag declares a tag field of width 1, 2 or 4 bytes held by the
// parent record for a slot declared later with TaggedRef or TaggedInline.
// Decoding allocates the variant; encoding writes the tag of the slot's
// runtime variant.
func ExternalTag[T TaggedRecord](l *Layout, name string, v *T, table *dispatch.Table[T], width int) {
	l.Add(name, KindTagged,
		func(d *Decoder) error {
			var tag uint32
			switch width {
			case 1:
				tag = uint32(d.c.ReadU8())
			case 2:
				tag = uint32(d.c.ReadU16())
			default:
				tag = d.c.ReadU32()
			}
			if err := d.c.Err(); err != nil {
				return err
			}
			rec, err := table.New(tag)
			*v = rec

			return err
		},
		func(e *Encoder) error {
			if any(*v) == nil {
				return fmt.Errorf("%s: empty slot has no tag: %w", table.Name(), errs.ErrUnregisteredType)
			}
			tag, err := table.TagFor(*v)
			if err != nil {
				return err
			}
			if width < 4 && tag>>(8*width) != 0 {
				return fmt.Errorf("%s tag %#x wider than %d bytes: %w", table.Name(), tag, width, errs.ErrMalformedRecord)
			}

			c := e.Cursor()
			switch width {
			case 1:
				c.WriteU8(uint8(tag))
			case 2:
				c.WriteU16(uint16(tag))
			default:
				c.WriteU32(tag)
			}

			return nil
		})
}

// TaggedRef declares a pointer to the body of a record whose tag was read
// by an earlier ExternalTag field. A null pointer clears the slot.
func TaggedRef[T TaggedRecord](l *Layout, name string, v *T) {
	l.Add(name, KindRef,
		func(d *Decoder) error {
			rec := *v
			if any(rec) == nil {
				return fmt.Errorf("pointer without a preceding tag: %w", errs.ErrMalformedRecord)
			}
			ok, err := d.Follow(func() error { return d.Decode(rec) })
			if !ok && err == nil {
				var zero T
				*v = zero
			}

			return err
		},
		func(e *Encoder) error {
			if any(*v) == nil {
				e.WritePointer(reloc.Pointer{})
				return nil
			}
			rec := *v
			e.WritePointer(e.Defer(e.Dialect().RecordTarget(), func(e *Encoder) error {
				return e.Encode(rec)
			}))

			return nil
		})
}

// TaggedInline declares the inline body of a record whose tag was read by an
// earlier ExternalTag field.
func TaggedInline[T TaggedRecord](l *Layout, name string, v *T) {
	l.Add(name, KindTagged,
		func(d *Decoder) error {
			if any(*v) == nil {
				return fmt.Errorf("inline body without a preceding tag: %w", errs.ErrMalformedRecord)
			}

			return d.Decode(*v)
		},
		func(e *Encoder) error {
			if any(*v) == nil {
				return fmt.Errorf("empty inline body: %w", errs.ErrMalformedRecord)
			}

			return e.Encode(*v)
		})
}
