package gfx

import (
	"fmt"
	"reflect"

	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/internal/patricia"
	"github.com/arloliu/ctrbin/reloc"
	"github.com/arloliu/ctrbin/schema"
	"github.com/arloliu/ctrbin/section"
)

// dictHeadSize covers the magic, byte length and entry count.
const (
	dictHeadSize = 12
	dictNodeSize = 16
)

// named is implemented by every value stored in a dictionary.
type named interface {
	dictKey() string
}

// dict declares a dictionary descriptor: an entry count and a pointer to a
// DICT block holding the search tree and one value per entry. Entry names
// come from the values themselves.
func dict[T named](l *schema.Layout, name string, v *[]T, elem schema.Elem[T]) {
	l.Add(name, schema.KindList,
		func(d *schema.Decoder) error {
			count := d.Cursor().ReadU32()
			var items []T
			followed, err := d.Follow(func() error {
				var err error
				items, err = readDict(d, count, elem)

				return err
			})
			if err != nil {
				return err
			}
			if !followed && count != 0 {
				return fmt.Errorf("%d entries behind null pointer: %w", count, errs.ErrMalformedRecord)
			}
			*v = items

			return nil
		},
		func(e *schema.Encoder) error {
			return writeDict(e, *v, elem)
		})
}

func readDict[T named](d *schema.Decoder, count uint32, elem schema.Elem[T]) ([]T, error) {
	c := d.Cursor()
	start := c.Tell()
	magic := c.ReadBytes(4)
	_ = c.ReadU32() // byte length
	n := c.ReadU32()
	if err := c.Err(); err != nil {
		return nil, err
	}
	if string(magic) != section.GfxDictMagic {
		return nil, fmt.Errorf("dictionary magic %q: %w", magic, errs.ErrBadMagic)
	}
	if n != count {
		return nil, fmt.Errorf("dictionary holds %d entries, descriptor says %d: %w", n, count, errs.ErrMalformedRecord)
	}
	if int64(start)+dictHeadSize+int64(n+1)*dictNodeSize > int64(c.Len()) {
		return nil, fmt.Errorf("dictionary of %d entries at %#x: %w", n, start, errs.ErrMalformedRecord)
	}

	nodes := make([]patricia.Node, 0, n+1)
	items := make([]T, 0, n)
	for i := range int(n) + 1 {
		var node patricia.Node
		node.Ref = c.ReadU32()
		node.Left = c.ReadU16()
		node.Right = c.ReadU16()
		name, err := d.ReadString()
		if err != nil {
			return nil, fmt.Errorf("node %d name: %w", i, err)
		}
		node.Name = name
		nodes = append(nodes, node)

		if i == 0 {
			_ = c.ReadU32() // root has no value
			continue
		}
		if c.PeekU32() == 0 {
			return nil, fmt.Errorf("entry %q has no value: %w", name, errs.ErrMalformedRecord)
		}

		item, err := elem.Read(d)
		if err == nil {
			err = c.Err()
		}
		if err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		if got, _ := key(item); got != name {
			return nil, fmt.Errorf("entry %q names its value %q: %w", name, got, errs.ErrMalformedRecord)
		}
		items = append(items, item)
	}

	if _, err := patricia.FromNodes(nodes); err != nil {
		return nil, err
	}

	return items, nil
}

func writeDict[T named](e *schema.Encoder, items []T, elem schema.Elem[T]) error {
	e.Cursor().WriteU32(uint32(len(items)))
	if len(items) == 0 {
		e.WritePointer(reloc.Pointer{})
		return nil
	}

	names, err := keys(items)
	if err != nil {
		return err
	}
	tree, err := patricia.Build(names)
	if err != nil {
		return err
	}

	e.WritePointer(e.Defer(e.Dialect().RecordTarget(), func(e *schema.Encoder) error {
		c := e.Cursor()
		c.WriteBytes([]byte(section.GfxDictMagic))
		c.WriteU32(uint32(dictHeadSize + dictNodeSize*(len(items)+1)))
		c.WriteU32(uint32(len(items)))

		for i, node := range tree.Nodes() {
			c.WriteU32(node.Ref)
			c.WriteU16(node.Left)
			c.WriteU16(node.Right)
			e.WriteString(node.Name)
			if i == 0 {
				c.WriteU32(0)
				continue
			}
			if err := elem.Write(e, items[i-1]); err != nil {
				return fmt.Errorf("%q: %w", node.Name, err)
			}
		}

		return nil
	}))

	return nil
}

// key returns the dictionary name of v, or false when v is nil.
func key[T named](v T) (string, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return "", false
	}

	return v.dictKey(), true
}

func keys[T named](items []T) ([]string, error) {
	names := make([]string, len(items))
	for i, item := range items {
		name, ok := key(item)
		if !ok {
			return nil, fmt.Errorf("nil %T dictionary entry %d: %w", item, i, errs.ErrMalformedRecord)
		}
		names[i] = name
	}

	return names, nil
}

// find looks name up through the dictionary search tree of items.
func find[T named](items []T, name string) (T, bool) {
	var zero T
	names, err := keys(items)
	if err != nil {
		return zero, false
	}
	tree, err := patricia.Build(names)
	if err != nil {
		return zero, false
	}
	idx, ok := tree.Find(name)
	if !ok {
		return zero, false
	}

	return items[idx], true
}
