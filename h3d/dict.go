package h3d

import (
	"fmt"
	"reflect"

	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/internal/patricia"
	"github.com/arloliu/ctrbin/reloc"
	"github.com/arloliu/ctrbin/schema"
)

const treeNodeSize = 12

type named interface {
	dictKey() string
}

// dict declares a contents dictionary: a pointer to the value pointer
// array, the entry count and a pointer to the search tree.
func dict[T named](l *schema.Layout, name string, v *[]T, elem schema.Elem[T]) {
	l.Add(name, schema.KindList,
		func(d *schema.Decoder) error {
			items, err := readDict(d, elem)
			if err != nil {
				return err
			}
			*v = items

			return nil
		},
		func(e *schema.Encoder) error {
			return writeDict(e, *v, elem)
		})
}

func readDict[T named](d *schema.Decoder, elem schema.Elem[T]) ([]T, error) {
	c := d.Cursor()
	_, values, hasValues, err := d.ReadPointer()
	if err != nil {
		return nil, err
	}
	count := c.ReadU32()
	_, tree, hasTree, err := d.ReadPointer()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	if !hasValues {
		return nil, fmt.Errorf("%d entries behind null pointer: %w", count, errs.ErrMalformedRecord)
	}
	if int64(values)+int64(count)*4 > int64(c.Len()) {
		return nil, fmt.Errorf("dictionary of %d entries at %#x: %w", count, values, errs.ErrMalformedRecord)
	}

	items := make([]T, 0, count)
	err = c.WithPosition(values, func() error {
		for i := range int(count) {
			if c.PeekU32() == 0 {
				return fmt.Errorf("entry %d has no value: %w", i, errs.ErrMalformedRecord)
			}
			item, err := elem.Read(d)
			if err == nil {
				err = c.Err()
			}
			if err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, item)
		}

		return nil
	})
	if err != nil || !hasTree {
		return items, err
	}

	if int64(tree)+int64(count+1)*treeNodeSize > int64(c.Len()) {
		return nil, fmt.Errorf("dictionary tree of %d nodes at %#x: %w", count+1, tree, errs.ErrMalformedRecord)
	}
	err = c.WithPosition(tree, func() error {
		nodes := make([]patricia.Node, 0, count+1)
		for i := range int(count) + 1 {
			var n patricia.Node
			n.Ref = c.ReadU32()
			n.Left = c.ReadU16()
			n.Right = c.ReadU16()
			name, err := d.ReadString()
			if err != nil {
				return fmt.Errorf("tree node %d: %w", i, err)
			}
			n.Name = name
			nodes = append(nodes, n)
		}
		if _, err := patricia.FromNodes(nodes); err != nil {
			return err
		}
		for i, item := range items {
			if got, _ := key(item); got != nodes[i+1].Name {
				return fmt.Errorf("tree node %q names entry %q: %w", nodes[i+1].Name, got, errs.ErrMalformedRecord)
			}
		}

		return nil
	})

	return items, err
}

func writeDict[T named](e *schema.Encoder, items []T, elem schema.Elem[T]) error {
	c := e.Cursor()
	if len(items) == 0 {
		e.WritePointer(reloc.Pointer{})
		c.WriteU32(0)
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

	target := e.Dialect().RecordTarget()
	e.WritePointer(e.Defer(target, func(e *schema.Encoder) error {
		for i, item := range items {
			if err := elem.Write(e, item); err != nil {
				return fmt.Errorf("%q: %w", names[i], err)
			}
		}

		return nil
	}))
	c.WriteU32(uint32(len(items)))
	e.WritePointer(e.Defer(target, func(e *schema.Encoder) error {
		c := e.Cursor()
		for _, n := range tree.Nodes() {
			c.WriteU32(n.Ref)
			c.WriteU16(n.Left)
			c.WriteU16(n.Right)
			e.WriteString(n.Name)
		}

		return nil
	}))

	return nil
}

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

// commands declares a command list in the commands section: a pointer and
// a word count.
func commands(l *schema.Layout, name string, v *[]uint32) {
	l.Add(name, schema.KindList,
		func(d *schema.Decoder) error {
			c := d.Cursor()
			_, abs, ok, err := d.ReadPointer()
			if err != nil {
				return err
			}
			n := c.ReadU32()
			*v = nil
			if n == 0 {
				return c.Err()
			}
			if !ok || int64(abs)+int64(n)*4 > int64(c.Len()) {
				return fmt.Errorf("command list of %d words at %#x: %w", n, abs, errs.ErrMalformedRecord)
			}

			return c.WithPosition(abs, func() error {
				words := make([]uint32, n)
				for i := range words {
					words[i] = c.ReadU32()
				}
				*v = words

				return c.Err()
			})
		},
		func(e *schema.Encoder) error {
			words := *v
			if len(words) == 0 {
				e.WritePointer(reloc.Pointer{})
				e.Cursor().WriteU32(0)

				return nil
			}
			e.WritePointer(e.Defer(commandsTarget, func(e *schema.Encoder) error {
				for _, w := range words {
					e.Cursor().WriteU32(w)
				}

				return nil
			}))
			e.Cursor().WriteU32(uint32(len(words)))

			return nil
		})
}
