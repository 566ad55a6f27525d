// Package dispatch maps the integer type tags stored in a container to the
// record variants that implement them.
//
// Each polymorphic slot kind gets its own Table, built once at package
// initialization and read-only afterwards:
//
//	var lights = dispatch.NewTable[Light]("gfx light").
//		Register("gfx.FragmentLight", func(uint32) Light { return &FragmentLight{} }, 0x400000a2).
//		Register("gfx.AmbientLight", func(uint32) Light { return &AmbientLight{} }, 0x40000422)
//
// Decoding reads a tag and asks the table for a new zero value of the right
// variant. Encoding never trusts a stored tag: it asks the table for the tag
// of the value's runtime variant.
package dispatch

import (
	"fmt"
	"slices"

	"github.com/arloliu/ctrbin/errs"
)

// Variant names a concrete record variant. Distinct variants may share a Go
// type when they differ only by a subtype field.
type Variant string

// Tagged is implemented by every value stored in a polymorphic slot.
type Tagged interface {
	Variant() Variant
}

// Factory creates a zero value for the tag being decoded.
type Factory[T Tagged] func(tag uint32) T

type entry[T Tagged] struct {
	variant Variant
	factory Factory[T]
}

// Table is a bidirectional tag <-> variant mapping for one slot kind.
type Table[T Tagged] struct {
	name      string
	byTag     map[uint32]entry[T]
	byVariant map[Variant]uint32
}

// NewTable creates an empty table. name is used in error messages.
func NewTable[T Tagged](name string) *Table[T] {
	return &Table[T]{
		name:      name,
		byTag:     make(map[uint32]entry[T]),
		byVariant: make(map[Variant]uint32),
	}
}

// Register maps tags to variant. The first tag is the one written on encode;
// further tags are accepted on decode only. Register panics on duplicate tags
// or variants since tables are built at init time.
func (t *Table[T]) Register(variant Variant, factory Factory[T], tags ...uint32) *Table[T] {
	if len(tags) == 0 {
		panic(fmt.Sprintf("dispatch: %s: variant %s registered without tags", t.name, variant))
	}
	if _, dup := t.byVariant[variant]; dup {
		panic(fmt.Sprintf("dispatch: %s: variant %s registered twice", t.name, variant))
	}

	for _, tag := range tags {
		if prev, dup := t.byTag[tag]; dup {
			panic(fmt.Sprintf("dispatch: %s: tag %#x already maps to %s", t.name, tag, prev.variant))
		}
		t.byTag[tag] = entry[T]{variant: variant, factory: factory}
	}
	t.byVariant[variant] = tags[0]

	return t
}

// Name returns the slot kind name.
func (t *Table[T]) Name() string { return t.name }

// New returns a zero value of the variant registered for tag.
func (t *Table[T]) New(tag uint32) (T, error) {
	e, ok := t.byTag[tag]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s tag %#x: %w", t.name, tag, errs.ErrUnrecognizedTag)
	}

	return e.factory(tag), nil
}

// TagFor returns the canonical tag of v's runtime variant.
func (t *Table[T]) TagFor(v T) (uint32, error) {
	var variant Variant
	if any(v) != nil {
		variant = v.Variant()
	}

	tag, ok := t.byVariant[variant]
	if !ok {
		return 0, fmt.Errorf("%s variant %q: %w", t.name, variant, errs.ErrUnregisteredType)
	}

	return tag, nil
}

// VariantOf returns the variant registered for tag.
func (t *Table[T]) VariantOf(tag uint32) (Variant, bool) {
	e, ok := t.byTag[tag]
	return e.variant, ok
}

// Tags returns every registered tag in ascending order.
func (t *Table[T]) Tags() []uint32 {
	tags := make([]uint32, 0, len(t.byTag))
	for tag := range t.byTag {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	return tags
}
