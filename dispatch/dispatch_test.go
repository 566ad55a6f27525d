package dispatch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctrbin/errs"
)

type shape interface {
	Tagged
	area() float32
}

type square struct{ side float32 }

func (*square) Variant() Variant { return "square" }
func (s *square) area() float32 { return s.side * s.side }

// marker shares one Go type across several tags and remembers which one it
// was decoded from.
type marker struct{ subtype uint32 }

func (m *marker) Variant() Variant { return Variant(fmt.Sprintf("marker/%#x", m.subtype)) }
func (*marker) area() float32 { return 0 }

type unknown struct{}

func (*unknown) Variant() Variant { return "unknown" }
func (*unknown) area() float32 { return 0 }

func newShapes() *Table[shape] {
	t := NewTable[shape]("shape").
		Register("square", func(uint32) shape { return &square{} }, 0x10, 0x11)

	for _, sub := range []uint32{0x100, 0x200} {
		t.Register(Variant(fmt.Sprintf("marker/%#x", sub)), func(tag uint32) shape { return &marker{subtype: tag} }, sub)
	}

	return t
}

func TestTable_New(t *testing.T) {
	shapes := newShapes()

	v, err := shapes.New(0x10)
	require.NoError(t, err)
	require.IsType(t, &square{}, v)

	v, err = shapes.New(0x11)
	require.NoError(t, err)
	require.IsType(t, &square{}, v, "alias tags decode to the same variant")

	v, err = shapes.New(0x200)
	require.NoError(t, err)
	require.Equal(t, &marker{subtype: 0x200}, v)

	_, err = shapes.New(0x999)
	require.ErrorIs(t, err, errs.ErrUnrecognizedTag)
}

func TestTable_TagFor(t *testing.T) {
	shapes := newShapes()

	tests := []struct {
		name string
		v    shape
		tag  uint32
	}{
		{"Canonical tag", &square{side: 2}, 0x10},
		{"Shared type first subtype", &marker{subtype: 0x100}, 0x100},
		{"Shared type second subtype", &marker{subtype: 0x200}, 0x200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := shapes.TagFor(tt.v)
			require.NoError(t, err)
			require.Equal(t, tt.tag, tag)
		})
	}

	t.Run("Unregistered variant", func(t *testing.T) {
		_, err := shapes.TagFor(&unknown{})
		require.ErrorIs(t, err, errs.ErrUnregisteredType)
	})

	t.Run("Nil value", func(t *testing.T) {
		_, err := shapes.TagFor(nil)
		require.ErrorIs(t, err, errs.ErrUnregisteredType)
	})
}

func TestTable_TagFidelity(t *testing.T) {
	shapes := newShapes()

	for _, tag := range []uint32{0x10, 0x100, 0x200} {
		v, err := shapes.New(tag)
		require.NoError(t, err)

		got, err := shapes.TagFor(v)
		require.NoError(t, err)
		require.Equal(t, tag, got)
	}
	require.Equal(t, []uint32{0x10, 0x11, 0x100, 0x200}, shapes.Tags())

	variant, ok := shapes.VariantOf(0x11)
	require.True(t, ok)
	require.Equal(t, Variant("square"), variant)
}

func TestTable_RegisterPanics(t *testing.T) {
	require.Panics(t, func() {
		newShapes().Register("other", func(uint32) shape { return &square{} }, 0x10)
	})
	require.Panics(t, func() {
		newShapes().Register("square", func(uint32) shape { return &square{} }, 0x50)
	})
	require.Panics(t, func() {
		newShapes().Register("empty", func(uint32) shape { return &square{} })
	})
}
