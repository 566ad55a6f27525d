package schema

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
)

// Kind classifies a field descriptor.
type Kind uint8

const (
	KindScalar Kind = iota
	KindInline
	KindList
	KindRef
	KindString
	KindTagged
	KindPad
	KindAlign
	KindEmbed
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindInline:
		return "Inline"
	case KindList:
		return "List"
	case KindRef:
		return "Ref"
	case KindString:
		return "String"
	case KindTagged:
		return "Tagged"
	case KindPad:
		return "Pad"
	case KindAlign:
		return "Align"
	case KindEmbed:
		return "Embed"
	default:
		return "Unknown"
	}
}

// Record is implemented by every type handled by the declarative codec.
type Record interface {
	Layout(l *Layout)
}

// RGBA is a packed 8-bit-per-channel color.
type RGBA struct {
	R, G, B, A uint8
}

// Cond gates a field on the stream version.
type Cond struct {
	Op      format.CmpOp
	Version uint32
	set     bool
}

// Holds reports whether the gated field is present at version.
func (c Cond) Holds(version uint32) bool {
	return !c.set || c.Op.Eval(version, c.Version)
}

// Field is one field descriptor.
type Field struct {
	Name   string
	Kind   Kind
	Cond   Cond
	decode func(d *Decoder) error
	encode func(e *Encoder) error
}

// Layout is the ordered descriptor list of a record.
type Layout struct {
	fields  []Field
	pending Cond
}

// Fields returns the declared descriptors in wire order.
func (l *Layout) Fields() []Field { return l.fields }

// When gates the next declared field on "version op threshold".
func (l *Layout) When(op format.CmpOp, threshold uint32) *Layout {
	l.pending = Cond{Op: op, Version: threshold, set: true}
	return l
}

// Add appends a descriptor built outside this package.
func (l *Layout) Add(name string, kind Kind, decode func(d *Decoder) error, encode func(e *Encoder) error) {
	l.fields = append(l.fields, Field{Name: name, Kind: kind, Cond: l.pending, decode: decode, encode: encode})
	l.pending = Cond{}
}

func (l *Layout) scalar(name string, decode func(d *Decoder), encode func(e *Encoder)) {
	l.Add(name, KindScalar,
		func(d *Decoder) error { decode(d); return nil },
		func(e *Encoder) error { encode(e); return nil })
}

func (l *Layout) U8(name string, v *uint8) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadU8() }, func(e *Encoder) { e.Cursor().WriteU8(*v) })
}

func (l *Layout) I8(name string, v *int8) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadI8() }, func(e *Encoder) { e.Cursor().WriteI8(*v) })
}

func (l *Layout) U16(name string, v *uint16) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadU16() }, func(e *Encoder) { e.Cursor().WriteU16(*v) })
}

func (l *Layout) I16(name string, v *int16) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadI16() }, func(e *Encoder) { e.Cursor().WriteI16(*v) })
}

func (l *Layout) U32(name string, v *uint32) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadU32() }, func(e *Encoder) { e.Cursor().WriteU32(*v) })
}

func (l *Layout) I32(name string, v *int32) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadI32() }, func(e *Encoder) { e.Cursor().WriteI32(*v) })
}

func (l *Layout) F32(name string, v *float32) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadF32() }, func(e *Encoder) { e.Cursor().WriteF32(*v) })
}

func (l *Layout) Bool8(name string, v *bool) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadBool8() }, func(e *Encoder) { e.Cursor().WriteBool8(*v) })
}

func (l *Layout) Bool32(name string, v *bool) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadBool32() }, func(e *Encoder) { e.Cursor().WriteBool32(*v) })
}

func (l *Layout) Vec2(name string, v *mgl32.Vec2) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadVec2() }, func(e *Encoder) { e.Cursor().WriteVec2(*v) })
}

func (l *Layout) Vec3(name string, v *mgl32.Vec3) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadVec3() }, func(e *Encoder) { e.Cursor().WriteVec3(*v) })
}

func (l *Layout) Vec4(name string, v *mgl32.Vec4) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadVec4() }, func(e *Encoder) { e.Cursor().WriteVec4(*v) })
}

func (l *Layout) Quat(name string, v *mgl32.Quat) {
	l.scalar(name, func(d *Decoder) { *v = d.c.ReadQuat() }, func(e *Encoder) { e.Cursor().WriteQuat(*v) })
}

func (l *Layout) RGBA(name string, v *RGBA) {
	l.scalar(name,
		func(d *Decoder) { *v = RGBA{R: d.c.ReadU8(), G: d.c.ReadU8(), B: d.c.ReadU8(), A: d.c.ReadU8()} },
		func(e *Encoder) {
			c := e.Cursor()
			c.WriteU8(v.R)
			c.WriteU8(v.G)
			c.WriteU8(v.B)
			c.WriteU8(v.A)
		})
}

// Magic declares a four-byte constant. Decoding a different value fails with
// errs.ErrBadMagic.
func (l *Layout) Magic(name string, magic string) {
	l.Add(name, KindScalar,
		func(d *Decoder) error {
			got := d.c.ReadBytes(4)
			if d.c.Err() == nil && string(got) != magic {
				return fmt.Errorf("got %q, want %q: %w", got, magic, errs.ErrBadMagic)
			}

			return nil
		},
		func(e *Encoder) error {
			e.Cursor().WriteBytes([]byte(magic))
			return nil
		})
}

// Bytes declares an inline fixed-length byte array. Encoding a slice of a
// different non-zero length fails; a nil slice writes zeros.
func (l *Layout) Bytes(name string, v *[]byte, n int) {
	l.Add(name, KindInline,
		func(d *Decoder) error {
			*v = d.c.ReadBytes(n)
			return nil
		},
		func(e *Encoder) error {
			switch len(*v) {
			case 0:
				e.Cursor().WriteZeros(n)
			case n:
				e.Cursor().WriteBytes(*v)
			default:
				return fmt.Errorf("inline bytes: have %d, want %d: %w", len(*v), n, errs.ErrMalformedRecord)
			}

			return nil
		})
}

// Pad declares n bytes of padding, skipped on decode and zero-filled on encode.
func (l *Layout) Pad(n int) {
	l.Add(fmt.Sprintf("pad%d", n), KindPad,
		func(d *Decoder) error { return d.c.Skip(n) },
		func(e *Encoder) error {
			e.Cursor().WriteZeros(n)
			return nil
		})
}

// Align declares padding up to the next multiple of n, measured from the
// start of the section.
func (l *Layout) Align(n int) {
	l.Add(fmt.Sprintf("align%d", n), KindAlign,
		func(d *Decoder) error {
			d.c.Align(n, 0)
			return nil
		},
		func(e *Encoder) error {
			e.Cursor().Align(n, 0)
			return nil
		})
}

// String declares a pointer to a zero-terminated string in the string
// section. The empty string is stored as a null pointer.
func (l *Layout) String(name string, v *string) {
	l.Add(name, KindString,
		func(d *Decoder) error {
			s, err := d.ReadString()
			*v = s

			return err
		},
		func(e *Encoder) error {
			e.WriteString(*v)
			return nil
		})
}

// Embed declares a nested record stored inline.
func (l *Layout) Embed(name string, r Record) {
	l.Add(name, KindEmbed,
		func(d *Decoder) error { return d.Decode(r) },
		func(e *Encoder) error { return e.Encode(r) })
}

// Enum8 declares a one-byte field of a named integer type.
func Enum8[T ~uint8](l *Layout, name string, v *T) {
	l.scalar(name, func(d *Decoder) { *v = T(d.c.ReadU8()) }, func(e *Encoder) { e.Cursor().WriteU8(uint8(*v)) })
}

// Enum16 declares a two-byte field of a named integer type.
func Enum16[T ~uint16](l *Layout, name string, v *T) {
	l.scalar(name, func(d *Decoder) { *v = T(d.c.ReadU16()) }, func(e *Encoder) { e.Cursor().WriteU16(uint16(*v)) })
}

// Enum32 declares a four-byte field of a named integer type.
func Enum32[T ~uint32](l *Layout, name string, v *T) {
	l.scalar(name, func(d *Decoder) { *v = T(d.c.ReadU32()) }, func(e *Encoder) { e.Cursor().WriteU32(uint32(*v)) })
}
