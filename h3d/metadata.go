package h3d

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/schema"
)

// MetaData is the list of user values attached to a record.
type MetaData struct {
	Values []*MetaValue
}

func (m *MetaData) Layout(l *schema.Layout) {
	schema.List(l, "Values", &m.Values, schema.RecordOf[MetaValue]())
}

// MetaValue is one named value list. The list kind is stored as a 16-bit type.
type MetaValue struct {
	Name   string
	Values MetaValues
}

func (v *MetaValue) Layout(l *schema.Layout) {
	l.String("Name", &v.Name)
	schema.ExternalTag(l, "Type", &v.Values, metaValueTypes, 2)
	l.Pad(2)
	schema.TaggedInline(l, "Values", &v.Values)
}

// MetaValues is the typed value list of a MetaValue.
type MetaValues interface {
	schema.TaggedRecord
	metaValues()
}

type (
	MetaFloats  struct{ Values []float32 }
	MetaInts    struct{ Values []int32 }
	MetaStrings struct{ Values []string }
	MetaVectors struct{ Values []mgl32.Vec4 }
)

func (*MetaFloats) metaValues()  {}
func (*MetaInts) metaValues()    {}
func (*MetaStrings) metaValues() {}
func (*MetaVectors) metaValues() {}

func (*MetaFloats) Variant() dispatch.Variant  { return "h3d.MetaFloats" }
func (*MetaInts) Variant() dispatch.Variant    { return "h3d.MetaInts" }
func (*MetaStrings) Variant() dispatch.Variant { return "h3d.MetaStrings" }
func (*MetaVectors) Variant() dispatch.Variant { return "h3d.MetaVectors" }

func (m *MetaFloats) Layout(l *schema.Layout)  { schema.List(l, "Values", &m.Values, schema.F32Elem) }
func (m *MetaInts) Layout(l *schema.Layout)    { schema.List(l, "Values", &m.Values, schema.I32Elem) }
func (m *MetaStrings) Layout(l *schema.Layout) { schema.List(l, "Values", &m.Values, schema.StringElem) }
func (m *MetaVectors) Layout(l *schema.Layout) { schema.List(l, "Values", &m.Values, schema.Vec4Elem) }

// Metadata value types.
const (
	MetaTypeSingle  uint32 = 0
	MetaTypeInteger uint32 = 1
	MetaTypeString  uint32 = 2
	MetaTypeVector  uint32 = 3
)

var metaValueTypes = dispatch.NewTable[MetaValues]("h3d metadata").
	Register("h3d.MetaFloats", func(uint32) MetaValues { return &MetaFloats{} }, MetaTypeSingle).
	Register("h3d.MetaInts", func(uint32) MetaValues { return &MetaInts{} }, MetaTypeInteger).
	Register("h3d.MetaStrings", func(uint32) MetaValues { return &MetaStrings{} }, MetaTypeString).
	Register("h3d.MetaVectors", func(uint32) MetaValues { return &MetaVectors{} }, MetaTypeVector)

// transform is the scale, rotation and translation shared by scene objects.
type transform struct {
	Scale       mgl32.Vec3
	Rotation    mgl32.Vec3
	Translation mgl32.Vec3
}

func (t *transform) layout(l *schema.Layout) {
	l.Vec3("Scale", &t.Scale)
	l.Vec3("Rotation", &t.Rotation)
	l.Vec3("Translation", &t.Translation)
}
