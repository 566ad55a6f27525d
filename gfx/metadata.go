package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/schema"
)

// MetaData is a named list of user values attached to an Object.
type MetaData interface {
	schema.TaggedRecord
	named
}

type metaHead struct {
	Name      string
	ValueType uint32
}

func (m *metaHead) dictKey() string { return m.Name }

func (m *metaHead) layout(l *schema.Layout) {
	l.String("Name", &m.Name)
	l.U32("ValueType", &m.ValueType)
}

// MetaSingle holds float values.
type MetaSingle struct {
	metaHead
	Values []float32
}

func NewMetaSingle(name string, values ...float32) *MetaSingle {
	return &MetaSingle{metaHead: metaHead{Name: name}, Values: values}
}

func (*MetaSingle) Variant() dispatch.Variant { return "gfx.MetaSingle" }

func (m *MetaSingle) Layout(l *schema.Layout) {
	m.layout(l)
	schema.List(l, "Values", &m.Values, schema.F32Elem)
}

// MetaInteger holds integer values.
type MetaInteger struct {
	metaHead
	Values []int32
}

func NewMetaInteger(name string, values ...int32) *MetaInteger {
	return &MetaInteger{metaHead: metaHead{Name: name}, Values: values}
}

func (*MetaInteger) Variant() dispatch.Variant { return "gfx.MetaInteger" }

func (m *MetaInteger) Layout(l *schema.Layout) {
	m.layout(l)
	schema.List(l, "Values", &m.Values, schema.I32Elem)
}

// MetaString holds string values.
type MetaString struct {
	metaHead
	Encoding uint32
	Values   []string
}

func NewMetaString(name string, values ...string) *MetaString {
	return &MetaString{metaHead: metaHead{Name: name}, Values: values}
}

func (*MetaString) Variant() dispatch.Variant { return "gfx.MetaString" }

func (m *MetaString) Layout(l *schema.Layout) {
	m.layout(l)
	l.U32("Encoding", &m.Encoding)
	schema.List(l, "Values", &m.Values, schema.StringElem)
}

// MetaColor holds RGBA float colors.
type MetaColor struct {
	metaHead
	Values []mgl32.Vec4
}

func NewMetaColor(name string, values ...mgl32.Vec4) *MetaColor {
	return &MetaColor{metaHead: metaHead{Name: name}, Values: values}
}

func (*MetaColor) Variant() dispatch.Variant { return "gfx.MetaColor" }

func (m *MetaColor) Layout(l *schema.Layout) {
	m.layout(l)
	schema.List(l, "Values", &m.Values, schema.Vec4Elem)
}

var metaDataTypes = dispatch.NewTable[MetaData]("gfx metadata").
	Register("gfx.MetaSingle", func(uint32) MetaData { return &MetaSingle{} }, TagMetaSingle).
	Register("gfx.MetaInteger", func(uint32) MetaData { return &MetaInteger{} }, TagMetaInt).
	Register("gfx.MetaString", func(uint32) MetaData { return &MetaString{} }, TagMetaString).
	Register("gfx.MetaColor", func(uint32) MetaData { return &MetaColor{} }, TagMetaColor)

var metaDataElem = schema.Indirect(schema.TaggedOf(metaDataTypes))
