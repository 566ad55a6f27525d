package h3d

import (
	"github.com/arloliu/ctrbin/schema"
)

// FogType selects the fog density function.
type FogType uint8

const (
	FogLinear FogType = iota
	FogExponent
	FogExponentSquare
	FogProperExponent
	FogProperExponentSquare
)

// Fog flag bits.
const (
	FogZFlip                  uint8 = 1 << 0
	FogHasDistanceAttenuation uint8 = 1 << 1
)

// Fog is a depth fog.
type Fog struct {
	Name string
	transform
	Type     FogType
	Flags    uint8
	Color    schema.RGBA
	MinDepth float32
	MaxDepth float32
	Density  float32
	MetaData *MetaData
}

func (f *Fog) dictKey() string { return f.Name }

func (f *Fog) Layout(l *schema.Layout) {
	l.String("Name", &f.Name)
	f.transform.layout(l)
	schema.Enum8(l, "Type", &f.Type)
	l.U8("Flags", &f.Flags)
	l.Align(4)
	l.RGBA("Color", &f.Color)
	l.F32("MinDepth", &f.MinDepth)
	l.F32("MaxDepth", &f.MaxDepth)
	l.F32("Density", &f.Density)
	schema.Ref(l, "MetaData", &f.MetaData)
}

var fogElem = schema.Indirect(schema.RecordOf[Fog]())
