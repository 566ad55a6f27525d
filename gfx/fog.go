package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/schema"
)

// Fog is a depth fog node.
type Fog struct {
	Node

	Color   mgl32.Vec3
	Density float32
	Near    uint32
	Far     uint32
}

func (*Fog) Variant() dispatch.Variant { return "gfx.Fog" }

func (f *Fog) Layout(l *schema.Layout) {
	f.Node.layout(l, "CFOG")
	l.Vec3("Color", &f.Color)
	l.F32("Density", &f.Density)
	l.U32("Near", &f.Near)
	l.U32("Far", &f.Far)
}

var fogTypes = dispatch.NewTable[*Fog]("gfx fog").
	Register("gfx.Fog", func(uint32) *Fog { return &Fog{} }, TagFog)

var fogElem = schema.Indirect(schema.TaggedOf(fogTypes))
