package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/schema"
)

// Light is a scene light stored in the lights dictionary.
type Light interface {
	schema.TaggedRecord
	named
	Base() *LightBase
}

// LightBase is the node header shared by every light kind.
type LightBase struct {
	Node
	IsEnabled bool
}

func (b *LightBase) Base() *LightBase { return b }

func (b *LightBase) layout(l *schema.Layout, magic string) {
	b.Node.layout(l, magic)
	l.Bool32("IsEnabled", &b.IsEnabled)
}

// LUTReference names a lookup table sampler in a shared LUT set.
type LUTReference struct {
	TableName   string
	SamplerName string
}

func (r *LUTReference) Layout(l *schema.Layout) {
	l.Magic("Magic", "LUTR")
	l.String("TableName", &r.TableName)
	l.String("SamplerName", &r.SamplerName)
}

// LUTInput is a lookup table sampler with its input selection and scale.
type LUTInput struct {
	Input   uint32
	Scale   uint32
	Sampler *LUTReference
}

func (r *LUTInput) Layout(l *schema.Layout) {
	l.U32("Input", &r.Input)
	l.U32("Scale", &r.Scale)
	schema.Ref(l, "Sampler", &r.Sampler)
}

// FragmentLight is a per-fragment light.
type FragmentLight struct {
	LightBase

	Type      uint32
	Ambient   mgl32.Vec4
	Diffuse   mgl32.Vec4
	Specular0 mgl32.Vec4
	Specular1 mgl32.Vec4
	Direction mgl32.Vec3

	DistanceSampler  *LUTReference
	AngleSampler     *LUTInput
	AttenuationStart float32
	AttenuationEnd   float32
	Flags            uint32
}

func (*FragmentLight) Variant() dispatch.Variant { return "gfx.FragmentLight" }

func (f *FragmentLight) Layout(l *schema.Layout) {
	f.LightBase.layout(l, "CFLT")
	l.U32("Type", &f.Type)
	l.Vec4("Ambient", &f.Ambient)
	l.Vec4("Diffuse", &f.Diffuse)
	l.Vec4("Specular0", &f.Specular0)
	l.Vec4("Specular1", &f.Specular1)
	l.Vec3("Direction", &f.Direction)
	schema.Ref(l, "DistanceSampler", &f.DistanceSampler)
	schema.Ref(l, "AngleSampler", &f.AngleSampler)
	l.F32("AttenuationStart", &f.AttenuationStart)
	l.F32("AttenuationEnd", &f.AttenuationEnd)
	l.U32("Flags", &f.Flags)
}

// HemisphereLight blends a ground and a sky color by normal direction.
type HemisphereLight struct {
	LightBase

	GroundColor mgl32.Vec4
	SkyColor    mgl32.Vec4
	Direction   mgl32.Vec3
	LerpFactor  float32
}

func (*HemisphereLight) Variant() dispatch.Variant { return "gfx.HemisphereLight" }

func (h *HemisphereLight) Layout(l *schema.Layout) {
	h.LightBase.layout(l, "CHLT")
	l.Vec4("GroundColor", &h.GroundColor)
	l.Vec4("SkyColor", &h.SkyColor)
	l.Vec3("Direction", &h.Direction)
	l.F32("LerpFactor", &h.LerpFactor)
}

// VertexLight is a per-vertex light with polynomial attenuation.
type VertexLight struct {
	LightBase

	Type      uint32
	Ambient   mgl32.Vec4
	Diffuse   mgl32.Vec4
	Direction mgl32.Vec3

	DistanceAttenuationConstant  float32
	DistanceAttenuationLinear    float32
	DistanceAttenuationQuadratic float32
	AttenuationFlags             uint32

	SpotExponent    float32
	SpotCutOffAngle float32
	Flags           uint32
}

func (*VertexLight) Variant() dispatch.Variant { return "gfx.VertexLight" }

func (v *VertexLight) Layout(l *schema.Layout) {
	v.LightBase.layout(l, "CVLT")
	l.U32("Type", &v.Type)
	l.Vec4("Ambient", &v.Ambient)
	l.Vec4("Diffuse", &v.Diffuse)
	l.Vec3("Direction", &v.Direction)
	l.F32("DistanceAttenuationConstant", &v.DistanceAttenuationConstant)
	l.F32("DistanceAttenuationLinear", &v.DistanceAttenuationLinear)
	l.F32("DistanceAttenuationQuadratic", &v.DistanceAttenuationQuadratic)
	l.U32("AttenuationFlags", &v.AttenuationFlags)
	l.F32("SpotExponent", &v.SpotExponent)
	l.F32("SpotCutOffAngle", &v.SpotCutOffAngle)
	l.U32("Flags", &v.Flags)
}

// AmbientLight adds a constant color.
type AmbientLight struct {
	LightBase
	Color mgl32.Vec4
}

func (*AmbientLight) Variant() dispatch.Variant { return "gfx.AmbientLight" }

func (a *AmbientLight) Layout(l *schema.Layout) {
	a.LightBase.layout(l, "CALT")
	l.Vec4("Color", &a.Color)
}

var lightTypes = dispatch.NewTable[Light]("gfx light").
	Register("gfx.FragmentLight", func(uint32) Light { return &FragmentLight{} }, TagFragLight).
	Register("gfx.HemisphereLight", func(uint32) Light { return &HemisphereLight{} }, TagHemiLight).
	Register("gfx.VertexLight", func(uint32) Light { return &VertexLight{} }, TagVertLight).
	Register("gfx.AmbientLight", func(uint32) Light { return &AmbientLight{} }, TagAmbLight)

var lightElem = schema.Indirect(schema.TaggedOf(lightTypes))
