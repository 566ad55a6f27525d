package h3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/schema"
)

// LightType selects the light content kind.
type LightType uint8

const (
	LightHemisphere          LightType = 0x01
	LightAmbient             LightType = 0x02
	LightVertex              LightType = 0x20
	LightVertexDirectional   LightType = 0x21
	LightVertexPoint         LightType = 0x22
	LightVertexSpot          LightType = 0x23
	LightFragment            LightType = 0x40
	LightFragmentDirectional LightType = 0x41
	LightFragmentPoint       LightType = 0x42
	LightFragmentSpot        LightType = 0x43
)

func (t LightType) String() string {
	switch t {
	case LightHemisphere:
		return "Hemisphere"
	case LightAmbient:
		return "Ambient"
	case LightVertex:
		return "Vertex"
	case LightVertexDirectional:
		return "VertexDirectional"
	case LightVertexPoint:
		return "VertexPoint"
	case LightVertexSpot:
		return "VertexSpot"
	case LightFragment:
		return "Fragment"
	case LightFragmentDirectional:
		return "FragmentDirectional"
	case LightFragmentPoint:
		return "FragmentPoint"
	case LightFragmentSpot:
		return "FragmentSpot"
	default:
		return fmt.Sprintf("LightType(%#x)", uint8(t))
	}
}

// Light is a scene light. Its content kind is stored as a type byte.
type Light struct {
	Name string
	transform
	Flags    uint16
	LUTInput uint8
	LUTScale uint8
	Content  LightContent
	MetaData *MetaData
}

func (li *Light) dictKey() string { return li.Name }

// Type returns the stored light type, or 0 when the light has no content.
func (li *Light) Type() LightType {
	if li.Content == nil {
		return 0
	}
	tag, err := lightTypes.TagFor(li.Content)
	if err != nil {
		return 0
	}

	return LightType(tag)
}

func (li *Light) Layout(l *schema.Layout) {
	l.String("Name", &li.Name)
	li.transform.layout(l)
	l.U16("Flags", &li.Flags)
	l.U8("LUTInput", &li.LUTInput)
	l.U8("LUTScale", &li.LUTScale)
	schema.ExternalTag(l, "Type", &li.Content, lightTypes, 1)
	l.Pad(3)
	schema.TaggedRef(l, "Content", &li.Content)
	schema.Ref(l, "MetaData", &li.MetaData)
}

// LightContent is the kind-specific body of a light.
type LightContent interface {
	schema.TaggedRecord
	lightContent()
}

// HemisphereLight blends a ground and a sky color by normal direction.
type HemisphereLight struct {
	GroundColor mgl32.Vec4
	SkyColor    mgl32.Vec4
	Direction   mgl32.Vec3
	LerpFactor  float32
}

func (*HemisphereLight) lightContent()             {}
func (*HemisphereLight) Variant() dispatch.Variant { return "h3d.HemisphereLight" }

func (h *HemisphereLight) Layout(l *schema.Layout) {
	l.Vec4("GroundColor", &h.GroundColor)
	l.Vec4("SkyColor", &h.SkyColor)
	l.Vec3("Direction", &h.Direction)
	l.F32("LerpFactor", &h.LerpFactor)
}

// AmbientLight adds a constant color.
type AmbientLight struct {
	Color schema.RGBA
}

func (*AmbientLight) lightContent()             {}
func (*AmbientLight) Variant() dispatch.Variant { return "h3d.AmbientLight" }

func (a *AmbientLight) Layout(l *schema.Layout) {
	l.RGBA("Color", &a.Color)
}

// VertexLight is a per-vertex light. Kind is one of the vertex light types.
type VertexLight struct {
	Kind                 LightType
	AmbientColor         mgl32.Vec4
	DiffuseColor         mgl32.Vec4
	Direction            mgl32.Vec3
	AttenuationConstant  float32
	AttenuationLinear    float32
	AttenuationQuadratic float32
	SpotExponent         float32
	SpotCutOffAngle      float32
}

func (*VertexLight) lightContent() {}

func (v *VertexLight) Variant() dispatch.Variant {
	return dispatch.Variant("h3d." + v.Kind.String() + "Light")
}

func (v *VertexLight) Layout(l *schema.Layout) {
	l.Vec4("AmbientColor", &v.AmbientColor)
	l.Vec4("DiffuseColor", &v.DiffuseColor)
	l.Vec3("Direction", &v.Direction)
	l.F32("AttenuationConstant", &v.AttenuationConstant)
	l.F32("AttenuationLinear", &v.AttenuationLinear)
	l.F32("AttenuationQuadratic", &v.AttenuationQuadratic)
	l.F32("SpotExponent", &v.SpotExponent)
	l.F32("SpotCutOffAngle", &v.SpotCutOffAngle)
}

// FragmentLight is a per-fragment light. Kind is one of the fragment light
// types.
type FragmentLight struct {
	Kind             LightType
	AmbientColor     schema.RGBA
	DiffuseColor     schema.RGBA
	Specular0Color   schema.RGBA
	Specular1Color   schema.RGBA
	Direction        mgl32.Vec3
	AttenuationStart float32
	AttenuationEnd   float32

	DistanceLUTTableName   string
	DistanceLUTSamplerName string
	AngleLUTTableName      string
	AngleLUTSamplerName    string
}

func (*FragmentLight) lightContent() {}

func (f *FragmentLight) Variant() dispatch.Variant {
	return dispatch.Variant("h3d." + f.Kind.String() + "Light")
}

func (f *FragmentLight) Layout(l *schema.Layout) {
	l.RGBA("AmbientColor", &f.AmbientColor)
	l.RGBA("DiffuseColor", &f.DiffuseColor)
	l.RGBA("Specular0Color", &f.Specular0Color)
	l.RGBA("Specular1Color", &f.Specular1Color)
	l.Vec3("Direction", &f.Direction)
	l.Pad(8) // runtime sampler pointers
	l.F32("AttenuationStart", &f.AttenuationStart)
	l.F32("AttenuationEnd", &f.AttenuationEnd)
	l.String("DistanceLUTTableName", &f.DistanceLUTTableName)
	l.String("DistanceLUTSamplerName", &f.DistanceLUTSamplerName)
	l.String("AngleLUTTableName", &f.AngleLUTTableName)
	l.String("AngleLUTSamplerName", &f.AngleLUTSamplerName)
}

var lightTypes = func() *dispatch.Table[LightContent] {
	t := dispatch.NewTable[LightContent]("h3d light").
		Register("h3d.HemisphereLight", func(uint32) LightContent { return &HemisphereLight{} }, uint32(LightHemisphere)).
		Register("h3d.AmbientLight", func(uint32) LightContent { return &AmbientLight{} }, uint32(LightAmbient))

	for kind := LightVertex; kind <= LightVertexSpot; kind++ {
		t.Register(dispatch.Variant("h3d."+kind.String()+"Light"),
			func(tag uint32) LightContent { return &VertexLight{Kind: LightType(tag)} }, uint32(kind))
	}
	for kind := LightFragment; kind <= LightFragmentSpot; kind++ {
		t.Register(dispatch.Variant("h3d."+kind.String()+"Light"),
			func(tag uint32) LightContent { return &FragmentLight{Kind: LightType(tag)} }, uint32(kind))
	}

	return t
}()

var lightElem = schema.Indirect(schema.RecordOf[Light]())
