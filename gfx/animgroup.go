package gfx

import (
	"fmt"

	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/schema"
)

// AnimGroupKind is the tag of an anim group element. It selects which
// member of the owning object the element animates.
type AnimGroupKind uint32

const (
	AnimGroupMeshNode       AnimGroupKind = 0x00080000
	AnimGroupMesh           AnimGroupKind = 0x01000000
	AnimGroupTexSampler     AnimGroupKind = 0x02000000
	AnimGroupBlendOperation AnimGroupKind = 0x04000000
	AnimGroupMaterialColor  AnimGroupKind = 0x08000000
	AnimGroupModel          AnimGroupKind = 0x10000000
	AnimGroupTexMapper      AnimGroupKind = 0x20000000
	AnimGroupBone           AnimGroupKind = 0x40000000
	AnimGroupTexCoord       AnimGroupKind = 0x80000000

	// Kinds written by older converters. They carry one extra object type word.
	AnimGroupLegacyFogColor         AnimGroupKind = 0x00040000
	AnimGroupLegacyOther            AnimGroupKind = 0x00100000
	AnimGroupLegacyCameraProjection AnimGroupKind = 0x00200000 // near, far, fov, aspect
	AnimGroupLegacyCameraView       AnimGroupKind = 0x00400000 // target position, up vector
	AnimGroupLegacyTransform        AnimGroupKind = 0x00800000
)

// legacyObjType is the extra object type legacy elements default to.
const legacyObjType = 10

var animGroupKindNames = map[AnimGroupKind]string{
	AnimGroupMeshNode:               "MeshNode",
	AnimGroupMesh:                   "Mesh",
	AnimGroupTexSampler:             "TexSampler",
	AnimGroupBlendOperation:         "BlendOperation",
	AnimGroupMaterialColor:          "MaterialColor",
	AnimGroupModel:                  "Model",
	AnimGroupTexMapper:              "TexMapper",
	AnimGroupBone:                   "Bone",
	AnimGroupTexCoord:               "TexCoord",
	AnimGroupLegacyFogColor:         "LegacyFogColor",
	AnimGroupLegacyOther:            "LegacyOther",
	AnimGroupLegacyCameraProjection: "LegacyCameraProjection",
	AnimGroupLegacyCameraView:       "LegacyCameraView",
	AnimGroupLegacyTransform:        "LegacyTransform",
}

func (k AnimGroupKind) String() string {
	if name, ok := animGroupKindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("AnimGroupKind(%#x)", uint32(k))
}

// Legacy reports whether k is one of the older element kinds.
func (k AnimGroupKind) Legacy() bool {
	switch k {
	case AnimGroupLegacyFogColor, AnimGroupLegacyOther, AnimGroupLegacyCameraProjection,
		AnimGroupLegacyCameraView, AnimGroupLegacyTransform:
		return true
	default:
		return false
	}
}

// AnimGroup lists the members of an object that animations may target.
type AnimGroup struct {
	Flags            uint32
	Name             string
	MemberType       uint32
	Elements         []*AnimGroupElement
	BlendOperations  []int32
	EvaluationTiming uint32
}

func (g *AnimGroup) dictKey() string { return g.Name }

func (g *AnimGroup) Layout(l *schema.Layout) {
	l.U32("Flags", &g.Flags)
	l.String("Name", &g.Name)
	l.U32("MemberType", &g.MemberType)
	dict(l, "Elements", &g.Elements, animGroupElementElem)
	schema.List(l, "BlendOperations", &g.BlendOperations, schema.I32Elem)
	l.U32("EvaluationTiming", &g.EvaluationTiming)
}

// AnimGroupElement is one animatable member. All kinds share this shape;
// the kind is carried by the element tag.
type AnimGroupElement struct {
	Kind         AnimGroupKind
	Name         string
	MemberOffset int32
	BlendOpIndex int32
	ObjType      uint32
	MemberType   uint32
	// ObjType2 is only stored for legacy kinds.
	ObjType2 uint32
}

// NewAnimGroupElement creates an element of kind with the defaults the
// kind implies.
func NewAnimGroupElement(kind AnimGroupKind, name string) *AnimGroupElement {
	e := &AnimGroupElement{Kind: kind, Name: name}
	if kind.Legacy() {
		e.ObjType2 = legacyObjType
	}

	return e
}

func (e *AnimGroupElement) dictKey() string { return e.Name }

func (e *AnimGroupElement) Variant() dispatch.Variant {
	return dispatch.Variant("gfx.AnimGroup" + e.Kind.String())
}

func (e *AnimGroupElement) Layout(l *schema.Layout) {
	l.String("Name", &e.Name)
	l.I32("MemberOffset", &e.MemberOffset)
	l.I32("BlendOpIndex", &e.BlendOpIndex)
	l.U32("ObjType", &e.ObjType)
	l.U32("MemberType", &e.MemberType)
	l.Pad(4) // runtime material pointer
	if e.Kind.Legacy() {
		l.U32("ObjType2", &e.ObjType2)
	}
}

var animGroupElementTypes = func() *dispatch.Table[*AnimGroupElement] {
	t := dispatch.NewTable[*AnimGroupElement]("gfx anim group element")
	for kind := range animGroupKindNames {
		t.Register(
			dispatch.Variant("gfx.AnimGroup"+kind.String()),
			func(tag uint32) *AnimGroupElement { return NewAnimGroupElement(AnimGroupKind(tag), "") },
			uint32(kind))
	}

	return t
}()

var (
	animGroupElem        = schema.Indirect(schema.RecordOf[AnimGroup]())
	animGroupElementElem = schema.Indirect(schema.TaggedOf(animGroupElementTypes))
)
