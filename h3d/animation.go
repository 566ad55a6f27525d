package h3d

import (
	"fmt"

	"github.com/arloliu/ctrbin/curve"
	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/layout"
	"github.com/arloliu/ctrbin/schema"
)

// TargetType names the member an animation element drives.
type TargetType uint16

// Light animation targets, in element index table order.
const (
	TargetLightTransform TargetType = iota + 0x40
	TargetLightAmbient
	TargetLightDiffuse
	TargetLightSpecular0
	TargetLightSpecular1
	TargetLightDirection
	TargetLightAttenuationStart
	TargetLightAttenuationEnd
	TargetLightInterpolationFactor
	TargetLightGround
	TargetLightSky
	TargetLightEnabled
)

// Camera animation targets, in element index table order.
const (
	TargetCameraTransform TargetType = iota + 0x60
	TargetCameraTargetPos
	TargetCameraUpVector
	TargetCameraViewRotation
	TargetCameraTwist
	TargetCameraZNear
	TargetCameraZFar
	TargetCameraAspectRatio
	TargetCameraFovY
	TargetCameraHeight
)

// TargetFogColor is the only fog animation target.
const TargetFogColor TargetType = 0x70

// Element index table lengths.
const (
	lightIndicesV1 = 9
	lightIndicesV2 = 12
	cameraIndices  = 10
)

// lightIndicesVersion is the last version storing the short light index table.
const lightIndicesVersion = 0x21

// Animation is a named clip of animation elements.
type Animation struct {
	Name        string
	Flags       uint8
	Type        uint8
	CurvesCount uint16
	FramesCount float32
	Elements    []*AnimationElement
	MetaData    *MetaData
}

func (a *Animation) dictKey() string { return a.Name }

func (a *Animation) Layout(l *schema.Layout) {
	l.String("Name", &a.Name)
	l.U8("Flags", &a.Flags)
	l.U8("Type", &a.Type)
	l.U16("CurvesCount", &a.CurvesCount)
	l.F32("FramesCount", &a.FramesCount)
	schema.List(l, "Elements", &a.Elements, schema.Indirect(schema.RecordOf[AnimationElement]()))
	schema.Ref(l, "MetaData", &a.MetaData)
}

// elementIndices maps each target of the table to the index of the element
// driving it, or -1. shift remaps a target to its table slot.
func (a *Animation) elementIndices(n int, base TargetType, shift func(TargetType) int) ([]int8, error) {
	indices := make([]int8, n)
	for i := range indices {
		indices[i] = -1
	}
	for i, e := range a.Elements {
		if e == nil || e.TargetType < base {
			return nil, fmt.Errorf("element %d: target %#x below %#x: %w", i, e.target(), base, errs.ErrOutOfRange)
		}
		slot := shift(e.TargetType - base)
		if slot < 0 || slot >= n || i > 0x7F {
			return nil, fmt.Errorf("element %d: target %#x has no index slot: %w", i, e.TargetType, errs.ErrOutOfRange)
		}
		indices[slot] = int8(i)
	}

	return indices, nil
}

// LightAnim animates a light. The element index table is recomputed from
// the elements on save; its length depends on the stream version.
type LightAnim struct {
	Animation
	LightType      LightType
	ElementIndices []int8
}

var _ schema.CustomLayout = (*LightAnim)(nil)

func (a *LightAnim) Layout(l *schema.Layout) {
	a.Animation.Layout(l)
	schema.Enum8(l, "LightType", &a.LightType)
	l.When(format.CmpGreater, lightIndicesVersion)
	schema.Inline(l, "ElementIndices", &a.ElementIndices, lightIndicesV2, schema.I8Elem)
	l.When(format.CmpLessEqual, lightIndicesVersion)
	schema.Inline(l, "ElementIndices", &a.ElementIndices, lightIndicesV1, schema.I8Elem)
	l.Align(4)
}

func (*LightAnim) Strategy() schema.Strategy { return schema.StrategyComputed }

func (*LightAnim) DecodeLayout(*schema.Decoder) error { return nil }

func (a *LightAnim) EncodeLayout(e *schema.Encoder) (bool, error) {
	var err error
	if e.Version() > lightIndicesVersion {
		a.ElementIndices, err = a.elementIndices(lightIndicesV2, TargetLightTransform,
			func(t TargetType) int { return int(t) })
	} else {
		// The short table has no ground, sky or interpolation factor slots.
		a.ElementIndices, err = a.elementIndices(lightIndicesV1, TargetLightTransform,
			func(t TargetType) int {
				switch t + TargetLightTransform {
				case TargetLightInterpolationFactor, TargetLightGround, TargetLightSky:
					return -1
				case TargetLightEnabled:
					return int(t) - 3
				default:
					return int(t)
				}
			})
	}

	return false, err
}

// CameraAnim animates a camera.
type CameraAnim struct {
	Animation
	ViewType       uint8
	ProjectionType uint8
	ElementIndices []int8
}

var _ schema.CustomLayout = (*CameraAnim)(nil)

func (a *CameraAnim) Layout(l *schema.Layout) {
	a.Animation.Layout(l)
	l.U8("ViewType", &a.ViewType)
	l.U8("ProjectionType", &a.ProjectionType)
	schema.Inline(l, "ElementIndices", &a.ElementIndices, cameraIndices, schema.I8Elem)
	l.Align(4)
}

func (*CameraAnim) Strategy() schema.Strategy { return schema.StrategyComputed }

func (*CameraAnim) DecodeLayout(*schema.Decoder) error { return nil }

func (a *CameraAnim) EncodeLayout(*schema.Encoder) (bool, error) {
	var err error
	a.ElementIndices, err = a.elementIndices(cameraIndices, TargetCameraTransform,
		func(t TargetType) int { return int(t) })

	return false, err
}

// AnimationElement drives one member. The content kind is selected by the
// primitive type byte stored before it.
type AnimationElement struct {
	Name       string
	TargetType TargetType
	Content    AnimContent
}

func (e *AnimationElement) target() TargetType {
	if e == nil {
		return 0
	}

	return e.TargetType
}

func (e *AnimationElement) Layout(l *schema.Layout) {
	l.String("Name", &e.Name)
	schema.Enum16(l, "TargetType", &e.TargetType)
	schema.ExternalTag(l, "PrimitiveType", &e.Content, animContentTypes, 1)
	l.Pad(1)
	schema.TaggedInline(l, "Content", &e.Content)
}

// AnimContent is the typed body of an animation element.
type AnimContent interface {
	schema.TaggedRecord
	animContent()
}

// AnimFloat drives a scalar.
type AnimFloat struct {
	Value curve.Group
}

func (*AnimFloat) animContent()              {}
func (*AnimFloat) Variant() dispatch.Variant { return "h3d.AnimFloat" }

func (a *AnimFloat) Layout(l *schema.Layout) {
	l.Embed("Value", &a.Value)
}

// AnimVector3 drives three components.
type AnimVector3 struct {
	X, Y, Z curve.Group
}

func (*AnimVector3) animContent()              {}
func (*AnimVector3) Variant() dispatch.Variant { return "h3d.AnimVector3" }

func (a *AnimVector3) Layout(l *schema.Layout) {
	l.Embed("X", &a.X)
	l.Embed("Y", &a.Y)
	l.Embed("Z", &a.Z)
}

// AnimQuatTransform drives a transform through sampled streams.
type AnimQuatTransform struct {
	Transform layout.TransformBlock
}

func (*AnimQuatTransform) animContent()              {}
func (*AnimQuatTransform) Variant() dispatch.Variant { return "h3d.AnimQuatTransform" }

func (a *AnimQuatTransform) Layout(l *schema.Layout) {
	l.Embed("Transform", &a.Transform)
}

// Primitive types of animation element content.
const (
	PrimitiveFloat         uint32 = 0
	PrimitiveVector3       uint32 = 4
	PrimitiveQuatTransform uint32 = 8
)

var animContentTypes = dispatch.NewTable[AnimContent]("h3d animation content").
	Register("h3d.AnimFloat", func(uint32) AnimContent { return &AnimFloat{} }, PrimitiveFloat).
	Register("h3d.AnimVector3", func(uint32) AnimContent { return &AnimVector3{} }, PrimitiveVector3).
	Register("h3d.AnimQuatTransform", func(uint32) AnimContent { return &AnimQuatTransform{} }, PrimitiveQuatTransform)

var (
	lightAnimElem  = schema.Indirect(schema.RecordOf[LightAnim]())
	cameraAnimElem = schema.Indirect(schema.RecordOf[CameraAnim]())
	fogAnimElem    = schema.Indirect(schema.RecordOf[Animation]())
)
