package gfx

import (
	"github.com/arloliu/ctrbin/curve"
	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/layout"
	"github.com/arloliu/ctrbin/schema"
)

// Animation is a named clip whose elements drive members of an anim group.
type Animation struct {
	Name                string
	TargetAnimGroupName string
	LoopMode            uint32
	FramesCount         float32
	Elements            []*AnimationElement
	MetaData            []MetaData
}

func (a *Animation) dictKey() string { return a.Name }

func (a *Animation) Layout(l *schema.Layout) {
	l.Magic("Magic", "CANM")
	l.String("Name", &a.Name)
	l.String("TargetAnimGroupName", &a.TargetAnimGroupName)
	l.U32("LoopMode", &a.LoopMode)
	l.F32("FramesCount", &a.FramesCount)
	dict(l, "Elements", &a.Elements, animElementElem)
	dict(l, "MetaData", &a.MetaData, metaDataElem)
}

// AnimationElement animates one member. The content kind is selected by
// the primitive type stored before it.
type AnimationElement struct {
	Name         string
	MemberOffset uint32
	Content      AnimContent
}

func (e *AnimationElement) dictKey() string { return e.Name }

func (e *AnimationElement) Layout(l *schema.Layout) {
	l.String("Name", &e.Name)
	l.U32("MemberOffset", &e.MemberOffset)
	schema.ExternalTag(l, "PrimitiveType", &e.Content, animContentTypes, 4)
	schema.TaggedInline(l, "Content", &e.Content)
}

// AnimContent is the typed body of an animation element.
type AnimContent interface {
	schema.TaggedRecord
	animContent()
}

// AnimFloat drives a scalar.
type AnimFloat struct {
	Value *curve.Group
}

func (*AnimFloat) animContent()              {}
func (*AnimFloat) Variant() dispatch.Variant { return "gfx.AnimFloat" }

func (a *AnimFloat) Layout(l *schema.Layout) {
	schema.Ref(l, "Value", &a.Value)
}

// AnimBoolean holds one boolean per frame.
type AnimBoolean struct {
	StartFrame float32
	EndFrame   float32
	PreRepeat  format.LoopType
	PostRepeat format.LoopType
	Values     []bool
}

func (*AnimBoolean) animContent()              {}
func (*AnimBoolean) Variant() dispatch.Variant { return "gfx.AnimBoolean" }

var boolElem = schema.Elem[bool]{
	Size:  1,
	Read:  func(d *schema.Decoder) (bool, error) { return d.Cursor().ReadBool8(), nil },
	Write: func(e *schema.Encoder, v bool) error { e.Cursor().WriteBool8(v); return nil },
}

func (a *AnimBoolean) Layout(l *schema.Layout) {
	l.F32("StartFrame", &a.StartFrame)
	l.F32("EndFrame", &a.EndFrame)
	schema.Enum8(l, "PreRepeat", &a.PreRepeat)
	schema.Enum8(l, "PostRepeat", &a.PostRepeat)
	l.Pad(2)
	schema.List(l, "Values", &a.Values, boolElem)
}

// AnimVector2 drives two components.
type AnimVector2 struct {
	X, Y *curve.Group
}

func (*AnimVector2) animContent()              {}
func (*AnimVector2) Variant() dispatch.Variant { return "gfx.AnimVector2" }

func (a *AnimVector2) Layout(l *schema.Layout) {
	schema.Ref(l, "X", &a.X)
	schema.Ref(l, "Y", &a.Y)
}

// AnimVector3 drives three components.
type AnimVector3 struct {
	X, Y, Z *curve.Group
}

func (*AnimVector3) animContent()              {}
func (*AnimVector3) Variant() dispatch.Variant { return "gfx.AnimVector3" }

func (a *AnimVector3) Layout(l *schema.Layout) {
	schema.Ref(l, "X", &a.X)
	schema.Ref(l, "Y", &a.Y)
	schema.Ref(l, "Z", &a.Z)
}

// AnimRGBA drives a color.
type AnimRGBA struct {
	R, G, B, A *curve.Group
}

func (*AnimRGBA) animContent()              {}
func (*AnimRGBA) Variant() dispatch.Variant { return "gfx.AnimRGBA" }

func (a *AnimRGBA) Layout(l *schema.Layout) {
	schema.Ref(l, "R", &a.R)
	schema.Ref(l, "G", &a.G)
	schema.Ref(l, "B", &a.B)
	schema.Ref(l, "A", &a.A)
}

// AnimTransform drives a bone through sampled rotation, translation and
// scale streams.
type AnimTransform struct {
	Transform *layout.TransformBlock
}

func (*AnimTransform) animContent()              {}
func (*AnimTransform) Variant() dispatch.Variant { return "gfx.AnimTransform" }

func (a *AnimTransform) Layout(l *schema.Layout) {
	schema.Ref(l, "Transform", &a.Transform)
}

// Primitive types of animation element content.
const (
	PrimitiveFloat     uint32 = 0
	PrimitiveBoolean   uint32 = 2
	PrimitiveVector2   uint32 = 3
	PrimitiveVector3   uint32 = 4
	PrimitiveRGBA      uint32 = 6
	PrimitiveTransform uint32 = 8
)

var animContentTypes = dispatch.NewTable[AnimContent]("gfx animation content").
	Register("gfx.AnimFloat", func(uint32) AnimContent { return &AnimFloat{} }, PrimitiveFloat).
	Register("gfx.AnimBoolean", func(uint32) AnimContent { return &AnimBoolean{} }, PrimitiveBoolean).
	Register("gfx.AnimVector2", func(uint32) AnimContent { return &AnimVector2{} }, PrimitiveVector2).
	Register("gfx.AnimVector3", func(uint32) AnimContent { return &AnimVector3{} }, PrimitiveVector3).
	Register("gfx.AnimRGBA", func(uint32) AnimContent { return &AnimRGBA{} }, PrimitiveRGBA).
	Register("gfx.AnimTransform", func(uint32) AnimContent { return &AnimTransform{} }, PrimitiveTransform)

var (
	animElementElem = schema.Indirect(schema.RecordOf[AnimationElement]())
	animationElem   = schema.Indirect(schema.RecordOf[Animation]())
)
