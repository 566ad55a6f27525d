package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/schema"
)

// Camera is a scene camera with one view and one projection body.
type Camera struct {
	Node

	View       CameraView
	Projection CameraProjection
	WScale     float32
}

func (*Camera) Variant() dispatch.Variant { return "gfx.Camera" }

func (c *Camera) Layout(l *schema.Layout) {
	c.Node.layout(l, "CCAM")
	schema.ExternalTag(l, "ViewType", &c.View, cameraViewTypes, 4)
	schema.ExternalTag(l, "ProjectionType", &c.Projection, cameraProjectionTypes, 4)
	schema.TaggedRef(l, "View", &c.View)
	schema.TaggedRef(l, "Projection", &c.Projection)
	l.F32("WScale", &c.WScale)
}

// CameraView orients a camera.
type CameraView interface {
	schema.TaggedRecord
	cameraView()
}

// AimView points the camera at a target with a twist around the view axis.
type AimView struct {
	Flags  uint32
	Target mgl32.Vec3
	Twist  float32
}

func (*AimView) cameraView()               {}
func (*AimView) Variant() dispatch.Variant { return "gfx.AimView" }

func (v *AimView) Layout(l *schema.Layout) {
	bodyTag(l, TagViewAim)
	l.U32("Flags", &v.Flags)
	l.Vec3("Target", &v.Target)
	l.F32("Twist", &v.Twist)
}

// LookAtView points the camera at a target with an explicit up vector.
type LookAtView struct {
	Flags    uint32
	Target   mgl32.Vec3
	UpVector mgl32.Vec3
}

func (*LookAtView) cameraView()               {}
func (*LookAtView) Variant() dispatch.Variant { return "gfx.LookAtView" }

func (v *LookAtView) Layout(l *schema.Layout) {
	bodyTag(l, TagViewLookAt)
	l.U32("Flags", &v.Flags)
	l.Vec3("Target", &v.Target)
	l.Vec3("UpVector", &v.UpVector)
}

// RotateView orients the camera by Euler angles.
type RotateView struct {
	IsInheritingRotation bool
	Rotation             mgl32.Vec3
}

func (*RotateView) cameraView()               {}
func (*RotateView) Variant() dispatch.Variant { return "gfx.RotateView" }

func (v *RotateView) Layout(l *schema.Layout) {
	bodyTag(l, TagViewRotate)
	l.Bool32("IsInheritingRotation", &v.IsInheritingRotation)
	l.Vec3("Rotation", &v.Rotation)
}

// CameraProjection maps view space to clip space.
type CameraProjection interface {
	schema.TaggedRecord
	cameraProjection()
}

// PerspectiveProjection is a symmetric perspective frustum.
type PerspectiveProjection struct {
	Flags       uint32
	ZNear       float32
	ZFar        float32
	AspectRatio float32
	FovY        float32
}

func (*PerspectiveProjection) cameraProjection()         {}
func (*PerspectiveProjection) Variant() dispatch.Variant { return "gfx.PerspectiveProjection" }

func (p *PerspectiveProjection) Layout(l *schema.Layout) {
	bodyTag(l, TagPerspective)
	l.U32("Flags", &p.Flags)
	l.F32("ZNear", &p.ZNear)
	l.F32("ZFar", &p.ZFar)
	l.F32("AspectRatio", &p.AspectRatio)
	l.F32("FovY", &p.FovY)
}

// BoxProjection is a frustum or orthographic projection described by its
// height. Both kinds share this shape.
type BoxProjection struct {
	Orthographic bool
	Flags        uint32
	ZNear        float32
	ZFar         float32
	AspectRatio  float32
	Height       float32
}

func (*BoxProjection) cameraProjection() {}

func (p *BoxProjection) Variant() dispatch.Variant {
	if p.Orthographic {
		return "gfx.OrthographicProjection"
	}

	return "gfx.FrustumProjection"
}

func (p *BoxProjection) Layout(l *schema.Layout) {
	if p.Orthographic {
		bodyTag(l, TagOrthographic)
	} else {
		bodyTag(l, TagFrustum)
	}
	l.U32("Flags", &p.Flags)
	l.F32("ZNear", &p.ZNear)
	l.F32("ZFar", &p.ZFar)
	l.F32("AspectRatio", &p.AspectRatio)
	l.F32("Height", &p.Height)
}

var cameraTypes = dispatch.NewTable[*Camera]("gfx camera").
	Register("gfx.Camera", func(uint32) *Camera { return &Camera{} }, TagCamera)

var cameraViewTypes = dispatch.NewTable[CameraView]("gfx camera view").
	Register("gfx.AimView", func(uint32) CameraView { return &AimView{} }, 0).
	Register("gfx.LookAtView", func(uint32) CameraView { return &LookAtView{} }, 1).
	Register("gfx.RotateView", func(uint32) CameraView { return &RotateView{} }, 2)

var cameraProjectionTypes = dispatch.NewTable[CameraProjection]("gfx camera projection").
	Register("gfx.PerspectiveProjection", func(uint32) CameraProjection { return &PerspectiveProjection{} }, 0).
	Register("gfx.FrustumProjection", func(uint32) CameraProjection { return &BoxProjection{} }, 1).
	Register("gfx.OrthographicProjection", func(uint32) CameraProjection { return &BoxProjection{Orthographic: true} }, 2)

var cameraElem = schema.Indirect(schema.TaggedOf(cameraTypes))
