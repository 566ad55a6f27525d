package h3d

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/schema"
)

// Camera is a scene camera. Its view and projection kinds are stored as
// type bytes in front of the body pointers.
type Camera struct {
	Name string
	transform
	Flags      uint16
	View       CameraView
	Projection CameraProjection
	WScale     float32
	MetaData   *MetaData
}

func (c *Camera) dictKey() string { return c.Name }

func (c *Camera) Layout(l *schema.Layout) {
	l.String("Name", &c.Name)
	c.transform.layout(l)
	schema.ExternalTag(l, "ViewType", &c.View, cameraViewTypes, 1)
	schema.ExternalTag(l, "ProjectionType", &c.Projection, cameraProjectionTypes, 1)
	l.U16("Flags", &c.Flags)
	schema.TaggedRef(l, "View", &c.View)
	schema.TaggedRef(l, "Projection", &c.Projection)
	l.F32("WScale", &c.WScale)
	schema.Ref(l, "MetaData", &c.MetaData)
}

// CameraView orients a camera.
type CameraView interface {
	schema.TaggedRecord
	cameraView()
}

// AimTargetView points the camera at a target with a twist.
type AimTargetView struct {
	Target mgl32.Vec3
	Twist  float32
}

func (*AimTargetView) cameraView()               {}
func (*AimTargetView) Variant() dispatch.Variant { return "h3d.AimTargetView" }

func (v *AimTargetView) Layout(l *schema.Layout) {
	l.Vec3("Target", &v.Target)
	l.F32("Twist", &v.Twist)
}

// LookAtView points the camera at a target with an up vector.
type LookAtView struct {
	Target   mgl32.Vec3
	UpVector mgl32.Vec3
}

func (*LookAtView) cameraView()               {}
func (*LookAtView) Variant() dispatch.Variant { return "h3d.LookAtView" }

func (v *LookAtView) Layout(l *schema.Layout) {
	l.Vec3("Target", &v.Target)
	l.Vec3("UpVector", &v.UpVector)
}

// RotateView orients the camera by Euler angles.
type RotateView struct {
	Rotation mgl32.Vec3
}

func (*RotateView) cameraView()               {}
func (*RotateView) Variant() dispatch.Variant { return "h3d.RotateView" }

func (v *RotateView) Layout(l *schema.Layout) {
	l.Vec3("Rotation", &v.Rotation)
}

// CameraProjection maps view space to clip space.
type CameraProjection interface {
	schema.TaggedRecord
	cameraProjection()
}

// PerspectiveProjection is a symmetric perspective frustum.
type PerspectiveProjection struct {
	ZNear       float32
	ZFar        float32
	AspectRatio float32
	FovY        float32
}

func (*PerspectiveProjection) cameraProjection()         {}
func (*PerspectiveProjection) Variant() dispatch.Variant { return "h3d.PerspectiveProjection" }

func (p *PerspectiveProjection) Layout(l *schema.Layout) {
	l.F32("ZNear", &p.ZNear)
	l.F32("ZFar", &p.ZFar)
	l.F32("AspectRatio", &p.AspectRatio)
	l.F32("FovY", &p.FovY)
}

// OrthogonalProjection is a parallel projection of the given height.
type OrthogonalProjection struct {
	ZNear       float32
	ZFar        float32
	AspectRatio float32
	Height      float32
}

func (*OrthogonalProjection) cameraProjection()         {}
func (*OrthogonalProjection) Variant() dispatch.Variant { return "h3d.OrthogonalProjection" }

func (p *OrthogonalProjection) Layout(l *schema.Layout) {
	l.F32("ZNear", &p.ZNear)
	l.F32("ZFar", &p.ZFar)
	l.F32("AspectRatio", &p.AspectRatio)
	l.F32("Height", &p.Height)
}

// Camera view and projection type bytes.
const (
	ViewAimTarget uint32 = 0
	ViewLookAt    uint32 = 1
	ViewRotate    uint32 = 2

	ProjectionPerspective uint32 = 0
	ProjectionOrthogonal  uint32 = 1
)

var cameraViewTypes = dispatch.NewTable[CameraView]("h3d camera view").
	Register("h3d.AimTargetView", func(uint32) CameraView { return &AimTargetView{} }, ViewAimTarget).
	Register("h3d.LookAtView", func(uint32) CameraView { return &LookAtView{} }, ViewLookAt).
	Register("h3d.RotateView", func(uint32) CameraView { return &RotateView{} }, ViewRotate)

var cameraProjectionTypes = dispatch.NewTable[CameraProjection]("h3d camera projection").
	Register("h3d.PerspectiveProjection", func(uint32) CameraProjection { return &PerspectiveProjection{} }, ProjectionPerspective).
	Register("h3d.OrthogonalProjection", func(uint32) CameraProjection { return &OrthogonalProjection{} }, ProjectionOrthogonal)

var cameraElem = schema.Indirect(schema.RecordOf[Camera]())
