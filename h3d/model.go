package h3d

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/layout"
	"github.com/arloliu/ctrbin/schema"
)

// Model is a set of meshes sharing materials and a skeleton.
type Model struct {
	Flags               uint8
	SkeletonScaling     uint8
	SilhouetteMaterials uint16
	Name                string
	Meshes              []*Mesh
	SubMeshCullings     []*SubMeshCulling
	MetaData            *MetaData
}

func (m *Model) dictKey() string { return m.Name }

func (m *Model) Layout(l *schema.Layout) {
	l.U8("Flags", &m.Flags)
	l.U8("SkeletonScaling", &m.SkeletonScaling)
	l.U16("SilhouetteMaterials", &m.SilhouetteMaterials)
	l.String("Name", &m.Name)
	schema.List(l, "Meshes", &m.Meshes, schema.RecordOf[Mesh]())
	schema.List(l, "SubMeshCullings", &m.SubMeshCullings, schema.RecordOf[SubMeshCulling]())
	schema.Ref(l, "MetaData", &m.MetaData)
}

// Mesh is one draw unit of a model.
type Mesh struct {
	MaterialIndex       uint16
	Flags               uint8
	NodeIndex           uint16
	Layer               uint8
	Priority            uint8
	SubMeshCullingIndex int16
	Center              mgl32.Vec3
	Vertices            layout.Blob
}

func (m *Mesh) Layout(l *schema.Layout) {
	l.U16("MaterialIndex", &m.MaterialIndex)
	l.U8("Flags", &m.Flags)
	l.Pad(1)
	l.U16("NodeIndex", &m.NodeIndex)
	l.U8("Layer", &m.Layer)
	l.U8("Priority", &m.Priority)
	l.I16("SubMeshCullingIndex", &m.SubMeshCullingIndex)
	l.Pad(2)
	l.Vec3("Center", &m.Center)
	l.Embed("Vertices", m.Vertices.At(vertexTarget))
}

// SubMeshCulling partitions a mesh into sub-meshes for bounding-box culling.
type SubMeshCulling struct {
	CullingNodes []*CullingNode
	Boundings    []*Bounding
	SubMeshes    []*layout.IndexBuffer
	BoolUniforms uint16
	BoneIndex    int16
}

func (s *SubMeshCulling) Layout(l *schema.Layout) {
	schema.List(l, "CullingNodes", &s.CullingNodes, schema.RecordOf[CullingNode]())
	schema.List(l, "Boundings", &s.Boundings, schema.RecordOf[Bounding]())
	schema.List(l, "SubMeshes", &s.SubMeshes, schema.RecordOf[layout.IndexBuffer]())
	l.U16("BoolUniforms", &s.BoolUniforms)
	l.I16("BoneIndex", &s.BoneIndex)
}

// MaxIndex returns the largest vertex index referenced by any sub-mesh.
func (s *SubMeshCulling) MaxIndex() uint16 {
	var top uint16
	for _, sm := range s.SubMeshes {
		for _, idx := range sm.Indices {
			top = max(top, idx)
		}
	}

	return top
}

// CullingNode is a node of the culling tree.
type CullingNode struct {
	Left         uint8
	Right        uint8
	Next         uint8
	SubMeshIndex uint8
	SubMeshCount uint32
}

func (n *CullingNode) Layout(l *schema.Layout) {
	l.U8("Left", &n.Left)
	l.U8("Right", &n.Right)
	l.U8("Next", &n.Next)
	l.U8("SubMeshIndex", &n.SubMeshIndex)
	l.U32("SubMeshCount", &n.SubMeshCount)
}

// Bounding is an axis-aligned box.
type Bounding struct {
	Center mgl32.Vec3
	Extent mgl32.Vec3
}

func (b *Bounding) Layout(l *schema.Layout) {
	l.Vec3("Center", &b.Center)
	l.Vec3("Extent", &b.Extent)
}

var modelElem = schema.Indirect(schema.RecordOf[Model]())
