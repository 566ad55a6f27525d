package gfx

import (
	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/layout"
	"github.com/arloliu/ctrbin/schema"
)

// shaderInfoDataSize is the size of the opaque per-program data block.
const shaderInfoDataSize = 124

// ShaderInfo describes one program of a shader binary.
type ShaderInfo struct {
	Flags                uint32
	VertexProgramIndex   int32
	GeometryProgramIndex int32
	Data                 []byte
}

func (s *ShaderInfo) Layout(l *schema.Layout) {
	l.U32("Flags", &s.Flags)
	l.I32("VertexProgramIndex", &s.VertexProgramIndex)
	l.I32("GeometryProgramIndex", &s.GeometryProgramIndex)
	l.Bytes("Data", &s.Data, shaderInfoDataSize)
}

// Shader is a compiled shader binary with its setup command lists.
type Shader struct {
	Object

	Binary      layout.Blob
	CommandsA   []uint32
	ShaderInfos []*ShaderInfo
	CommandsB   []uint32
	Padding     []byte
}

func (*Shader) Variant() dispatch.Variant { return "gfx.Shader" }

func (s *Shader) Layout(l *schema.Layout) {
	s.Object.layout(l, "SHDR")
	l.Embed("Binary", &s.Binary)
	schema.List(l, "CommandsA", &s.CommandsA, schema.U32Elem)
	schema.List(l, "ShaderInfos", &s.ShaderInfos, schema.RecordOf[ShaderInfo]())
	schema.List(l, "CommandsB", &s.CommandsB, schema.U32Elem)
	l.Bytes("Padding", &s.Padding, 16)
}

var shaderTypes = dispatch.NewTable[*Shader]("gfx shader").
	Register("gfx.Shader", func(uint32) *Shader { return &Shader{} }, TagShader)

var shaderElem = schema.Indirect(schema.TaggedOf(shaderTypes))
