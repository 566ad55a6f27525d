package gfx

import (
	"github.com/arloliu/ctrbin/dispatch"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/layout"
	"github.com/arloliu/ctrbin/schema"
	"github.com/arloliu/ctrbin/section"
)

// imageTarget places texture payloads in the IMAG block.
var imageTarget = schema.Target{Section: format.SectionRawData, Align: section.GfxImageAlign}

// ImageData is the pixel payload of a texture.
type ImageData struct {
	Height          int32
	Width           int32
	Data            layout.Blob
	DynamicAlloc    uint32
	BitsPerPixel    uint32
	LocationAddress uint32
	MemoryAddress   uint32
}

func (d *ImageData) Layout(l *schema.Layout) {
	l.I32("Height", &d.Height)
	l.I32("Width", &d.Width)
	l.Embed("Data", d.Data.At(imageTarget))
	l.U32("DynamicAlloc", &d.DynamicAlloc)
	l.U32("BitsPerPixel", &d.BitsPerPixel)
	l.U32("LocationAddress", &d.LocationAddress)
	l.U32("MemoryAddress", &d.MemoryAddress)
}

// Texture is an image texture.
type Texture struct {
	Object

	Height       uint32
	Width        uint32
	GLFormat     uint32
	GLType       uint32
	MipmapSize   uint32
	TextureObj   uint32
	LocationFlag uint32
	HwFormat     uint32
	Image        *ImageData
}

func (*Texture) Variant() dispatch.Variant { return "gfx.Texture" }

func (t *Texture) Layout(l *schema.Layout) {
	t.Object.layout(l, "TXOB")
	l.U32("Height", &t.Height)
	l.U32("Width", &t.Width)
	l.U32("GLFormat", &t.GLFormat)
	l.U32("GLType", &t.GLType)
	l.U32("MipmapSize", &t.MipmapSize)
	l.U32("TextureObj", &t.TextureObj)
	l.U32("LocationFlag", &t.LocationFlag)
	l.U32("HwFormat", &t.HwFormat)
	schema.Ref(l, "Image", &t.Image)
}

func (t *Texture) hasImage() bool {
	return t != nil && t.Image != nil && len(t.Image.Data.Data) > 0
}

var textureTypes = dispatch.NewTable[*Texture]("gfx texture").
	Register("gfx.Texture", func(uint32) *Texture { return &Texture{} }, TagTexture)

var textureElem = schema.Indirect(schema.TaggedOf(textureTypes))
