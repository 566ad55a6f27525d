package h3d

import (
	"github.com/arloliu/ctrbin/layout"
	"github.com/arloliu/ctrbin/schema"
)

// Texture is an image with its GPU setup commands.
type Texture struct {
	Name        string
	Commands    []uint32
	Width       uint16
	Height      uint16
	Format      uint8
	MipmapCount uint8
	Data        layout.Blob
}

func (t *Texture) dictKey() string { return t.Name }

func (t *Texture) Layout(l *schema.Layout) {
	l.String("Name", &t.Name)
	commands(l, "Commands", &t.Commands)
	l.U16("Width", &t.Width)
	l.U16("Height", &t.Height)
	l.U8("Format", &t.Format)
	l.U8("MipmapCount", &t.MipmapCount)
	l.Pad(2)
	l.Embed("Data", t.Data.At(textureTarget))
}

var textureElem = schema.Indirect(schema.RecordOf[Texture]())
