package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/schema"
)

// Object is the header shared by every named record: a four-byte magic,
// a revision, a name and a metadata dictionary.
type Object struct {
	Revision uint32
	Name     string
	MetaData []MetaData
}

func (o *Object) dictKey() string { return o.Name }

func (o *Object) layout(l *schema.Layout, magic string) {
	l.Magic("Magic", magic)
	l.U32("Revision", &o.Revision)
	l.String("Name", &o.Name)
	dict(l, "MetaData", &o.MetaData, metaDataElem)
}

// Node is an Object placed in the scene hierarchy.
type Node struct {
	Object

	BranchVisible bool
	Children      []string
	AnimGroups    []*AnimGroup

	Scale       mgl32.Vec3
	Rotation    mgl32.Vec3
	Translation mgl32.Vec3
}

func (n *Node) layout(l *schema.Layout, magic string) {
	n.Object.layout(l, magic)
	l.Bool32("BranchVisible", &n.BranchVisible)
	schema.List(l, "Children", &n.Children, schema.StringElem)
	dict(l, "AnimGroups", &n.AnimGroups, animGroupElem)
	l.Vec3("Scale", &n.Scale)
	l.Vec3("Rotation", &n.Rotation)
	l.Vec3("Translation", &n.Translation)
}

// bodyTag declares the constant tag leading a record body whose variant was
// already chosen by the parent.
func bodyTag(l *schema.Layout, tag uint32) {
	l.Add("Tag", schema.KindScalar,
		func(d *schema.Decoder) error {
			c := d.Cursor()
			got := c.ReadU32()
			if c.Err() == nil && got != tag {
				return fmt.Errorf("body tag %#x, want %#x: %w", got, tag, errs.ErrUnrecognizedTag)
			}

			return nil
		},
		func(e *schema.Encoder) error {
			e.Cursor().WriteU32(tag)
			return nil
		})
}
