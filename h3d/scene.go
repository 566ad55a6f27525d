package h3d

import (
	"github.com/arloliu/ctrbin/schema"
)

// IndexedName names a scene object by index.
type IndexedName struct {
	Index int32
	Name  string
}

func (n *IndexedName) Layout(l *schema.Layout) {
	l.I32("Index", &n.Index)
	l.String("Name", &n.Name)
}

// IndexedNameArray names a group of scene objects, such as a light set.
type IndexedNameArray struct {
	Index int32
	Names []string
}

func (n *IndexedNameArray) Layout(l *schema.Layout) {
	l.I32("Index", &n.Index)
	schema.List(l, "Names", &n.Names, schema.StringElem)
}

// Scene binds cameras, light sets and fogs by name.
type Scene struct {
	Name      string
	Cameras   []*IndexedName
	LightSets []*IndexedNameArray
	Fogs      []*IndexedName
	MetaData  *MetaData
}

func (s *Scene) dictKey() string { return s.Name }

func (s *Scene) Layout(l *schema.Layout) {
	l.String("Name", &s.Name)
	schema.List(l, "Cameras", &s.Cameras, schema.RecordOf[IndexedName]())
	schema.List(l, "LightSets", &s.LightSets, schema.RecordOf[IndexedNameArray]())
	schema.List(l, "Fogs", &s.Fogs, schema.RecordOf[IndexedName]())
	schema.Ref(l, "MetaData", &s.MetaData)
}

var sceneElem = schema.Indirect(schema.RecordOf[Scene]())
