package gfx

import (
	"github.com/arloliu/ctrbin/schema"
)

// SceneRef names an object of the scene by index.
type SceneRef struct {
	Index int32
	Name  string
}

func (r *SceneRef) Layout(l *schema.Layout) {
	l.I32("Index", &r.Index)
	l.String("Name", &r.Name)
	l.Pad(4)
}

// LightSet groups the lights active together.
type LightSet struct {
	Index  int32
	Lights []string
}

func (s *LightSet) Layout(l *schema.Layout) {
	l.I32("Index", &s.Index)
	schema.List(l, "Lights", &s.Lights, schema.StringElem)
}

// Scene binds cameras, light sets and fogs by name.
type Scene struct {
	Object

	Cameras   []*SceneRef
	LightSets []*LightSet
	Fogs      []*SceneRef
}

func (s *Scene) Layout(l *schema.Layout) {
	s.Object.layout(l, "CENV")
	schema.List(l, "Cameras", &s.Cameras, schema.Indirect(schema.RecordOf[SceneRef]()))
	schema.List(l, "LightSets", &s.LightSets, schema.Indirect(schema.RecordOf[LightSet]()))
	schema.List(l, "Fogs", &s.Fogs, schema.Indirect(schema.RecordOf[SceneRef]()))
}

var sceneElem = schema.Indirect(schema.RecordOf[Scene]())
