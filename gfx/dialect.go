package gfx

import (
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/reloc"
	"github.com/arloliu/ctrbin/schema"
	"github.com/arloliu/ctrbin/section"
)

// Dialect is the Format-A pointer and collection convention.
var Dialect = schema.Dialect{
	Name:        "gfx",
	Mode:        reloc.SelfRelative,
	CountFirst:  true,
	Records:     format.SectionMain,
	RecordAlign: section.GfxDataBlockAlign,
	Strings:     format.SectionStrings,
}

// Record tags stored in front of polymorphic dictionary values.
const (
	TagTexture    uint32 = 0x20000011
	TagCamera     uint32 = 0x4000000a
	TagFog        uint32 = 0x40000082
	TagShader     uint32 = 0x80000002
	TagFragLight  uint32 = 0x400000a2
	TagHemiLight  uint32 = 0x40000122
	TagVertLight  uint32 = 0x40000222
	TagAmbLight   uint32 = 0x40000422
	TagMetaSingle uint32 = 0x01000000
	TagMetaInt    uint32 = 0x02000000
	TagMetaString uint32 = 0x04000000
	TagMetaColor  uint32 = 0x08000000
)

// Camera view and projection body tags, stored as the first word of the
// pointed-to body. The camera record itself selects the body by a small
// type ordinal.
const (
	TagViewAim      uint32 = 0x20000000
	TagViewLookAt   uint32 = 0x40000000
	TagViewRotate   uint32 = 0x80000000
	TagPerspective  uint32 = 0x80000000
	TagFrustum      uint32 = 0x40000000
	TagOrthographic uint32 = 0x20000000
)

var sections = []section.Spec{
	{ID: format.SectionHeader},
	{ID: format.SectionMain, Align: section.GfxDataBlockAlign},
	{ID: format.SectionStrings, Align: section.GfxDataBlockAlign},
	{ID: format.SectionRawData, Align: section.GfxImageAlign},
}
