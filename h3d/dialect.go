package h3d

import (
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/reloc"
	"github.com/arloliu/ctrbin/schema"
	"github.com/arloliu/ctrbin/section"
)

// Dialect is the Format-B pointer and collection convention.
var Dialect = schema.Dialect{
	Name:        "h3d",
	Mode:        reloc.SectionRelative,
	FlagMask:    section.H3DIndex16Flag,
	Records:     format.SectionMain,
	RecordAlign: 4,
	Strings:     format.SectionStrings,
	RecordKind:  format.RelocContents,
	StringKind:  format.RelocStrings,
}

var (
	textureTarget  = schema.Target{Section: format.SectionRawData, Align: section.H3DRawDataAlign, Kind: format.RelocRawDataTexture}
	vertexTarget   = schema.Target{Section: format.SectionRawData, Align: 0x10, Kind: format.RelocRawDataVertex}
	commandsTarget = schema.Target{Section: format.SectionCommands, Align: 4, Kind: format.RelocCommands}
)

func sections(rawExt bool) []section.Spec {
	specs := []section.Spec{
		{ID: format.SectionHeader},
		{ID: format.SectionMain, Align: 4},
		{ID: format.SectionStrings, Align: 4},
		{ID: format.SectionCommands, Align: 4},
		{ID: format.SectionRawData, Align: section.H3DRawDataAlign},
	}
	if rawExt {
		specs = append(specs, section.Spec{ID: format.SectionRawExt, Align: section.H3DRawDataAlign})
	}

	return append(specs, section.Spec{ID: format.SectionRelocation, Align: 4})
}
