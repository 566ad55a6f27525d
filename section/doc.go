// Package section defines the section model and the fixed headers of both
// container dialects.
//
// # Sections
//
// A container is produced by writing records into independent, growable
// sections and concatenating them in a fixed order on Flush. Absolute file
// offsets are only known after Flush, which is why pointers are written as
// placeholders and patched later (see package reloc).
//
//	set := section.NewSet(engine,
//		section.Spec{ID: format.SectionHeader},
//		section.Spec{ID: format.SectionMain, Align: 4},
//		section.Spec{ID: format.SectionStrings, Align: 4},
//	)
//	loc := set.Section(format.SectionMain).Append(4)
//	...
//	image, err := set.Flush()
//	abs, err := set.Absolute(loc)
//
// # Format-A Layout
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (0x14 bytes)                                     │
//	│  - "CGFX", byte-order mark, header size                 │
//	│  - revision, file length, block count                   │
//	├─────────────────────────────────────────────────────────┤
//	│ DATA block                                              │
//	│  - "DATA", block length                                 │
//	│  - 12 dictionary descriptors (count, self-rel pointer)  │
//	│  - dictionaries and object records                      │
//	│  - string table                                         │
//	├─────────────────────────────────────────────────────────┤
//	│ IMAG block (optional)                                   │
//	│  - "IMAG", block length                                 │
//	│  - texture payloads, 0x80 aligned                       │
//	└─────────────────────────────────────────────────────────┘
//
// # Format-B Layout
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (0x3C or 0x44 bytes, by version)                 │
//	├─────────────────────────────────────────────────────────┤
//	│ Contents: dictionaries and records                      │
//	├─────────────────────────────────────────────────────────┤
//	│ Strings                                                 │
//	├─────────────────────────────────────────────────────────┤
//	│ Commands                                                │
//	├─────────────────────────────────────────────────────────┤
//	│ Raw data: textures and index buffers, 0x80 aligned      │
//	├─────────────────────────────────────────────────────────┤
//	│ Raw ext (version > 0x20)                                │
//	├─────────────────────────────────────────────────────────┤
//	│ Relocation table                                        │
//	└─────────────────────────────────────────────────────────┘
//
// Format-B pointers are stored relative to the section they point into; each
// relocation entry names the slot (a word offset in the contents section)
// and the kind of target, from which the loader adds the right base.
//
// Relocation entry (4 bytes):
//
//	Bits  | Field
//	------|----------------------------------------
//	0-24  | slot offset in contents, in words
//	25-31 | relocation kind (format.RelocKind)
package section
