package schema

import (
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/reloc"
)

// MaxDepth bounds record nesting while decoding.
const MaxDepth = 64

// Dialect carries the pointer and collection conventions of one container format.
type Dialect struct {
	Name string
	// Mode is the pointer convention.
	Mode reloc.Mode
	// FlagMask selects pointer bits that carry side information.
	FlagMask uint32
	// CountFirst puts the element count before the pointer in list headers.
	CountFirst bool
	// Records is the section records, arrays and lists are written to.
	Records format.SectionID
	// RecordAlign is the alignment of every queued record or array.
	RecordAlign int
	// Strings is the section strings are interned into.
	Strings format.SectionID
	// RecordKind and StringKind classify pointers into Records and Strings.
	RecordKind format.RelocKind
	StringKind format.RelocKind
}

// Target describes where a queued pointer target is written.
type Target struct {
	Section format.SectionID
	Align   int
	Kind    format.RelocKind
	Flags   uint32
}

// RecordTarget is the default target for records, arrays and lists.
func (d Dialect) RecordTarget() Target {
	return Target{Section: d.Records, Align: d.RecordAlign, Kind: d.RecordKind}
}
