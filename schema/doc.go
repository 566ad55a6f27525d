// Package schema is the declarative record codec shared by both container
// dialects.
//
// A record type declares its on-disk layout once, as an ordered list of field
// descriptors bound to its own fields. The same declaration drives both
// directions:
//
//	func (f *Fog) Layout(l *schema.Layout) {
//		l.String("Name", &f.Name)
//		l.Vec3("Translation", &f.Translation)
//		l.U8("Type", &f.Type)
//		l.U8("Flags", &f.Flags)
//		l.Align(4)
//		l.When(format.CmpGreater, 0x21)
//		l.F32("Density", &f.Density)
//	}
//
// Field order is the wire order. Scalars are read and written at their
// natural width; lists, references, strings and tagged records go through
// pointers whose convention (self-relative or section-relative, count before
// or after the pointer) comes from the Dialect.
//
// Decoder walks the descriptors reading from a cursor. Encoder walks them
// writing into the dialect's record section; every pointer target is queued
// and appended to its section in FIFO order once the current record is
// complete, and every pointer slot is reserved in a reloc.Table for patching
// after the sections are flushed.
//
// Records whose layout cannot be expressed with descriptors implement
// CustomLayout, choosing one of a closed set of strategies.
package schema
