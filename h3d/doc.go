// Package h3d reads and writes Format-B containers: the "BCH" layout whose
// pointers are offsets into one of several sections and are made absolute
// by a relocation table at load time.
//
// # File Layout
//
//	+--------+----------+---------+----------+----------+---------+------------+
//	| Header | Contents | Strings | Commands | Raw data | Raw ext | Relocation |
//	+--------+----------+---------+----------+----------+---------+------------+
//
// Every pointer slot lives in the contents section. Each one has a
// relocation entry naming its word offset inside contents and the section
// its value is relative to. Load applies the table to a private copy of the
// input before decoding; Save writes section-relative values and emits the
// table from the reserved pointer slots.
//
// Index buffer pointers keep bit 31 set when the buffer holds 16-bit
// indices; relocation preserves it.
//
// The header's backward-compatibility byte is the stream version. It gates
// the raw-ext section and version-dependent record fields such as the
// light animation element index table.
package h3d
