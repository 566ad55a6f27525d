// Package gfx reads and writes Format-A containers: the self-relative
// "CGFX" layout made of a DATA block of named dictionaries and an optional
// IMAG block holding texture payloads.
//
// # File Layout
//
//	+--------+------------------------------+-----------+---------------+
//	| Header | DATA: magic, length, 12 dict | strings   | IMAG: texture |
//	| 0x14   | descriptors, records         |           | payloads      |
//	+--------+------------------------------+-----------+---------------+
//
// Every pointer is stored as the distance from the pointer's own slot to its
// target, so a loaded file needs no relocation pass. Dictionaries carry a
// patricia search tree that is rebuilt from the entry names on save.
//
// # Usage
//
//	file, err := gfx.Load(data)
//	if err != nil {
//		return err
//	}
//	cam, ok := file.Camera("MainCamera")
//
//	out, err := gfx.Save(file, gfx.WithByteOrder(endian.GetBigEndianEngine()))
//
// Load never returns a partially populated File. Polymorphic slots are
// decoded through per-slot dispatch tables; saving a value whose Go type is
// not registered fails with errs.ErrUnregisteredType.
package gfx
