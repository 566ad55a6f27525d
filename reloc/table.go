package reloc

import (
	"fmt"

	"github.com/arloliu/ctrbin/cursor"
	"github.com/arloliu/ctrbin/endian"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/section"
)

// Ref identifies a pointer target during encoding. The zero Ref is null.
type Ref uint32

// Pointer describes a reserved pointer slot.
type Pointer struct {
	Ref Ref
	// Kind classifies the target for relocation tables.
	Kind format.RelocKind
	// Flags are OR-ed into the patched value.
	Flags uint32
}

// Entry is one relocation emitted for a section-relative pointer.
type Entry struct {
	Slot section.Location
	Kind format.RelocKind
}

// Stats counts reservations and patches made through a Table.
type Stats struct {
	Reserved int
	Patched  int
}

type reservation struct {
	slot section.Location
	ptr  Pointer
}

// Table collects pointer reservations and target placements for one save.
type Table struct {
	mode    Mode
	next    Ref
	placed  map[Ref]section.Location
	pending []reservation
	stats   Stats
}

// NewTable creates an empty reservation table for the given pointer mode.
func NewTable(mode Mode) *Table {
	return &Table{
		mode:   mode,
		placed: make(map[Ref]section.Location),
	}
}

// Mode returns the pointer convention of the table.
func (t *Table) Mode() Mode { return t.mode }

// NewRef allocates a fresh target reference.
func (t *Table) NewRef() Ref {
	t.next++
	return t.next
}

// Place records the location a target has been written at.
func (t *Table) Place(ref Ref, loc section.Location) {
	t.placed[ref] = loc
}

// Placed returns where ref has been written, if it has.
func (t *Table) Placed(ref Ref) (section.Location, bool) {
	loc, ok := t.placed[ref]
	return loc, ok
}

// Reserve records a pending pointer write at slot. The caller has already
// written a zero placeholder there.
func (t *Table) Reserve(slot section.Location, ptr Pointer) {
	t.pending = append(t.pending, reservation{slot: slot, ptr: ptr})
	t.stats.Reserved++
}

// Patch resolves every reservation against the flushed set and writes the
// final pointer values into image.
func (t *Table) Patch(set *section.Set, image []byte, engine endian.EndianEngine) error {
	c := cursor.New(image, engine)

	for _, r := range t.pending {
		target, ok := t.placed[r.ptr.Ref]
		if !ok {
			return fmt.Errorf("pointer at %s to ref %d: %w", r.slot, r.ptr.Ref, errs.ErrUnpatchedPointer)
		}

		slotAbs, err := set.Absolute(r.slot)
		if err != nil {
			return err
		}

		var value uint32
		switch t.mode {
		case SelfRelative:
			targetAbs, err := set.Absolute(target)
			if err != nil {
				return err
			}
			value = uint32(int32(targetAbs-slotAbs)) | r.ptr.Flags
		case SectionRelative:
			if r.slot.Section != format.SectionMain {
				return fmt.Errorf("relocated pointer slot %s outside contents: %w", r.slot, errs.ErrMalformedRecord)
			}
			if r.slot.Offset%4 != 0 {
				return fmt.Errorf("relocated pointer slot %s not word aligned: %w", r.slot, errs.ErrMalformedRecord)
			}
			if r.ptr.Kind.Section() != target.Section {
				return fmt.Errorf("pointer at %s: kind %s does not address %s: %w",
					r.slot, r.ptr.Kind, target.Section, errs.ErrMalformedRecord)
			}
			value = uint32(target.Offset) | r.ptr.Flags
		}

		if err := c.PutU32At(slotAbs, value); err != nil {
			return err
		}
		t.stats.Patched++
	}

	return t.Verify()
}

// Verify fails with errs.ErrUnpatchedPointer unless every reservation has
// been patched.
func (t *Table) Verify() error {
	if t.stats.Reserved != t.stats.Patched {
		return fmt.Errorf("%d pointers reserved, %d patched: %w",
			t.stats.Reserved, t.stats.Patched, errs.ErrUnpatchedPointer)
	}

	return nil
}

// Entries returns one relocation entry per section-relative reservation, in
// reservation order. Entries only depend on slot locations, so they are
// available before the sections are flushed.
func (t *Table) Entries() []Entry {
	if t.mode != SectionRelative {
		return nil
	}

	entries := make([]Entry, 0, len(t.pending))
	for _, r := range t.pending {
		entries = append(entries, Entry{Slot: r.slot, Kind: r.ptr.Kind})
	}

	return entries
}

// Stats returns the reservation counters.
func (t *Table) Stats() Stats { return t.stats }

// LocalSlot is a self-relative pointer slot whose target is written later
// in the same section.
type LocalSlot struct {
	t       *Table
	c       *cursor.Cursor
	pos     int
	patched bool
}

// ReserveLocal writes a zero placeholder at the cursor and returns the slot.
func (t *Table) ReserveLocal(c *cursor.Cursor) *LocalSlot {
	s := &LocalSlot{t: t, c: c, pos: c.Tell()}
	c.WriteU32(0)
	t.stats.Reserved++

	return s
}

// Patch points the slot at target, a position in the same cursor.
func (s *LocalSlot) Patch(target int) error {
	if s.patched {
		return fmt.Errorf("local pointer at %#x patched twice: %w", s.pos, errs.ErrMalformedRecord)
	}
	if err := s.c.PutU32At(s.pos, uint32(int32(target-s.pos))); err != nil {
		return err
	}
	s.patched = true
	s.t.stats.Patched++

	return nil
}

// PatchHere points the slot at the current cursor position.
func (s *LocalSlot) PatchHere() error {
	return s.Patch(s.c.Tell())
}
