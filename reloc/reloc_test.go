package reloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctrbin/cursor"
	"github.com/arloliu/ctrbin/endian"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/section"
)

var le = endian.GetLittleEndianEngine()

func newSet() *section.Set {
	return section.NewSet(le,
		section.Spec{ID: format.SectionHeader},
		section.Spec{ID: format.SectionMain, Align: 4},
		section.Spec{ID: format.SectionStrings, Align: 4},
		section.Spec{ID: format.SectionRawData, Align: 0x10},
	)
}

func TestResolver_SelfRelative(t *testing.T) {
	r := Resolver{Mode: SelfRelative, Size: 0x100}

	abs, ok, err := r.Resolve(0x10, 0x20)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0x30, abs)

	abs, ok, err = r.Resolve(uint32(0xFFFFFFF0), 0x20)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0x10, abs, "negative offsets point backwards")

	_, ok, err = r.Resolve(0, 0x20)
	require.NoError(t, err)
	require.False(t, ok, "zero is a null pointer")

	_, _, err = r.Resolve(0x200, 0x20)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestResolver_SectionRelativeFlag(t *testing.T) {
	r := Resolver{Mode: SectionRelative, Size: 0x100, FlagMask: section.H3DIndex16Flag}

	raw := uint32(0x40) | section.H3DIndex16Flag
	abs, ok, err := r.Resolve(raw, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0x40, abs)
	require.True(t, r.Flagged(raw))
	require.False(t, r.Flagged(0x40))
}

func TestTable_SelfRelativePatch(t *testing.T) {
	set := newSet()
	table := NewTable(SelfRelative)

	set.Section(format.SectionHeader).Cursor().WriteZeros(8)

	main := set.Section(format.SectionMain)
	slot := main.Append(4)
	main.Cursor().WriteU32(0)

	str := set.Section(format.SectionStrings)
	ref := table.NewRef()
	table.Reserve(slot, Pointer{Ref: ref})
	table.Place(ref, str.Append(4))
	str.Cursor().WriteCString("name")

	image, err := set.Flush()
	require.NoError(t, err)
	require.NoError(t, table.Patch(set, image, le))

	stats := table.Stats()
	require.Equal(t, stats.Reserved, stats.Patched)
	require.Equal(t, 1, stats.Patched)
	require.Empty(t, table.Entries())

	r := Resolver{Mode: SelfRelative, Size: len(image)}
	abs, ok, err := r.Resolve(le.Uint32(image[8:]), 8)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "name", cursorString(image, abs))
}

func TestTable_UnplacedTarget(t *testing.T) {
	set := newSet()
	table := NewTable(SelfRelative)

	main := set.Section(format.SectionMain)
	slot := main.Append(4)
	main.Cursor().WriteU32(0)
	table.Reserve(slot, Pointer{Ref: table.NewRef()})

	image, err := set.Flush()
	require.NoError(t, err)
	require.ErrorIs(t, table.Patch(set, image, le), errs.ErrUnpatchedPointer)
}

func TestTable_SectionRelativeEntries(t *testing.T) {
	set := newSet()
	table := NewTable(SectionRelative)

	set.Section(format.SectionHeader).Cursor().WriteZeros(4)

	main := set.Section(format.SectionMain)
	strSlot := main.Append(4)
	main.Cursor().WriteU32(0)
	rawSlot := main.Here()
	main.Cursor().WriteU32(0)

	str := set.Section(format.SectionStrings)
	str.Cursor().WriteCString("skip")
	strRef := table.NewRef()
	table.Place(strRef, str.Append(1))
	str.Cursor().WriteCString("light")
	table.Reserve(strSlot, Pointer{Ref: strRef, Kind: format.RelocStrings})

	raw := set.Section(format.SectionRawData)
	rawRef := table.NewRef()
	table.Place(rawRef, raw.Append(0x10))
	raw.Cursor().WriteBytes([]byte{1, 0, 2, 0})
	table.Reserve(rawSlot, Pointer{Ref: rawRef, Kind: format.RelocRawDataIndex16, Flags: section.H3DIndex16Flag})

	image, err := set.Flush()
	require.NoError(t, err)
	require.NoError(t, table.Patch(set, image, le))

	entries := table.Entries()
	require.Equal(t, []Entry{
		{Slot: strSlot, Kind: format.RelocStrings},
		{Slot: rawSlot, Kind: format.RelocRawDataIndex16},
	}, entries)

	// Stored values are section relative until the table is applied.
	require.Equal(t, uint32(5), le.Uint32(image[4:]))
	require.Equal(t, uint32(section.H3DIndex16Flag), le.Uint32(image[8:]))

	words := make([]uint32, 0, len(entries))
	for _, e := range entries {
		w, err := EncodeEntry(e)
		require.NoError(t, err)
		words = append(words, w)
	}

	bases := map[format.RelocKind]int{
		format.RelocStrings:        set.Section(format.SectionStrings).Base(),
		format.RelocRawDataIndex16: set.Section(format.SectionRawData).Base(),
	}
	n, err := Apply(image, le, main.Base(), words, bases, section.H3DIndex16Flag)
	require.NoError(t, err)
	require.Equal(t, len(words), n)

	r := Resolver{Mode: SectionRelative, Size: len(image), FlagMask: section.H3DIndex16Flag}
	abs, ok, err := r.Resolve(le.Uint32(image[4:]), 4)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "light", cursorString(image, abs))

	raw16 := le.Uint32(image[8:])
	require.True(t, r.Flagged(raw16))
	abs, _, err = r.Resolve(raw16, 8)
	require.NoError(t, err)
	require.Equal(t, set.Section(format.SectionRawData).Base(), abs)
}

func TestTable_SectionRelativeSlotOutsideContents(t *testing.T) {
	set := newSet()
	table := NewTable(SectionRelative)

	str := set.Section(format.SectionStrings)
	slot := str.Append(4)
	str.Cursor().WriteU32(0)
	ref := table.NewRef()
	table.Place(ref, slot)
	table.Reserve(slot, Pointer{Ref: ref, Kind: format.RelocStrings})

	image, err := set.Flush()
	require.NoError(t, err)
	require.ErrorIs(t, table.Patch(set, image, le), errs.ErrMalformedRecord)
}

func TestTable_SectionRelativeUnalignedSlot(t *testing.T) {
	set := newSet()
	table := NewTable(SectionRelative)

	contents := set.Section(format.SectionMain)
	contents.Cursor().WriteU16(0)
	slot := contents.Here()
	contents.Cursor().WriteU32(0)
	ref := table.NewRef()
	table.Place(ref, section.Location{Section: format.SectionMain})
	table.Reserve(slot, Pointer{Ref: ref, Kind: format.RelocContents})

	image, err := set.Flush()
	require.NoError(t, err)
	err = table.Patch(set, image, le)
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
	require.ErrorContains(t, err, "not word aligned")
}

func TestTable_LocalSlots(t *testing.T) {
	table := NewTable(SelfRelative)
	c := cursor.NewWriter(le)
	defer c.Release()

	c.WriteU32(0xFFFFFFFF)
	first := table.ReserveLocal(c)
	second := table.ReserveLocal(c)
	require.ErrorIs(t, table.Verify(), errs.ErrUnpatchedPointer)

	require.NoError(t, first.PatchHere())
	c.WriteU32(1)
	require.NoError(t, second.PatchHere())
	c.WriteU32(2)
	require.NoError(t, table.Verify())
	require.ErrorIs(t, second.PatchHere(), errs.ErrMalformedRecord)

	require.Equal(t, uint32(8), le.Uint32(c.Bytes()[4:]), "first slot points past both slots")
	require.Equal(t, uint32(8), le.Uint32(c.Bytes()[8:]))
}

func TestEncodeDecodeEntry(t *testing.T) {
	word, err := EncodeEntry(Entry{Slot: section.Location{Offset: 0x40}, Kind: format.RelocRawDataIndex8})
	require.NoError(t, err)
	require.Equal(t, uint32(0x10)|uint32(format.RelocRawDataIndex8)<<25, word)

	off, kind := DecodeEntry(word)
	require.Equal(t, 0x40, off)
	require.Equal(t, format.RelocRawDataIndex8, kind)

	_, err = EncodeEntry(Entry{Slot: section.Location{Offset: 2}})
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
}

func TestApply_UnknownKind(t *testing.T) {
	data := make([]byte, 8)
	word, err := EncodeEntry(Entry{Slot: section.Location{Offset: 4}, Kind: format.RelocCommands})
	require.NoError(t, err)

	n, err := Apply(data, le, 0, []uint32{word}, map[format.RelocKind]int{}, 0)
	require.ErrorIs(t, err, errs.ErrUnrecognizedTag)
	require.Zero(t, n)

	word, err = EncodeEntry(Entry{Slot: section.Location{Offset: 8}, Kind: format.RelocCommands})
	require.NoError(t, err)
	_, err = Apply(data, le, 0, []uint32{word}, map[format.RelocKind]int{format.RelocCommands: 4}, 0)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func cursorString(image []byte, pos int) string {
	c := cursor.New(image, le)
	if err := c.Seek(pos); err != nil {
		return ""
	}

	return c.ReadCString()
}
