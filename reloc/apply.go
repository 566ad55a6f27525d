package reloc

import (
	"fmt"

	"github.com/arloliu/ctrbin/cursor"
	"github.com/arloliu/ctrbin/endian"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/section"
)

// EncodeEntry packs a relocation entry whose slot lies in a section starting
// at offset 0 of that section.
func EncodeEntry(e Entry) (uint32, error) {
	if e.Slot.Offset%4 != 0 {
		return 0, fmt.Errorf("relocation slot %s not word aligned: %w", e.Slot, errs.ErrMalformedRecord)
	}
	words := uint32(e.Slot.Offset / 4)
	if words > section.H3DRelocOffsetMask {
		return 0, fmt.Errorf("relocation slot %s: %w", e.Slot, errs.ErrOutOfRange)
	}

	return words | uint32(e.Kind)<<section.H3DRelocKindShift, nil
}

// DecodeEntry unpacks a relocation entry into its byte offset and kind.
func DecodeEntry(word uint32) (offset int, kind format.RelocKind) {
	return int(word&section.H3DRelocOffsetMask) * 4, format.RelocKind(word >> section.H3DRelocKindShift)
}

// Apply rewrites relocated pointer slots of data in place. Each entry names a
// slot relative to slotBase; the base of its kind is added to the stored
// value while the bits in flagMask are preserved. It returns the number of
// slots rewritten before any error.
func Apply(data []byte, engine endian.EndianEngine, slotBase int, words []uint32,
	bases map[format.RelocKind]int, flagMask uint32,
) (int, error) {
	c := cursor.New(data, engine)

	for i, word := range words {
		offset, kind := DecodeEntry(word)
		base, ok := bases[kind]
		if !ok {
			return i, fmt.Errorf("relocation %d: kind %d: %w", i, kind, errs.ErrUnrecognizedTag)
		}

		slot := slotBase + offset
		value, err := c.U32At(slot)
		if err != nil {
			return i, fmt.Errorf("relocation %d: %w", i, err)
		}

		flags := value & flagMask
		value = (value&^flagMask + uint32(base)) | flags
		if err := c.PutU32At(slot, value); err != nil {
			return i, fmt.Errorf("relocation %d: %w", i, err)
		}
	}

	return len(words), nil
}
