package reloc

import (
	"fmt"

	"github.com/arloliu/ctrbin/errs"
)

// Mode is a pointer convention.
type Mode uint8

const (
	// SelfRelative pointers store target minus slot address.
	SelfRelative Mode = iota
	// SectionRelative pointers store an offset inside the target section and
	// are made absolute through a relocation table.
	SectionRelative
)

func (m Mode) String() string {
	switch m {
	case SelfRelative:
		return "SelfRelative"
	case SectionRelative:
		return "SectionRelative"
	default:
		return "Unknown"
	}
}

// Resolver turns stored pointer values into absolute buffer offsets.
type Resolver struct {
	Mode Mode
	// Size is the length of the buffer the pointers point into.
	Size int
	// FlagMask selects high bits that carry side information instead of address bits.
	FlagMask uint32
}

// Resolve converts raw, read from the pointer slot at slot, into an absolute
// offset. ok is false for a null pointer.
func (r Resolver) Resolve(raw uint32, slot int) (abs int, ok bool, err error) {
	value := raw &^ r.FlagMask
	if value == 0 {
		return 0, false, nil
	}

	switch r.Mode {
	case SelfRelative:
		abs = slot + int(int32(value))
	case SectionRelative:
		abs = int(value)
	default:
		return 0, false, fmt.Errorf("pointer mode %d: %w", r.Mode, errs.ErrMalformedRecord)
	}

	if abs < 0 || abs > r.Size {
		return 0, false, fmt.Errorf("pointer %#x at %#x resolves to %#x (length %#x): %w",
			raw, slot, abs, r.Size, errs.ErrOutOfRange)
	}

	return abs, true, nil
}

// Flagged reports whether raw carries any of the resolver's flag bits.
func (r Resolver) Flagged(raw uint32) bool {
	return raw&r.FlagMask != 0
}
