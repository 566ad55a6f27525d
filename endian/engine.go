// Package endian provides the byte order engines used by the container codecs.
//
// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so that a
// single value can drive both in-place patching (Put*) and appending writes.
//
// Format-A containers declare their byte order with a 16-bit byte-order mark
// right after the magic; Format-B containers are always little-endian:
//
//	engine, err := endian.FromBOM(data[4:6])
//	if err != nil {
//		return err
//	}
//	revision := engine.Uint32(data[8:])
//
// All functions in this package are safe for concurrent use. The returned
// engines are immutable and stateless.
package endian

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/ctrbin/errs"
)

// ByteOrderMark is the value written as a 16-bit word in the container's own
// byte order. Read back with the wrong order it appears as 0xFFFE.
const ByteOrderMark uint16 = 0xFEFF

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// FromBOM returns the engine that decodes the two-byte mark as ByteOrderMark.
func FromBOM(mark []byte) (EndianEngine, error) {
	if len(mark) < 2 {
		return nil, fmt.Errorf("byte order mark: %w", errs.ErrTruncated)
	}

	switch binary.LittleEndian.Uint16(mark) {
	case ByteOrderMark:
		return binary.LittleEndian, nil
	case 0xFFFE:
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("byte order mark %#04x: %w", binary.LittleEndian.Uint16(mark), errs.ErrBadMagic)
	}
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}
