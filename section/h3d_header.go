package section

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/ctrbin/errs"
)

// H3DHeader is the header at the start of a Format-B file. Its size depends
// on BackwardCompat: versions above H3DRawExtVersion carry the raw-ext
// address and length.
type H3DHeader struct {
	BackwardCompat   uint8  // byte offset 4
	ForwardCompat    uint8  // byte offset 5
	ConverterVersion uint16 // byte offset 6-7

	ContentsAddress   uint32
	StringsAddress    uint32
	CommandsAddress   uint32
	RawDataAddress    uint32
	RawExtAddress     uint32 // only when HasRawExt
	RelocationAddress uint32

	ContentsLength   uint32
	StringsLength    uint32
	CommandsLength   uint32
	RawDataLength    uint32
	RawExtLength     uint32 // only when HasRawExt
	RelocationLength uint32

	UninitDataLength     uint32
	UninitCommandsLength uint32

	Flags        uint16
	AddressCount uint16
}

// NewH3DHeader creates a header for the given version. Addresses and lengths
// are filled in once the image has been flushed.
func NewH3DHeader(version uint8) *H3DHeader {
	return &H3DHeader{
		BackwardCompat:   version,
		ForwardCompat:    H3DDefaultForward,
		ConverterVersion: H3DDefaultConverter,
	}
}

// HasRawExt reports whether the header carries the raw-ext section fields.
func (h *H3DHeader) HasRawExt() bool {
	return h.BackwardCompat > H3DRawExtVersion
}

// Size returns the encoded size of the header.
func (h *H3DHeader) Size() int {
	if h.HasRawExt() {
		return H3DHeaderSizeV2
	}

	return H3DHeaderSizeV1
}

// Parse parses the header from a byte slice.
//
// Returns:
//   - error: ErrBadMagic, ErrTruncated, or a range error when a section lies outside data
func (h *H3DHeader) Parse(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("h3d header: %w", errs.ErrTruncated)
	}
	if string(data[0:4]) != H3DMagic {
		return fmt.Errorf("h3d header magic %q: %w", data[0:4], errs.ErrBadMagic)
	}

	h.BackwardCompat = data[4]
	h.ForwardCompat = data[5]
	if len(data) < h.Size() {
		return fmt.Errorf("h3d header: %w", errs.ErrTruncated)
	}

	le := binary.LittleEndian
	h.ConverterVersion = le.Uint16(data[6:8])

	off := 8
	u32 := func() uint32 {
		v := le.Uint32(data[off:])
		off += 4

		return v
	}

	h.ContentsAddress = u32()
	h.StringsAddress = u32()
	h.CommandsAddress = u32()
	h.RawDataAddress = u32()
	if h.HasRawExt() {
		h.RawExtAddress = u32()
	}
	h.RelocationAddress = u32()

	h.ContentsLength = u32()
	h.StringsLength = u32()
	h.CommandsLength = u32()
	h.RawDataLength = u32()
	if h.HasRawExt() {
		h.RawExtLength = u32()
	}
	h.RelocationLength = u32()

	h.UninitDataLength = u32()
	h.UninitCommandsLength = u32()

	h.Flags = le.Uint16(data[off:])
	h.AddressCount = le.Uint16(data[off+2:])

	return h.Validate(len(data))
}

// Validate checks that every section lies inside a buffer of the given size.
func (h *H3DHeader) Validate(size int) error {
	sections := []struct {
		name    string
		address uint32
		length  uint32
	}{
		{"contents", h.ContentsAddress, h.ContentsLength},
		{"strings", h.StringsAddress, h.StringsLength},
		{"commands", h.CommandsAddress, h.CommandsLength},
		{"raw data", h.RawDataAddress, h.RawDataLength},
		{"raw ext", h.RawExtAddress, h.RawExtLength},
		{"relocation", h.RelocationAddress, h.RelocationLength},
	}

	for _, s := range sections {
		if uint64(s.address)+uint64(s.length) > uint64(size) {
			return fmt.Errorf("h3d %s section [%#x, +%#x) exceeds buffer %#x: %w",
				s.name, s.address, s.length, size, errs.ErrOutOfRange)
		}
	}
	if h.RelocationLength%4 != 0 {
		return fmt.Errorf("h3d relocation length %#x: %w", h.RelocationLength, errs.ErrFormat)
	}

	return nil
}

// Bytes serializes the H3DHeader into a byte slice.
func (h *H3DHeader) Bytes() []byte {
	b := make([]byte, 0, h.Size())
	le := binary.LittleEndian

	b = append(b, H3DMagic...)
	b = append(b, h.BackwardCompat, h.ForwardCompat)
	b = le.AppendUint16(b, h.ConverterVersion)

	b = le.AppendUint32(b, h.ContentsAddress)
	b = le.AppendUint32(b, h.StringsAddress)
	b = le.AppendUint32(b, h.CommandsAddress)
	b = le.AppendUint32(b, h.RawDataAddress)
	if h.HasRawExt() {
		b = le.AppendUint32(b, h.RawExtAddress)
	}
	b = le.AppendUint32(b, h.RelocationAddress)

	b = le.AppendUint32(b, h.ContentsLength)
	b = le.AppendUint32(b, h.StringsLength)
	b = le.AppendUint32(b, h.CommandsLength)
	b = le.AppendUint32(b, h.RawDataLength)
	if h.HasRawExt() {
		b = le.AppendUint32(b, h.RawExtLength)
	}
	b = le.AppendUint32(b, h.RelocationLength)

	b = le.AppendUint32(b, h.UninitDataLength)
	b = le.AppendUint32(b, h.UninitCommandsLength)

	b = le.AppendUint16(b, h.Flags)
	b = le.AppendUint16(b, h.AddressCount)

	return b
}
