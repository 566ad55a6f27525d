package section

import (
	"fmt"

	"github.com/arloliu/ctrbin/endian"
	"github.com/arloliu/ctrbin/errs"
)

// GfxHeader is the fixed 0x14-byte header at the start of a Format-A file.
type GfxHeader struct {
	// Engine is the byte order declared by the byte-order mark.
	Engine endian.EndianEngine // byte offset 4-5
	// HeaderSize is the size of this header; blocks start right after it.
	HeaderSize uint16 // byte offset 6-7
	// Revision is the container revision.
	Revision uint32 // byte offset 8-11
	// FileLength is the total length of the file in bytes.
	FileLength uint32 // byte offset 12-15
	// BlockCount is the number of blocks (DATA, and IMAG when present).
	BlockCount uint32 // byte offset 16-19
}

// NewGfxHeader creates a header for the given byte order. FileLength and
// BlockCount are filled in once the image has been flushed.
func NewGfxHeader(engine endian.EndianEngine) *GfxHeader {
	return &GfxHeader{
		Engine:     engine,
		HeaderSize: GfxHeaderSize,
		Revision:   GfxRevision,
	}
}

// Parse parses the header from a byte slice.
//
// Returns:
//   - error: ErrTruncated if data is too short, ErrBadMagic on magic or byte-order mismatch
func (h *GfxHeader) Parse(data []byte) error {
	if len(data) < GfxHeaderSize {
		return fmt.Errorf("gfx header: %w", errs.ErrTruncated)
	}
	if string(data[0:4]) != GfxMagic {
		return fmt.Errorf("gfx header magic %q: %w", data[0:4], errs.ErrBadMagic)
	}

	engine, err := endian.FromBOM(data[4:6])
	if err != nil {
		return fmt.Errorf("gfx header: %w", err)
	}
	h.Engine = engine
	h.HeaderSize = engine.Uint16(data[6:8])
	h.Revision = engine.Uint32(data[8:12])
	h.FileLength = engine.Uint32(data[12:16])
	h.BlockCount = engine.Uint32(data[16:20])

	return h.Validate(len(data))
}

// Validate checks the header against the size of the buffer it came from.
func (h *GfxHeader) Validate(size int) error {
	if h.HeaderSize < GfxHeaderSize || int(h.HeaderSize) > size {
		return fmt.Errorf("gfx header size %#x: %w", h.HeaderSize, errs.ErrFormat)
	}
	if int(h.FileLength) > size {
		return fmt.Errorf("gfx file length %#x exceeds buffer %#x: %w", h.FileLength, size, errs.ErrTruncated)
	}

	return nil
}

// Bytes serializes the GfxHeader into a byte slice.
func (h *GfxHeader) Bytes() []byte {
	b := make([]byte, GfxHeaderSize)
	copy(b[0:4], GfxMagic)
	h.Engine.PutUint16(b[4:6], endian.ByteOrderMark)
	h.Engine.PutUint16(b[6:8], h.HeaderSize)
	h.Engine.PutUint32(b[8:12], h.Revision)
	h.Engine.PutUint32(b[12:16], h.FileLength)
	h.Engine.PutUint32(b[16:20], h.BlockCount)

	return b
}
