// Package envelope wraps a container image for storage: a small header, a
// CBOR manifest describing the image, and the compressed image itself.
//
// Layout:
//
//	"CTRE" | u8 version | u8 reserved | u16 manifest length (LE) | manifest | payload
//
// The manifest records the dialect, codec, decompressed size, and two hashes
// of the decompressed image: an xxHash64 checksum verified on every Unpack
// and a BLAKE3-256 digest that identifies the image across stores.
package envelope

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/arloliu/ctrbin/compress"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
)

const (
	Magic      = "CTRE"
	Version    = 1
	headerSize = 8

	// MaxSize bounds the decompressed image size accepted by Unpack.
	MaxSize = 1 << 30
)

// Manifest describes the wrapped image.
type Manifest struct {
	Dialect     format.Dialect         `cbor:"1,keyasint"`
	Compression format.CompressionType `cbor:"2,keyasint"`
	Size        uint64                 `cbor:"3,keyasint"`
	Checksum    uint64                 `cbor:"4,keyasint"`
	Digest      [32]byte               `cbor:"5,keyasint"`
}

// encMode uses Core Deterministic Encoding, so equal manifests always
// produce identical bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("envelope: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("envelope: CBOR decoder initialization failed: " + err.Error())
	}
}

// Pack compresses image with compression and wraps it.
//
// Returns:
//   - []byte: the envelope
//   - error: errs.ErrUnknownCompression for an unknown codec, errs.ErrOutOfRange for an oversized image
func Pack(dialect format.Dialect, image []byte, compression format.CompressionType) ([]byte, error) {
	if len(image) > MaxSize {
		return nil, fmt.Errorf("envelope: image of %d bytes: %w", len(image), errs.ErrOutOfRange)
	}

	payload, _, err := compress.Compress(compression, image)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}

	m := Manifest{
		Dialect:     dialect,
		Compression: compression,
		Size:        uint64(len(image)),
		Checksum:    xxhash.Sum64(image),
		Digest:      blake3.Sum256(image),
	}
	manifest, err := encMode.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("envelope manifest: %w", err)
	}
	if len(manifest) > 0xFFFF {
		return nil, fmt.Errorf("envelope manifest of %d bytes: %w", len(manifest), errs.ErrOutOfRange)
	}

	out := make([]byte, 0, headerSize+len(manifest)+len(payload))
	out = append(out, Magic...)
	out = append(out, Version, 0)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(manifest)))
	out = append(out, manifest...)
	out = append(out, payload...)

	return out, nil
}

// Peek decodes the manifest without decompressing the payload.
func Peek(data []byte) (Manifest, error) {
	m, _, err := split(data)
	return m, err
}

// Unpack decompresses the image and verifies its checksum.
//
// Returns:
//   - Manifest: the decoded manifest
//   - []byte: the image, newly allocated
//   - error: errs.ErrBadMagic, errs.ErrTruncated, errs.ErrUnsupportedVersion,
//     errs.ErrUnknownCompression or errs.ErrChecksumMismatch
func Unpack(data []byte) (Manifest, []byte, error) {
	m, payload, err := split(data)
	if err != nil {
		return Manifest{}, nil, err
	}

	image, err := compress.Decompress(m.Compression, payload, int(m.Size))
	if err != nil {
		return Manifest{}, nil, fmt.Errorf("envelope: %w", err)
	}
	if m.Compression == format.CompressionNone {
		image = append([]byte(nil), image...)
	}

	if sum := xxhash.Sum64(image); sum != m.Checksum {
		return Manifest{}, nil, fmt.Errorf("envelope: checksum %#016x, manifest %#016x: %w",
			sum, m.Checksum, errs.ErrChecksumMismatch)
	}

	return m, image, nil
}

// Verify recomputes the BLAKE3 digest of image against m.
func (m Manifest) Verify(image []byte) error {
	if uint64(len(image)) != m.Size {
		return fmt.Errorf("envelope: image of %d bytes, manifest %d: %w", len(image), m.Size, errs.ErrChecksumMismatch)
	}
	if blake3.Sum256(image) != m.Digest {
		return fmt.Errorf("envelope: digest: %w", errs.ErrChecksumMismatch)
	}

	return nil
}

func split(data []byte) (Manifest, []byte, error) {
	var m Manifest
	if len(data) < headerSize {
		return m, nil, fmt.Errorf("envelope header: %w", errs.ErrTruncated)
	}
	if string(data[:4]) != Magic {
		return m, nil, fmt.Errorf("envelope magic %q: %w", data[:4], errs.ErrBadMagic)
	}
	if data[4] != Version {
		return m, nil, fmt.Errorf("envelope version %d: %w", data[4], errs.ErrUnsupportedVersion)
	}

	n := int(binary.LittleEndian.Uint16(data[6:8]))
	if len(data) < headerSize+n {
		return m, nil, fmt.Errorf("envelope manifest: %w", errs.ErrTruncated)
	}
	if err := decMode.Unmarshal(data[headerSize:headerSize+n], &m); err != nil {
		return m, nil, fmt.Errorf("envelope manifest: %w: %w", errs.ErrFormat, err)
	}
	if m.Size > MaxSize {
		return m, nil, fmt.Errorf("envelope image of %d bytes: %w", m.Size, errs.ErrOutOfRange)
	}

	return m, data[headerSize+n:], nil
}
