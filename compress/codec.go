package compress

import (
	"fmt"

	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
)

// Compressor compresses a complete payload.
//
// The returned slice is owned by the caller. The input is not modified, but
// the no-op codec returns it unchanged.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
// Corrupt input is reported as an error, never as a short result.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// SizedDecompressor is implemented by codecs that can decompress into a
// buffer of a known size instead of guessing it.
type SizedDecompressor interface {
	DecompressSized(data []byte, size int) ([]byte, error)
}

// Stats describes one compression.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// Ratio returns compressed size over original size, or 0 for an empty input.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage.
func (s Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.Ratio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in codec for t.
//
// Returns:
//   - Codec: shared codec instance, safe for concurrent use
//   - error: errs.ErrUnknownCompression for an unknown type
func GetCodec(t format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("compression %s (%d): %w", t, uint8(t), errs.ErrUnknownCompression)
}

// Compress compresses data with the codec for t and reports its stats.
func Compress(t format.CompressionType, data []byte) ([]byte, Stats, error) {
	codec, err := GetCodec(t)
	if err != nil {
		return nil, Stats{}, err
	}

	out, err := codec.Compress(data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%s compression: %w", t, err)
	}

	return out, Stats{Algorithm: t, OriginalSize: int64(len(data)), CompressedSize: int64(len(out))}, nil
}

// Decompress restores data compressed with t. size is the expected
// decompressed length; a result of any other length is an error.
func Decompress(t format.CompressionType, data []byte, size int) ([]byte, error) {
	codec, err := GetCodec(t)
	if err != nil {
		return nil, err
	}

	var out []byte
	if sized, ok := codec.(SizedDecompressor); ok {
		out, err = sized.DecompressSized(data, size)
	} else {
		out, err = codec.Decompress(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s decompression: %w", t, err)
	}
	if len(out) != size {
		return nil, fmt.Errorf("%s decompression: got %d bytes, want %d: %w", t, len(out), size, errs.ErrTruncated)
	}

	return out, nil
}
