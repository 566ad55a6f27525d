package compress

// ZstdCompressor is the Zstandard codec. It gives the best ratio of the
// built-in codecs and is the envelope default.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstandard codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
