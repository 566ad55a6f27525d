// Package compress provides the payload codecs used by the container
// envelope.
//
// A container image is dominated by raw texture and vertex data, string
// tables and zero padding between aligned sections, so general-purpose
// block codecs shrink it well. Four codecs are available, selected by
// format.CompressionType:
//
//   - None: the payload is stored as is
//   - Zstd: best ratio, the default for archived containers
//   - S2: fast with a good ratio
//   - LZ4: fastest decompression
//
// Codecs are stateless values and safe for concurrent use; encoders and
// decoders are pooled internally.
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//		return err
//	}
//	packed, err := codec.Compress(image)
//
// Zstd is implemented with github.com/klauspost/compress/zstd. Building with
// cgo and the gozstd tag switches to the github.com/valyala/gozstd binding.
package compress
