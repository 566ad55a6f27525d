package compress

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
)

var allTypes = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

// imageLike builds a payload shaped like a flushed container: a small
// header, pointer-heavy records, zero padding and a repetitive texture.
func imageLike(size int) []byte {
	var b bytes.Buffer
	b.WriteString("BCH\x00")
	b.Write(make([]byte, 0x40))
	for i := 0; b.Len() < size/2; i++ {
		fmt.Fprintf(&b, "Light%02d\x00", i%16)
		b.Write([]byte{byte(i), 0, 0, 0, 0x80, 0, 0, 0})
	}
	for b.Len() < size {
		b.Write([]byte{0xC3, 0xC3, 0x3C, 0x3C})
	}

	return b.Bytes()[:size]
}

func randomBytes(size int) []byte {
	rng := rand.New(rand.NewPCG(1, 2))
	out := make([]byte, size)
	for i := range out {
		out[i] = byte(rng.Uint32())
	}

	return out
}

func TestGetCodec(t *testing.T) {
	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err, ct.String())
		require.NotNil(t, codec)
	}

	_, err := GetCodec(format.CompressionType(0x7F))
	require.ErrorIs(t, err, errs.ErrUnknownCompression)

	_, _, err = Compress(0, []byte("x"))
	require.ErrorIs(t, err, errs.ErrUnknownCompression)
}

func TestRoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"empty":  nil,
		"tiny":   []byte("CGFX"),
		"image":  imageLike(64 * 1024),
		"random": randomBytes(8 * 1024),
		"zeros":  make([]byte, 32*1024),
	}

	for _, ct := range allTypes {
		t.Run(ct.String(), func(t *testing.T) {
			for name, data := range payloads {
				t.Run(name, func(t *testing.T) {
					packed, stats, err := Compress(ct, data)
					require.NoError(t, err)
					require.Equal(t, ct, stats.Algorithm)
					require.Equal(t, int64(len(data)), stats.OriginalSize)

					got, err := Decompress(ct, packed, len(data))
					require.NoError(t, err)
					require.Equal(t, len(data), len(got))
					require.True(t, bytes.Equal(data, got))

					if ct != format.CompressionNone && name == "zeros" {
						require.Less(t, stats.Ratio(), 0.1)
					}
				})
			}
		})
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	data := imageLike(4096)
	for _, ct := range allTypes {
		t.Run(ct.String(), func(t *testing.T) {
			packed, _, err := Compress(ct, data)
			require.NoError(t, err)

			_, err = Decompress(ct, packed, len(data)+1)
			require.ErrorIs(t, err, errs.ErrTruncated)
		})
	}
}

func TestInvalidData(t *testing.T) {
	inputs := map[string][]byte{
		"random bytes":     {0xFF, 0xFF, 0xFF, 0xFF},
		"plain text":       []byte("this is not compressed data"),
		"corrupted header": {0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
	}

	for _, ct := range allTypes[1:] {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		t.Run(ct.String(), func(t *testing.T) {
			for name, data := range inputs {
				t.Run(name, func(t *testing.T) {
					_, err := codec.Decompress(data)
					require.Error(t, err)
				})
			}
		})
	}
}

func TestLZ4UnknownSize(t *testing.T) {
	data := make([]byte, 256*1024)
	codec := NewLZ4Compressor()

	packed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(packed)*4, len(data), "buffer must grow past the first guess")

	got, err := codec.Decompress(packed)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestNoOpSharesInput(t *testing.T) {
	data := []byte("DATA")
	codec := NewNoOpCompressor()

	packed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &packed[0])
}

func TestStats(t *testing.T) {
	tests := []struct {
		name    string
		stats   Stats
		ratio   float64
		savings float64
	}{
		{"Half", Stats{OriginalSize: 1000, CompressedSize: 500}, 0.5, 50},
		{"Expanded", Stats{OriginalSize: 100, CompressedSize: 125}, 1.25, -25},
		{"Empty", Stats{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.ratio, tt.stats.Ratio(), 1e-9)
			require.InDelta(t, tt.savings, tt.stats.SpaceSavings(), 1e-9)
		})
	}
}

func TestConcurrentUse(t *testing.T) {
	const workers = 16
	data := imageLike(16 * 1024)

	for _, ct := range allTypes {
		t.Run(ct.String(), func(t *testing.T) {
			done := make(chan error, workers)
			for range workers {
				go func() {
					packed, _, err := Compress(ct, data)
					if err == nil {
						var got []byte
						got, err = Decompress(ct, packed, len(data))
						if err == nil && !bytes.Equal(got, data) {
							err = fmt.Errorf("%s: payload mismatch", ct)
						}
					}
					done <- err
				}()
			}
			for range workers {
				require.NoError(t, <-done)
			}
		})
	}
}
