package envelope

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
)

func image() []byte {
	b := append([]byte("BCH\x00\x21\x00\x0c\x00"), make([]byte, 0x3C)...)
	b = append(b, bytes.Repeat([]byte("Light\x00Camera\x00"), 64)...)

	return append(b, bytes.Repeat([]byte{0xC3}, 512)...)
}

func TestPackUnpack(t *testing.T) {
	img := image()
	for _, ct := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			packed, err := Pack(format.DialectH3D, img, ct)
			require.NoError(t, err)
			require.Equal(t, Magic, string(packed[:4]))

			m, err := Peek(packed)
			require.NoError(t, err)
			require.Equal(t, format.DialectH3D, m.Dialect)
			require.Equal(t, ct, m.Compression)
			require.Equal(t, uint64(len(img)), m.Size)

			gotM, got, err := Unpack(packed)
			require.NoError(t, err)
			require.Equal(t, m, gotM)
			require.Equal(t, img, got)
			require.NoError(t, gotM.Verify(got))

			if ct != format.CompressionNone {
				require.Less(t, len(packed), len(img))
			}
		})
	}
}

func TestDeterministicManifest(t *testing.T) {
	a, err := Pack(format.DialectGfx, image(), format.CompressionZstd)
	require.NoError(t, err)
	b, err := Pack(format.DialectGfx, image(), format.CompressionZstd)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestChecksumMismatch(t *testing.T) {
	packed, err := Pack(format.DialectGfx, image(), format.CompressionNone)
	require.NoError(t, err)

	packed[len(packed)-1] ^= 0xFF
	_, _, err = Unpack(packed)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)

	m, err := Peek(packed)
	require.NoError(t, err)
	require.ErrorIs(t, m.Verify(image()[1:]), errs.ErrChecksumMismatch)

	tampered := image()
	tampered[0] = 'X'
	require.ErrorIs(t, m.Verify(tampered), errs.ErrChecksumMismatch)
}

func TestUnpackErrors(t *testing.T) {
	packed, err := Pack(format.DialectGfx, image(), format.CompressionS2)
	require.NoError(t, err)

	corrupt := func(fn func(b []byte)) []byte {
		b := bytes.Clone(packed)
		fn(b)

		return b
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"Short header", packed[:4], errs.ErrTruncated},
		{"Bad magic", corrupt(func(b []byte) { b[0] = 'X' }), errs.ErrBadMagic},
		{"Future version", corrupt(func(b []byte) { b[4] = Version + 1 }), errs.ErrUnsupportedVersion},
		{"Short manifest", packed[:headerSize+2], errs.ErrTruncated},
		{"Garbled manifest", corrupt(func(b []byte) { b[headerSize] = 0xFF }), errs.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Unpack(tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("Unknown compression", func(t *testing.T) {
		_, err := Pack(format.DialectGfx, image(), format.CompressionType(9))
		require.ErrorIs(t, err, errs.ErrUnknownCompression)
	})
}
