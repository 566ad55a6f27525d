package cursor

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctrbin/endian"
	"github.com/arloliu/ctrbin/errs"
)

func TestCursor_Primitives(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		w := NewWriter(engine)
		w.WriteU8(0xAB)
		w.WriteI8(-2)
		w.WriteU16(0xBEEF)
		w.WriteI16(-300)
		w.WriteU32(0xDEADBEEF)
		w.WriteI32(-70000)
		w.WriteF32(1.5)
		w.WriteBool8(true)
		w.WriteBool32(true)
		w.WriteVec3(mgl32.Vec3{1, 2, 3})
		w.WriteQuat(mgl32.Quat{W: 4, V: mgl32.Vec3{1, 2, 3}})
		w.WriteCString("node")
		require.NoError(t, w.Err())

		r := New(w.Bytes(), engine)
		require.Equal(t, uint8(0xAB), r.ReadU8())
		require.Equal(t, int8(-2), r.ReadI8())
		require.Equal(t, uint16(0xBEEF), r.ReadU16())
		require.Equal(t, int16(-300), r.ReadI16())
		require.Equal(t, uint32(0xDEADBEEF), r.ReadU32())
		require.Equal(t, int32(-70000), r.ReadI32())
		require.Equal(t, float32(1.5), r.ReadF32())
		require.True(t, r.ReadBool8())
		require.True(t, r.ReadBool32())
		require.Equal(t, mgl32.Vec3{1, 2, 3}, r.ReadVec3())
		require.Equal(t, mgl32.Quat{W: 4, V: mgl32.Vec3{1, 2, 3}}, r.ReadQuat())
		require.Equal(t, "node", r.ReadCString())
		require.NoError(t, r.Err())
		require.Equal(t, r.Len(), r.Tell())

		w.Release()
	}
}

func TestCursor_Seek(t *testing.T) {
	c := New(make([]byte, 8), endian.GetLittleEndianEngine())

	require.NoError(t, c.Seek(8), "seeking to the end is allowed")
	require.ErrorIs(t, c.Seek(9), errs.ErrOutOfRange)
	require.ErrorIs(t, c.Seek(-1), errs.ErrOutOfRange)
	require.Equal(t, 8, c.Tell(), "failed seek keeps the position")
	require.ErrorIs(t, c.Skip(1), errs.ErrOutOfRange)
}

func TestCursor_ReadPastEnd(t *testing.T) {
	c := New([]byte{1, 2, 3}, endian.GetLittleEndianEngine())

	require.Equal(t, uint32(0), c.ReadU32())
	require.ErrorIs(t, c.Err(), errs.ErrTruncated)
	require.ErrorIs(t, c.Err(), errs.ErrFormat)

	// sticky: later reads keep failing without advancing
	require.Equal(t, uint8(0), c.ReadU8())
	require.Equal(t, 0, c.Tell())
}

func TestCursor_FixedWriteCannotExtend(t *testing.T) {
	c := New(make([]byte, 4), endian.GetLittleEndianEngine())
	c.WriteU32(7)
	require.NoError(t, c.Err())

	c.WriteU8(1)
	require.ErrorIs(t, c.Err(), errs.ErrOutOfRange)
}

func TestCursor_WithPosition(t *testing.T) {
	data := []byte{0, 0, 0, 0, 0x2A, 0, 0, 0}

	t.Run("Restores after success", func(t *testing.T) {
		c := New(data, endian.GetLittleEndianEngine())
		require.NoError(t, c.Seek(2))

		var got uint32
		err := c.WithPosition(4, func() error {
			got = c.ReadU32()
			return c.Err()
		})
		require.NoError(t, err)
		require.Equal(t, uint32(0x2A), got)
		require.Equal(t, 2, c.Tell())
	})

	t.Run("Restores after error", func(t *testing.T) {
		c := New(data, endian.GetLittleEndianEngine())
		require.NoError(t, c.Seek(1))

		boom := errors.New("boom")
		err := c.WithPosition(6, func() error {
			c.ReadU8()
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.Equal(t, 1, c.Tell())
	})

	t.Run("Restores after panic", func(t *testing.T) {
		c := New(data, endian.GetLittleEndianEngine())
		require.NoError(t, c.Seek(3))

		require.Panics(t, func() {
			_ = c.WithPosition(0, func() error {
				c.ReadU16()
				panic("abort")
			})
		})
		require.Equal(t, 3, c.Tell())
	})

	t.Run("Nested", func(t *testing.T) {
		c := New(data, endian.GetLittleEndianEngine())
		err := c.WithPosition(4, func() error {
			return c.WithPosition(0, func() error {
				require.Equal(t, 0, c.Tell())
				return nil
			})
		})
		require.NoError(t, err)
		require.Equal(t, 0, c.Tell())
	})

	t.Run("Out of range", func(t *testing.T) {
		c := New(data, endian.GetLittleEndianEngine())
		called := false
		err := c.WithPosition(100, func() error {
			called = true
			return nil
		})
		require.ErrorIs(t, err, errs.ErrOutOfRange)
		require.False(t, called)
	})
}

func TestCursor_OverwriteAndAlign(t *testing.T) {
	w := NewWriter(endian.GetLittleEndianEngine())
	defer w.Release()

	w.WriteU8(1)
	w.Align(4, 0xFF)
	require.Equal(t, 4, w.Tell())
	require.Equal(t, []byte{1, 0xFF, 0xFF, 0xFF}, w.Bytes())

	w.WriteU32(0)
	require.NoError(t, w.PutU32At(4, 0x11223344))
	v, err := w.U32At(4)
	require.NoError(t, err)
	require.Equal(t, uint32(0x11223344), v)
	require.ErrorIs(t, w.PutU32At(6, 1), errs.ErrOutOfRange)

	require.NoError(t, w.Seek(0))
	w.WriteU8(9)
	require.Equal(t, 8, w.Len(), "overwrite keeps the length")
	require.Equal(t, byte(9), w.Bytes()[0])
}

func TestAlignUp(t *testing.T) {
	require.Equal(t, 0, AlignUp(0, 4))
	require.Equal(t, 4, AlignUp(1, 4))
	require.Equal(t, 0x80, AlignUp(0x41, 0x80))
	require.Equal(t, 7, AlignUp(7, 1))
}
