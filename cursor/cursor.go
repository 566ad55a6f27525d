// Package cursor implements the positionable byte buffer shared by every
// reader and writer in the module.
//
// A Cursor is either fixed (wrapping an existing buffer, used for loading and
// in-place patching) or growable (backed by a pooled buffer, used for writing
// sections). Both expose the same primitives:
//
//	c := cursor.New(data, endian.GetLittleEndianEngine())
//	magic := c.ReadU32()
//	err := c.WithPosition(int(c.ReadU32()), func() error {
//		name = c.ReadCString()
//		return c.Err()
//	})
//
// Read and write primitives record the first failure in a sticky error
// returned by Err, so long runs of primitive calls only need one check.
// Seek, Skip and WithPosition report their failure directly.
package cursor

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/endian"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/internal/pool"
)

// Cursor is a byte buffer with a current position.
type Cursor struct {
	buf      *pool.ByteBuffer
	pos      int
	engine   endian.EndianEngine
	growable bool
	pooled   bool
	err      error
	scratch  [8]byte
}

// New returns a fixed-size cursor over data. Writes overwrite data in place and
// may not extend it.
func New(data []byte, engine endian.EndianEngine) *Cursor {
	return &Cursor{
		buf:    &pool.ByteBuffer{B: data},
		engine: engine,
	}
}

// NewWriter returns an empty growable cursor backed by a pooled buffer.
// Call Release once the contents have been copied out.
func NewWriter(engine endian.EndianEngine) *Cursor {
	return &Cursor{
		buf:      pool.GetSectionBuffer(),
		engine:   engine,
		growable: true,
		pooled:   true,
	}
}

// Release returns a pooled buffer. The cursor must not be used afterwards.
func (c *Cursor) Release() {
	if c.pooled {
		pool.PutSectionBuffer(c.buf)
		c.buf = &pool.ByteBuffer{}
		c.pooled = false
	}
}

// Engine returns the byte order of the cursor.
func (c *Cursor) Engine() endian.EndianEngine { return c.engine }

// Tell returns the current position.
func (c *Cursor) Tell() int { return c.pos }

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int { return c.buf.Len() }

// Bytes returns the underlying buffer.
func (c *Cursor) Bytes() []byte { return c.buf.Bytes() }

// Err returns the first error recorded by a read or write primitive.
func (c *Cursor) Err() error { return c.err }

// Fail records err as the sticky error unless one is already set.
func (c *Cursor) Fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Seek moves the cursor to the absolute position pos.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > c.buf.Len() {
		return fmt.Errorf("seek to %#x (length %#x): %w", pos, c.buf.Len(), errs.ErrOutOfRange)
	}
	c.pos = pos

	return nil
}

// Skip moves the cursor by n bytes relative to the current position.
func (c *Cursor) Skip(n int) error {
	return c.Seek(c.pos + n)
}

// WithPosition runs fn with the cursor at pos and restores the previous
// position afterwards, on every exit path.
func (c *Cursor) WithPosition(pos int, fn func() error) error {
	saved := c.pos
	if err := c.Seek(pos); err != nil {
		return err
	}
	defer func() { c.pos = saved }()

	return fn()
}

func (c *Cursor) next(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || c.pos+n > c.buf.Len() {
		c.err = fmt.Errorf("read %d bytes at %#x (length %#x): %w", n, c.pos, c.buf.Len(), errs.ErrTruncated)
		return nil
	}
	b := c.buf.B[c.pos : c.pos+n]
	c.pos += n

	return b
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() uint8 {
	if b := c.next(1); b != nil {
		return b[0]
	}

	return 0
}

// ReadI8 reads one signed byte.
func (c *Cursor) ReadI8() int8 { return int8(c.ReadU8()) }

// ReadU16 reads a 16-bit word in the cursor's byte order.
func (c *Cursor) ReadU16() uint16 {
	if b := c.next(2); b != nil {
		return c.engine.Uint16(b)
	}

	return 0
}

// ReadI16 reads a signed 16-bit word.
func (c *Cursor) ReadI16() int16 { return int16(c.ReadU16()) }

// ReadU32 reads a 32-bit word in the cursor's byte order.
func (c *Cursor) ReadU32() uint32 {
	if b := c.next(4); b != nil {
		return c.engine.Uint32(b)
	}

	return 0
}

// ReadI32 reads a signed 32-bit word.
func (c *Cursor) ReadI32() int32 { return int32(c.ReadU32()) }

// ReadF32 reads an IEEE 754 single-precision float.
func (c *Cursor) ReadF32() float32 { return math.Float32frombits(c.ReadU32()) }

// ReadBool8 reads a one-byte boolean; any non-zero value is true.
func (c *Cursor) ReadBool8() bool { return c.ReadU8() != 0 }

// ReadBool32 reads a four-byte boolean; any non-zero value is true.
func (c *Cursor) ReadBool32() bool { return c.ReadU32() != 0 }

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) []byte {
	b := c.next(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)

	return out
}

// PeekU32 reads a 32-bit word without advancing.
func (c *Cursor) PeekU32() uint32 {
	saved := c.pos
	v := c.ReadU32()
	c.pos = saved

	return v
}

// ReadCString reads a zero-terminated string.
func (c *Cursor) ReadCString() string {
	if c.err != nil {
		return ""
	}
	data := c.buf.B
	for i := c.pos; i < len(data); i++ {
		if data[i] == 0 {
			s := string(data[c.pos:i])
			c.pos = i + 1

			return s
		}
	}
	c.err = fmt.Errorf("unterminated string at %#x: %w", c.pos, errs.ErrTruncated)

	return ""
}

// ReadVec2 reads two consecutive floats.
func (c *Cursor) ReadVec2() mgl32.Vec2 {
	return mgl32.Vec2{c.ReadF32(), c.ReadF32()}
}

// ReadVec3 reads three consecutive floats.
func (c *Cursor) ReadVec3() mgl32.Vec3 {
	return mgl32.Vec3{c.ReadF32(), c.ReadF32(), c.ReadF32()}
}

// ReadVec4 reads four consecutive floats.
func (c *Cursor) ReadVec4() mgl32.Vec4 {
	return mgl32.Vec4{c.ReadF32(), c.ReadF32(), c.ReadF32(), c.ReadF32()}
}

// ReadQuat reads a quaternion stored as X, Y, Z, W.
func (c *Cursor) ReadQuat() mgl32.Quat {
	v := c.ReadVec3()
	w := c.ReadF32()

	return mgl32.Quat{W: w, V: v}
}

func (c *Cursor) put(b []byte) {
	if c.err != nil {
		return
	}
	if c.pos+len(b) > c.buf.Len() && !c.growable {
		c.err = fmt.Errorf("write %d bytes at %#x (length %#x): %w", len(b), c.pos, c.buf.Len(), errs.ErrOutOfRange)
		return
	}
	c.buf.WriteAt(b, c.pos)
	c.pos += len(b)
}

// WriteU8 writes one byte.
func (c *Cursor) WriteU8(v uint8) {
	c.scratch[0] = v
	c.put(c.scratch[:1])
}

// WriteI8 writes one signed byte.
func (c *Cursor) WriteI8(v int8) { c.WriteU8(uint8(v)) }

// WriteU16 writes a 16-bit word in the cursor's byte order.
func (c *Cursor) WriteU16(v uint16) {
	c.engine.PutUint16(c.scratch[:2], v)
	c.put(c.scratch[:2])
}

// WriteI16 writes a signed 16-bit word.
func (c *Cursor) WriteI16(v int16) { c.WriteU16(uint16(v)) }

// WriteU32 writes a 32-bit word in the cursor's byte order.
func (c *Cursor) WriteU32(v uint32) {
	c.engine.PutUint32(c.scratch[:4], v)
	c.put(c.scratch[:4])
}

// WriteI32 writes a signed 32-bit word.
func (c *Cursor) WriteI32(v int32) { c.WriteU32(uint32(v)) }

// WriteF32 writes an IEEE 754 single-precision float.
func (c *Cursor) WriteF32(v float32) { c.WriteU32(math.Float32bits(v)) }

// WriteBool8 writes a one-byte boolean as 0 or 1.
func (c *Cursor) WriteBool8(v bool) {
	if v {
		c.WriteU8(1)
	} else {
		c.WriteU8(0)
	}
}

// WriteBool32 writes a four-byte boolean as 0 or 1.
func (c *Cursor) WriteBool32(v bool) {
	if v {
		c.WriteU32(1)
	} else {
		c.WriteU32(0)
	}
}

// WriteBytes writes b as is.
func (c *Cursor) WriteBytes(b []byte) { c.put(b) }

// WriteCString writes s followed by a zero terminator.
func (c *Cursor) WriteCString(s string) {
	c.put([]byte(s))
	c.WriteU8(0)
}

// WriteZeros writes n zero bytes.
func (c *Cursor) WriteZeros(n int) {
	for range n {
		c.WriteU8(0)
	}
}

// WriteVec2 writes two consecutive floats.
func (c *Cursor) WriteVec2(v mgl32.Vec2) {
	c.WriteF32(v[0])
	c.WriteF32(v[1])
}

// WriteVec3 writes three consecutive floats.
func (c *Cursor) WriteVec3(v mgl32.Vec3) {
	for _, f := range v {
		c.WriteF32(f)
	}
}

// WriteVec4 writes four consecutive floats.
func (c *Cursor) WriteVec4(v mgl32.Vec4) {
	for _, f := range v {
		c.WriteF32(f)
	}
}

// WriteQuat writes a quaternion as X, Y, Z, W.
func (c *Cursor) WriteQuat(q mgl32.Quat) {
	c.WriteVec3(q.V)
	c.WriteF32(q.W)
}

// Align writes fill bytes until the position is a multiple of n. When the
// cursor is fixed it only advances over existing bytes.
func (c *Cursor) Align(n int, fill byte) {
	if n <= 1 {
		return
	}
	for c.pos%n != 0 && c.err == nil {
		if c.growable {
			c.WriteU8(fill)
		} else if err := c.Skip(1); err != nil {
			c.Fail(fmt.Errorf("align to %d: %w", n, errs.ErrTruncated))
		}
	}
}

// PutU32At writes v at pos without moving the cursor.
func (c *Cursor) PutU32At(pos int, v uint32) error {
	if pos < 0 || pos+4 > c.buf.Len() {
		return fmt.Errorf("patch at %#x (length %#x): %w", pos, c.buf.Len(), errs.ErrOutOfRange)
	}
	c.engine.PutUint32(c.buf.B[pos:], v)

	return nil
}

// U32At reads a word at pos without moving the cursor.
func (c *Cursor) U32At(pos int) (uint32, error) {
	if pos < 0 || pos+4 > c.buf.Len() {
		return 0, fmt.Errorf("read at %#x (length %#x): %w", pos, c.buf.Len(), errs.ErrOutOfRange)
	}

	return c.engine.Uint32(c.buf.B[pos:]), nil
}

// AlignUp rounds n up to a multiple of align.
func AlignUp(n, align int) int {
	if align <= 1 {
		return n
	}

	return (n + align - 1) / align * align
}
