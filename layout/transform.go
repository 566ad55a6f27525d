package layout

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/ctrbin/cursor"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/reloc"
	"github.com/arloliu/ctrbin/schema"
)

// Transform block flag bits.
const (
	TranslationConstant uint32 = 1 << iota
	RotationConstant
	ScaleConstant
	TranslationAbsent
	RotationAbsent
	ScaleAbsent
	TranslationIdentity
	RotationIdentity
	ScaleIdentity
)

// Per-sample identity words.
const (
	quatIdentityWord uint32 = 0x80
	vec3ZeroWord     uint32 = 0x100
	vec3OneWord      uint32 = 0x600
)

const (
	quatSampleSize = 16 + 4
	vec3SampleSize = 12 + 4
)

// TransformBlock is a baked transform animation: one rotation, translation
// and scale sample per frame. A stream with one sample is constant, an empty
// stream is absent.
type TransformBlock struct {
	StartFrame   float32
	Rotations    []mgl32.Quat
	Translations []mgl32.Vec3
	Scales       []mgl32.Vec3

	flags uint32
}

var _ schema.CustomLayout = (*TransformBlock)(nil)

// Flags returns the flag word describing the current streams.
func (b *TransformBlock) Flags() uint32 {
	var flags uint32
	flags |= streamFlags(len(b.Translations), TranslationConstant, TranslationAbsent, TranslationIdentity,
		len(b.Translations) == 1 && b.Translations[0] == mgl32.Vec3{})
	flags |= streamFlags(len(b.Rotations), RotationConstant, RotationAbsent, RotationIdentity,
		len(b.Rotations) == 1 && b.Rotations[0] == mgl32.QuatIdent())
	flags |= streamFlags(len(b.Scales), ScaleConstant, ScaleAbsent, ScaleIdentity,
		len(b.Scales) == 1 && b.Scales[0] == mgl32.Vec3{1, 1, 1})

	return flags
}

func streamFlags(n int, constant, absent, identity uint32, isIdentity bool) uint32 {
	switch {
	case n == 0:
		return absent
	case isIdentity:
		return constant | identity
	case n == 1:
		return constant
	default:
		return 0
	}
}

func (b *TransformBlock) Layout(l *schema.Layout) {
	l.U32("Flags", &b.flags)
}

func (*TransformBlock) Strategy() schema.Strategy { return schema.StrategyTransformBlock }

func (b *TransformBlock) DecodeLayout(d *schema.Decoder) error {
	c := d.Cursor()
	local := reloc.Resolver{Mode: reloc.SelfRelative, Size: c.Len()}

	var addrs [3]int
	var present [3]bool
	for i := range addrs {
		slot := c.Tell()
		abs, ok, err := local.Resolve(c.ReadU32(), slot)
		if err != nil {
			return err
		}
		addrs[i], present[i] = abs, ok
	}
	if err := c.Err(); err != nil {
		return err
	}
	end := c.Tell()

	b.Rotations, b.Translations, b.Scales = nil, nil, nil
	started := false
	stream := func(i int, absent, identity uint32, read func() error) error {
		switch {
		case b.flags&absent != 0:
			return nil
		case !present[i] && b.flags&identity == 0:
			return fmt.Errorf("stream %d: null pointer without identity flag: %w", i, errs.ErrMalformedRecord)
		case !present[i]:
			return nil
		}

		return c.WithPosition(addrs[i], func() error {
			err := read()
			end = max(end, c.Tell())

			return err
		})
	}

	readHeader := func(sampleSize int) (int, error) {
		start, end := c.ReadF32(), c.ReadF32()
		_ = c.ReadU32() // curve-relative pointer
		constant := c.ReadBool32()
		if err := c.Err(); err != nil {
			return 0, err
		}
		if !started {
			b.StartFrame, started = start, true
		}

		n := 1
		if !constant {
			n = int(end-start) + 1
		}
		if n < 1 || int64(n)*int64(sampleSize) > int64(c.Len()-c.Tell()) {
			return 0, fmt.Errorf("stream of %d samples (frames %g..%g): %w", n, start, end, errs.ErrMalformedRecord)
		}

		return n, nil
	}

	err := stream(0, RotationAbsent, RotationIdentity, func() error {
		n, err := readHeader(quatSampleSize)
		if err != nil {
			return err
		}
		b.Rotations = readSamples(c, n, c.ReadQuat)

		return c.Err()
	})
	if err != nil {
		return fmt.Errorf("rotation: %w", err)
	}

	err = stream(1, TranslationAbsent, TranslationIdentity, func() error {
		n, err := readHeader(vec3SampleSize)
		if err != nil {
			return err
		}
		b.Translations = readSamples(c, n, c.ReadVec3)

		return c.Err()
	})
	if err != nil {
		return fmt.Errorf("translation: %w", err)
	}

	err = stream(2, ScaleAbsent, ScaleIdentity, func() error {
		n, err := readHeader(vec3SampleSize)
		if err != nil {
			return err
		}
		b.Scales = readSamples(c, n, c.ReadVec3)

		return c.Err()
	})
	if err != nil {
		return fmt.Errorf("scale: %w", err)
	}

	// Streams follow the pointer table inline; continue after the last one.
	if err := c.Seek(end); err != nil {
		return err
	}

	if b.flags&RotationIdentity != 0 {
		b.Rotations = []mgl32.Quat{mgl32.QuatIdent()}
	}
	if b.flags&TranslationIdentity != 0 {
		b.Translations = []mgl32.Vec3{{}}
	}
	if b.flags&ScaleIdentity != 0 {
		b.Scales = []mgl32.Vec3{{1, 1, 1}}
	}

	return nil
}

func (b *TransformBlock) EncodeLayout(e *schema.Encoder) (bool, error) {
	c := e.Cursor()
	b.flags = b.Flags()
	c.WriteU32(b.flags)

	omitted := [3]bool{
		b.flags&(RotationAbsent|RotationIdentity) != 0,
		b.flags&(TranslationAbsent|TranslationIdentity) != 0,
		b.flags&(ScaleAbsent|ScaleIdentity) != 0,
	}
	var slots [3]*reloc.LocalSlot
	for i := range slots {
		if omitted[i] {
			c.WriteU32(0)
			continue
		}
		slots[i] = e.Table().ReserveLocal(c)
	}

	if slots[0] != nil {
		if err := slots[0].PatchHere(); err != nil {
			return true, err
		}
		writeStream(c, b.StartFrame, b.Rotations, func(q mgl32.Quat) {
			c.WriteQuat(q)
			c.WriteU32(quatWord(q))
		})
	}
	for i, samples := range [][]mgl32.Vec3{b.Translations, b.Scales} {
		slot := slots[i+1]
		if slot == nil {
			continue
		}
		if err := slot.PatchHere(); err != nil {
			return true, err
		}
		writeStream(c, b.StartFrame, samples, func(v mgl32.Vec3) {
			c.WriteVec3(v)
			c.WriteU32(vec3Word(v))
		})
	}

	return true, c.Err()
}

func writeStream[T any](c *cursor.Cursor, start float32, samples []T, write func(T)) {
	c.WriteF32(start)
	c.WriteF32(start + float32(len(samples)-1))
	c.WriteU32(0)
	c.WriteBool32(len(samples) == 1)
	for _, s := range samples {
		write(s)
	}
}

func readSamples[T any](c *cursor.Cursor, n int, read func() T) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = read()
		_ = c.ReadU32() // identity word
	}

	return out
}

func quatWord(q mgl32.Quat) uint32 {
	if q == mgl32.QuatIdent() {
		return quatIdentityWord
	}

	return 0
}

func vec3Word(v mgl32.Vec3) uint32 {
	switch v {
	case mgl32.Vec3{1, 1, 1}:
		return vec3OneWord
	case mgl32.Vec3{}:
		return vec3ZeroWord
	default:
		return 0
	}
}
