package curve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctrbin/cursor"
	"github.com/arloliu/ctrbin/endian"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/reloc"
	"github.com/arloliu/ctrbin/schema"
	"github.com/arloliu/ctrbin/section"
)

var le = endian.GetLittleEndianEngine()

var testDialect = schema.Dialect{
	Name:        "curve",
	Mode:        reloc.SelfRelative,
	CountFirst:  true,
	Records:     format.SectionMain,
	RecordAlign: 4,
	Strings:     format.SectionStrings,
}

func encodeGroup(t *testing.T, g *Group) []byte {
	t.Helper()

	set := section.NewSet(le,
		section.Spec{ID: format.SectionMain, Align: 4},
		section.Spec{ID: format.SectionStrings, Align: 4},
	)
	enc := schema.NewEncoder(set, reloc.NewTable(reloc.SelfRelative), testDialect, 0)
	require.NoError(t, enc.Encode(g))
	image, err := enc.Finish()
	require.NoError(t, err)

	return image
}

// track embeds two groups followed by a plain field, the way animation
// elements store vector components back to back.
type track struct {
	A, B Group
	Tail uint32
}

func (r *track) Layout(l *schema.Layout) {
	l.Embed("A", &r.A)
	l.Embed("B", &r.B)
	l.U32("Tail", &r.Tail)
}

func encodeRecord(t *testing.T, r schema.Record) []byte {
	t.Helper()

	set := section.NewSet(le,
		section.Spec{ID: format.SectionMain, Align: 4},
		section.Spec{ID: format.SectionStrings, Align: 4},
	)
	enc := schema.NewEncoder(set, reloc.NewTable(reloc.SelfRelative), testDialect, 0)
	require.NoError(t, enc.Encode(r))
	image, err := enc.Finish()
	require.NoError(t, err)

	return image
}

func decodeGroup(image []byte) (*Group, error) {
	got := &Group{}
	return got, schema.NewDecoder(cursor.New(image, le), testDialect, 0).Decode(got)
}

func roundTrip(t *testing.T, g *Group) *Group {
	t.Helper()

	got, err := decodeGroup(encodeGroup(t, g))
	require.NoError(t, err)

	return got
}

var allQuantizations = []format.Quantization{
	format.Hermite128, format.Hermite64, format.Hermite48,
	format.UnifiedHermite96, format.UnifiedHermite48, format.UnifiedHermite32,
	format.StepLinear64, format.StepLinear32,
}

// exactKeys returns keys every quantization can represent without loss:
// integral frames and values spanning the full value range, and slopes on
// the 1/32 grid.
func exactKeys(q format.Quantization) []Key {
	top := float32(4095)
	if HasScale(q) {
		top = float32(maxQ(layouts[q].valueBits))
	}
	keys := []Key{
		{Frame: 0, Value: 0, InSlope: 0.5, OutSlope: 0.5},
		{Frame: 10, Value: top, InSlope: -1.25, OutSlope: -1.25},
		{Frame: 20, Value: 7, InSlope: 2, OutSlope: 2},
	}
	if q.Stepped() {
		for i := range keys {
			keys[i].InSlope, keys[i].OutSlope = 0, 0
		}
	}

	return keys
}

func TestGroup_ExactRoundTrip(t *testing.T) {
	for _, q := range allQuantizations {
		t.Run(q.String(), func(t *testing.T) {
			g := &Group{
				StartFrame: 0,
				EndFrame:   20,
				PreRepeat:  format.LoopRepeat,
				PostRepeat: format.LoopHold,
				Curves: []Curve{
					{EndFrame: 20, Quantization: q, Keys: exactKeys(q), Linear: q.Stepped()},
					{EndFrame: 20, Quantization: q, Keys: exactKeys(q)[:2]},
				},
			}

			got := roundTrip(t, g)
			require.Equal(t, g.Curves, got.Curves)
			require.Equal(t, g.PreRepeat, got.PreRepeat)
			require.Equal(t, g.PostRepeat, got.PostRepeat)
			require.Equal(t, g.EndFrame, got.EndFrame)

			again := encodeGroup(t, got)
			require.Equal(t, encodeGroup(t, g), again, "re-encoding a decoded group is stable")
		})
	}
}

func TestGroup_QuantizationError(t *testing.T) {
	keys := []Key{
		{Frame: 0, Value: -3.7},
		{Frame: 5, Value: 1.234},
		{Frame: 9, Value: 12.5},
		{Frame: 14, Value: 0.001},
	}

	for _, q := range allQuantizations {
		if !HasScale(q) {
			continue
		}
		t.Run(q.String(), func(t *testing.T) {
			p, err := DeriveParams(q, keys)
			require.NoError(t, err)
			require.Equal(t, float32(-3.7), p.ValueOffset)
			require.Equal(t, float32(1), p.FrameScale)

			got := roundTrip(t, &Group{Curves: []Curve{{Quantization: q, Keys: keys}}})
			require.Len(t, got.Curves[0].Keys, len(keys))
			for i, k := range got.Curves[0].Keys {
				require.Equal(t, keys[i].Frame, k.Frame)
				require.InDelta(t, keys[i].Value, k.Value, float64(p.ValueScale)/2+1e-5)
			}
		})
	}
}

func TestGroup_FrameScale(t *testing.T) {
	keys := []Key{{Frame: 0, Value: 1}, {Frame: 1000, Value: 2}}

	p, err := DeriveParams(format.UnifiedHermite32, keys)
	require.NoError(t, err)
	require.InDelta(t, 1000.0/255.0, p.FrameScale, 1e-4)

	got := roundTrip(t, &Group{Curves: []Curve{{Quantization: format.UnifiedHermite32, Keys: keys}}})
	require.InDelta(t, 1000, got.Curves[0].Keys[1].Frame, 1e-2)

	p, err = DeriveParams(format.Hermite64, keys)
	require.NoError(t, err)
	require.Equal(t, float32(1), p.FrameScale, "frames up to 4095 fit twelve bits")
}

func TestGroup_DegenerateRange(t *testing.T) {
	keys := []Key{{Frame: 0, Value: 5}, {Frame: 3, Value: 5}, {Frame: 6, Value: 5}}

	p, err := DeriveParams(format.StepLinear32, keys)
	require.NoError(t, err)
	require.Equal(t, Params{ValueScale: 1, ValueOffset: 5, FrameScale: 1}, p)

	got := roundTrip(t, &Group{Curves: []Curve{{Quantization: format.StepLinear32, Keys: keys}}})
	for _, k := range got.Curves[0].Keys {
		require.Equal(t, float32(5), k.Value)
	}
}

func TestGroup_Constant(t *testing.T) {
	t.Run("Single key", func(t *testing.T) {
		g := &Group{EndFrame: 30, Curves: []Curve{{Quantization: format.Hermite64, Keys: []Key{{Frame: 3, Value: 4.5}}}}}
		image := encodeGroup(t, g)
		require.Len(t, image, 20, "header plus one float")

		got, err := decodeGroup(image)
		require.NoError(t, err)
		require.True(t, got.IsConstant())
		require.Equal(t, float32(4.5), got.Curves[0].Keys[0].Value)
		require.Equal(t, float32(30), got.Curves[0].EndFrame)
	})

	t.Run("No keys", func(t *testing.T) {
		got := roundTrip(t, &Group{Curves: []Curve{{}}})
		require.Equal(t, float32(0), got.Curves[0].Keys[0].Value)
	})

	t.Run("Helper", func(t *testing.T) {
		got := roundTrip(t, Constant(-2))
		require.Equal(t, float32(-2), got.Curves[0].Evaluate(100))
	})

	t.Run("No curves", func(t *testing.T) {
		got := roundTrip(t, &Group{})
		require.Empty(t, got.Curves)
	})
}

func TestGroup_NegativeFrame(t *testing.T) {
	g := &Group{Curves: []Curve{{Quantization: format.Hermite48, Keys: []Key{{Frame: -1}, {Frame: 2}}}}}

	set := section.NewSet(le, section.Spec{ID: format.SectionMain, Align: 4})
	enc := schema.NewEncoder(set, reloc.NewTable(reloc.SelfRelative), testDialect, 0)
	require.ErrorIs(t, enc.Encode(g), errs.ErrMalformedRecord)

	_, err := DeriveParams(format.Hermite128, []Key{{Frame: -1}})
	require.NoError(t, err, "float layouts store negative frames")
}

func TestGroup_SlopeSaturation(t *testing.T) {
	keys := []Key{{Frame: 0, InSlope: 1000, OutSlope: -1000}, {Frame: 1, Value: 1}}

	got := roundTrip(t, &Group{Curves: []Curve{{Quantization: format.Hermite48, Keys: keys}}})
	require.Equal(t, float32(2047.0/32), got.Curves[0].Keys[0].InSlope)
	require.Equal(t, float32(-64), got.Curves[0].Keys[0].OutSlope)

	got = roundTrip(t, &Group{Curves: []Curve{{Quantization: format.Hermite64, Keys: keys}}})
	require.Equal(t, float32(32767.0/256), got.Curves[0].Keys[0].InSlope)
	require.Equal(t, float32(-128), got.Curves[0].Keys[0].OutSlope)
}

func TestGroup_InvalidQuantization(t *testing.T) {
	image := encodeGroup(t, &Group{Curves: []Curve{
		{Quantization: format.StepLinear64, Keys: []Key{{Frame: 0}, {Frame: 1}}},
	}})

	// Group header 16, count 4, one pointer, then the curve's start and end.
	flagsAt := 16 + 4 + 4 + 8
	le.PutUint32(image[flagsAt:], 9<<formatShift)

	_, err := decodeGroup(image)
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
}

func TestCurve_FormatFlags(t *testing.T) {
	tests := []struct {
		name  string
		curve Curve
		want  uint32
	}{
		{"Hermite", Curve{Quantization: format.Hermite64, Keys: make([]Key, 2)}, 1<<5 | formatHermite},
		{"Single key", Curve{Quantization: format.Hermite128, Keys: make([]Key, 1)}, formatSingleKey | formatHermite},
		{"Linear", Curve{Quantization: format.StepLinear32, Linear: true, Keys: make([]Key, 2)}, 7<<5 | formatLinear},
		{"Step", Curve{Quantization: format.StepLinear64, Keys: make([]Key, 2)}, 6 << 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, formatFlags(&tt.curve))
		})
	}
}

func TestCurve_Evaluate(t *testing.T) {
	keys := []Key{{Frame: 0, Value: 0}, {Frame: 10, Value: 10}}

	step := Curve{Quantization: format.StepLinear64, Keys: keys}
	require.Equal(t, float32(0), step.Evaluate(5))

	linear := Curve{Quantization: format.StepLinear64, Linear: true, Keys: keys}
	require.Equal(t, float32(5), linear.Evaluate(5))
	require.Equal(t, float32(10), linear.Evaluate(50), "clamps past the last key")
	require.Equal(t, float32(0), linear.Evaluate(-5), "clamps before the first key")

	smooth := Curve{Quantization: format.Hermite128, Keys: []Key{
		{Frame: 0, Value: 0, OutSlope: 1},
		{Frame: 10, Value: 10, InSlope: 1},
	}}
	require.InDelta(t, 5, smooth.Evaluate(5), 1e-5)
	require.InDelta(t, 2.5, smooth.Evaluate(2.5), 1e-5)

	var empty Curve
	require.Equal(t, float32(0), empty.Evaluate(1))
}

func TestKeySize(t *testing.T) {
	want := []int{16, 8, 6, 12, 6, 4, 8, 4}
	for i, q := range allQuantizations {
		require.Equal(t, want[i], KeySize(q), q.String())
	}
	require.Equal(t, 0, KeySize(format.Quantization(8)))
}

func TestGroup_EmbeddedSiblings(t *testing.T) {
	for _, q := range []format.Quantization{format.Hermite128, format.UnifiedHermite48, format.StepLinear32} {
		t.Run(q.String(), func(t *testing.T) {
			in := &track{
				A: Group{
					EndFrame: 20,
					Curves: []Curve{
						{EndFrame: 30, Quantization: q, Keys: exactKeys(q)[:2]},
						{EndFrame: 20, Quantization: q, Keys: exactKeys(q)},
					},
				},
				B:    *Constant(7),
				Tail: 0xCAFEF00D,
			}

			image := encodeRecord(t, in)
			got := &track{}
			require.NoError(t, schema.NewDecoder(cursor.New(image, le), testDialect, 0).Decode(got))
			require.Equal(t, in.A.Curves, got.A.Curves)
			require.True(t, got.B.IsConstant())
			require.Equal(t, float32(7), got.B.Curves[0].Keys[0].Value)
			require.Equal(t, uint32(0xCAFEF00D), got.Tail)

			require.Equal(t, image, encodeRecord(t, got))
		})
	}

	t.Run("Both animated", func(t *testing.T) {
		in := &track{
			A:    Group{EndFrame: 20, Curves: []Curve{{EndFrame: 20, Quantization: format.Hermite64, Keys: exactKeys(format.Hermite64)}}},
			B:    Group{EndFrame: 10, Curves: []Curve{{EndFrame: 10, Quantization: format.StepLinear64, Keys: exactKeys(format.StepLinear64)[:2]}}},
			Tail: 42,
		}

		got := &track{}
		require.NoError(t, schema.NewDecoder(cursor.New(encodeRecord(t, in), le), testDialect, 0).Decode(got))
		require.Equal(t, in.A.Curves, got.A.Curves)
		require.Equal(t, in.B.Curves, got.B.Curves)
		require.Equal(t, uint32(42), got.Tail)
	})
}
