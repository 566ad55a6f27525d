package layout

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
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

var selfRelative = schema.Dialect{
	Name:        "self",
	Mode:        reloc.SelfRelative,
	CountFirst:  true,
	Records:     format.SectionMain,
	RecordAlign: 4,
	Strings:     format.SectionStrings,
}

var sectionRelative = schema.Dialect{
	Name:        "relocated",
	Mode:        reloc.SectionRelative,
	FlagMask:    WideIndices,
	Records:     format.SectionMain,
	RecordAlign: 4,
	Strings:     format.SectionStrings,
	RecordKind:  format.RelocContents,
	StringKind:  format.RelocStrings,
}

// encode writes r at the start of the main section and returns the final
// image, with relocations applied for section-relative dialects.
func encode(t *testing.T, dialect schema.Dialect, r schema.Record) ([]byte, int, []reloc.Entry) {
	t.Helper()

	set := section.NewSet(le,
		section.Spec{ID: format.SectionHeader},
		section.Spec{ID: format.SectionMain, Align: 4},
		section.Spec{ID: format.SectionStrings, Align: 4},
		section.Spec{ID: format.SectionRawData, Align: 0x80},
	)
	set.Section(format.SectionHeader).Cursor().WriteBytes([]byte("HEAD"))
	table := reloc.NewTable(dialect.Mode)
	enc := schema.NewEncoder(set, table, dialect, 0)
	require.NoError(t, enc.Encode(r))
	require.NoError(t, enc.Drain())

	entries := table.Entries()
	image, err := enc.FlushAndPatch()
	require.NoError(t, err)

	root := set.Section(format.SectionMain).Base()
	if dialect.Mode == reloc.SectionRelative {
		words := make([]uint32, 0, len(entries))
		for _, e := range entries {
			w, err := reloc.EncodeEntry(e)
			require.NoError(t, err)
			words = append(words, w)
		}
		raw := set.Section(format.SectionRawData).Base()
		bases := map[format.RelocKind]int{
			format.RelocContents:       root,
			format.RelocStrings:        set.Section(format.SectionStrings).Base(),
			format.RelocRawDataTexture: raw,
			format.RelocRawDataIndex8:  raw,
			format.RelocRawDataIndex16: raw,
		}
		_, err = reloc.Apply(image, le, root, words, bases, dialect.FlagMask)
		require.NoError(t, err)
	}

	return image, root, entries
}

func decode(image []byte, root int, dialect schema.Dialect, r schema.Record) error {
	c := cursor.New(image, le)
	if err := c.Seek(root); err != nil {
		return err
	}

	return schema.NewDecoder(c, dialect, 0).Decode(r)
}

func TestTransformBlock_RoundTrip(t *testing.T) {
	rot := mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0})

	tests := []struct {
		name  string
		block TransformBlock
		flags uint32
	}{
		{
			name: "Animated streams",
			block: TransformBlock{
				StartFrame:   2,
				Rotations:    []mgl32.Quat{mgl32.QuatIdent(), rot, rot},
				Translations: []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}},
				Scales:       []mgl32.Vec3{{1, 1, 1}, {2, 2, 2}},
			},
			flags: 0,
		},
		{
			name: "Constant streams",
			block: TransformBlock{
				Rotations:    []mgl32.Quat{rot},
				Translations: []mgl32.Vec3{{0, 1, 0}},
				Scales:       []mgl32.Vec3{{2, 2, 2}},
			},
			flags: TranslationConstant | RotationConstant | ScaleConstant,
		},
		{
			name: "Identity streams omitted",
			block: TransformBlock{
				Rotations:    []mgl32.Quat{mgl32.QuatIdent()},
				Translations: []mgl32.Vec3{{}},
				Scales:       []mgl32.Vec3{{1, 1, 1}},
			},
			flags: TranslationConstant | RotationConstant | ScaleConstant |
				TranslationIdentity | RotationIdentity | ScaleIdentity,
		},
		{
			name:  "Absent streams",
			block: TransformBlock{Translations: []mgl32.Vec3{{1, 0, 0}, {2, 0, 0}}},
			flags: RotationAbsent | ScaleAbsent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.flags, tt.block.Flags())

			image, root, _ := encode(t, selfRelative, &tt.block)
			require.Equal(t, tt.flags, le.Uint32(image[root:]))

			got := &TransformBlock{}
			require.NoError(t, decode(image, root, selfRelative, got))
			require.Equal(t, tt.block.Rotations, got.Rotations)
			require.Equal(t, tt.block.Translations, got.Translations)
			require.Equal(t, tt.block.Scales, got.Scales)
			if tt.flags == 0 {
				require.Equal(t, tt.block.StartFrame, got.StartFrame)
			}
		})
	}
}

type bone struct {
	Transform TransformBlock
	Tail      uint32
}

func (r *bone) Layout(l *schema.Layout) {
	l.Embed("Transform", &r.Transform)
	l.U32("Tail", &r.Tail)
}

func TestTransformBlock_FollowedByField(t *testing.T) {
	blocks := map[string]TransformBlock{
		"Animated": {
			Rotations:    []mgl32.Quat{mgl32.QuatIdent(), mgl32.QuatRotate(1, mgl32.Vec3{1, 0, 0})},
			Translations: []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
			Scales:       []mgl32.Vec3{{2, 2, 2}},
		},
		"Scale only": {Scales: []mgl32.Vec3{{1, 2, 1}, {2, 1, 2}}},
		"Identity":   {Rotations: []mgl32.Quat{mgl32.QuatIdent()}},
	}

	for name, block := range blocks {
		t.Run(name, func(t *testing.T) {
			in := &bone{Transform: block, Tail: 0x5EED}
			image, root, _ := encode(t, selfRelative, in)

			got := &bone{}
			require.NoError(t, decode(image, root, selfRelative, got))
			require.Equal(t, uint32(0x5EED), got.Tail)
			require.Equal(t, block.Translations, got.Transform.Translations)
			require.Equal(t, block.Scales, got.Transform.Scales)
		})
	}
}

func TestTransformBlock_IdentityWords(t *testing.T) {
	block := &TransformBlock{
		Rotations:    []mgl32.Quat{mgl32.QuatIdent(), mgl32.QuatIdent()},
		Translations: []mgl32.Vec3{{}, {1, 1, 1}},
		Scales:       []mgl32.Vec3{{1, 1, 1}, {3, 3, 3}},
	}
	image, root, _ := encode(t, selfRelative, block)

	// Streams follow the flag word and the three pointers.
	rotation := root + 16
	require.Equal(t, uint32(0), le.Uint32(image[rotation+12:]), "animated stream")
	require.Equal(t, quatIdentityWord, le.Uint32(image[rotation+16+16:]))
	require.Equal(t, quatIdentityWord, le.Uint32(image[rotation+16+quatSampleSize+16:]))

	translation := rotation + 16 + 2*quatSampleSize
	require.Equal(t, vec3ZeroWord, le.Uint32(image[translation+16+12:]))
	require.Equal(t, vec3OneWord, le.Uint32(image[translation+16+vec3SampleSize+12:]))

	scale := translation + 16 + 2*vec3SampleSize
	require.Equal(t, vec3OneWord, le.Uint32(image[scale+16+12:]))
	require.Equal(t, uint32(0), le.Uint32(image[scale+16+vec3SampleSize+12:]))
}

func TestTransformBlock_Malformed(t *testing.T) {
	block := &TransformBlock{Translations: []mgl32.Vec3{{1, 0, 0}, {2, 0, 0}}}

	t.Run("Sample count beyond buffer", func(t *testing.T) {
		image, root, _ := encode(t, selfRelative, block)
		stream := root + 16
		le.PutUint32(image[stream+4:], 0x49742400) // end frame 1e6

		require.ErrorIs(t, decode(image, root, selfRelative, &TransformBlock{}), errs.ErrMalformedRecord)
	})

	t.Run("Missing stream", func(t *testing.T) {
		image, root, _ := encode(t, selfRelative, block)
		le.PutUint32(image[root+8:], 0) // translation pointer

		require.ErrorIs(t, decode(image, root, selfRelative, &TransformBlock{}), errs.ErrMalformedRecord)
	})
}

func TestIndexBuffer_AdaptiveWidth(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint16
		wide    bool
		kind    format.RelocKind
	}{
		{"Narrow", []uint16{0, 1, 2, 255, 3}, false, format.RelocRawDataIndex8},
		{"Wide", []uint16{0, 1, 256, 2}, true, format.RelocRawDataIndex16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &IndexBuffer{Indices: tt.indices}
			require.Equal(t, tt.wide, buf.Wide())

			image, root, entries := encode(t, sectionRelative, buf)
			require.Len(t, entries, 1)
			require.Equal(t, tt.kind, entries[0].Kind)

			raw := le.Uint32(image[root:])
			require.Equal(t, tt.wide, raw&WideIndices != 0)
			require.Equal(t, uint32(len(tt.indices)), le.Uint32(image[root+4:]))

			got := &IndexBuffer{}
			require.NoError(t, decode(image, root, sectionRelative, got))
			require.Equal(t, tt.indices, got.Indices)
		})
	}
}

func TestIndexBuffer_SelfRelative(t *testing.T) {
	buf := &IndexBuffer{Indices: []uint16{4, 5, 6}}
	image, root, _ := encode(t, selfRelative, buf)

	got := &IndexBuffer{}
	require.NoError(t, decode(image, root, selfRelative, got))
	require.Equal(t, buf.Indices, got.Indices)

	wide := &IndexBuffer{Indices: []uint16{0x1234}}
	enc := schema.NewEncoder(section.NewSet(le, section.Spec{ID: format.SectionMain}),
		reloc.NewTable(reloc.SelfRelative), selfRelative, 0)
	require.ErrorIs(t, enc.Encode(wide), errs.ErrMalformedRecord)
}

func TestIndexBuffer_Empty(t *testing.T) {
	image, root, entries := encode(t, sectionRelative, &IndexBuffer{})
	require.Empty(t, entries)

	got := &IndexBuffer{Indices: []uint16{9}}
	require.NoError(t, decode(image, root, sectionRelative, got))
	require.Nil(t, got.Indices)
}

func TestIndexBuffer_Overrun(t *testing.T) {
	image, root, _ := encode(t, sectionRelative, &IndexBuffer{Indices: []uint16{1, 2, 3}})
	le.PutUint32(image[root+4:], 0x10000)

	require.ErrorIs(t, decode(image, root, sectionRelative, &IndexBuffer{}), errs.ErrMalformedRecord)
}

type texture struct {
	Width uint16
	Image Blob
	Code  Blob
}

var textureTarget = schema.Target{Section: format.SectionRawData, Align: 0x80, Kind: format.RelocRawDataTexture}

func (r *texture) Layout(l *schema.Layout) {
	l.U16("Width", &r.Width)
	l.Pad(2)
	l.Embed("Image", r.Image.At(textureTarget))
	l.Embed("Code", &r.Code)
}

func TestBlob_RoundTrip(t *testing.T) {
	for _, dialect := range []schema.Dialect{selfRelative, sectionRelative} {
		t.Run(dialect.Name, func(t *testing.T) {
			tex := &texture{
				Width: 64,
				Image: Blob{Data: []byte{1, 2, 3, 4, 5}},
				Code:  Blob{Data: []byte("shbin")},
			}
			image, root, _ := encode(t, dialect, tex)

			got := &texture{}
			require.NoError(t, decode(image, root, dialect, got))
			require.Equal(t, tex.Width, got.Width)
			require.Equal(t, tex.Image.Data, got.Image.Data)
			require.Equal(t, tex.Code.Data, got.Code.Data)
		})
	}
}

func TestBlob_Alignment(t *testing.T) {
	tex := &texture{Image: Blob{Data: []byte{7}}}
	image, root, _ := encode(t, selfRelative, tex)

	slot := root + 4 + 4
	target := slot + int(int32(le.Uint32(image[slot:])))
	require.Zero(t, target%0x80)
	require.Equal(t, byte(7), image[target])
}

func TestBlob_Malformed(t *testing.T) {
	t.Run("Length beyond buffer", func(t *testing.T) {
		image, root, _ := encode(t, selfRelative, &texture{Image: Blob{Data: []byte{1}}})
		le.PutUint32(image[root+4:], 0xFFFF)

		require.ErrorIs(t, decode(image, root, selfRelative, &texture{}), errs.ErrMalformedRecord)
	})

	t.Run("Length behind null pointer", func(t *testing.T) {
		image, root, _ := encode(t, selfRelative, &texture{})
		le.PutUint32(image[root+4:], 3)

		require.ErrorIs(t, decode(image, root, selfRelative, &texture{}), errs.ErrMalformedRecord)
	})
}
