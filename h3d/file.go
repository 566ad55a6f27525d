package h3d

import (
	"fmt"

	"github.com/arloliu/ctrbin/cursor"
	"github.com/arloliu/ctrbin/endian"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/reloc"
	"github.com/arloliu/ctrbin/schema"
	"github.com/arloliu/ctrbin/section"
)

// File is the object graph of a Format-B container.
type File struct {
	// Version is the backward-compatibility byte. Save writes
	// section.H3DDefaultVersion when it is zero.
	Version          uint8
	ConverterVersion uint16
	Flags            uint16

	Models      []*Model
	Textures    []*Texture
	Lights      []*Light
	Cameras     []*Camera
	Fogs        []*Fog
	LightAnims  []*LightAnim
	CameraAnims []*CameraAnim
	FogAnims    []*Animation
	Scenes      []*Scene
}

// Model returns the model named name.
func (f *File) Model(name string) (*Model, bool) { return find(f.Models, name) }

// Texture returns the texture named name.
func (f *File) Texture(name string) (*Texture, bool) { return find(f.Textures, name) }

// Light returns the light named name.
func (f *File) Light(name string) (*Light, bool) { return find(f.Lights, name) }

// Camera returns the camera named name.
func (f *File) Camera(name string) (*Camera, bool) { return find(f.Cameras, name) }

// contents is the record at the start of the contents section.
type contents struct {
	*File
}

func (c *contents) Layout(l *schema.Layout) {
	dict(l, "Models", &c.Models, modelElem)
	dict(l, "Textures", &c.Textures, textureElem)
	dict(l, "Lights", &c.Lights, lightElem)
	dict(l, "Cameras", &c.Cameras, cameraElem)
	dict(l, "Fogs", &c.Fogs, fogElem)
	dict(l, "LightAnims", &c.LightAnims, lightAnimElem)
	dict(l, "CameraAnims", &c.CameraAnims, cameraAnimElem)
	dict(l, "FogAnims", &c.FogAnims, fogAnimElem)
	dict(l, "Scenes", &c.Scenes, sceneElem)
}

// Load decodes a Format-B container. The relocation table is applied to a
// private copy of data, so data itself is never modified.
func Load(data []byte, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	var hdr section.H3DHeader
	if err := hdr.Parse(data); err != nil {
		return nil, err
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	engine := endian.GetLittleEndianEngine()

	words, err := relocations(buf, &hdr)
	if err != nil {
		return nil, fmt.Errorf("h3d: %w", err)
	}
	raw := int(hdr.RawDataAddress)
	bases := map[format.RelocKind]int{
		format.RelocContents:       int(hdr.ContentsAddress),
		format.RelocStrings:        int(hdr.StringsAddress),
		format.RelocCommands:       int(hdr.CommandsAddress),
		format.RelocRawDataTexture: raw,
		format.RelocRawDataVertex:  raw,
		format.RelocRawDataIndex16: raw,
		format.RelocRawDataIndex8:  raw,
	}
	patched, err := reloc.Apply(buf, engine, int(hdr.ContentsAddress), words, bases, Dialect.FlagMask)
	if err != nil {
		return nil, fmt.Errorf("h3d: %w", err)
	}

	c := cursor.New(buf, engine)
	if err := c.Seek(int(hdr.ContentsAddress)); err != nil {
		return nil, fmt.Errorf("h3d contents: %w", err)
	}

	f := &File{
		Version:          hdr.BackwardCompat,
		ConverterVersion: hdr.ConverterVersion,
		Flags:            hdr.Flags,
	}
	dec := schema.NewDecoder(c, Dialect, uint32(hdr.BackwardCompat))
	if err := dec.Decode(&contents{File: f}); err != nil {
		return nil, fmt.Errorf("h3d: %w", err)
	}

	// Nothing is reserved on load; only applied table entries are counted.
	cfg.Report(reloc.Stats{Patched: patched})
	cfg.Logger.Debug("h3d file loaded",
		"size", len(data),
		"version", fmt.Sprintf("%#x", hdr.BackwardCompat),
		"relocations", len(words),
		"models", len(f.Models),
		"textures", len(f.Textures),
		"lights", len(f.Lights))

	return f, nil
}

func relocations(data []byte, hdr *section.H3DHeader) ([]uint32, error) {
	c := cursor.New(data, endian.GetLittleEndianEngine())
	if err := c.Seek(int(hdr.RelocationAddress)); err != nil {
		return nil, fmt.Errorf("relocation table: %w", err)
	}

	words := make([]uint32, hdr.RelocationLength/4)
	for i := range words {
		words[i] = c.ReadU32()
	}
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("relocation table: %w", err)
	}

	return words, nil
}

// Save encodes f into a new Format-B container.
func Save(f *File, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("h3d: nil file: %w", errs.ErrMalformedRecord)
	}

	version := cfg.Version
	if version == 0 {
		version = f.Version
	}
	if version == 0 {
		version = section.H3DDefaultVersion
	}

	hdr := section.NewH3DHeader(version)
	if f.ConverterVersion != 0 {
		hdr.ConverterVersion = f.ConverterVersion
	}
	hdr.Flags = f.Flags

	engine := endian.GetLittleEndianEngine()
	set := section.NewSet(engine, sections(hdr.HasRawExt())...)
	defer set.Release()

	set.Section(format.SectionHeader).Cursor().WriteZeros(hdr.Size())

	table := reloc.NewTable(Dialect.Mode)
	enc := schema.NewEncoder(set, table, Dialect, uint32(version))
	if err := enc.Encode(&contents{File: f}); err != nil {
		return nil, fmt.Errorf("h3d: %w", err)
	}
	if err := enc.Drain(); err != nil {
		return nil, fmt.Errorf("h3d: %w", err)
	}

	entries := table.Entries()
	rc := set.Section(format.SectionRelocation).Cursor()
	for _, e := range entries {
		word, err := reloc.EncodeEntry(e)
		if err != nil {
			return nil, fmt.Errorf("h3d: %w", err)
		}
		rc.WriteU32(word)
	}

	// Flush releases the section buffers, so lengths are taken first.
	lengths := make(map[format.SectionID]uint32, len(set.Sections()))
	for _, sec := range set.Sections() {
		lengths[sec.ID] = uint32(sec.Len())
	}
	interned := enc.InternedStrings()

	image, err := enc.FlushAndPatch()
	if err != nil {
		return nil, fmt.Errorf("h3d: %w", err)
	}

	base := func(id format.SectionID) uint32 { return uint32(set.Section(id).Base()) }
	hdr.ContentsAddress, hdr.ContentsLength = base(format.SectionMain), lengths[format.SectionMain]
	hdr.StringsAddress, hdr.StringsLength = base(format.SectionStrings), lengths[format.SectionStrings]
	hdr.CommandsAddress, hdr.CommandsLength = base(format.SectionCommands), lengths[format.SectionCommands]
	hdr.RawDataAddress, hdr.RawDataLength = base(format.SectionRawData), lengths[format.SectionRawData]
	if hdr.HasRawExt() {
		hdr.RawExtAddress, hdr.RawExtLength = base(format.SectionRawExt), lengths[format.SectionRawExt]
	}
	hdr.RelocationAddress, hdr.RelocationLength = base(format.SectionRelocation), lengths[format.SectionRelocation]
	copy(image, hdr.Bytes())

	stats := table.Stats()
	cfg.Report(stats)
	cfg.Logger.Debug("h3d file saved",
		"size", len(image),
		"version", fmt.Sprintf("%#x", version),
		"contents", hdr.ContentsLength,
		"raw", hdr.RawDataLength,
		"strings", interned,
		"relocations", len(entries))

	return image, nil
}
