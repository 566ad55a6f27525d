package gfx

import (
	"fmt"
	"slices"

	"github.com/arloliu/ctrbin/cursor"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/reloc"
	"github.com/arloliu/ctrbin/schema"
	"github.com/arloliu/ctrbin/section"
)

// File is the object graph of a Format-A container.
type File struct {
	// Revision is the container revision. Save writes section.GfxRevision
	// when it is zero.
	Revision uint32

	Textures []*Texture
	Shaders  []*Shader
	Cameras  []*Camera
	Lights   []Light
	Fogs     []*Fog
	Scenes   []*Scene

	SkeletalAnims   []*Animation
	MaterialAnims   []*Animation
	VisibilityAnims []*Animation
	CameraAnims     []*Animation
	LightAnims      []*Animation
	FogAnims        []*Animation
}

// Texture returns the texture named name.
func (f *File) Texture(name string) (*Texture, bool) { return find(f.Textures, name) }

// Camera returns the camera named name.
func (f *File) Camera(name string) (*Camera, bool) { return find(f.Cameras, name) }

// Light returns the light named name.
func (f *File) Light(name string) (Light, bool) { return find(f.Lights, name) }

// dataBlock is the DATA block: its header and the twelve dictionaries.
type dataBlock struct {
	*File
	length uint32
}

func (b *dataBlock) Layout(l *schema.Layout) {
	l.Magic("Magic", section.GfxDataMagic)
	l.U32("Length", &b.length)
	dict(l, "Textures", &b.Textures, textureElem)
	dict(l, "Shaders", &b.Shaders, shaderElem)
	dict(l, "Cameras", &b.Cameras, cameraElem)
	dict(l, "Lights", &b.Lights, lightElem)
	dict(l, "Fogs", &b.Fogs, fogElem)
	dict(l, "Scenes", &b.Scenes, sceneElem)
	dict(l, "SkeletalAnims", &b.SkeletalAnims, animationElem)
	dict(l, "MaterialAnims", &b.MaterialAnims, animationElem)
	dict(l, "VisibilityAnims", &b.VisibilityAnims, animationElem)
	dict(l, "CameraAnims", &b.CameraAnims, animationElem)
	dict(l, "LightAnims", &b.LightAnims, animationElem)
	dict(l, "FogAnims", &b.FogAnims, animationElem)
}

// Load decodes a Format-A container. data is not modified or retained
// except through copied payloads.
func Load(data []byte, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	hdr := section.NewGfxHeader(cfg.Engine)
	if err := hdr.Parse(data); err != nil {
		return nil, err
	}

	c := cursor.New(data[:hdr.FileLength], hdr.Engine)
	if err := c.Seek(int(hdr.HeaderSize)); err != nil {
		return nil, fmt.Errorf("gfx data block: %w", err)
	}

	f := &File{Revision: hdr.Revision}
	dec := schema.NewDecoder(c, Dialect, hdr.Revision)
	if err := dec.Decode(&dataBlock{File: f}); err != nil {
		return nil, fmt.Errorf("gfx: %w", err)
	}

	cfg.Logger.Debug("gfx file loaded",
		"size", len(data),
		"revision", fmt.Sprintf("%#x", hdr.Revision),
		"blocks", hdr.BlockCount,
		"textures", len(f.Textures),
		"cameras", len(f.Cameras),
		"lights", len(f.Lights))

	return f, nil
}

// Save encodes f into a new Format-A container.
func Save(f *File, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("gfx: nil file: %w", errs.ErrMalformedRecord)
	}

	hdr := section.NewGfxHeader(cfg.Engine)
	if f.Revision != 0 {
		hdr.Revision = f.Revision
	}

	// The IMAG block only exists when some texture carries pixel data.
	withImage := slices.ContainsFunc(f.Textures, (*Texture).hasImage)
	specs := sections
	if !withImage {
		specs = sections[:len(sections)-1]
	}

	set := section.NewSet(cfg.Engine, specs...)
	defer set.Release()

	set.Section(format.SectionHeader).Cursor().WriteZeros(section.GfxHeaderSize)
	if withImage {
		raw := set.Section(format.SectionRawData).Cursor()
		raw.WriteBytes([]byte(section.GfxImageMagic))
		raw.WriteU32(0)
	}

	table := reloc.NewTable(Dialect.Mode)
	enc := schema.NewEncoder(set, table, Dialect, hdr.Revision)
	if err := enc.Encode(&dataBlock{File: f}); err != nil {
		return nil, fmt.Errorf("gfx: %w", err)
	}
	if err := enc.Drain(); err != nil {
		return nil, fmt.Errorf("gfx: %w", err)
	}
	interned := enc.InternedStrings()

	image, err := enc.FlushAndPatch()
	if err != nil {
		return nil, fmt.Errorf("gfx: %w", err)
	}

	engine := cfg.Engine
	dataBase := set.Section(format.SectionMain).Base()
	dataEnd := len(image)
	hdr.BlockCount = 1
	if withImage {
		imageBase := set.Section(format.SectionRawData).Base()
		engine.PutUint32(image[imageBase+4:], uint32(len(image)-imageBase))
		dataEnd = imageBase
		hdr.BlockCount = 2
	}
	engine.PutUint32(image[dataBase+4:], uint32(dataEnd-dataBase))
	hdr.FileLength = uint32(len(image))
	copy(image, hdr.Bytes())

	stats := table.Stats()
	cfg.Report(stats)
	cfg.Logger.Debug("gfx file saved",
		"size", len(image),
		"data", dataEnd-dataBase,
		"image", len(image)-dataEnd,
		"strings", interned,
		"pointers", stats.Patched)

	return image, nil
}
