// Package ctrbin reads and writes the two pointer-based 3D asset container
// formats of the 3DS generation: the self-relative CGFX container (package
// gfx) and the relocated BCH container (package h3d).
//
// # Basic Usage
//
// Loading a container of either dialect:
//
//	doc, err := ctrbin.Load(data)
//	if err != nil {
//	    return err
//	}
//	switch doc.Dialect {
//	case format.DialectGfx:
//	    fmt.Println(len(doc.Gfx.Cameras), "cameras")
//	case format.DialectH3D:
//	    fmt.Println(len(doc.H3D.Models), "models")
//	}
//
// Saving it back, optionally wrapped in a compressed envelope:
//
//	image, err := ctrbin.Save(doc)
//	packed, err := ctrbin.Pack(doc, format.CompressionZstd)
//
// # Package Structure
//
// This package provides thin wrappers that dispatch on the container magic.
// For dialect-specific options, such as the h3d stream version or the gfx
// byte order, use the gfx and h3d packages directly.
package ctrbin

import (
	"fmt"

	"github.com/arloliu/ctrbin/envelope"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/gfx"
	"github.com/arloliu/ctrbin/h3d"
	"github.com/arloliu/ctrbin/section"
)

// Document is a loaded container of either dialect. Exactly one of Gfx and
// H3D is set, matching Dialect.
type Document struct {
	Dialect format.Dialect
	Gfx     *gfx.File
	H3D     *h3d.File
}

// Detect identifies the dialect of a container image by its magic.
//
// Returns:
//   - format.Dialect: DialectGfx or DialectH3D
//   - error: errs.ErrTruncated for input shorter than a magic, errs.ErrBadMagic otherwise
func Detect(data []byte) (format.Dialect, error) {
	if len(data) < 4 {
		return format.DialectUnknown, fmt.Errorf("container magic: %w", errs.ErrTruncated)
	}

	switch string(data[:4]) {
	case section.GfxMagic:
		return format.DialectGfx, nil
	case section.H3DMagic:
		return format.DialectH3D, nil
	default:
		return format.DialectUnknown, fmt.Errorf("container magic %q: %w", data[:4], errs.ErrBadMagic)
	}
}

// Load decodes a container image. An envelope produced by Pack is unpacked
// and verified first.
//
// Parameters:
//   - data: container image or envelope; never modified
//
// Returns:
//   - Document: the decoded object graph
//   - error: any of the errs sentinels, wrapped with the failing record path
func Load(data []byte) (Document, error) {
	if len(data) >= 4 && string(data[:4]) == envelope.Magic {
		m, image, err := envelope.Unpack(data)
		if err != nil {
			return Document{}, err
		}
		doc, err := Load(image)
		if err == nil && doc.Dialect != m.Dialect {
			return Document{}, fmt.Errorf("envelope declares %s, image is %s: %w", m.Dialect, doc.Dialect, errs.ErrFormat)
		}

		return doc, err
	}

	dialect, err := Detect(data)
	if err != nil {
		return Document{}, err
	}

	doc := Document{Dialect: dialect}
	switch dialect {
	case format.DialectGfx:
		doc.Gfx, err = gfx.Load(data)
	case format.DialectH3D:
		doc.H3D, err = h3d.Load(data)
	}
	if err != nil {
		return Document{}, err
	}

	return doc, nil
}

// Save encodes doc with the default options of its dialect.
func Save(doc Document) ([]byte, error) {
	switch doc.Dialect {
	case format.DialectGfx:
		return gfx.Save(doc.Gfx)
	case format.DialectH3D:
		return h3d.Save(doc.H3D)
	default:
		return nil, fmt.Errorf("save %s document: %w", doc.Dialect, errs.ErrUnregisteredType)
	}
}

// Pack saves doc and wraps the image in an envelope compressed with
// compression.
func Pack(doc Document, compression format.CompressionType) ([]byte, error) {
	image, err := Save(doc)
	if err != nil {
		return nil, err
	}

	return envelope.Pack(doc.Dialect, image, compression)
}
