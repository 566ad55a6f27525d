package section

import (
	"fmt"

	"github.com/arloliu/ctrbin/cursor"
	"github.com/arloliu/ctrbin/endian"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/internal/pool"
)

// Spec describes one section of an output container.
type Spec struct {
	ID    format.SectionID
	Align int  // alignment of the section base in the flushed image
	Fill  byte // padding byte used for inter-section and intra-section alignment
}

// Location identifies a byte inside a section. It becomes an absolute file
// offset only after the owning Set has been flushed.
type Location struct {
	Section format.SectionID
	Offset  int
}

func (l Location) String() string {
	return fmt.Sprintf("%s+%#x", l.Section, l.Offset)
}

// Section is a growable partition of the output that is written
// independently and placed at its final base address on flush.
type Section struct {
	Spec

	c    *cursor.Cursor
	base int
}

// Cursor returns the section's writer cursor.
func (s *Section) Cursor() *cursor.Cursor { return s.c }

// Len returns the number of bytes written so far.
func (s *Section) Len() int { return s.c.Len() }

// Base returns the absolute base address assigned by Flush.
func (s *Section) Base() int { return s.base }

// Append moves the cursor to the end of the section, pads it to align, and
// returns the location of the next byte written.
func (s *Section) Append(align int) Location {
	_ = s.c.Seek(s.c.Len())
	s.c.Align(align, s.Fill)

	return Location{Section: s.ID, Offset: s.c.Tell()}
}

// Here returns the current cursor location.
func (s *Section) Here() Location {
	return Location{Section: s.ID, Offset: s.c.Tell()}
}

// Set is an ordered collection of sections flushed in a fixed order.
type Set struct {
	order   []*Section
	byID    map[format.SectionID]*Section
	flushed bool
}

// NewSet creates the sections in the order they will be flushed.
func NewSet(engine endian.EndianEngine, specs ...Spec) *Set {
	s := &Set{byID: make(map[format.SectionID]*Section, len(specs))}
	for _, spec := range specs {
		sec := &Section{Spec: spec, c: cursor.NewWriter(engine)}
		s.order = append(s.order, sec)
		s.byID[spec.ID] = sec
	}

	return s
}

// Section returns the section with the given id, or nil.
func (s *Set) Section(id format.SectionID) *Section {
	return s.byID[id]
}

// Sections returns the sections in flush order.
func (s *Set) Sections() []*Section {
	return s.order
}

// Flush assigns each section its base address in flush order and returns
// the concatenated image. Section buffers are released afterwards.
func (s *Set) Flush() ([]byte, error) {
	if s.flushed {
		return nil, fmt.Errorf("section set already flushed: %w", errs.ErrMalformedRecord)
	}

	for _, sec := range s.order {
		if err := sec.c.Err(); err != nil {
			return nil, fmt.Errorf("section %s: %w", sec.ID, err)
		}
	}

	bb := pool.GetImageBuffer()
	defer pool.PutImageBuffer(bb)

	for _, sec := range s.order {
		if pad := cursor.AlignUp(bb.Len(), sec.Align) - bb.Len(); pad > 0 {
			start := bb.Len()
			bb.ExtendOrGrow(pad)
			for i := start; i < bb.Len(); i++ {
				bb.B[i] = sec.Fill
			}
		}
		sec.base = bb.Len()
		bb.WriteAt(sec.c.Bytes(), bb.Len())
		sec.c.Release()
	}
	s.flushed = true

	image := make([]byte, bb.Len())
	copy(image, bb.Bytes())

	return image, nil
}

// Absolute converts a section location into a file offset. It is only valid
// after Flush.
func (s *Set) Absolute(loc Location) (int, error) {
	if !s.flushed {
		return 0, fmt.Errorf("location %s before flush: %w", loc, errs.ErrMalformedRecord)
	}
	sec := s.byID[loc.Section]
	if sec == nil {
		return 0, fmt.Errorf("location %s: unknown section: %w", loc, errs.ErrOutOfRange)
	}

	return sec.base + loc.Offset, nil
}

// Release returns the section buffers of an unflushed set to the pool.
func (s *Set) Release() {
	if s.flushed {
		return
	}
	for _, sec := range s.order {
		sec.c.Release()
	}
}
