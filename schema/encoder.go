package schema

import (
	"fmt"

	"github.com/arloliu/ctrbin/cursor"
	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/internal/collision"
	"github.com/arloliu/ctrbin/reloc"
	"github.com/arloliu/ctrbin/section"
)

type pending struct {
	ref    reloc.Ref
	target Target
	write  func(e *Encoder) error
}

// Encoder writes records into a section set, queueing pointer targets and
// reserving pointer slots for patching after flush.
type Encoder struct {
	set     *section.Set
	table   *reloc.Table
	dialect Dialect
	version uint32
	sec     *section.Section
	queue   []pending
	strings *collision.Tracker
	refs    []reloc.Ref
	depth   int
}

// NewEncoder creates an encoder writing into set. The current section starts
// as the dialect's record section.
func NewEncoder(set *section.Set, table *reloc.Table, dialect Dialect, version uint32) *Encoder {
	return &Encoder{
		set:     set,
		table:   table,
		dialect: dialect,
		version: version,
		sec:     set.Section(dialect.Records),
		strings: collision.NewTracker(),
	}
}

// Cursor returns the cursor of the current section.
func (e *Encoder) Cursor() *cursor.Cursor { return e.sec.Cursor() }

// Dialect returns the container conventions.
func (e *Encoder) Dialect() Dialect { return e.dialect }

// Version returns the stream version used by version-gated fields.
func (e *Encoder) Version() uint32 { return e.version }

// Table returns the pointer reservation table.
func (e *Encoder) Table() *reloc.Table { return e.table }

// Set returns the section set.
func (e *Encoder) Set() *section.Set { return e.set }

// Here returns the location of the next byte written.
func (e *Encoder) Here() section.Location { return e.sec.Here() }

// InternedStrings returns the number of distinct strings written so far.
func (e *Encoder) InternedStrings() int { return e.strings.Count() }

// Encode writes r at the current position. Version conditions are evaluated
// once, before the first field is written.
func (e *Encoder) Encode(r Record) error {
	if e.depth >= MaxDepth {
		return fmt.Errorf("%T: nesting deeper than %d: %w", r, MaxDepth, errs.ErrMalformedRecord)
	}
	e.depth++
	defer func() { e.depth-- }()

	if custom, ok := r.(CustomLayout); ok {
		if err := checkStrategy(custom); err != nil {
			return err
		}
		handled, err := custom.EncodeLayout(e)
		if err == nil {
			err = e.Cursor().Err()
		}
		if err != nil {
			return fmt.Errorf("%T: %s layout: %w", r, custom.Strategy(), err)
		}
		if handled {
			return nil
		}
	}

	var l Layout
	r.Layout(&l)

	for _, f := range active(l.fields, e.version) {
		err := f.encode(e)
		if err == nil {
			err = e.Cursor().Err()
		}
		if err != nil {
			return fmt.Errorf("%T.%s: %w", r, f.Name, err)
		}
	}

	return nil
}

// WritePointer writes a placeholder at the current position and reserves it
// for ptr. A zero Ref writes a null pointer.
func (e *Encoder) WritePointer(ptr reloc.Pointer) {
	if ptr.Ref == 0 {
		e.Cursor().WriteU32(0)
		return
	}
	e.table.Reserve(e.Here(), ptr)
	e.Cursor().WriteU32(0)
}

// Defer queues write to run at the end of the target section once the
// current record is complete, and returns the pointer to its start.
func (e *Encoder) Defer(target Target, write func(e *Encoder) error) reloc.Pointer {
	ref := e.table.NewRef()
	e.queue = append(e.queue, pending{ref: ref, target: target, write: write})

	return reloc.Pointer{Ref: ref, Kind: target.Kind, Flags: target.Flags}
}

// WriteString writes a pointer to s in the string section. Equal strings
// share one copy; the empty string is written as a null pointer.
func (e *Encoder) WriteString(s string) {
	if s == "" {
		e.WritePointer(reloc.Pointer{})
		return
	}

	id, fresh := e.strings.Intern(s)
	if fresh {
		ptr := e.Defer(Target{Section: e.dialect.Strings, Align: 1, Kind: e.dialect.StringKind},
			func(e *Encoder) error {
				e.Cursor().WriteCString(s)
				return nil
			})
		e.refs = append(e.refs, ptr.Ref)
	}

	e.WritePointer(reloc.Pointer{Ref: e.refs[id], Kind: e.dialect.StringKind})
}

// Drain writes every queued target, in FIFO order, including targets
// queued while draining.
func (e *Encoder) Drain() error {
	for len(e.queue) > 0 {
		p := e.queue[0]
		e.queue = e.queue[1:]

		sec := e.set.Section(p.target.Section)
		if sec == nil {
			return fmt.Errorf("queued target in missing section %s: %w", p.target.Section, errs.ErrMalformedRecord)
		}

		prev := e.sec
		e.sec = sec
		e.table.Place(p.ref, sec.Append(p.target.Align))
		err := p.write(e)
		if err == nil {
			err = sec.Cursor().Err()
		}
		e.sec = prev

		if err != nil {
			return err
		}
	}

	return nil
}

// Within runs fn with sec as the current section, positioned at its end.
func (e *Encoder) Within(sec *section.Section, fn func() error) error {
	prev := e.sec
	e.sec = sec
	defer func() { e.sec = prev }()
	_ = sec.Cursor().Seek(sec.Len())

	return fn()
}

// Finish drains the queue, flushes the sections and patches every reserved
// pointer slot.
func (e *Encoder) Finish() ([]byte, error) {
	if err := e.Drain(); err != nil {
		return nil, err
	}

	return e.FlushAndPatch()
}

// FlushAndPatch flushes the sections and patches every reserved pointer
// slot. The queue must already be drained.
func (e *Encoder) FlushAndPatch() ([]byte, error) {
	if len(e.queue) > 0 {
		return nil, fmt.Errorf("%d queued targets not written: %w", len(e.queue), errs.ErrUnpatchedPointer)
	}

	image, err := e.set.Flush()
	if err != nil {
		return nil, err
	}

	if err := e.table.Patch(e.set, image, e.Cursor().Engine()); err != nil {
		return nil, err
	}

	return image, nil
}
