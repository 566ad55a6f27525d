package collision

import "github.com/arloliu/ctrbin/internal/hash"

type entry struct {
	name string
	id   int
}

// Tracker interns strings for a string table. Names are bucketed by their
// xxHash64; names sharing a hash are kept apart and counted as collisions.
type Tracker struct {
	byHash     map[uint64][]entry
	names      []string
	collisions int
}

// NewTracker creates a new string tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byHash: make(map[uint64][]entry),
	}
}

// Intern returns the id of name, assigning the next id when name is new.
// fresh reports whether this call added it.
func (t *Tracker) Intern(name string) (id int, fresh bool) {
	h := hash.ID(name)

	bucket := t.byHash[h]
	for _, e := range bucket {
		if e.name == name {
			return e.id, false
		}
	}
	if len(bucket) > 0 {
		t.collisions++
	}

	id = len(t.names)
	t.byHash[h] = append(bucket, entry{name: name, id: id})
	t.names = append(t.names, name)

	return id, true
}

// Lookup returns the id of an already interned name.
func (t *Tracker) Lookup(name string) (int, bool) {
	for _, e := range t.byHash[hash.ID(name)] {
		if e.name == name {
			return e.id, true
		}
	}

	return 0, false
}

// Collisions returns the number of distinct names that shared a hash with
// an earlier name.
func (t *Tracker) Collisions() int {
	return t.collisions
}

// Names returns the interned names in id order.
func (t *Tracker) Names() []string {
	return t.names
}

// Count returns the number of interned names.
func (t *Tracker) Count() int {
	return len(t.names)
}

// Reset clears all interned names while keeping allocated capacity.
func (t *Tracker) Reset() {
	clear(t.byHash)
	t.names = t.names[:0]
	t.collisions = 0
}
