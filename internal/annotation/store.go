package annotation

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Store is a sparse map of annotations keyed by position. Positions absent
// from the store render with the default annotation. A Store is not safe for
// concurrent use.
type Store struct {
	entries map[Position]Annotation
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[Position]Annotation)}
}

// Get returns the stored override for pos.
func (s *Store) Get(pos Position) (Annotation, bool) {
	a, ok := s.entries[pos]
	return a, ok
}

// Resolve returns the effective annotation at pos: the default for the
// global visibility with the stored override merged on top.
func (s *Store) Resolve(pos Position, global Visibility) Annotation {
	return Default(global).Merge(s.entries[pos])
}

// Update merges a into the override at pos.
func (s *Store) Update(pos Position, a Annotation) {
	s.entries[pos] = s.entries[pos].Merge(a)
}

// Put replaces the override at pos.
func (s *Store) Put(pos Position, a Annotation) {
	s.entries[pos] = a
}

// Delete removes the override at pos.
func (s *Store) Delete(pos Position) {
	delete(s.entries, pos)
}

// Reset removes every override.
func (s *Store) Reset() {
	clear(s.entries)
}

// Len returns the number of overrides.
func (s *Store) Len() int {
	return len(s.entries)
}

// Positions returns every annotated position ordered by string, then fret.
func (s *Store) Positions() []Position {
	return slices.SortedFunc(maps.Keys(s.entries), Compare)
}

// Clone returns an independent copy.
func (s *Store) Clone() *Store {
	return &Store{entries: maps.Clone(s.entries)}
}

// SetDefaultVisibility applies a new global visibility to overrides that
// carry an explicit, non user-placed visibility.
func (s *Store) SetDefaultVisibility(v Visibility) {
	for pos, a := range s.entries {
		if a.Visibility == "" || a.Visibility.Live() || a.Visibility == Highlight {
			continue
		}
		a.Visibility = v
		s.entries[pos] = a
	}
}

// Demote turns every selected override into a plain visible one.
func (s *Store) Demote() {
	for pos, a := range s.entries {
		if a.Visibility == Selected {
			a.Visibility = Visible
			s.entries[pos] = a
		}
	}
}

// MarshalJSON encodes the store as {"f3-s1": {...}, ...}.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.entries)
}

// UnmarshalJSON replaces the store contents. Keys must match the position
// grammar and enumerated fields must hold known values.
func (s *Store) UnmarshalJSON(data []byte) error {
	var entries map[Position]Annotation
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("error parsing annotations: %w", err)
	}
	for pos, a := range entries {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("error parsing annotation %s: %w", pos.Key(), err)
		}
	}
	if entries == nil {
		entries = make(map[Position]Annotation)
	}
	s.entries = entries
	return nil
}
