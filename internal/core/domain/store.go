package domain

import (
	"fmt"
	"math"
)

// StoreFormatVersion is the current on-disk layout version of the store.
// Version 0 denotes the unversioned baseline layout.
const StoreFormatVersion = 1

// StoreDocument is a single (text, vector) record.
// Vector is L2-normalised or the zero vector.
type StoreDocument struct {
	Text   string
	Vector []float32
}

// Store is the ordered, append-only collection of records.
// Order is insertion order and is significant for tie-breaking.
type Store struct {
	// Dimension is the common vector length, or 0 while empty.
	Dimension int

	Docs []StoreDocument
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{Docs: []StoreDocument{}}
}

// Len returns the number of records.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Docs)
}

// CheckDimension verifies that a vector of length n can live in this store.
// An empty store with no recorded dimension accepts any non-zero length.
func (s *Store) CheckDimension(n int) error {
	if n == 0 {
		return fmt.Errorf("empty vector: %w", ErrDimensionMismatch)
	}
	if s.Dimension != 0 && n != s.Dimension {
		return fmt.Errorf("got %d want %d: %w", n, s.Dimension, ErrDimensionMismatch)
	}
	return nil
}

// CheckVector verifies that vector can be appended: its length fits the
// store and every component is finite.
func (s *Store) CheckVector(vector []float32) error {
	if err := s.CheckDimension(len(vector)); err != nil {
		return err
	}
	for i, x := range vector {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return fmt.Errorf("component %d is %v: %w", i, x, ErrInvalidInput)
		}
	}
	return nil
}

// CheckBatch verifies that every vector could be appended in order, without
// modifying the store.
func (s *Store) CheckBatch(vectors [][]float32) error {
	batch := Store{Dimension: s.Dimension}
	for i, v := range vectors {
		if err := batch.CheckVector(v); err != nil {
			return fmt.Errorf("vector %d: %w", i, err)
		}
		batch.Dimension = len(v)
	}
	return nil
}

// Append adds a record and records the dimension on first insert.
func (s *Store) Append(text string, vector []float32) error {
	if err := s.CheckVector(vector); err != nil {
		return err
	}
	if s.Dimension == 0 {
		s.Dimension = len(vector)
	}
	s.Docs = append(s.Docs, StoreDocument{Text: text, Vector: vector})
	return nil
}

// Validate checks the invariants a loaded store must satisfy and fills in
// Dimension when the source did not record it.
func (s *Store) Validate() error {
	dim := s.Dimension
	for i, d := range s.Docs {
		if len(d.Vector) == 0 {
			return fmt.Errorf("doc %d has no vector: %w", i, ErrDimensionMismatch)
		}
		if dim == 0 {
			dim = len(d.Vector)
		}
		if len(d.Vector) != dim {
			return fmt.Errorf("doc %d has %d dimensions, store has %d: %w",
				i, len(d.Vector), dim, ErrDimensionMismatch)
		}
	}
	s.Dimension = dim
	return nil
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	out := &Store{Dimension: s.Dimension, Docs: make([]StoreDocument, len(s.Docs))}
	for i, d := range s.Docs {
		out.Docs[i] = StoreDocument{Text: d.Text, Vector: CloneVector(d.Vector)}
	}
	return out
}

// StoreStats summarises a store for display.
type StoreStats struct {
	// Location is where the store is persisted.
	Location string

	// Documents is the number of records.
	Documents int

	// Dimension is the common vector length, or 0 while empty.
	Dimension int
}
