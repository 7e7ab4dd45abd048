package dynobj

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// Tuple is an immutable ordered sequence.
type Tuple []any

func (t Tuple) Len() int { return len(t) }

func (t Tuple) Item(i int) (any, error) { return listSeq(t).Item(i) }

// TypeName implements TypeNamer.
func (Tuple) TypeName() (string, error) { return "tuple", nil }

// ByteArray is a mutable byte buffer. It is classified as bytes, like []byte.
type ByteArray []byte

// TypeName implements TypeNamer.
func (ByteArray) TypeName() (string, error) { return "bytearray", nil }

// ErrFrozen is returned when adding to a frozen set.
var ErrFrozen = errors.New("dynobj: set is frozen")

// Set is an unordered collection of distinct values. Iteration follows
// insertion order, which is the only order callers may rely on.
type Set struct {
	items  []any
	seen   map[any]struct{}
	frozen bool
}

// NewSet returns a mutable set holding items.
func NewSet(items ...any) *Set {
	s := &Set{seen: make(map[any]struct{})}
	for _, it := range items {
		_ = s.Add(it)
	}
	return s
}

// NewFrozenSet returns an immutable set holding items.
func NewFrozenSet(items ...any) *Set {
	s := NewSet(items...)
	s.frozen = true
	return s
}

// Add inserts v unless it is already present.
func (s *Set) Add(v any) error {
	if s.frozen {
		return ErrFrozen
	}
	if s.Contains(v) {
		return nil
	}
	if ik, ok := indexKey(v); ok {
		s.seen[ik] = struct{}{}
	}
	s.items = append(s.items, v)
	return nil
}

// Contains reports whether v is a member.
func (s *Set) Contains(v any) bool {
	if ik, ok := indexKey(v); ok {
		_, found := s.seen[ik]
		return found
	}
	for _, it := range s.items {
		if reflect.DeepEqual(it, v) {
			return true
		}
	}
	return false
}

// Frozen reports whether the set is immutable.
func (s *Set) Frozen() bool { return s.frozen }

func (s *Set) Len() int { return len(s.items) }

func (s *Set) Item(i int) (any, error) { return listSeq(s.items).Item(i) }

// TypeName implements TypeNamer.
func (s *Set) TypeName() (string, error) {
	if s.frozen {
		return "frozenset", nil
	}
	return "set", nil
}

type listSeq []any

func (l listSeq) Len() int { return len(l) }

func (l listSeq) Item(i int) (any, error) {
	if i < 0 || i >= len(l) {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrIndex, i, len(l))
	}
	return l[i], nil
}

type reflectSeq struct{ rv reflect.Value }

func (r reflectSeq) Len() int { return r.rv.Len() }

func (r reflectSeq) Item(i int) (any, error) {
	if i < 0 || i >= r.rv.Len() {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrIndex, i, r.rv.Len())
	}
	return r.rv.Index(i).Interface(), nil
}

// goMap is a one-shot snapshot of a Go map. Go randomises map iteration, so
// keys are sorted by their formatted value and values gathered in the same
// order; this keeps the key and value streams correlated.
type goMap struct {
	keys   listSeq
	values listSeq
}

func snapshotMap(rv reflect.Value) goMap {
	type entry struct {
		sortKey string
		k, v    any
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		entries = append(entries, entry{
			sortKey: fmt.Sprintf("%T:%v", k, k),
			k:       k,
			v:       iter.Value().Interface(),
		})
	}
	slices.SortStableFunc(entries, func(a, b entry) int { return cmp.Compare(a.sortKey, b.sortKey) })
	m := goMap{keys: make(listSeq, len(entries)), values: make(listSeq, len(entries))}
	for i, e := range entries {
		m.keys[i] = e.k
		m.values[i] = e.v
	}
	return m
}

func (m goMap) Len() int { return len(m.keys) }

func (m goMap) Keys() (Sequence, error) { return m.keys, nil }

func (m goMap) Values() (Sequence, error) { return m.values, nil }
