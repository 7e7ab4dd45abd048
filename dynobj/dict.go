package dynobj

import (
	"bytes"
	"fmt"
	"math/big"
	"reflect"

	json "github.com/goccy/go-json"
)

// Dict is an insertion-ordered mapping. Keys may be any value; comparable
// keys are indexed for constant-time lookup, the rest are found by scanning.
type Dict struct {
	keys   []any
	values []any
	index  map[any]int
}

// NewDict returns an empty Dict.
func NewDict() *Dict { return &Dict{index: make(map[any]int)} }

// DictOf builds a Dict from alternating keys and values. It panics when given
// an odd number of arguments.
func DictOf(kv ...any) *Dict {
	if len(kv)%2 != 0 {
		panic("dynobj: DictOf requires key/value pairs")
	}
	d := NewDict()
	for i := 0; i < len(kv); i += 2 {
		d.Set(kv[i], kv[i+1])
	}
	return d
}

type bigKey string

func indexKey(k any) (any, bool) {
	switch x := k.(type) {
	case nil:
		return nil, true
	case *big.Int:
		if x == nil {
			return nil, true
		}
		return bigKey(x.String()), true
	}
	if !reflect.TypeOf(k).Comparable() {
		return nil, false
	}
	return k, true
}

func (d *Dict) lookup(k any) int {
	if ik, ok := indexKey(k); ok {
		if i, found := d.index[ik]; found {
			return i
		}
		return -1
	}
	for i, existing := range d.keys {
		if reflect.DeepEqual(existing, k) {
			return i
		}
	}
	return -1
}

// Set inserts or replaces the value stored under k. Replacing keeps the
// original position.
func (d *Dict) Set(k, v any) {
	if d.index == nil {
		d.index = make(map[any]int)
	}
	if i := d.lookup(k); i >= 0 {
		d.values[i] = v
		return
	}
	if ik, ok := indexKey(k); ok {
		d.index[ik] = len(d.keys)
	}
	d.keys = append(d.keys, k)
	d.values = append(d.values, v)
}

// Get returns the value stored under k.
func (d *Dict) Get(k any) (any, bool) {
	if d == nil {
		return nil, false
	}
	if i := d.lookup(k); i >= 0 {
		return d.values[i], true
	}
	return nil, false
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns a snapshot of the keys in insertion order.
func (d *Dict) Keys() (Sequence, error) { return listSeq(append([]any(nil), d.keys...)), nil }

// Values returns a snapshot of the values in insertion order.
func (d *Dict) Values() (Sequence, error) { return listSeq(append([]any(nil), d.values...)), nil }

// Range calls fn for each entry in order until fn returns false.
func (d *Dict) Range(fn func(k, v any) bool) {
	if d == nil {
		return
	}
	for i := range d.keys {
		if !fn(d.keys[i], d.values[i]) {
			return
		}
	}
}

// TypeName implements TypeNamer.
func (d *Dict) TypeName() (string, error) { return "dict", nil }

// Equal reports whether both dicts hold equal entries in the same order.
func (d *Dict) Equal(o *Dict) bool {
	if d.Len() != o.Len() {
		return false
	}
	for i := 0; i < d.Len(); i++ {
		if !equalValue(d.keys[i], o.keys[i]) || !equalValue(d.values[i], o.values[i]) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	if da, ok := a.(*Dict); ok {
		db, ok := b.(*Dict)
		return ok && da.Equal(db)
	}
	if ba, ok := a.(*big.Int); ok {
		bb, ok := b.(*big.Int)
		return ok && ba.Cmp(bb) == 0
	}
	if la, ok := a.([]any); ok {
		lb, ok := b.([]any)
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !equalValue(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// MarshalJSON writes the entries as a JSON object in insertion order.
// Non-text keys are rendered with fmt.
func (d *Dict) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		ks, ok := Text(k)
		if !ok {
			ks = fmt.Sprint(k)
		}
		kb, err := json.Marshal(ks)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(d.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
