package dynconv

import (
	"fmt"

	"github.com/reoring/dynconv/dynobj"
)

// mapAccess walks the key and value streams of a borrowed mapping with two
// independent counters. The streams and length are captured once.
type mapAccess struct {
	de      *deserializer
	keys    dynobj.Sequence
	values  dynobj.Sequence
	keyIdx  int
	valIdx  int
	len     int
	lastKey string
}

func (d *deserializer) mappingAccess() (*mapAccess, error) {
	m, ok := dynobj.AsMapping(d.input)
	if !ok {
		return nil, d.fail(InvalidType(describe(d.input), "a mapping"))
	}
	keys, err := m.Keys()
	if err != nil {
		return nil, d.fail(errExtraction(err))
	}
	values, err := m.Values()
	if err != nil {
		return nil, d.fail(errExtraction(err))
	}
	return &mapAccess{de: d, keys: keys, values: values, len: m.Len()}, nil
}

func (m *mapAccess) NextKey(fn func(Deserializer) error) (bool, error) {
	if m.keyIdx >= m.len {
		return false, nil
	}
	k, err := m.keys.Item(m.keyIdx)
	if err != nil {
		return false, m.de.fail(errExtraction(err))
	}
	m.keyIdx++
	m.lastKey = keySegment(k)
	c, err := m.de.child(k, m.lastKey)
	if err != nil {
		return false, err
	}
	return true, c.done(fn(c))
}

func (m *mapAccess) NextValue(fn func(Deserializer) error) error {
	v, err := m.values.Item(m.valIdx)
	if err != nil {
		return m.de.fail(errExtraction(err))
	}
	m.valIdx++
	c, err := m.de.child(v, m.lastKey)
	if err != nil {
		return err
	}
	return c.done(fn(c))
}

func (m *mapAccess) SizeHint() int { return m.len - m.keyIdx }

func keySegment(k any) string {
	if s, ok := dynobj.Text(k); ok {
		return s
	}
	if n, err := dynobj.BigInt(k); err == nil && dynobj.IsInteger(k) {
		return n.String()
	}
	return fmt.Sprint(k)
}
