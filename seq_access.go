package dynconv

import (
	"strconv"

	"github.com/reoring/dynconv/dynobj"
)

// seqAccess walks a borrowed sequence. The length is captured once.
type seqAccess struct {
	de    *deserializer
	seq   dynobj.Sequence
	index int
	len   int
}

// sequenceAccess opens a cursor over the input. A non-negative expected
// length must match the actual length exactly.
func (d *deserializer) sequenceAccess(expected int) (*seqAccess, error) {
	seq, ok := dynobj.AsSequence(d.input)
	if !ok {
		return nil, d.fail(InvalidType(describe(d.input), "a sequence"))
	}
	n := seq.Len()
	if expected >= 0 && expected != n {
		return nil, d.fail(errIncorrectLength(expected, n))
	}
	return &seqAccess{de: d, seq: seq, len: n}, nil
}

func (s *seqAccess) NextElement(fn func(Deserializer) error) (bool, error) {
	if s.index >= s.len {
		return false, nil
	}
	item, err := s.seq.Item(s.index)
	if err != nil {
		return false, s.de.fail(errExtraction(err))
	}
	c, err := s.de.child(item, strconv.Itoa(s.index))
	s.index++
	if err != nil {
		return false, err
	}
	return true, c.done(fn(c))
}

func (s *seqAccess) SizeHint() int { return s.len - s.index }
