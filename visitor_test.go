package dynconv_test

import (
	"errors"
	"testing"

	"github.com/reoring/dynconv"
	"github.com/reoring/dynconv/dynobj"
	"github.com/reoring/dynconv/i18n"
)

// countingVisitor records the shape it was handed.
type countingVisitor struct {
	dynconv.BaseVisitor
	keys   []string
	values int
}

func (v *countingVisitor) VisitMap(m dynconv.MapAccess) error {
	for {
		var key string
		ok, err := m.NextKey(func(d dynconv.Deserializer) error { return dynconv.Decode(d, &key) })
		if err != nil || !ok {
			return err
		}
		v.keys = append(v.keys, key)
		var val any
		if err := m.NextValue(func(d dynconv.Deserializer) error { return dynconv.Decode(d, &val) }); err != nil {
			return err
		}
		v.values++
	}
}

func TestDeserializer_MapKeysInInsertionOrder(t *testing.T) {
	d := dynconv.NewDeserializer(dynobj.DictOf("z", 1, "a", 2, "m", 3))
	v := &countingVisitor{BaseVisitor: dynconv.BaseVisitor{Expect: "a map"}}
	if err := d.DeserializeMap(v); err != nil {
		t.Fatal(err)
	}
	if got := len(v.keys); got != 3 || v.keys[0] != "z" || v.keys[2] != "m" || v.values != 3 {
		t.Fatalf("unexpected keys %v values %d", v.keys, v.values)
	}
}

func TestDeserializer_IgnoredNeverInspects(t *testing.T) {
	// BaseVisitor rejects unit, so the error shows unit was the shape offered.
	d := dynconv.NewDeserializer(struct{ unsupported chan int }{})
	err := d.DeserializeIgnored(dynconv.BaseVisitor{})
	wantCode(t, err, dynconv.CodeInvalidType)

	var sink any
	if err := dynconv.Decode(dynconv.NewDeserializer(1), &sink); err != nil {
		t.Fatal(err)
	}
}

func TestDeserializer_SeqExhaustion(t *testing.T) {
	d := dynconv.NewDeserializer([]any{1, 2})
	calls := 0
	v := &seqVisitor{fn: func(seq dynconv.SeqAccess) error {
		if seq.SizeHint() != 2 {
			t.Fatalf("unexpected size hint %d", seq.SizeHint())
		}
		for {
			ok, err := seq.NextElement(func(dynconv.Deserializer) error { calls++; return nil })
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
		ok, err := seq.NextElement(func(dynconv.Deserializer) error { calls++; return nil })
		if ok || err != nil {
			t.Fatalf("exhausted sequence yielded ok=%v err=%v", ok, err)
		}
		return nil
	}}
	if err := d.DeserializeSeq(v); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 element calls, got %d", calls)
	}
}

type seqVisitor struct {
	dynconv.BaseVisitor
	fn func(dynconv.SeqAccess) error
}

func (v *seqVisitor) VisitSeq(seq dynconv.SeqAccess) error { return v.fn(seq) }

func TestDeserializer_OptionPresence(t *testing.T) {
	var some bool
	v := &optVisitor{some: &some}
	if err := dynconv.NewDeserializer(0).DeserializeOption(v); err != nil {
		t.Fatal(err)
	}
	if !some {
		t.Fatal("zero must count as present")
	}
}

type optVisitor struct {
	dynconv.BaseVisitor
	some *bool
}

func (v *optVisitor) VisitSome(dynconv.Deserializer) error {
	*v.some = true
	return nil
}

func TestError_Messages(t *testing.T) {
	_, err := dynconv.ConvertTo[[]int]([]any{"x"})
	if got := err.Error(); got != "invalid type: string \"x\", expected int64 at /0" {
		t.Fatalf("unexpected message %q", got)
	}
	if !dynconv.HasCode(err, dynconv.CodeInvalidType) {
		t.Fatal("HasCode failed")
	}

	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	_, err = dynconv.ConvertTo[dynconv.Char]("ab")
	if got := err.Error(); got != "長さ1の文字列が必要です" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestError_ExtractionWrapsCause(t *testing.T) {
	_, err := dynconv.ConvertAny(failingSeq{})
	e := wantCode(t, err, dynconv.CodeExtraction)
	if !errors.Is(err, dynobj.ErrIndex) || e.Message != dynobj.ErrIndex.Error() {
		t.Fatalf("unexpected error %+v", e)
	}
}

type failingSeq struct{}

func (failingSeq) Len() int              { return 1 }
func (failingSeq) Item(int) (any, error) { return nil, dynobj.ErrIndex }
