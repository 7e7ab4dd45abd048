package dynconv_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/reoring/dynconv"
	"github.com/reoring/dynconv/dynobj"
)

type customSeq struct{ items []any }

func (c customSeq) Len() int { return len(c.items) }
func (c customSeq) Item(i int) (any, error) {
	return c.items[i], nil
}

type opaque struct{ X int }

func TestClassify_Order(t *testing.T) {
	var nilPtr *int
	cases := []struct {
		in   any
		want dynconv.Category
	}{
		{nil, dynconv.CategoryNone},
		{nilPtr, dynconv.CategoryNone},
		{true, dynconv.CategoryBool},
		{5, dynconv.CategoryInt},
		{uint8(5), dynconv.CategoryInt},
		{big.NewInt(5), dynconv.CategoryInt},
		{json.Number("5"), dynconv.CategoryInt},
		{json.Number("5.5"), dynconv.CategoryFloat},
		{[]any{1}, dynconv.CategorySequence},
		{dynobj.Tuple{1}, dynconv.CategorySequence},
		{dynobj.NewDict(), dynconv.CategoryMapping},
		{"x", dynconv.CategoryString},
		{[]byte("x"), dynconv.CategoryBytes},
		{dynobj.ByteArray("x"), dynconv.CategoryBytes},
		{1.5, dynconv.CategoryFloat},
		{dynobj.NewSet(1), dynconv.CategorySet},
		{dynobj.NewFrozenSet(1), dynconv.CategorySet},
		{[]string{"a"}, dynconv.CategorySequence},
		{[2]int{1, 2}, dynconv.CategorySequence},
		{customSeq{}, dynconv.CategorySequence},
		{map[string]int{}, dynconv.CategoryMapping},
	}
	for _, tc := range cases {
		got, err := dynconv.Classify(tc.in)
		if err != nil {
			t.Fatalf("%#v: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%#v: want %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestClassify_Unsupported(t *testing.T) {
	_, err := dynconv.Classify(opaque{})
	e := wantCode(t, err, dynconv.CodeUnsupportedType)
	if e.TypeName != "dynconv_test.opaque" {
		t.Fatalf("unexpected type name %q", e.TypeName)
	}
	_, err = dynconv.ConvertAny(opaque{})
	wantCode(t, err, dynconv.CodeUnsupportedType)
}

func TestCategory_String(t *testing.T) {
	if s := dynconv.CategorySet.String(); s != "Set" {
		t.Fatalf("unexpected %q", s)
	}
	if s := dynconv.Category(42).String(); s != "Category(42)" {
		t.Fatalf("unexpected %q", s)
	}
}

func TestConvertAny_CustomSequenceAndSet(t *testing.T) {
	got, err := dynconv.ConvertAny(customSeq{items: []any{"a", 300}})
	if err != nil {
		t.Fatal(err)
	}
	list, ok := got.([]any)
	if !ok || len(list) != 2 || list[0] != "a" || list[1] != uint16(300) {
		t.Fatalf("unexpected %#v", got)
	}
	got, err = dynconv.ConvertAny(dynobj.NewSet(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if list := got.([]any); len(list) != 2 || list[0] != uint8(1) {
		t.Fatalf("unexpected %#v", got)
	}
}
