package dynconv_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/dynconv"
	"github.com/reoring/dynconv/dynobj"
)

// shape is a tagged union covering every variant kind.
type shape interface{ isShape() }

type unitShape struct{}

type newtypeShape string

type tupleShape struct {
	_    struct{} `dynconv:",tuple"`
	N    int32
	Name string
}

type structShape struct {
	Foo string `dynconv:"foo"`
	Bar uint   `dynconv:"bar"`
}

func (unitShape) isShape()    {}
func (newtypeShape) isShape() {}
func (tupleShape) isShape()   {}
func (*structShape) isShape() {}

// loose is an untagged union tried in declaration order.
type loose interface{ isLoose() }

type looseTuple struct {
	_ struct{} `dynconv:",tuple"`
	F float32
	C dynconv.Char
}

type looseNewtype string

type looseStruct struct {
	Foo []dynconv.Char `dynconv:"foo"`
	Bar [4]uint8       `dynconv:"bar"`
}

func (looseTuple) isLoose()   {}
func (looseNewtype) isLoose() {}
func (looseStruct) isLoose()  {}

// baz appears nested inside records.
type baz interface{ isBaz() }

type basic struct{}

type bazTuple struct {
	_ struct{} `dynconv:",tuple"`
	F float32
	U uint32
}

func (basic) isBaz()    {}
func (bazTuple) isBaz() {}

type outer struct {
	Name string `dynconv:"name"`
	Bar  middle `dynconv:"bar"`
}

type middle struct {
	Value   uint `dynconv:"value"`
	Variant baz  `dynconv:"variant"`
}

func init() {
	dynconv.MustRegisterUnion[shape]("Shape",
		dynconv.UnitVariant("Variant", unitShape{}),
		dynconv.NewtypeVariant("NewType", newtypeShape("")),
		dynconv.TupleVariant("Tuple", tupleShape{}),
		dynconv.StructVariant("Struct", &structShape{}),
	)
	dynconv.MustRegisterUntaggedUnion[loose]("Loose",
		dynconv.VariantOf("Tuple", looseTuple{}),
		dynconv.VariantOf("NewType", looseNewtype("")),
		dynconv.VariantOf("Struct", looseStruct{}),
	)
	dynconv.MustRegisterUnion[baz]("Baz",
		dynconv.VariantOf("Basic", basic{}),
		dynconv.VariantOf("Tuple", bazTuple{}),
	)
}

func TestUnion_Tagged(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want shape
	}{
		{"unit", "Variant", unitShape{}},
		{"unit mapping form", dynobj.DictOf("Variant", nil), unitShape{}},
		{"newtype", dynobj.DictOf("NewType", "cat"), newtypeShape("cat")},
		{"tuple", dynobj.DictOf("Tuple", []any{12, "cat"}), tupleShape{N: 12, Name: "cat"}},
		{"struct", dynobj.DictOf("Struct", dynobj.DictOf("foo", "cat", "bar", 25)), &structShape{Foo: "cat", Bar: 25}},
		{"go map", map[string]any{"NewType": "dog"}, newtypeShape("dog")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mustConvert[shape](t, tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnion_TaggedErrors(t *testing.T) {
	_, err := dynconv.ConvertTo[shape](dynobj.DictOf("Variant", nil, "NewType", "x"))
	wantCode(t, err, dynconv.CodeInvalidUnion)

	_, err = dynconv.ConvertTo[shape](dynobj.NewDict())
	wantCode(t, err, dynconv.CodeInvalidUnion)

	_, err = dynconv.ConvertTo[shape](dynobj.DictOf(1, "x"))
	wantCode(t, err, dynconv.CodeNonTextKey)

	_, err = dynconv.ConvertTo[shape]("NewType")
	e := wantCode(t, err, dynconv.CodeInvalidType)
	if e.Got != "unit variant" {
		t.Fatalf("unexpected got %q", e.Got)
	}

	_, err = dynconv.ConvertTo[shape](5)
	wantCode(t, err, dynconv.CodeInvalidUnion)

	_, err = dynconv.ConvertTo[shape]("Nope")
	e = wantCode(t, err, dynconv.CodeUnknownVariant)
	if !strings.Contains(e.Message, "`Nope`") {
		t.Fatalf("unexpected message %q", e.Message)
	}

	_, err = dynconv.ConvertTo[shape](dynobj.DictOf("Tuple", []any{1}))
	wantCode(t, err, dynconv.CodeIncorrectLength)
}

func TestUnion_StructVariantNeedsMapping(t *testing.T) {
	in := dynobj.DictOf("Struct", []any{"cat", 25})
	_, err := dynconv.ConvertTo[shape](in)
	e := wantCode(t, err, dynconv.CodeInvalidType)
	if e.Path != "/Struct" || e.Expected != "a mapping" || e.Got != "sequence" {
		t.Fatalf("unexpected error %+v", e)
	}

	got, err := dynconv.ConvertTo[shape](in, dynconv.Options{PositionalRecords: true})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(shape(&structShape{Foo: "cat", Bar: 25}), got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestUnion_Untagged(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want loose
	}{
		{"tuple", []any{12.0, "c"}, looseTuple{F: 12, C: 'c'}},
		{"newtype", "cat", looseNewtype("cat")},
		{"struct", dynobj.DictOf("foo", []any{"a", "b", "c"}, "bar", []any{2, 5, 3, 1}),
			looseStruct{Foo: []dynconv.Char{'a', 'b', 'c'}, Bar: [4]uint8{2, 5, 3, 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mustConvert[loose](t, tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnion_UntaggedNoMatch(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := dynconv.ConvertTo[loose](true, dynconv.Options{Logger: logger})
	e := wantCode(t, err, dynconv.CodeInvalidUnion)
	if !strings.Contains(e.Message, "data did not match any variant of untagged union Loose") {
		t.Fatalf("unexpected message %q", e.Message)
	}
	if n := strings.Count(buf.String(), "untagged variant did not match"); n != 3 {
		t.Fatalf("expected 3 debug records, got %d:\n%s", n, buf.String())
	}
}

func TestUnion_Nested(t *testing.T) {
	in := dynobj.DictOf("name", "SomeFoo", "bar", dynobj.DictOf("value", 13, "variant", dynobj.DictOf("Tuple", []any{-1.5, 8})))
	got := mustConvert[outer](t, in)
	want := outer{Name: "SomeFoo", Bar: middle{Value: 13, Variant: bazTuple{F: -1.5, U: 8}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	bad := dynobj.DictOf("name", "SomeFoo", "bar", dynobj.DictOf("value", 13, "variant", dynobj.DictOf("Tuple", []any{"x", 8})))
	_, err := dynconv.ConvertTo[outer](bad)
	if e := wantCode(t, err, dynconv.CodeInvalidType); e.Path != "/bar/variant/Tuple/0" {
		t.Fatalf("unexpected path %q", e.Path)
	}
}

func TestUnion_AnyFieldKeepsMapping(t *testing.T) {
	type holder struct {
		V any `json:"v"`
	}
	got := mustConvert[holder](t, dynobj.DictOf("v", dynobj.DictOf("Tuple", []any{1})))
	want := dynobj.DictOf("Tuple", []any{uint8(1)})
	if diff := cmp.Diff(any(want), got.V); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

type notUnion struct{}

func TestUnion_RegisterValidation(t *testing.T) {
	if err := dynconv.RegisterUnion[notUnion]("X"); err == nil {
		t.Fatal("expected error for non-interface union")
	}
	if err := dynconv.RegisterUnion[shape]("Bad", dynconv.UnitVariant("A", 1)); err == nil {
		t.Fatal("expected error for variant not implementing the union")
	}
	if err := dynconv.RegisterUnion[baz]("Dup", dynconv.VariantOf("A", basic{}), dynconv.VariantOf("A", basic{})); err == nil {
		t.Fatal("expected error for duplicate variant")
	}
	if got := dynconv.VariantOf("T", bazTuple{}).Kind; got != dynconv.VariantTuple {
		t.Fatalf("expected tuple, got %s", got)
	}
	if got := dynconv.VariantOf("S", &structShape{}).Kind.String(); got != "Struct" {
		t.Fatalf("expected Struct, got %s", got)
	}
}
