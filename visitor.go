package dynconv

import (
	"fmt"
	"strconv"
)

// Deserializer is the engine a schema drives. Each method states the shape
// the schema expects and reports the value to the visitor.
type Deserializer interface {
	DeserializeAny(v Visitor) error
	DeserializeBool(v Visitor) error
	DeserializeInt(w Width, v Visitor) error
	DeserializeUint(w Width, v Visitor) error
	DeserializeFloat(w Width, v Visitor) error
	DeserializeChar(v Visitor) error
	DeserializeString(v Visitor) error
	DeserializeBytes(v Visitor) error
	DeserializeOption(v Visitor) error
	DeserializeUnit(v Visitor) error
	DeserializeUnitStruct(name string, v Visitor) error
	DeserializeNewtype(name string, v Visitor) error
	DeserializeSeq(v Visitor) error
	DeserializeTuple(n int, v Visitor) error
	DeserializeTupleStruct(name string, n int, v Visitor) error
	DeserializeMap(v Visitor) error
	DeserializeStruct(name string, fields []string, v Visitor) error
	DeserializeEnum(name string, variants []string, v Visitor) error
	DeserializeIdentifier(v Visitor) error
	DeserializeIgnored(v Visitor) error
}

// Visitor receives the value a Deserializer found.
type Visitor interface {
	// Expecting describes what the visitor accepts, for error messages.
	Expecting() string
	VisitNone() error
	VisitSome(d Deserializer) error
	VisitUnit() error
	VisitBool(b bool) error
	VisitInt(i Int) error
	VisitFloat(f Float) error
	VisitChar(r rune) error
	VisitString(s string) error
	VisitBytes(b []byte) error
	VisitNewtype(d Deserializer) error
	VisitSeq(seq SeqAccess) error
	VisitMap(m MapAccess) error
	VisitEnum(e EnumAccess) error
}

// SeqAccess walks the elements of a sequence.
type SeqAccess interface {
	// NextElement hands the next element to fn. It reports false once the
	// sequence is exhausted, without calling fn.
	NextElement(fn func(Deserializer) error) (bool, error)
	// SizeHint returns the number of remaining elements, or -1.
	SizeHint() int
}

// MapAccess walks the entries of a mapping. Keys and values are consumed
// alternately: NextKey then NextValue.
type MapAccess interface {
	NextKey(fn func(Deserializer) error) (bool, error)
	NextValue(fn func(Deserializer) error) error
	SizeHint() int
}

// EnumAccess yields the variant tag of a tagged union.
type EnumAccess interface {
	Variant() (string, VariantAccess, error)
}

// VariantAccess decodes the payload of the selected variant.
type VariantAccess interface {
	UnitVariant() error
	NewtypeVariant(fn func(Deserializer) error) error
	TupleVariant(n int, v Visitor) error
	StructVariant(fields []string, v Visitor) error
}

// BaseVisitor rejects every shape with an invalid_type error. Embed it and
// override the methods a target accepts.
type BaseVisitor struct {
	Expect string
}

func (b BaseVisitor) Expecting() string {
	if b.Expect == "" {
		return "a value"
	}
	return b.Expect
}

func (b BaseVisitor) mismatch(got string) error { return InvalidType(got, b.Expecting()) }

func (b BaseVisitor) VisitNone() error             { return b.mismatch("none") }
func (b BaseVisitor) VisitSome(Deserializer) error { return b.mismatch("option") }
func (b BaseVisitor) VisitUnit() error             { return b.mismatch("unit value") }
func (b BaseVisitor) VisitBool(x bool) error       { return b.mismatch(fmt.Sprintf("boolean `%t`", x)) }
func (b BaseVisitor) VisitInt(i Int) error         { return b.mismatch("integer `" + i.String() + "`") }
func (b BaseVisitor) VisitFloat(f Float) error {
	return b.mismatch("floating point `" + f.String() + "`")
}
func (b BaseVisitor) VisitChar(r rune) error          { return b.mismatch("character " + strconv.QuoteRune(r)) }
func (b BaseVisitor) VisitString(s string) error      { return b.mismatch("string " + strconv.Quote(s)) }
func (b BaseVisitor) VisitBytes([]byte) error         { return b.mismatch("byte array") }
func (b BaseVisitor) VisitNewtype(Deserializer) error { return b.mismatch("newtype struct") }
func (b BaseVisitor) VisitSeq(SeqAccess) error        { return b.mismatch("sequence") }
func (b BaseVisitor) VisitMap(MapAccess) error        { return b.mismatch("map") }
func (b BaseVisitor) VisitEnum(EnumAccess) error      { return b.mismatch("enum") }

// ignoredVisitor accepts anything without looking at it.
type ignoredVisitor struct{}

func (ignoredVisitor) Expecting() string               { return "anything" }
func (ignoredVisitor) VisitNone() error                { return nil }
func (ignoredVisitor) VisitSome(Deserializer) error    { return nil }
func (ignoredVisitor) VisitUnit() error                { return nil }
func (ignoredVisitor) VisitBool(bool) error            { return nil }
func (ignoredVisitor) VisitInt(Int) error              { return nil }
func (ignoredVisitor) VisitFloat(Float) error          { return nil }
func (ignoredVisitor) VisitChar(rune) error            { return nil }
func (ignoredVisitor) VisitString(string) error        { return nil }
func (ignoredVisitor) VisitBytes([]byte) error         { return nil }
func (ignoredVisitor) VisitNewtype(Deserializer) error { return nil }
func (ignoredVisitor) VisitSeq(SeqAccess) error        { return nil }
func (ignoredVisitor) VisitMap(MapAccess) error        { return nil }
func (ignoredVisitor) VisitEnum(EnumAccess) error      { return nil }

func ignore(d Deserializer) error { return d.DeserializeIgnored(ignoredVisitor{}) }
