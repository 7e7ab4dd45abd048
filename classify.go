package dynconv

import (
	"fmt"
	"strconv"

	"github.com/reoring/dynconv/dynobj"
)

// classifyRule binds a predicate to the category it assigns and the engine
// path that handles values of that shape.
type classifyRule struct {
	category Category
	match    func(obj any) bool
	decode   func(d *deserializer, v Visitor) error
}

// classifyRules is evaluated first-match. Booleans must precede integers and
// concrete lists must precede the generic sequence fallback.
var classifyRules []classifyRule

func init() {
	classifyRules = []classifyRule{
		{CategoryNone, dynobj.IsNone, func(d *deserializer, v Visitor) error { return d.DeserializeUnit(v) }},
		{CategoryBool, dynobj.IsBool, func(d *deserializer, v Visitor) error { return d.DeserializeBool(v) }},
		{CategoryInt, dynobj.IsInteger, (*deserializer).deserializeNarrowed},
		{CategorySequence, dynobj.IsList, (*deserializer).deserializeSized},
		{CategoryMapping, dynobj.IsDict, func(d *deserializer, v Visitor) error { return d.DeserializeMap(v) }},
		{CategoryString, dynobj.IsText, func(d *deserializer, v Visitor) error { return d.DeserializeString(v) }},
		{CategoryBytes, dynobj.IsBytes, func(d *deserializer, v Visitor) error { return d.DeserializeBytes(v) }},
		{CategoryFloat, dynobj.IsFloat, func(d *deserializer, v Visitor) error { return d.DeserializeFloat(Width64, v) }},
		{CategorySet, dynobj.IsSet, (*deserializer).deserializeSized},
		{CategorySequence, isSequenceLike, (*deserializer).deserializeSized},
		{CategoryMapping, isMappingLike, func(d *deserializer, v Visitor) error { return d.DeserializeMap(v) }},
	}
}

func isSequenceLike(obj any) bool {
	_, ok := dynobj.AsSequence(obj)
	return ok
}

func isMappingLike(obj any) bool {
	_, ok := dynobj.AsMapping(obj)
	return ok
}

// Classify reports the category the engine assigns to obj when the target
// does not constrain the shape.
func Classify(obj any) (Category, error) {
	if r, ok := matchRule(obj); ok {
		return r.category, nil
	}
	return CategoryUnknown, errUnsupportedType(typeNameOf(obj))
}

func matchRule(obj any) (classifyRule, bool) {
	for _, r := range classifyRules {
		if r.match(obj) {
			return r, true
		}
	}
	return classifyRule{}, false
}

func typeNameOf(obj any) string {
	name, err := dynobj.TypeName(obj)
	if err != nil || name == "" {
		return "unknown"
	}
	return name
}

// describe renders obj for the "got" half of a type mismatch.
func describe(obj any) string {
	switch {
	case dynobj.IsNone(obj):
		return "none"
	case dynobj.IsBool(obj):
		b, _ := dynobj.Truthy(obj)
		return fmt.Sprintf("boolean `%t`", b)
	case dynobj.IsInteger(obj):
		if n, err := dynobj.BigInt(obj); err == nil {
			return "integer `" + n.String() + "`"
		}
		return "integer"
	case dynobj.IsFloat(obj):
		if f, err := dynobj.Float64(obj); err == nil {
			return "floating point `" + strconv.FormatFloat(f, 'g', -1, 64) + "`"
		}
		return "floating point"
	}
	if s, ok := dynobj.Text(obj); ok {
		return "string " + strconv.Quote(s)
	}
	switch {
	case dynobj.IsBytes(obj):
		return "byte array"
	case dynobj.IsSet(obj):
		return "set"
	case isSequenceLike(obj):
		return "sequence"
	case isMappingLike(obj):
		return "map"
	}
	return typeNameOf(obj)
}
