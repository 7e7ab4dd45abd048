package dynconv

import (
	"fmt"

	"github.com/reoring/dynconv/dynobj"
)

// DeserializeEnum accepts the two tagged forms of a union: a mapping with a
// single text key naming the variant, or a bare string naming a unit variant.
func (d *deserializer) DeserializeEnum(_ string, _ []string, v Visitor) error {
	if m, ok := dynobj.AsMapping(d.input); ok {
		if n := m.Len(); n != 1 {
			return d.fail(errInvalidUnion(fmt.Sprintf("expected a mapping with exactly one entry, got %d entries", n)))
		}
		keys, err := m.Keys()
		if err != nil {
			return d.fail(errExtraction(err))
		}
		values, err := m.Values()
		if err != nil {
			return d.fail(errExtraction(err))
		}
		k, err := keys.Item(0)
		if err != nil {
			return d.fail(errExtraction(err))
		}
		tag, ok := dynobj.Text(k)
		if !ok {
			return d.fail(errNonTextKey(describe(k)))
		}
		payload, err := values.Item(0)
		if err != nil {
			return d.fail(errExtraction(err))
		}
		c, err := d.child(payload, tag)
		if err != nil {
			return err
		}
		return d.done(v.VisitEnum(&enumAccess{tag: tag, payload: c}))
	}
	if s, ok := dynobj.Text(d.input); ok {
		return d.done(v.VisitEnum(unitOnlyAccess{tag: s}))
	}
	return d.fail(errInvalidUnion("expected a mapping or a string, got " + describe(d.input)))
}

// enumAccess carries the tag and the borrowed payload of the mapping form.
type enumAccess struct {
	tag     string
	payload *deserializer
}

func (e *enumAccess) Variant() (string, VariantAccess, error) { return e.tag, e, nil }

func (e *enumAccess) UnitVariant() error { return nil }

func (e *enumAccess) NewtypeVariant(fn func(Deserializer) error) error {
	return e.payload.done(fn(e.payload))
}

func (e *enumAccess) TupleVariant(n int, v Visitor) error { return e.payload.DeserializeTuple(n, v) }

func (e *enumAccess) StructVariant(fields []string, v Visitor) error {
	return e.payload.DeserializeStruct("", fields, v)
}

// unitOnlyAccess is the bare string form: it has no payload to offer.
type unitOnlyAccess struct{ tag string }

func (u unitOnlyAccess) Variant() (string, VariantAccess, error) { return u.tag, u, nil }

func (unitOnlyAccess) UnitVariant() error { return nil }

func (unitOnlyAccess) NewtypeVariant(func(Deserializer) error) error {
	return InvalidType("unit variant", "newtype variant")
}

func (unitOnlyAccess) TupleVariant(int, Visitor) error {
	return InvalidType("unit variant", "tuple variant")
}

func (unitOnlyAccess) StructVariant([]string, Visitor) error {
	return InvalidType("unit variant", "struct variant")
}
