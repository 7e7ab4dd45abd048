package dynconv

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/reoring/dynconv/dynobj"
)

var (
	deserializableType = reflect.TypeOf((*Deserializable)(nil)).Elem()
	charType           = reflect.TypeOf(Char(0))
	bigIntType         = reflect.TypeOf(big.Int{})
	bigIntPtrType      = reflect.TypeOf((*big.Int)(nil))
	uint128Type        = reflect.TypeOf(Uint128{})
	dictPtrType        = reflect.TypeOf((*dynobj.Dict)(nil))
)

// decodeValue issues the schema request that matches rv's type and stores
// the result into rv, which must be settable.
func decodeValue(d Deserializer, rv reflect.Value) error {
	t := rv.Type()
	if reflect.PointerTo(t).Implements(deserializableType) {
		return rv.Addr().Interface().(Deserializable).Deserialize(d)
	}
	if plan, ok := lookupUnion(t); ok {
		return plan.decode(d, rv)
	}
	switch t {
	case charType:
		return d.DeserializeChar(&charVisitor{BaseVisitor{"a character"}, rv})
	case bigIntType:
		return d.DeserializeInt(Width128, &bigIntVisitor{BaseVisitor{"int128"}, rv})
	case uint128Type:
		return d.DeserializeUint(Width128, &uint128Visitor{BaseVisitor{"uint128"}, rv})
	case bigIntPtrType:
		return d.DeserializeOption(&optionVisitor{BaseVisitor{"int128"}, rv})
	case dictPtrType:
		return d.DeserializeMap(&dictVisitor{BaseVisitor{"a mapping"}, rv})
	}
	opts := optionsOf(d)
	switch t.Kind() {
	case reflect.Bool:
		return d.DeserializeBool(&boolVisitor{BaseVisitor{"a boolean"}, rv})
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return d.DeserializeInt(widthOf(t), &intVisitor{BaseVisitor{t.String()}, rv})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return d.DeserializeUint(widthOf(t), &uintVisitor{BaseVisitor{t.String()}, rv})
	case reflect.Float32:
		return d.DeserializeFloat(Width32, &floatVisitor{BaseVisitor{"float32"}, rv})
	case reflect.Float64:
		return d.DeserializeFloat(Width64, &floatVisitor{BaseVisitor{"float64"}, rv})
	case reflect.String:
		return d.DeserializeString(&stringVisitor{BaseVisitor{"a string"}, rv})
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			bv := &bytesVisitor{BaseVisitor{"a byte array"}, rv}
			if holdsSequence(d) {
				return d.DeserializeSeq(bv)
			}
			return d.DeserializeBytes(bv)
		}
		return d.DeserializeSeq(&sliceVisitor{BaseVisitor{"a sequence"}, rv})
	case reflect.Array:
		return d.DeserializeTuple(t.Len(), &arrayVisitor{BaseVisitor{fmt.Sprintf("an array of length %d", t.Len())}, rv})
	case reflect.Map:
		return d.DeserializeMap(&mapVisitor{BaseVisitor{"a mapping"}, rv})
	case reflect.Pointer:
		return d.DeserializeOption(&optionVisitor{BaseVisitor{"option"}, rv})
	case reflect.Struct:
		plan := structPlanFor(t, opts.TagName)
		sv := &structVisitor{BaseVisitor{"struct " + t.Name()}, plan, rv, opts}
		switch plan.kind {
		case unitStruct:
			return d.DeserializeUnitStruct(t.Name(), sv)
		case tupleStruct:
			return d.DeserializeTupleStruct(t.Name(), len(plan.fields), sv)
		}
		return d.DeserializeStruct(t.Name(), plan.names, sv)
	case reflect.Interface:
		if t.NumMethod() == 0 {
			var sink valueVisitor
			if err := d.DeserializeAny(&sink); err != nil {
				return err
			}
			if sink.out != nil {
				rv.Set(reflect.ValueOf(sink.out))
			} else {
				rv.SetZero()
			}
			return nil
		}
	}
	return Errorf("dynconv: unsupported target type %s", t)
}

// holdsSequence reports whether d borrows a non-bytes sequence, so byte
// slices can also be filled from lists of small integers.
func holdsSequence(d Deserializer) bool {
	dd, ok := d.(*deserializer)
	return ok && !dynobj.IsBytes(dd.input) && isSequenceLike(dd.input)
}

func widthOf(t reflect.Type) Width {
	return Width(t.Bits())
}

type boolVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *boolVisitor) VisitBool(b bool) error {
	v.rv.SetBool(b)
	return nil
}

type intVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *intVisitor) VisitInt(i Int) error {
	x, ok := i.Int64()
	if !ok || v.rv.OverflowInt(x) {
		return InvalidValue("integer `"+i.String()+"`", v.rv.Type().String())
	}
	v.rv.SetInt(x)
	return nil
}

type uintVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *uintVisitor) VisitInt(i Int) error {
	x, ok := i.Uint64()
	if !ok || v.rv.OverflowUint(x) {
		return InvalidValue("integer `"+i.String()+"`", v.rv.Type().String())
	}
	v.rv.SetUint(x)
	return nil
}

type floatVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *floatVisitor) VisitFloat(f Float) error {
	v.rv.SetFloat(f.Value)
	return nil
}

func (v *floatVisitor) VisitInt(i Int) error {
	f, _ := new(big.Float).SetInt(i.v).Float64()
	v.rv.SetFloat(f)
	return nil
}

type bigIntVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *bigIntVisitor) VisitInt(i Int) error {
	v.rv.Set(reflect.ValueOf(i.Big()).Elem())
	return nil
}

type uint128Visitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *uint128Visitor) VisitInt(i Int) error {
	if i.v.Sign() < 0 || i.v.BitLen() > 128 {
		return InvalidValue("integer `"+i.String()+"`", v.Expecting())
	}
	v.rv.Set(reflect.ValueOf(uint128Of(i.v)))
	return nil
}

type charVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *charVisitor) VisitChar(r rune) error {
	v.rv.SetInt(int64(r))
	return nil
}

func (v *charVisitor) VisitString(s string) error {
	if utf8.RuneCountInString(s) != 1 {
		return InvalidValue("string "+strconv.Quote(s), v.Expecting())
	}
	r, _ := utf8.DecodeRuneInString(s)
	return v.VisitChar(r)
}

type stringVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *stringVisitor) VisitString(s string) error {
	v.rv.SetString(s)
	return nil
}

func (v *stringVisitor) VisitChar(r rune) error { return v.VisitString(string(r)) }

func (v *stringVisitor) VisitBytes(b []byte) error {
	if !utf8.Valid(b) {
		return InvalidValue("byte array", v.Expecting())
	}
	return v.VisitString(string(b))
}

type bytesVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *bytesVisitor) VisitBytes(b []byte) error {
	out := reflect.MakeSlice(v.rv.Type(), len(b), len(b))
	reflect.Copy(out, reflect.ValueOf(b))
	v.rv.Set(out)
	return nil
}

// VisitSeq accepts a sequence of small integers.
func (v *bytesVisitor) VisitSeq(seq SeqAccess) error {
	out := make([]byte, 0, max(seq.SizeHint(), 0))
	for {
		var b uint8
		ok, err := seq.NextElement(func(d Deserializer) error { return Decode(d, &b) })
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		out = append(out, b)
	}
	return v.VisitBytes(out)
}

type optionVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *optionVisitor) VisitNone() error {
	v.rv.SetZero()
	return nil
}

func (v *optionVisitor) VisitUnit() error { return v.VisitNone() }

func (v *optionVisitor) VisitSome(d Deserializer) error {
	p := reflect.New(v.rv.Type().Elem())
	if err := decodeValue(d, p.Elem()); err != nil {
		return err
	}
	v.rv.Set(p)
	return nil
}

type sliceVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *sliceVisitor) VisitSeq(seq SeqAccess) error {
	t := v.rv.Type()
	out := reflect.MakeSlice(t, 0, max(seq.SizeHint(), 0))
	for {
		elem := reflect.New(t.Elem()).Elem()
		ok, err := seq.NextElement(func(d Deserializer) error { return decodeValue(d, elem) })
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		out = reflect.Append(out, elem)
	}
	v.rv.Set(out)
	return nil
}

type arrayVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *arrayVisitor) VisitSeq(seq SeqAccess) error {
	out := reflect.New(v.rv.Type()).Elem()
	n := out.Len()
	for i := 0; i < n; i++ {
		elem := out.Index(i)
		ok, err := seq.NextElement(func(d Deserializer) error { return decodeValue(d, elem) })
		if err != nil {
			return err
		}
		if !ok {
			return InvalidLength(i, v.Expecting())
		}
	}
	if ok, err := seq.NextElement(ignore); err != nil {
		return err
	} else if ok {
		return InvalidLength(n+1, v.Expecting())
	}
	v.rv.Set(out)
	return nil
}

type mapVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *mapVisitor) VisitMap(m MapAccess) error {
	t := v.rv.Type()
	out := reflect.MakeMapWithSize(t, max(m.SizeHint(), 0))
	for {
		key := reflect.New(t.Key()).Elem()
		ok, err := m.NextKey(func(d Deserializer) error { return decodeValue(d, key) })
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if key.Kind() == reflect.Interface && !key.IsNil() && !key.Elem().Type().Comparable() {
			return InvalidType("unhashable key of type "+key.Elem().Type().String(), "a hashable map key")
		}
		val := reflect.New(t.Elem()).Elem()
		if err := m.NextValue(func(d Deserializer) error { return decodeValue(d, val) }); err != nil {
			return err
		}
		out.SetMapIndex(key, val)
	}
	v.rv.Set(out)
	return nil
}

type dictVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (v *dictVisitor) VisitMap(m MapAccess) error {
	var sink valueVisitor
	if err := sink.VisitMap(m); err != nil {
		return err
	}
	v.rv.Set(reflect.ValueOf(sink.out))
	return nil
}

// structVisitor fills a struct from a mapping (by key) or a sequence (by
// position). The struct is assembled in a scratch value and assigned once.
type structVisitor struct {
	BaseVisitor
	plan *structPlan
	rv   reflect.Value
	opts *Options
}

func (v *structVisitor) VisitUnit() error {
	v.rv.SetZero()
	return nil
}

func (v *structVisitor) VisitMap(m MapAccess) error {
	p := v.plan
	tmp := reflect.New(p.typ).Elem()
	seen := make([]bool, len(p.fields))
	for {
		var key string
		ok, err := m.NextKey(func(d Deserializer) error { return d.DeserializeIdentifier(&identVisitor{out: &key}) })
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		i, known := p.byName[key]
		if !known {
			if v.opts.DisallowUnknownFields {
				return UnknownField(key, p.names)
			}
			if err := m.NextValue(ignore); err != nil {
				return err
			}
			continue
		}
		if seen[i] {
			return DuplicateField(key)
		}
		seen[i] = true
		field := tmp.FieldByIndex(p.fields[i].index)
		if err := m.NextValue(func(d Deserializer) error { return decodeValue(d, field) }); err != nil {
			return err
		}
	}
	for i, f := range p.fields {
		if !seen[i] && !f.optional {
			return MissingField(f.name)
		}
	}
	v.rv.Set(tmp)
	return nil
}

func (v *structVisitor) VisitSeq(seq SeqAccess) error {
	p := v.plan
	tmp := reflect.New(p.typ).Elem()
	for i, f := range p.fields {
		field := tmp.FieldByIndex(f.index)
		ok, err := seq.NextElement(func(d Deserializer) error { return decodeValue(d, field) })
		if err != nil {
			return err
		}
		if !ok {
			if f.optional {
				continue
			}
			return InvalidLength(i, fmt.Sprintf("%s with %d elements", v.Expecting(), len(p.fields)))
		}
	}
	v.rv.Set(tmp)
	return nil
}

type identVisitor struct {
	BaseVisitor
	out *string
}

func (v *identVisitor) VisitString(s string) error {
	*v.out = s
	return nil
}
