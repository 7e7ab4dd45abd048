package dynconv

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

//go:generate go tool stringer -type=VariantKind -trimprefix=Variant -output=variantkind_string.go

// VariantKind is the payload shape of a union variant.
type VariantKind int

const (
	VariantUnit VariantKind = iota
	VariantNewtype
	VariantTuple
	VariantStruct
)

// Variant describes one alternative of a union. The prototype's type is
// instantiated when the variant is selected; a pointer prototype yields a
// pointer value.
type Variant struct {
	Name string
	Kind VariantKind
	typ  reflect.Type
}

// UnitVariant declares a variant without payload.
func UnitVariant(name string, proto any) Variant {
	return Variant{Name: name, Kind: VariantUnit, typ: reflect.TypeOf(proto)}
}

// NewtypeVariant declares a variant whose payload decodes as proto's type.
func NewtypeVariant(name string, proto any) Variant {
	return Variant{Name: name, Kind: VariantNewtype, typ: reflect.TypeOf(proto)}
}

// TupleVariant declares a variant whose payload is a positional sequence
// filling proto's fields in order.
func TupleVariant(name string, proto any) Variant {
	return Variant{Name: name, Kind: VariantTuple, typ: reflect.TypeOf(proto)}
}

// StructVariant declares a variant whose payload is a record.
func StructVariant(name string, proto any) Variant {
	return Variant{Name: name, Kind: VariantStruct, typ: reflect.TypeOf(proto)}
}

// VariantOf infers the kind from proto: non-structs are newtypes, empty
// structs are units, tuple-marked structs are tuples and other structs are
// records.
func VariantOf(name string, proto any) Variant {
	v := Variant{Name: name, typ: reflect.TypeOf(proto)}
	if v.typ == nil {
		return v
	}
	base := v.typ
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	switch {
	case base.Kind() != reflect.Struct:
		v.Kind = VariantNewtype
	case base.NumField() == 0:
		v.Kind = VariantUnit
	case structPlanFor(base, DefaultTagName).kind == tupleStruct:
		v.Kind = VariantTuple
	default:
		v.Kind = VariantStruct
	}
	return v
}

func (v Variant) base() reflect.Type {
	if v.typ.Kind() == reflect.Pointer {
		return v.typ.Elem()
	}
	return v.typ
}

// newValue returns the value to store in the union and the settable value
// the payload decodes into.
func (v Variant) newValue() (holder, target reflect.Value) {
	if v.typ.Kind() == reflect.Pointer {
		p := reflect.New(v.typ.Elem())
		return p, p.Elem()
	}
	x := reflect.New(v.typ).Elem()
	return x, x
}

type unionPlan struct {
	name     string
	variants []Variant
	names    []string
	untagged bool
}

var unions = struct {
	sync.RWMutex
	m map[reflect.Type]*unionPlan
}{m: map[reflect.Type]*unionPlan{}}

// RegisterUnion declares the interface type T as a tagged union. Inputs are
// either a single-entry mapping {variant: payload} or a bare variant name for
// unit variants.
func RegisterUnion[T any](name string, variants ...Variant) error {
	return registerUnion[T](name, false, variants)
}

// RegisterUntaggedUnion declares T as an untagged union: each variant is tried
// in declaration order against the same value and the first success wins.
func RegisterUntaggedUnion[T any](name string, variants ...Variant) error {
	return registerUnion[T](name, true, variants)
}

// MustRegisterUnion is like RegisterUnion but panics on error.
func MustRegisterUnion[T any](name string, variants ...Variant) {
	if err := RegisterUnion[T](name, variants...); err != nil {
		panic(err)
	}
}

// MustRegisterUntaggedUnion is like RegisterUntaggedUnion but panics on error.
func MustRegisterUntaggedUnion[T any](name string, variants ...Variant) {
	if err := RegisterUntaggedUnion[T](name, variants...); err != nil {
		panic(err)
	}
}

func registerUnion[T any](name string, untagged bool, variants []Variant) error {
	iface := reflect.TypeOf((*T)(nil)).Elem()
	if iface.Kind() != reflect.Interface {
		return Errorf("dynconv: union %s must be an interface type, got %s", name, iface)
	}
	plan := &unionPlan{name: name, untagged: untagged}
	for _, v := range variants {
		if v.typ == nil {
			return Errorf("dynconv: union %s: variant %s has no prototype", name, v.Name)
		}
		if !v.typ.Implements(iface) {
			return Errorf("dynconv: union %s: %s does not implement %s", name, v.typ, iface)
		}
		if slices.Contains(plan.names, v.Name) {
			return Errorf("dynconv: union %s: duplicate variant %s", name, v.Name)
		}
		if (v.Kind == VariantTuple || v.Kind == VariantStruct) && v.base().Kind() != reflect.Struct {
			return Errorf("dynconv: union %s: %s variant %s needs a struct prototype", name, v.Kind, v.Name)
		}
		plan.variants = append(plan.variants, v)
		plan.names = append(plan.names, v.Name)
	}
	unions.Lock()
	unions.m[iface] = plan
	unions.Unlock()
	return nil
}

func lookupUnion(t reflect.Type) (*unionPlan, bool) {
	if t.Kind() != reflect.Interface {
		return nil, false
	}
	unions.RLock()
	p, ok := unions.m[t]
	unions.RUnlock()
	return p, ok
}

func (p *unionPlan) decode(d Deserializer, rv reflect.Value) error {
	if p.untagged {
		return p.decodeUntagged(d, rv)
	}
	return d.DeserializeEnum(p.name, p.names, &unionVisitor{BaseVisitor{"union " + p.name}, p, rv, optionsOf(d)})
}

// decodePayload decodes the payload of variant v from d in the shape v
// declares.
func decodePayload(d Deserializer, v Variant, target reflect.Value, opts *Options) error {
	switch v.Kind {
	case VariantUnit:
		return d.DeserializeUnit(ignoredVisitor{})
	case VariantNewtype:
		return decodeValue(d, target)
	}
	plan := structPlanFor(target.Type(), opts.TagName)
	sv := &structVisitor{BaseVisitor{"struct variant " + v.Name}, plan, target, opts}
	if v.Kind == VariantTuple {
		sv.Expect = "tuple variant " + v.Name
		return d.DeserializeTuple(len(plan.fields), sv)
	}
	return d.DeserializeStruct(v.Name, plan.names, sv)
}

func (p *unionPlan) decodeUntagged(d Deserializer, rv reflect.Value) error {
	opts := optionsOf(d)
	for _, v := range p.variants {
		holder, target := v.newValue()
		err := decodePayload(d, v, target, opts)
		if err == nil {
			rv.Set(holder)
			return nil
		}
		opts.Logger.Debug("dynconv: untagged variant did not match", "union", p.name, "variant", v.Name, "error", err)
	}
	return errInvalidUnion(fmt.Sprintf("data did not match any variant of untagged union %s", p.name))
}

type unionVisitor struct {
	BaseVisitor
	plan *unionPlan
	rv   reflect.Value
	opts *Options
}

func (u *unionVisitor) VisitEnum(e EnumAccess) error {
	tag, va, err := e.Variant()
	if err != nil {
		return err
	}
	i := slices.Index(u.plan.names, tag)
	if i < 0 {
		return UnknownVariant(tag, u.plan.names)
	}
	v := u.plan.variants[i]
	holder, target := v.newValue()
	switch v.Kind {
	case VariantUnit:
		err = va.UnitVariant()
	case VariantNewtype:
		err = va.NewtypeVariant(func(d Deserializer) error { return decodeValue(d, target) })
	case VariantTuple:
		plan := structPlanFor(target.Type(), u.opts.TagName)
		err = va.TupleVariant(len(plan.fields), &structVisitor{BaseVisitor{"tuple variant " + v.Name}, plan, target, u.opts})
	case VariantStruct:
		plan := structPlanFor(target.Type(), u.opts.TagName)
		err = va.StructVariant(plan.names, &structVisitor{BaseVisitor{"struct variant " + v.Name}, plan, target, u.opts})
	}
	if err != nil {
		return err
	}
	u.rv.Set(holder)
	return nil
}
