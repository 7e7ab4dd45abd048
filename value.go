package dynconv

import "github.com/reoring/dynconv/dynobj"

// valueVisitor is the generic sink behind ConvertAny and `any` targets.
type valueVisitor struct {
	out any
}

func (*valueVisitor) Expecting() string { return "any value" }

func (v *valueVisitor) VisitNone() error {
	v.out = nil
	return nil
}

func (v *valueVisitor) VisitSome(d Deserializer) error { return d.DeserializeAny(v) }

func (v *valueVisitor) VisitUnit() error { return v.VisitNone() }

func (v *valueVisitor) VisitBool(b bool) error {
	v.out = b
	return nil
}

func (v *valueVisitor) VisitInt(i Int) error {
	v.out = i.Interface()
	return nil
}

func (v *valueVisitor) VisitFloat(f Float) error {
	v.out = f.Interface()
	return nil
}

func (v *valueVisitor) VisitChar(r rune) error {
	v.out = string(r)
	return nil
}

func (v *valueVisitor) VisitString(s string) error {
	v.out = s
	return nil
}

func (v *valueVisitor) VisitBytes(b []byte) error {
	v.out = b
	return nil
}

func (v *valueVisitor) VisitNewtype(d Deserializer) error { return d.DeserializeAny(v) }

func (v *valueVisitor) VisitSeq(seq SeqAccess) error {
	items := make([]any, 0, max(seq.SizeHint(), 0))
	for {
		var elem valueVisitor
		ok, err := seq.NextElement(func(d Deserializer) error { return d.DeserializeAny(&elem) })
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		items = append(items, elem.out)
	}
	v.out = items
	return nil
}

func (v *valueVisitor) VisitMap(m MapAccess) error {
	dict := dynobj.NewDict()
	for {
		var key, val valueVisitor
		ok, err := m.NextKey(func(d Deserializer) error { return d.DeserializeAny(&key) })
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := m.NextValue(func(d Deserializer) error { return d.DeserializeAny(&val) }); err != nil {
			return err
		}
		dict.Set(key.out, val.out)
	}
	v.out = dict
	return nil
}

// VisitEnum keeps a tagged value as a single-entry mapping.
func (v *valueVisitor) VisitEnum(e EnumAccess) error {
	tag, va, err := e.Variant()
	if err != nil {
		return err
	}
	var payload valueVisitor
	if err := va.NewtypeVariant(func(d Deserializer) error { return d.DeserializeAny(&payload) }); err != nil {
		if HasCode(err, CodeInvalidType) {
			v.out = tag
			return va.UnitVariant()
		}
		return err
	}
	v.out = dynobj.DictOf(tag, payload.out)
	return nil
}
