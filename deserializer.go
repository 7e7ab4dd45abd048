package dynconv

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/reoring/dynconv/dynobj"
	"github.com/reoring/dynconv/internal/engine"
)

// deserializer borrows one dynamic value. Children are created per element
// and per entry; the parent chain yields the JSON Pointer of the value.
type deserializer struct {
	input   any
	opts    *Options
	parent  *deserializer
	segment string
	depth   int
}

// NewDeserializer returns an engine over obj for custom schema drivers.
func NewDeserializer(obj any, opts ...Options) Deserializer {
	return &deserializer{input: obj, opts: resolveOptions(opts)}
}

func (d *deserializer) child(obj any, segment string) (*deserializer, error) {
	c := &deserializer{input: obj, opts: d.opts, parent: d, segment: segment, depth: d.depth + 1}
	if limit := d.opts.MaxDepth; limit > 0 && c.depth > limit {
		d.opts.Logger.Debug("dynconv: depth limit reached", "path", c.path(), "max", limit)
		return nil, c.fail(errDepthExceeded(limit))
	}
	return c, nil
}

func (d *deserializer) path() string {
	var segs []string
	for p := d; p.parent != nil; p = p.parent {
		segs = append(segs, p.segment)
	}
	if len(segs) == 0 {
		return "/"
	}
	var out string
	for i := len(segs) - 1; i >= 0; i-- {
		out = engine.JoinPointer(out, segs[i])
	}
	return out
}

func (d *deserializer) fail(e *Error) error {
	if e.Path == "" {
		e.Path = d.path()
	}
	return e
}

// done stamps the current path on an error bubbling out of a visitor.
func (d *deserializer) done(err error) error {
	if err == nil {
		return nil
	}
	return annotate(err, d.path())
}

func (d *deserializer) DeserializeAny(v Visitor) error {
	r, ok := matchRule(d.input)
	if !ok {
		return d.fail(errUnsupportedType(typeNameOf(d.input)))
	}
	return r.decode(d, v)
}

// deserializeNarrowed hands an integer of unconstrained width to v at the
// smallest width that holds it, unsigned ladder first.
func (d *deserializer) deserializeNarrowed(v Visitor) error {
	if u, err := dynobj.Uint128(d.input); err == nil {
		n, _ := narrow(u, false)
		return d.done(v.VisitInt(n))
	}
	s, err := dynobj.Int128(d.input)
	if err != nil {
		return d.fail(errExtraction(err))
	}
	n, _ := narrow(s, true)
	return d.done(v.VisitInt(n))
}

// deserializeSized decodes any sequence with its own length as the expected
// length.
func (d *deserializer) deserializeSized(v Visitor) error {
	n, err := dynobj.Len(d.input)
	if err != nil {
		return d.fail(errExtraction(err))
	}
	return d.DeserializeTuple(n, v)
}

func (d *deserializer) DeserializeBool(v Visitor) error {
	b, err := dynobj.Truthy(d.input)
	if err != nil {
		return d.fail(errExtraction(err))
	}
	return d.done(v.VisitBool(b))
}

func (d *deserializer) DeserializeInt(w Width, v Visitor) error {
	return d.deserializeFixed(w, true, v)
}

func (d *deserializer) DeserializeUint(w Width, v Visitor) error {
	return d.deserializeFixed(w, false, v)
}

func (d *deserializer) deserializeFixed(w Width, signed bool, v Visitor) error {
	r, ok := rungFor(w, signed)
	if !ok {
		return d.fail(Errorf("dynconv: unsupported integer width %d", w))
	}
	name := intTypeName(w, signed)
	if !dynobj.IsInteger(d.input) {
		return d.fail(InvalidType(describe(d.input), name))
	}
	n, err := dynobj.BigInt(d.input)
	if err != nil {
		return d.fail(errExtraction(err))
	}
	if !r.contains(n) {
		return d.fail(errOverflow(n.String(), name, dynobj.ErrOverflow))
	}
	return d.done(v.VisitInt(Int{width: w, signed: signed, v: n}))
}

func (d *deserializer) DeserializeFloat(w Width, v Visitor) error {
	if w != Width32 && w != Width64 {
		return d.fail(Errorf("dynconv: unsupported float width %d", w))
	}
	if !dynobj.IsFloat(d.input) && !dynobj.IsInteger(d.input) {
		return d.fail(InvalidType(describe(d.input), fmt.Sprintf("float%d", w)))
	}
	f, err := dynobj.Float64(d.input)
	if err != nil {
		return d.fail(errExtraction(err))
	}
	if w == Width32 {
		f = float64(float32(f))
	}
	return d.done(v.VisitFloat(Float{Width: w, Value: f}))
}

func (d *deserializer) DeserializeChar(v Visitor) error {
	s, ok := dynobj.Text(d.input)
	if !ok {
		return d.fail(InvalidType(describe(d.input), "a character"))
	}
	if utf8.RuneCountInString(s) != 1 {
		return d.fail(errInvalidCharLength(s))
	}
	r, _ := utf8.DecodeRuneInString(s)
	return d.done(v.VisitChar(r))
}

func (d *deserializer) DeserializeString(v Visitor) error {
	s, ok := dynobj.Text(d.input)
	if !ok {
		return d.fail(InvalidType(describe(d.input), "a string"))
	}
	return d.done(v.VisitString(s))
}

func (d *deserializer) DeserializeBytes(v Visitor) error {
	b, ok := dynobj.Bytes(d.input)
	if !ok {
		return d.fail(InvalidType(describe(d.input), "a byte array"))
	}
	return d.done(v.VisitBytes(bytes.Clone(b)))
}

func (d *deserializer) DeserializeOption(v Visitor) error {
	if dynobj.IsNone(d.input) {
		return d.done(v.VisitNone())
	}
	return d.done(v.VisitSome(d))
}

func (d *deserializer) DeserializeUnit(v Visitor) error {
	if !dynobj.IsNone(d.input) {
		return d.fail(InvalidType(describe(d.input), "none"))
	}
	return d.done(v.VisitUnit())
}

func (d *deserializer) DeserializeUnitStruct(_ string, v Visitor) error { return d.DeserializeUnit(v) }

func (d *deserializer) DeserializeNewtype(_ string, v Visitor) error {
	return d.done(v.VisitNewtype(d))
}

func (d *deserializer) DeserializeSeq(v Visitor) error {
	acc, err := d.sequenceAccess(-1)
	if err != nil {
		return err
	}
	return d.done(v.VisitSeq(acc))
}

func (d *deserializer) DeserializeTuple(n int, v Visitor) error {
	acc, err := d.sequenceAccess(n)
	if err != nil {
		return err
	}
	return d.done(v.VisitSeq(acc))
}

func (d *deserializer) DeserializeTupleStruct(_ string, n int, v Visitor) error {
	return d.DeserializeTuple(n, v)
}

func (d *deserializer) DeserializeMap(v Visitor) error {
	acc, err := d.mappingAccess()
	if err != nil {
		return err
	}
	return d.done(v.VisitMap(acc))
}

// DeserializeStruct requires a mapping. With Options.PositionalRecords a
// sequence that is not also a mapping is offered by position instead.
func (d *deserializer) DeserializeStruct(_ string, _ []string, v Visitor) error {
	if d.opts.PositionalRecords && !isMappingLike(d.input) && isSequenceLike(d.input) {
		return d.DeserializeSeq(v)
	}
	return d.DeserializeMap(v)
}

func (d *deserializer) DeserializeIdentifier(v Visitor) error {
	s, ok := dynobj.Text(d.input)
	if !ok {
		return d.fail(errNonTextKey(describe(d.input)))
	}
	return d.done(v.VisitString(s))
}

func (d *deserializer) DeserializeIgnored(v Visitor) error { return d.done(v.VisitUnit()) }
