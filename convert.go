package dynconv

import (
	"reflect"
)

// Deserializable is implemented by targets that drive the engine themselves.
type Deserializable interface {
	Deserialize(d Deserializer) error
}

// Char is a single Unicode code point. A field of this type requests the
// char shape rather than an integer.
type Char rune

// Convert decodes obj into target, which must be a non-nil pointer. The
// target is written only when the whole conversion succeeds.
func Convert(obj any, target any, opts ...Options) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return Errorf("dynconv: Convert target must be a non-nil pointer, got %T", target)
	}
	d := &deserializer{input: obj, opts: resolveOptions(opts)}
	tmp := reflect.New(rv.Elem().Type()).Elem()
	if err := decodeValue(d, tmp); err != nil {
		return d.done(err)
	}
	rv.Elem().Set(tmp)
	return nil
}

// ConvertTo decodes obj into a new value of type T.
func ConvertTo[T any](obj any, opts ...Options) (T, error) {
	var out T
	if err := Convert(obj, &out, opts...); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// ConvertAny decodes obj without a static target. Integers are narrowed,
// sequences become []any and mappings become *dynobj.Dict.
func ConvertAny(obj any, opts ...Options) (any, error) {
	return ConvertTo[any](obj, opts...)
}

// Decode fills target from d using the same reflection rules as Convert.
// Deserializable implementations use it for their nested values.
func Decode(d Deserializer, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return Errorf("dynconv: Decode target must be a non-nil pointer, got %T", target)
	}
	return decodeValue(d, rv.Elem())
}
