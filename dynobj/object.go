package dynobj

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
)

var (
	// ErrUnsupported is returned when a value does not support the requested
	// operation (for example Float64 on a string).
	ErrUnsupported = errors.New("dynobj: unsupported operation")
	// ErrOverflow is returned when an integer does not fit the requested width.
	ErrOverflow = errors.New("dynobj: integer out of range")
	// ErrIndex is returned by Item when the position is out of range.
	ErrIndex = errors.New("dynobj: index out of range")
)

// Sequence is a value that admits ordered positional access.
type Sequence interface {
	Len() int
	Item(i int) (any, error)
}

// Mapping exposes a mapping as two positional streams of keys and values.
//
// Implementations must yield Keys and Values in the same, correlated order:
// the i-th value belongs to the i-th key. This cannot be verified by callers.
type Mapping interface {
	Len() int
	Keys() (Sequence, error)
	Values() (Sequence, error)
}

// Integer is implemented by custom integer-like values.
type Integer interface {
	BigInt() (*big.Int, error)
}

// Truther overrides the default truthiness of a value.
type Truther interface {
	Truth() (bool, error)
}

// TypeNamer reports a runtime type name used in diagnostics.
type TypeNamer interface {
	TypeName() (string, error)
}

var (
	bigIntType     = reflect.TypeOf((*big.Int)(nil))
	jsonNumberType = reflect.TypeOf(json.Number(""))
)

// unwrap dereferences non-nil pointers that do not carry their own dynamic
// behaviour. *big.Int and the capability interfaces stay as they are.
func unwrap(v any) any {
	for {
		switch v.(type) {
		case nil, *big.Int, *Dict, *Set, Sequence, Mapping, Integer, Truther:
			return v
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			return v
		}
		v = rv.Elem().Interface()
	}
}

// IsNone reports whether v is the none sentinel: nil or a typed nil pointer.
func IsNone(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// IsBool reports whether v is a boolean.
func IsBool(v any) bool {
	v = unwrap(v)
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Bool
}

// IsInteger reports whether v is an integer.
func IsInteger(v any) bool {
	v = unwrap(v)
	switch x := v.(type) {
	case nil:
		return false
	case *big.Int:
		return x != nil
	case json.Number:
		_, ok := new(big.Int).SetString(string(x), 10)
		return ok
	case Integer:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// IsFloat reports whether v is a floating point number.
func IsFloat(v any) bool {
	v = unwrap(v)
	if n, ok := v.(json.Number); ok {
		if IsInteger(n) {
			return false
		}
		_, err := strconv.ParseFloat(string(n), 64)
		return err == nil
	}
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Float32 || k == reflect.Float64
}

// IsText reports whether v is text. json.Number is numeric, not text.
func IsText(v any) bool {
	_, ok := Text(v)
	return ok
}

// Text returns the text held by v.
func Text(v any) (string, bool) {
	v = unwrap(v)
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String || rv.Type() == jsonNumberType {
		return "", false
	}
	return rv.String(), true
}

// IsBytes reports whether v is a byte buffer.
func IsBytes(v any) bool {
	_, ok := Bytes(v)
	return ok
}

// Bytes returns the byte buffer held by v without copying it.
func Bytes(v any) ([]byte, bool) {
	v = unwrap(v)
	switch b := v.(type) {
	case []byte:
		return b, true
	case ByteArray:
		return b, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return rv.Bytes(), true
	}
	return nil, false
}

// IsList reports whether v is one of the list or tuple types: []any or Tuple.
func IsList(v any) bool {
	switch unwrap(v).(type) {
	case []any, Tuple:
		return true
	}
	return false
}

// IsDict reports whether v is a *Dict.
func IsDict(v any) bool {
	d, ok := unwrap(v).(*Dict)
	return ok && d != nil
}

// IsSet reports whether v is a set or frozen set.
func IsSet(v any) bool {
	s, ok := unwrap(v).(*Set)
	return ok && s != nil
}

// AsSequence returns positional access to v. Text is not a sequence.
func AsSequence(v any) (Sequence, bool) {
	v = unwrap(v)
	switch x := v.(type) {
	case nil:
		return nil, false
	case *Dict:
		return nil, false
	case *Set:
		return x, x != nil
	case Sequence:
		return x, true
	case []any:
		return listSeq(x), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return reflectSeq{rv: rv}, true
	}
	return nil, false
}

// AsMapping returns key and value streams for v.
func AsMapping(v any) (Mapping, bool) {
	v = unwrap(v)
	switch x := v.(type) {
	case nil:
		return nil, false
	case *Dict:
		return x, x != nil
	case Mapping:
		return x, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map {
		return snapshotMap(rv), true
	}
	return nil, false
}

// Len returns the length of a sized value.
func Len(v any) (int, error) {
	if s, ok := AsSequence(v); ok {
		return s.Len(), nil
	}
	if m, ok := AsMapping(v); ok {
		return m.Len(), nil
	}
	if s, ok := Text(v); ok {
		return len([]rune(s)), nil
	}
	return 0, fmt.Errorf("%w: object of type %s has no length", ErrUnsupported, typeNameOrUnknown(v))
}

// BigInt extracts v as an arbitrary precision integer.
func BigInt(v any) (*big.Int, error) {
	v = unwrap(v)
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			break
		}
		return new(big.Int).Set(x), nil
	case json.Number:
		if n, ok := new(big.Int).SetString(string(x), 10); ok {
			return n, nil
		}
	case Integer:
		n, err := x.BigInt()
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	if v != nil {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return big.NewInt(rv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return new(big.Int).SetUint64(rv.Uint()), nil
		}
	}
	return nil, fmt.Errorf("%w: '%s' object cannot be interpreted as an integer", ErrUnsupported, typeNameOrUnknown(v))
}

var (
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Uint128 extracts v as an unsigned 128-bit integer.
func Uint128(v any) (*big.Int, error) {
	n, err := BigInt(v)
	if err != nil {
		return nil, err
	}
	if n.Sign() < 0 || n.Cmp(maxUint128) > 0 {
		return nil, fmt.Errorf("%w: %s does not fit in 128 unsigned bits", ErrOverflow, n)
	}
	return n, nil
}

// Int128 extracts v as a signed 128-bit integer.
func Int128(v any) (*big.Int, error) {
	n, err := BigInt(v)
	if err != nil {
		return nil, err
	}
	if n.Cmp(minInt128) < 0 || n.Cmp(maxInt128) > 0 {
		return nil, fmt.Errorf("%w: %s does not fit in 128 signed bits", ErrOverflow, n)
	}
	return n, nil
}

// Float64 extracts v as a float. Integers are converted.
func Float64(v any) (float64, error) {
	v = unwrap(v)
	switch x := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		return f, nil
	case *big.Int, Integer:
		n, err := BigInt(x)
		if err != nil {
			return 0, err
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, nil
	case nil:
		return 0, fmt.Errorf("%w: must be real number, not None", ErrUnsupported)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	}
	return 0, fmt.Errorf("%w: must be real number, not %s", ErrUnsupported, typeNameOrUnknown(v))
}

// Truthy applies the truthiness protocol: none, false, zero numbers and empty
// collections are false; everything else is true unless it implements Truther.
func Truthy(v any) (bool, error) {
	if IsNone(v) {
		return false, nil
	}
	v = unwrap(v)
	if t, ok := v.(Truther); ok {
		return t.Truth()
	}
	if IsBool(v) {
		return reflect.ValueOf(v).Bool(), nil
	}
	if IsInteger(v) {
		n, err := BigInt(v)
		if err != nil {
			return false, err
		}
		return n.Sign() != 0, nil
	}
	if IsFloat(v) {
		f, err := Float64(v)
		if err != nil {
			return false, err
		}
		return f != 0, nil
	}
	if s, ok := Text(v); ok {
		return s != "", nil
	}
	if b, ok := Bytes(v); ok {
		return len(b) != 0, nil
	}
	if s, ok := AsSequence(v); ok {
		return s.Len() != 0, nil
	}
	if m, ok := AsMapping(v); ok {
		return m.Len() != 0, nil
	}
	return true, nil
}

// TypeName returns the runtime type name of v for diagnostics.
func TypeName(v any) (string, error) {
	if n, ok := v.(TypeNamer); ok {
		return n.TypeName()
	}
	if v == nil {
		return "None", nil
	}
	t := reflect.TypeOf(v)
	if t == bigIntType {
		return "int", nil
	}
	return t.String(), nil
}

func typeNameOrUnknown(v any) string {
	n, err := TypeName(v)
	if err != nil || n == "" {
		return "unknown"
	}
	return n
}
