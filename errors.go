package dynconv

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/dynconv/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeUnsupportedType   = "unsupported_type"
	CodeInvalidType       = "invalid_type"
	CodeIncorrectLength   = "incorrect_length"
	CodeInvalidCharLength = "invalid_char_length"
	CodeInvalidUnion      = "invalid_union"
	CodeNonTextKey        = "non_text_key"
	CodeExtraction        = "extraction_failed"
	CodeOverflow          = "overflow"
	CodeDepthExceeded     = "depth_exceeded"
	// Raised by schema implementations rather than the engine.
	CodeCustom         = "custom"
	CodeMissingField   = "missing_field"
	CodeUnknownField   = "unknown_field"
	CodeDuplicateField = "duplicate_field"
	CodeUnknownVariant = "unknown_variant"
	CodeInvalidValue   = "invalid_value"
	CodeInvalidLength  = "invalid_length"
)

// Error is the single structured error returned by a failed conversion.
type Error struct {
	Code    string // One of the codes listed above.
	Path    string // JSON Pointer of the offending value (for example /bar/variant/Tuple/0).
	Message string
	// Expected and Got describe the mismatch in human terms when known.
	Expected string
	Got      string
	// TypeName is the runtime type name for unsupported_type.
	TypeName string
	// ExpectedLen and GotLen are set for incorrect_length.
	ExpectedLen int
	GotLen      int
	Cause       error // Optional: underlying error from the object model.
}

func (e *Error) Error() string {
	if e.Path == "" || e.Path == "/" {
		return e.Message
	}
	return e.Message + " at " + e.Path
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}

func newError(code string, data map[string]string) *Error {
	return &Error{Code: code, Message: i18n.T(code, data), Expected: data["expected"], Got: data["got"]}
}

// Errorf returns a free-form error for schema validation logic.
func Errorf(format string, args ...any) *Error {
	return &Error{Code: CodeCustom, Message: fmt.Sprintf(format, args...)}
}

// MissingField reports a required record field absent from the input.
func MissingField(field string) *Error {
	return newError(CodeMissingField, map[string]string{"field": field})
}

// UnknownField reports a record key the schema does not declare.
func UnknownField(field string, expected []string) *Error {
	return newError(CodeUnknownField, map[string]string{"field": field, "expected": oneOf(expected)})
}

// DuplicateField reports a record key seen twice.
func DuplicateField(field string) *Error {
	return newError(CodeDuplicateField, map[string]string{"field": field})
}

// UnknownVariant reports a union tag the schema does not declare.
func UnknownVariant(variant string, expected []string) *Error {
	return newError(CodeUnknownVariant, map[string]string{"variant": variant, "expected": oneOf(expected)})
}

// InvalidValue reports a value of the right shape that the schema rejects.
func InvalidValue(got, expected string) *Error {
	return newError(CodeInvalidValue, map[string]string{"got": got, "expected": expected})
}

// InvalidLength reports a sequence with fewer elements than the schema needs.
func InvalidLength(got int, expected string) *Error {
	return newError(CodeInvalidLength, map[string]string{"got": strconv.Itoa(got), "expected": expected})
}

// InvalidType reports a value whose shape differs from what the schema asked for.
func InvalidType(got, expected string) *Error {
	return newError(CodeInvalidType, map[string]string{"got": got, "expected": expected})
}

func errUnsupportedType(name string) *Error {
	e := newError(CodeUnsupportedType, map[string]string{"type": name})
	e.TypeName = name
	return e
}

func errIncorrectLength(expected, got int) *Error {
	e := newError(CodeIncorrectLength, map[string]string{"expected": strconv.Itoa(expected), "got": strconv.Itoa(got)})
	e.ExpectedLen, e.GotLen = expected, got
	return e
}

func errInvalidCharLength(got string) *Error {
	e := newError(CodeInvalidCharLength, nil)
	e.Expected, e.Got = "a string of length 1", strconv.Quote(got)
	return e
}

func errInvalidUnion(detail string) *Error {
	return newError(CodeInvalidUnion, map[string]string{"detail": detail})
}

func errNonTextKey(got string) *Error {
	e := newError(CodeNonTextKey, nil)
	e.Expected, e.Got = "string", got
	return e
}

func errExtraction(cause error) *Error {
	return &Error{Code: CodeExtraction, Message: i18n.T(CodeExtraction, map[string]string{"cause": cause.Error()}), Cause: cause}
}

func errOverflow(got, expected string, cause error) *Error {
	e := newError(CodeOverflow, map[string]string{"got": got, "expected": expected})
	e.Cause = cause
	return e
}

func errDepthExceeded(max int) *Error {
	return newError(CodeDepthExceeded, map[string]string{"max": strconv.Itoa(max)})
}

// annotate stamps path onto err unless an inner frame already did. Errors
// that are not *Error are wrapped as custom errors so the caller always
// receives one structured value.
func annotate(err error, path string) error {
	if err == nil {
		return nil
	}
	e, ok := AsError(err)
	if !ok {
		return &Error{Code: CodeCustom, Path: path, Message: err.Error(), Cause: err}
	}
	if e.Path == "" {
		e.Path = path
	}
	return err
}

func oneOf(names []string) string {
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return "`" + names[0] + "`"
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	return "one of " + strings.Join(quoted, ", ")
}
