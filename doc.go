// Package dynconv converts values of a dynamic, runtime-typed object model
// into statically typed Go values.
//
// The dynamic side is any Go value: scalars, []any, maps, and the runtime
// collection types of package dynobj. The static side is described by Go types
// (structs, slices, maps, registered unions) or by a hand-written Visitor.
//
// The engine classifies each dynamic value, answers the request made by the
// target shape and re-enters itself for every element, entry and union
// payload. Integers are narrowed to the smallest width that holds them without
// loss.
//
// Typical usage:
//
//	doc, err := gojson.Decode(data)
//	cfg, err := dynconv.ConvertTo[Config](doc)
//	v, err := dynconv.ConvertAny(doc)
//
// Errors are *Error values carrying a stable code and the JSON Pointer of the
// failing value; messages are rendered through package i18n.
package dynconv
