// Package dynobj is the dynamic object model consumed by dynconv.
//
// A dynamic value is any Go value whose concrete shape is only known at
// runtime. The package recognises:
//
//   - the none sentinel: nil and typed nil pointers
//   - booleans, integers of every Go width, *big.Int and integral json.Number
//   - floats and non-integral json.Number
//   - text (string kinds) and byte buffers ([]byte, ByteArray)
//   - ordered sequences ([]any, Tuple, any slice or array, Sequence)
//   - mappings (*Dict, any Go map, Mapping)
//   - set collections (*Set)
//
// User types join the model by implementing the capability interfaces
// Sequence, Mapping, Integer, Truther and TypeNamer.
//
// Values are borrowed: nothing in this package mutates a value it inspects.
// Callers must not mutate a collection while a conversion reads it.
package dynobj
