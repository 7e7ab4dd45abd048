package engine

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/reoring/dynconv/dynobj"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// NumberMode selects how number tokens are materialised.
type NumberMode int

const (
	// NumberJSON keeps the literal as json.Number; integral literals classify
	// as arbitrary precision integers.
	NumberJSON NumberMode = iota
	// NumberFloat64 parses every number as float64.
	NumberFloat64
)

// DecodeAnyFromSource builds a dynamic value from the streaming token source.
// Objects become *dynobj.Dict in document order; a repeated key keeps its
// first position and its last value.
func DecodeAnyFromSource(src TokenSource, mode NumberMode) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	b := builder{src: src, mode: mode}
	return b.value(tok)
}

type builder struct {
	src  TokenSource
	mode NumberMode
}

func (b builder) value(tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return b.object()
	case KindBeginArray:
		return b.array()
	case KindString:
		return tok.String, nil
	case KindNumber:
		return b.number(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func (b builder) number(lit string) (any, error) {
	if b.mode == NumberFloat64 {
		return strconv.ParseFloat(lit, 64)
	}
	return json.Number(lit), nil
}

func (b builder) object() (any, error) {
	d := dynobj.NewDict()
	for {
		tok, err := b.src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return d, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := b.src.NextToken()
		if err != nil {
			return nil, err
		}
		v, err := b.value(vt)
		if err != nil {
			return nil, err
		}
		d.Set(tok.String, v)
	}
}

func (b builder) array() (any, error) {
	arr := []any{}
	for {
		tok, err := b.src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := b.value(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}
