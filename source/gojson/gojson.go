// Package gojson decodes JSON documents into the dynamic object model using
// github.com/goccy/go-json as the tokenizer. Objects become *dynobj.Dict in
// document order, so struct fields and map entries are visited in the order
// they were written.
package gojson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/dynconv/internal/engine"
)

// DuplicateKeys selects how repeated object keys are treated.
type DuplicateKeys int

const (
	// DuplicatesLastWins keeps the first position and the last value.
	DuplicatesLastWins DuplicateKeys = iota
	// DuplicatesWarn reports each repeat through Options.OnIssue and continues.
	DuplicatesWarn
	// DuplicatesError fails on the first repeat.
	DuplicatesError
)

// Issue codes.
const (
	CodeDuplicateKey  = "duplicate_key"
	CodeDepthExceeded = "depth_exceeded"
	CodeTruncated     = "truncated"
)

// Options configures decoding. The zero value decodes numbers as json.Number
// with no depth or size limits.
type Options struct {
	MaxDepth   int
	MaxBytes   int64
	Duplicates DuplicateKeys
	// UseFloat64 materialises every number as float64.
	UseFloat64 bool
	// OnIssue receives non-fatal issues such as warned duplicate keys.
	OnIssue func(Issue)
}

// Issue is a problem found while reading the document.
type Issue struct {
	Code    string
	Path    string // JSON Pointer; "/" is the root
	Message string
}

// Error wraps a fatal Issue.
type Error struct{ Issue }

func (e *Error) Error() string { return fmt.Sprintf("gojson: %s at %s", e.Message, e.Path) }

// Decode parses a single JSON document.
func Decode(data []byte, opts ...Options) (any, error) {
	return DecodeReader(bytes.NewReader(data), opts...)
}

// DecodeReader parses a single JSON document from r.
func DecodeReader(r io.Reader, opts ...Options) (any, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	switch o.Duplicates {
	case DuplicatesLastWins, DuplicatesWarn, DuplicatesError:
	default:
		return nil, fmt.Errorf("gojson: unknown duplicate key policy %d", o.Duplicates)
	}
	mode := eng.NumberJSON
	if o.UseFloat64 {
		mode = eng.NumberFloat64
	}
	v, err := eng.DecodeAnyFromSource(newSource(r, o), mode)
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return v, err
}

// NewReader returns a token source over r without limits.
func NewReader(r io.Reader) eng.TokenSource { return newSource(r, Options{}) }

// NewBytes returns a token source over b without limits.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

// scope is an open object or array. Objects track the keys seen so far and
// whether the next string token is a key.
type scope struct {
	array   bool
	path    string
	keys    map[string]struct{}
	key     string
	wantKey bool
	next    int
}

type source struct {
	dec    *j.Decoder
	opts   Options
	scopes []scope
}

func newSource(r io.Reader, o Options) *source {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec, opts: o}
}

func (s *source) top() *scope {
	if len(s.scopes) == 0 {
		return nil
	}
	return &s.scopes[len(s.scopes)-1]
}

// slot returns the path of the value about to be read and moves the
// enclosing scope past it.
func (s *source) slot() string {
	top := s.top()
	switch {
	case top == nil:
		return ""
	case top.array:
		p := eng.JoinPointer(top.path, strconv.Itoa(top.next))
		top.next++
		return p
	default:
		top.wantKey = true
		return eng.JoinPointer(top.path, top.key)
	}
}

func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func (s *source) fatal(code, path, msg string) error {
	return &Error{Issue{Code: code, Path: pointer(path), Message: msg}}
}

func (s *source) NextToken() (eng.Token, error) {
	raw, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	if str, ok := raw.(string); ok {
		if top := s.top(); top != nil && !top.array && top.wantKey {
			return s.readKey(top, str)
		}
	}
	if d, ok := raw.(j.Delim); ok && (d == '}' || d == ']') {
		path := ""
		if top := s.top(); top != nil {
			path = top.path
			s.scopes = s.scopes[:len(s.scopes)-1]
		}
		kind := eng.KindEndArray
		if d == '}' {
			kind = eng.KindEndObject
		}
		return s.emit(eng.Token{Kind: kind}, path)
	}

	path := s.slot()
	var tok eng.Token
	switch v := raw.(type) {
	case j.Delim:
		if s.opts.MaxDepth > 0 && len(s.scopes) >= s.opts.MaxDepth {
			return eng.Token{}, s.fatal(CodeDepthExceeded, path, "max depth exceeded")
		}
		sc := scope{array: v == '[', path: path}
		tok.Kind = eng.KindBeginArray
		if v == '{' {
			sc.keys = make(map[string]struct{})
			sc.wantKey = true
			tok.Kind = eng.KindBeginObject
		}
		s.scopes = append(s.scopes, sc)
	case string:
		tok = eng.Token{Kind: eng.KindString, String: v}
	case bool:
		tok = eng.Token{Kind: eng.KindBool, Bool: v}
	case j.Number:
		tok = eng.Token{Kind: eng.KindNumber, Number: string(v)}
	case float64:
		tok = eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64)}
	default:
		tok.Kind = eng.KindNull
	}
	return s.emit(tok, path)
}

func (s *source) readKey(top *scope, key string) (eng.Token, error) {
	top.wantKey = false
	top.key = key
	path := eng.JoinPointer(top.path, key)
	if _, dup := top.keys[key]; dup {
		msg := "key '" + key + "' duplicated"
		switch s.opts.Duplicates {
		case DuplicatesError:
			return eng.Token{}, s.fatal(CodeDuplicateKey, path, msg)
		case DuplicatesWarn:
			if s.opts.OnIssue != nil {
				s.opts.OnIssue(Issue{Code: CodeDuplicateKey, Path: path, Message: msg})
			}
		}
	}
	top.keys[key] = struct{}{}
	return s.emit(eng.Token{Kind: eng.KindKey, String: key}, path)
}

// emit stamps the input offset on tok and applies the byte limit.
func (s *source) emit(tok eng.Token, path string) (eng.Token, error) {
	tok.Offset = s.dec.InputOffset()
	if s.opts.MaxBytes > 0 && tok.Offset > s.opts.MaxBytes {
		return eng.Token{}, s.fatal(CodeTruncated, path, "max bytes exceeded")
	}
	return tok, nil
}

func (s *source) Location() int64 { return s.dec.InputOffset() }
