// Package yaml decodes YAML documents into the dynamic object model using
// gopkg.in/yaml.v3 nodes.
//
// Mappings become *dynobj.Dict in document order with their keys decoded as
// values, so non-string keys survive. Integers are arbitrary precision,
// !!binary scalars become []byte and !!set mappings become *dynobj.Set.
package yaml

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	y "gopkg.in/yaml.v3"

	"github.com/reoring/dynconv/dynobj"
)

// Options configures decoding.
type Options struct {
	// MaxDepth bounds nesting; zero means unlimited.
	MaxDepth int
	// MaxAliases bounds alias expansion to guard against alias bombs; zero
	// means 10000.
	MaxAliases int
}

// Decode parses the first YAML document in data.
func Decode(data []byte, opts ...Options) (any, error) {
	return DecodeReader(bytes.NewReader(data), opts...)
}

// DecodeReader parses the first YAML document read from r.
func DecodeReader(r io.Reader, opts ...Options) (any, error) {
	var node y.Node
	if err := y.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return newWalker(opts).value(&node, 0)
}

// DecodeAll parses every document of a multi-document stream.
func DecodeAll(data []byte, opts ...Options) ([]any, error) {
	dec := y.NewDecoder(bytes.NewReader(data))
	var docs []any
	for {
		var node y.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		v, err := newWalker(opts).value(&node, 0)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
}

type walker struct {
	maxDepth   int
	maxAliases int
	aliases    int
}

func newWalker(opts []Options) *walker {
	var o Options
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	if o.MaxAliases == 0 {
		o.MaxAliases = 10000
	}
	return &walker{maxDepth: o.MaxDepth, maxAliases: o.MaxAliases}
}

func (w *walker) value(n *y.Node, depth int) (any, error) {
	if w.maxDepth > 0 && depth > w.maxDepth {
		return nil, fmt.Errorf("yaml: line %d: max depth %d exceeded", n.Line, w.maxDepth)
	}
	switch n.Kind {
	case y.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return w.value(n.Content[0], depth)
	case y.AliasNode:
		w.aliases++
		if w.aliases > w.maxAliases {
			return nil, fmt.Errorf("yaml: line %d: too many aliases", n.Line)
		}
		return w.value(n.Alias, depth)
	case y.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := w.value(c, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case y.MappingNode:
		return w.mapping(n, depth)
	case y.ScalarNode:
		return scalar(n)
	}
	return nil, fmt.Errorf("yaml: line %d: unexpected node kind %d", n.Line, n.Kind)
}

func (w *walker) mapping(n *y.Node, depth int) (any, error) {
	if n.ShortTag() == "!!set" {
		s := dynobj.NewSet()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := w.value(n.Content[i], depth+1)
			if err != nil {
				return nil, err
			}
			if err := s.Add(k); err != nil {
				return nil, err
			}
		}
		return s, nil
	}
	d := dynobj.NewDict()
	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]
		v, err := w.value(vn, depth+1)
		if err != nil {
			return nil, err
		}
		if kn.Kind == y.ScalarNode && kn.ShortTag() == "!!merge" {
			if err := merge(d, v); err != nil {
				return nil, fmt.Errorf("yaml: line %d: %w", kn.Line, err)
			}
			continue
		}
		k, err := w.value(kn, depth+1)
		if err != nil {
			return nil, err
		}
		d.Set(k, v)
	}
	return d, nil
}

// merge applies a << merge key: explicit keys already present win.
func merge(d *dynobj.Dict, src any) error {
	switch s := src.(type) {
	case *dynobj.Dict:
		s.Range(func(k, v any) bool {
			if _, ok := d.Get(k); !ok {
				d.Set(k, v)
			}
			return true
		})
		return nil
	case []any:
		for _, item := range s {
			if err := merge(d, item); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("merge value must be a mapping, got %T", src)
}

func scalar(n *y.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		return parseInt(n)
	case "!!float":
		// Plain integers beyond 64 bits resolve as floats; keep them exact.
		if n.Style&y.TaggedStyle == 0 && isIntegerLiteral(n.Value) {
			return parseInt(n)
		}
		return parseFloat(n)
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, fmt.Errorf("yaml: line %d: invalid !!binary: %w", n.Line, err)
		}
		return b, nil
	}
	return n.Value, nil
}

func parseInt(n *y.Node) (any, error) {
	lit := strings.ReplaceAll(n.Value, "_", "")
	neg := false
	switch {
	case strings.HasPrefix(lit, "-"):
		neg, lit = true, lit[1:]
	case strings.HasPrefix(lit, "+"):
		lit = lit[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(lit, "0x"), strings.HasPrefix(lit, "0X"):
		base, lit = 16, lit[2:]
	case strings.HasPrefix(lit, "0o"), strings.HasPrefix(lit, "0O"):
		base, lit = 8, lit[2:]
	case strings.HasPrefix(lit, "0b"), strings.HasPrefix(lit, "0B"):
		base, lit = 2, lit[2:]
	case len(lit) > 1 && lit[0] == '0':
		base = 8
	}
	x, ok := new(big.Int).SetString(lit, base)
	if !ok {
		return nil, fmt.Errorf("yaml: line %d: invalid integer %q", n.Line, n.Value)
	}
	if neg {
		x.Neg(x)
	}
	if x.IsInt64() {
		return x.Int64(), nil
	}
	return x, nil
}

func isIntegerLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseFloat(n *y.Node) (any, error) {
	switch strings.ToLower(n.Value) {
	case ".inf", "+.inf":
		return math.Inf(1), nil
	case "-.inf":
		return math.Inf(-1), nil
	case ".nan":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(n.Value, "_", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("yaml: line %d: invalid float %q", n.Line, n.Value)
	}
	return f, nil
}
