package dynconv

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/reoring/dynconv/source/gojson"
	yamlsrc "github.com/reoring/dynconv/source/yaml"
)

// Source produces a dynamic document for ConvertFrom.
type Source interface {
	Load(ctx context.Context) (any, error)
}

// JSONDriver decodes JSON into the dynamic object model. The default driver is
// backed by github.com/goccy/go-json and may be swapped with SetJSONDriver.
type JSONDriver interface {
	Decode(r io.Reader) (any, error)
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the goccy/go-json backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

type defaultJSONDriver struct{}

func (defaultJSONDriver) Decode(r io.Reader) (any, error) { return gojson.DecodeReader(r) }
func (defaultJSONDriver) Name() string                    { return "goccy/go-json" }

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (any, error)

func (f SourceFunc) Load(ctx context.Context) (any, error) { return f(ctx) }

// JSONReader reads a JSON document from r with the current driver.
func JSONReader(r io.Reader) Source {
	return SourceFunc(func(context.Context) (any, error) { return getJSONDriver().Decode(r) })
}

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return JSONReader(bytes.NewReader(b)) }

// YAMLReader reads the first YAML document from r.
func YAMLReader(r io.Reader, opts ...yamlsrc.Options) Source {
	return SourceFunc(func(context.Context) (any, error) { return yamlsrc.DecodeReader(r, opts...) })
}

// YAMLBytes wraps a byte slice as a YAML Source.
func YAMLBytes(b []byte, opts ...yamlsrc.Options) Source {
	return YAMLReader(bytes.NewReader(b), opts...)
}

// Value wraps an already materialised dynamic value.
func Value(v any) Source {
	return SourceFunc(func(context.Context) (any, error) { return v, nil })
}

// ConvertFrom loads the document from src and converts it into target, which
// must be a non-nil pointer.
func ConvertFrom(ctx context.Context, src Source, target any, opts ...Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := src.Load(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	o := resolveOptions(opts)
	o.Logger.Debug("converting document", "target", fmt.Sprintf("%T", target))
	return Convert(doc, target, *o)
}
