package dynconv

import "log/slog"

// DefaultMaxDepth bounds recursion when Options.MaxDepth is zero.
const DefaultMaxDepth = 512

// DefaultTagName is the struct tag consulted before the json tag.
const DefaultTagName = "dynconv"

// Options bundles conversion options. Entry points accept them variadically;
// the last value wins.
type Options struct {
	// TagName names the struct tag that renames fields. Empty means
	// DefaultTagName. The json tag is always consulted as a fallback.
	TagName string
	// MaxDepth bounds nesting; zero means DefaultMaxDepth, negative disables
	// the guard. Cyclic dynamic graphs fail with depth_exceeded.
	MaxDepth int
	// DisallowUnknownFields rejects record keys the target does not declare.
	DisallowUnknownFields bool
	// PositionalRecords lets records and struct variants accept a sequence
	// whose elements fill the fields in declaration order. Off by default: a
	// record request needs a mapping.
	PositionalRecords bool
	// Logger receives debug records (untagged union attempts, depth guard).
	// Nil discards them.
	Logger *slog.Logger
}

func resolveOptions(opts []Options) *Options {
	var o Options
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	if o.TagName == "" {
		o.TagName = DefaultTagName
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return &o
}

var defaultOptions = resolveOptions(nil)

// optionsOf returns the options carried by d, or the defaults when d is a
// foreign Deserializer implementation.
func optionsOf(d Deserializer) *Options {
	if dd, ok := d.(*deserializer); ok {
		return dd.opts
	}
	return defaultOptions
}
