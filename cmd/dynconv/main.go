package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/dynconv"
	"github.com/reoring/dynconv/i18n"
	"github.com/reoring/dynconv/source/gojson"
	yamlsrc "github.com/reoring/dynconv/source/yaml"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "inspect":
		return inspectCmd(args[1:], stdin, stdout, stderr)
	case "convert":
		return convertCmd(args[1:], stdin, stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "dynconv CLI\n\nUsage:\n  dynconv inspect [flags] [file]\n  dynconv convert [flags] [file]\n\nReads JSON or YAML (stdin when no file is given).\n  inspect  prints the category the engine assigns to every value\n  convert  runs the fully dynamic conversion and prints the result as JSON")
}

// common holds the flags shared by all subcommands.
type common struct {
	cfg     Config
	verbose bool
	logger  *slog.Logger
	input   string
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseCommon registers the shared flags on fs, parses args and merges the
// config file underneath the flags that were set explicitly.
func parseCommon(fs *flag.FlagSet, args []string, stderr io.Writer) (*common, error) {
	var (
		configPath string
		c          common
		format     string
		maxDepth   int
		dup        string
		float64s   bool
		lang       string
	)
	fs.StringVar(&configPath, "config", "", "YAML config file")
	fs.StringVar(&format, "f", "", "input format: json, yaml or auto")
	fs.IntVar(&maxDepth, "max-depth", 0, "maximum nesting depth (0 = default)")
	fs.StringVar(&dup, "dup", "", "duplicate JSON keys: ignore, warn or error")
	fs.BoolVar(&float64s, "float64", false, "decode JSON numbers as float64")
	fs.StringVar(&lang, "lang", "", "message language: en or ja")
	fs.BoolVar(&c.verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", fs.Name(), err)
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "f":
			cfg.Format = format
		case "max-depth":
			cfg.MaxDepth = maxDepth
		case "dup":
			cfg.Duplicates = dup
		case "float64":
			cfg.Float64 = float64s
		case "lang":
			cfg.Language = lang
		}
	})
	c.cfg = cfg
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	i18n.SetLanguage(cfg.Language)
	if fs.NArg() > 0 {
		c.input = fs.Arg(0)
	}
	return &c, nil
}

func (c *common) options() dynconv.Options {
	return dynconv.Options{
		MaxDepth:              c.cfg.MaxDepth,
		DisallowUnknownFields: c.cfg.DisallowUnknownFields,
		Logger:                c.logger,
	}
}

// load reads and decodes the input document.
func (c *common) load(stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if c.input == "" || c.input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(c.input)
	}
	if err != nil {
		return nil, err
	}
	format := c.cfg.Format
	if format == "" || format == "auto" {
		format = detectFormat(c.input, data)
	}
	c.logger.Debug("loading input", "file", c.input, "format", format, "bytes", len(data))
	switch format {
	case "json":
		dups := map[string]gojson.DuplicateKeys{
			"ignore": gojson.DuplicatesLastWins,
			"warn":   gojson.DuplicatesWarn,
			"error":  gojson.DuplicatesError,
		}
		d, ok := dups[c.cfg.Duplicates]
		if !ok {
			return nil, fmt.Errorf("unknown duplicate policy %q", c.cfg.Duplicates)
		}
		return gojson.Decode(data, gojson.Options{
			MaxDepth:   c.cfg.MaxDepth,
			MaxBytes:   c.cfg.MaxBytes,
			Duplicates: d,
			UseFloat64: c.cfg.Float64,
			OnIssue: func(is gojson.Issue) {
				c.logger.Warn(is.Message, "code", is.Code, "path", is.Path)
			},
		})
	case "yaml":
		return yamlsrc.Decode(data, yamlsrc.Options{MaxDepth: c.cfg.MaxDepth})
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

func detectFormat(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return "json"
	}
	return "yaml"
}

func convertCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c, err := parseCommon(newFlagSet("convert", stderr), args, stderr)
	if err != nil {
		return reportFlagErr(err)
	}
	doc, err := c.load(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "convert: %v\n", err)
		return 1
	}
	out, err := dynconv.ConvertAny(doc, c.options())
	if err != nil {
		fmt.Fprintf(stderr, "convert: %v\n", err)
		return 1
	}
	b, err := json.MarshalIndent(out, "", c.cfg.Indent)
	if err != nil {
		fmt.Fprintf(stderr, "convert: encoding output: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(b))
	return 0
}

// reportFlagErr maps a parse failure to an exit code. The flag set and
// parseCommon have already printed the message.
func reportFlagErr(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}
