package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/reoring/dynconv"
	"github.com/reoring/dynconv/dynobj"
)

const previewWidth = 40

type row struct {
	path     string
	category string
	typeName string
	preview  string
}

func inspectCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet("inspect", stderr)
	depth := fs.Int("depth", -1, "stop descending below this depth (-1 = unlimited)")
	c, err := parseCommon(fs, args, stderr)
	if err != nil {
		return reportFlagErr(err)
	}
	doc, err := c.load(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "inspect: %v\n", err)
		return 1
	}
	var rows []row
	if err := collectRows(doc, "/", 0, *depth, &rows); err != nil {
		fmt.Fprintf(stderr, "inspect: %v\n", err)
		return 1
	}
	writeTable(stdout, rows, isTerminal(stdout))
	return 0
}

// collectRows walks v in the order the engine visits it and records one row
// per value.
func collectRows(v any, path string, depth, maxDepth int, rows *[]row) error {
	cat, err := dynconv.Classify(v)
	r := row{path: path, category: strings.ToLower(cat.String()), typeName: typeName(v), preview: preview(v)}
	if err != nil {
		r.category = "unsupported"
	}
	*rows = append(*rows, r)
	if err != nil || (maxDepth >= 0 && depth >= maxDepth) {
		return nil
	}
	child := func(seg string) string {
		if path == "/" {
			return "/" + seg
		}
		return path + "/" + seg
	}
	switch cat {
	case dynconv.CategorySequence, dynconv.CategorySet:
		seq, _ := dynobj.AsSequence(v)
		for i := 0; i < seq.Len(); i++ {
			item, err := seq.Item(i)
			if err != nil {
				return err
			}
			if err := collectRows(item, child(strconv.Itoa(i)), depth+1, maxDepth, rows); err != nil {
				return err
			}
		}
	case dynconv.CategoryMapping:
		m, _ := dynobj.AsMapping(v)
		keys, err := m.Keys()
		if err != nil {
			return err
		}
		values, err := m.Values()
		if err != nil {
			return err
		}
		for i := 0; i < m.Len(); i++ {
			k, err := keys.Item(i)
			if err != nil {
				return err
			}
			val, err := values.Item(i)
			if err != nil {
				return err
			}
			if err := collectRows(val, child(fmt.Sprint(k)), depth+1, maxDepth, rows); err != nil {
				return err
			}
		}
	}
	return nil
}

func typeName(v any) string {
	n, err := dynobj.TypeName(v)
	if err != nil {
		return "unknown"
	}
	return n
}

func preview(v any) string {
	var s string
	switch {
	case dynobj.IsNone(v):
		s = "null"
	case dynobj.IsText(v):
		t, _ := dynobj.Text(v)
		s = strconv.Quote(t)
	case dynobj.IsBytes(v):
		b, _ := dynobj.Bytes(v)
		s = fmt.Sprintf("%d bytes", len(b))
	default:
		if n, err := dynobj.Len(v); err == nil {
			s = fmt.Sprintf("len=%d", n)
		} else if dynobj.IsInteger(v) {
			x, _ := dynobj.BigInt(v)
			s = x.String()
		} else {
			s = fmt.Sprint(v)
		}
	}
	return runewidth.Truncate(s, previewWidth, "…")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writeTable prints rows in aligned columns. Widths are measured in display
// cells so keys with wide characters stay aligned.
func writeTable(w io.Writer, rows []row, tty bool) {
	header := row{path: "PATH", category: "CATEGORY", typeName: "TYPE", preview: "VALUE"}
	widths := [3]int{}
	for _, r := range append([]row{header}, rows...) {
		widths[0] = max(widths[0], runewidth.StringWidth(r.path))
		widths[1] = max(widths[1], runewidth.StringWidth(r.category))
		widths[2] = max(widths[2], runewidth.StringWidth(r.typeName))
	}
	line := func(r row) string {
		return runewidth.FillRight(r.path, widths[0]) + "  " +
			runewidth.FillRight(r.category, widths[1]) + "  " +
			runewidth.FillRight(r.typeName, widths[2]) + "  " + r.preview
	}
	h := line(header)
	if tty {
		h = "\x1b[1m" + h + "\x1b[0m"
	}
	fmt.Fprintln(w, strings.TrimRight(h, " "))
	for _, r := range rows {
		fmt.Fprintln(w, strings.TrimRight(line(r), " "))
	}
}
