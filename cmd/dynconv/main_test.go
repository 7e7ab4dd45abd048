package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var out, errb bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errb)
	return out.String(), errb.String(), code
}

func TestConvert_JSONKeepsOrderAndNarrows(t *testing.T) {
	out, stderr, code := runCLI(t, `{"z": 1, "a": [300, -1, 2.5, "x"]}`, "convert")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	want := "{\n  \"z\": 1,\n  \"a\": [\n    300,\n    -1,\n    2.5,\n    \"x\"\n  ]\n}\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestConvert_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.yaml")
	if err := os.WriteFile(path, []byte("name: x\nbig: 18446744073709551616\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, stderr, code := runCLI(t, "", "convert", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(out, `"big": 18446744073709551616`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestConvert_DuplicateError(t *testing.T) {
	_, stderr, code := runCLI(t, `{"a": 1, "a": 2}`, "convert", "-dup", "error")
	if code != 1 || !strings.Contains(stderr, "duplicated") {
		t.Fatalf("exit %d: %s", code, stderr)
	}
}

func TestConvert_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "dynconv.yaml")
	if err := os.WriteFile(cfg, []byte("format: json\nmaxDepth: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, stderr, code := runCLI(t, `[[1]]`, "convert", "-config", cfg)
	if code != 1 || !strings.Contains(stderr, "max depth") {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	// flags override the file
	_, stderr, code = runCLI(t, `[[1]]`, "convert", "-config", cfg, "-max-depth", "5")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("nope: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, code := runCLI(t, `1`, "convert", "-config", bad); code != 2 {
		t.Fatalf("unknown config keys should be rejected, exit %d", code)
	}
}

func TestInspect_Table(t *testing.T) {
	out, stderr, code := runCLI(t, `{"名前": "x", "list": [1, true, null]}`, "inspect")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "PATH") || strings.Contains(lines[0], "\x1b[") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	// Columns line up in display cells even with wide keys.
	col := func(line, word string) int { return runewidth.StringWidth(line[:strings.Index(line, word)]) }
	if !strings.HasPrefix(lines[2], "/名前") || col(lines[2], "string") != col(lines[0], "CATEGORY") {
		t.Fatalf("misaligned row:\n%s", out)
	}
	for _, want := range []string{"/list/0", "int", "/list/1", "bool", "/list/2", "none"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestInspect_Depth(t *testing.T) {
	out, _, code := runCLI(t, `{"a": {"b": 1}}`, "inspect", "-depth", "1")
	if code != 0 || strings.Contains(out, "/a/b") {
		t.Fatalf("exit %d:\n%s", code, out)
	}
}

func TestUsage(t *testing.T) {
	if _, stderr, code := runCLI(t, "", "bogus"); code != 2 || !strings.Contains(stderr, "Usage") {
		t.Fatalf("exit %d: %s", code, stderr)
	}
}
