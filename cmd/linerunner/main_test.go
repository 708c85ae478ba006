package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
	"github.com/johnquangdev/linerunner/internal/infrastructure/localstore"
)

const sampleScript = `# The Rehearsal

## Act One

### Alice
Hello there

### Bob
Hi Alice

### Chorus
~Together now~
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "play.md", sampleScript)

	out, err := runCLI(t, "parse", path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var p entities.Project
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("output is not a project: %v\n%s", err, out)
	}
	if p.Name != "The Rehearsal" {
		t.Fatalf("unexpected name %q", p.Name)
	}
	if len(p.Scenes) != 1 || len(p.Scenes[0].Lines) != 3 {
		t.Fatalf("unexpected scenes %+v", p.Scenes)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"project":"P","scenes":[{"title":"S","lines":[{"characters":["A"],"line":"hi"}]}]}`)
	legacy := writeFile(t, dir, "legacy.yaml", "project: P\nscenes:\n  - title: S\n    lines:\n      - character: A\n        line: hi\n")
	bad := writeFile(t, dir, "bad.json", `{"project":"P","scenes":[{"title":"S","lines":[{"line":"hi"}]}]}`)

	out, err := runCLI(t, "validate", good, legacy)
	if err != nil {
		t.Fatalf("expected valid documents, got %v\n%s", err, out)
	}
	if strings.Count(out, "✓") != 2 {
		t.Fatalf("expected two passes, got:\n%s", out)
	}

	out, err = runCLI(t, "validate", good, bad)
	if err == nil {
		t.Fatalf("expected failure for %s", bad)
	}
	if !strings.Contains(out, "✗ "+bad) {
		t.Fatalf("expected bad file reported, got:\n%s", out)
	}
}

func TestShowCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "play.md", sampleScript)

	out, err := runCLI(t, "show", path)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"The Rehearsal", "Act One", "Alice, Bob, Chorus"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "show", path, "--scene", "Act One")
	if err != nil {
		t.Fatalf("show scene failed: %v", err)
	}
	if !strings.Contains(out, "Hi Alice") || !strings.Contains(out, "♪") {
		t.Fatalf("expected scene lines in output:\n%s", out)
	}

	if _, err := runCLI(t, "show", path, "--scene", "Missing"); err == nil {
		t.Fatalf("expected error for unknown scene")
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "play.md", sampleScript)
	outDir := filepath.Join(dir, "local")

	out, err := runCLI(t, "export", path, "--out", outDir)
	if err != nil {
		t.Fatalf("export failed: %v\n%s", err, out)
	}

	p, err := localstore.New(outDir).Load("the-rehearsal")
	if err != nil {
		t.Fatalf("exported project not loadable: %v", err)
	}
	if p.Name != "The Rehearsal" || len(p.Characters) != 3 {
		t.Fatalf("unexpected exported project %+v", p)
	}

	out, err = runCLI(t, "local", "--dir", outDir)
	if err != nil {
		t.Fatalf("local failed: %v", err)
	}
	if !strings.Contains(out, "the-rehearsal") {
		t.Fatalf("expected exported project listed:\n%s", out)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"The Rehearsal":      "the-rehearsal",
		"  Act 1: Opening! ": "act-1-opening",
		"---":                "",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Fatalf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
