package edges

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dotcommander/codescore/internal/discovery"
)

func TestExtract_JavaScript(t *testing.T) {
	src := `import util from './util';
import { a, b } from '../shared/helpers';
import 'polyfill';
const fs = require('fs');
export { thing } from './thing';
`
	got := Extract(src, "javascript")

	want := []string{"./util", "../shared/helpers", "polyfill", "fs", "./thing"}
	for _, w := range want {
		if !contains(got, w) {
			t.Errorf("expected reference %q in %v", w, got)
		}
	}
}

func TestExtract_Deduplicates(t *testing.T) {
	src := `const a = require('./util');
const b = require('./util');`
	got := Extract(src, "javascript")
	if len(got) != 1 {
		t.Errorf("expected deduplicated references, got %v", got)
	}
}

func TestExtract_Python(t *testing.T) {
	src := `import os
from models import user
from . import siblings`
	got := Extract(src, "python")

	for _, w := range []string{"os", "models"} {
		if !contains(got, w) {
			t.Errorf("expected reference %q in %v", w, got)
		}
	}
}

func TestExtract_UnknownLanguage(t *testing.T) {
	if got := Extract("import x", "cobol"); got != nil {
		t.Errorf("unknown language must yield nil, got %v", got)
	}
}

func TestResolve(t *testing.T) {
	inventory := map[string]bool{
		"src/app.js":          true,
		"src/util.js":         true,
		"src/lib/index.js":    true,
		"shared/helpers.ts":   true,
	}

	tests := []struct {
		name string
		file string
		ref  string
		want string
	}{
		{name: "relative with extension fallback", file: "src/app.js", ref: "./util", want: "src/util.js"},
		{name: "relative exact", file: "src/app.js", ref: "./util.js", want: "src/util.js"},
		{name: "index fallback", file: "src/app.js", ref: "./lib", want: "src/lib/index.js"},
		{name: "parent traversal", file: "src/app.js", ref: "../shared/helpers", want: "shared/helpers.ts"},
		{name: "external package", file: "src/app.js", ref: "lodash", want: ""},
		{name: "unresolvable relative", file: "src/app.js", ref: "./missing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.file, tt.ref, inventory); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.file, tt.ref, got, tt.want)
			}
		})
	}
}

func TestBuildEdgeMap(t *testing.T) {
	files := []discovery.File{
		{RelPath: "src/main.js", Language: "javascript", Contents: "import util from './util';\nimport ext from 'lodash';"},
		{RelPath: "src/util.js", Language: "javascript", Contents: "export function util() {}"},
	}

	got := BuildEdgeMap(files)

	if want := []string{"src/util.js"}; !reflect.DeepEqual(got["src/main.js"], want) {
		t.Errorf("main edges = %v, want %v", got["src/main.js"], want)
	}
	if len(got["src/util.js"]) != 0 {
		t.Errorf("util edges = %v, want none", got["src/util.js"])
	}
}

func TestLoadEdgeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.yaml")
	content := `src/a.js:
  - src/b.js
  - src/c.js
src/b.js: []
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadEdgeFile(path)
	if err != nil {
		t.Fatalf("LoadEdgeFile: %v", err)
	}
	if want := []string{"src/b.js", "src/c.js"}; !reflect.DeepEqual(got["src/a.js"], want) {
		t.Errorf("edges = %v, want %v", got["src/a.js"], want)
	}

	if _, err := LoadEdgeFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
