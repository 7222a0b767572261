package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func relPaths(files []File) []string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	return paths
}

func TestDiscoverFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.js", "console.log('hi');\n")
	writeFile(t, root, "lib/util.py", "def f():\n    return 1\n")
	writeFile(t, root, "README.md", "# readme\n")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {};\n")
	writeFile(t, root, ".git/hooks/pre-commit.js", "x\n")
	writeFile(t, root, "app.min.js", "var a=1;\n")

	fd := NewFileDiscovery(root, 0, nil)
	files, err := fd.DiscoverFiles()
	require.NoError(t, err)

	paths := relPaths(files)
	assert.ElementsMatch(t, []string{"main.js", "lib/util.py"}, paths)

	for _, f := range files {
		if f.RelPath == "lib/util.py" {
			assert.Equal(t, "python", f.Language)
			assert.Contains(t, f.Contents, "def f()")
		}
	}
}

func TestDiscoverFilesCustomExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.js", "a\n")
	writeFile(t, root, "gen/skip.js", "b\n")

	fd := NewFileDiscovery(root, 0, []string{"gen/**"})
	files, err := fd.DiscoverFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.js"}, relPaths(files))
}

func TestDiscoverFilesSkipsInvalid(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.js", "var a = 1;\n")
	writeFile(t, root, "binary.js", "data\x00data")
	writeFile(t, root, "huge.js", "xxxxxxxxxxxxxxxxxxxxxxxx")

	fd := NewFileDiscovery(root, 20, nil)
	files, err := fd.DiscoverFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"good.js"}, relPaths(files))
}

func TestDiscoverFilesBadRoot(t *testing.T) {
	_, err := NewFileDiscovery(filepath.Join(t.TempDir(), "missing"), 0, nil).DiscoverFiles()
	assert.Error(t, err)
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.js", "javascript"},
		{"a.tsx", "typescript"},
		{"src/b.go", "go"},
		{"B.JAVA", "java"},
		{"noext", ""},
		{"a.txt", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.path), tt.path)
	}
}

func TestLoadFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "x.ts", "let x = 1;\n")

	f, err := LoadFile(filepath.Join(root, "x.ts"), 0)
	require.NoError(t, err)
	assert.Equal(t, "typescript", f.Language)
	assert.Equal(t, "x.ts", f.RelPath)
	assert.Equal(t, int64(11), f.Size)
	assert.Equal(t, "let x = 1;\n", f.Contents)

	_, err = LoadFile(filepath.Join(root, "absent.ts"), 0)
	assert.Error(t, err)

	_, err = LoadFile(root, 0)
	assert.Error(t, err)
}
