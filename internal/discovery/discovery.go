// Package discovery finds and loads analyzable source files. It validates
// size and encoding so downstream analysis can trust file text as-is.
package discovery

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxFileSize is the per-file size ceiling in bytes.
const DefaultMaxFileSize = 1 << 20 // 1 MiB

// languageByExtension maps source extensions to language names used by the
// analyzer. Unknown extensions are skipped during discovery.
var languageByExtension = map[string]string{
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".go":    "go",
	".py":    "python",
	".rb":    "ruby",
	".php":   "php",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".rs":    "rust",
	".kt":    "kotlin",
	".swift": "swift",
}

// defaultExcludes are glob patterns never worth analyzing.
var defaultExcludes = []string{
	"**/node_modules/**",
	"**/vendor/**",
	"**/.git/**",
	"**/dist/**",
	"**/build/**",
	"**/*.min.js",
}

// File is a discovered, validated source file.
type File struct {
	Path     string // absolute
	RelPath  string // relative to the discovery root, slash-separated
	Language string
	Size     int64
	Contents string
}

// FileDiscovery walks a root directory for analyzable source files.
type FileDiscovery struct {
	root        string
	maxFileSize int64
	excludes    []string
}

// NewFileDiscovery creates a discovery over root. Extra exclude patterns
// are appended to the defaults. maxFileSize <= 0 uses the default ceiling.
func NewFileDiscovery(root string, maxFileSize int64, excludes []string) *FileDiscovery {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &FileDiscovery{
		root:        root,
		maxFileSize: maxFileSize,
		excludes:    append(append([]string(nil), defaultExcludes...), excludes...),
	}
}

// DiscoverFiles walks the root and returns every loadable source file in
// walk order. Files that fail validation (too large, binary, bad encoding)
// are skipped, not errors.
func (fd *FileDiscovery) DiscoverFiles() ([]File, error) {
	root, err := filepath.Abs(fd.root)
	if err != nil {
		return nil, fmt.Errorf("invalid root %s: %w", fd.root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	var files []File
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if fd.excluded(rel) {
			return nil
		}
		if DetectLanguage(path) == "" {
			return nil
		}

		file, err := LoadFile(path, fd.maxFileSize)
		if err != nil {
			return nil
		}
		file.RelPath = rel
		files = append(files, file)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return files, nil
}

func (fd *FileDiscovery) excluded(rel string) bool {
	for _, pattern := range fd.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// DetectLanguage returns the language for a path's extension, or "" when
// the extension is not analyzable.
func DetectLanguage(path string) string {
	return languageByExtension[strings.ToLower(filepath.Ext(path))]
}

// LoadFile reads and validates one file: it must exist, fit the size
// ceiling, contain no NUL bytes (binary sniff), and be valid UTF-8.
func LoadFile(path string, maxSize int64) (File, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return File{}, fmt.Errorf("invalid path %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return File{}, fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() > maxSize {
		return File{}, fmt.Errorf("%s exceeds the %d byte size limit", path, maxSize)
	}

	contents, err := os.ReadFile(abs)
	if err != nil {
		return File{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if bytes.IndexByte(contents, 0) >= 0 {
		return File{}, fmt.Errorf("%s appears to be binary", path)
	}
	if !utf8.Valid(contents) {
		return File{}, fmt.Errorf("%s is not valid UTF-8", path)
	}

	return File{
		Path:     abs,
		RelPath:  filepath.ToSlash(filepath.Base(abs)),
		Language: DetectLanguage(abs),
		Size:     info.Size(),
		Contents: string(contents),
	}, nil
}
