// Package edges extracts file-to-file reference lists for the dependency
// graph. References are pattern-matched per language; resolution maps them
// onto the project file inventory, and anything unresolvable is treated as
// external and dropped.
package edges

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/codescore/internal/discovery"
)

// Reference patterns per language family. Each captures the referenced
// module path in its first group.
var (
	esImportPattern  = regexp.MustCompile(`(?m)^\s*import\s+(?:[^'"]*\s+from\s+)?['"]([^'"]+)['"]`)
	esRequirePattern = regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	esExportPattern  = regexp.MustCompile(`(?m)^\s*export\s+[^'"]*\s+from\s+['"]([^'"]+)['"]`)
	pyImportPattern  = regexp.MustCompile(`(?m)^\s*(?:from\s+([.\w]+)\s+import|import\s+([.\w]+))`)
	goImportPattern  = regexp.MustCompile(`(?m)^\s*(?:import\s+)?(?:\w+\s+)?"([^"]+)"`)
)

// sourceExtensions tried when resolving an extensionless reference.
var sourceExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".py", ".go"}

// Extract returns the raw references found in text for the language,
// deduplicated in order of first appearance.
func Extract(text, language string) []string {
	var patterns []*regexp.Regexp
	switch language {
	case "javascript", "typescript":
		patterns = []*regexp.Regexp{esImportPattern, esRequirePattern, esExportPattern}
	case "python":
		patterns = []*regexp.Regexp{pyImportPattern}
	case "go":
		patterns = []*regexp.Regexp{goImportPattern}
	default:
		return nil
	}

	var refs []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		for _, match := range p.FindAllStringSubmatch(text, -1) {
			ref := firstGroup(match)
			if ref != "" && !seen[ref] {
				refs = append(refs, ref)
				seen[ref] = true
			}
		}
	}
	return refs
}

func firstGroup(match []string) string {
	for _, g := range match[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

// Resolve maps a raw reference from file onto a path in the inventory.
// Returns "" for external references. Relative ES references resolve
// against the referencing file's directory, with the usual extension and
// index fallbacks.
func Resolve(file, ref string, inventory map[string]bool) string {
	if strings.HasPrefix(ref, ".") {
		base := path.Dir(file)
		candidate := path.Clean(path.Join(base, ref))
		if inventory[candidate] {
			return candidate
		}
		for _, ext := range sourceExtensions {
			if inventory[candidate+ext] {
				return candidate + ext
			}
		}
		for _, ext := range sourceExtensions {
			if idx := candidate + "/index" + ext; inventory[idx] {
				return idx
			}
		}
		return ""
	}
	// Bare references must match an inventory path exactly.
	if inventory[ref] {
		return ref
	}
	return ""
}

// BuildEdgeMap extracts and resolves references for every discovered file,
// producing the edge map consumed by the graph builder. Keys are the
// files' root-relative paths.
func BuildEdgeMap(files []discovery.File) map[string][]string {
	inventory := make(map[string]bool, len(files))
	for _, f := range files {
		inventory[f.RelPath] = true
	}

	result := make(map[string][]string, len(files))
	for _, f := range files {
		var deps []string
		for _, ref := range Extract(f.Contents, f.Language) {
			if resolved := Resolve(f.RelPath, ref, inventory); resolved != "" {
				deps = append(deps, resolved)
			}
		}
		result[f.RelPath] = deps
	}
	return result
}

// LoadEdgeFile reads a YAML edge map: each key is a file path, its value
// the list of paths it depends on. Used to bypass extraction entirely.
func LoadEdgeFile(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read edge file %s: %w", path, err)
	}

	var edges map[string][]string
	if err := yaml.Unmarshal(data, &edges); err != nil {
		return nil, fmt.Errorf("cannot parse edge file %s: %w", path, err)
	}
	return edges, nil
}
