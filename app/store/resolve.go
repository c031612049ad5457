package store

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Strategy proposes candidate locations for a declared source path. Each is
// a pure function of the declared path and the known content roots; the
// resolver applies them in order and takes the first candidate that exists.
type Strategy func(declared string, roots []string) []string

var strategies = []Strategy{
	asDeclared,
	separatorNormalized,
	relativeToRoots,
}

func asDeclared(declared string, _ []string) []string {
	return []string{declared}
}

func separatorNormalized(declared string, _ []string) []string {
	return []string{normalizePath(declared)}
}

func relativeToRoots(declared string, roots []string) []string {
	name := normalizePath(declared)
	candidates := make([]string, 0, len(roots))
	for _, root := range roots {
		candidates = append(candidates, filepath.Join(root, name))
	}
	return candidates
}

func normalizePath(p string) string {
	return filepath.FromSlash(strings.ReplaceAll(p, "\\", "/"))
}

// Resolver maps declared metadata paths to files actually present under the
// content roots. The filename inventory backs the last-resort strategy:
// match by basename wherever the file ended up.
type Resolver struct {
	roots  []string
	byName map[string]string
}

func NewResolver(roots []string) *Resolver {
	r := &Resolver{roots: roots, byName: make(map[string]string)}
	for _, root := range roots {
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if _, seen := r.byName[d.Name()]; !seen {
				r.byName[d.Name()] = path
			}
			return nil
		})
	}
	return r
}

// Resolve returns the first existing candidate for a declared path.
func (r *Resolver) Resolve(declared string) (string, bool) {
	if declared == "" {
		return "", false
	}
	for _, strategy := range strategies {
		for _, candidate := range strategy(declared, r.roots) {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
	}
	if path, ok := r.byName[filepath.Base(normalizePath(declared))]; ok {
		return path, true
	}
	return "", false
}

// Repair rewrites record paths to their resolved locations. Running it again
// on already-repaired records changes nothing: a resolved path resolves to
// itself via the first strategy.
func (r *Resolver) Repair(records []Record) bool {
	changed := false
	for i := range records {
		resolved, ok := r.Resolve(records[i].Path)
		if ok && resolved != records[i].Path {
			records[i].Path = resolved
			changed = true
		}
	}
	return changed
}
