package fs

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceResolver = (*Resolver)(nil)

// recursiveMarker splits a pattern into a directory to walk and a tail to match.
const recursiveMarker = "**"

// Resolver implements ports.SourceResolver with filepath.Glob and the Walker.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// ResolveSources expands patterns relative to root.
//
// A literal path is kept as written even when the file is missing, so the compiler
// reports it. A glob must match at least one file. "dir/**/tail" walks dir and keeps
// files whose trailing path segments match tail. Matches of one pattern are sorted,
// patterns are applied in order, and repeated units are dropped.
func (r *Resolver) ResolveSources(root string, patterns []string) ([]domain.CompilationUnit, error) {
	seen := make(map[string]bool)
	var units []domain.CompilationUnit

	add := func(rel string) {
		rel = filepath.ToSlash(filepath.Clean(rel))
		if seen[rel] {
			return
		}
		seen[rel] = true
		units = append(units, domain.CompilationUnit(rel))
	}

	for _, pattern := range patterns {
		switch {
		case strings.Contains(pattern, recursiveMarker):
			matches, err := r.walk(root, pattern)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
		case isGlob(pattern):
			matches, err := r.glob(root, pattern)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
		default:
			add(pattern)
		}
	}

	return units, nil
}

func (r *Resolver) glob(root, pattern string) ([]string, error) {
	path := filepath.Join(root, filepath.FromSlash(pattern))
	matches, err := filepath.Glob(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", path)
	}
	if len(matches) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrSourceNotFound, "input not found"), "path", path)
	}

	rels := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(root, m)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", m)
		}
		rels = append(rels, rel)
	}
	slices.Sort(rels)
	return rels, nil
}

func (r *Resolver) walk(root, pattern string) ([]string, error) {
	base, tail, _ := strings.Cut(filepath.ToSlash(pattern), recursiveMarker)
	tail = strings.TrimPrefix(tail, "/")
	if tail == "" {
		tail = "*"
	}
	if _, err := filepath.Match(tail, ""); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "pattern", pattern)
	}
	tailDepth := strings.Count(tail, "/") + 1

	dir := filepath.Join(root, filepath.FromSlash(base))
	var rels []string
	for path := range r.walker.WalkFiles(dir) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}
		if matched, _ := filepath.Match(tail, lastSegments(filepath.ToSlash(rel), tailDepth)); matched {
			rels = append(rels, rel)
		}
	}

	if len(rels) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrSourceNotFound, "input not found"), "path", filepath.Join(root, pattern))
	}
	slices.Sort(rels)
	return rels, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// lastSegments returns the final n slash-separated segments of path.
func lastSegments(path string, n int) string {
	parts := strings.Split(path, "/")
	if len(parts) <= n {
		return path
	}
	return strings.Join(parts[len(parts)-n:], "/")
}
