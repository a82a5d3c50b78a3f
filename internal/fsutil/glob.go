package fsutil

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NegationPrefix marks a glob pattern that removes matches instead of adding them.
const NegationPrefix = "!"

// ValidPattern reports whether pattern is a syntactically valid glob,
// ignoring a leading negation marker.
func ValidPattern(pattern string) bool {
	p := strings.TrimPrefix(pattern, NegationPrefix)
	if p == "" {
		return false
	}
	return doublestar.ValidatePathPattern(p)
}

// Glob expands patterns into a list of regular files.
//
// Matches are returned in pattern-declaration order and in lexical order
// within a single pattern. A path matched by more than one pattern is kept at
// its first position. Patterns prefixed with "!" remove their matches from the
// result regardless of where they are declared; relative patterns of either
// kind resolve against the working directory. Paths listed in exclude are
// never returned; they are compared as cleaned absolute paths.
func Glob(patterns []string, exclude ...string) ([]string, error) {
	var positives, negatives []string
	for _, p := range patterns {
		if neg, ok := strings.CutPrefix(p, NegationPrefix); ok {
			negatives = append(negatives, absKey(neg))
			continue
		}
		positives = append(positives, p)
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		excluded[absKey(e)] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range positives {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)

		for _, m := range matches {
			key := absKey(m)
			if _, dup := seen[key]; dup {
				continue
			}
			if _, skip := excluded[key]; skip {
				continue
			}
			if isNegated(key, negatives) {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, m)
		}
	}
	return out, nil
}

// isNegated matches the absolute path against negations that were made
// absolute the same way, so relative and absolute patterns can be mixed.
func isNegated(abs string, negatives []string) bool {
	for _, neg := range negatives {
		if ok, err := doublestar.PathMatch(neg, abs); err == nil && ok {
			return true
		}
	}
	return false
}

func absKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
