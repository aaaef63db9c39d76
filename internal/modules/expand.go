package modules

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/klauern/modlist/internal/logging"
)

// expand returns the files beneath root matched by any filter and by no
// ignore pattern, as slash-separated paths relative to root. Files are
// listed once, in the order they were first matched. Unreadable
// directories and malformed patterns contribute nothing.
//
// Wildcards pass through at most one symlinked directory per path, or none
// when the pattern starts with **.
func expand(root string, filters, ignores []string, dot bool) []string {
	ignores = normalizePatterns(ignores)
	links := make(map[string]int)

	seen := newOrderedSet()
	for _, pattern := range normalizePatterns(filters) {
		if !doublestar.ValidatePattern(pattern) {
			logging.Debug("skipping malformed filter", logging.Pattern(pattern))
			continue
		}
		tree := newTreeFS(root, pattern, dot, links)

		err := doublestar.GlobWalk(tree, pattern, func(rel string, d fs.DirEntry) error {
			if !tree.visible(rel) {
				return nil
			}
			// Links past the limit surface as entries that no longer stat.
			if d.Type()&fs.ModeSymlink != 0 {
				if _, err := tree.Stat(rel); err != nil {
					return nil
				}
			}
			if matchesAny(ignores, rel) {
				return nil
			}
			seen.add(rel)
			return nil
		}, doublestar.WithFilesOnly())
		if err != nil {
			logging.Debug("glob expansion stopped early",
				logging.Pattern(pattern),
				logging.Err(err),
			)
		}
	}

	return seen.values()
}

// normalizePatterns converts patterns to the slash-separated, root-relative
// form io/fs expects.
func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		for strings.HasPrefix(p, "./") {
			p = strings.TrimPrefix(p, "./")
		}
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}
