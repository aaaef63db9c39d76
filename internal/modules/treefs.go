package modules

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// treeFS is the view of a search root that one filter pattern is walked
// over. It hides dot entries the pattern cannot name and stops paths from
// passing through more than maxLinks symlinked directories, so link
// cycles end after one lap.
type treeFS struct {
	root     string
	fsys     fs.FS
	dot      bool
	named    []string // pattern segments beginning with a dot
	maxLinks int
	links    map[string]int
}

// newTreeFS prepares root for walking pattern. links caches the number of
// symlinked directories crossed to reach each path and may be shared by
// every pattern walked over the same root.
func newTreeFS(root, pattern string, dot bool, links map[string]int) *treeFS {
	t := &treeFS{
		root:     root,
		fsys:     os.DirFS(root),
		dot:      dot,
		named:    dotSegments(pattern),
		maxLinks: 1,
		links:    links,
	}
	// A leading ** follows no links at all, as in bash.
	if pattern == "**" || strings.HasPrefix(pattern, "**/") {
		t.maxLinks = 0
	}
	return t
}

func (t *treeFS) Open(name string) (fs.File, error) {
	return t.fsys.Open(name)
}

// ReadDir lists name without the dot entries the pattern cannot match.
func (t *treeFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := fs.ReadDir(t.fsys, name)
	if err != nil {
		return nil, err
	}
	if t.dot {
		return entries, nil
	}
	visible := entries[:0]
	for _, e := range entries {
		if isHidden(e.Name()) && !t.allowsHidden(e.Name()) {
			continue
		}
		visible = append(visible, e)
	}
	return visible, nil
}

// Stat reports paths past the symlink limit as missing.
func (t *treeFS) Stat(name string) (fs.FileInfo, error) {
	if t.linkDepth(name) > t.maxLinks {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return fs.Stat(t.fsys, name)
}

// visible reports whether every hidden segment of rel is one the pattern
// may match.
func (t *treeFS) visible(rel string) bool {
	if t.dot {
		return true
	}
	for _, seg := range strings.Split(rel, "/") {
		if isHidden(seg) && !t.allowsHidden(seg) {
			return false
		}
	}
	return true
}

func (t *treeFS) allowsHidden(name string) bool {
	for _, seg := range t.named {
		if matched, err := doublestar.Match(seg, name); err == nil && matched {
			return true
		}
	}
	return false
}

// linkDepth counts the symlinked directories on the way to name,
// including name itself.
func (t *treeFS) linkDepth(name string) int {
	name = strings.TrimSuffix(name, "/")
	if name == "." || name == "" {
		return 0
	}
	if n, ok := t.links[name]; ok {
		return n
	}

	n := t.linkDepth(path.Dir(name))
	full := filepath.Join(t.root, filepath.FromSlash(name))
	if info, err := os.Lstat(full); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		if target, err := os.Stat(full); err == nil && target.IsDir() {
			n++
		}
	}
	t.links[name] = n
	return n
}

// dotSegments returns the segments of pattern that begin with a dot, split
// at path separators and brace alternatives.
func dotSegments(pattern string) []string {
	var segs []string
	for _, seg := range strings.FieldsFunc(pattern, func(r rune) bool {
		return r == '/' || r == '{' || r == '}' || r == ','
	}) {
		if isHidden(seg) {
			segs = append(segs, seg)
		}
	}
	return segs
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
