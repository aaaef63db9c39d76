package modules

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFilter matches package.json manifests nested at any depth under
// a node_modules directory.
const DefaultFilter = "node_modules/**/package.json"

// Options configures a listing. The zero value lists every module beneath
// the working directory. Each field falls back to its default on its own,
// so setting one field never discards the defaults of the others.
type Options struct {
	// Path is the search root. Relative paths resolve against the working
	// directory. Defaults to the working directory.
	Path string

	// ExcludeNames lists module names left out of the result.
	ExcludeNames []string

	// ExcludeFiles lists globs, relative to the search root, whose matches
	// are never read.
	ExcludeFiles []string

	// PanicOnError aborts the listing with a *ValidationError at the first
	// candidate that does not yield a usable name.
	PanicOnError bool

	// AbortOnExcluded extends PanicOnError to candidates whose name is in
	// ExcludeNames. Has no effect unless PanicOnError is set.
	AbortOnExcluded bool

	// Filters lists the globs, relative to the search root, that select
	// candidate manifests. Defaults to []string{DefaultFilter}.
	Filters []string

	// Dot lets wildcards match path segments that begin with a dot, such
	// as node_modules/.pnpm. A pattern segment that itself begins with a
	// dot always matches, without opening other hidden directories.
	Dot bool

	// Progress, when set, is called after each candidate is processed.
	Progress func(done, total int)
}

// withDefaults returns a copy of o with every unset field defaulted.
// An empty slice counts as unset.
func (o Options) withDefaults(workDir string) Options {
	if o.Path == "" {
		o.Path = workDir
	}
	if len(o.Filters) == 0 {
		o.Filters = []string{DefaultFilter}
	}
	return o
}

// resolveRoot returns the absolute search root for path.
func resolveRoot(workDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(workDir, path)
}

// workingDir reads the process working directory. It is the only place
// the package consults ambient process state.
func workingDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	return wd, nil
}
