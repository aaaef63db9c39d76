// Package modules discovers installed package manifests beneath a
// directory tree and collects the module names they declare.
package modules

import (
	"path/filepath"

	"github.com/klauern/modlist/internal/jsonread"
	"github.com/klauern/modlist/internal/logging"
)

// Module is a discovered module name together with the manifest that
// first declared it.
type Module struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	// File is the manifest path relative to the search root.
	File string `json:"file" yaml:"file" toml:"file"`
}

// List returns the distinct module names declared by manifests beneath the
// search root, in the order they were first found.
//
// With PanicOnError unset List only fails when the working directory is
// needed and cannot be read. Unreadable or malformed manifests are skipped.
func List(opts Options) ([]string, error) {
	mods, err := Discover(opts)
	if err != nil {
		return nil, err
	}
	return Names(mods), nil
}

// Discover is List, keeping the manifest that contributed each name.
func Discover(opts Options) ([]Module, error) {
	if opts.Path != "" && filepath.IsAbs(opts.Path) {
		return DiscoverFrom("", opts)
	}
	wd, err := workingDir()
	if err != nil {
		return nil, err
	}
	return DiscoverFrom(wd, opts)
}

// DiscoverFrom is Discover with an explicit working directory against
// which a relative (or empty) opts.Path is resolved.
func DiscoverFrom(workDir string, opts Options) ([]Module, error) {
	opts = opts.withDefaults(workDir)
	root := resolveRoot(workDir, opts.Path)
	return discover(root, opts)
}

// Names projects modules onto their names.
func Names(mods []Module) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name
	}
	return names
}

func discover(root string, opts Options) ([]Module, error) {
	logger := logging.With(logging.Root(root))

	excluded := newOrderedSet()
	for _, name := range opts.ExcludeNames {
		excluded.add(name)
	}

	files := expand(root, opts.Filters, opts.ExcludeFiles, opts.Dot)
	logger.Debug("expanded filters", logging.Count(len(files)))

	readName := jsonread.StringField("name")
	found := newOrderedSet()
	mods := make([]Module, 0, len(files))

	for i, rel := range files {
		file := filepath.FromSlash(rel)
		name, ok := jsonread.Read(filepath.Join(root, file), readName)

		switch {
		case !ok || name == "":
			if opts.PanicOnError {
				return nil, &ValidationError{File: file, Reason: ReasonInvalidManifest}
			}
			logger.Debug("skipping manifest without a name", logging.Path(file))

		case excluded.has(name):
			// Excluded names only abort when explicitly requested.
			if opts.PanicOnError && opts.AbortOnExcluded {
				return nil, &ValidationError{File: file, Reason: ReasonExcludedName, Name: name}
			}
			logger.Debug("skipping excluded module", logging.Module(name), logging.Path(file))

		default:
			if found.add(name) {
				mods = append(mods, Module{Name: name, File: file})
			}
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(files))
		}
	}

	logger.Debug("listing complete", logging.Count(found.len()))
	return mods, nil
}
