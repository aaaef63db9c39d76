// Package config provides configuration management for modlist.
// It supports YAML and TOML configuration files, environment variables,
// and sensible defaults.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klauern/modlist/internal/modules"
	"github.com/klauern/modlist/internal/util"
)

// Config represents the complete modlist configuration.
type Config struct {
	// List configures module discovery
	List ListConfig `yaml:"list" toml:"list"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output" toml:"output"`
}

// ListConfig mirrors modules.Options for persisted use.
type ListConfig struct {
	// Path is the search root; ~ and relative paths are expanded against
	// the working directory. Empty means the working directory.
	Path string `yaml:"path,omitempty" toml:"path,omitempty"`
	// ExcludeNames lists module names left out of results
	ExcludeNames []string `yaml:"exclude_names,omitempty" toml:"exclude_names,omitempty"`
	// ExcludeFiles lists globs whose matches are never read
	ExcludeFiles []string `yaml:"exclude_files,omitempty" toml:"exclude_files,omitempty"`
	// Filters lists the globs selecting candidate manifests
	Filters []string `yaml:"filters" toml:"filters"`
	// PanicOnError aborts at the first manifest without a usable name
	PanicOnError bool `yaml:"panic_on_error" toml:"panic_on_error"`
	// AbortOnExcluded makes PanicOnError also abort on excluded names
	AbortOnExcluded bool `yaml:"abort_on_excluded" toml:"abort_on_excluded"`
	// Dot lets wildcards match hidden path segments
	Dot bool `yaml:"dot" toml:"dot"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (table, plain, json, yaml, toml)
	Format string `yaml:"format" toml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color" toml:"color"`
}

// Output formats.
const (
	FormatTable = "table"
	FormatPlain = "plain"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTOML  = "toml"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		List: ListConfig{
			Filters: []string{modules.DefaultFilter},
		},
		Output: OutputConfig{
			Format: FormatTable,
			Color:  ColorAuto,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the default config file.
func FilePath() string {
	return filepath.Join(util.ModlistConfigPath(), configFileName)
}

// Load loads the default config file, merging it over defaults and then
// applying environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	cfg, err := LoadFromPath(FilePath())
	if err != nil {
		if os.IsNotExist(err) {
			cfg = Default()
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path. Files ending in
// .toml are decoded as TOML, everything else as YAML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config %q: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config %q: %w", path, err)
		}
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// SaveToPath writes the configuration to path in the format implied by
// its extension.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	format := FormatYAML
	if isTOML(path) {
		format = FormatTOML
	}
	data, err := c.Marshal(format)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// Marshal encodes the configuration as yaml or toml.
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(c)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q (want yaml or toml)", format)
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern MODLIST_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	// List settings
	if v := os.Getenv("MODLIST_LIST_PATH"); v != "" {
		c.List.Path = v
	}
	if v := os.Getenv("MODLIST_LIST_EXCLUDE_NAMES"); v != "" {
		c.List.ExcludeNames = splitList(v)
	}
	if v := os.Getenv("MODLIST_LIST_EXCLUDE_FILES"); v != "" {
		c.List.ExcludeFiles = splitList(v)
	}
	if v := os.Getenv("MODLIST_LIST_FILTERS"); v != "" {
		c.List.Filters = splitList(v)
	}
	if v := os.Getenv("MODLIST_LIST_PANIC_ON_ERROR"); v != "" {
		c.List.PanicOnError = parseBool(v)
	}
	if v := os.Getenv("MODLIST_LIST_ABORT_ON_EXCLUDED"); v != "" {
		c.List.AbortOnExcluded = parseBool(v)
	}
	if v := os.Getenv("MODLIST_LIST_DOT"); v != "" {
		c.List.Dot = parseBool(v)
	}

	// Output settings
	if v := os.Getenv("MODLIST_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("MODLIST_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitList splits a comma-separated string. Empty items are dropped.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Options converts the list settings to modules.Options. Path is expanded
// against workDir.
func (lc ListConfig) Options(workDir string) modules.Options {
	return modules.Options{
		Path:            util.ExpandPath(lc.Path, workDir),
		ExcludeNames:    append([]string(nil), lc.ExcludeNames...),
		ExcludeFiles:    append([]string(nil), lc.ExcludeFiles...),
		Filters:         append([]string(nil), lc.Filters...),
		PanicOnError:    lc.PanicOnError,
		AbortOnExcluded: lc.AbortOnExcluded,
		Dot:             lc.Dot,
	}
}
