package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klauern/modlist/internal/config"
	"github.com/klauern/modlist/internal/modules"
	"github.com/klauern/modlist/internal/ui"
)

func isOutputFormat(format string) bool {
	switch format {
	case config.FormatTable, config.FormatPlain, config.FormatJSON, config.FormatYAML, config.FormatTOML:
		return true
	}
	return false
}

// writeModules renders mods in the requested format. Structured formats
// emit names only unless withPath is set, in which case each entry carries
// its manifest path.
func writeModules(w io.Writer, format string, mods []modules.Module, withPath bool) error {
	switch format {
	case config.FormatTable:
		return writeTable(w, mods, withPath)
	case config.FormatPlain:
		return writePlain(w, mods, withPath)
	case config.FormatJSON:
		return writeJSON(w, moduleValue(mods, withPath))
	case config.FormatYAML:
		return writeYAML(w, moduleValue(mods, withPath))
	case config.FormatTOML:
		// TOML documents cannot have an array at the top level.
		return writeTOML(w, map[string]any{"modules": moduleValue(mods, withPath)})
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func moduleValue(mods []modules.Module, withPath bool) any {
	if withPath {
		if mods == nil {
			return []modules.Module{}
		}
		return mods
	}
	return modules.Names(mods)
}

func writeTable(w io.Writer, mods []modules.Module, withPath bool) error {
	if len(mods) == 0 {
		_, err := fmt.Fprintln(w, "No modules found.")
		return err
	}

	nameWidth := len("NAME")
	for _, mod := range mods {
		nameWidth = max(nameWidth, len(mod.Name))
	}

	if withPath {
		fmt.Fprintf(w, "%s  %s\n", ui.Header(fmt.Sprintf("%-*s", nameWidth, "NAME")), ui.Header("MANIFEST"))
		for _, mod := range mods {
			fmt.Fprintf(w, "%-*s  %s\n", nameWidth, mod.Name, ui.Dim(mod.File))
		}
	} else {
		fmt.Fprintf(w, "%s\n", ui.Header("NAME"))
		for _, mod := range mods {
			fmt.Fprintln(w, mod.Name)
		}
	}

	_, err := fmt.Fprintf(w, "\nFound %d module(s)\n", len(mods))
	return err
}

func writePlain(w io.Writer, mods []modules.Module, withPath bool) error {
	for _, mod := range mods {
		var err error
		if withPath {
			_, err = fmt.Fprintf(w, "%s\t%s\n", mod.Name, mod.File)
		} else {
			_, err = fmt.Fprintln(w, mod.Name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// writeJSON outputs any value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeYAML outputs any value as YAML.
func writeYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// writeTOML outputs any value as TOML.
func writeTOML(w io.Writer, v any) error {
	if err := toml.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return nil
}
