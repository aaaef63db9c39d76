package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/klauern/modlist/internal/logging"
	"github.com/klauern/modlist/internal/modules"
	"github.com/klauern/modlist/internal/util"
)

func TestVersionVariables(t *testing.T) {
	// Version should be set (even if to "dev")
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate should not be empty")
	}
}

func TestConfigureLogging(t *testing.T) {
	tests := map[string]struct {
		args      []string
		wantDebug bool
		wantInfo  bool
	}{
		"no flags only logs warnings": {
			args: []string{"version"},
		},
		"verbose flag enables info level": {
			args:     []string{"--verbose", "version"},
			wantInfo: true,
		},
		"debug flag enables debug level": {
			args:      []string{"--debug", "version"},
			wantDebug: true,
			wantInfo:  true,
		},
		"json logging keeps the level flags": {
			args:      []string{"--log-json", "--debug", "version"},
			wantDebug: true,
			wantInfo:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			oldStderr := os.Stderr
			devNull, err := os.Open(os.DevNull)
			if err != nil {
				t.Fatalf("failed to open %s: %v", os.DevNull, err)
			}
			os.Stderr = devNull
			defer func() {
				os.Stderr = oldStderr
				_ = devNull.Close()
			}()

			logging.SetDefault(logging.New(logging.DefaultOptions()))

			if _, err := runCaptured(t, tt.args...); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			logger := logging.Default()
			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := logger.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("info enabled = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

// moduleTree lays out node_modules/a and node_modules/b beneath a temp dir.
func moduleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	util.WriteFile(t, filepath.Join(root, "node_modules", "a", "package.json"), `{"name":"a","version":"1.0.0"}`)
	util.WriteFile(t, filepath.Join(root, "node_modules", "b", "package.json"), `{"name":"b"}`)
	return root
}

func TestListCommand(t *testing.T) {
	root := moduleTree(t)
	util.WriteFile(t, filepath.Join(root, "node_modules", "c", "package.json"), `{bad`)

	tests := map[string]struct {
		args []string
		want string
	}{
		"plain": {
			args: []string{"list", "--format", "plain", root},
			want: "a\nb\n",
		},
		"exclude name": {
			args: []string{"list", "-o", "plain", "-x", "b", root},
			want: "a\n",
		},
		"exclude file": {
			args: []string{"list", "-o", "plain", "-X", "node_modules/b/**", root},
			want: "a\n",
		},
		"filter": {
			args: []string{"list", "-o", "plain", "-f", "node_modules/{b,c}/package.json", root},
			want: "b\n",
		},
		"repeated exclude names": {
			args: []string{"list", "-o", "plain", "-x", "a", "-x", "b", root},
			want: "",
		},
		"plain with path": {
			args: []string{"list", "-o", "plain", "--with-path", root},
			want: "a\t" + filepath.Join("node_modules", "a", "package.json") + "\n" +
				"b\t" + filepath.Join("node_modules", "b", "package.json") + "\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output, err := runCaptured(t, tt.args...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if output != tt.want {
				t.Errorf("output = %q, want %q", output, tt.want)
			}
		})
	}
}

func TestListCommandPanicOnError(t *testing.T) {
	root := moduleTree(t)
	util.WriteFile(t, filepath.Join(root, "node_modules", "c", "package.json"), `{bad`)

	_, err := runCaptured(t, "list", "--panic-on-error", root)
	if err == nil {
		t.Fatal("expected an error for the invalid manifest")
	}
	if !errors.Is(err, modules.ErrInvalidManifest) {
		t.Errorf("expected ErrInvalidManifest, got %v", err)
	}
	if !strings.Contains(err.Error(), filepath.Join("node_modules", "c", "package.json")) {
		t.Errorf("error should name the offending manifest, got %q", err.Error())
	}
}

func TestListCommandAbortOnExcluded(t *testing.T) {
	root := moduleTree(t)

	output, err := runCaptured(t, "list", "-o", "plain", "-p", "-x", "b", root)
	if err != nil {
		t.Fatalf("excluded names should not abort by default, got %v", err)
	}
	if output != "a\n" {
		t.Errorf("output = %q, want %q", output, "a\n")
	}

	_, err = runCaptured(t, "list", "-p", "--abort-on-excluded", "-x", "b", root)
	var vErr *modules.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *modules.ValidationError, got %v", err)
	}
	if vErr.Name != "b" {
		t.Errorf("Name = %q, want %q", vErr.Name, "b")
	}
}

func TestListCommandStructuredFormats(t *testing.T) {
	root := moduleTree(t)

	t.Run("json", func(t *testing.T) {
		output, err := runCaptured(t, "list", "--format", "json", root)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		var names []string
		if err := json.Unmarshal([]byte(output), &names); err != nil {
			t.Fatalf("invalid JSON %q: %v", output, err)
		}
		util.AssertStrings(t, names, []string{"a", "b"})
	})

	t.Run("yaml with path", func(t *testing.T) {
		output, err := runCaptured(t, "list", "--format", "yaml", "--with-path", root)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		var mods []modules.Module
		if err := yaml.Unmarshal([]byte(output), &mods); err != nil {
			t.Fatalf("invalid YAML %q: %v", output, err)
		}
		if len(mods) != 2 || mods[1].Name != "b" || mods[1].File != filepath.Join("node_modules", "b", "package.json") {
			t.Errorf("unexpected modules %+v", mods)
		}
	})

	t.Run("toml", func(t *testing.T) {
		output, err := runCaptured(t, "list", "--format", "toml", root)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !strings.Contains(output, `modules = ["a", "b"]`) {
			t.Errorf("unexpected TOML output %q", output)
		}
	})

	t.Run("empty json", func(t *testing.T) {
		output, err := runCaptured(t, "list", "--format", "json", t.TempDir())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if strings.TrimSpace(output) != "[]" {
			t.Errorf("expected an empty JSON array, got %q", output)
		}
	})
}

func TestListCommandTable(t *testing.T) {
	root := moduleTree(t)

	output, err := runCaptured(t, "--no-color", "list", "--with-path", root)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, want := range []string{"NAME", "MANIFEST", "a", filepath.Join("node_modules", "b", "package.json"), "Found 2 module(s)"} {
		if !strings.Contains(output, want) {
			t.Errorf("table output missing %q: %q", want, output)
		}
	}
}

func TestListCommandRejectsBadInput(t *testing.T) {
	root := moduleTree(t)

	tests := map[string][]string{
		"unknown format": {"list", "--format", "xml", root},
		"two paths":      {"list", root, root},
		"invalid color":  {"list", root},
		"missing config": {"--config", filepath.Join(root, "missing.yaml"), "list", root},
		"malformed toml": {"--config", filepath.Join(root, "bad.toml"), "list", root},
	}
	util.WriteFile(t, filepath.Join(root, "bad.toml"), "[list\n")

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if name == "invalid color" {
				t.Setenv("MODLIST_OUTPUT_COLOR", "sometimes")
			}
			if _, err := runCaptured(t, args...); err == nil {
				t.Errorf("Run(%q) should fail", args)
			}
		})
	}
}

func TestListCommandUsesConfigFile(t *testing.T) {
	root := moduleTree(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	util.WriteFile(t, configPath, "list:\n  path: "+root+"\n  exclude_names: [a]\noutput:\n  format: plain\n")

	output, err := runCaptured(t, "--config", configPath, "list")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if output != "b\n" {
		t.Errorf("output = %q, want %q", output, "b\n")
	}

	// Flags win over the file.
	output, err = runCaptured(t, "--config", configPath, "list", "-x", "b", "-o", "json")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	var names []string
	if err := json.Unmarshal([]byte(output), &names); err != nil {
		t.Fatalf("invalid JSON %q: %v", output, err)
	}
	util.AssertStrings(t, names, []string{"a"})
}

func TestListCommandEnvironment(t *testing.T) {
	root := moduleTree(t)
	t.Setenv("MODLIST_LIST_EXCLUDE_NAMES", "a")
	t.Setenv("MODLIST_OUTPUT_FORMAT", "plain")

	output, err := runCaptured(t, "list", root)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if output != "b\n" {
		t.Errorf("output = %q, want %q", output, "b\n")
	}
}

func TestListCommandWorkingDirectory(t *testing.T) {
	root := moduleTree(t)
	t.Chdir(root)

	output, err := runCaptured(t, "ls", "-o", "plain")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if output != "a\nb\n" {
		t.Errorf("output = %q, want %q", output, "a\nb\n")
	}
}

func TestBrowseCommandNoModules(t *testing.T) {
	output, err := runCaptured(t, "browse", t.TempDir())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(output, "No modules found.") {
		t.Errorf("output = %q", output)
	}
}

func TestBrowseCommandPropagatesErrors(t *testing.T) {
	root := moduleTree(t)
	util.WriteFile(t, filepath.Join(root, "node_modules", "c", "package.json"), `{"version":"1.0.0"}`)

	_, err := runCaptured(t, "browse", "--panic-on-error", root)
	if !errors.Is(err, modules.ErrInvalidManifest) {
		t.Errorf("expected ErrInvalidManifest, got %v", err)
	}
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("MODLIST_LIST_EXCLUDE_NAMES", "fsevents")

	t.Run("summary", func(t *testing.T) {
		output, err := runCaptured(t, "--no-color", "config")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		for _, want := range []string{"Config file:", "not found, using defaults", "List", "fsevents", modules.DefaultFilter, "Output", "Table"} {
			if !strings.Contains(output, want) {
				t.Errorf("summary missing %q: %q", want, output)
			}
		}
	})

	t.Run("yaml", func(t *testing.T) {
		output, err := runCaptured(t, "config", "--format", "yaml")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !strings.Contains(output, "exclude_names:") || !strings.Contains(output, "- fsevents") {
			t.Errorf("unexpected YAML %q", output)
		}
	})

	t.Run("toml", func(t *testing.T) {
		output, err := runCaptured(t, "config", "--format", "toml")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !strings.Contains(output, "[list]") || !strings.Contains(output, `exclude_names = ["fsevents"]`) {
			t.Errorf("unexpected TOML %q", output)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := runCaptured(t, "config", "--format", "ini"); err == nil {
			t.Error("expected an error for an unknown format")
		}
	})
}

func TestRunDiscoveryUsesContextLogger(t *testing.T) {
	root := moduleTree(t)

	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf, JSON: true})
	ctx := logging.NewContext(context.Background(), logger)

	mods, err := runDiscovery(ctx, "list", modules.Options{Path: root})
	if err != nil {
		t.Fatalf("runDiscovery() error = %v", err)
	}
	util.AssertStrings(t, modules.Names(mods), []string{"a", "b"})

	for _, want := range []string{`"msg":"discovering modules"`, `"operation":"list"`, `"count":2`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output missing %s: %s", want, buf.String())
		}
	}
}
