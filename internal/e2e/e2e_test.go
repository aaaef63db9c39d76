package e2e_test

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/modlist/internal/e2e"
)

var updateGolden = flag.Bool("update", false, "update golden files")

func TestMain(m *testing.M) {
	flag.Parse()
	e2e.SetUpdateGolden(*updateGolden)
	os.Exit(m.Run())
}

// installedProject lays out three modules at the top of node_modules.
func installedProject(h *e2e.Harness) *e2e.Fixture {
	f := h.ProjectFixture()
	f.InstallModule("react")
	f.InstallModule("left-pad")
	f.InstallModule("@scope/util")
	return f
}

// TestVersionCommand verifies the version command works correctly.
func TestVersionCommand(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("version")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "modlist version")
}

// TestListPlainGolden verifies plain output order against a golden file.
func TestListPlainGolden(t *testing.T) {
	h := e2e.NewHarness(t)
	f := installedProject(h)

	result := h.Run("list", "--format", "plain", f.Root())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputMatches(t, result, "testdata", "list_plain")
}

// TestListJSONWithPathGolden verifies JSON output with manifest paths.
func TestListJSONWithPathGolden(t *testing.T) {
	if filepath.Separator != '/' {
		t.Skip("golden file uses forward-slash manifest paths")
	}
	h := e2e.NewHarness(t)
	f := installedProject(h)

	result := h.Run("list", "--format", "json", "--with-path", f.Root())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputMatches(t, result, "testdata", "list_json_with_path")
}

// TestListScenarios covers the documented listing behaviors end to end.
func TestListScenarios(t *testing.T) {
	tests := map[string]struct {
		setup func(f *e2e.Fixture)
		args  []string
		want  []string
	}{
		"two modules": {
			args: nil,
			want: []string{"a", "b"},
		},
		"exclude name": {
			args: []string{"--exclude-name", "b"},
			want: []string{"a"},
		},
		"exclude files": {
			args: []string{"--exclude-file", "node_modules/b/**"},
			want: []string{"a"},
		},
		"invalid manifest skipped": {
			setup: func(f *e2e.Fixture) {
				f.WriteFile("node_modules/c/package.json", "{bad")
			},
			want: []string{"a", "b"},
		},
		"nameless manifest skipped": {
			setup: func(f *e2e.Fixture) {
				f.WriteFile("node_modules/c/package.json", `{"version":"2.0.0"}`)
			},
			want: []string{"a", "b"},
		},
		"duplicate names collapse": {
			setup: func(f *e2e.Fixture) {
				f.WriteManifest("node_modules/b/node_modules/a", "a")
			},
			want: []string{"a", "b"},
		},
		"nested dependency": {
			setup: func(f *e2e.Fixture) {
				f.WriteManifest("node_modules/b/node_modules/d", "d")
			},
			want: []string{"a", "b", "d"},
		},
		"custom filter": {
			setup: func(f *e2e.Fixture) {
				f.WriteManifest("packages/web", "web")
			},
			args: []string{"--filter", "packages/*/package.json"},
			want: []string{"web"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h := e2e.NewHarness(t)
			f := h.ProjectFixture()
			f.InstallModule("a")
			f.InstallModule("b")
			if tt.setup != nil {
				tt.setup(f)
			}

			args := append([]string{"list", "-o", "plain"}, tt.args...)
			result := h.Run(append(args, f.Root())...)

			e2e.AssertSuccess(t, result)
			e2e.AssertLines(t, result, tt.want...)
		})
	}
}

// TestListPanicOnError verifies fail-fast reporting through the CLI.
func TestListPanicOnError(t *testing.T) {
	h := e2e.NewHarness(t)
	f := h.ProjectFixture()
	f.InstallModule("a")
	f.InstallModule("b")
	f.WriteFile("node_modules/c/package.json", "{bad")

	result := h.Run("list", "--panic-on-error", f.Root())

	e2e.AssertError(t, result)
	e2e.AssertExitCode(t, result, 1)
	e2e.AssertErrorContains(t, result, "invalid package.json found at "+filepath.Join("node_modules", "c", "package.json"))
	e2e.AssertOutputEquals(t, result, "")
}

// TestListConfigFile verifies settings are read from MODLIST_HOME.
func TestListConfigFile(t *testing.T) {
	h := e2e.NewHarness(t)
	f := installedProject(h)
	h.ConfigFixture().WriteFile("config.yaml", "list:\n  exclude_names: [react]\noutput:\n  format: json\n")

	result := h.Run("list", f.Root())

	e2e.AssertSuccess(t, result)
	var names []string
	if err := json.Unmarshal([]byte(result.Stdout), &names); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", result.Stdout, err)
	}
	if strings.Join(names, ",") != "@scope/util,left-pad" {
		t.Errorf("names = %v", names)
	}
}

// TestListEnvironmentOverridesConfigFile verifies env beats the file.
func TestListEnvironmentOverridesConfigFile(t *testing.T) {
	h := e2e.NewHarness(t)
	f := installedProject(h)
	h.ConfigFixture().WriteFile("config.yaml", "output:\n  format: json\n")
	h.SetEnv("MODLIST_OUTPUT_FORMAT", "plain")
	h.SetEnv("MODLIST_LIST_PATH", f.Root())

	result := h.Run("list")

	e2e.AssertSuccess(t, result)
	e2e.AssertLines(t, result, "@scope/util", "left-pad", "react")
}

// TestListDebugLogging verifies skip records reach stderr at debug level.
func TestListDebugLogging(t *testing.T) {
	h := e2e.NewHarness(t)
	f := h.ProjectFixture()
	f.InstallModule("a")
	f.WriteFile("node_modules/c/package.json", "{bad")

	result := h.Run("--debug", "--log-json", "list", "-o", "plain", f.Root())

	e2e.AssertSuccess(t, result)
	e2e.AssertLines(t, result, "a")
	e2e.AssertStderrContains(t, result, `"msg":"skipping manifest without a name"`)
	e2e.AssertStderrContains(t, result, `"operation":"list"`)
}

// TestConfigCommand verifies the effective configuration is printed.
func TestConfigCommand(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("config", "--format", "yaml")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "filters:")
	e2e.AssertOutputContains(t, result, "node_modules/**/package.json")
}

// TestBrowseNoModules verifies browse exits cleanly on an empty tree.
func TestBrowseNoModules(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("browse", h.ProjectFixture().Root())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "No modules found.")
}
