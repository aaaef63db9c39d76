package e2e

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Fixture provides helpers for creating test fixtures in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// Root returns the fixture base directory.
func (f *Fixture) Root() string {
	return f.baseDir
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}

	return fullPath
}

// WriteManifest writes a package.json declaring name into relDir.
// This is a convenience helper for creating installed modules.
func (f *Fixture) WriteManifest(relDir, name string) string {
	f.t.Helper()

	data, err := json.Marshal(map[string]string{"name": name, "version": "1.0.0"})
	if err != nil {
		f.t.Fatalf("failed to encode manifest for %s: %v", name, err)
	}
	return f.WriteFile(filepath.Join(relDir, "package.json"), string(data))
}

// InstallModule writes node_modules/<name>/package.json.
func (f *Fixture) InstallModule(name string) string {
	f.t.Helper()
	return f.WriteManifest(filepath.Join("node_modules", filepath.FromSlash(name)), name)
}

// MkdirAll creates a directory and all parent directories relative to the base.
func (f *Fixture) MkdirAll(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	if err := os.MkdirAll(fullPath, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, relPath)
}

// Exists returns true if the file or directory exists.
func (f *Fixture) Exists(relPath string) bool {
	f.t.Helper()
	_, err := os.Stat(filepath.Join(f.baseDir, relPath))
	return err == nil
}

// ProjectFixture creates a fixture helper for a new project directory.
func (h *Harness) ProjectFixture() *Fixture {
	h.t.Helper()
	return NewFixture(h.t, h.t.TempDir())
}

// ConfigFixture creates a fixture helper for the MODLIST_HOME directory.
func (h *Harness) ConfigFixture() *Fixture {
	h.t.Helper()

	dir := h.ConfigDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		h.t.Fatalf("failed to create config directory: %v", err)
	}
	return NewFixture(h.t, dir)
}
