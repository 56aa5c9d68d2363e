package rcc

import (
	"context"
	"go/format"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netdiag/netdiag-tools/internal/project"
)

// newTestProject lays out a minimal UI directory and resource manifest
// under root and returns a validated project pointing at them.
func newTestProject(t *testing.T, root string) *project.Project {
	t.Helper()

	uiDir := filepath.Join(root, "ui")
	require.NoError(t, os.MkdirAll(filepath.Join(uiDir, "icons"), 0o755))

	mainDef := `window: main
title: Network Diagnostics
width: 1024
height: 768
widgets:
  - name: interfaceList
    type: list
    label: Interfaces
`
	historyDef := `window: history
title: Diagnostics History
`
	require.NoError(t, os.WriteFile(filepath.Join(uiDir, "main.ui.yaml"), []byte(mainDef), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(uiDir, "history.ui.yaml"), []byte(historyDef), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(uiDir, "icons", "app.png"), []byte("icon bytes"), 0o644))

	manifest := "prefix: /icons\nfiles:\n  - path: icons/app.png\n"
	require.NoError(t, os.WriteFile(filepath.Join(uiDir, "resources.yaml"), []byte(manifest), 0o644))

	p := &project.Project{
		Product: project.Product{
			Name:        "Network-Diagnostics",
			DisplayName: "Network Diagnostics",
		},
		Resources: project.Resources{
			UIDir:     uiDir,
			Manifest:  filepath.Join(uiDir, "resources.yaml"),
			OutputDir: filepath.Join(root, "generated"),
		},
	}
	require.NoError(t, project.Validate(p))

	return p
}

// TestCompile generates one module per window plus the resource registry.
func TestCompile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	c := &compiler{proj: newTestProject(t, root)}

	require.NoError(t, c.Compile(context.Background()))

	outputDir := c.proj.Resources.OutputDir

	for _, name := range []string{"ui_main.go", "ui_history.go", RegistryFilename} {
		contents, err := os.ReadFile(filepath.Join(outputDir, name))
		require.NoError(t, err, name)
		require.Contains(t, string(contents), "Code generated by netdiag-rcc. DO NOT EDIT.")
		require.Contains(t, string(contents), "package generated")

		// Every emitted module is gofmt-clean.
		formatted, err := format.Source(contents)
		require.NoError(t, err, name)
		require.Equal(t, string(contents), string(formatted), name)
	}

	mainModule, err := os.ReadFile(filepath.Join(outputDir, "ui_main.go"))
	require.NoError(t, err)
	require.Contains(t, string(mainModule), "var MainWindow = Window{")
	require.Contains(t, string(mainModule), `"Network Diagnostics"`)
	require.Contains(t, string(mainModule), `"interfaceList"`)

	registry, err := os.ReadFile(filepath.Join(outputDir, RegistryFilename))
	require.NoError(t, err)
	require.Contains(t, string(registry), `"/icons/app.png"`)
	require.Contains(t, string(registry), "func Resource(name string) ([]byte, error)")
}

// TestCompileOverwrites replaces prior generated modules unconditionally.
func TestCompileOverwrites(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	c := &compiler{proj: newTestProject(t, root)}

	stale := filepath.Join(c.proj.Resources.OutputDir, "ui_main.go")
	require.NoError(t, os.MkdirAll(c.proj.Resources.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("stale content"), 0o644))

	require.NoError(t, c.Compile(context.Background()))

	contents, err := os.ReadFile(stale)
	require.NoError(t, err)
	require.NotContains(t, string(contents), "stale content")
}

// TestCompileFailureWritesNothing verifies the all-or-nothing guarantee:
// a single bad input aborts the run before the first write.
func TestCompileFailureWritesNothing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	c := &compiler{proj: newTestProject(t, root)}

	// One window definition is broken; the rest of the inputs are fine.
	broken := filepath.Join(c.proj.Resources.UIDir, "broken.ui.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("window: Broken Name\n"), 0o644))

	require.Error(t, c.Compile(context.Background()))

	// Nothing was generated, not even the valid modules.
	_, err := os.Stat(c.proj.Resources.OutputDir)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestCompileDuplicateWindows rejects two definitions claiming the same window.
func TestCompileDuplicateWindows(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	c := &compiler{proj: newTestProject(t, root)}

	clone := "window: main\ntitle: Another Main\n"
	require.NoError(t, os.WriteFile(
		filepath.Join(c.proj.Resources.UIDir, "zz_clone.ui.yaml"), []byte(clone), 0o644))

	err := c.Compile(context.Background())
	require.ErrorIs(t, err, errDuplicateWindow)
}

// TestCompileEmptyUIDir fails when no definitions are present.
func TestCompileEmptyUIDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p := newTestProject(t, root)

	empty := filepath.Join(root, "empty-ui")
	require.NoError(t, os.MkdirAll(empty, 0o755))

	p.Resources.UIDir = empty
	c := &compiler{proj: p}

	err := c.Compile(context.Background())
	require.ErrorIs(t, err, errNoUIDefinitions)
}
