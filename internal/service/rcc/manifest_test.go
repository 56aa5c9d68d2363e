package rcc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

// TestLoadResourceManifest resolves aliases, joins the prefix and compresses payloads.
func TestLoadResourceManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "icons"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icons", "app.png"), []byte("png payload"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icons", "warn.png"), []byte("warn payload"), 0o644))

	manifest := `prefix: /icons
files:
  - path: icons/app.png
    alias: application.png
  - path: icons/warn.png
`
	manifestPath := filepath.Join(dir, "resources.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0o644))

	resources, err := loadResourceManifest(manifestPath)
	require.NoError(t, err)
	require.Len(t, resources, 2)

	// Sorted by registry key.
	require.Equal(t, "/icons/application.png", resources[0].Key)
	require.Equal(t, "/icons/warn.png", resources[1].Key)

	// Payloads decompress back to the original bytes.
	decoder, err := zstd.NewReader(nil)
	require.NoError(t, err)

	defer decoder.Close()

	decoded, err := decoder.DecodeAll(resources[0].Payload, nil)
	require.NoError(t, err)
	require.Equal(t, "png payload", string(decoded))
}

// TestLoadResourceManifestErrors covers the fatal input conditions.
func TestLoadResourceManifestErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	write := func(contents string) string {
		path := filepath.Join(dir, "resources.yaml")
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

		return path
	}

	// Empty manifest.
	_, err := loadResourceManifest(write("files: []\n"))
	require.ErrorIs(t, err, errNoResourceFiles)

	// Missing path.
	_, err = loadResourceManifest(write("files:\n  - alias: x\n"))
	require.ErrorIs(t, err, errResourcePathEmpty)

	// Duplicate registry key.
	_, err = loadResourceManifest(write("files:\n  - path: a.txt\n  - path: a.txt\n"))
	require.ErrorIs(t, err, errDuplicateResource)

	// Unreadable resource file.
	_, err = loadResourceManifest(write("files:\n  - path: missing.txt\n"))
	require.Error(t, err)

	// Missing manifest file.
	_, err = loadResourceManifest(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}
