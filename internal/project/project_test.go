package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and default filling.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing product name.
	p := new(Project)

	err := Validate(p)
	require.Error(t, err)

	// Whitespace in the archive-name token.
	p = &Project{
		Product: Product{Name: "Network Diagnostics", DisplayName: "Network Diagnostics"},
	}

	err = Validate(p)
	require.Error(t, err)

	// Missing display name.
	p = &Project{Product: Product{Name: "Network-Diagnostics"}}

	err = Validate(p)
	require.Error(t, err)

	// Minimal valid manifest: defaults fill everything else.
	p = &Project{
		Product: Product{Name: "Network-Diagnostics", DisplayName: "Network Diagnostics"},
	}

	err = Validate(p)
	require.NoError(t, err)
	require.Equal(t, "network-diagnostics", p.Product.Executable)
	require.Equal(t, "win", p.Product.Platform)
	require.Equal(t, "x64", p.Product.Arch)
	require.Equal(t, "dist", p.Paths.DistDir)
	require.Equal(t, filepath.Join("dist", ".staging"), p.Paths.StagingDir)
	require.Equal(t, "LICENSE", p.Paths.License)
	require.Equal(t, "README.md", p.Paths.Readme)
	require.Equal(t, "generated", p.Resources.Package)
}

// TestSaveLoadRoundtrip ensures the manifest is persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "netdiag.toml")

	p := &Project{
		Product: Product{
			Name:        "Network-Diagnostics",
			DisplayName: "Network Diagnostics",
			Platform:    "win",
			Arch:        "x64",
		},
	}

	require.NoError(t, Save(path, p))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, p.Product.Name, loaded.Product.Name)
	require.Equal(t, p.Product.DisplayName, loaded.Product.DisplayName)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestArchiveName verifies the release naming template.
func TestArchiveName(t *testing.T) {
	t.Parallel()

	p := &Project{
		Product: Product{Name: "Network-Diagnostics", DisplayName: "Network Diagnostics"},
	}
	require.NoError(t, Validate(p))

	require.Equal(t, "Network-Diagnostics_v1.4.0_win-x64.zip", p.ArchiveName("1.4.0"))
	require.Equal(t, "Network-Diagnostics_v1.4.0_checksums.yaml", p.ChecksumsName("1.4.0"))
}

// TestManifestEnvOverride checks the environment override for the manifest path.
func TestManifestEnvOverride(t *testing.T) {
	t.Setenv(ManifestEnvVar, "custom.toml")
	require.Equal(t, "custom.toml", DefaultManifestPath())
}
