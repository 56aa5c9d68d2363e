package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/xyproto/env/v2"
)

// Product identifies the application being packaged.
type Product struct {
	// Name is the archive-name token, without spaces.
	Name string `toml:"name"`
	// DisplayName names the top-level directory inside the archive.
	DisplayName string `toml:"display_name"`
	// Executable is the base name of the application binary inside the build directory.
	Executable string `toml:"executable"`
	// Platform is the target platform literal used in the archive name.
	Platform string `toml:"platform"`
	// Arch is the target architecture literal used in the archive name.
	Arch string `toml:"arch"`
}

// Paths groups the filesystem layout the packager operates on.
type Paths struct {
	// BuildDir is the upstream build output directory (external precondition).
	BuildDir string `toml:"build_dir"`
	// DistDir receives the final archive and checksum manifest.
	DistDir string `toml:"dist_dir"`
	// StagingDir is recreated from scratch on every packaging run.
	StagingDir string `toml:"staging_dir"`
	// License is the license file copied next to the build output.
	License string `toml:"license"`
	// Readme is the readme file copied next to the build output.
	Readme string `toml:"readme"`
}

// Resources groups the resource-compiler inputs and outputs.
type Resources struct {
	// UIDir holds the *.ui.yaml window definitions.
	UIDir string `toml:"ui_dir"`
	// Manifest is the resource-collection manifest file.
	Manifest string `toml:"manifest"`
	// OutputDir receives the generated modules.
	OutputDir string `toml:"output_dir"`
	// Package is the Go package name of the generated modules.
	Package string `toml:"package"`
}

// Project is the manifest shared by both build tools. It is the single source
// of project metadata; the release version is never stored here.
type Project struct {
	Product   Product   `toml:"product"`
	Paths     Paths     `toml:"paths"`
	Resources Resources `toml:"resources"`
}

const (
	// DefaultManifestFilename is the conventional manifest location.
	DefaultManifestFilename = "netdiag.toml"

	// ManifestEnvVar overrides the manifest location when set.
	ManifestEnvVar = "NETDIAG_MANIFEST"

	// DefaultFilePermissions is the file permission used when saving the manifest.
	DefaultFilePermissions = 0o600

	// ArchiveExtension is the extension of the produced distributable.
	ArchiveExtension = "zip"
)

var (
	// errProjectIsNotSet is returned when a nil manifest is provided.
	errProjectIsNotSet = errors.New("project manifest is not set")
	// errProductNameRequired is returned when the product name is missing.
	errProductNameRequired = errors.New("product name must be provided")
	// errProductNameSpaces is returned when the archive-name token contains whitespace.
	errProductNameSpaces = errors.New("product name must not contain whitespace")
	// errDisplayNameRequired is returned when the display name is missing.
	errDisplayNameRequired = errors.New("product display name must be provided")
)

// DefaultManifestPath returns the manifest path honoring the environment override.
func DefaultManifestPath() string {
	return env.Str(ManifestEnvVar, DefaultManifestFilename)
}

// Load reads the project manifest from the provided path and validates it.
func Load(path string) (*Project, error) {
	if path == "" {
		path = DefaultManifestPath()
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read project manifest: %w", err)
	}

	var p Project
	if err := toml.Unmarshal(contents, &p); err != nil {
		return nil, fmt.Errorf("unmarshal project manifest: %w", err)
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}

	return &p, nil
}

// Save writes the project manifest to the provided path.
func Save(path string, p *Project) error {
	if p == nil {
		return errProjectIsNotSet
	}

	if path == "" {
		path = DefaultManifestPath()
	}

	if err := Validate(p); err != nil {
		return err
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project manifest: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write project manifest: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults for the optional ones.
func Validate(p *Project) error {
	if p == nil {
		return errProjectIsNotSet
	}

	if p.Product.Name == "" {
		return errProductNameRequired
	}

	if strings.ContainsAny(p.Product.Name, " \t") {
		return errProductNameSpaces
	}

	if p.Product.DisplayName == "" {
		return errDisplayNameRequired
	}

	if p.Product.Executable == "" {
		p.Product.Executable = strings.ToLower(p.Product.Name)
	}

	if p.Product.Platform == "" {
		p.Product.Platform = "win"
	}

	if p.Product.Arch == "" {
		p.Product.Arch = "x64"
	}

	if p.Paths.BuildDir == "" {
		p.Paths.BuildDir = filepath.Join("build", p.Product.Executable)
	}

	if p.Paths.DistDir == "" {
		p.Paths.DistDir = "dist"
	}

	if p.Paths.StagingDir == "" {
		p.Paths.StagingDir = filepath.Join(p.Paths.DistDir, ".staging")
	}

	if p.Paths.License == "" {
		p.Paths.License = "LICENSE"
	}

	if p.Paths.Readme == "" {
		p.Paths.Readme = "README.md"
	}

	if p.Resources.UIDir == "" {
		p.Resources.UIDir = "ui"
	}

	if p.Resources.Manifest == "" {
		p.Resources.Manifest = filepath.Join(p.Resources.UIDir, "resources.yaml")
	}

	if p.Resources.OutputDir == "" {
		p.Resources.OutputDir = filepath.Join("internal", "gui", "generated")
	}

	if p.Resources.Package == "" {
		p.Resources.Package = "generated"
	}

	return nil
}

// ExecutableName returns the application binary name for the target platform.
// The packager queries the version from the binary built for the host it runs
// on, so the extension follows the host OS, not the target literal.
func (p *Project) ExecutableName() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return p.Product.Executable + ".exe"
	}

	return p.Product.Executable
}

// ArchiveName renders the distributable file name for a release version.
func (p *Project) ArchiveName(version string) string {
	return fmt.Sprintf("%s_v%s_%s-%s.%s",
		p.Product.Name, version, p.Product.Platform, p.Product.Arch, ArchiveExtension)
}

// ChecksumsName renders the checksum-manifest file name for a release version.
func (p *Project) ChecksumsName(version string) string {
	return fmt.Sprintf("%s_v%s_checksums.yaml", p.Product.Name, version)
}
