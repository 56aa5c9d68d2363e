package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/netdiag/netdiag-tools/internal/archive"
	"github.com/netdiag/netdiag-tools/internal/logger"
	"github.com/netdiag/netdiag-tools/internal/project"
	"github.com/netdiag/netdiag-tools/internal/version"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is an optional path to the project manifest (defaults to netdiag.toml).
	ConfigPath string
}

// packager produces one versioned distributable from the current build output.
// It is unexported—callers should use Run, which encapsulates setup and validation.
type packager struct {
	// proj holds the product identity and the filesystem layout.
	proj *project.Project
	// releaseVersion is the version reported by the application binary.
	releaseVersion string
	// archivePath is the produced distributable, set after compression.
	archivePath string
	// checksumsPath is the produced release manifest, set after writing.
	checksumsPath string
}

// errPackagerRunning indicates that an attempt was made to start the packager
// while another run is already in flight.
var errPackagerRunning = errors.New("the packager is running now")

// Run executes the packaging workflow.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "netdiag-packager")

	proj, err := project.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("initialize packager: %w", err)
	}

	if IsPackagerRunningNow(ctx) {
		return errPackagerRunning
	}

	if err = createMarker(); err != nil {
		return fmt.Errorf("create packaging marker: %w", err)
	}

	defer removeMarker()

	pkg := &packager{proj: proj}

	if err = pkg.Run(ctx); err != nil {
		return fmt.Errorf("packager failed: %w", err)
	}

	logger.Info(ctx, "Packager completed successfully")

	return nil
}

// Run stages the build output and compresses it into the distributable.
// Every step is fail-fast; an aborted run leaves at most a stale staging
// directory, which the next invocation wipes before use.
func (p *packager) Run(ctx context.Context) error {
	// The version query runs strictly before any staging or dist mutation:
	// if the application cannot report a version, nothing is touched.
	if err := p.queryReleaseVersion(ctx); err != nil {
		return err
	}

	if err := p.stage(ctx); err != nil {
		return err
	}

	if err := p.compress(ctx); err != nil {
		return err
	}

	if err := p.writeChecksums(ctx); err != nil {
		return err
	}

	// Staging is ephemeral, only the dist artifacts survive the run.
	if err := os.RemoveAll(p.proj.Paths.StagingDir); err != nil {
		return fmt.Errorf("remove staging directory: %w", err)
	}

	p.printNextSteps(ctx)

	return nil
}

// queryReleaseVersion asks the built application binary for its version.
func (p *packager) queryReleaseVersion(ctx context.Context) error {
	binaryPath := filepath.Join(p.proj.Paths.BuildDir, p.proj.ExecutableName())

	logger.InfoKV(ctx, "Querying release version", "binary", binaryPath)

	releaseVersion, err := version.Query(ctx, binaryPath)
	if err != nil {
		return fmt.Errorf("query release version: %w", err)
	}

	p.releaseVersion = releaseVersion

	logger.InfoKV(ctx, "Detected release version", "version", releaseVersion)

	return nil
}

// stage recreates the staging directory and fills it with the build output,
// license and readme under the product's display-name directory.
func (p *packager) stage(ctx context.Context) error {
	if err := recreateDir(p.proj.Paths.StagingDir); err != nil {
		return fmt.Errorf("recreate staging directory: %w", err)
	}

	stagingRoot := p.stagingRoot()

	logger.InfoKV(ctx, "Staging release files", "staging_root", stagingRoot)

	if err := copyTree(p.proj.Paths.BuildDir, stagingRoot); err != nil {
		return fmt.Errorf("stage build output: %w", err)
	}

	for _, extra := range []string{p.proj.Paths.License, p.proj.Paths.Readme} {
		target := filepath.Join(stagingRoot, filepath.Base(extra))
		if err := copyFile(extra, target); err != nil {
			return fmt.Errorf("stage %s: %w", extra, err)
		}
	}

	return nil
}

// compress produces the versioned archive in the distribution directory.
func (p *packager) compress(ctx context.Context) error {
	if err := os.MkdirAll(p.proj.Paths.DistDir, stagedFileMode); err != nil {
		return fmt.Errorf("create dist directory: %w", err)
	}

	p.archivePath = filepath.Join(p.proj.Paths.DistDir, p.proj.ArchiveName(p.releaseVersion))

	logger.InfoKV(ctx, "Compressing release archive", "path", p.archivePath)

	if err := archive.Create(p.archivePath, p.stagingRoot(), p.proj.Product.DisplayName); err != nil {
		return err
	}

	return nil
}

// writeChecksums records a checksum for every archived file plus the archive itself.
func (p *packager) writeChecksums(ctx context.Context) error {
	release := NewRelease(p.releaseVersion)

	if err := release.AddTree(p.proj.Paths.StagingDir); err != nil {
		return fmt.Errorf("checksum staged files: %w", err)
	}

	if err := release.AddFile(p.archivePath, filepath.Base(p.archivePath)); err != nil {
		return fmt.Errorf("checksum archive: %w", err)
	}

	p.checksumsPath = filepath.Join(p.proj.Paths.DistDir, p.proj.ChecksumsName(p.releaseVersion))

	logger.InfoKV(ctx, "Saving release manifest", "path", p.checksumsPath)

	return release.Save(p.checksumsPath)
}

// stagingRoot is the display-name directory inside the staging area.
func (p *packager) stagingRoot() string {
	return filepath.Join(p.proj.Paths.StagingDir, p.proj.Product.DisplayName)
}

// printNextSteps logs human-readable guidance for next actions with the created files.
func (p *packager) printNextSteps(ctx context.Context) {
	files := []string{p.archivePath, p.checksumsPath}
	sort.Strings(files)

	var builder strings.Builder

	builder.WriteString("Release ")
	builder.WriteString(p.releaseVersion)
	builder.WriteString(" is ready. Upload the following files as release artifacts:\n")

	for i, name := range files {
		if i > 0 {
			builder.WriteString(",\n")
		}

		builder.WriteString(name)
	}

	logger.Info(ctx, builder.String())
}
