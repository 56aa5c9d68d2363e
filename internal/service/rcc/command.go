package rcc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/netdiag/netdiag-tools/internal/logger"
	"github.com/netdiag/netdiag-tools/internal/project"
)

// Options contains inputs for the resource compiler entry point.
type Options struct {
	// ConfigPath is an optional path to the project manifest (defaults to netdiag.toml).
	ConfigPath string
	// Watch keeps the compiler running and regenerates on input changes.
	Watch bool
}

// generatedFileMode is applied to every generated module.
const generatedFileMode os.FileMode = 0o644

var (
	errNoUIDefinitions  = errors.New("no UI definitions found")
	errDuplicateWindow  = errors.New("duplicate window name")
	errProjectNotLoaded = errors.New("project manifest is not loaded")
)

// compiler turns UI definitions and the resource manifest into generated modules.
// It is unexported—callers should use Run, which encapsulates setup and validation.
type compiler struct {
	// proj holds the resource-compiler paths and the generated package name.
	proj *project.Project
}

// Run executes the resource compiler workflow.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "netdiag-rcc")

	proj, err := project.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("initialize resource compiler: %w", err)
	}

	c := &compiler{proj: proj}

	if err = c.Compile(ctx); err != nil {
		return fmt.Errorf("resource compiler failed: %w", err)
	}

	if !opts.Watch {
		logger.Info(ctx, "Resource compiler completed successfully")
		return nil
	}

	return c.watch(ctx)
}

// Compile regenerates every module from scratch. The run is all-or-nothing:
// all inputs are parsed and rendered in memory first, and nothing is written
// until every one of them compiled, so a consumer can never import a
// half-regenerated module set.
func (c *compiler) Compile(ctx context.Context) error {
	if c.proj == nil {
		return errProjectNotLoaded
	}

	outputs, err := c.render(ctx)
	if err != nil {
		return err
	}

	return c.writeOutputs(ctx, outputs)
}

// render parses all inputs and produces the full generated-module set in memory.
func (c *compiler) render(ctx context.Context) (map[string][]byte, error) {
	uiFiles, err := c.listUIDefinitions()
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Compiling UI definitions",
		"count", len(uiFiles), "ui_dir", c.proj.Resources.UIDir)

	outputs := make(map[string][]byte, len(uiFiles)+1)
	windows := make(map[string]string, len(uiFiles))

	for _, uiFile := range uiFiles {
		def, defErr := loadWindowDef(uiFile)
		if defErr != nil {
			return nil, defErr
		}

		if previous, duplicate := windows[def.Window]; duplicate {
			return nil, fmt.Errorf("%q in %s and %s: %w",
				def.Window, previous, uiFile, errDuplicateWindow)
		}

		windows[def.Window] = uiFile

		source, renderErr := renderWindowModule(c.proj.Resources.Package, def)
		if renderErr != nil {
			return nil, renderErr
		}

		outputs[windowModuleFilename(def)] = source
	}

	resources, err := loadResourceManifest(c.proj.Resources.Manifest)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Embedding resource collection",
		"count", len(resources), "manifest", c.proj.Resources.Manifest)

	registry, err := renderRegistryModule(c.proj.Resources.Package, resources)
	if err != nil {
		return nil, err
	}

	outputs[RegistryFilename] = registry

	return outputs, nil
}

// writeOutputs overwrites prior generated modules unconditionally.
func (c *compiler) writeOutputs(ctx context.Context, outputs map[string][]byte) error {
	outputDir := c.proj.Resources.OutputDir
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		target := filepath.Join(outputDir, name)
		if err := os.WriteFile(target, outputs[name], generatedFileMode); err != nil {
			return fmt.Errorf("write generated module %s: %w", name, err)
		}

		logger.DebugKV(ctx, "Wrote generated module", "path", target)
	}

	logger.InfoKV(ctx, "Generated modules written",
		"count", len(names), "output_dir", outputDir)

	return nil
}

// listUIDefinitions returns all *.ui.yaml files in the UI directory, sorted.
func (c *compiler) listUIDefinitions() ([]string, error) {
	entries, err := os.ReadDir(c.proj.Resources.UIDir)
	if err != nil {
		return nil, fmt.Errorf("read UI directory: %w", err)
	}

	files := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), UIDefinitionSuffix) {
			continue
		}

		files = append(files, filepath.Join(c.proj.Resources.UIDir, entry.Name()))
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", c.proj.Resources.UIDir, errNoUIDefinitions)
	}

	sort.Strings(files)

	return files, nil
}
