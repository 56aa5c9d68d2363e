package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netdiag/netdiag-tools/internal/logger"
	"github.com/netdiag/netdiag-tools/internal/project"
	"github.com/netdiag/netdiag-tools/internal/service/rcc"
	"github.com/netdiag/netdiag-tools/internal/version"
)

var (
	// configPath to the project manifest TOML file.
	configPath string

	// watchInputs keeps the compiler running and regenerating on changes.
	watchInputs bool

	// logLevel adjusts the logging verbosity.
	logLevel string

	// rootCmd represents the base command compiling UI definitions and resources.
	rootCmd = &cobra.Command{
		Use:   "netdiag-rcc",
		Short: "Compile UI definitions and resources into generated modules",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &rcc.Options{
				ConfigPath: configPath,
				Watch:      watchInputs,
			}

			return rcc.Run(ctx, options)
		},
	}
)

// Execute runs the netdiag-rcc CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", project.DefaultManifestFilename, "path to project manifest")
	rootCmd.Flags().BoolVarP(&watchInputs, "watch", "w", false, "recompile when inputs change")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "logging level (debug, info, warn, error, fatal)")
}
