package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netdiag/netdiag-tools/internal/logger"
	"github.com/netdiag/netdiag-tools/internal/project"
	"github.com/netdiag/netdiag-tools/internal/service/packager"
	"github.com/netdiag/netdiag-tools/internal/version"
)

var (
	// configPath to the project manifest TOML file.
	configPath string

	// logLevel adjusts the logging verbosity.
	logLevel string

	// rootCmd represents the base command producing the release distributable.
	rootCmd = &cobra.Command{
		Use:   "netdiag-packager",
		Short: "Stage the build output and compress it into a versioned archive",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &packager.Options{
				ConfigPath: configPath,
			}

			return packager.Run(ctx, options)
		},
	}
)

// Execute runs the netdiag-packager CLI and exits with non-zero status on error.
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
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "logging level (debug, info, warn, error, fatal)")
}
