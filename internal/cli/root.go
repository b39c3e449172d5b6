// Package cli provides the root command shared by the shell binaries.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idlenpu/waker-desktop/internal/config"
	"github.com/idlenpu/waker-desktop/internal/logging"
)

// DevVersion is the version string of builds without an injected version.
// Such builds launch the backend through the interpreter by default.
const DevVersion = "dev"

// RunFunc starts the application once configuration and logging are ready.
type RunFunc func(cfg *config.Config, logger zerolog.Logger) error

// NewRootCmd creates the root command. Flags, IDLE_NPU_* variables and
// config.toml are merged into a Config before run is called.
func NewRootCmd(use, short, version string, run RunFunc) *cobra.Command {
	v := config.NewViper(version == DevVersion)

	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			logger, closer := logging.New(logging.Options{Debug: cfg.Debug, Dir: cfg.LogDir})
			defer closer.Close()

			logger.Info().
				Str("version", version).
				Str("endpoint", cfg.Endpoint().String()).
				Bool("dev", cfg.Dev).
				Bool("external_backend", cfg.ExternalBackend).
				Msg("Starting")
			return run(cfg, logger)
		},
	}

	// Registration only fails on a nil flag, which would be a programming error.
	if err := config.BindFlags(cmd.Flags(), v); err != nil {
		panic(err)
	}
	return cmd
}
