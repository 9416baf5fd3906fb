package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"callerinfo/config"
	"callerinfo/config/setup"
)

// NewRootCommand builds the callerinfo command tree. Output of every
// subcommand goes to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "callerinfo",
		Short:         "Caller identification record store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMigrateCommand(out))
	cmd.AddCommand(newExportCommand(out))
	cmd.AddCommand(newStatsCommand(out))
	return cmd
}

// loadRuntime loads the configuration and installs the process logger.
func loadRuntime() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := setup.NewLogger(cfg)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
