package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"callerinfo/config/setup"
	"callerinfo/database"
)

func newStatsCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print row counts for every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}

			db, err := setup.InitDatabase(cfg.DBPath, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := database.NewRepository(db).Counts(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(out, "calls=%d callers=%d marked=%d\n", stats.Calls, stats.Callers, stats.Marked)
			return err
		},
	}
}
