package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"callerinfo/config/setup"
)

func newMigrateCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables if they do not exist",
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

			_, err = fmt.Fprintf(out, "database ready at %s\n", cfg.DBPath)
			return err
		},
	}
}
