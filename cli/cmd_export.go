package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"callerinfo/config/setup"
	"callerinfo/database"
	"callerinfo/models"
	"callerinfo/store"
)

// Snapshot is the document written by the export command.
type Snapshot struct {
	Calls   []models.CallRecord   `yaml:"calls"`
	Callers []models.Caller       `yaml:"callers"`
	Marked  []models.MarkedRecord `yaml:"marked"`
}

func newExportCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "export",
		Short:   "Dump every record as YAML",
		Example: "  callerinfo export > backup.yaml",
		Args:    cobra.NoArgs,
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

			st := store.New(database.NewRepository(db),
				store.WithLogger(logger),
				store.WithConcurrency(cfg.WorkerConcurrency),
			)
			defer st.Close(context.Background())

			snap, err := collectSnapshot(cmd.Context(), st)
			if err != nil {
				return err
			}
			return writeSnapshot(out, snap)
		},
	}
}

// collectSnapshot fans out the three reads and waits for all of them.
func collectSnapshot(ctx context.Context, st *store.Store) (Snapshot, error) {
	calls, callers, marked := st.FetchCalls(), st.FetchCallers(), st.FetchMarked()

	var snap Snapshot
	var err error
	if snap.Calls, err = calls.Wait(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("failed to read calls: %w", err)
	}
	if snap.Callers, err = callers.Wait(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("failed to read callers: %w", err)
	}
	if snap.Marked, err = marked.Wait(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("failed to read marked records: %w", err)
	}

	slog.Debug("snapshot collected",
		"calls", len(snap.Calls),
		"callers", len(snap.Callers),
		"marked", len(snap.Marked),
	)
	return snap, nil
}

func writeSnapshot(out io.Writer, snap Snapshot) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}
