package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"callerinfo/database"
	"callerinfo/models"
)

func testEnv(t *testing.T) string {
	t.Helper()
	chdir(t, t.TempDir())

	dbPath := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_PATH", dbPath)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("WORKER_CONCURRENCY", "2")
	return dbPath
}

func seed(t *testing.T, dbPath string) {
	t.Helper()

	db, err := database.New(dbPath)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	repo := database.NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, repo.SaveCall(ctx, &models.CallRecord{Number: "+15550001", Time: now, RingTime: 3000}))
	require.NoError(t, repo.SaveCaller(ctx, &models.Caller{Number: "+15550001", Name: "Alice", LastUpdate: now, Type: "manual"}))
	require.NoError(t, repo.SaveMarked(ctx, &models.MarkedRecord{Number: "+15550002", Type: 2, TypeName: "Spam", Time: now, Source: "user"}))
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := NewRootCommand(&bytes.Buffer{})

	for _, name := range []string{"serve", "migrate", "export", "stats"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestMigrateCommand(t *testing.T) {
	dbPath := testEnv(t)

	out := run(t, "migrate")
	assert.Contains(t, out, dbPath)

	// running it twice is harmless
	run(t, "migrate")
}

func TestStatsCommand(t *testing.T) {
	dbPath := testEnv(t)
	seed(t, dbPath)

	out := run(t, "stats")
	assert.Equal(t, "calls=1 callers=1 marked=1\n", out)
}

func TestExportCommand(t *testing.T) {
	dbPath := testEnv(t)
	seed(t, dbPath)

	out := run(t, "export")

	var snap Snapshot
	require.NoError(t, yaml.Unmarshal([]byte(out), &snap))

	require.Len(t, snap.Calls, 1)
	assert.Equal(t, "+15550001", snap.Calls[0].Number)
	assert.Equal(t, int64(3000), snap.Calls[0].RingTime)

	require.Len(t, snap.Callers, 1)
	assert.Equal(t, "Alice", snap.Callers[0].Name)

	require.Len(t, snap.Marked, 1)
	assert.Equal(t, "Spam", snap.Marked[0].TypeName)
	assert.False(t, snap.Marked[0].Reported)
}

func TestInvalidConfigFailsCommand(t *testing.T) {
	testEnv(t)
	t.Setenv("WORKER_CONCURRENCY", "0")

	cmd := NewRootCommand(&bytes.Buffer{})
	cmd.SetArgs([]string{"stats"})
	assert.Error(t, cmd.Execute())
}
