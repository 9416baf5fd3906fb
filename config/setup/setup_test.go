package setup

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callerinfo/config"
)

func newTestServer(t *testing.T, token string) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		Port:              "3000",
		Env:               "test",
		DBPath:            filepath.Join(t.TempDir(), "setup.db"),
		LogLevel:          "error",
		WorkerConcurrency: 2,
		MainLoopBuffer:    8,
		CORSOrigins:       "*",
		APIToken:          token,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := InitDatabase(cfg.DBPath, logger)
	require.NoError(t, err)

	application := InitApp(db, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go application.MainLoop.Run(ctx)

	t.Cleanup(func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		Shutdown(shutdownCtx, application, db, logger)
		cancel()
	})

	fiberApp := NewFiberApp(cfg, logger)
	ApplyMiddleware(fiberApp, cfg, logger)
	RegisterRoutes(fiberApp, application, cfg.APIToken)
	return fiberApp
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("anything"))
}

func TestHealthIsPublic(t *testing.T) {
	app := newTestServer(t, "secret")

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPIRequiresToken(t *testing.T) {
	app := newTestServer(t, "secret")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/calls", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/api/calls", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWriteThroughRoutes(t *testing.T) {
	app := newTestServer(t, "")

	body := `{"number":"15550100","name":"Bob","type":"manual"}`
	req := httptest.NewRequest("POST", "/api/callers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/callers/15550100", nil))
		return err == nil && resp.StatusCode == fiber.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
}

func TestUnknownRouteUsesErrorHandler(t *testing.T) {
	app := newTestServer(t, "")

	resp, err := app.Test(httptest.NewRequest("GET", "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
