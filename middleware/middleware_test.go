package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	for _, h := range handlers {
		app.Use(h)
	}
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return c.Status(fiber.StatusTeapot).SendString("no") })
	return app
}

func TestTokenRequired(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		header         string
		expectedStatus int
	}{
		{name: "Disabled without token", token: "", header: "", expectedStatus: http.StatusOK},
		{name: "Valid token", token: "s3cret", header: "Bearer s3cret", expectedStatus: http.StatusOK},
		{name: "Missing header", token: "s3cret", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "Wrong scheme", token: "s3cret", header: "Basic s3cret", expectedStatus: http.StatusUnauthorized},
		{name: "Wrong token", token: "s3cret", header: "Bearer nope", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(TokenRequired(tt.token))

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	app := newTestApp(StructuredLogger(logger))

	t.Run("Generates a request id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
		require.NoError(t, err)

		_, err = uuid.Parse(resp.Header.Get("X-Request-ID"))
		assert.NoError(t, err)
		assert.Contains(t, buf.String(), "request completed")
	})

	t.Run("Keeps a valid incoming id", func(t *testing.T) {
		id := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", id)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, id, resp.Header.Get("X-Request-ID"))
	})

	t.Run("Client errors are warnings", func(t *testing.T) {
		buf.Reset()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil), -1)
		require.NoError(t, err)
		io.Copy(io.Discard, resp.Body)
		assert.Equal(t, http.StatusTeapot, resp.StatusCode)
		assert.Contains(t, buf.String(), "level=WARN")
	})
}

func TestSecurityHeaders(t *testing.T) {
	app := newTestApp(Security())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}
