package handler_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prospect-discovery/internal/config"
	"github.com/prospect-discovery/internal/delivery/http/handler"
	"github.com/prospect-discovery/internal/usecase"
)

// newTestApp wires the handler behind a bare fiber app. The usecase is built
// on nil repositories: these tests only exercise paths that are rejected
// before any repository call.
func newTestApp(searchCfg *config.SearchConfig) *fiber.App {
	uc := usecase.NewDiscoveryUseCase(nil, nil, nil, zap.NewNop(), 1, 0, 0)
	h := handler.NewSearchHandler(uc, searchCfg, zap.NewNop())

	app := fiber.New()
	app.Post("/api/v1/search/prospects", h.SearchProspects)
	app.Get("/api/v1/search/jobs/:id", h.GetJobResult)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestSearchHandler_SearchProspects_Validation(t *testing.T) {
	searchCfg := &config.SearchConfig{
		WorkerPoolSize:      1,
		DefaultRadiusMeters: 1609,
		MaxRadiusMeters:     1000,
	}

	t.Run("radius above the configured maximum is rejected", func(t *testing.T) {
		app := newTestApp(searchCfg)

		// 2 miles is ~3219 m, above the 1000 m cap
		status, body := postJSON(t, app, "/api/v1/search/prospects",
			`{"address":"50 Main St","radius_miles":2}`)

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, body, "INVALID_RADIUS")
	})

	t.Run("default radius above the maximum is rejected too", func(t *testing.T) {
		// Misconfigured default must not slip past the radius check
		app := newTestApp(searchCfg)

		status, body := postJSON(t, app, "/api/v1/search/prospects",
			`{"address":"50 Main St"}`)

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, body, "INVALID_RADIUS")
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		app := newTestApp(searchCfg)

		status, body := postJSON(t, app, "/api/v1/search/prospects", `{not json`)

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, body, "INVALID_REQUEST")
	})

	t.Run("too-short address fails struct validation", func(t *testing.T) {
		app := newTestApp(searchCfg)

		status, body := postJSON(t, app, "/api/v1/search/prospects",
			`{"address":"ab"}`)

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, body, "INVALID_REQUEST")
	})
}

func TestSearchHandler_GetJobResult_InvalidID(t *testing.T) {
	app := newTestApp(&config.SearchConfig{DefaultRadiusMeters: 1609, MaxRadiusMeters: 50000})

	req := httptest.NewRequest("GET", "/api/v1/search/jobs/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "INVALID_REQUEST")
}
