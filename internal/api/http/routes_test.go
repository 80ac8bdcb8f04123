package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/surf-report/internal/spots"
	"github.com/i474232898/surf-report/internal/store"
	"github.com/i474232898/surf-report/internal/surf"
)

// fakeService writes a fixed report into a real store, or fails with err.
type fakeService struct {
	store   *store.MemoryStore
	err     error
	fetches int
}

func (f *fakeService) FetchAndStore(_ context.Context, loc surf.Location) error {
	f.fetches++
	if f.err != nil {
		return f.err
	}
	f.store.SaveReport(surf.SurfReport{
		Location:  loc,
		Timestamp: time.Now(),
		Rating:    7,
		Alerts:    []string{},
	})
	return nil
}

func (f *fakeService) GetLatest(id string) (surf.SurfReport, error) {
	return f.store.GetLatest(id)
}

func newTestApp(svc ReportService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, svc, spots.All(), spots.ByID)
	return app
}

func doGet(t *testing.T, app *fiber.App, target string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	return resp.StatusCode, body
}

func TestListLocations(t *testing.T) {
	app := newTestApp(&fakeService{store: store.NewMemoryStore(0)})

	status, body := doGet(t, app, "/api/v1/locations")
	assert.Equal(t, http.StatusOK, status)

	locations, ok := body["locations"].([]any)
	require.True(t, ok)
	assert.Len(t, locations, len(spots.All()))
}

func TestSurfReport_FetchesWhenNothingCached(t *testing.T) {
	svc := &fakeService{store: store.NewMemoryStore(0)}
	app := newTestApp(svc)

	status, body := doGet(t, app, "/api/v1/surf/montauk")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, svc.fetches)
	assert.EqualValues(t, 7, body["rating"])

	// Served from the cache the second time.
	status, _ = doGet(t, app, "/api/v1/surf/montauk")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, svc.fetches)
}

func TestSurfReport_RefreshBypassesCache(t *testing.T) {
	svc := &fakeService{store: store.NewMemoryStore(0)}
	app := newTestApp(svc)

	doGet(t, app, "/api/v1/surf/long-beach")
	doGet(t, app, "/api/v1/surf/long-beach?refresh=true")
	assert.Equal(t, 2, svc.fetches)
}

func TestSurfReport_UnknownLocation(t *testing.T) {
	svc := &fakeService{store: store.NewMemoryStore(0)}
	app := newTestApp(svc)

	status, body := doGet(t, app, "/api/v1/surf/pipeline")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "unknown location", body["message"])
	assert.Zero(t, svc.fetches)
}

func TestSurfReport_RejectsOverlongID(t *testing.T) {
	app := newTestApp(&fakeService{store: store.NewMemoryStore(0)})

	status, _ := doGet(t, app, "/api/v1/surf/"+strings.Repeat("x", 65))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSurfReport_FetchFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"waves unavailable", surf.ErrWaveConditionsUnavailable, http.StatusBadGateway},
		{"abandoned", fmt.Errorf("aggregation abandoned: %w", context.DeadlineExceeded), http.StatusBadGateway},
		{"invalid location", fmt.Errorf("%w: missing coordinates", surf.ErrInvalidLocation), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeService{store: store.NewMemoryStore(0), err: tt.err})

			status, body := doGet(t, app, "/api/v1/surf/brick-nj")
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, true, body["error"])
		})
	}
}

func TestErrorHandler_PlainErrorIs500(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	status, body := doGet(t, app, "/boom")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "boom", body["message"])
}
