package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/shelfgraph/internal/database"
	"github.com/mrlokans/shelfgraph/internal/graph"
	"github.com/mrlokans/shelfgraph/internal/importers"
)

func routerTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, cleanup := setupHealthTestDB(t)
	t.Cleanup(cleanup)
	return db
}

func TestNewRouter_Ping(t *testing.T) {
	router := NewRouter(RouterConfig{Database: routerTestDB(t), Version: "test"})

	w := doRequest(router, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestNewRouter_Metrics(t *testing.T) {
	router := NewRouter(RouterConfig{Database: routerTestDB(t), Version: "test"})

	w := doRequest(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNewRouter_OptionalRoutes(t *testing.T) {
	t.Run("bare router has no api routes", func(t *testing.T) {
		router := NewRouter(RouterConfig{Database: routerTestDB(t)})

		for _, path := range []string{"/api/sync/status", "/api/books", "/api/tasks/types", "/api/audit"} {
			w := doRequest(router, http.MethodGet, path, "")
			assert.Equal(t, http.StatusNotFound, w.Code, path)
		}
	})

	t.Run("wired router exposes sync, books and tasks", func(t *testing.T) {
		router := NewRouter(RouterConfig{
			Database:  routerTestDB(t),
			Sync:      &stubSync{},
			Settings:  setupSettingsStore(t),
			Catalog:   importers.NewCatalog(graph.NewMemoryStore()),
			TaskQueue: &stubQueue{},
		})

		for _, path := range []string{"/api/sync/status", "/api/books", "/api/tasks/types"} {
			w := doRequest(router, http.MethodGet, path, "")
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})
}

func TestNewRouter_ThrottlesManualRuns(t *testing.T) {
	limiter := NewRunLimiter(RunLimitConfig{MaxRequests: 1})
	defer limiter.Stop()

	sync := &stubSync{}
	router := NewRouter(RouterConfig{
		Database:   routerTestDB(t),
		Sync:       sync,
		Settings:   setupSettingsStore(t),
		RunLimiter: limiter,
	})

	w := doRequest(router, http.MethodPost, "/api/sync/run", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = doRequest(router, http.MethodPost, "/api/sync/run", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 1, sync.runs)

	w = doRequest(router, http.MethodGet, "/api/sync/status", "")
	assert.Equal(t, http.StatusOK, w.Code, "reads are not throttled")
}
