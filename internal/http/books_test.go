package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shelfgraph/internal/goodreads"
	"github.com/mrlokans/shelfgraph/internal/graph"
	"github.com/mrlokans/shelfgraph/internal/importers"
)

type failingCatalog struct{}

func (failingCatalog) Books(ctx context.Context) ([]importers.CatalogBook, error) {
	return nil, errors.New("database is locked")
}

func booksRouter(catalog BookCatalog) *gin.Engine {
	router := gin.New()
	router.GET("/api/books", NewBooksController(catalog).GetAllBooks)
	return router
}

func TestBooksController_GetAllBooks(t *testing.T) {
	t.Run("returns empty list when nothing was imported", func(t *testing.T) {
		router := booksRouter(importers.NewCatalog(graph.NewMemoryStore()))

		w := doRequest(router, http.MethodGet, "/api/books", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, float64(0), response["count"])
		assert.Empty(t, response["books"])
	})

	t.Run("returns imported books with authors", func(t *testing.T) {
		store := graph.NewMemoryStore()
		_, err := importers.NewReconciler(store, nil).Reconcile(context.Background(), []goodreads.BookRecord{
			{Title: "The Hobbit", Author: "J.R.R. Tolkien"},
			{Title: "Dune", Author: "Frank Herbert"},
		})
		require.NoError(t, err)

		w := doRequest(booksRouter(importers.NewCatalog(store)), http.MethodGet, "/api/books", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Books []importers.CatalogBook `json:"books"`
			Count int                     `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 2, response.Count)
		assert.Equal(t, "The Hobbit", response.Books[0].Title)
		assert.Equal(t, []string{"Frank Herbert"}, response.Books[1].Authors)
	})

	t.Run("hides catalog errors", func(t *testing.T) {
		w := doRequest(booksRouter(failingCatalog{}), http.MethodGet, "/api/books", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "locked")
	})
}
