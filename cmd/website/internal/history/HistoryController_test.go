package history

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/photogallery/cmd/website/internal/visitors"
	"github.com/adampresley/photogallery/pkg/gallery"
	"github.com/adampresley/photogallery/pkg/models"
	"github.com/adampresley/photogallery/pkg/services"
	"github.com/adampresley/photogallery/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceFunc func(ctx context.Context, query string, page int) (models.PhotoPage, error)

func (f sourceFunc) FetchPage(ctx context.Context, query string, page int) (models.PhotoPage, error) {
	return f(ctx, query, page)
}

type noStats struct{}

func (noStats) FetchStats(ctx context.Context, imageID string) models.ImageStatistics {
	return models.UnavailableStatistics(imageID)
}

func newTestController(t *testing.T) (HistoryController, *services.SearchHistoryService) {
	t.Helper()

	renderer, err := rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        os.DirFS(filepath.Join("..", "..")),
		PagesDir:          "pages",
	})

	require.NoError(t, err)

	searchHistory := services.NewSearchHistoryService(services.SearchHistoryServiceConfig{
		Store: storage.NewMemoryStore(),
	})

	source := sourceFunc(func(ctx context.Context, query string, page int) (models.PhotoPage, error) {
		return models.PhotoPage{
			Images:     []models.Image{{ID: fmt.Sprintf("%s-%d", query, page)}},
			TotalPages: 1,
		}, nil
	})

	registry := visitors.NewRegistry(visitors.RegistryConfig{
		MaxVisitors: 10,
		TTL:         time.Hour,
		NewSession: func() *visitors.Session {
			return visitors.NewSession(visitors.SessionConfig{
				Paginator: gallery.PaginatorConfig{Source: source, History: searchHistory},
				Stats:     noStats{},
			})
		},
	})

	controller := NewHistoryController(HistoryControllerConfig{
		Registry:      registry,
		Renderer:      renderer,
		SearchHistory: searchHistory,
	})

	return controller, searchHistory
}

func newVisitorRequest(target string, htmx bool) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)

	if htmx {
		r.Header.Set("Hx-Request", "true")
	}

	ctx := context.WithValue(r.Context(), "visitor", &models.Visitor{ID: "visitor-1"})
	return r.WithContext(ctx)
}

func TestHistoryPageListsPastSearches(t *testing.T) {
	controller, searchHistory := newTestController(t)
	require.NoError(t, searchHistory.Add("cats"))
	require.NoError(t, searchHistory.Add("dogs"))

	w := httptest.NewRecorder()
	controller.HistoryPage(w, newVisitorRequest("/history", false))

	body := w.Body.String()
	assert.Contains(t, body, "<title>Search History - Photo Gallery</title>")
	assert.Contains(t, body, `<input type="hidden" name="query" value="cats">`)
	assert.Contains(t, body, `<input type="hidden" name="query" value="dogs">`)
	assert.NotContains(t, body, `id="gallery-grid"`)
}

func TestHistoryPageWithoutSearches(t *testing.T) {
	controller, _ := newTestController(t)

	w := httptest.NewRecorder()
	controller.HistoryPage(w, newVisitorRequest("/history", false))

	assert.Contains(t, w.Body.String(), "You haven't searched for anything yet.")
}

func TestHistorySearchRendersHistoryGrid(t *testing.T) {
	controller, searchHistory := newTestController(t)
	require.NoError(t, searchHistory.Add("cats"))

	w := httptest.NewRecorder()
	controller.Search(w, newVisitorRequest("/history/search?query=cats", true))

	body := w.Body.String()
	assert.Contains(t, body, `id="card-cats-1-0"`)
	assert.Contains(t, body, `hx-get="/photos/cats-1?view=history"`)
	assert.NotContains(t, body, "sentinel")
	assert.Equal(t, []string{"cats"}, searchHistory.List())
}
