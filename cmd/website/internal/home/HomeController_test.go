package home

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/photogallery/cmd/website/internal/viewmodels"
	"github.com/adampresley/photogallery/cmd/website/internal/visitors"
	"github.com/adampresley/photogallery/pkg/gallery"
	"github.com/adampresley/photogallery/pkg/models"
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

func newTestRenderer(t *testing.T) rendering.TemplateRenderer {
	t.Helper()

	renderer, err := rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        os.DirFS(filepath.Join("..", "..")),
		PagesDir:          "pages",
	})

	require.NoError(t, err)
	return renderer
}

/*
twoPerPage serves two images per page. The popular feed uses the name
"popular" in its image IDs.
*/
func twoPerPage(ctx context.Context, query string, page int) (models.PhotoPage, error) {
	name := query
	if name == "" {
		name = "popular"
	}

	return models.PhotoPage{
		Images: []models.Image{
			{ID: fmt.Sprintf("%s-%d-0", name, page), URLs: models.ImageURLs{Small: "https://img/small.jpg"}, AltDescription: "a photo", Likes: 7},
			{ID: fmt.Sprintf("%s-%d-1", name, page), URLs: models.ImageURLs{Small: "https://img/small.jpg"}},
		},
		TotalPages: 3,
	}, nil
}

func newTestController(t *testing.T) HomeController {
	t.Helper()

	registry := visitors.NewRegistry(visitors.RegistryConfig{
		MaxVisitors: 10,
		TTL:         time.Hour,
		NewSession: func() *visitors.Session {
			return visitors.NewSession(visitors.SessionConfig{
				Paginator: gallery.PaginatorConfig{Source: sourceFunc(twoPerPage), PerPage: 2},
				Stats:     noStats{},
			})
		},
	})

	return NewHomeController(HomeControllerConfig{
		Registry:         registry,
		Renderer:         newTestRenderer(t),
		SearchDebounceMs: 2000,
	})
}

func newVisitorRequest(target string, htmx bool) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)

	if htmx {
		r.Header.Set("Hx-Request", "true")
	}

	ctx := context.WithValue(r.Context(), "visitor", &models.Visitor{ID: "visitor-1"})
	return r.WithContext(ctx)
}

func TestRenderGalleryCardsFragment(t *testing.T) {
	var buf bytes.Buffer

	grid := viewmodels.GalleryGrid{
		BaseViewModel: viewmodels.BaseViewModel{IsHtmx: true},
		View:          visitors.ViewMain,
		Cards: []viewmodels.GalleryCard{
			{Key: "abc-0", ID: "abc", ThumbnailURL: "https://img/abc.jpg", AltDescription: "a cat", Likes: 3},
		},
		NextOffset: 1,
		HasMore:    true,
	}

	require.NoError(t, newTestRenderer(t).Render("pages/gallery/cards", grid, &buf))

	body := buf.String()
	assert.Contains(t, body, `id="card-abc-0"`)
	assert.Contains(t, body, `src="https://img/abc.jpg"`)
	assert.Contains(t, body, `hx-get="/gallery/next"`)
	assert.NotContains(t, body, "<!DOCTYPE html>")
}

func TestRenderGalleryCardsFragmentWithoutMorePages(t *testing.T) {
	var buf bytes.Buffer

	grid := viewmodels.GalleryGrid{
		View:  visitors.ViewHistory,
		Cards: []viewmodels.GalleryCard{{Key: "abc-0", ID: "abc"}},
	}

	require.NoError(t, newTestRenderer(t).Render("pages/gallery/cards", grid, &buf))

	assert.Contains(t, buf.String(), `hx-get="/photos/abc?view=history"`)
	assert.NotContains(t, buf.String(), "sentinel")
}

func TestHomePageRendersLayoutAndDefaultFeed(t *testing.T) {
	controller := newTestController(t)
	w := httptest.NewRecorder()

	controller.HomePage(w, newVisitorRequest("/", false))

	body := w.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "<title>Gallery - Photo Gallery</title>")
	assert.Contains(t, body, `delay:2000ms`)
	assert.Contains(t, body, `id="card-popular-1-0-0"`)
	assert.Contains(t, body, `id="card-popular-1-1-1"`)
	assert.Contains(t, body, `hx-get="/gallery/next"`)
	assert.Contains(t, body, `src="/static/js/pages/gallery.js"`)
}

func TestSearchRendersGridForNewQuery(t *testing.T) {
	controller := newTestController(t)
	w := httptest.NewRecorder()

	controller.Search(w, newVisitorRequest("/gallery/search?query=cats", true))

	body := w.Body.String()
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `id="gallery-grid"`)
	assert.Contains(t, body, `id="card-cats-1-0-0"`)
	assert.NotContains(t, body, "popular")
}

func TestNextPageRendersOnlyNewCards(t *testing.T) {
	controller := newTestController(t)
	controller.Search(httptest.NewRecorder(), newVisitorRequest("/gallery/search?query=cats", true))

	w := httptest.NewRecorder()
	controller.NextPage(w, newVisitorRequest("/gallery/next?view=main&offset=2&distance=5", true))

	body := w.Body.String()
	assert.Contains(t, body, `id="card-cats-2-0-2"`)
	assert.Contains(t, body, `id="card-cats-2-1-3"`)
	assert.NotContains(t, body, `id="card-cats-1-0-0"`)
	assert.Contains(t, body, `"offset": 4`)
}

func TestNextPageFarFromBottomFetchesNothing(t *testing.T) {
	controller := newTestController(t)
	controller.Search(httptest.NewRecorder(), newVisitorRequest("/gallery/search?query=cats", true))

	w := httptest.NewRecorder()
	controller.NextPage(w, newVisitorRequest("/gallery/next?view=main&offset=2&distance=500", true))

	body := w.Body.String()
	assert.NotContains(t, body, `id="card-`)
	assert.Contains(t, body, `hx-get="/gallery/next"`)
}
