package home

import (
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/photogallery/cmd/website/internal/viewmodels"
	"github.com/adampresley/photogallery/cmd/website/internal/visitors"
)

type HomeHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
	NextPage(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	Registry         *visitors.Registry
	Renderer         rendering.TemplateRenderer
	SearchDebounceMs int
}

type HomeController struct {
	registry         *visitors.Registry
	renderer         rendering.TemplateRenderer
	searchDebounceMs int
}

func NewHomeController(config HomeControllerConfig) HomeController {
	return HomeController{
		registry:         config.Registry,
		renderer:         config.Renderer,
		searchDebounceMs: config.SearchDebounceMs,
	}
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/home"

	visitor := viewmodels.GetVisitorFromContext(r)
	session := c.registry.Get(visitor.ID)
	session.StartMain(r.Context())

	snapshot := session.Main.Snapshot()

	viewData := viewmodels.GalleryPage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{
				{Type: "module", Src: "/static/js/pages/gallery.js"},
			},
		},
		Query:            snapshot.Query,
		SearchDebounceMs: c.searchDebounceMs,
		Grid:             viewmodels.NewGalleryGrid(visitors.ViewMain, snapshot, 0),
	}

	c.renderer.Render(pageName, viewData, w)
}

/*
GET /gallery/search
*/
func (c HomeController) Search(w http.ResponseWriter, r *http.Request) {
	visitor := viewmodels.GetVisitorFromContext(r)
	session := c.registry.Get(visitor.ID)
	query := httphelpers.GetFromRequest[string](r, "query")

	if err := session.Main.SubmitQuery(r.Context(), query); err != nil {
		slog.Error("error submitting search", "visitorID", visitor.ID, "query", query, "error", err)
	}

	viewData := viewmodels.NewGalleryGrid(visitors.ViewMain, session.Main.Snapshot(), 0)
	viewData.IsHtmx = httphelpers.IsHtmx(r)

	c.renderer.Render("pages/gallery/grid", viewData, w)
}

/*
GET /gallery/next

Raised by the browser when the page is scrolled near the bottom. Only the
cards after offset are rendered.
*/
func (c HomeController) NextPage(w http.ResponseWriter, r *http.Request) {
	visitor := viewmodels.GetVisitorFromContext(r)
	session := c.registry.Get(visitor.ID)

	view := httphelpers.GetFromRequest[string](r, "view")
	offset := httphelpers.GetFromRequest[int](r, "offset")
	distance := httphelpers.GetFromRequest[int](r, "distance")

	paginator := session.Paginator(view)

	if _, err := paginator.OnScrollProximity(r.Context(), distance); err != nil {
		slog.Error("error fetching next page", "visitorID", visitor.ID, "view", view, "error", err)
	}

	if view != visitors.ViewHistory {
		view = visitors.ViewMain
	}

	viewData := viewmodels.NewGalleryGrid(view, paginator.Snapshot(), offset)
	viewData.IsHtmx = httphelpers.IsHtmx(r)

	c.renderer.Render("pages/gallery/cards", viewData, w)
}
