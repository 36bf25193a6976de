package history

import (
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/photogallery/cmd/website/internal/viewmodels"
	"github.com/adampresley/photogallery/cmd/website/internal/visitors"
	"github.com/adampresley/photogallery/pkg/services"
)

type HistoryHandlers interface {
	HistoryPage(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
}

type HistoryControllerConfig struct {
	Registry      *visitors.Registry
	Renderer      rendering.TemplateRenderer
	SearchHistory services.SearchHistorian
}

type HistoryController struct {
	registry      *visitors.Registry
	renderer      rendering.TemplateRenderer
	searchHistory services.SearchHistorian
}

func NewHistoryController(config HistoryControllerConfig) HistoryController {
	return HistoryController{
		registry:      config.Registry,
		renderer:      config.Renderer,
		searchHistory: config.SearchHistory,
	}
}

/*
GET /history
*/
func (c HistoryController) HistoryPage(w http.ResponseWriter, r *http.Request) {
	visitor := viewmodels.GetVisitorFromContext(r)
	session := c.registry.Get(visitor.ID)
	snapshot := session.History.Snapshot()

	viewData := viewmodels.HistoryPage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{
				{Type: "module", Src: "/static/js/pages/gallery.js"},
			},
		},
		SearchHistory: c.searchHistory.List(),
		SelectedQuery: snapshot.Query,
		HasSelection:  snapshot.Query != "",
		Grid:          viewmodels.NewGalleryGrid(visitors.ViewHistory, snapshot, 0),
	}

	c.renderer.Render("pages/history", viewData, w)
}

/*
GET /history/search
*/
func (c HistoryController) Search(w http.ResponseWriter, r *http.Request) {
	visitor := viewmodels.GetVisitorFromContext(r)
	session := c.registry.Get(visitor.ID)
	query := httphelpers.GetFromRequest[string](r, "query")

	if err := session.History.SubmitQuery(r.Context(), query); err != nil {
		slog.Error("error re-running search from history", "visitorID", visitor.ID, "query", query, "error", err)
	}

	viewData := viewmodels.NewGalleryGrid(visitors.ViewHistory, session.History.Snapshot(), 0)
	viewData.IsHtmx = httphelpers.IsHtmx(r)

	c.renderer.Render("pages/gallery/grid", viewData, w)
}
