package photos

import (
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/photogallery/cmd/website/internal/viewmodels"
	"github.com/adampresley/photogallery/cmd/website/internal/visitors"
)

type PhotoHandlers interface {
	CloseModal(w http.ResponseWriter, r *http.Request)
	PhotoModal(w http.ResponseWriter, r *http.Request)
}

type PhotoControllerConfig struct {
	Registry *visitors.Registry
	Renderer rendering.TemplateRenderer
}

type PhotoController struct {
	registry *visitors.Registry
	renderer rendering.TemplateRenderer
}

func NewPhotoController(config PhotoControllerConfig) PhotoController {
	return PhotoController{
		registry: config.Registry,
		renderer: config.Renderer,
	}
}

/*
GET /photos/{id}
*/
func (c PhotoController) PhotoModal(w http.ResponseWriter, r *http.Request) {
	visitor := viewmodels.GetVisitorFromContext(r)
	session := c.registry.Get(visitor.ID)

	id := httphelpers.GetFromRequest[string](r, "id")
	view := httphelpers.GetFromRequest[string](r, "view")

	image, ok := session.Paginator(view).Find(id)
	if !ok {
		httphelpers.WriteText(w, http.StatusNotFound, "photo not found")
		return
	}

	stats := session.Detail.Open(r.Context(), image)

	viewData := viewmodels.PhotoModal{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
		},
		ID:             image.ID,
		ThumbnailURL:   image.URLs.Small,
		AltDescription: image.AltDescription,
		Likes:          image.Likes,
		Views:          stats.ViewsText(),
		Downloads:      stats.DownloadsText(),
	}

	c.renderer.Render("pages/photos/modal", viewData, w)
}

/*
GET /photos/close
*/
func (c PhotoController) CloseModal(w http.ResponseWriter, r *http.Request) {
	visitor := viewmodels.GetVisitorFromContext(r)
	c.registry.Get(visitor.ID).Detail.Close()

	httphelpers.WriteHtml(w, http.StatusOK, "")
}
