package viewmodels

import (
	"net/http"

	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/photogallery/pkg/models"
)

type BaseViewModel struct {
	Message            string
	IsError            bool
	IsWarning          bool
	IsHtmx             bool
	JavascriptIncludes []rendering.JavascriptInclude
}

func GetVisitorFromContext(r *http.Request) *models.Visitor {
	if result, ok := r.Context().Value("visitor").(*models.Visitor); ok {
		return result
	}

	return &models.Visitor{}
}
