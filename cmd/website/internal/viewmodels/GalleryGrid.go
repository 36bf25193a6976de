package viewmodels

import (
	"fmt"

	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/photogallery/pkg/gallery"
	"github.com/adampresley/photogallery/pkg/models"
)

type GalleryGrid struct {
	BaseViewModel

	View       string
	Query      string
	Cards      []GalleryCard
	NextOffset int
	HasMore    bool
	IsLoading  bool
}

type GalleryCard struct {
	Key            string
	ID             string
	ThumbnailURL   string
	AltDescription string
	Likes          int
}

/*
NewGalleryGrid builds the grid for the images starting at offset. Card
keys combine the photo ID with its position because the API can return
the same photo on more than one page.
*/
func NewGalleryGrid(view string, snapshot gallery.Snapshot, offset int) GalleryGrid {
	images := []models.Image{}

	if offset < len(snapshot.Images) {
		images = snapshot.Images[offset:]
	}

	result := GalleryGrid{
		View:       view,
		Query:      snapshot.Query,
		NextOffset: len(snapshot.Images),
		HasMore:    !snapshot.Exhausted,
		IsLoading:  snapshot.State == gallery.StateFetching,
		Cards: slices.Map(images, func(input models.Image, index int) GalleryCard {
			return GalleryCard{
				Key:            fmt.Sprintf("%s-%d", input.ID, offset+index),
				ID:             input.ID,
				ThumbnailURL:   input.URLs.Small,
				AltDescription: input.AltDescription,
				Likes:          input.Likes,
			}
		}),
	}

	if snapshot.State == gallery.StateError {
		result.IsError = true
		result.Message = "There was a problem getting photos. Scroll or search again to retry."
	}

	return result
}
