package gallery

import (
	"context"
	"sync"

	"github.com/adampresley/photogallery/pkg/models"
)

type StatsFetcher interface {
	FetchStats(ctx context.Context, imageID string) models.ImageStatistics
}

/*
DetailView is the open-photo modal. Statistics are fetched when a photo is
opened and are only kept while that photo stays open.
*/
type DetailView struct {
	stats StatsFetcher

	mu         sync.Mutex
	generation uint64
	open       bool
	loaded     bool
	image      models.Image
	statistics models.ImageStatistics
}

func NewDetailView(stats StatsFetcher) *DetailView {
	return &DetailView{
		stats: stats,
	}
}

func (d *DetailView) Open(ctx context.Context, image models.Image) models.ImageStatistics {
	d.mu.Lock()

	if d.open && d.loaded && d.image.ID == image.ID {
		result := d.statistics
		d.mu.Unlock()
		return result
	}

	d.generation++
	generation := d.generation
	d.open = true
	d.loaded = false
	d.image = image
	d.statistics = models.UnavailableStatistics(image.ID)

	d.mu.Unlock()

	result := d.stats.FetchStats(ctx, image.ID)

	d.mu.Lock()
	defer d.mu.Unlock()

	if generation == d.generation {
		d.statistics = result
		d.loaded = true
	}

	return result
}

func (d *DetailView) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	d.open = false
	d.loaded = false
	d.image = models.Image{}
	d.statistics = models.ImageStatistics{}
}

func (d *DetailView) Current() (models.Image, models.ImageStatistics, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.image, d.statistics, d.open
}
