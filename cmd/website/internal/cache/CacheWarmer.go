package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/adampresley/photogallery/pkg/models"
	"github.com/adampresley/photogallery/pkg/services"
	"github.com/alitto/pond/v2"
)

type CacheWarmer interface {
	WarmCache()
}

type PageFetcher interface {
	FetchPage(ctx context.Context, query string, page int) (models.PhotoPage, error)
}

type CacheWarmerConfig struct {
	MaxCacheWorkers int
	MaxPages        int
	PageFetcher     PageFetcher
	PerPage         int
	QueryCache      services.QueryCacher
	ShutdownCtx     context.Context
}

/*
CacheWarmerService refreshes every cached query so that results primed
from the cache don't drift too far from what the API currently returns.
Warming never changes which queries count as recently used.
*/
type CacheWarmerService struct {
	maxCacheWorkers int
	maxPages        int
	pageFetcher     PageFetcher
	perPage         int
	queryCache      services.QueryCacher
	shutdownCtx     context.Context
}

func NewCacheWarmerService(config CacheWarmerConfig) CacheWarmerService {
	if config.MaxCacheWorkers <= 0 {
		config.MaxCacheWorkers = 1
	}

	if config.PerPage <= 0 {
		config.PerPage = services.DefaultPerPage
	}

	if config.ShutdownCtx == nil {
		config.ShutdownCtx = context.Background()
	}

	return CacheWarmerService{
		maxCacheWorkers: config.MaxCacheWorkers,
		maxPages:        config.MaxPages,
		pageFetcher:     config.PageFetcher,
		perPage:         config.PerPage,
		queryCache:      config.QueryCache,
		shutdownCtx:     config.ShutdownCtx,
	}
}

func (c CacheWarmerService) WarmCache() {
	var (
		mu        sync.Mutex
		refreshed int
		failed    int
	)

	queries := c.queryCache.Queries()
	slog.Info("starting cache warm...", "numQueries", len(queries))

	pool := pond.NewPool(c.maxCacheWorkers, pond.WithContext(c.shutdownCtx))

	for _, query := range queries {
		pool.Submit(func() {
			err := c.warmQuery(query)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failed++
				slog.Error("error warming cached query", "query", query, "error", err)
				return
			}

			refreshed++
		})
	}

	_ = pool.Stop().Wait()
	slog.Info("cache warm finished", "refreshed", refreshed, "failed", failed)
}

func (c CacheWarmerService) warmQuery(query string) error {
	var (
		err  error
		page models.PhotoPage
	)

	cached, ok := c.queryCache.Peek(query)
	if !ok {
		return nil
	}

	numPages := (len(cached) + c.perPage - 1) / c.perPage
	if numPages == 0 {
		numPages = 1
	}

	if c.maxPages > 0 && numPages > c.maxPages {
		numPages = c.maxPages
	}

	images := make([]models.Image, 0, numPages*c.perPage)

	for pageNumber := 1; pageNumber <= numPages; pageNumber++ {
		if err = c.shutdownCtx.Err(); err != nil {
			return fmt.Errorf("error warming query '%s': %w", query, err)
		}

		if page, err = c.pageFetcher.FetchPage(c.shutdownCtx, query, pageNumber); err != nil {
			return fmt.Errorf("error fetching page %d for query '%s': %w", pageNumber, query, err)
		}

		images = append(images, page.Images...)

		if len(page.Images) == 0 || (page.TotalPages > 0 && pageNumber >= page.TotalPages) {
			break
		}
	}

	if err = c.queryCache.Refresh(query, images); err != nil {
		return fmt.Errorf("error storing warmed query '%s': %w", query, err)
	}

	return nil
}
