package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/adampresley/photogallery/pkg/models"
	"github.com/stretchr/testify/assert"
)

type fakeQueryCache struct {
	mu        sync.Mutex
	entries   map[string][]models.Image
	puts      map[string]int
	refreshes map[string]int
	gets      int
}

func newFakeQueryCache(entries map[string][]models.Image) *fakeQueryCache {
	return &fakeQueryCache{entries: entries, puts: map[string]int{}, refreshes: map[string]int{}}
}

func (c *fakeQueryCache) Get(query string) ([]models.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	images, ok := c.entries[query]
	return images, ok
}

func (c *fakeQueryCache) Peek(query string) ([]models.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	images, ok := c.entries[query]
	return images, ok
}

func (c *fakeQueryCache) Refresh(query string, images []models.Image) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[query] = images
	c.refreshes[query]++
	return nil
}

func (c *fakeQueryCache) Put(query string, images []models.Image) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[query] = images
	c.puts[query]++
	return nil
}

func (c *fakeQueryCache) Queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]string, 0, len(c.entries))
	for query := range c.entries {
		result = append(result, query)
	}

	return result
}

type fakePageFetcher struct {
	mu      sync.Mutex
	failOn  string
	perPage int
	calls   []string
}

func (f *fakePageFetcher) FetchPage(ctx context.Context, query string, page int) (models.PhotoPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s:%d", query, page))
	f.mu.Unlock()

	if query == f.failOn && page == 2 {
		return models.PhotoPage{}, errors.New("boom")
	}

	images := make([]models.Image, f.perPage)
	for i := range images {
		images[i] = models.Image{ID: fmt.Sprintf("%s-fresh-%d-%d", query, page, i)}
	}

	return models.PhotoPage{Images: images, TotalPages: 10}, nil
}

func images(n int) []models.Image {
	result := make([]models.Image, n)
	for i := range result {
		result[i] = models.Image{ID: fmt.Sprintf("stale-%d", i)}
	}

	return result
}

func TestWarmCacheRefreshesPagesCoveredByEntry(t *testing.T) {
	cache := newFakeQueryCache(map[string][]models.Image{"cats": images(5)})
	fetcher := &fakePageFetcher{perPage: 2}

	warmer := NewCacheWarmerService(CacheWarmerConfig{
		MaxCacheWorkers: 2,
		PageFetcher:     fetcher,
		PerPage:         2,
		QueryCache:      cache,
	})

	warmer.WarmCache()

	assert.Equal(t, []string{"cats:1", "cats:2", "cats:3"}, fetcher.calls)
	assert.Len(t, cache.entries["cats"], 6)
	assert.Equal(t, "cats-fresh-1-0", cache.entries["cats"][0].ID)

	// Warming must not count as use of the query.
	assert.Equal(t, 1, cache.refreshes["cats"])
	assert.Equal(t, 0, cache.puts["cats"])
	assert.Equal(t, 0, cache.gets)
}

func TestWarmCacheCapsPages(t *testing.T) {
	cache := newFakeQueryCache(map[string][]models.Image{"dogs": images(10)})
	fetcher := &fakePageFetcher{perPage: 2}

	warmer := NewCacheWarmerService(CacheWarmerConfig{
		MaxPages:    2,
		PageFetcher: fetcher,
		PerPage:     2,
		QueryCache:  cache,
	})

	warmer.WarmCache()

	assert.Equal(t, []string{"dogs:1", "dogs:2"}, fetcher.calls)
	assert.Len(t, cache.entries["dogs"], 4)
}

func TestWarmCacheKeepsEntryWhenAPageFails(t *testing.T) {
	stale := images(4)
	cache := newFakeQueryCache(map[string][]models.Image{"birds": stale})
	fetcher := &fakePageFetcher{perPage: 2, failOn: "birds"}

	warmer := NewCacheWarmerService(CacheWarmerConfig{
		PageFetcher: fetcher,
		PerPage:     2,
		QueryCache:  cache,
	})

	warmer.WarmCache()

	assert.Equal(t, 0, cache.refreshes["birds"])
	assert.Equal(t, stale, cache.entries["birds"])
}

func TestWarmCacheStopsWhenShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cache := newFakeQueryCache(map[string][]models.Image{"fish": images(2)})
	fetcher := &fakePageFetcher{perPage: 2}

	warmer := NewCacheWarmerService(CacheWarmerConfig{
		PageFetcher: fetcher,
		PerPage:     2,
		QueryCache:  cache,
		ShutdownCtx: ctx,
	})

	warmer.WarmCache()

	assert.Empty(t, fetcher.calls)
	assert.Equal(t, 0, cache.refreshes["fish"])
}
