package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/adampresley/photogallery/pkg/models"
	"github.com/adampresley/photogallery/pkg/storage"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultQueryCacheSize = 100

type QueryCacher interface {
	Get(query string) ([]models.Image, bool)
	Peek(query string) ([]models.Image, bool)
	Put(query string, images []models.Image) error
	Queries() []string
	Refresh(query string, images []models.Image) error
}

type QueryCacheServiceConfig struct {
	MaxEntries int
	Store      storage.Store
}

/*
QueryCacheService stores the accumulated result set for each query. The
number of entries is capped; the least recently used query is evicted
from the durable store when the cap is exceeded.
*/
type QueryCacheService struct {
	index *lru.Cache[string, struct{}]
	store storage.Store
}

func NewQueryCacheService(config QueryCacheServiceConfig) (*QueryCacheService, error) {
	var (
		err  error
		keys []string
	)

	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultQueryCacheSize
	}

	result := &QueryCacheService{
		store: config.Store,
	}

	result.index, err = lru.NewWithEvict(config.MaxEntries, func(query string, _ struct{}) {
		slog.Info("evicting cached query", "query", query)

		if err := result.store.Delete(query); err != nil {
			slog.Error("error deleting evicted query from storage", "query", query, "error", err)
		}
	})

	if err != nil {
		return nil, fmt.Errorf("error creating query cache index: %w", err)
	}

	/*
	 * Rebuild recency from storage. Keys come back oldest first, so the
	 * most recently written queries end up most recently used.
	 */
	if keys, err = config.Store.Keys(); err != nil {
		slog.Error("error loading cached query keys. starting with an empty index", "error", err)
		return result, nil
	}

	for _, key := range keys {
		result.index.Add(key, struct{}{})
	}

	slog.Debug("query cache loaded", "entries", result.index.Len())
	return result, nil
}

func (s *QueryCacheService) Get(query string) ([]models.Image, bool) {
	images, ok := s.read(query)

	if ok {
		s.index.Add(query, struct{}{})
	}

	return images, ok
}

/*
Peek reads a cached query without marking it as recently used.
*/
func (s *QueryCacheService) Peek(query string) ([]models.Image, bool) {
	if !s.index.Contains(query) {
		return nil, false
	}

	return s.read(query)
}

func (s *QueryCacheService) read(query string) ([]models.Image, bool) {
	var (
		err    error
		value  string
		images []models.Image
	)

	if value, err = s.store.Get(query); err != nil {
		if !storage.IsNotFound(err) {
			slog.Error("error reading cached query", "query", query, "error", err)
		}

		return nil, false
	}

	if err = json.Unmarshal([]byte(value), &images); err != nil {
		slog.Warn("ignoring malformed cached query", "query", query, "error", err)
		return nil, false
	}

	return images, true
}

func (s *QueryCacheService) Put(query string, images []models.Image) error {
	var (
		err error
		b   []byte
	)

	if images == nil {
		images = []models.Image{}
	}

	if b, err = json.Marshal(images); err != nil {
		return fmt.Errorf("error encoding result set for query '%s': %w", query, err)
	}

	if err = s.store.Set(query, string(b)); err != nil {
		return fmt.Errorf("error caching result set for query '%s': %w", query, err)
	}

	s.index.Add(query, struct{}{})
	return nil
}

/*
Refresh overwrites the result set of a query that is still cached,
leaving its recency alone. Queries evicted in the meantime are skipped.
*/
func (s *QueryCacheService) Refresh(query string, images []models.Image) error {
	var (
		err error
		b   []byte
	)

	if !s.index.Contains(query) {
		return nil
	}

	if images == nil {
		images = []models.Image{}
	}

	if b, err = json.Marshal(images); err != nil {
		return fmt.Errorf("error encoding result set for query '%s': %w", query, err)
	}

	if err = s.store.Replace(query, string(b)); err != nil {
		if storage.IsNotFound(err) {
			return nil
		}

		return fmt.Errorf("error refreshing result set for query '%s': %w", query, err)
	}

	return nil
}

/*
Queries returns the cached queries, least recently used first.
*/
func (s *QueryCacheService) Queries() []string {
	return s.index.Keys()
}
