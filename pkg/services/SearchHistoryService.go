package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/photogallery/pkg/storage"
)

const SearchHistoryKey = "searchHistory"

type SearchHistorian interface {
	Add(term string) error
	List() []string
}

type SearchHistoryServiceConfig struct {
	Store storage.Store
}

/*
SearchHistoryService is the ordered, de-duplicated list of submitted
search terms. Every change is written through to storage.
*/
type SearchHistoryService struct {
	mu    sync.RWMutex
	store storage.Store
	terms []string
}

func NewSearchHistoryService(config SearchHistoryServiceConfig) *SearchHistoryService {
	result := &SearchHistoryService{
		store: config.Store,
		terms: []string{},
	}

	result.load()
	return result
}

func (s *SearchHistoryService) load() {
	var (
		err   error
		value string
		terms []string
	)

	if value, err = s.store.Get(SearchHistoryKey); err != nil {
		if !storage.IsNotFound(err) {
			slog.Error("error loading search history. starting empty", "error", err)
		}

		return
	}

	if err = json.Unmarshal([]byte(value), &terms); err != nil {
		slog.Warn("search history is malformed. starting empty", "error", err)
		return
	}

	for _, term := range terms {
		if !slices.IsInSlice(term, s.terms) {
			s.terms = append(s.terms, term)
		}
	}
}

func (s *SearchHistoryService) Add(term string) error {
	var (
		err error
		b   []byte
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.IsInSlice(term, s.terms) {
		return nil
	}

	updated := append(append([]string{}, s.terms...), term)

	if b, err = json.Marshal(updated); err != nil {
		return fmt.Errorf("error encoding search history: %w", err)
	}

	if err = s.store.Set(SearchHistoryKey, string(b)); err != nil {
		return fmt.Errorf("error saving search history: %w", err)
	}

	s.terms = updated
	return nil
}

func (s *SearchHistoryService) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, len(s.terms))
	copy(result, s.terms)
	return result
}
