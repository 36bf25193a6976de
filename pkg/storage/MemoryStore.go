package storage

import (
	"sync"
)

/*
MemoryStore is a non-durable Store, used when no persistence is wanted
and in tests.
*/
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	order  []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: map[string]string{},
		order:  []string{},
	}
}

func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeFromOrder(key)
	s.values[key] = value
	s.order = append(s.order, key)
	return nil
}

func (s *MemoryStore) Replace(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return ErrNotFound
	}

	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeFromOrder(key)
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]string, len(s.order))
	copy(result, s.order)
	return result, nil
}

func (s *MemoryStore) removeFromOrder(key string) {
	for index, k := range s.order {
		if k == key {
			s.order = append(s.order[:index], s.order[index+1:]...)
			return
		}
	}
}
