package visitors

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type RegistryConfig struct {
	MaxVisitors int
	NewSession  func() *Session
	TTL         time.Duration
}

/*
Registry keeps gallery sessions for recently active visitors. Sessions
expire after TTL and the least recently used are dropped past MaxVisitors.
*/
type Registry struct {
	mu         sync.Mutex
	newSession func() *Session
	sessions   *expirable.LRU[string, *Session]
}

func NewRegistry(config RegistryConfig) *Registry {
	return &Registry{
		newSession: config.NewSession,
		sessions:   expirable.NewLRU[string, *Session](config.MaxVisitors, nil, config.TTL),
	}
}

func (r *Registry) Get(visitorID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Adding again pushes the expiry out for active visitors.
	if session, ok := r.sessions.Get(visitorID); ok {
		r.sessions.Add(visitorID, session)
		return session
	}

	session := r.newSession()
	r.sessions.Add(visitorID, session)
	return session
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}
