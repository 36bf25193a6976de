package gallery

import (
	"context"
	"log/slog"
	"sync"

	"github.com/adampresley/photogallery/pkg/models"
)

/*
ScrollThreshold is the remaining scroll distance, in pixels, at which the
next page is requested.
*/
const ScrollThreshold = 10

type State int

const (
	StateIdle State = iota
	StateFetching
	StateError
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

type PhotoSource interface {
	FetchPage(ctx context.Context, query string, page int) (models.PhotoPage, error)
}

type ResultCache interface {
	Get(query string) ([]models.Image, bool)
	Put(query string, images []models.Image) error
}

type HistoryRecorder interface {
	Add(term string) error
}

type PaginatorConfig struct {
	Cache            ResultCache
	History          HistoryRecorder
	Logger           *slog.Logger
	PerPage          int
	Source           PhotoSource
	UseCachedResults bool
}

type Snapshot struct {
	Query     string
	Cursor    int
	State     State
	Err       error
	Exhausted bool
	Images    []models.Image
}

type Paginator struct {
	cache            ResultCache
	history          HistoryRecorder
	logger           *slog.Logger
	perPage          int
	source           PhotoSource
	useCachedResults bool

	mu        sync.Mutex
	epoch     uint64
	query     string
	cursor    int
	images    []models.Image
	state     State
	err       error
	inFlight  bool
	exhausted bool
}

func NewPaginator(config PaginatorConfig) *Paginator {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	if config.PerPage <= 0 {
		config.PerPage = 20
	}

	return &Paginator{
		cache:            config.Cache,
		history:          config.History,
		logger:           config.Logger,
		perPage:          config.PerPage,
		source:           config.Source,
		useCachedResults: config.UseCachedResults,
		cursor:           1,
		images:           []models.Image{},
		state:            StateIdle,
	}
}

/*
SubmitQuery activates a new query. The empty term selects the popular
feed. The cursor and result set are reset before anything else happens,
then the result set is primed from the cache or with a fetch of page 1.
Submitting the active term again while its first page is still loading
does nothing.
*/
func (p *Paginator) SubmitQuery(ctx context.Context, term string) error {
	p.mu.Lock()

	if p.epoch > 0 && term == p.query && p.inFlight && len(p.images) == 0 {
		p.mu.Unlock()
		p.logger.Debug("query already loading", "query", term)
		return nil
	}

	p.epoch++
	epoch := p.epoch
	p.query = term
	p.cursor = 1
	p.images = []models.Image{}
	p.state = StateIdle
	p.err = nil
	p.inFlight = false
	p.exhausted = false
	p.mu.Unlock()

	if term != "" && p.history != nil {
		if err := p.history.Add(term); err != nil {
			p.logger.Error("error recording search history", "query", term, "error", err)
		}
	}

	if p.primeFromCache(term, epoch) {
		return nil
	}

	_, err := p.RequestNextPage(ctx)
	return err
}

func (p *Paginator) primeFromCache(term string, epoch uint64) bool {
	if !p.useCachedResults || p.cache == nil {
		return false
	}

	cached, ok := p.cache.Get(term)
	if !ok || len(cached) == 0 {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another submit or fetch got there first.
	if p.epoch != epoch || p.inFlight || len(p.images) > 0 {
		return true
	}

	pages := (len(cached) + p.perPage - 1) / p.perPage

	p.images = cached
	p.cursor = pages + 1

	p.logger.Debug("primed results from cache", "query", term, "images", len(cached), "cursor", p.cursor)
	return true
}

/*
RequestNextPage fetches the page at the cursor and appends it. It returns
false without doing anything while another fetch for the active query is
outstanding or once the feed is exhausted. A failed fetch leaves the
cursor and results untouched so the call can be retried.
*/
func (p *Paginator) RequestNextPage(ctx context.Context) (bool, error) {
	p.mu.Lock()

	if p.inFlight || p.exhausted {
		p.mu.Unlock()
		return false, nil
	}

	p.inFlight = true
	p.state = StateFetching
	p.err = nil

	epoch := p.epoch
	query := p.query
	page := p.cursor

	p.mu.Unlock()

	result, err := p.source.FetchPage(ctx, query, page)

	p.mu.Lock()
	defer p.mu.Unlock()

	if epoch != p.epoch {
		p.logger.Debug("discarding results for a replaced query", "query", query, "page", page)
		return false, nil
	}

	p.inFlight = false

	if err != nil {
		p.state = StateError
		p.err = err
		p.logger.Error("error fetching images", "query", query, "page", page, "error", err)
		return false, err
	}

	p.images = append(p.images[:len(p.images):len(p.images)], result.Images...)
	p.cursor++
	p.state = StateIdle

	if len(result.Images) == 0 || (result.TotalPages > 0 && page >= result.TotalPages) {
		p.exhausted = true
	}

	if p.cache != nil {
		if err = p.cache.Put(query, p.images); err != nil {
			p.logger.Error("error caching results", "query", query, "error", err)
		}
	}

	return true, nil
}

/*
OnScrollProximity requests the next page when the remaining distance to
the bottom of the document is within ScrollThreshold.
*/
func (p *Paginator) OnScrollProximity(ctx context.Context, distance int) (bool, error) {
	if distance > ScrollThreshold {
		return false, nil
	}

	return p.RequestNextPage(ctx)
}

/*
Snapshot returns the current state. Images shares storage with the
paginator but is capped so later appends never write into it.
*/
func (p *Paginator) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Snapshot{
		Query:     p.query,
		Cursor:    p.cursor,
		State:     p.state,
		Err:       p.err,
		Exhausted: p.exhausted,
		Images:    p.images[:len(p.images):len(p.images)],
	}
}

func (p *Paginator) ImagesFrom(offset int) []models.Image {
	p.mu.Lock()
	defer p.mu.Unlock()

	if offset < 0 {
		offset = 0
	}

	if offset >= len(p.images) {
		return []models.Image{}
	}

	return p.images[offset:len(p.images):len(p.images)]
}

func (p *Paginator) Find(imageID string) (models.Image, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, image := range p.images {
		if image.ID == imageID {
			return image, true
		}
	}

	return models.Image{}, false
}
