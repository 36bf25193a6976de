package visitors

import (
	"context"
	"log/slog"
	"sync"

	"github.com/adampresley/photogallery/pkg/gallery"
)

const (
	ViewMain    = "main"
	ViewHistory = "history"
)

type SessionConfig struct {
	Paginator gallery.PaginatorConfig
	Stats     gallery.StatsFetcher
}

/*
Session is one visitor's gallery state: a paginator for the main gallery,
a separate one for the history page, and the open photo modal.
*/
type Session struct {
	Main    *gallery.Paginator
	History *gallery.Paginator
	Detail  *gallery.DetailView

	logger      *slog.Logger
	mainStarted sync.Once
}

func NewSession(config SessionConfig) *Session {
	logger := config.Paginator.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mainConfig := config.Paginator
	mainConfig.Logger = logger.With("view", ViewMain)

	historyConfig := config.Paginator
	historyConfig.Logger = logger.With("view", ViewHistory)

	return &Session{
		Main:    gallery.NewPaginator(mainConfig),
		History: gallery.NewPaginator(historyConfig),
		Detail:  gallery.NewDetailView(config.Stats),
		logger:  logger,
	}
}

/*
StartMain loads the default feed the first time the main gallery is shown.
*/
func (s *Session) StartMain(ctx context.Context) {
	s.mainStarted.Do(func() {
		if err := s.Main.SubmitQuery(ctx, ""); err != nil {
			s.logger.Error("error loading default feed", "view", ViewMain, "error", err)
		}
	})
}

func (s *Session) Paginator(view string) *gallery.Paginator {
	if view == ViewHistory {
		return s.History
	}

	return s.Main
}
