package main

import (
	"context"
	"embed"
	"encoding/gob"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/photogallery/cmd/website/internal/cache"
	"github.com/adampresley/photogallery/cmd/website/internal/configuration"
	"github.com/adampresley/photogallery/cmd/website/internal/history"
	"github.com/adampresley/photogallery/cmd/website/internal/home"
	"github.com/adampresley/photogallery/cmd/website/internal/photos"
	"github.com/adampresley/photogallery/cmd/website/internal/visitors"
	"github.com/adampresley/photogallery/pkg/gallery"
	"github.com/adampresley/photogallery/pkg/models"
	"github.com/adampresley/photogallery/pkg/services"
	"github.com/adampresley/photogallery/pkg/storage"
	_ "github.com/glebarez/sqlite"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

var (
	Version string = "development"
	appName string = "photogallery"

	//go:embed app
	appFS embed.FS

	//go:embed sql-migrations
	sqlMigrationsFs embed.FS

	config configuration.Config

	/* Services */
	cacheWarmerService   cache.CacheWarmer
	db                   *sqlz.DB
	queryCacheService    *services.QueryCacheService
	renderer             rendering.TemplateRenderer
	searchHistoryService *services.SearchHistoryService
	sessionService       sessions.Session[*models.Visitor]
	statisticsService    services.StatisticsService
	unsplashService      services.UnsplashService
	visitorRegistry      *visitors.Registry

	/* Controllers */
	historyController history.HistoryHandlers
	homeController    home.HomeHandlers
	photoController   photos.PhotoHandlers
)

func main() {
	var (
		err          error
		historyStore storage.Store
		queryStore   storage.Store
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("storageBackend", config.StorageBackend),
		slog.String("unsplashBaseURL", config.UnsplashBaseURL),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup storage. Search history and cached queries live in separate
	 * namespaces so a query can never overwrite the history list.
	 */
	if historyStore, queryStore, err = setupStorage(); err != nil {
		panic(err)
	}

	gob.Register(&models.Visitor{})

	cookieStore := sessions.NewCookieStore(config.CookieSecret)
	sessionService = sessions.NewSessionWrapper[*models.Visitor](cookieStore, "photogalleryvisitors", "visitor")

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	/*
	 * Setup services
	 */
	unsplashService = services.NewUnsplashService(services.UnsplashServiceConfig{
		AccessKey: config.UnsplashAccessKey,
		BaseURL:   config.UnsplashBaseURL,
		PerPage:   config.PerPage,
	})

	statisticsService = services.NewStatisticsService(services.StatisticsServiceConfig{
		PhotoSearcher: unsplashService,
	})

	searchHistoryService = services.NewSearchHistoryService(services.SearchHistoryServiceConfig{
		Store: historyStore,
	})

	queryCacheService, err = services.NewQueryCacheService(services.QueryCacheServiceConfig{
		MaxEntries: config.QueryCacheSize,
		Store:      queryStore,
	})

	if err != nil {
		panic(err)
	}

	visitorRegistry = visitors.NewRegistry(visitors.RegistryConfig{
		MaxVisitors: config.MaxVisitors,
		TTL:         time.Duration(config.VisitorTTLMinutes) * time.Minute,
		NewSession: func() *visitors.Session {
			return visitors.NewSession(visitors.SessionConfig{
				Paginator: gallery.PaginatorConfig{
					Cache:            queryCacheService,
					History:          searchHistoryService,
					Logger:           slog.With("component", "paginator"),
					PerPage:          config.PerPage,
					Source:           unsplashService,
					UseCachedResults: config.UseCachedResults,
				},
				Stats: statisticsService,
			})
		},
	})

	cacheWarmerService = cache.NewCacheWarmerService(cache.CacheWarmerConfig{
		MaxCacheWorkers: config.MaxCacheWorkers,
		MaxPages:        config.CacheWarmMaxPages,
		PageFetcher:     unsplashService,
		PerPage:         config.PerPage,
		QueryCache:      queryCacheService,
		ShutdownCtx:     shutdownCtx,
	})

	/*
	 * Setup controllers
	 */
	homeController = home.NewHomeController(home.HomeControllerConfig{
		Registry:         visitorRegistry,
		Renderer:         renderer,
		SearchDebounceMs: config.SearchDebounceMs,
	})

	historyController = history.NewHistoryController(history.HistoryControllerConfig{
		Registry:      visitorRegistry,
		Renderer:      renderer,
		SearchHistory: searchHistoryService,
	})

	photoController = photos.NewPhotoController(photos.PhotoControllerConfig{
		Registry: visitorRegistry,
		Renderer: renderer,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	visitorMiddleware := newVisitorMiddleware(
		sessionService,
		[]string{
			"/static",
			"/heartbeat",
		},
	)

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /", HandlerFunc: homeController.HomePage, Middlewares: []mux.MiddlewareFunc{visitorMiddleware}},
		{Path: "GET /gallery/search", HandlerFunc: homeController.Search, Middlewares: []mux.MiddlewareFunc{visitorMiddleware}},
		{Path: "GET /gallery/next", HandlerFunc: homeController.NextPage, Middlewares: []mux.MiddlewareFunc{visitorMiddleware}},
		{Path: "GET /history", HandlerFunc: historyController.HistoryPage, Middlewares: []mux.MiddlewareFunc{visitorMiddleware}},
		{Path: "GET /history/search", HandlerFunc: historyController.Search, Middlewares: []mux.MiddlewareFunc{visitorMiddleware}},
		{Path: "GET /history/next", HandlerFunc: homeController.NextPage, Middlewares: []mux.MiddlewareFunc{visitorMiddleware}},
		{Path: "GET /photos/close", HandlerFunc: photoController.CloseModal, Middlewares: []mux.MiddlewareFunc{visitorMiddleware}},
		{Path: "GET /photos/{id}", HandlerFunc: photoController.PhotoModal, Middlewares: []mux.MiddlewareFunc{visitorMiddleware}},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the cache warmer job
	 */
	setupCacheWarmer(quit)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func setupStorage() (storage.Store, storage.Store, error) {
	var (
		err error
	)

	switch config.StorageBackend {
	case "memory":
		slog.Warn("using in-memory storage. cached queries and search history are lost on restart")
		return storage.NewMemoryStore(), storage.NewMemoryStore(), nil

	case "s3":
		awsConfig := &awsconfig.Config{
			Endpoint:        config.AwsEndpointUrl,
			Region:          config.AwsRegion,
			AccessKeyID:     config.AwsAccessKeyId,
			SecretAccessKey: config.AwsSecretAccessKey,
		}

		retrier.Retry(func() error {
			if err = awsConfig.Load(); err != nil {
				slog.Error("failed to load AWS config. trying again", "error", err)
				return err
			}

			return nil
		})

		if err != nil {
			return nil, nil, err
		}

		s3Client, err := s3.NewClient(awsConfig)

		if err != nil {
			return nil, nil, err
		}

		historyStore := storage.NewS3Store(storage.S3StoreConfig{
			Bucket:    config.AwsBucket,
			Folder:    config.CacheFolder,
			Namespace: "history",
			S3Client:  s3Client,
		})

		if err = historyStore.EnsureBucket(config.AwsRegion); err != nil {
			return nil, nil, err
		}

		queryStore := storage.NewS3Store(storage.S3StoreConfig{
			Bucket:    config.AwsBucket,
			Folder:    config.CacheFolder,
			Namespace: "queries",
			S3Client:  s3Client,
		})

		return historyStore, queryStore, nil

	default:
		binds.Register("sqlite", binds.BindByDriver("sqlite3"))

		retrier.Retry(func() error {
			if db, err = sqlz.Connect("sqlite", config.DSN); err != nil {
				slog.Error("failed to connect to database. trying again", "error", err)
				return err
			}

			return nil
		})

		if err != nil {
			return nil, nil, err
		}

		migrateDatabase()

		historyStore := storage.NewSqliteStore(storage.SqliteStoreConfig{
			DB:        db,
			Namespace: "history",
		})

		queryStore := storage.NewSqliteStore(storage.SqliteStoreConfig{
			DB:        db,
			Namespace: "queries",
		})

		return historyStore, queryStore, nil
	}
}

func migrateDatabase() {
	var (
		err  error
		dirs []fs.DirEntry
		b    []byte
	)

	if dirs, err = sqlMigrationsFs.ReadDir("sql-migrations"); err != nil {
		panic(err)
	}

	for _, d := range dirs {
		if d.IsDir() {
			continue
		}

		if strings.HasPrefix(d.Name(), "commit") {
			if b, err = fs.ReadFile(sqlMigrationsFs, filepath.Join("sql-migrations", d.Name())); err != nil {
				panic(err)
			}

			if err = runSqlScript(b); err != nil {
				if !isIgnorableError(err) {
					panic(err)
				}
			}
		}
	}
}

func runSqlScript(script []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err := db.Exec(ctx, string(script))
	return err
}

func isIgnorableError(err error) bool {
	if strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists") {
		return true
	}

	return false
}

func setupCacheWarmer(quit chan os.Signal) {
	if config.CacheWarmIntervalMinutes <= 0 {
		slog.Info("cache warmer disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(time.Duration(config.CacheWarmIntervalMinutes) * time.Minute)
		defer ticker.Stop()

		running := true

		runner := func() {
			running = true

			defer func() {
				running = false
			}()

			cacheWarmerService.WarmCache()
			slog.Info("cache warmer finished.")
		}

		runner()

		for {
			select {
			case <-quit:
				return

			case <-ticker.C:
				if running {
					slog.Info("cache warmer already running. skipping...")
					continue
				}

				runner()
			}
		}
	}()
}
