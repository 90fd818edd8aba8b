package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"bringlist/internal/config"
	"bringlist/internal/db"
	itemsdomain "bringlist/internal/domain/items"
	listsdomain "bringlist/internal/domain/lists"
	"bringlist/internal/domain/session"
	"bringlist/internal/repository/document"
	"bringlist/internal/repository/inmemory"
	"bringlist/internal/transport/httpserver"
	"bringlist/internal/transport/httpserver/handler"
	"bringlist/internal/transport/httpserver/handler/common"
	itemshandler "bringlist/internal/transport/httpserver/handler/items"
	listshandler "bringlist/internal/transport/httpserver/handler/lists"
	"bringlist/internal/transport/httpserver/handler/pages"
	"bringlist/internal/transport/httpserver/middleware"
	"bringlist/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	store      *document.Store
	db         *gorm.DB
}

func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := document.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("register store metrics: %w", err)
	}

	log.Info("app: opening store", "backend", cfg.Store.Backend)
	store, dbConn, err := OpenStore(ctx, cfg, log, document.WithMetrics(metrics))
	if err != nil {
		return nil, err
	}

	application := &App{cfg: cfg, store: store, db: dbConn}

	// Seeds the document on first start and fails fast on a corrupt one.
	if _, err := store.Load(ctx); err != nil {
		_ = application.Close()
		return nil, fmt.Errorf("load store: %w", err)
	}

	log.Info("app: initializing session gate")
	gate, err := newGate(cfg.Auth, log)
	if err != nil {
		_ = application.Close()
		return nil, err
	}

	itemsService := itemsdomain.NewService(store)
	listsService := listsdomain.NewService(store)
	sessions := middleware.NewSessionAuth(gate, cfg.Auth.CookieSecure, log)

	pagesHandlers, err := pages.New(itemsService, listsService, gate, sessions, cfg.PublicBaseURL, log)
	if err != nil {
		_ = application.Close()
		return nil, fmt.Errorf("load page templates: %w", err)
	}
	handlers := handler.New(
		common.New(gate, sessions, log),
		itemshandler.New(itemsService, log),
		listshandler.New(listsService, log),
		pagesHandlers,
	)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, sessions, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), log)

	log.Info("app: initializing http server")
	application.httpServer = httpserver.New(cfg, router)
	return application, nil
}

// OpenStore opens the configured backend. The returned *gorm.DB is nil for
// the file backend.
func OpenStore(ctx context.Context, cfg config.Config, log logger.Logger, opts ...document.Option) (*document.Store, *gorm.DB, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		log.Info("app: initializing database")
		dbConn, err := db.NewPostgres(ctx, cfg.DB, log)
		if err != nil {
			return nil, nil, err
		}
		backend, err := document.NewPostgresBackend(ctx, dbConn, cfg.Store.DocumentName)
		if err != nil {
			_ = db.Close(dbConn)
			return nil, nil, err
		}
		return document.NewStore(backend, opts...), dbConn, nil
	case config.StoreBackendMemory:
		log.Warn("app: using in-memory store, data is lost on restart")
		return document.NewStore(inmemory.NewBackend(), opts...), nil, nil
	default:
		backend := document.NewFileBackend(cfg.Store.DataDir, cfg.Store.LockTimeout)
		log.Info("app: using file store", "path", backend.Path())
		return document.NewStore(backend, opts...), nil, nil
	}
}

func newGate(cfg config.AuthConfig, log logger.Logger) (*session.Gate, error) {
	var verifier session.Verifier
	if cfg.AdminPasswordHash != "" {
		bcryptVerifier, err := session.NewBcryptVerifier(cfg.AdminPasswordHash)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH: %w", err)
		}
		verifier = bcryptVerifier
	} else {
		if cfg.UsesDefaultPassword() {
			log.Warn("auth: ADMIN_PASSWORD is not set, using the default password")
		}
		verifier = session.NewPlainVerifier(cfg.AdminPassword)
	}

	if cfg.SessionSecret == "" {
		log.Warn("auth: SESSION_SECRET is not set, sessions will not survive a restart")
	}
	return session.NewGate(verifier, []byte(cfg.SessionSecret), session.WithTTL(cfg.SessionTTL))
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Store() *document.Store {
	return a.store
}

func (a *App) Close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.db != nil {
		errs = append(errs, db.Close(a.db))
	}
	return errors.Join(errs...)
}
