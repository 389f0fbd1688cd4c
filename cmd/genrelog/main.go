package main

import (
	"context"
	"errors"
	"os"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/genrelog/internal/catalog"
	"github.com/example/genrelog/internal/events"
	"github.com/example/genrelog/internal/handlers"
	"github.com/example/genrelog/internal/metrics"
	"github.com/example/genrelog/internal/platform/auth"
	"github.com/example/genrelog/internal/platform/config"
	"github.com/example/genrelog/internal/platform/db"
	"github.com/example/genrelog/internal/platform/httpserver"
	"github.com/example/genrelog/internal/platform/logging"
	"github.com/example/genrelog/internal/platform/run"
	"github.com/example/genrelog/internal/service"
	"github.com/example/genrelog/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cat, err := catalog.LoadFile(cfg.GenresPath)
	if err != nil {
		log.Error("load genre catalog", zap.String("path", cfg.GenresPath), zap.Error(err))
		run.Exit(1)
	}
	log.Info("catalog loaded", zap.String("path", cfg.GenresPath), zap.Int("genres", cat.Len()))

	ctx := context.Background()
	st, cleanup, err := openStore(ctx, cfg, cat, log)
	if err != nil {
		log.Error("open store", zap.Error(err))
		run.Exit(1)
	}
	defer cleanup()

	pub, err := events.New(cfg.NATSURL, log)
	if err != nil {
		log.Error("events publisher", zap.Error(err))
		run.Exit(1)
	}
	defer pub.Close()

	svc := service.New(st, cat, pub, log, cfg.PageSize)

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: func() error {
		return svc.Ready(context.Background())
	}})

	r.Method("GET", "/metrics", metrics.Handler())

	verifier := auth.JWTVerifier{Secret: []byte(cfg.JWTSecret)}

	r.Route("/v1", func(r chi.Router) {
		r.With(metrics.Middleware("search_genres")).
			Get("/genres/search", handlers.SearchGenres(svc))
		r.With(metrics.Middleware("get_genre")).
			Get("/genres/{genre_id}", handlers.GetGenre(svc))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(verifier))
			r.With(metrics.Middleware("next_genre")).
				Post("/genres/next", handlers.NextGenre(svc))
			r.With(metrics.Middleware("get_rating")).
				Get("/genres/{genre_id}/rating", handlers.GetRating(svc))
			r.With(metrics.Middleware("patch_rating")).
				Patch("/genres/{genre_id}/rating", handlers.PatchRating(svc))
			r.With(metrics.Middleware("toggle_flag")).
				Post("/genres/{genre_id}/flags/{flag}", handlers.ToggleFlag(svc))
			r.With(metrics.Middleware("get_ranking")).
				Get("/rankings", handlers.GetRanking(svc))
			r.With(metrics.Middleware("get_stats")).
				Get("/stats", handlers.GetStats(svc))
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(verifier))
			r.Use(auth.RequireAdmin)
			r.With(metrics.Middleware("admin_user_stats")).
				Get("/admin/users/{user_id}/stats", handlers.GetUserStats(svc))
		})
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

var errNoDatabase = errors.New("DATABASE_URL is required in production")

// openStore picks Postgres when a DSN is configured, else an in-memory
// store. Production refuses to run without a database.
func openStore(ctx context.Context, cfg config.Config, cat *catalog.Catalog, log *zap.Logger) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		if os.Getenv("APP_ENV") == "production" {
			return nil, nil, errNoDatabase
		}
		log.Warn("no database configured, ratings will not survive restarts")
		st := store.NewInMemoryStore()
		if err := st.SeedGenres(ctx, cat.Names()); err != nil {
			return nil, nil, err
		}
		return st, func() {}, nil
	}

	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	st := store.NewPostgresStore(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := st.SeedGenres(ctx, cat.Names()); err != nil {
		pool.Close()
		return nil, nil, err
	}
	// A catalog edited between boots shifts every unbounded cursor's
	// modulo position. Surface it, don't fail.
	if n, err := st.GenreCount(ctx); err == nil && n != cat.Len() {
		log.Warn("catalog size changed since last boot, next-genre positions will shift",
			zap.Int("stored", n), zap.Int("loaded", cat.Len()))
	}
	return st, pool.Close, nil
}
