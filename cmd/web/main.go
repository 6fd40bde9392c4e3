package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "everjourney/internal/adapters/http_server"
	"everjourney/internal/adapters/observability"
	redisad "everjourney/internal/adapters/redis"
	"everjourney/internal/app"
	"everjourney/internal/domain"
	"everjourney/internal/shared"
	mongostore "everjourney/internal/storage/mongo"
	"everjourney/internal/storage/sqlstore"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "web")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, sqlstore.Options{
		MaxOpen:     cfg.DBMaxOpen,
		MaxIdle:     cfg.DBMaxIdle,
		MaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database open failed")
	}
	defer db.Close()
	log.Info().Str("driver", cfg.DBDriver).Msg("database connection ok")
	store := sqlstore.New(db)

	// cache + sessions: Redis when configured, process memory otherwise
	var cache *redisad.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.LocalCacheSize)
		if err := cache.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, using local cache only")
			_ = cache.Close()
			cache = redisad.NewSized(nil, cfg.LocalCacheSize)
		}
	} else {
		cache = redisad.NewSized(nil, cfg.LocalCacheSize)
	}
	defer cache.Close()
	sessions := redisad.NewSessions(cache.Client(), cfg.SessionTTL, cfg.LocalSessions)
	if cache.Client() == nil {
		log.Warn().Int("max", cfg.LocalSessions).Msg("sessions held in process memory; oldest are dropped past max")
	}

	// faqs
	var faqs domain.FAQRepository = store.FAQs()
	if cfg.MongoURI != "" {
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connect failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		faqs = mongostore.NewFAQs(client, cfg.MongoDB)
		log.Info().Str("db", cfg.MongoDB).Msg("faqs served from mongo")
	}

	catalog := app.NewCatalogService(store, store, cache, cfg.CacheTTL)
	h, err := server.NewHandlers(server.Services{
		Catalog:  catalog,
		Accounts: app.NewAccountService(store, app.DefaultBcryptCost),
		Vendor:   app.NewVendorService(store, store, catalog),
		Profiles: app.NewProfileService(store),
		Support:  app.NewSupportService(faqs),
		Sessions: sessions,
		DB:       store,
	}, server.Options{
		UploadsDir:    cfg.UploadsDir,
		AssetsDir:     cfg.AssetsDir,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: !cfg.Dev(),
		LoginRPS:      cfg.LoginRPS,
		LoginBurst:    cfg.LoginBurst,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("templates failed to load")
	}
	defer h.Close()

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("web listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
