package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pribylovaa/yanews/internal/auth"
	"github.com/pribylovaa/yanews/internal/cache"
	"github.com/pribylovaa/yanews/internal/config"
	"github.com/pribylovaa/yanews/internal/events"
	yahttp "github.com/pribylovaa/yanews/internal/http"
	"github.com/pribylovaa/yanews/internal/http/handlers"
	"github.com/pribylovaa/yanews/internal/moderation"
	"github.com/pribylovaa/yanews/internal/seed"
	"github.com/pribylovaa/yanews/internal/service"
	"github.com/pribylovaa/yanews/internal/storage"
	"github.com/pribylovaa/yanews/internal/storage/memory"
	"github.com/pribylovaa/yanews/internal/storage/mongo"
	"github.com/pribylovaa/yanews/internal/storage/postgres"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// stores — выбранные реализации хранилищ и функция их закрытия.
type stores struct {
	news     storage.NewsStorage
	comments storage.CommentStorage
	users    storage.UserStorage
	health   map[string]yahttp.Pinger
	close    func()
}

func main() {
	var configPath, seedPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.StringVar(&seedPath, "seed", "", "path to JSON file with news to load at startup")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting yanews", "env", cfg.Env, "storage", cfg.Storage.Driver)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	st, err := openStores(rootCtx, cfg)
	if err != nil {
		log.Error("storage_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer st.close()
	log.Info("storage_initialized")

	if seedPath != "" {
		saved, err := seed.LoadFile(rootCtx, seedPath, st.news)
		if err != nil {
			log.Error("seed_failed", slog.String("path", seedPath), slog.String("err", err.Error()))
			os.Exit(1)
		}
		log.Info("seed_loaded", slog.Int("news", len(saved)))
	}

	revoked, err := openRevocations(rootCtx, cfg.Cache)
	if err != nil {
		log.Error("redis_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = revoked.Close() }()
	st.health["cache"] = revoked

	publisher, err := openPublisher(cfg.Kafka)
	if err != nil {
		log.Error("kafka_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			log.Warn("kafka_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	filter, err := moderation.New(cfg.Moderation.BannedWords, cfg.Moderation.Warning)
	if err != nil {
		log.Error("moderation_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	svc := service.New(st.news, st.comments, filter, publisher, cfg.News)
	authSvc := auth.New(st.users, revoked, cfg.Auth)
	log.Info("service_initialized")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := yahttp.NewRouter(handlers.New(svc, authSvc), authSvc, yahttp.Options{
		Logger:   log,
		Timeout:  cfg.Timeouts.Service,
		Registry: reg,
		Health:   st.health,
	})

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")
}

// openStores подключает хранилища по storage.driver.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		mem := memory.New()
		return &stores{
			news:     mem,
			comments: mem,
			users:    mem,
			health:   map[string]yahttp.Pinger{},
			close:    func() {},
		}, nil
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pg, err := postgres.New(dbCtx, cfg.DB.URL)
	if err != nil {
		return nil, err
	}
	slog.Info("postgres_connected")

	mg, err := mongo.New(dbCtx, cfg.Mongo.URL)
	if err != nil {
		pg.Close()
		return nil, err
	}
	slog.Info("mongo_connected")

	return &stores{
		news:     pg,
		comments: mg,
		users:    pg,
		health:   map[string]yahttp.Pinger{"postgres": pg, "mongo": mg},
		close: func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mg.Close(closeCtx); err != nil {
				slog.Warn("mongo_close_failed", slog.String("err", err.Error()))
			}
			pg.Close()
		},
	}, nil
}

// openRevocations — Redis, если задан cache.url, иначе реестр в памяти.
func openRevocations(ctx context.Context, cfg config.CacheConfig) (cache.Revocations, error) {
	if cfg.URL == "" {
		return cache.NewMemoryCache(), nil
	}

	rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return cache.NewRedisCache(rctx, cfg.URL, cfg.Prefix)
}

func openPublisher(cfg config.KafkaConfig) (events.Publisher, error) {
	if !cfg.Enabled {
		return events.Noop{}, nil
	}

	return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
