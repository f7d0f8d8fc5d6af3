package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/nullsec-systems/hotzone/internal/alert"
	"github.com/nullsec-systems/hotzone/internal/config"
	"github.com/nullsec-systems/hotzone/internal/dedup"
	"github.com/nullsec-systems/hotzone/internal/detector"
	"github.com/nullsec-systems/hotzone/internal/feed"
	"github.com/nullsec-systems/hotzone/internal/handlers"
	"github.com/nullsec-systems/hotzone/internal/logging"
	"github.com/nullsec-systems/hotzone/internal/pipeline"
	"github.com/nullsec-systems/hotzone/internal/poller"
	"github.com/nullsec-systems/hotzone/internal/resolver"
	"github.com/nullsec-systems/hotzone/internal/server"
	"github.com/nullsec-systems/hotzone/internal/service"
	"github.com/nullsec-systems/hotzone/internal/store"
	"github.com/nullsec-systems/hotzone/internal/universe"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)

	ctx := context.Background()

	// Load the universe reference map
	source, cleanup, err := universeSource(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open reference source: %v", err)
	}
	defer cleanup()

	uni, err := universe.NewMap(ctx, source)
	if err != nil {
		log.Fatalf("Failed to load universe map: %v", err)
	}
	logger.Info("universe map loaded", "systems", uni.Current().Len())

	// Connect the kill store
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Invalid redis URL: %v", err)
	}
	opt.PoolSize = cfg.Redis.PoolSize
	redisClient := redis.NewClient(opt)
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	pingCancel()

	st := store.New(redisClient, store.Config{
		KillTTL:    cfg.Store.KillTTL,
		CounterTTL: cfg.Store.CounterTTL,
		HotspotTTL: cfg.Store.HotspotTTL,
	})

	// Alert channel
	channel, closeChannel, err := alertChannel(cfg)
	if err != nil {
		log.Fatalf("Failed to set up alert channel: %v", err)
	}
	defer closeChannel()
	logger.Info("alert channel ready", "type", channel.Type())

	// Ingestion pipeline
	det := detector.New(detector.Config{
		Window:    cfg.Detector.Window,
		Threshold: cfg.Detector.Threshold,
		Capacity:  cfg.Detector.Capacity,
	})
	pipe := pipeline.New(
		dedup.New(cfg.Feed.DedupCapacity),
		resolver.NewClient(cfg.Feed.DetailURL, cfg.Feed.FetchTimeout),
		st,
		det,
		uni,
		channel,
		logger,
	)

	// Start the poll loop in background
	pollCtx, pollCancel := context.WithCancel(ctx)
	defer pollCancel()
	p := poller.New(feed.NewClient(cfg.Feed.URL, cfg.Feed.FetchTimeout), pipe, cfg.Feed.PollInterval, logger)
	pollDone := make(chan struct{})
	go func() {
		p.Run(pollCtx)
		close(pollDone)
	}()

	// Query API
	handler := handlers.NewHandler(service.NewQuery(st), uni, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("query API listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	// Stop polling first so no new writes race the server shutdown.
	pollCancel()
	<-pollDone

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
}

// universeSource picks the reference-map source: Postgres when a host is
// configured, otherwise the static YAML file.
func universeSource(ctx context.Context, cfg *config.Config) (universe.Source, func(), error) {
	if cfg.Database.Postgres.Host != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.Postgres.ConnString())
		if err != nil {
			return nil, nil, fmt.Errorf("connect reference database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping reference database: %w", err)
		}
		return universe.NewPostgresSource(pool), pool.Close, nil
	}

	if cfg.Feed.ReferenceFile == "" {
		return nil, nil, fmt.Errorf("no reference source configured: set database.postgres.host or feed.reference_file")
	}
	return &universe.FileSource{Path: cfg.Feed.ReferenceFile}, func() {}, nil
}

// alertChannel builds the configured notification channel.
func alertChannel(cfg *config.Config) (alert.Channel, func(), error) {
	switch cfg.Alert.Channel {
	case "webhook":
		if cfg.Alert.WebhookURL == "" {
			return nil, nil, fmt.Errorf("alert.webhook_url is required for the webhook channel")
		}
		return alert.NewWebhookChannel(cfg.Alert.WebhookURL, cfg.Alert.Timeout), func() {}, nil
	case "nats":
		conn, err := nats.Connect(cfg.Alert.NATSURL,
			nats.Name("hotzone"),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("connect NATS: %w", err)
		}
		return alert.NewNATSChannel(conn, cfg.Alert.Subject), conn.Close, nil
	case "none", "":
		return alert.NopChannel{}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown alert channel %q", cfg.Alert.Channel)
	}
}
