package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/sethvargo/go-envconfig"

	"github.com/jdholdren/murmur/internal/api"
	"github.com/jdholdren/murmur/internal/database"
	"github.com/jdholdren/murmur/internal/logger"
	"github.com/jdholdren/murmur/internal/murmur"
	"github.com/jdholdren/murmur/internal/sequence"
	"github.com/jdholdren/murmur/internal/sqlite"
	"github.com/jdholdren/murmur/internal/timeline"
)

type config struct {
	Database string `env:"DATABASE"` // No journal when empty

	Port          int     `env:"PORT, default=4444"`
	FeedSize      int     `env:"FEED_SIZE, default=10"`
	LoggerFormat  string  `env:"LOGGER_FORMAT, default=text"`
	LogLevel      string  `env:"LOG_LEVEL, default=info"`
	CorsOrigin    string  `env:"CORS_ORIGIN, default=*"`
	PublishRate   float64 `env:"PUBLISH_RATE, default=20"`
	PublishBurst  int     `env:"PUBLISH_BURST, default=40"`
	FeedCacheSize int     `env:"FEED_CACHE_SIZE, default=1024"`
	TrustProxy    bool    `env:"TRUST_PROXY_HEADERS, default=false"`
}

func main() {
	ctx := context.Background()

	// Parse the config
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("error parsing log level: %s", err)
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.LoggerFormat, level))

	core := timeline.New(sequence.NewClock(), timeline.WithFeedSize(cfg.FeedSize))

	// Rebuild from the journal when there is one
	var journal murmur.Journal
	if cfg.Database != "" {
		dbx, err := database.Open(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("error opening journal: %s", err)
		}
		defer dbx.Close()

		repo := sqlite.New(dbx)
		if err := sqlite.Restore(ctx, repo, core); err != nil {
			log.Fatalf("error restoring journal: %s", err)
		}
		journal = repo
	}

	srvr, err := api.NewServer(api.ServerConfig{
		Port:          cfg.Port,
		CorsOrigin:    cfg.CorsOrigin,
		PublishRate:   cfg.PublishRate,
		PublishBurst:  cfg.PublishBurst,
		FeedCacheSize: cfg.FeedCacheSize,

		TrustProxyHeaders: cfg.TrustProxy,
	}, core, journal)
	if err != nil {
		log.Fatalf("error creating server: %s", err)
	}

	var g run.Group
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	g.Add(func() error {
		slog.Info("starting api server", "addr", srvr.Addr, "feed_size", core.FeedSize())
		if err := srvr.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srvr.Shutdown(ctx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}
	})

	err = g.Run()
	var sigErr run.SignalError
	if err != nil && !errors.As(err, &sigErr) {
		slog.Error("api server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("api server stopped")
}
