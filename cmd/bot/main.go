package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jessevdk/go-flags"
	"nuclight.org/unicode-detector-bot/app/ledger"
	"nuclight.org/unicode-detector-bot/app/metrics"
	"nuclight.org/unicode-detector-bot/app/moderator"
	"nuclight.org/unicode-detector-bot/app/permissions"
	"nuclight.org/unicode-detector-bot/app/storage"
	"nuclight.org/unicode-detector-bot/app/telegram"
	"nuclight.org/unicode-detector-bot/pkg/logger"
)

var opts struct {
	TelegramAPIToken   string `long:"telegram-api-token" env:"TELEGRAM_API_TOKEN" required:"true" description:"telegram api token"`
	TelegramWorkersNum int    `long:"telegram-workers-num" env:"TELEGRAM_WORKERS_NUM" default:"5" description:"number of workers for telegram bot"`
	Store              string `long:"store" env:"STORE" default:"redis" choice:"redis" choice:"sqlite" choice:"memory" description:"ledger storage backend"`
	RedisURL           string `long:"redis-url" env:"REDIS_URL" default:"redis://localhost:6379/0" description:"redis connection url"`
	DBPath             string `long:"db-path" env:"DB_PATH" default:"./db/detector.sqlite" description:"path to the sqlite database file"`
	MetricsAddr        string `long:"metrics-addr" env:"METRICS_ADDR" description:"address to serve prometheus metrics on, disabled when empty"`
	SentryDSN          string `long:"sentry-dsn" env:"SENTRY_DSN" description:"sentry dsn, error reporting is disabled when empty"`
	LogLevel           string `long:"log-level" env:"LOG_LEVEL" default:"debug" description:"log level: debug, info, warn, error"`
}

var Revision = "dev"

type store interface {
	ledger.Store
	io.Closer
	Ping(ctx context.Context) error
}

func main() {
	_, err := flags.Parse(&opts)
	if err != nil {
		os.Exit(1)
	}

	log, err := logger.NewLogger(opts.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("starting bot", "revision", Revision, "store", opts.Store)

	err = run(log)
	if err != nil {
		log.Error("bot failed", "error", err)
		os.Exit(1)
	}
}

// run returns only after every deferred cleanup of the bot has been done.
func run(log logger.Logger) error {
	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     opts.SentryDSN,
			Release: Revision,
		})
		if err != nil {
			return fmt.Errorf("initializing sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("closing store", "error", err)
		}
	}()

	err = db.Ping(ctx)
	if err != nil {
		return fmt.Errorf("store is not alive: %w", err)
	}

	log.Info("store is alive")

	var metricsSrv *metrics.Server
	if opts.MetricsAddr != "" {
		metricsSrv = &metrics.Server{Addr: opts.MetricsAddr}
		go func() {
			log.Info("serving metrics", "addr", opts.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil {
				log.Error("serving metrics", "error", err)
			}
		}()

		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()

			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				log.Error("stopping metrics server", "error", err)
			}
		}()
	}

	bot := &telegram.Client{
		Log:        log,
		APIToken:   opts.TelegramAPIToken,
		WorkersNum: opts.TelegramWorkersNum,
	}

	bot.Moderator = &moderator.Handler{
		Log:      log,
		Platform: bot,
		Ledger:   ledger.New(db),
		Members: &permissions.Resolver{
			Log:     log,
			Members: bot,
		},
	}

	err = bot.Start(ctx)
	if err != nil {
		return fmt.Errorf("starting bot: %w", err)
	}

	<-ctx.Done()
	log.Info("stopping bot")

	bot.Wait()
	return nil
}

func openStore(ctx context.Context) (store, error) {
	switch opts.Store {
	case "redis":
		return storage.NewRedis(ctx, opts.RedisURL)
	case "sqlite":
		return storage.NewSQLite(ctx, opts.DBPath)
	case "memory":
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store: %s", opts.Store)
	}
}
