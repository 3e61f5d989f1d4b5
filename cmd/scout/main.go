package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"PatternScout/internal/collector"
	"PatternScout/internal/config"
	"PatternScout/internal/metrics"
	"PatternScout/internal/notifier"
	"PatternScout/internal/publisher"
	"PatternScout/internal/recorder"
	"PatternScout/internal/scheduler"
	"PatternScout/internal/state"
	"PatternScout/internal/strategy"
	"PatternScout/internal/tracker"
	"PatternScout/pkg/logger"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		logger.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	log.Infof("PatternScout starting with %d analyses", len(cfg.Analyses))

	if cfg.Sentry.DSN != "" {
		t, err := tracker.NewSentry(cfg.Sentry.DSN, cfg.App.Env)
		if err != nil {
			log.Warnf("init sentry, continuing without error tracking: %v", err)
		} else {
			logger.SetErrorTracker(t)
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = t.Flush(flushCtx)
			}()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Candle source
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewBinanceFetcher(cfg.DataSource.BaseURL, cfg.Proxy, cfg.DataSource.RequestsPerMinute)
	}
	if cfg.Cache.RedisAddr != "" {
		rdb, err := collector.NewRedisClient(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Warnf("init redis cache, fetching uncached: %v", err)
		} else {
			defer rdb.Close()
			fetcher = collector.NewCachedFetcher(fetcher, rdb, cfg.Cache.TTL, log)
		}
	}
	log.Infof("data source: %s", fetcher.Name())

	rec := newRecorder(ctx, cfg, log)
	defer rec.Close()

	var pub publisher.Publisher = publisher.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = publisher.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	}
	defer pub.Close()

	st, err := state.Load(cfg.StateFile)
	if err != nil {
		log.Fatalf("load notify state: %v", err)
	}

	m := metrics.New()
	var wg sync.WaitGroup
	if cfg.Metrics.Addr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Serve(ctx, cfg.Metrics.Addr); err != nil {
				log.Errorf("metrics server: %v", err)
			}
		}()
	}

	var (
		notify scheduler.Notifier
		tn     *notifier.TelegramNotifier
	)
	if cfg.Telegram.BotToken != "" {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		if err != nil {
			log.Fatalf("init telegram: %v", err)
		}
		notify = tn
	} else {
		log.Warn("telegram not configured, notifications go to the log")
		notify = notifier.NewLogNotifier(log)
	}

	sched := scheduler.NewScheduler(ctx, scheduler.Deps{
		Collector: collector.NewCollector(fetcher, log),
		Engine:    strategy.NewEngine(log),
		Recorder:  rec,
		Publisher: pub,
		Notifier:  notify,
		State:     st,
		Metrics:   m,
	}, cfg.Analyses, log)
	if err := sched.RegisterAll(); err != nil {
		log.Fatalf("register cron tasks: %v", err)
	}
	sched.Start()

	if tn != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tn.StartPolling(ctx, sched.HandleCommand)
		}()
		log.Info("Telegram polling started")
	}

	if cfg.RunOnStart {
		log.Info("RUN_ON_START enabled, running every analysis now")
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.RunAll(ctx)
		}()
	}

	log.Info("PatternScout is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	sched.Stop()
	wg.Wait()
	log.Info("PatternScout stopped")
}

// newRecorder prefers Postgres, then SQLite, then discards runs.
func newRecorder(ctx context.Context, cfg *config.Config, log *logger.Logger) recorder.Recorder {
	if cfg.Database.PostgresDSN != "" {
		pg, err := recorder.NewPostgresRecorder(ctx, cfg.Database.PostgresDSN, log)
		if err == nil {
			return pg
		}
		log.Warnf("init postgres recorder failed, trying sqlite: %v", err)
	}
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err == nil {
			return sr
		}
		log.Warnf("init sqlite recorder failed, using noop: %v", err)
	}
	return recorder.NewNoopRecorder()
}
