package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"StockPulse/internal/analyzer"
	"StockPulse/internal/config"
	"StockPulse/internal/fusion"
	"StockPulse/internal/handlers"
	"StockPulse/internal/ingest"
	"StockPulse/internal/provider"
	"StockPulse/internal/quotes"
	"StockPulse/internal/scheduler"
	"StockPulse/internal/sentiment"
	"StockPulse/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockPulse starting...")

	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env file")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using in-memory: %v", err)
			st = store.NewMemoryStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewMemoryStore()
	}

	// Init news provider chain in priority order
	timeout := time.Duration(cfg.Providers.TimeoutSeconds) * time.Second
	var providers []provider.Provider
	if cfg.Providers.AlphaVantageKey != "" {
		providers = append(providers, provider.NewAlphaVantageProvider(cfg.Providers.AlphaVantageKey, timeout, cfg.Providers.MaxArticles))
	}
	if cfg.Providers.FinnhubKey != "" {
		providers = append(providers, provider.NewFinnhubProvider(cfg.Providers.FinnhubKey, timeout, cfg.Providers.MaxArticles))
	}
	if cfg.Providers.RapidAPIKey != "" {
		providers = append(providers, provider.NewYahooProvider(cfg.Providers.RapidAPIKey, timeout, cfg.Providers.MaxArticles))
	}
	log.Printf("[INFO] %d news providers configured", len(providers))

	// Init sentiment scorer and key phrase extractor
	scorer := sentiment.NewScorer(func() (sentiment.Model, error) {
		return sentiment.NewHFModel(cfg.Scorer.ModelEndpoint, cfg.Scorer.HFToken, timeout), nil
	}, sentiment.Options{
		MinTextLength:   cfg.Scorer.MinTextLength,
		RatePerMinute:   cfg.Scorer.RatePerMinute,
		BreakerFailures: cfg.Scorer.BreakerFailures,
		BreakerCooldown: time.Duration(cfg.Scorer.BreakerCooldown) * time.Second,
	})
	keyphraser := sentiment.NewKeyPhraser(
		sentiment.NewHFExtractor(cfg.Scorer.KeyPhraseEndpoint, cfg.Scorer.HFToken, timeout))

	// Init ingestion pipeline
	pipeline := ingest.NewPipeline(providers, st, scorer, keyphraser, ingest.Options{
		FreshnessHours: cfg.Ingest.FreshnessHours,
		ChunkSize:      cfg.Ingest.ChunkSize,
		LatestOnly:     cfg.Ingest.LatestOnly,
	})

	// Init technical analyzer and fusion engine
	fetcher := quotes.NewYahooFetcher(cfg.Proxy)
	log.Printf("[INFO] price data source: %s", fetcher.Name())
	engine := fusion.NewEngine(analyzer.New(fetcher), st)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, pipeline, cfg.Ingest.Watchlist)
	if err := sched.Register(cfg.Ingest.Cron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing watchlist ingestion now")
		go sched.RunNow()
	}

	// HTTP API
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	handlers.New(pipeline, engine, st).Register(router)

	srv := &http.Server{Addr: cfg.Server.ListenAddr, Handler: router}
	go func() {
		log.Printf("[INFO] HTTP API listening on %s", cfg.Server.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] StockPulse is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] StockPulse stopped")
}
