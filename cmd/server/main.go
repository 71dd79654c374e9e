package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"MarketHarvester/internal/api"
	"MarketHarvester/internal/config"
	"MarketHarvester/internal/extractor"
	"MarketHarvester/internal/fetcher"
	"MarketHarvester/internal/notifier"
	"MarketHarvester/internal/orchestrator"
	"MarketHarvester/internal/scheduler"
	"MarketHarvester/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MarketHarvester server starting...")

	_ = godotenv.Load()

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
	if cfg.Server.APISecret == "" {
		log.Fatalf("[FATAL] server.api_secret is required (set API_SECRET)")
	}

	st, err := store.New(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("[FATAL] init store: %v", err)
	}

	launcher := &fetcher.ChromeLauncher{
		ExecPath:    cfg.Browser.ExecPath,
		UserDataDir: cfg.Browser.UserDataDir,
	}
	log.Printf("[INFO] browser backend: %s", launcher.Name())

	navTimeout := time.Duration(cfg.Scrape.NavTimeoutSeconds) * time.Second
	settle := time.Duration(cfg.Scrape.SettleSeconds) * time.Second

	orch := orchestrator.New(
		launcher,
		&extractor.StockExtractor{
			URL:        cfg.Scrape.StockURL,
			UserAgents: cfg.Scrape.UserAgents,
			Timeout:    navTimeout,
			WaitDelay:  settle,
		},
		&extractor.GoldExtractor{
			URL:                cfg.Scrape.GoldURL,
			SourceName:         cfg.Scrape.GoldSource,
			UserAgents:         cfg.Scrape.UserAgents,
			Timeout:            navTimeout,
			WaitDelay:          settle,
			BlockedURLPatterns: fetcher.DefaultBlockedPatterns,
		},
		extractor.NewCryptoExtractor(cfg.Scrape.CryptoURL, cfg.Scrape.CryptoSource, navTimeout),
		st,
	)

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if tn.Enabled() {
		log.Println("[INFO] Telegram alerts enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, orch, tn, cfg.Schedule.JitterSeconds)
	if err := sched.Register(cfg.Schedule.FetchCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Fill empty slots right away instead of waiting for the first tick.
	if snap, err := st.ReadStocks(); err == nil && snap == nil {
		log.Println("[INFO] no stored data yet, running startup fetch")
		go orch.Run(ctx, orchestrator.Options{
			Force:   true,
			Targets: orchestrator.Targets{Stocks: true, Gold: true, Crypto: true},
		})
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	api.NewHandler(st, orch, cfg.Server.APISecret).SetupRoutes(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}
	go func() {
		log.Printf("[INFO] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] MarketHarvester stopped")
}
