package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"MarketHarvester/internal/config"
	"MarketHarvester/internal/extractor"
	"MarketHarvester/internal/fetcher"
	"MarketHarvester/internal/model"
	"MarketHarvester/internal/orchestrator"
	"MarketHarvester/internal/store"
)

// The scraper binary runs one forced fetch cycle and exits, for cron-less
// deployments and for poking the pipeline by hand.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	target := flag.String("target", "all", "which sources to fetch: stocks, gold_crypto or all")
	flag.Parse()

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

	targets, err := orchestrator.ParseTarget(*target)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	st, err := store.New(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("[FATAL] init store: %v", err)
	}

	navTimeout := time.Duration(cfg.Scrape.NavTimeoutSeconds) * time.Second
	settle := time.Duration(cfg.Scrape.SettleSeconds) * time.Second

	orch := orchestrator.New(
		&fetcher.ChromeLauncher{
			ExecPath:    cfg.Browser.ExecPath,
			UserDataDir: cfg.Browser.UserDataDir,
		},
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

	rep := orch.Run(context.Background(), orchestrator.Options{Force: true, Targets: targets})

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("[FATAL] marshal report: %v", err)
	}
	fmt.Println(string(out))

	for src, res := range rep.Results {
		if res.Status == model.StatusError || res.Status == model.StatusFatal {
			log.Printf("[ERROR] %s: %s", src, res.Detail)
			os.Exit(1)
		}
	}
}
