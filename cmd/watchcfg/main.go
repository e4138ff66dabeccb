// Command watchcfg generates a per-symbol trigger config from recent daily
// structure: the next round number above the last close and the recent
// N-day high as upside levels, the recent M-day low as the breakdown.
// Re-run it daily so the levels follow the price.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"AShareSentinel/internal/config"
	"AShareSentinel/internal/provider"
	"AShareSentinel/internal/watch"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		cfgPath   = flag.String("config", "configs/config.yaml", "app config YAML path")
		symbol    = flag.String("symbol", "", "symbol override, e.g. sh600158")
		out       = flag.String("out", "", "output JSON path (required)")
		upDays    = flag.Int("days", 20, "lookback trading days for the upside level")
		downDays  = flag.Int("breakdown-days", 5, "lookback trading days for the breakdown level")
		vwapCross = flag.Bool("vwap-cross", true, "enable the VWAP cross trigger")
	)
	flag.Parse()

	if *out == "" {
		log.Fatal("[FATAL] -out is required")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *symbol != "" {
		cfg.Symbol = *symbol
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	fetchers := []watch.DailyFetcher{
		provider.NewEastmoney(cfg.Proxy),
		provider.NewSina(cfg.Proxy),
	}
	gen, err := watch.Generate(context.Background(), fetchers, cfg.Symbol, *upDays, *downDays, *vwapCross)
	if err != nil {
		log.Fatalf("[FATAL] generate trigger config: %v", err)
	}

	data, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		log.Fatalf("[FATAL] marshal trigger config: %v", err)
	}
	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("[FATAL] create output dir: %v", err)
		}
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		log.Fatalf("[FATAL] write trigger config: %v", err)
	}

	fmt.Printf("wrote %s levels_up=%v breakdown=%.2f\n", *out, gen.LevelsUp, gen.Breakdown)
}
