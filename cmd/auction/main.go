// Command auction captures a best-effort call-auction snapshot for one
// symbol and writes it as JSON for the report step. Schedule it around
// 09:25-09:29 on trading days.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"AShareSentinel/internal/auction"
	"AShareSentinel/internal/config"
	"AShareSentinel/internal/provider"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		cfgPath = flag.String("config", "configs/config.yaml", "app config YAML path")
		symbol  = flag.String("symbol", "", "symbol override, e.g. sh600158")
		date    = flag.String("date", "", "YYYY-MM-DD, default today")
		outdir  = flag.String("outdir", "", "output directory override")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *symbol != "" {
		cfg.Symbol = *symbol
	}
	if *outdir != "" {
		cfg.Dirs.Auction = *outdir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	day := time.Now()
	if *date != "" {
		day, err = time.ParseInLocation("2006-01-02", *date, time.Local)
		if err != nil {
			log.Fatalf("[FATAL] bad -date: %v", err)
		}
	}

	// The hq list endpoint is the most dependable this early in the
	// session, so sina leads the chain here.
	chain := provider.NewChain(provider.NewSina(cfg.Proxy), provider.NewEastmoney(cfg.Proxy))

	snap, err := auction.Capture(context.Background(), chain, cfg.Symbol, day)
	if err != nil {
		log.Fatalf("[FATAL] capture auction snapshot: %v", err)
	}
	fp, err := auction.Save(cfg.Dirs.Auction, snap)
	if err != nil {
		log.Fatalf("[FATAL] save auction snapshot: %v", err)
	}

	// One-liner for cron logs.
	fmt.Printf("saved %s price=%.2f amt=%.0f\n", fp, snap.AuctionPrice, snap.AuctionAmount)
}
