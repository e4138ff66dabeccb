// Command report prints the midday (11:45) or close (15:10) intraday
// report for one symbol, optionally delivering it through the configured
// notification channel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"AShareSentinel/internal/aggregate"
	"AShareSentinel/internal/config"
	"AShareSentinel/internal/notifier"
	"AShareSentinel/internal/provider"
	"AShareSentinel/internal/report"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		cfgPath = flag.String("config", "configs/config.yaml", "app config YAML path")
		symbol  = flag.String("symbol", "", "symbol override, e.g. sh600158")
		name    = flag.String("name", "", "optional display name")
		mode    = flag.String("mode", "", "report mode: mid or close")
		date    = flag.String("date", "", "YYYY-MM-DD, default today")
		scale   = flag.Int("scale", 0, "kline scale minutes (1/5/15/30/60); 0 uses the config value")
		watch   = flag.String("watch", "", "custom watch levels, e.g. '9.5/10.1/9.0'")
		send    = flag.Bool("send", false, "deliver the report via the notify channel")
	)
	flag.Parse()

	if *mode != string(report.ModeMidday) && *mode != string(report.ModeClose) {
		log.Fatalf("[FATAL] -mode must be %q or %q", report.ModeMidday, report.ModeClose)
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
	if *scale == 0 {
		*scale = cfg.Scale
	}

	day := time.Now()
	if *date != "" {
		day, err = time.ParseInLocation("2006-01-02", *date, time.Local)
		if err != nil {
			log.Fatalf("[FATAL] bad -date: %v", err)
		}
	}

	ctx := context.Background()
	chain := buildChain(cfg)

	text, err := report.Build(ctx, report.Params{
		Provider:    chain,
		Symbol:      cfg.Symbol,
		Name:        firstNonEmpty(*name, cfg.Name),
		Date:        day,
		Mode:        report.Mode(*mode),
		ScaleMin:    *scale,
		WatchLevels: config.ParseLevels(*watch),
		AuctionDir:  cfg.Dirs.Auction,
	})
	if err != nil {
		var exhausted *provider.ExhaustedError
		if errors.Is(err, aggregate.ErrNoBars) || (errors.As(err, &exhausted) && exhausted.Err == nil) {
			log.Printf("[INFO] no kline rows for %s; market closed or not yet open", day.Format("2006-01-02"))
			os.Exit(0)
		}
		log.Fatalf("[FATAL] build report: %v", err)
	}

	fmt.Println(text)

	if *send {
		sender := buildSender(cfg)
		if err := sender.Send(ctx, text); err != nil {
			log.Printf("[ERROR] send report: %v", err)
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func buildChain(cfg *config.Config) *provider.Chain {
	switch cfg.Source {
	case "eastmoney":
		return provider.NewChain(provider.NewEastmoney(cfg.Proxy))
	case "sina":
		return provider.NewChain(provider.NewSina(cfg.Proxy))
	default:
		return provider.NewChain(provider.NewEastmoney(cfg.Proxy), provider.NewSina(cfg.Proxy))
	}
}

func buildSender(cfg *config.Config) notifier.Sender {
	if cfg.Notify.BotToken != "" && cfg.Notify.ChatID != "" {
		return &notifier.RetrySender{
			Telegram:   notifier.NewTelegramNotifier(cfg.Notify.BotToken, cfg.Notify.ChatID, cfg.Proxy),
			MaxRetries: 3,
		}
	}
	return notifier.NewExecSender(cfg.Notify.Bin, cfg.Notify.Channel, cfg.Notify.Target)
}
