// Command alerts runs one intraday alert poll: fetch the current quote and
// minute bars through the provider chain, compute the session VWAP, and
// evaluate the per-symbol triggers. Intended to run from crontab once per
// minute during trading hours; it always exits 0 so a bad poll never
// disrupts the schedule.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"AShareSentinel/internal/aggregate"
	"AShareSentinel/internal/alert"
	"AShareSentinel/internal/config"
	"AShareSentinel/internal/model"
	"AShareSentinel/internal/notifier"
	"AShareSentinel/internal/provider"
	"AShareSentinel/internal/recorder"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		cfgPath   = flag.String("config", "configs/config.yaml", "app config YAML path")
		symbol    = flag.String("symbol", "", "symbol override, e.g. sh600158")
		triggers  = flag.String("triggers", "", "per-symbol trigger config JSON")
		levels    = flag.String("levels", "10.00,10.03", "upside touch levels, used if -triggers not set")
		breakdown = flag.Float64("breakdown", 9.86, "break-below level, used if -triggers not set")
		stateDir  = flag.String("state-dir", "", "alert state directory override")
		force     = flag.Bool("force", false, "evaluate even outside trading hours")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Printf("[ERROR] load config: %v", err)
		os.Exit(0)
	}
	if *symbol != "" {
		cfg.Symbol = *symbol
	}
	if *stateDir != "" {
		cfg.Dirs.State = *stateDir
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("[ERROR] config validation: %v", err)
		os.Exit(0)
	}

	now := time.Now()
	if !*force && !aggregate.TradingTime(now) {
		return
	}

	ctx := context.Background()
	chain := buildChain(cfg)

	q, err := chain.Quote(ctx, cfg.Symbol)
	if err != nil {
		log.Printf("[ERROR] quote %s: %v", cfg.Symbol, err)
		os.Exit(0)
	}

	day := q.Time
	if day.IsZero() {
		day = now
	}

	// VWAP from today's minute bars; failure only disables the cross
	// trigger for this poll.
	var vwap float64
	var vwapOK bool
	if bars, err := chain.Bars(ctx, cfg.Symbol, 1, day); err != nil {
		log.Printf("[WARN] minute bars for VWAP: %v", err)
	} else if sum, err := aggregate.Summarize(bars); err != nil {
		log.Printf("[WARN] summarize for VWAP: %v", err)
	} else {
		vwap, vwapOK = sum.VWAP()
	}

	trigCfg := config.LoadTriggers(*triggers, model.TriggerConfig{
		LevelsUp:  config.ParseLevels(*levels),
		Breakdown: *breakdown,
		VWAPCross: true,
	})

	rec := openRecorder(cfg)
	defer rec.Close()

	engine := alert.NewEngine(alert.NewStore(cfg.Dirs.State), buildSender(cfg), rec)
	res, err := engine.Evaluate(ctx, cfg.Symbol, q, vwap, vwapOK, trigCfg)
	if err != nil {
		log.Printf("[ERROR] evaluate triggers: %v", err)
		os.Exit(0)
	}
	if res != nil {
		log.Printf("[INFO] fired %s for %s at %.2f", res.TriggerID, cfg.Symbol, q.Price)
	}

	if err := rec.RecordPoll(&recorder.PollSnapshot{
		Symbol: cfg.Symbol, Source: q.Source,
		Price: q.Price, PrevClose: q.PrevClose, High: q.High, Low: q.Low,
		Volume: q.Volume, Amount: q.Amount, VWAP: vwap,
	}); err != nil {
		log.Printf("[ERROR] record poll: %v", err)
	}
}

// buildChain assembles the fallback chain per the configured source.
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

// buildSender prefers the Telegram Bot API when a token is configured and
// falls back to the external messaging CLI. Telegram deliveries retry with
// backoff; the trigger is persisted before Send, so a retried duplicate
// cannot happen and a transient API error should not drop the alert.
func buildSender(cfg *config.Config) alert.Sender {
	if cfg.Notify.BotToken != "" && cfg.Notify.ChatID != "" {
		return &notifier.RetrySender{
			Telegram:   notifier.NewTelegramNotifier(cfg.Notify.BotToken, cfg.Notify.ChatID, cfg.Proxy),
			MaxRetries: 3,
		}
	}
	return notifier.NewExecSender(cfg.Notify.Bin, cfg.Notify.Channel, cfg.Notify.Target)
}

func openRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	r, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return r
}
