package watch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"AShareSentinel/internal/model"
)

// DailyFetcher provides multi-day daily bars; implemented by the concrete
// provider backends outside their Provider contract.
type DailyFetcher interface {
	Name() string
	Daily(ctx context.Context, symbol string, limit int) ([]model.Bar, error)
}

// Generated is the trigger config written to disk, with a meta block for
// humans re-running the generator.
type Generated struct {
	model.TriggerConfig
	Meta Meta `json:"meta"`
}

// Meta documents how the levels were derived.
type Meta struct {
	GeneratedAt  string  `json:"generated_at"`
	Symbol       string  `json:"symbol"`
	LookbackUp   int     `json:"lookback_days_up"`
	LookbackDown int     `json:"lookback_days_down"`
	LastClose    float64 `json:"last_close"`
	RecentHigh   float64 `json:"recent_high"`
	RecentLow    float64 `json:"recent_low"`
	Method       string  `json:"method"`
}

// RoundStep returns the round-number grid spacing for a price:
// 0.1 below 10, 0.5 below 50, 1 below 200, 5 above.
func RoundStep(price float64) float64 {
	switch {
	case price < 10:
		return 0.1
	case price < 50:
		return 0.5
	case price < 200:
		return 1.0
	default:
		return 5.0
	}
}

// NextRoundAbove returns the nearest round-number level at or above price.
func NextRoundAbove(price float64) float64 {
	step := RoundStep(price)
	return math.Ceil(price/step) * step
}

// UniqSorted dedupes levels at 2-decimal precision, drops non-positive
// values, and returns them ascending.
func UniqSorted(levels []float64) []float64 {
	seen := map[float64]bool{}
	out := make([]float64, 0, len(levels))
	for _, x := range levels {
		v := math.Round(x*100) / 100
		if v <= 0 || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// recentRange scans the trailing n bars and returns the high and low.
func recentRange(bars []model.Bar, n int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no daily bars provided")
	}
	start := len(bars) - n
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(bars); i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}

// minDailyBars is the minimum usable daily history; a fetcher returning
// fewer rows is treated like a failure and the next one is tried.
const minDailyBars = 5

// fetchDaily tries fetchers in order until one yields a usable history.
func fetchDaily(ctx context.Context, fetchers []DailyFetcher, symbol string, limit int) ([]model.Bar, error) {
	var lastErr error
	for _, f := range fetchers {
		bars, err := f.Daily(ctx, symbol, limit)
		if err != nil {
			lastErr = err
			log.Printf("[WARN] daily bars via %s failed: %v", f.Name(), err)
			continue
		}
		if len(bars) >= minDailyBars {
			return bars, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("fetch daily bars for %s: %w", symbol, lastErr)
	}
	return nil, fmt.Errorf("not enough daily bars for %s", symbol)
}

// Generate derives a trigger config from recent daily structure: the next
// round number above the last close plus the recent upDays high for upside
// touches, and the recent downDays low as the breakdown level.
func Generate(ctx context.Context, fetchers []DailyFetcher, symbol string, upDays, downDays int, vwapCross bool) (*Generated, error) {
	limit := upDays
	if limit < 20 {
		limit = 20
	}
	bars, err := fetchDaily(ctx, fetchers, symbol, limit+5)
	if err != nil {
		return nil, err
	}

	hi, _, err := recentRange(bars, upDays)
	if err != nil {
		return nil, err
	}
	_, lo, err := recentRange(bars, downDays)
	if err != nil {
		return nil, err
	}
	last := bars[len(bars)-1]

	levels := UniqSorted([]float64{NextRoundAbove(last.Close), hi})
	breakdown := math.Round(lo*100) / 100

	return &Generated{
		TriggerConfig: model.TriggerConfig{
			LevelsUp:  levels,
			Breakdown: breakdown,
			VWAPCross: vwapCross,
		},
		Meta: Meta{
			GeneratedAt:  time.Now().Format("2006-01-02T15:04:05"),
			Symbol:       symbol,
			LookbackUp:   upDays,
			LookbackDown: downDays,
			LastClose:    math.Round(last.Close*100) / 100,
			RecentHigh:   math.Round(hi*100) / 100,
			RecentLow:    breakdown,
			Method:       "round_above_last_close + recent_high(N_up) + recent_low(N_down)",
		},
	}, nil
}
