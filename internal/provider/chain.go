package provider

import (
	"context"
	"fmt"
	"log"
	"time"

	"AShareSentinel/internal/model"
)

// Chain tries providers in order and returns the first usable answer.
// Quotes are accepted on the first success; bar series must additionally be
// non-empty, since bar endpoints can legitimately answer 200 with zero rows
// for a day that has not started or was already closed by poll time.
type Chain struct {
	providers []Provider
}

// NewChain builds a fallback chain; order is the preference order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string { return "chain" }

// ExhaustedError reports that every provider in the chain failed or, for
// bar series, returned no rows. Err carries the last underlying cause and
// is nil when every provider answered empty without failing.
type ExhaustedError struct {
	Op     string
	Symbol string
	Err    error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all providers failed for %s(%s): %v", e.Op, e.Symbol, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

func (c *Chain) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	var lastErr error
	for _, p := range c.providers {
		q, err := p.Quote(ctx, symbol)
		if err != nil {
			lastErr = err
			log.Printf("[WARN] quote %s via %s failed: %v", symbol, p.Name(), err)
			continue
		}
		q.Source = p.Name()
		return q, nil
	}
	return model.Quote{}, &ExhaustedError{Op: "quote", Symbol: symbol, Err: lastErr}
}

func (c *Chain) Bars(ctx context.Context, symbol string, scaleMin int, day time.Time) ([]model.Bar, error) {
	var lastErr error
	for _, p := range c.providers {
		bars, err := p.Bars(ctx, symbol, scaleMin, day)
		if err != nil {
			lastErr = err
			log.Printf("[WARN] kline %s via %s failed: %v", symbol, p.Name(), err)
			continue
		}
		if len(bars) > 0 {
			return bars, nil
		}
	}
	return nil, &ExhaustedError{Op: fmt.Sprintf("kline/%dm", scaleMin), Symbol: symbol, Err: lastErr}
}
