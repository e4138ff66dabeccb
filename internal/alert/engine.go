package alert

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"AShareSentinel/internal/model"
	"AShareSentinel/internal/recorder"
)

// Sender delivers one alert message. Delivery failure must not propagate:
// by the time Send runs, the trigger is already marked fired and persisted,
// so a duplicate alert would be worse than a missed one.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Engine evaluates the per-symbol trigger set against the latest quote and
// fires each condition at most once per trading day, across restarts.
type Engine struct {
	Store    *Store
	Sender   Sender
	Recorder recorder.Recorder

	// Now is the clock used when a quote carries no observation time.
	Now func() time.Time
}

// NewEngine wires the engine; rec may be a NoopRecorder.
func NewEngine(store *Store, sender Sender, rec recorder.Recorder) *Engine {
	return &Engine{Store: store, Sender: sender, Recorder: rec, Now: time.Now}
}

// Result describes what a single evaluation did.
type Result struct {
	TriggerID string
	Message   string
}

// Evaluate runs one poll. Trigger families are checked in operator-priority
// order: ascending upside touches, then the breakdown, then the VWAP cross.
// At most one notification fires per poll; state is persisted before the
// notify call at every decision point. A missing VWAP (vwapOK false) only
// disables the cross family.
//
// The nil Result with nil error means nothing fired this poll.
func (e *Engine) Evaluate(ctx context.Context, symbol string, q model.Quote, vwap float64, vwapOK bool, cfg model.TriggerConfig) (*Result, error) {
	obs := q.Time
	if obs.IsZero() {
		obs = e.Now()
	}
	date := obs.Format("2006-01-02")
	ts := obs.Format("2006-01-02 15:04:05")

	st := e.Store.Load(symbol, date)

	rel := ""
	if vwapOK {
		switch {
		case q.Price > vwap:
			rel = model.RelAbove
		case q.Price < vwap:
			rel = model.RelBelow
		default:
			rel = model.RelEqual
		}
	}

	fire := func(id, text string) (*Result, error) {
		st.Fired[id] = true
		st.LastFireAt = ts
		if err := e.Store.Save(symbol, st); err != nil {
			return nil, fmt.Errorf("save alert state: %w", err)
		}
		if err := e.Sender.Send(ctx, text); err != nil {
			log.Printf("[ERROR] send alert %s: %v", id, err)
		}
		if err := e.Recorder.RecordAlert(&recorder.AlertEvent{
			Symbol: symbol, Date: date, TriggerID: id,
			Price: q.Price, VWAP: vwap, Message: text,
		}); err != nil {
			log.Printf("[ERROR] record alert %s: %v", id, err)
		}
		return &Result{TriggerID: id, Message: text}, nil
	}

	// Upside touches, lowest untriggered level first.
	levels := append([]float64(nil), cfg.LevelsUp...)
	sort.Float64s(levels)
	for _, lv := range levels {
		id := fmt.Sprintf("touch_up_%.2f", lv)
		if q.Price >= lv && !st.Fired[id] {
			return fire(id, touchMessage(symbol, q, lv, vwap, vwapOK, ts))
		}
	}

	// Breakdown.
	if cfg.Breakdown > 0 {
		id := fmt.Sprintf("break_dn_%.2f", cfg.Breakdown)
		if q.Price < cfg.Breakdown && !st.Fired[id] {
			return fire(id, breakMessage(symbol, q, cfg.Breakdown, vwap, vwapOK, ts))
		}
	}

	// VWAP cross: fires only on a true sign change against the stored
	// relation. The latest relation is written back even when nothing
	// fires, otherwise a slow drift over several polls would be mistaken
	// for a cross later.
	if cfg.VWAPCross && vwapOK && (rel == model.RelAbove || rel == model.RelBelow) {
		if st.VWAPRel != "" && st.VWAPRel != rel {
			id := "vwap_cross_" + rel
			if !st.Fired[id] {
				st.VWAPRel = rel
				return fire(id, crossMessage(symbol, q, rel, vwap, ts))
			}
		}
		if st.VWAPRel != rel {
			st.VWAPRel = rel
			if err := e.Store.Save(symbol, st); err != nil {
				return nil, fmt.Errorf("save alert state: %w", err)
			}
		}
	}

	return nil, nil
}
