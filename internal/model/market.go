package model

import "time"

// Quote is the normalized realtime snapshot produced by every provider.
type Quote struct {
	Name      string // display name reported by the vendor
	Open      float64
	PrevClose float64
	Price     float64
	High      float64
	Low       float64
	Volume    float64   // shares
	Amount    float64   // yuan
	Time      time.Time // zero when the vendor omitted the observation time
	Source    string
}

// Bar is one fixed-duration kline sample for a single symbol.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64 // shares
	Amount float64 // yuan
}

// Summary reduces an ordered bar sequence to OHLC plus traded volume and amount.
// It is built fresh per request and never persisted.
type Summary struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Amount float64
}

// VWAP returns the value-weighted average price over the summarized window.
// ok is false when no volume traded.
func (s Summary) VWAP() (float64, bool) {
	if s.Volume <= 0 {
		return 0, false
	}
	return s.Amount / s.Volume, true
}
