package auction

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"AShareSentinel/internal/provider"
)

// Snapshot is a best-effort capture of the 09:25 call-auction match,
// written by a cron run around 09:25-09:29 and read back by the report
// builder. Free public endpoints do not reliably expose the true auction
// price after-the-fact, hence best effort.
type Snapshot struct {
	Date          string  `json:"date"`
	Symbol        string  `json:"symbol"`
	AuctionPrice  float64 `json:"auction_price"`
	AuctionAmount float64 `json:"auction_amount"`
	Source        string  `json:"source"`
	CapturedAt    string  `json:"captured_at"`
	Note          string  `json:"note"`
}

func path(dir, symbol, date string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.json", date, symbol))
}

// Load returns the snapshot for (symbol, day), or nil when the file is
// missing or unreadable. Reports degrade to open-gap wording in that case.
func Load(dir, symbol string, day time.Time) *Snapshot {
	data, err := os.ReadFile(path(dir, symbol, day.Format("2006-01-02")))
	if err != nil {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return &snap
}

// Save writes the snapshot to its per-day file.
func Save(dir string, snap *Snapshot) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create auction dir: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	fp := path(dir, snap.Symbol, snap.Date)
	if err := os.WriteFile(fp, data, 0644); err != nil {
		return "", err
	}
	return fp, nil
}

// Capture fetches the current quote and packages it as an auction snapshot.
// If the market is already in continuous trading the price is no longer the
// auction match; scheduling is the caller's responsibility.
func Capture(ctx context.Context, p provider.Provider, symbol string, day time.Time) (*Snapshot, error) {
	q, err := p.Quote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("capture auction quote: %w", err)
	}
	return &Snapshot{
		Date:          day.Format("2006-01-02"),
		Symbol:        symbol,
		AuctionPrice:  q.Price,
		AuctionAmount: q.Amount,
		Source:        q.Source + "_quote",
		CapturedAt:    time.Now().Format(time.RFC3339),
		Note:          "best-effort; schedule this around 09:25-09:29",
	}, nil
}
