package alert

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"AShareSentinel/internal/model"
)

// Store persists per-(symbol, trading date) alert state as JSON files named
// YYYY-MM-DD_<symbol>.json under a single directory.
type Store struct {
	Dir string
}

// NewStore creates a store rooted at dir. The directory is created lazily
// on the first save.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(symbol, date string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s_%s.json", date, symbol))
}

// Load returns the stored state for (symbol, date). A missing or unreadable
// file, or a record carrying a different trading date, yields a fresh empty
// state. Stale trigger entries from a prior day must never suppress a new
// day's alert.
func (s *Store) Load(symbol, date string) *model.AlertState {
	data, err := os.ReadFile(s.path(symbol, date))
	if err != nil {
		return model.NewAlertState(date)
	}
	var st model.AlertState
	if err := json.Unmarshal(data, &st); err != nil {
		log.Printf("[WARN] unreadable alert state for %s %s, starting fresh: %v", symbol, date, err)
		return model.NewAlertState(date)
	}
	if st.Date != date {
		return model.NewAlertState(date)
	}
	if st.Fired == nil {
		st.Fired = map[string]bool{}
	}
	return &st
}

// Save writes the state synchronously so that a crash after a decision
// point never re-fires an already-recorded trigger.
func (s *Store) Save(symbol string, st *model.AlertState) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal alert state: %w", err)
	}
	return os.WriteFile(s.path(symbol, st.Date), data, 0644)
}
