package model

// TriggerConfig holds the per-symbol intraday trigger set.
// Levels are absolute prices; LevelsUp is kept in ascending order.
type TriggerConfig struct {
	LevelsUp  []float64 `json:"levels_up"`
	Breakdown float64   `json:"breakdown"`
	VWAPCross bool      `json:"vwap_cross"`
}

// Relation values for the price-vs-VWAP comparison stored in AlertState.
const (
	RelAbove = "above"
	RelBelow = "below"
	RelEqual = "equal"
)

// AlertState is the persisted per-(symbol, trading date) dedup record.
// It must round-trip losslessly through JSON; a missing or unreadable file
// is treated as an empty state for the current date.
type AlertState struct {
	Date       string          `json:"date"`
	Fired      map[string]bool `json:"fired"`
	VWAPRel    string          `json:"vwap_rel,omitempty"`
	LastFireAt string          `json:"last_fire_at,omitempty"`
}

// NewAlertState returns an empty state for the given trading date.
func NewAlertState(date string) *AlertState {
	return &AlertState{Date: date, Fired: map[string]bool{}}
}
