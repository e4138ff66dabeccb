package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"AShareSentinel/internal/model"
)

// LoadTriggers reads a per-symbol trigger config JSON (the file watchcfg
// writes). The fallback is returned for a missing or unparsable file;
// trigger config problems must never abort a poll. An absent vwap_cross
// key defaults to enabled.
func LoadTriggers(path string, fallback model.TriggerConfig) model.TriggerConfig {
	if path == "" {
		return fallback
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}

	var raw struct {
		LevelsUp  []float64 `json:"levels_up"`
		Breakdown float64   `json:"breakdown"`
		VWAPCross *bool     `json:"vwap_cross"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fallback
	}

	cfg := model.TriggerConfig{
		LevelsUp:  raw.LevelsUp,
		Breakdown: raw.Breakdown,
		VWAPCross: true,
	}
	if raw.VWAPCross != nil {
		cfg.VWAPCross = *raw.VWAPCross
	}
	if cfg.LevelsUp == nil {
		cfg.LevelsUp = fallback.LevelsUp
	}
	if cfg.Breakdown == 0 {
		cfg.Breakdown = fallback.Breakdown
	}
	return cfg
}

// ParseLevels parses a comma/slash/space separated level list such as
// "10.00,10.03"; unparsable tokens are dropped.
func ParseLevels(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '/' || r == ' '
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}
