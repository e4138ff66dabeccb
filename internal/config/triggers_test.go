package config

import (
	"os"
	"path/filepath"
	"testing"

	"AShareSentinel/internal/model"
)

var triggerFallback = model.TriggerConfig{
	LevelsUp:  []float64{10.00, 10.03},
	Breakdown: 9.86,
	VWAPCross: true,
}

func writeTriggerFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watch.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTriggers_FullFile(t *testing.T) {
	path := writeTriggerFile(t, `{"levels_up":[9.90,9.98],"breakdown":9.70,"vwap_cross":false}`)
	cfg := LoadTriggers(path, triggerFallback)
	if len(cfg.LevelsUp) != 2 || cfg.LevelsUp[0] != 9.90 {
		t.Errorf("levels = %v", cfg.LevelsUp)
	}
	if cfg.Breakdown != 9.70 {
		t.Errorf("breakdown = %v", cfg.Breakdown)
	}
	if cfg.VWAPCross {
		t.Error("explicit false was overridden")
	}
}

func TestLoadTriggers_AbsentVWAPCrossDefaultsOn(t *testing.T) {
	path := writeTriggerFile(t, `{"levels_up":[9.90],"breakdown":9.70}`)
	if cfg := LoadTriggers(path, model.TriggerConfig{}); !cfg.VWAPCross {
		t.Error("absent vwap_cross must default to enabled")
	}
}

func TestLoadTriggers_MissingFileUsesFallback(t *testing.T) {
	cfg := LoadTriggers(filepath.Join(t.TempDir(), "nope.json"), triggerFallback)
	if len(cfg.LevelsUp) != 2 || cfg.Breakdown != 9.86 {
		t.Errorf("fallback not applied: %+v", cfg)
	}
}

func TestLoadTriggers_UnparsableFileUsesFallback(t *testing.T) {
	path := writeTriggerFile(t, "{broken")
	cfg := LoadTriggers(path, triggerFallback)
	if cfg.Breakdown != 9.86 {
		t.Errorf("fallback not applied: %+v", cfg)
	}
}

func TestLoadTriggers_PartialFileKeepsFallbackFields(t *testing.T) {
	path := writeTriggerFile(t, `{"levels_up":[9.90]}`)
	cfg := LoadTriggers(path, triggerFallback)
	if cfg.Breakdown != 9.86 {
		t.Errorf("zero breakdown must fall back, got %v", cfg.Breakdown)
	}
	if len(cfg.LevelsUp) != 1 || cfg.LevelsUp[0] != 9.90 {
		t.Errorf("levels = %v", cfg.LevelsUp)
	}
}

func TestLoadTriggers_EmptyPathUsesFallback(t *testing.T) {
	cfg := LoadTriggers("", triggerFallback)
	if cfg.Breakdown != 9.86 {
		t.Errorf("fallback not applied: %+v", cfg)
	}
}

func TestParseLevels(t *testing.T) {
	tests := []struct {
		in   string
		want []float64
	}{
		{"10.00,10.03", []float64{10.00, 10.03}},
		{"9.5/10.1 9.0", []float64{9.5, 10.1, 9.0}},
		{"abc,10.0", []float64{10.0}},
		{"", nil},
	}
	for _, tt := range tests {
		got := ParseLevels(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("ParseLevels(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("ParseLevels(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}
