package alert

import (
	"os"
	"path/filepath"
	"testing"

	"AShareSentinel/internal/model"
)

func TestStoreLoad_MissingFileStartsFresh(t *testing.T) {
	s := NewStore(t.TempDir())
	st := s.Load("sh600158", "2026-08-28")
	if st.Date != "2026-08-28" {
		t.Errorf("date = %q", st.Date)
	}
	if len(st.Fired) != 0 || st.VWAPRel != "" {
		t.Errorf("expected empty state, got %+v", st)
	}
}

func TestStoreLoad_CorruptFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	path := filepath.Join(dir, "2026-08-28_sh600158.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	st := s.Load("sh600158", "2026-08-28")
	if len(st.Fired) != 0 {
		t.Errorf("corrupt file must yield fresh state, got %+v", st)
	}
}

func TestStoreLoad_DateMismatchStartsFresh(t *testing.T) {
	s := NewStore(t.TempDir())
	old := model.NewAlertState("2026-08-27")
	old.Fired["touch_up_10.00"] = true
	if err := s.Save("sh600158", old); err != nil {
		t.Fatal(err)
	}

	// Same file name would not collide across dates, but a stale record
	// copied into place must still not suppress a new day's triggers.
	stale, err := os.ReadFile(filepath.Join(s.Dir, "2026-08-27_sh600158.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, "2026-08-28_sh600158.json"), stale, 0644); err != nil {
		t.Fatal(err)
	}

	st := s.Load("sh600158", "2026-08-28")
	if st.Fired["touch_up_10.00"] {
		t.Error("stale prior-day trigger leaked into the new day")
	}
}

func TestStoreSaveLoad_RoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "alerts"))
	st := model.NewAlertState("2026-08-28")
	st.Fired["touch_up_10.00"] = true
	st.Fired["vwap_cross_above"] = true
	st.VWAPRel = model.RelAbove
	st.LastFireAt = "2026-08-28 10:15:00"
	if err := s.Save("sh600158", st); err != nil {
		t.Fatal(err)
	}

	got := s.Load("sh600158", "2026-08-28")
	if !got.Fired["touch_up_10.00"] || !got.Fired["vwap_cross_above"] {
		t.Errorf("fired set lost: %+v", got.Fired)
	}
	if got.VWAPRel != model.RelAbove || got.LastFireAt != "2026-08-28 10:15:00" {
		t.Errorf("metadata lost: %+v", got)
	}
}
