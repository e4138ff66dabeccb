package auction

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"AShareSentinel/internal/model"
)

var testDay = time.Date(2026, 8, 28, 9, 26, 0, 0, time.Local)

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "auction")
	snap := &Snapshot{
		Date:          "2026-08-28",
		Symbol:        "sh600158",
		AuctionPrice:  9.82,
		AuctionAmount: 1234500,
		Source:        "sina_quote",
	}
	fp, err := Save(dir, snap)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(fp) != "2026-08-28_sh600158.json" {
		t.Errorf("unexpected file name %q", fp)
	}

	got := Load(dir, "sh600158", testDay)
	if got == nil {
		t.Fatal("expected snapshot back")
	}
	if got.AuctionPrice != 9.82 || got.Source != "sina_quote" {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestLoad_MissingOrCorruptIsNil(t *testing.T) {
	dir := t.TempDir()
	if got := Load(dir, "sh600158", testDay); got != nil {
		t.Errorf("missing file: got %+v", got)
	}
	fp := filepath.Join(dir, "2026-08-28_sh600158.json")
	if err := os.WriteFile(fp, []byte("{oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := Load(dir, "sh600158", testDay); got != nil {
		t.Errorf("corrupt file: got %+v", got)
	}
}

type quoteStub struct {
	q   model.Quote
	err error
}

func (s *quoteStub) Name() string { return "stub" }

func (s *quoteStub) Quote(_ context.Context, _ string) (model.Quote, error) {
	return s.q, s.err
}

func (s *quoteStub) Bars(_ context.Context, _ string, _ int, _ time.Time) ([]model.Bar, error) {
	return nil, nil
}

func TestCapture(t *testing.T) {
	p := &quoteStub{q: model.Quote{Price: 9.82, Amount: 1234500, Source: "sina"}}
	snap, err := Capture(context.Background(), p, "sh600158", testDay)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Date != "2026-08-28" || snap.Symbol != "sh600158" {
		t.Errorf("identity fields: %+v", snap)
	}
	if snap.AuctionPrice != 9.82 || snap.AuctionAmount != 1234500 {
		t.Errorf("quote fields: %+v", snap)
	}
	if snap.Source != "sina_quote" {
		t.Errorf("source = %q", snap.Source)
	}
}

func TestCapture_QuoteFailure(t *testing.T) {
	inner := errors.New("all providers down")
	p := &quoteStub{err: inner}
	if _, err := Capture(context.Background(), p, "sh600158", testDay); !errors.Is(err, inner) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
