package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSecid(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
		ok     bool
	}{
		{"sh600158", "1.600158", true},
		{"sz000001", "0.000001", true},
		{"sz399006", "0.399006", true},
		{"600158", "", false},
		{"shx00158", "", false},
		{"sh60015", "", false},
	}
	for _, tt := range tests {
		got, err := secid(tt.symbol)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("secid(%q) = %q, %v; want %q", tt.symbol, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("secid(%q): expected error", tt.symbol)
		}
	}
}

func TestEastmoneyQuote_ScalesPricesAndLots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("secid"); got != "1.600158" {
			t.Errorf("unexpected secid %q", got)
		}
		w.Write([]byte(`{"data":{"f58":"测试股","f43":1005,"f44":1010,"f45":990,"f46":1000,"f60":970,"f47":12345,"f48":67890000,"f86":1700000000}}`))
	}))
	defer srv.Close()

	p := &EastmoneyProvider{QuoteURL: srv.URL, Client: srv.Client()}
	q, err := p.Quote(context.Background(), "sh600158")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Name != "测试股" {
		t.Errorf("name = %q", q.Name)
	}
	if q.Price != 10.05 || q.Open != 10.00 || q.High != 10.10 || q.Low != 9.90 || q.PrevClose != 9.70 {
		t.Errorf("unexpected prices: %+v", q)
	}
	if q.Volume != 1234500 {
		t.Errorf("volume = %v, want lots*100", q.Volume)
	}
	if q.Amount != 67890000 {
		t.Errorf("amount = %v", q.Amount)
	}
	if q.Time.IsZero() {
		t.Error("expected observation time from f86")
	}
	if q.Source != "eastmoney" {
		t.Errorf("source = %q", q.Source)
	}
}

func TestEastmoneyQuote_EmptyEnvelopeIsStructuralError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	p := &EastmoneyProvider{QuoteURL: srv.URL, Client: srv.Client()}
	_, err := p.Quote(context.Background(), "sh600158")
	if err == nil {
		t.Fatal("expected error for null data envelope")
	}
	var pe *Error
	if !errors.As(err, &pe) || pe.Provider != "eastmoney" {
		t.Fatalf("expected provider error tagged eastmoney, got %v", err)
	}
}

func TestEastmoneyQuote_MissingFieldsDegradeToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"f58":"测试股","f43":"-","f60":970}}`))
	}))
	defer srv.Close()

	p := &EastmoneyProvider{QuoteURL: srv.URL, Client: srv.Client()}
	q, err := p.Quote(context.Background(), "sh600158")
	if err != nil {
		t.Fatalf("sparse quote must not error: %v", err)
	}
	if q.Price != 0 || q.Open != 0 {
		t.Errorf("expected zero for missing fields, got %+v", q)
	}
	if q.PrevClose != 9.70 {
		t.Errorf("preclose = %v", q.PrevClose)
	}
}

func TestEastmoneyBars_ParsesSortsAndSkipsBadLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"klines":[
			"2026-08-28 09:32,10.02,10.04,10.05,10.01,120,121000",
			"2026-08-28 09:31,10.00,10.02,10.03,9.99,100,100500",
			"garbage",
			"not-a-time,1,2,3,4,5,6"
		]}}`))
	}))
	defer srv.Close()

	p := &EastmoneyProvider{KlineURL: srv.URL, Client: srv.Client()}
	bars, err := p.Bars(context.Background(), "sh600158", 1, time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if !bars[0].Time.Before(bars[1].Time) {
		t.Error("bars not sorted ascending")
	}
	if bars[0].Open != 10.00 || bars[0].Close != 10.02 || bars[0].High != 10.03 || bars[0].Low != 9.99 {
		t.Errorf("unexpected first bar: %+v", bars[0])
	}
	if bars[0].Volume != 10000 {
		t.Errorf("volume = %v, want lots*100", bars[0].Volume)
	}
}

func TestEastmoneyBars_NullDataMeansNoRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	p := &EastmoneyProvider{KlineURL: srv.URL, Client: srv.Client()}
	bars, err := p.Bars(context.Background(), "sh600158", 1, time.Now())
	if err != nil {
		t.Fatalf("no-rows day must not error: %v", err)
	}
	if len(bars) != 0 {
		t.Fatalf("expected empty bars, got %d", len(bars))
	}
}

func TestEastmoneyDaily_ParsesDateOnlyRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("klt"); got != "101" {
			t.Errorf("klt = %q, want 101", got)
		}
		w.Write([]byte(`{"data":{"klines":[
			"2026-08-27,9.80,9.90,9.95,9.75",
			"2026-08-28,9.90,10.05,10.10,9.88"
		]}}`))
	}))
	defer srv.Close()

	p := &EastmoneyProvider{KlineURL: srv.URL, Client: srv.Client()}
	bars, err := p.Daily(context.Background(), "sh600158", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 daily bars, got %d", len(bars))
	}
	if bars[1].Close != 10.05 || bars[1].High != 10.10 || bars[1].Low != 9.88 {
		t.Errorf("unexpected last bar: %+v", bars[1])
	}
}

func TestParseBarTime_TwoLayouts(t *testing.T) {
	for _, s := range []string{"2026-08-28 09:31", "2026-08-28 09:31:00"} {
		ts, err := parseBarTime(s)
		if err != nil {
			t.Fatalf("parseBarTime(%q): %v", s, err)
		}
		if ts.Hour() != 9 || ts.Minute() != 31 {
			t.Errorf("parseBarTime(%q) = %v", s, ts)
		}
	}
	if _, err := parseBarTime("28/08/2026 09:31"); err == nil {
		t.Error("expected error for unknown layout")
	}
}
