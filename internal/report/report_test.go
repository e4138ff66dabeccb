package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"AShareSentinel/internal/aggregate"
	"AShareSentinel/internal/model"
)

// reportStub serves the watched symbol plus the backdrop indexes.
type reportStub struct {
	quotes map[string]model.Quote
	bars   []model.Bar
}

func (s *reportStub) Name() string { return "stub" }

func (s *reportStub) Quote(_ context.Context, symbol string) (model.Quote, error) {
	q, ok := s.quotes[symbol]
	if !ok {
		return model.Quote{}, errors.New("unknown symbol")
	}
	return q, nil
}

func (s *reportStub) Bars(_ context.Context, _ string, _ int, _ time.Time) ([]model.Bar, error) {
	return s.bars, nil
}

func testBars() []model.Bar {
	mk := func(h, m int, close float64) model.Bar {
		return model.Bar{
			Time:   time.Date(2026, 8, 28, h, m, 0, 0, time.Local),
			Open:   close - 0.01,
			Close:  close,
			High:   close + 0.02,
			Low:    close - 0.02,
			Volume: 100000,
			Amount: close * 100000,
		}
	}
	return []model.Bar{
		mk(9, 35, 9.82),
		mk(10, 30, 9.95),
		mk(11, 25, 10.01),
		mk(13, 30, 10.04),
		mk(14, 45, 10.08),
	}
}

func testParams(mode Mode) Params {
	stub := &reportStub{
		quotes: map[string]model.Quote{
			"sh600158": {Name: "测试股", Open: 9.80, PrevClose: 9.70, Price: 10.08, Source: "stub"},
			"sh000001": {Price: 3010, PrevClose: 3000},
			"sz399001": {Price: 9900, PrevClose: 10000},
			"sz399006": {Price: 2020, PrevClose: 2000},
		},
		bars: testBars(),
	}
	return Params{
		Provider: stub,
		Symbol:   "sh600158",
		Date:     time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local),
		Mode:     mode,
		ScaleMin: 5,
	}
}

func TestBuild_CloseReport(t *testing.T) {
	text, err := Build(context.Background(), testParams(ModeClose))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"【收盘详报】2026-08-28",
		"测试股(600158)",
		"数据源：stub",
		"昨收：9.70",
		"全日区间：9.80 ~ 10.10",
		"尾盘30分钟",
		"上证：+0.33%",
		"深成指：-1.00%",
		"心理关口：10.00",
		"不构成投资建议",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q\n%s", want, text)
		}
	}
}

func TestBuild_MiddayTruncatesAtLunch(t *testing.T) {
	text, err := Build(context.Background(), testParams(ModeMidday))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "【午间快报】") {
		t.Error("wrong header")
	}
	if !strings.Contains(text, "上午区间：9.80 ~ 10.03") {
		t.Errorf("afternoon bars leaked into the morning window:\n%s", text)
	}
	if strings.Contains(text, "尾盘30分钟") {
		t.Error("midday report must not carry the closing segment")
	}
}

func TestBuild_NoBarsIsRecognizable(t *testing.T) {
	p := testParams(ModeMidday)
	p.Provider = &reportStub{
		quotes: map[string]model.Quote{
			"sh600158": {Name: "测试股", PrevClose: 9.70, Source: "stub"},
		},
	}
	_, err := Build(context.Background(), p)
	if !errors.Is(err, aggregate.ErrNoBars) {
		t.Fatalf("expected wrapped ErrNoBars, got %v", err)
	}
}

func TestBuild_IndexFailureDegrades(t *testing.T) {
	p := testParams(ModeClose)
	stub := p.Provider.(*reportStub)
	delete(stub.quotes, "sz399001")
	text, err := Build(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "深成指：-\n") {
		t.Errorf("expected dash for the failed index:\n%s", text)
	}
}

func TestBuild_WatchLevelsListed(t *testing.T) {
	p := testParams(ModeClose)
	p.WatchLevels = []float64{10.0, 10.03}
	text, err := Build(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "自定义关注价位：10 / 10.03") {
		t.Errorf("watch levels missing:\n%s", text)
	}
}
