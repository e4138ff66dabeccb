package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"AShareSentinel/internal/model"
)

// EastmoneyProvider fetches quotes and klines from the Eastmoney push2
// endpoints. Prices arrive as integers scaled by 100 and volumes as
// 100-share lots; both are rescaled here.
type EastmoneyProvider struct {
	QuoteURL string
	KlineURL string
	Client   *http.Client
}

// NewEastmoney creates the fetcher with optional proxy support.
func NewEastmoney(proxyURL string) *EastmoneyProvider {
	return &EastmoneyProvider{
		QuoteURL: "https://push2.eastmoney.com/api/qt/stock/get",
		KlineURL: "https://push2his.eastmoney.com/api/qt/stock/kline/get",
		Client:   newHTTPClient(proxyURL),
	}
}

func (p *EastmoneyProvider) Name() string { return "eastmoney" }

var symbolRe = regexp.MustCompile(`^(sh|sz)(\d{6})$`)

// secid maps an exchange-prefixed symbol to the push2 market code,
// e.g. sh600158 -> "1.600158", sz000001 -> "0.000001".
func secid(symbol string) (string, error) {
	m := symbolRe.FindStringSubmatch(symbol)
	if m == nil {
		return "", fmt.Errorf("bad symbol %q", symbol)
	}
	market := "0"
	if m[1] == "sh" {
		market = "1"
	}
	return market + "." + m[2], nil
}

func (p *EastmoneyProvider) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", "https://quote.eastmoney.com")
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return body, nil
}

func (p *EastmoneyProvider) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	id, err := secid(symbol)
	if err != nil {
		return model.Quote{}, &Error{Provider: p.Name(), Err: err}
	}
	q := url.Values{}
	q.Set("secid", id)
	q.Set("fields", "f58,f43,f44,f45,f46,f60,f47,f48,f86")
	body, err := p.get(ctx, p.QuoteURL+"?"+q.Encode())
	if err != nil {
		return model.Quote{}, &Error{Provider: p.Name(), Err: fmt.Errorf("quote %s: %w", symbol, err)}
	}

	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return model.Quote{}, &Error{Provider: p.Name(), Err: fmt.Errorf("decode quote: %w", err)}
	}
	if env.Data == nil {
		return model.Quote{}, &Error{Provider: p.Name(), Err: fmt.Errorf("quote %s: empty data envelope", symbol)}
	}

	num := func(key string) float64 { return jsonNum(env.Data[key]) }
	name := symbol
	if s, ok := env.Data["f58"].(string); ok && s != "" {
		name = s
	}
	var ts time.Time
	if sec := num("f86"); sec > 0 {
		ts = time.Unix(int64(sec), 0)
	}

	return model.Quote{
		Name:      name,
		Open:      num("f46") / 100,
		PrevClose: num("f60") / 100,
		Price:     num("f43") / 100,
		High:      num("f44") / 100,
		Low:       num("f45") / 100,
		Volume:    num("f47") * 100, // lots to shares
		Amount:    num("f48"),
		Time:      ts,
		Source:    p.Name(),
	}, nil
}

func (p *EastmoneyProvider) Bars(ctx context.Context, symbol string, scaleMin int, day time.Time) ([]model.Bar, error) {
	id, err := secid(symbol)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Err: err}
	}
	ds := day.Format("20060102")
	q := url.Values{}
	q.Set("secid", id)
	q.Set("klt", fmt.Sprintf("%d", scaleMin))
	q.Set("fqt", "1")
	q.Set("beg", ds)
	q.Set("end", ds)
	q.Set("lmt", "1000")
	q.Set("fields1", "f1,f2,f3,f4,f5,f6")
	q.Set("fields2", "f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61")
	body, err := p.get(ctx, p.KlineURL+"?"+q.Encode())
	if err != nil {
		return nil, &Error{Provider: p.Name(), Err: fmt.Errorf("kline %s: %w", symbol, err)}
	}

	var env struct {
		Data *struct {
			Klines []string `json:"klines"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &Error{Provider: p.Name(), Err: fmt.Errorf("decode kline: %w", err)}
	}
	if env.Data == nil {
		// The endpoint answers with a null data block for days it has no
		// rows for; the chain treats the empty result as a fallback signal.
		return nil, nil
	}
	return parseKlines(env.Data.Klines), nil
}

// parseKlines decodes "YYYY-MM-DD HH:MM,open,close,high,low,volume,amount,..."
// rows. Short or time-corrupt lines are skipped; lot volumes become shares.
func parseKlines(lines []string) []model.Bar {
	bars := make([]model.Bar, 0, len(lines))
	for _, line := range lines {
		parts := strings.Split(line, ",")
		if len(parts) < 7 {
			continue
		}
		ts, err := parseBarTime(parts[0])
		if err != nil {
			continue
		}
		bars = append(bars, model.Bar{
			Time:   ts,
			Open:   toNum(parts[1]),
			Close:  toNum(parts[2]),
			High:   toNum(parts[3]),
			Low:    toNum(parts[4]),
			Volume: toNum(parts[5]) * 100,
			Amount: toNum(parts[6]),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars
}

// Daily fetches up to limit daily bars ending today (klt=101). Not part of
// the Provider contract; used by watch-config generation only.
func (p *EastmoneyProvider) Daily(ctx context.Context, symbol string, limit int) ([]model.Bar, error) {
	id, err := secid(symbol)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Err: err}
	}
	q := url.Values{}
	q.Set("secid", id)
	q.Set("klt", "101")
	q.Set("fqt", "1")
	q.Set("end", "20500101")
	q.Set("lmt", fmt.Sprintf("%d", limit))
	q.Set("fields1", "f1,f2,f3,f4,f5")
	q.Set("fields2", "f51,f52,f53,f54,f55,f56,f57,f58")
	body, err := p.get(ctx, p.KlineURL+"?"+q.Encode())
	if err != nil {
		return nil, &Error{Provider: p.Name(), Err: fmt.Errorf("daily kline %s: %w", symbol, err)}
	}

	var env struct {
		Data *struct {
			Klines []string `json:"klines"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &Error{Provider: p.Name(), Err: fmt.Errorf("decode daily kline: %w", err)}
	}
	if env.Data == nil {
		return nil, nil
	}
	bars := make([]model.Bar, 0, len(env.Data.Klines))
	for _, line := range env.Data.Klines {
		parts := strings.Split(line, ",")
		if len(parts) < 5 {
			continue
		}
		ts, err := time.ParseInLocation("2006-01-02", parts[0], time.Local)
		if err != nil {
			continue
		}
		bars = append(bars, model.Bar{
			Time:  ts,
			Open:  toNum(parts[1]),
			Close: toNum(parts[2]),
			High:  toNum(parts[3]),
			Low:   toNum(parts[4]),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
