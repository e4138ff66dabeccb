package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"AShareSentinel/internal/model"
)

// SinaProvider fetches quotes from the hq list endpoint and klines from the
// CN_MarketDataService JSON API. Quote prices arrive in yuan and volumes
// in shares, so no rescaling applies.
type SinaProvider struct {
	QuoteURL string
	KlineURL string
	Client   *http.Client
}

// NewSina creates the fetcher with optional proxy support.
func NewSina(proxyURL string) *SinaProvider {
	return &SinaProvider{
		QuoteURL: "https://hq.sinajs.cn/list=",
		KlineURL: "https://quotes.sina.cn/cn/api/json_v2.php/CN_MarketDataService.getKLineData",
		Client:   newHTTPClient(proxyURL),
	}
}

func (p *SinaProvider) Name() string { return "sina" }

func (p *SinaProvider) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", "https://finance.sina.com.cn")
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

// sinaQuoteFields is the minimum field count of a hq list payload; anything
// shorter means the endpoint changed contract rather than returned a
// sparse quote.
const sinaQuoteFields = 32

func (p *SinaProvider) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	body, err := p.get(ctx, p.QuoteURL+url.QueryEscape(symbol))
	if err != nil {
		return model.Quote{}, &Error{Provider: p.Name(), Err: fmt.Errorf("quote %s: %w", symbol, err)}
	}

	// Payload shape: var hq_str_sh600158="name,open,preclose,price,...";
	text := string(body)
	parts := strings.SplitN(text, `"`, 3)
	if len(parts) < 3 {
		return model.Quote{}, &Error{Provider: p.Name(), Err: fmt.Errorf("unexpected quote payload: %.120s", text)}
	}
	arr := strings.Split(parts[1], ",")
	if len(arr) < sinaQuoteFields {
		return model.Quote{}, &Error{Provider: p.Name(), Err: fmt.Errorf("unexpected quote fields=%d: %.120s", len(arr), text)}
	}

	var ts time.Time
	if arr[30] != "" && arr[31] != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", arr[30]+" "+arr[31], time.Local); err == nil {
			ts = t
		}
	}
	name := arr[0]
	if name == "" {
		name = symbol
	}

	return model.Quote{
		Name:      name,
		Open:      toNum(arr[1]),
		PrevClose: toNum(arr[2]),
		Price:     toNum(arr[3]),
		High:      toNum(arr[4]),
		Low:       toNum(arr[5]),
		Volume:    toNum(arr[8]),
		Amount:    toNum(arr[9]),
		Time:      ts,
		Source:    p.Name(),
	}, nil
}

func (p *SinaProvider) Bars(ctx context.Context, symbol string, scaleMin int, day time.Time) ([]model.Bar, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("scale", fmt.Sprintf("%d", scaleMin))
	q.Set("ma", "no")
	q.Set("datalen", "800")
	body, err := p.get(ctx, p.KlineURL+"?"+q.Encode())
	if err != nil {
		return nil, &Error{Provider: p.Name(), Err: fmt.Errorf("kline %s: %w", symbol, err)}
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &Error{Provider: p.Name(), Err: fmt.Errorf("unexpected kline json: %.120s", string(body))}
	}

	prefix := day.Format("2006-01-02")
	bars := make([]model.Bar, 0, len(rows))
	for _, row := range rows {
		s, _ := row["day"].(string)
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		ts, err := parseBarTime(s)
		if err != nil {
			continue
		}
		bars = append(bars, model.Bar{
			Time:   ts,
			Open:   jsonNum(row["open"]),
			High:   jsonNum(row["high"]),
			Low:    jsonNum(row["low"]),
			Close:  jsonNum(row["close"]),
			Volume: jsonNum(row["volume"]),
			Amount: jsonNum(row["amount"]),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// Daily fetches up to limit daily bars (scale=240). Not part of the
// Provider contract; used by watch-config generation only.
func (p *SinaProvider) Daily(ctx context.Context, symbol string, limit int) ([]model.Bar, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("scale", "240")
	q.Set("ma", "no")
	q.Set("datalen", fmt.Sprintf("%d", limit))
	body, err := p.get(ctx, p.KlineURL+"?"+q.Encode())
	if err != nil {
		return nil, &Error{Provider: p.Name(), Err: fmt.Errorf("daily kline %s: %w", symbol, err)}
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &Error{Provider: p.Name(), Err: fmt.Errorf("unexpected daily kline json: %.120s", string(body))}
	}
	bars := make([]model.Bar, 0, len(rows))
	for _, row := range rows {
		s, _ := row["day"].(string)
		ts, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			continue
		}
		bars = append(bars, model.Bar{
			Time:  ts,
			Open:  jsonNum(row["open"]),
			High:  jsonNum(row["high"]),
			Low:   jsonNum(row["low"]),
			Close: jsonNum(row["close"]),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
