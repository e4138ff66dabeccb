package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"AShareSentinel/internal/model"
)

// Provider fetches normalized market data from one vendor.
// Bars returns an empty slice (not an error) when the vendor legitimately
// has no rows for the requested day.
type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (model.Quote, error)
	Bars(ctx context.Context, symbol string, scaleMin int, day time.Time) ([]model.Bar, error)
}

// Error wraps a single-backend network, parse, or payload-shape failure
// with the vendor name.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Provider, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// requestTimeout bounds every provider HTTP call so a hung endpoint cannot
// stall a poll; on timeout the call counts as a provider failure.
const requestTimeout = 10 * time.Second

// barTimeLayouts are the accepted kline timestamp layouts, tried in order.
var barTimeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02 15:04"}

func parseBarTime(s string) (time.Time, error) {
	for _, layout := range barTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized bar time %q", s)
}

// toNum parses a numeric field, substituting zero for anything unparsable.
func toNum(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// jsonNum extracts a float from a decoded JSON value, substituting zero
// for null, "-", or any other non-numeric placeholder.
func jsonNum(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		return toNum(n)
	default:
		return 0
	}
}

// newHTTPClient builds a client with the poll timeout and optional proxy.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   requestTimeout,
		Transport: transport,
	}
}
