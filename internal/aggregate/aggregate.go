package aggregate

import (
	"errors"
	"sort"
	"time"

	"AShareSentinel/internal/model"
)

// ErrNoBars signals an empty input sequence. Callers decide whether that is
// fatal; for a midday report it just means the market has not opened yet.
var ErrNoBars = errors.New("no bars to summarize")

// TimeOfDay is a wall-clock minute within the trading day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) minutes() int { return t.Hour*60 + t.Minute }

// Of extracts the time-of-day from a timestamp.
func Of(ts time.Time) TimeOfDay { return TimeOfDay{ts.Hour(), ts.Minute()} }

// A-share session boundaries. These are fixed by the exchange calendar,
// not derived from data.
var (
	MorningOpen    = TimeOfDay{9, 30}
	MorningClose   = TimeOfDay{11, 30}
	AfternoonOpen  = TimeOfDay{13, 0}
	AfternoonClose = TimeOfDay{15, 0}
)

// Summarize reduces a bar sequence into one OHLC summary. The input is
// sorted by timestamp first, so provider ordering does not matter.
func Summarize(bars []model.Bar) (*model.Summary, error) {
	if len(bars) == 0 {
		return nil, ErrNoBars
	}
	sorted := make([]model.Bar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	s := &model.Summary{
		Open:  sorted[0].Open,
		High:  sorted[0].High,
		Low:   sorted[0].Low,
		Close: sorted[len(sorted)-1].Close,
	}
	for _, b := range sorted {
		if b.High > s.High {
			s.High = b.High
		}
		if b.Low < s.Low {
			s.Low = b.Low
		}
		s.Volume += b.Volume
		s.Amount += b.Amount
	}
	return s, nil
}

// Window keeps the bars whose time-of-day falls in the inclusive range.
func Window(bars []model.Bar, from, to TimeOfDay) []model.Bar {
	out := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		m := Of(b.Time).minutes()
		if m >= from.minutes() && m <= to.minutes() {
			out = append(out, b)
		}
	}
	return out
}

// WindowedSummary summarizes only the bars inside the inclusive window.
func WindowedSummary(bars []model.Bar, from, to TimeOfDay) (*model.Summary, error) {
	return Summarize(Window(bars, from, to))
}

// MorningBars truncates a day's bars at the midday cutoff (11:30).
func MorningBars(bars []model.Bar) []model.Bar {
	return Window(bars, TimeOfDay{0, 0}, MorningClose)
}

// TradingTime reports whether t falls inside a weekday trading session.
func TradingTime(t time.Time) bool {
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	m := Of(t).minutes()
	if m >= MorningOpen.minutes() && m <= MorningClose.minutes() {
		return true
	}
	if m >= AfternoonOpen.minutes() && m <= AfternoonClose.minutes() {
		return true
	}
	return false
}

// Pct returns the percentage change of a against base b.
// ok is false when b is zero and the change is not meaningful.
func Pct(a, b float64) (float64, bool) {
	if b == 0 {
		return 0, false
	}
	return (a/b - 1) * 100, true
}
