package report

import "fmt"

// FmtPct renders a percentage change, "-" when not meaningful.
func FmtPct(x float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", x)
}

// FmtMoney renders a yuan amount with 亿/万 units.
func FmtMoney(x float64) string {
	switch {
	case x >= 1e8:
		return fmt.Sprintf("%.2f亿", x/1e8)
	case x >= 1e4:
		return fmt.Sprintf("%.2f万", x/1e4)
	default:
		return fmt.Sprintf("%.0f", x)
	}
}

// FmtVol renders a share count with 亿股/万股 units.
func FmtVol(x float64) string {
	switch {
	case x >= 1e8:
		return fmt.Sprintf("%.2f亿股", x/1e8)
	case x >= 1e4:
		return fmt.Sprintf("%.2f万股", x/1e4)
	default:
		return fmt.Sprintf("%.0f股", x)
	}
}

// Classify labels the intraday shape from the session summary against the
// previous close.
func Classify(high, low, close, preclose float64) string {
	var ch, rng float64
	if preclose != 0 {
		ch = (close/preclose - 1) * 100
	}
	if low != 0 {
		rng = (high/low - 1) * 100
	}
	switch {
	case ch > -0.3 && ch < 0.3 && rng < 1.5:
		return "震荡"
	case ch > 0.5:
		return "偏强"
	case ch < -0.5:
		return "偏弱"
	case ch >= 0:
		return "震荡偏强"
	default:
		return "震荡偏弱"
	}
}
