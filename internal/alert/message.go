package alert

import (
	"fmt"
	"strings"

	"AShareSentinel/internal/aggregate"
	"AShareSentinel/internal/model"
)

// shortCode strips the exchange prefix from a symbol for display.
func shortCode(symbol string) string {
	if len(symbol) > 6 {
		return symbol[len(symbol)-6:]
	}
	return symbol
}

func changeLine(q model.Quote) string {
	ch, ok := aggregate.Pct(q.Price, q.PrevClose)
	if !ok {
		return fmt.Sprintf("- 现价：%.2f\n", q.Price)
	}
	return fmt.Sprintf("- 现价：%.2f（%+.2f%%）\n", q.Price, ch)
}

func vwapLine(price, vwap float64, withSide bool) string {
	if !withSide {
		return fmt.Sprintf("- VWAP：%.3f\n", vwap)
	}
	side := "≈"
	if price > vwap {
		side = "上方"
	} else if price < vwap {
		side = "下方"
	}
	return fmt.Sprintf("- VWAP：%.3f（%s）\n", vwap, side)
}

func touchMessage(symbol string, q model.Quote, level, vwap float64, vwapOK bool, ts string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "【盘中提醒】%s(%s) 触达 %.2f\n", q.Name, shortCode(symbol), level)
	fmt.Fprintf(&b, "- 时间：%s\n", ts)
	b.WriteString(changeLine(q))
	if vwapOK {
		b.WriteString(vwapLine(q.Price, vwap, true))
	}
	b.WriteString("（当日该条件仅提醒一次）")
	return b.String()
}

func breakMessage(symbol string, q model.Quote, level, vwap float64, vwapOK bool, ts string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "【盘中提醒】%s(%s) 跌破 %.2f\n", q.Name, shortCode(symbol), level)
	fmt.Fprintf(&b, "- 时间：%s\n", ts)
	b.WriteString(changeLine(q))
	if vwapOK {
		b.WriteString(vwapLine(q.Price, vwap, false))
	}
	b.WriteString("（当日该条件仅提醒一次）")
	return b.String()
}

func crossMessage(symbol string, q model.Quote, rel string, vwap float64, ts string) string {
	direction := "上穿"
	if rel == model.RelBelow {
		direction = "下穿"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "【盘中提醒】%s(%s) %s VWAP\n", q.Name, shortCode(symbol), direction)
	fmt.Fprintf(&b, "- 时间：%s\n", ts)
	b.WriteString(changeLine(q))
	b.WriteString(vwapLine(q.Price, vwap, false))
	b.WriteString("（当日该条件仅提醒一次）")
	return b.String()
}
