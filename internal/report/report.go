package report

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"AShareSentinel/internal/aggregate"
	"AShareSentinel/internal/auction"
	"AShareSentinel/internal/model"
	"AShareSentinel/internal/provider"
)

// Mode selects which session window the report covers.
type Mode string

const (
	ModeMidday Mode = "mid"   // 11:45 run, truncated at the 11:30 close
	ModeClose  Mode = "close" // 15:10 run, full day
)

// Index symbols used for the market backdrop section.
var indexSymbols = []struct {
	Symbol string
	Label  string
}{
	{"sh000001", "上证"},
	{"sz399001", "深成指"},
	{"sz399006", "创业板"},
}

// Params collects the inputs of one report run.
type Params struct {
	Provider    provider.Provider
	Symbol      string
	Name        string // optional; quote display name is used when empty
	Date        time.Time
	Mode        Mode
	ScaleMin    int
	WatchLevels []float64
	AuctionDir  string // optional; open-gap wording is used without a snapshot
}

// Build fetches the day's data and composes the report text.
// aggregate.ErrNoBars wrapped in the returned error means the market has no
// rows yet; callers should treat that as "no data", not as a failure.
func Build(ctx context.Context, p Params) (string, error) {
	q, err := p.Provider.Quote(ctx, p.Symbol)
	if err != nil {
		return "", fmt.Errorf("report quote: %w", err)
	}
	name := p.Name
	if name == "" {
		name = q.Name
	}

	barsAll, err := p.Provider.Bars(ctx, p.Symbol, p.ScaleMin, p.Date)
	if err != nil {
		return "", fmt.Errorf("report kline: %w", err)
	}

	bars := barsAll
	if p.Mode == ModeMidday {
		bars = aggregate.MorningBars(barsAll)
	}
	sum, err := aggregate.Summarize(bars)
	if err != nil {
		return "", fmt.Errorf("report for %s: %w", p.Date.Format("2006-01-02"), err)
	}

	segOpen30, _ := aggregate.WindowedSummary(barsAll, aggregate.TimeOfDay{Hour: 9, Minute: 30}, aggregate.TimeOfDay{Hour: 10, Minute: 0})
	var segLast30 *model.Summary
	if p.Mode != ModeMidday {
		segLast30, _ = aggregate.WindowedSummary(barsAll, aggregate.TimeOfDay{Hour: 14, Minute: 30}, aggregate.TimeOfDay{Hour: 15, Minute: 0})
	}

	var snap *auction.Snapshot
	if p.AuctionDir != "" {
		snap = auction.Load(p.AuctionDir, p.Symbol, p.Date)
	}

	var b strings.Builder
	dateStr := p.Date.Format("2006-01-02")
	if p.Mode == ModeMidday {
		fmt.Fprintf(&b, "【午间快报】%s 11:45（截至 11:30 休市）\n", dateStr)
	} else {
		fmt.Fprintf(&b, "【收盘详报】%s 15:10\n", dateStr)
	}
	fmt.Fprintf(&b, "标的：%s(%s)\n", name, shortCode(p.Symbol))
	fmt.Fprintf(&b, "数据源：%s\n\n", q.Source)

	writeAuctionSection(&b, q, snap)
	writeSessionSection(&b, p.Mode, q, sum, segOpen30, segLast30)
	writeVolumeSection(&b, q, sum)
	writeIndexSection(ctx, &b, p.Provider)
	writeLevelsSection(&b, sum, p.WatchLevels)

	b.WriteString("\n备注：本报告为数据解读，不构成投资建议。")
	return b.String(), nil
}

func shortCode(symbol string) string {
	if len(symbol) > 6 {
		return symbol[len(symbol)-6:]
	}
	return symbol
}

func pctStr(a, b float64) string {
	v, ok := aggregate.Pct(a, b)
	return FmtPct(v, ok)
}

func writeAuctionSection(b *strings.Builder, q model.Quote, snap *auction.Snapshot) {
	b.WriteString("1) 集合竞价/开盘\n")
	fmt.Fprintf(b, "- 昨收：%.2f\n", q.PrevClose)
	if snap != nil && snap.AuctionPrice > 0 {
		fmt.Fprintf(b, "- 竞价(09:25)：%.2f（相对昨收：%s）\n", snap.AuctionPrice, pctStr(snap.AuctionPrice, q.PrevClose))
		if snap.AuctionAmount > 0 {
			fmt.Fprintf(b, "- 竞价成交额：%s\n", FmtMoney(snap.AuctionAmount))
		}
		fmt.Fprintf(b, "- 今开(09:30)：%.2f（开盘缺口：%s）\n", q.Open, pctStr(q.Open, q.PrevClose))
	} else {
		fmt.Fprintf(b, "- 今开(09:30)：%.2f（开盘缺口：%s）\n", q.Open, pctStr(q.Open, q.PrevClose))
		b.WriteString("- 竞价(09:25)：未稳定获取 → 本报告用“开盘缺口”作为替代口径\n")
	}
	b.WriteString("\n")
}

func writeSessionSection(b *strings.Builder, mode Mode, q model.Quote, sum, segOpen30, segLast30 *model.Summary) {
	b.WriteString("2) 盘内走势（区间 + 结构）\n")
	scope, closeLabel := "全日", "收盘"
	if mode == ModeMidday {
		scope, closeLabel = "上午", "午间(11:30)"
	}
	fmt.Fprintf(b, "- %s区间：%.2f ~ %.2f\n", scope, sum.Low, sum.High)
	label := Classify(sum.High, sum.Low, sum.Close, q.PrevClose)
	fmt.Fprintf(b, "- %s：%.2f（%s，%s）\n", closeLabel, sum.Close, pctStr(sum.Close, q.PrevClose), label)
	if segOpen30 != nil {
		fmt.Fprintf(b, "- 开盘前30分钟(09:30-10:00)：%.2f~%.2f，收于 %.2f\n", segOpen30.Low, segOpen30.High, segOpen30.Close)
	}
	if segLast30 != nil {
		fmt.Fprintf(b, "- 尾盘30分钟(14:30-15:00)：%.2f~%.2f，收于 %.2f\n", segLast30.Low, segLast30.High, segLast30.Close)
	}
	b.WriteString("\n")
}

func writeVolumeSection(b *strings.Builder, q model.Quote, sum *model.Summary) {
	b.WriteString("3) 量能/成本（成交额/成交量/VWAP）\n")
	fmt.Fprintf(b, "- 成交量：%s\n", FmtVol(sum.Volume))
	fmt.Fprintf(b, "- 成交额：%s\n", FmtMoney(sum.Amount))
	if vwap, ok := sum.VWAP(); ok {
		rel := "≈"
		if sum.Close > vwap {
			rel = "高于"
		} else if sum.Close < vwap {
			rel = "低于"
		}
		fmt.Fprintf(b, "- VWAP(均价)：%.3f（当前价格%s均价）\n", vwap, rel)
	}
	b.WriteString("\n")
}

func writeIndexSection(ctx context.Context, b *strings.Builder, p provider.Provider) {
	b.WriteString("4) 大盘背景（指数涨跌幅）\n")
	for _, idx := range indexSymbols {
		q, err := p.Quote(ctx, idx.Symbol)
		if err != nil {
			log.Printf("[WARN] index quote %s: %v", idx.Symbol, err)
			fmt.Fprintf(b, "- %s：-\n", idx.Label)
			continue
		}
		fmt.Fprintf(b, "- %s：%s\n", idx.Label, pctStr(q.Price, q.PrevClose))
	}
	b.WriteString("\n")
}

func writeLevelsSection(b *strings.Builder, sum *model.Summary, watch []float64) {
	b.WriteString("5) 关键价位（盯盘/复盘用）\n")
	fmt.Fprintf(b, "- 压力：%.2f\n", sum.High)
	if vwap, ok := sum.VWAP(); ok {
		fmt.Fprintf(b, "- 成本(VWAP)：%.3f\n", vwap)
	}
	if sum.Low <= 10.0 && 10.0 <= sum.High {
		b.WriteString("- 心理关口：10.00\n")
	}
	fmt.Fprintf(b, "- 支撑：%.2f\n", sum.Low)
	if len(watch) > 0 {
		parts := make([]string, len(watch))
		for i, x := range watch {
			parts[i] = fmt.Sprintf("%g", x)
		}
		b.WriteString("- 自定义关注价位：" + strings.Join(parts, " / ") + "\n")
	}
}
