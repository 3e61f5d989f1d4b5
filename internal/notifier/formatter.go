package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"PatternScout/internal/model"
	"PatternScout/internal/recorder"
)

func price(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func candleTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04")
}

// FormatSignals formats new signals of a run. Prices are the closes of the
// signal candles when present in s.
func FormatSignals(w model.Watch, s model.Series, signals []model.Signal, report *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📡 <b>%s</b> | %s %s\n\n", html.EscapeString(w.Name), html.EscapeString(w.Symbol), w.Timeframe))
	for _, sig := range signals {
		icon := "🟢 BUY "
		if sig.Direction == model.Sell {
			icon = "🔴 SELL"
		}
		line := fmt.Sprintf("%s  %s UTC", icon, candleTime(sig.Timestamp))
		if idx := s.NearestIndex(sig.Timestamp); idx >= 0 && s[idx].Timestamp == sig.Timestamp {
			line += " @ " + price(s[idx].Close)
		}
		b.WriteString(line + "\n")
	}

	if report != nil {
		b.WriteString("\n📈 <b>Hit rate (10 candles):</b>\n")
		b.WriteString(fmt.Sprintf("  buy: %.2f%% of %d | sell: %.2f%% of %d\n",
			report.BuyEval.Assertiveness, report.BuyEval.Total,
			report.SellEval.Assertiveness, report.SellEval.Total))

		if in := report.Insights; in != nil && len(in.KeyLevels) > 0 {
			levels := make([]string, len(in.KeyLevels))
			for i, l := range in.KeyLevels {
				levels[i] = price(l)
			}
			b.WriteString(fmt.Sprintf("\n🧱 Key levels: %s\n", strings.Join(levels, " · ")))
		}
	}
	return b.String()
}

// FormatWatchList lists the configured watches.
func FormatWatchList(watches []model.Watch) string {
	if len(watches) == 0 {
		return "No analyses configured."
	}
	var b strings.Builder
	b.WriteString("📋 <b>Analyses</b>\n\n")
	for _, w := range watches {
		b.WriteString(fmt.Sprintf("• <b>%s</b>: %s %s, %d month(s), cron <code>%s</code>\n",
			html.EscapeString(w.Name), html.EscapeString(w.Symbol), w.Timeframe, w.Timerange, html.EscapeString(w.Cron)))
		b.WriteString(fmt.Sprintf("  detectors: %s | confluence %d/%d\n",
			strings.Join(w.Analysis.Enabled(), ", "), w.Analysis.Confluence.Buy, w.Analysis.Confluence.Sell))
	}
	return b.String()
}

// FormatRun summarises a recorded run, relative to now.
func FormatRun(run *recorder.Run, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🕒 <b>%s</b> | %s %s\n", html.EscapeString(run.Watch), html.EscapeString(run.Symbol), run.Timeframe))
	b.WriteString(fmt.Sprintf("Ran %s, took %s\n", humanize.RelTime(run.StartedAt, now, "ago", "from now"), run.Duration.Round(time.Millisecond)))

	if run.Err != "" {
		b.WriteString(fmt.Sprintf("❌ %s\n", html.EscapeString(run.Err)))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Candles: %s\n", humanize.Comma(int64(run.Candles))))
	if r := run.Report; r != nil {
		b.WriteString(fmt.Sprintf("Signals: %d buy, %d sell\n", len(r.Buy), len(r.Sell)))
		b.WriteString(fmt.Sprintf("Hit rate: buy %.2f%%, sell %.2f%%\n", r.BuyEval.Assertiveness, r.SellEval.Assertiveness))
		if in := r.Insights; in != nil {
			b.WriteString(fmt.Sprintf("Point of control: %s\n", price(in.PointOfControl)))
		}
	}
	return b.String()
}

// FormatFailure reports a failed run.
func FormatFailure(w model.Watch, err error) string {
	return fmt.Sprintf("⚠️ <b>%s</b> failed: %s", html.EscapeString(w.Name), html.EscapeString(err.Error()))
}
