package notifier

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"TradeConsole/internal/model"
	"TradeConsole/internal/session"
)

// FormatStatus summarises the session for a chat reply.
func FormatStatus(snap session.Snapshot) string {
	var b strings.Builder
	state := "⏸ idle"
	if snap.WorkflowActive {
		state = "▶️ running"
	}
	b.WriteString(fmt.Sprintf("📊 <b>TradeConsole</b> | %s\n\n", state))
	b.WriteString(fmt.Sprintf("Exchange: %s\n", snap.SelectedExchange))
	b.WriteString(fmt.Sprintf("Total balance: $%s\n", humanize.CommafWithDigits(snap.Market.TotalBalance, 2)))
	b.WriteString(fmt.Sprintf("Profit/Loss: %s$%s\n", sign(snap.Market.ProfitLoss), humanize.CommafWithDigits(math.Abs(snap.Market.ProfitLoss), 2)))
	b.WriteString(fmt.Sprintf("Active bots: %d\n", len(snap.Bots)))
	b.WriteString(fmt.Sprintf("Target coins: %d\n", len(snap.Market.Coins)))

	if len(snap.Market.Coins) > 0 {
		b.WriteString("\n")
		for i, c := range snap.Market.Coins {
			if i == 5 {
				b.WriteString(fmt.Sprintf("… and %d more\n", len(snap.Market.Coins)-5))
				break
			}
			b.WriteString(fmt.Sprintf("  %s $%s (%+.2f%%)\n", c.Symbol, humanize.CommafWithDigits(c.Price, 2), c.Trend))
		}
	}
	if !snap.LastAnalysis.IsZero() {
		b.WriteString(fmt.Sprintf("\nLast analysis: %s\n", humanize.Time(snap.LastAnalysis)))
	}
	return b.String()
}

// FormatFunds formats the funding configuration.
func FormatFunds(cfg model.FundingConfig) string {
	var b strings.Builder
	b.WriteString("📦 <b>Funding</b>\n\n")
	b.WriteString(fmt.Sprintf("Available: $%s\n", humanize.CommafWithDigits(cfg.AvailableFunds, 2)))
	b.WriteString(fmt.Sprintf("Max per trade: $%s\n", humanize.CommafWithDigits(cfg.MaxPerTrade, 2)))
	b.WriteString(fmt.Sprintf("Risk level: %s\n", cfg.RiskLevel))
	return b.String()
}

// FormatLogs formats the newest n entries, newest first.
func FormatLogs(entries []model.LogEntry, n int) string {
	if len(entries) == 0 {
		return "No log entries."
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = FormatLogEntry(e)
	}
	return strings.Join(lines, "\n")
}

func sign(v float64) string {
	if v < 0 {
		return "-"
	}
	return "+"
}
