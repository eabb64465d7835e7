package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"TradeConsole/internal/chart"
	"TradeConsole/internal/model"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	// Layout:
	// ┌ header ─────────────────────────────────┐
	// │ coins              │ strategies / chart │
	// ├────────────────────┴────────────────────┤
	// │ logs                                    │
	// └─────────────────────────────────────────┘
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth
	topHeight := (m.height - 4) / 2
	logHeight := m.height - topHeight - 6

	header := m.renderHeader()
	coins := panel("Target Coins", m.renderCoins(topHeight), leftWidth, topHeight)
	right := panel("Strategies & Chart", m.renderStrategies()+"\n\n"+m.renderChart(rightWidth-6), rightWidth, topHeight)
	logs := panel("Logs ["+m.filter+"]", m.renderLogs(logHeight), m.width, logHeight)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, coins, right),
		logs,
		m.renderStatusBar(),
	)
}

func panel(title, body string, width, height int) string {
	return panelStyle.
		Width(max(width-2, 10)).
		Height(max(height, 3)).
		Render(titleStyle.Render(title) + "\n" + body)
}

func (m *Model) renderHeader() string {
	state := idleStyle.Render("⏸ IDLE")
	if m.snap.WorkflowActive {
		state = runningStyle.Render("▶ RUNNING")
	}
	pl := m.snap.Market.ProfitLoss
	plText := fmt.Sprintf("%s$%s", signOf(pl), humanize.CommafWithDigits(math.Abs(pl), 2))
	if pl < 0 {
		plText = downStyle.Render(plText)
	} else {
		plText = upStyle.Render(plText)
	}
	tg := mutedStyle.Render("telegram: code " + m.snap.ActivationCode)
	if m.snap.TelegramConnected {
		tg = upStyle.Render("telegram: paired")
	}
	header := fmt.Sprintf(" %s  %s  balance $%s  P/L %s  bots %d  funds $%s (max $%s)  %s",
		titleStyle.Render("TradeConsole"),
		state,
		humanize.CommafWithDigits(m.snap.Market.TotalBalance, 2),
		plText,
		len(m.snap.Bots),
		humanize.CommafWithDigits(m.snap.Funding.AvailableFunds, 2),
		humanize.CommafWithDigits(m.snap.Funding.MaxPerTrade, 2),
		tg,
	)
	sub := " exchange: " + m.snap.SelectedExchange
	if !m.snap.LastAnalysis.IsZero() {
		sub += "  last analysis " + humanize.Time(m.snap.LastAnalysis)
	}
	return header + "\n" + mutedStyle.Render(sub)
}

func (m *Model) renderCoins(height int) string {
	coins := m.snap.Market.Coins
	if len(coins) == 0 {
		return mutedStyle.Render("No coins loaded. Press l to load market data.")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-6s %14s %9s %12s", "Coin", "Price", "24h", "Volume")))
	for i, c := range coins {
		if i >= height-2 {
			b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("… %d more", len(coins)-i)))
			break
		}
		line := fmt.Sprintf("%-6s %14s %9s %12s",
			c.Symbol,
			"$"+humanize.CommafWithDigits(c.Price, 2),
			fmt.Sprintf("%+.2f%%", c.Trend),
			humanize.SIWithDigits(c.Volume, 1, ""),
		)
		style := rowStyle
		if i == m.cursor {
			style = selectedRowStyle
		}
		b.WriteString("\n")
		if c.Trend < 0 {
			b.WriteString(downStyle.Inherit(style).Render(line))
		} else {
			b.WriteString(upStyle.Inherit(style).Render(line))
		}
	}
	return b.String()
}

func (m *Model) renderStrategies() string {
	if len(m.snap.AppliedStrategies) == 0 {
		return mutedStyle.Render("No strategies applied yet.")
	}
	lines := make([]string, len(m.snap.AppliedStrategies))
	for i, a := range m.snap.AppliedStrategies {
		lines[i] = fmt.Sprintf("• %s → %s", a.Name, a.CoinSymbol)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderChart(width int) string {
	series := m.snap.Charts
	if len(series.Prices) == 0 {
		return mutedStyle.Render("No chart data yet.")
	}
	line := headerStyle.Render(series.Label) + " " + sparkline(series.Prices, width)
	last := series.Prices[len(series.Prices)-1]
	line += fmt.Sprintf("\n%s $%s", last.Label, humanize.CommafWithDigits(last.Value, 2))
	if ind := m.snap.Indicators; ind.Ready {
		line += mutedStyle.Render(fmt.Sprintf("  SMA %.2f  RSI %.1f  range %.0f%%", ind.SMA, ind.RSI, ind.Position*100))
	}
	if n := len(series.Activity); n > 0 {
		a := series.Activity[n-1]
		line += fmt.Sprintf("\n%s buys %s sells %s", a.Label, upStyle.Render(fmt.Sprint(a.Buy)), downStyle.Render(fmt.Sprint(a.Sell)))
	}
	return line
}

func sparkline(points []chart.PricePoint, width int) string {
	if width > 0 && len(points) > width {
		points = points[len(points)-width:]
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	var b strings.Builder
	for _, p := range points {
		idx := 0
		if hi > lo {
			idx = int((p.Value - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

func (m *Model) renderLogs(height int) string {
	if len(m.logs) == 0 {
		return mutedStyle.Render("No log entries.")
	}
	entries := m.logs
	if height > 1 && len(entries) > height-1 {
		entries = entries[:height-1]
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = logLine(e)
	}
	return strings.Join(lines, "\n")
}

func logLine(e model.LogEntry) string {
	style, ok := logStyles[string(e.Type)]
	if !ok {
		style = rowStyle
	}
	return mutedStyle.Render("["+e.Time+"]") + " " + style.Render(e.Text)
}

func (m *Model) renderStatusBar() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, b := range m.keys.help() {
		h := b.Help()
		parts = append(parts, statusKeyStyle.Render(h.Key)+statusDescStyle.Render(" "+h.Desc))
	}
	bar := strings.Join(parts, " │ ")
	if m.status != "" {
		bar += " │ " + m.status
	}
	return statusBarStyle.Width(m.width).Render(bar)
}

func signOf(v float64) string {
	if v < 0 {
		return "-"
	}
	return "+"
}
