package console

import (
	"context"
	"strconv"
	"strings"

	"TradeConsole/internal/notifier"
)

const helpText = `Commands:
/start - start the automated workflow
/stop - stop it
/status - balances, bots and coins
/funds - funding limits
/logs [n] - newest log entries
/load - refresh market data
/analyze SYMBOL - analyze one coin
/filter TYPE - set the log filter
/pair CODE - connect this chat`

// HandleCommand answers a chat command. Until the chat is paired only
// pairing is accepted; "/start CODE" pairs as well.
func (s *Service) HandleCommand(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}

	if cmd == "/pair" || (cmd == "/start" && len(args) == 1) {
		if len(args) != 1 {
			return "Usage: /pair CODE"
		}
		if s.PairTelegram(args[0]) {
			return "✅ Connected to TradeConsole"
		}
		return "❌ Invalid activation code"
	}
	if !s.State.Snapshot().TelegramConnected {
		return "Send /pair followed by the activation code shown in the console."
	}

	switch cmd {
	case "/start":
		if err := s.StartWorkflow(); err != nil {
			return "❌ " + err.Error()
		}
		return "▶️ Workflow running"
	case "/stop":
		s.StopWorkflow()
		return "⏸ Workflow stopped"
	case "/status":
		return notifier.FormatStatus(s.Snapshot())
	case "/funds":
		return notifier.FormatFunds(s.State.Funds.GetState())
	case "/logs":
		n := 10
		if len(args) == 1 {
			if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
				n = v
			}
		}
		return notifier.FormatLogs(s.State.Log.Filtered(), n)
	case "/load":
		if s.LoadMarketData(ctx) {
			return "Market data refreshed"
		}
		return "❌ Market data refresh failed, see /logs"
	case "/analyze":
		if len(args) != 1 {
			return "Usage: /analyze SYMBOL"
		}
		s.AnalyzeCoin(args[0])
		return notifier.FormatLogs(s.State.Log.Entries(), 1)
	case "/filter":
		if len(args) != 1 {
			return "Usage: /filter all|system|analysis|trade|error|warning"
		}
		if err := s.SetLogFilter(args[0]); err != nil {
			return "❌ " + err.Error()
		}
		return "Log filter set to " + args[0]
	default:
		return helpText
	}
}
