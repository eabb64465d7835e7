package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"TradeConsole/internal/model"
	"TradeConsole/internal/session"
)

func TestSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottoken/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "", nil)
	n.APIURL = srv.URL
	if err := n.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "hi" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestSend_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "", nil)
	n.APIURL = srv.URL
	if err := n.Send(context.Background(), "hi"); err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected 401 error, got %v", err)
	}
}

func TestPolling_DispatchesCommands(t *testing.T) {
	var mu sync.Mutex
	var replies []string
	served := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if served {
				w.Write([]byte(`{"ok":true,"result":[]}`))
				return
			}
			served = true
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":1,"message":{"text":"/status","chat":{"id":42}}},
				{"update_id":2,"message":{"text":"/stop","chat":{"id":7}}}
			]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p map[string]string
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &p)
			replies = append(replies, p["text"])
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "", nil)
	n.APIURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	var handled []string
	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(cmd string) string {
			handled = append(handled, cmd)
			return "ok " + cmd
		})
		close(done)
	}()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		ready := len(replies) > 0
		mu.Unlock()
		if ready {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	<-done

	if len(handled) != 1 || handled[0] != "/status" {
		t.Errorf("expected only the configured chat's command, got %v", handled)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(replies) != 1 || replies[0] != "ok /status" {
		t.Errorf("unexpected replies %v", replies)
	}
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) Send(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestForwarder(t *testing.T) {
	sender := &fakeSender{}
	paired := false
	f := NewForwarder(sender, func() bool { return paired }, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx)

	f.Consume(model.LogEntry{Text: "before pairing", Type: model.LogTrade})
	paired = true
	f.Consume(model.LogEntry{Text: "analysis", Type: model.LogAnalysis})
	f.Consume(model.LogEntry{Time: "12:00:00", Text: "BOT #1: BUY <x>", Type: model.LogTrade})
	f.Consume(model.LogEntry{Text: "ERROR: boom", Type: model.LogError})

	deadline := time.Now().Add(2 * time.Second)
	for sender.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 forwarded entries, got %v", sender.sent)
	}
	if !strings.Contains(sender.sent[0], "BOT #1: BUY &lt;x&gt;") || !strings.Contains(sender.sent[0], "12:00:00") {
		t.Errorf("unexpected forwarded text %q", sender.sent[0])
	}
}

func TestFormatters(t *testing.T) {
	snap := session.Snapshot{
		SelectedExchange: "coinbase",
		WorkflowActive:   true,
		Market: model.MarketData{
			TotalBalance: 12345.5,
			ProfitLoss:   -20,
			Coins:        []model.Coin{{Symbol: "BTC", Price: 30000, Trend: 1.5}},
		},
		Bots: []model.Bot{{ID: 1}},
	}
	status := FormatStatus(snap)
	for _, want := range []string{"running", "$12,345.5", "-$20", "Active bots: 1", "BTC $30,000 (+1.50%)"} {
		if !strings.Contains(status, want) {
			t.Errorf("status missing %q:\n%s", want, status)
		}
	}

	funds := FormatFunds(model.FundingConfig{AvailableFunds: 1500, MaxPerTrade: 100, RiskLevel: model.RiskHigh})
	if !strings.Contains(funds, "$1,500") || !strings.Contains(funds, "high") {
		t.Errorf("unexpected funds text %q", funds)
	}

	entries := []model.LogEntry{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	if got := FormatLogs(entries, 2); strings.Count(got, "\n") != 1 || strings.Contains(got, " c") {
		t.Errorf("expected the two newest entries, got %q", got)
	}
	if FormatLogs(nil, 5) != "No log entries." {
		t.Error("unexpected empty log text")
	}
}
