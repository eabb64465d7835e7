package logbook

import (
	"fmt"
	"testing"
	"time"

	"TradeConsole/internal/model"
)

type captureRenderer struct {
	calls   int
	entries []model.LogEntry
	filter  string
}

func (c *captureRenderer) RenderLogs(entries []model.LogEntry, filter string) {
	c.calls++
	c.entries = entries
	c.filter = filter
}

type captureSink struct{ got []model.LogEntry }

func (c *captureSink) Consume(e model.LogEntry) { c.got = append(c.got, e) }

func TestRecord_NewestFirst(t *testing.T) {
	b := New(nil)
	b.now = func() time.Time { return time.Date(2024, 1, 1, 9, 5, 7, 0, time.UTC) }

	b.Record("first", model.LogSystem)
	e := b.Record("second", model.LogTrade)

	if e.Time != "09:05:07" {
		t.Errorf("expected time 09:05:07, got %s", e.Time)
	}
	got := b.Entries()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Text != "second" || got[1].Text != "first" {
		t.Errorf("expected newest first, got %q then %q", got[0].Text, got[1].Text)
	}
}

func TestRecord_BoundedEviction(t *testing.T) {
	b := New(nil)
	for i := 0; i < Capacity+25; i++ {
		b.Record(fmt.Sprintf("msg %d", i), model.LogSystem)
		if b.Len() > Capacity {
			t.Fatalf("buffer grew to %d", b.Len())
		}
	}
	got := b.Entries()
	if len(got) != Capacity {
		t.Fatalf("expected %d entries, got %d", Capacity, len(got))
	}
	if got[0].Text != fmt.Sprintf("msg %d", Capacity+24) {
		t.Errorf("unexpected head %q", got[0].Text)
	}
	if got[Capacity-1].Text != "msg 25" {
		t.Errorf("expected oldest surviving entry msg 25, got %q", got[Capacity-1].Text)
	}
	for i := 1; i < len(got); i++ {
		var prev, cur int
		fmt.Sscanf(got[i-1].Text, "msg %d", &prev)
		fmt.Sscanf(got[i].Text, "msg %d", &cur)
		if prev != cur+1 {
			t.Fatalf("order broken at %d: %q after %q", i, got[i].Text, got[i-1].Text)
		}
	}
}

func TestRecord_SignalsRendererAndSinks(t *testing.T) {
	b := New(nil)
	r := &captureRenderer{}
	s := &captureSink{}
	b.SetRenderer(r)
	b.AddSink(s)

	b.Record("hello", model.LogAnalysis)

	if r.calls != 1 || r.filter != model.FilterAll || len(r.entries) != 1 {
		t.Errorf("unexpected render: calls=%d filter=%q entries=%d", r.calls, r.filter, len(r.entries))
	}
	if len(s.got) != 1 || s.got[0].Text != "hello" {
		t.Errorf("sink did not receive entry: %+v", s.got)
	}
}

func TestSetFilter(t *testing.T) {
	b := New(nil)
	r := &captureRenderer{}
	b.SetRenderer(r)
	b.Record("a", model.LogSystem)
	b.Record("b", model.LogError)
	b.Record("c", model.LogError)

	if err := b.SetFilter("error"); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if len(r.entries) != 2 || r.filter != "error" {
		t.Errorf("expected 2 error entries rendered, got %d with filter %q", len(r.entries), r.filter)
	}
	if len(b.Filtered()) != 2 {
		t.Errorf("Filtered: expected 2, got %d", len(b.Filtered()))
	}
	if len(b.Entries()) != 3 {
		t.Errorf("filter must not drop entries")
	}

	if err := b.SetFilter("bogus"); err == nil {
		t.Error("expected error for unknown filter")
	}
	if b.Filter() != "error" {
		t.Errorf("rejected filter changed state to %q", b.Filter())
	}
}

func TestClear(t *testing.T) {
	b := New(nil)
	b.Record("a", model.LogSystem)
	b.Record("b", model.LogTrade)
	b.Clear()

	got := b.Entries()
	if len(got) != 1 || got[0].Text != "Logs cleared" || got[0].Type != model.LogSystem {
		t.Errorf("unexpected entries after clear: %+v", got)
	}
}
