package scheduler

import (
	"sync"
	"testing"
	"time"

	"TradeConsole/internal/funding"
	"TradeConsole/internal/logbook"
	"TradeConsole/internal/model"
	"TradeConsole/internal/random"
	"TradeConsole/internal/session"
)

type countingPasses struct {
	mu       sync.Mutex
	analysis int
	chart    int
}

func (c *countingPasses) RunAnalysisPass() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.analysis++
}

func (c *countingPasses) RunChartPass() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chart++
}

func (c *countingPasses) Wait() {}

func (c *countingPasses) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analysis, c.chart
}

func newTestScheduler(passes Passes) *Scheduler {
	st := session.New(logbook.New(nil), funding.NewManager(nil), nil, random.New(1))
	return NewScheduler(st, passes, 30*time.Second, 5*time.Second, nil)
}

func countText(entries []model.LogEntry, text string) int {
	n := 0
	for _, e := range entries {
		if e.Text == text {
			n++
		}
	}
	return n
}

func TestStart_RunsOnePassAndRegistersTimers(t *testing.T) {
	passes := &countingPasses{}
	s := newTestScheduler(passes)

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if a, _ := passes.counts(); a != 1 {
		t.Errorf("expected one immediate analysis pass, got %d", a)
	}
	if !s.Running() {
		t.Error("expected running")
	}
	if got := len(s.Cron.Entries()); got != 2 {
		t.Errorf("expected 2 cron entries, got %d", got)
	}
	if !s.State.Snapshot().WorkflowActive {
		t.Error("expected workflow flag set")
	}

	// second start is a no-op
	if err := s.Start(); err != nil {
		t.Fatalf("start again: %v", err)
	}
	if a, _ := passes.counts(); a != 1 {
		t.Errorf("second start ran another pass")
	}
	if n := countText(s.State.Log.Entries(), "Starting automated trading workflow"); n != 1 {
		t.Errorf("expected one start entry, got %d", n)
	}
}

func TestStop_Idempotent(t *testing.T) {
	s := newTestScheduler(&countingPasses{})
	s.Stop()
	if s.State.Log.Len() != 0 {
		t.Error("stop while idle should not log")
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
	s.Stop()

	if s.Running() {
		t.Error("expected idle after stop")
	}
	if got := len(s.Cron.Entries()); got != 0 {
		t.Errorf("expected no cron entries, got %d", got)
	}
	if s.State.Snapshot().WorkflowActive {
		t.Error("expected workflow flag cleared")
	}
	if n := countText(s.State.Log.Entries(), "Stopping automated trading workflow"); n != 1 {
		t.Errorf("expected one stop entry, got %d", n)
	}
}

func TestTimersFire(t *testing.T) {
	passes := &countingPasses{}
	st := session.New(logbook.New(nil), funding.NewManager(nil), nil, random.New(1))
	s := NewScheduler(st, passes, time.Second, time.Second, nil)
	s.Run()
	defer s.Shutdown()

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, c := passes.counts(); c > 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Error("chart pass never fired")
}
