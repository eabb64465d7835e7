package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"TradeConsole/internal/model"
	"TradeConsole/internal/session"
)

// Passes is the work the scheduler drives.
type Passes interface {
	RunAnalysisPass()
	RunChartPass()
	Wait()
}

// Scheduler owns the two repeating timers of the automated workflow. It is
// either Idle (no entries) or Running (both entries registered).
type Scheduler struct {
	Cron   *cron.Cron
	State  *session.State
	Passes Passes

	analysisEvery time.Duration
	chartEvery    time.Duration
	logger        *zap.Logger

	mu         sync.Mutex
	analysisID cron.EntryID
	chartID    cron.EntryID
}

// NewScheduler creates an idle scheduler. A pass still running when its next
// tick fires is not started twice.
func NewScheduler(st *session.State, passes Passes, analysisEvery, chartEvery time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:          cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		State:         st,
		Passes:        passes,
		analysisEvery: analysisEvery,
		chartEvery:    chartEvery,
		logger:        logger.Named("scheduler"),
	}
}

// Run starts the cron engine. Entries are only added by Start.
func (s *Scheduler) Run() {
	s.Cron.Start()
	s.logger.Info("scheduler started",
		zap.Duration("analysis_every", s.analysisEvery),
		zap.Duration("chart_every", s.chartEvery))
}

// Running reports whether the workflow timers are registered.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running()
}

func (s *Scheduler) running() bool {
	return s.analysisID != 0
}

// Start activates the workflow: one analysis pass right away, then both
// timers. It does nothing when already running.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running() {
		return nil
	}

	s.State.Log.Record("Starting automated trading workflow", model.LogSystem)
	s.setActive(true)
	s.Passes.RunAnalysisPass()

	aid, err := s.Cron.AddFunc(every(s.analysisEvery), s.Passes.RunAnalysisPass)
	if err != nil {
		s.setActive(false)
		return fmt.Errorf("register analysis pass: %w", err)
	}
	cid, err := s.Cron.AddFunc(every(s.chartEvery), s.Passes.RunChartPass)
	if err != nil {
		s.Cron.Remove(aid)
		s.setActive(false)
		return fmt.Errorf("register chart pass: %w", err)
	}
	s.analysisID, s.chartID = aid, cid
	s.logger.Info("workflow started")
	return nil
}

// Stop cancels both timers. It does nothing when idle. A bot trade already
// in flight is left to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running() {
		return
	}

	s.State.Log.Record("Stopping automated trading workflow", model.LogSystem)
	s.Cron.Remove(s.analysisID)
	s.Cron.Remove(s.chartID)
	s.analysisID, s.chartID = 0, 0
	s.setActive(false)
	s.logger.Info("workflow stopped")
}

// Shutdown stops the workflow and the cron engine, then waits for running
// passes and bot trades.
func (s *Scheduler) Shutdown() {
	s.Stop()
	<-s.Cron.Stop().Done()
	s.Passes.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) setActive(active bool) {
	s.State.Mutate(func(d *session.Data) { d.WorkflowActive = active })
	s.State.Render(session.ViewConnection, session.ViewDashboard)
}

func every(d time.Duration) string {
	return "@every " + d.String()
}
