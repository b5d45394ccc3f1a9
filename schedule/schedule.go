// Package schedule runs jobs on cron expressions. The workflow runner itself
// is single-shot; embedding applications use a Scheduler to re-run a
// workflow periodically.
package schedule

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler registers cron jobs by ID. Zero concurrency control is applied
// to the jobs themselves; a job re-running a workflow should give each run
// its own Ctx.
type Scheduler struct {
	cron *cron.Cron

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// New creates a stopped Scheduler; call Start to begin dispatching.
func New() *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		entries: make(map[string]cron.EntryID),
	}
}

// Add registers job under id to run on the cron expression expr. Both
// 6-field (with seconds) and standard 5-field expressions are accepted.
// Adding an id again replaces the previous entry.
func (s *Scheduler) Add(id, expr string, job func()) error {
	sched, err := parseCronExpr(expr)
	if err != nil {
		return fmt.Errorf("parse cron expression %q: %w", expr, err)
	}

	entryID := s.cron.Schedule(sched, cron.FuncJob(job))

	s.mu.Lock()
	if old, ok := s.entries[id]; ok {
		s.cron.Remove(old)
	}
	s.entries[id] = entryID
	s.mu.Unlock()

	slog.Info("scheduler: registered cron job", "id", id, "cron", expr)
	return nil
}

// Remove unregisters the job under id, if any.
func (s *Scheduler) Remove(id string) {
	s.mu.Lock()
	entryID, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()
	if ok {
		s.cron.Remove(entryID)
		slog.Info("scheduler: removed cron job", "id", id)
	}
}

// Start begins dispatching jobs in their own goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops dispatching. Jobs already running are not interrupted.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// parseCronExpr tries 6-field (with seconds) then 5-field (standard) parsing.
func parseCronExpr(expr string) (cron.Schedule, error) {
	parser6 := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if sched, err := parser6.Parse(expr); err == nil {
		return sched, nil
	}
	parser5 := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser5.Parse(expr)
}
