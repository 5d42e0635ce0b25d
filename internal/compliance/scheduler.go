package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler fires a job once a week at a fixed local wall-clock time.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	spec     string
	loc      *time.Location
	job      func(context.Context)
	jobCtx   context.Context
	logger   *slog.Logger
}

// WeeklySpec is the standard five-field cron expression for the given
// weekday (0 = Sunday), hour and minute.
func WeeklySpec(weekday time.Weekday, hour, minute int) string {
	return fmt.Sprintf("%d %d * * %d", minute, hour, int(weekday))
}

func NewScheduler(weekday time.Weekday, hour, minute int, loc *time.Location, job func(context.Context), logger *slog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}

	spec := WeeklySpec(weekday, hour, minute)
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}

	cl := cronLogger{logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		schedule: schedule,
		spec:     spec,
		loc:      loc,
		job:      job,
		jobCtx:   context.Background(),
		logger:   logger,
	}
	s.cron.Schedule(schedule, cron.FuncJob(s.fire))
	return s, nil
}

func (s *Scheduler) Spec() string {
	return s.spec
}

// NextRun returns the first scheduled instant strictly after t.
func (s *Scheduler) NextRun(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.loc))
}

// Start begins firing in the background. ctx is handed to every job run.
func (s *Scheduler) Start(ctx context.Context) {
	s.jobCtx = ctx
	s.cron.Start()
	s.logger.Info("compliance reminders scheduled", "spec", s.spec, "next_run", s.NextRun(time.Now()))
}

// Stop prevents further runs. The returned context is done once a run in
// progress has finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("scheduler shutting down")
	return s.cron.Stop()
}

func (s *Scheduler) fire() {
	s.logger.Info("running scheduled compliance reminders")
	s.job(s.jobCtx)
}

// cronLogger routes cron's own logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
