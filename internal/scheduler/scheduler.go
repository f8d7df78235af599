// Package scheduler drives the daily fetch cycle: one unconditional primary
// run after the day-ahead auction publishes, followed by conditional retries
// that only fire while tomorrow's prices are still incomplete.
package scheduler

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"gridwatch/internal/fetcher"
	"gridwatch/internal/metrics"
)

// Runner is the subset of the fetch orchestrator the scheduler drives.
type Runner interface {
	FetchAllPrices(ctx context.Context) (fetcher.Summary, error)
	FetchTomorrowIfMissing(ctx context.Context) (fetcher.Summary, bool, error)
}

// Config holds the schedule. Times are wall-clock HH:MM in Timezone, so the
// jobs track the market's clock across DST transitions.
type Config struct {
	Enabled     bool
	Timezone    string
	PrimaryTime string
	RetryTimes  []string
}

// Scheduler runs the fetch jobs on their configured wall-clock times.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	cfg    Config
	log    *logrus.Entry
}

var timeOfDayRe = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// cronSpec converts a wall-clock HH:MM into a daily five-field cron spec.
func cronSpec(timeOfDay string) (string, error) {
	m := timeOfDayRe.FindStringSubmatch(timeOfDay)
	if m == nil {
		return "", fmt.Errorf("invalid time of day %q, expected HH:MM", timeOfDay)
	}
	return fmt.Sprintf("%s %s * * *", m[2], m[1]), nil
}

// New creates a scheduler for the given runner. Jobs are registered
// immediately; nothing fires until Start.
func New(runner Runner, cfg Config) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Timezone, err)
	}

	log := logrus.WithField("component", "scheduler")
	cronLog := cronLogger{log: log}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		runner: runner,
		cfg:    cfg,
		log:    log,
	}

	spec, err := cronSpec(cfg.PrimaryTime)
	if err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(spec, s.runPrimary); err != nil {
		return nil, fmt.Errorf("failed to schedule primary fetch: %w", err)
	}

	for _, retryTime := range cfg.RetryTimes {
		spec, err := cronSpec(retryTime)
		if err != nil {
			return nil, err
		}
		if _, err := s.cron.AddFunc(spec, s.runRetry); err != nil {
			return nil, fmt.Errorf("failed to schedule retry fetch: %w", err)
		}
	}

	return s, nil
}

// Start begins firing jobs and blocks until the context is cancelled, then
// waits for any running job to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.WithFields(logrus.Fields{
		"timezone": s.cfg.Timezone,
		"primary":  s.cfg.PrimaryTime,
		"retries":  s.cfg.RetryTimes,
	}).Info("Starting scheduler")

	s.cron.Start()
	<-ctx.Done()

	s.log.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runPrimary() {
	start := time.Now()
	s.log.Info("Running primary daily fetch")

	summary, err := s.runner.FetchAllPrices(context.Background())
	metrics.RecordSchedulerJobDuration("primary", time.Since(start))
	if err != nil {
		metrics.RecordSchedulerJob("primary", "error")
		s.log.WithError(err).Error("Primary fetch failed")
		return
	}

	metrics.RecordSchedulerJob("primary", "success")
	s.log.WithFields(logrus.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"no_data":   summary.NoData,
		"stored":    summary.PricesStored,
	}).Info("Primary fetch completed")
}

func (s *Scheduler) runRetry() {
	start := time.Now()
	s.log.Info("Running conditional retry fetch")

	summary, skipped, err := s.runner.FetchTomorrowIfMissing(context.Background())
	metrics.RecordSchedulerJobDuration("retry", time.Since(start))
	switch {
	case err != nil:
		metrics.RecordSchedulerJob("retry", "error")
		s.log.WithError(err).Error("Retry fetch failed")
	case skipped:
		metrics.RecordSchedulerJob("retry", "skipped")
		s.log.Info("Retry fetch skipped, data already complete")
	default:
		metrics.RecordSchedulerJob("retry", "success")
		s.log.WithFields(logrus.Fields{
			"succeeded": summary.Succeeded,
			"failed":    summary.Failed,
			"stored":    summary.PricesStored,
		}).Info("Retry fetch completed")
	}
}

// NextRuns returns the upcoming fire times, soonest first.
func (s *Scheduler) NextRuns() []time.Time {
	entries := s.cron.Entries()
	times := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		times = append(times, e.Next)
	}
	return times
}

// cronLogger adapts logrus to the cron logging interface.
type cronLogger struct {
	log *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithField("cron", keysAndValues).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithError(err).WithField("cron", keysAndValues).Error(msg)
}
