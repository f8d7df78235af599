// Package fetcher orchestrates multi-zone price fetches: fan-out under a
// bounded worker pool, partial-failure aggregation, idempotent persistence
// and fetch-log records.
package fetcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"gridwatch/internal/entsoe"
	"gridwatch/internal/metrics"
	"gridwatch/internal/models"
	"gridwatch/internal/repository"
)

// ErrRunInProgress is returned when a trigger fires while another run holds
// the run lock. Runs for the same day are serialized, never queued.
var ErrRunInProgress = errors.New("a fetch run is already in progress")

const defaultWorkers = 10

// ZoneFetcher is the single-zone fetch contract. Satisfied by entsoe.Client.
type ZoneFetcher interface {
	FetchZoneDate(ctx context.Context, zone models.BiddingZone, date time.Time) entsoe.Outcome
}

// Summary tallies the per-zone outcomes of one orchestrated run.
type Summary struct {
	Succeeded    int
	NoData       int
	Failed       int
	PricesStored int
	// Degraded is set when collected prices could not be persisted. The zone
	// tallies are kept; the run is recorded as degraded rather than rolled
	// back.
	Degraded   bool
	ZoneErrors []models.ZoneError
}

// Merge folds another summary into this one.
func (s *Summary) Merge(other Summary) {
	s.Succeeded += other.Succeeded
	s.NoData += other.NoData
	s.Failed += other.Failed
	s.PricesStored += other.PricesStored
	s.Degraded = s.Degraded || other.Degraded
	s.ZoneErrors = append(s.ZoneErrors, other.ZoneErrors...)
}

func (s *Summary) attempted() int {
	return s.Succeeded + s.NoData + s.Failed
}

func (s *Summary) status() models.FetchStatus {
	switch {
	case s.Degraded:
		return models.FetchStatusDegraded
	case s.Failed > 0:
		return models.FetchStatusError
	case s.Succeeded == 0 && s.NoData > 0:
		return models.FetchStatusNoData
	default:
		return models.FetchStatusSuccess
	}
}

// BackfillSummary reports the result of a gap backfill over a date range.
type BackfillSummary struct {
	DatesChecked  int
	DatesWithGaps int
	PricesFetched int
	PricesStored  int
	Errors        []string
}

// Service is the fetch orchestrator.
type Service struct {
	client  ZoneFetcher
	prices  repository.PriceRepository
	zones   repository.ZoneRepository
	logs    repository.FetchLogRepository
	workers int
	runMu   sync.Mutex
	log     *logrus.Entry
}

// NewService creates a fetch orchestrator with the given worker pool width.
func NewService(client ZoneFetcher, prices repository.PriceRepository, zones repository.ZoneRepository, logs repository.FetchLogRepository, workers int) *Service {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Service{
		client:  client,
		prices:  prices,
		zones:   zones,
		logs:    logs,
		workers: workers,
		log:     logrus.WithField("component", "fetcher"),
	}
}

// fetchZones fans one date-fetch out across the given zones under the worker
// pool and merges all successful points into a single upsert. One zone's
// failure never aborts or delays collection of the others.
func (s *Service) fetchZones(ctx context.Context, zones []models.BiddingZone, date time.Time) Summary {
	jobs := make(chan models.BiddingZone)
	outcomes := make(chan entsoe.Outcome, len(zones))

	workers := s.workers
	if workers > len(zones) {
		workers = len(zones)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for zone := range jobs {
				outcomes <- s.client.FetchZoneDate(ctx, zone, date)
			}
		}()
	}

	for _, zone := range zones {
		jobs <- zone
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	var summary Summary
	var allPoints []models.PricePoint

	for outcome := range outcomes {
		switch outcome.Status {
		case entsoe.StatusSuccess:
			summary.Succeeded++
			allPoints = append(allPoints, outcome.Points...)
		case entsoe.StatusNoData:
			summary.NoData++
		default:
			summary.Failed++
			summary.ZoneErrors = append(summary.ZoneErrors, models.ZoneError{
				ZoneCode: outcome.Zone.ZoneCode,
				Error:    outcome.Err.Error(),
			})
		}
	}

	if len(allPoints) > 0 {
		stored, err := s.prices.UpsertBatch(ctx, allPoints)
		if err != nil {
			// Already-collected prices are not discarded silently: the run
			// is marked degraded and the failure logged.
			summary.Degraded = true
			s.log.WithError(err).WithField("count", len(allPoints)).Error("Failed to persist fetched prices")
		} else {
			summary.PricesStored = stored
		}
	}

	s.log.WithFields(logrus.Fields{
		"date":      date.Format("2006-01-02"),
		"succeeded": summary.Succeeded,
		"no_data":   summary.NoData,
		"failed":    summary.Failed,
		"stored":    summary.PricesStored,
	}).Info("Completed fetch for date")

	return summary
}

// FetchDateAllZones fetches one date for every active zone.
func (s *Service) FetchDateAllZones(ctx context.Context, date time.Time) (Summary, error) {
	zones, err := s.zones.ListActive(ctx)
	if err != nil {
		return Summary{}, err
	}
	s.log.WithField("zone_count", len(zones)).Info("Loaded active zones for fetching")
	return s.fetchZones(ctx, zones, date), nil
}

// FetchAllPrices runs the unconditional primary fetch: today and tomorrow,
// merged into one fetch-log record.
func (s *Service) FetchAllPrices(ctx context.Context) (Summary, error) {
	if !s.runMu.TryLock() {
		s.log.Warn("Skipping fetch, previous run still in flight")
		return Summary{}, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	start := time.Now()
	today := start.UTC().Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)

	attempt := &models.FetchAttempt{TargetDate: tomorrow}
	if err := s.logs.Create(ctx, attempt); err != nil {
		return Summary{}, err
	}

	var combined Summary
	for _, date := range []time.Time{today, tomorrow} {
		summary, err := s.FetchDateAllZones(ctx, date)
		if err != nil {
			s.log.WithError(err).WithField("date", date.Format("2006-01-02")).Error("Date fetch failed")
			combined.Degraded = true
			continue
		}
		combined.Merge(summary)
	}

	s.completeAttempt(ctx, attempt, combined, start)
	return combined, nil
}

// FetchTomorrowIfMissing is the conditional retry entry: it skips when every
// active zone already has tomorrow's prices, and otherwise re-fetches only
// the zones that are missing data.
func (s *Service) FetchTomorrowIfMissing(ctx context.Context) (Summary, bool, error) {
	if !s.runMu.TryLock() {
		s.log.Warn("Skipping conditional fetch, previous run still in flight")
		return Summary{}, true, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	start := time.Now()
	tomorrow := start.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)

	zones, err := s.zones.ListActive(ctx)
	if err != nil {
		return Summary{}, false, err
	}

	missing, err := s.prices.MissingZones(ctx, tomorrow, zones)
	if err != nil {
		return Summary{}, false, err
	}
	metrics.SetZonesWithTomorrowData(len(zones) - len(missing))

	if len(missing) == 0 {
		s.log.Info("Tomorrow's prices already complete for all zones, skipping fetch")
		return Summary{}, true, nil
	}

	s.log.WithField("zone_count", len(missing)).Info("Zones missing tomorrow's prices")

	attempt := &models.FetchAttempt{TargetDate: tomorrow}
	if err := s.logs.Create(ctx, attempt); err != nil {
		return Summary{}, false, err
	}

	summary := s.fetchZones(ctx, missing, tomorrow)
	s.completeAttempt(ctx, attempt, summary, start)
	return summary, false, nil
}

// BackfillMissing finds gaps in the stored range and re-fetches the affected
// zone/date pairs.
func (s *Service) BackfillMissing(ctx context.Context, startDate, endDate time.Time, zoneFilter []string) (BackfillSummary, error) {
	zones, err := s.zones.ListActive(ctx)
	if err != nil {
		return BackfillSummary{}, err
	}

	zoneMap := make(map[string]models.BiddingZone, len(zones))
	for _, zone := range zones {
		zoneMap[zone.ZoneCode] = zone
	}

	zoneCodes := make([]string, 0, len(zones))
	if len(zoneFilter) > 0 {
		for _, code := range zoneFilter {
			if _, ok := zoneMap[code]; ok {
				zoneCodes = append(zoneCodes, code)
			}
		}
	} else {
		for _, zone := range zones {
			zoneCodes = append(zoneCodes, zone.ZoneCode)
		}
	}
	if len(zoneCodes) == 0 {
		return BackfillSummary{}, errors.New("no valid zones to backfill")
	}

	summary := BackfillSummary{
		DatesChecked: int(endDate.Sub(startDate).Hours()/24) + 1,
	}

	gaps, err := s.prices.FindGaps(ctx, startDate, endDate, zoneCodes)
	if err != nil {
		return BackfillSummary{}, err
	}
	if len(gaps) == 0 {
		s.log.Info("No gaps found in date range")
		return summary, nil
	}

	gapDates := make(map[time.Time]struct{})
	var allPoints []models.PricePoint

	for _, gap := range gaps {
		gapDates[gap.Date] = struct{}{}
		zone := zoneMap[gap.ZoneCode]

		outcome := s.client.FetchZoneDate(ctx, zone, gap.Date)
		switch outcome.Status {
		case entsoe.StatusSuccess:
			summary.PricesFetched += len(outcome.Points)
			allPoints = append(allPoints, outcome.Points...)
		case entsoe.StatusNoData:
			s.log.WithFields(logrus.Fields{
				"zone": gap.ZoneCode,
				"date": gap.Date.Format("2006-01-02"),
			}).Warn("No data available for backfill")
		default:
			summary.Errors = append(summary.Errors, gap.ZoneCode+" on "+gap.Date.Format("2006-01-02")+": "+outcome.Err.Error())
		}
	}
	summary.DatesWithGaps = len(gapDates)

	if len(allPoints) > 0 {
		stored, err := s.prices.UpsertBatch(ctx, allPoints)
		if err != nil {
			return summary, err
		}
		summary.PricesStored = stored
	}

	s.log.WithFields(logrus.Fields{
		"dates_checked":   summary.DatesChecked,
		"dates_with_gaps": summary.DatesWithGaps,
		"prices_stored":   summary.PricesStored,
		"errors":          len(summary.Errors),
	}).Info("Completed backfill")

	return summary, nil
}

// completeAttempt finalizes the run's fetch-log record. A logging failure is
// itself only logged; it never fails the run.
func (s *Service) completeAttempt(ctx context.Context, attempt *models.FetchAttempt, summary Summary, start time.Time) {
	durationMs := int(time.Since(start).Milliseconds())
	attempt.ZonesAttempted = summary.attempted()
	attempt.ZonesSucceeded = summary.Succeeded
	attempt.ZonesFailed = summary.Failed
	attempt.ZonesNoData = summary.NoData
	attempt.PricesStored = summary.PricesStored
	attempt.Status = summary.status()
	attempt.ZoneErrors = summary.ZoneErrors
	attempt.DurationMs = &durationMs

	if err := s.logs.Complete(ctx, attempt); err != nil {
		s.log.WithError(err).WithField("fetch_id", attempt.ID).Error("Failed to complete fetch log")
	}
}
