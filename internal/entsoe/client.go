// Package entsoe implements the ENTSO-E transparency platform client: the
// outbound rate limiter, the market document parser and the retrying fetch
// client for day-ahead prices.
package entsoe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"gridwatch/internal/metrics"
	"gridwatch/internal/models"
)

const (
	// DefaultBaseURL is the transparency platform API endpoint.
	DefaultBaseURL = "https://web-api.tp.entsoe.eu/api"

	documentTypePrice   = "A44"
	processTypeDayAhead = "A01"
	periodFormat        = "200601021504"
)

// Config holds the tunables of the ENTSO-E client.
type Config struct {
	BaseURL            string
	SecurityToken      string
	RateLimitPerMinute int
	MaxInFlight        int
	RequestTimeout     time.Duration
	BackoffInitial     time.Duration
	BackoffMax         time.Duration
	BackoffMaxElapsed  time.Duration
}

// OutcomeStatus tags the result of one zone/date fetch.
type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "success"
	StatusNoData  OutcomeStatus = "nodata"
	StatusFailed  OutcomeStatus = "failed"
)

// Outcome is the per-zone result of a fetch. NoData is a first-class,
// expected outcome distinct from failure: it drives the scheduler's retry
// logic rather than signaling malfunction.
type Outcome struct {
	Zone   models.BiddingZone
	Status OutcomeStatus
	Points []models.PricePoint
	Err    error
}

// Client fetches day-ahead prices for a single zone and date, pacing all
// requests through a shared RateLimiter and retrying transient failures with
// exponential backoff.
type Client struct {
	httpClient *http.Client
	cfg        Config
	limiter    *RateLimiter
	log        *logrus.Entry
}

// NewClient creates an ENTSO-E client from config, applying defaults for
// unset fields.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 300
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 50
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = 5 * time.Second
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 60 * time.Second
	}
	if cfg.BackoffMaxElapsed <= 0 {
		cfg.BackoffMaxElapsed = 300 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:        cfg,
		limiter:    NewRateLimiter(cfg.RateLimitPerMinute, cfg.MaxInFlight),
		log:        logrus.WithField("component", "entsoe"),
	}
}

// FetchZoneDate fetches the day-ahead prices for the zone's local calendar
// date. Transient failures are retried with jittered exponential backoff
// bounded by the maximum elapsed budget; a no-data acknowledgement and
// permanent failures return immediately.
func (c *Client) FetchZoneDate(ctx context.Context, zone models.BiddingZone, date time.Time) Outcome {
	started := time.Now()
	defer func() {
		metrics.RecordFetchDuration(zone.ZoneCode, time.Since(started))
	}()

	loc, err := zone.Location()
	if err != nil {
		metrics.RecordFetchError(zone.ZoneCode, "invalid_timezone")
		return Outcome{Zone: zone, Status: StatusFailed, Err: fmt.Errorf("invalid timezone %q: %w", zone.Timezone, err)}
	}

	periodStart, periodEnd := utcBounds(date, loc)
	log := c.log.WithFields(logrus.Fields{
		"zone": zone.ZoneCode,
		"date": date.Format("2006-01-02"),
	})

	deadline := started.Add(c.cfg.BackoffMaxElapsed)
	delay := c.cfg.BackoffInitial
	var lastErr error

	for attempt := 1; ; attempt++ {
		metrics.RecordFetchAttempt(zone.ZoneCode, "started")
		points, result, err := c.attempt(ctx, zone, periodStart, periodEnd)
		switch {
		case err == nil:
			metrics.RecordFetchAttempt(zone.ZoneCode, "success")
			log.WithField("count", len(points)).Info("Fetched day-ahead prices")
			return Outcome{Zone: zone, Status: StatusSuccess, Points: points}

		case errors.Is(err, ErrNoData):
			metrics.RecordFetchAttempt(zone.ZoneCode, "nodata")
			log.WithField("reason", result.ReasonText).Warn("No data published yet")
			return Outcome{Zone: zone, Status: StatusNoData}

		case IsTransient(err):
			metrics.RecordFetchError(zone.ZoneCode, "transient")
			lastErr = err
			wait := jitter(delay)
			if time.Now().Add(wait).After(deadline) {
				metrics.RecordFetchError(zone.ZoneCode, "timeout")
				log.WithError(lastErr).Error("Retry budget exhausted")
				return Outcome{Zone: zone, Status: StatusFailed, Err: fmt.Errorf("%w: %v", ErrBackoffTimeout, lastErr)}
			}
			log.WithError(err).WithFields(logrus.Fields{
				"attempt":    attempt,
				"backoff_ms": wait.Milliseconds(),
			}).Warn("Transient error, retrying")
			select {
			case <-ctx.Done():
				return Outcome{Zone: zone, Status: StatusFailed, Err: ctx.Err()}
			case <-time.After(wait):
			}
			delay *= 2
			if delay > c.cfg.BackoffMax {
				delay = c.cfg.BackoffMax
			}

		default:
			metrics.RecordFetchError(zone.ZoneCode, "permanent")
			log.WithError(err).Error("Permanent error, not retrying")
			return Outcome{Zone: zone, Status: StatusFailed, Err: err}
		}
	}
}

// attempt performs a single rate-limited request. It returns ErrNoData for an
// acknowledged empty period, a transient error for 429/5xx/connection
// failures, and a permanent error otherwise.
func (c *Client) attempt(ctx context.Context, zone models.BiddingZone, periodStart, periodEnd time.Time) ([]models.PricePoint, ParseResult, error) {
	permit, err := c.limiter.Acquire(ctx)
	if err != nil {
		return nil, ParseResult{}, &TemporaryError{Detail: err.Error()}
	}
	defer permit.Release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(zone.EICCode, periodStart, periodEnd), nil)
	if err != nil {
		return nil, ParseResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ParseResult{}, &TemporaryError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, ParseResult{}, &TemporaryError{Detail: err.Error()}
		}
		result := ParseDocument(body, zone.ZoneCode)
		switch result.Kind {
		case ResultPrices:
			return result.Points, result, nil
		case ResultNoData:
			return nil, result, ErrNoData
		default:
			return nil, result, &MalformedError{Detail: result.Detail}
		}

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ParseResult{}, ErrRateLimited

	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, ParseResult{}, &TemporaryError{Detail: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, body)}

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, ParseResult{}, fmt.Errorf("unexpected HTTP status %d: %s", resp.StatusCode, body)
	}
}

func (c *Client) buildURL(eicCode string, periodStart, periodEnd time.Time) string {
	params := url.Values{}
	params.Set("securityToken", c.cfg.SecurityToken)
	params.Set("documentType", documentTypePrice)
	params.Set("processType", processTypeDayAhead)
	params.Set("in_Domain", eicCode)
	params.Set("out_Domain", eicCode)
	params.Set("periodStart", periodStart.Format(periodFormat))
	params.Set("periodEnd", periodEnd.Format(periodFormat))
	return fmt.Sprintf("%s?%s", c.cfg.BaseURL, params.Encode())
}

// utcBounds computes the UTC window for the zone's local calendar date,
// local midnight to the next local midnight. Using the zone's location keeps
// the window correct across DST transitions.
func utcBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	return start.UTC(), end.UTC()
}

// jitter spreads a backoff delay by up to ±30% so concurrently retrying
// zones do not resynchronize.
func jitter(d time.Duration) time.Duration {
	factor := 0.7 + 0.6*rand.Float64()
	return time.Duration(float64(d) * factor)
}
