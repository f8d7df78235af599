package entsoe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridwatch/internal/models"
)

func testZone(t *testing.T) models.BiddingZone {
	t.Helper()
	return models.BiddingZone{
		ZoneCode:    "NO1",
		CountryCode: "NO",
		EICCode:     "10YNO-1--------2",
		Timezone:    "Europe/Oslo",
		Active:      true,
	}
}

func fastClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:            baseURL,
		SecurityToken:      "test-token",
		RateLimitPerMinute: 60000,
		MaxInFlight:        10,
		RequestTimeout:     time.Second,
		BackoffInitial:     time.Millisecond,
		BackoffMax:         4 * time.Millisecond,
		BackoffMaxElapsed:  time.Second,
	})
}

func TestFetchZoneDate_Success(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(publicationXML("EUR", "PT60M", "2025-06-01T22:00Z", "2025-06-02T22:00Z", hourlyPoints(24))))
	}))
	defer server.Close()

	client := fastClient(t, server.URL)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	outcome := client.FetchZoneDate(context.Background(), testZone(t), date)

	require.Equal(t, StatusSuccess, outcome.Status)
	require.NoError(t, outcome.Err)
	assert.Len(t, outcome.Points, 24)

	assert.Equal(t, "test-token", gotQuery.Get("securityToken"))
	assert.Equal(t, "A44", gotQuery.Get("documentType"))
	assert.Equal(t, "A01", gotQuery.Get("processType"))
	assert.Equal(t, "10YNO-1--------2", gotQuery.Get("in_Domain"))
	assert.Equal(t, "10YNO-1--------2", gotQuery.Get("out_Domain"))
	// Oslo is UTC+2 in June, so the local day starts at 22:00 UTC the day before.
	assert.Equal(t, "202506012200", gotQuery.Get("periodStart"))
	assert.Equal(t, "202506022200", gotQuery.Get("periodEnd"))
}

func TestFetchZoneDate_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(publicationXML("EUR", "PT60M", "2025-06-01T22:00Z", "2025-06-02T22:00Z", hourlyPoints(24))))
	}))
	defer server.Close()

	client := fastClient(t, server.URL)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	outcome := client.FetchZoneDate(context.Background(), testZone(t), date)

	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchZoneDate_RetriesRateLimited(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(publicationXML("EUR", "PT60M", "2025-06-01T22:00Z", "2025-06-02T22:00Z", hourlyPoints(24))))
	}))
	defer server.Close()

	client := fastClient(t, server.URL)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	outcome := client.FetchZoneDate(context.Background(), testZone(t), date)

	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchZoneDate_NoDataIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`<Acknowledgement_MarketDocument><Reason><code>999</code><text>No matching data found</text></Reason></Acknowledgement_MarketDocument>`))
	}))
	defer server.Close()

	client := fastClient(t, server.URL)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	outcome := client.FetchZoneDate(context.Background(), testZone(t), date)

	require.Equal(t, StatusNoData, outcome.Status)
	require.NoError(t, outcome.Err)
	assert.Empty(t, outcome.Points)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchZoneDate_PermanentFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("missing parameter"))
	}))
	defer server.Close()

	client := fastClient(t, server.URL)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	outcome := client.FetchZoneDate(context.Background(), testZone(t), date)

	require.Equal(t, StatusFailed, outcome.Status)
	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchZoneDate_MalformedBodyIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	client := fastClient(t, server.URL)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	outcome := client.FetchZoneDate(context.Background(), testZone(t), date)

	require.Equal(t, StatusFailed, outcome.Status)
	var malformed *MalformedError
	require.ErrorAs(t, outcome.Err, &malformed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchZoneDate_ExhaustsRetryBudget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:            server.URL,
		SecurityToken:      "test-token",
		RateLimitPerMinute: 60000,
		MaxInFlight:        10,
		RequestTimeout:     time.Second,
		BackoffInitial:     20 * time.Millisecond,
		BackoffMax:         20 * time.Millisecond,
		BackoffMaxElapsed:  50 * time.Millisecond,
	})
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	outcome := client.FetchZoneDate(context.Background(), testZone(t), date)

	require.Equal(t, StatusFailed, outcome.Status)
	require.ErrorIs(t, outcome.Err, ErrBackoffTimeout)
}

func TestFetchZoneDate_ContextCancelDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:            server.URL,
		SecurityToken:      "test-token",
		RateLimitPerMinute: 60000,
		MaxInFlight:        10,
		RequestTimeout:     time.Second,
		BackoffInitial:     time.Minute,
		BackoffMax:         time.Minute,
		BackoffMaxElapsed:  time.Hour,
	})
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	outcome := client.FetchZoneDate(ctx, testZone(t), date)

	require.Equal(t, StatusFailed, outcome.Status)
	require.ErrorIs(t, outcome.Err, context.DeadlineExceeded)
}

func TestFetchZoneDate_InvalidTimezone(t *testing.T) {
	client := fastClient(t, "http://localhost:0")
	zone := testZone(t)
	zone.Timezone = "Not/AZone"

	outcome := client.FetchZoneDate(context.Background(), zone, time.Now())

	require.Equal(t, StatusFailed, outcome.Status)
	assert.Contains(t, outcome.Err.Error(), "invalid timezone")
}

func TestUTCBounds(t *testing.T) {
	oslo, err := time.LoadLocation("Europe/Oslo")
	require.NoError(t, err)

	tests := []struct {
		name      string
		date      time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "summer day",
			date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 2, 22, 0, 0, 0, time.UTC),
		},
		{
			name:      "winter day",
			date:      time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 1, 14, 23, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 15, 23, 0, 0, 0, time.UTC),
		},
		{
			name:      "spring forward has 23 hours",
			date:      time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 3, 29, 23, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 30, 22, 0, 0, 0, time.UTC),
		},
		{
			name:      "fall back has 25 hours",
			date:      time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 10, 25, 22, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 10, 26, 23, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := utcBounds(tt.date, oslo)
			assert.True(t, tt.wantStart.Equal(start), "start: want %s got %s", tt.wantStart, start)
			assert.True(t, tt.wantEnd.Equal(end), "end: want %s got %s", tt.wantEnd, end)
		})
	}
}

func TestJitterStaysWithinBounds(t *testing.T) {
	base := 10 * time.Second
	for i := 0; i < 1000; i++ {
		d := jitter(base)
		assert.GreaterOrEqual(t, d, 7*time.Second)
		assert.LessOrEqual(t, d, 13*time.Second)
	}
}
