// Package integration provides utilities for postgres integration testing
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gridwatch/internal/models"
	"gridwatch/internal/testutil"
)

// TestContext wraps testutil.TestContext with postgres-specific helpers
type TestContext struct {
	*testutil.TestContext
}

// NewTestContext creates a new test context for postgres integration tests
func NewTestContext(t *testing.T) *TestContext {
	return &TestContext{TestContext: testutil.NewTestContext(t)}
}

// CleanupPrices removes all stored prices
func (tc *TestContext) CleanupPrices() {
	tc.T.Helper()
	tc.ExecuteSQL("DELETE FROM prices")
}

// CleanupFetchLog removes all fetch-log records
func (tc *TestContext) CleanupFetchLog() {
	tc.T.Helper()
	tc.ExecuteSQL("DELETE FROM fetch_log")
}

// CreateFetchAttempt creates and returns a pending fetch-log record
func (tc *TestContext) CreateFetchAttempt(targetDate time.Time) *models.FetchAttempt {
	tc.T.Helper()
	attempt := &models.FetchAttempt{TargetDate: targetDate}
	err := tc.FetchLogRepo.Create(context.Background(), attempt)
	require.NoError(tc.T, err)
	return attempt
}

// ExecuteSQL executes a raw SQL query for testing
func (tc *TestContext) ExecuteSQL(query string, args ...interface{}) {
	tc.T.Helper()
	_, err := tc.DB.ExecContext(context.Background(), query, args...)
	require.NoError(tc.T, err)
}
