package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"gridwatch/internal/models"
	"gridwatch/internal/repository"
)

type fetchLogRepository struct {
	repository.BaseRepository
}

// NewFetchLogRepository creates a new PostgreSQL fetch log repository
func NewFetchLogRepository(db *sql.DB) repository.FetchLogRepository {
	return &fetchLogRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *fetchLogRepository) Create(ctx context.Context, attempt *models.FetchAttempt) error {
	if attempt.Status == "" {
		attempt.Status = models.FetchStatusPending
	}
	err := r.DB().QueryRowContext(ctx, `
		INSERT INTO fetch_log (started_at, target_date, status)
		VALUES (NOW(), $1, $2)
		RETURNING id, started_at`,
		attempt.TargetDate,
		attempt.Status,
	).Scan(&attempt.ID, &attempt.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create fetch log: %w", err)
	}
	return nil
}

func (r *fetchLogRepository) Complete(ctx context.Context, attempt *models.FetchAttempt) error {
	details, err := json.Marshal(attempt.ZoneErrors)
	if err != nil {
		return fmt.Errorf("failed to encode zone errors: %w", err)
	}

	var completedAt time.Time
	err = r.DB().QueryRowContext(ctx, `
		UPDATE fetch_log
		SET completed_at = NOW(),
			zones_attempted = $1,
			zones_succeeded = $2,
			zones_failed = $3,
			zones_no_data = $4,
			prices_stored = $5,
			status = $6,
			error_details = $7,
			duration_ms = $8
		WHERE id = $9 AND completed_at IS NULL
		RETURNING completed_at`,
		attempt.ZonesAttempted,
		attempt.ZonesSucceeded,
		attempt.ZonesFailed,
		attempt.ZonesNoData,
		attempt.PricesStored,
		attempt.Status,
		details,
		attempt.DurationMs,
		attempt.ID,
	).Scan(&completedAt)

	if err == sql.ErrNoRows {
		var exists bool
		if checkErr := r.DB().QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM fetch_log WHERE id = $1)",
			attempt.ID,
		).Scan(&exists); checkErr != nil {
			return checkErr
		}
		if exists {
			return repository.ErrAlreadyCompleted
		}
		return repository.ErrFetchLogNotFound
	}
	if err != nil {
		return err
	}

	attempt.CompletedAt = &completedAt
	return nil
}

func (r *fetchLogRepository) ListRecent(ctx context.Context, limit int) ([]models.FetchAttempt, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, started_at, completed_at, target_date,
			   zones_attempted, zones_succeeded, zones_failed, zones_no_data,
			   prices_stored, status, error_details, duration_ms
		FROM fetch_log
		ORDER BY started_at DESC, id DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.FetchAttempt
	for rows.Next() {
		var (
			attempt models.FetchAttempt
			details []byte
		)
		if err := rows.Scan(
			&attempt.ID,
			&attempt.StartedAt,
			&attempt.CompletedAt,
			&attempt.TargetDate,
			&attempt.ZonesAttempted,
			&attempt.ZonesSucceeded,
			&attempt.ZonesFailed,
			&attempt.ZonesNoData,
			&attempt.PricesStored,
			&attempt.Status,
			&details,
			&attempt.DurationMs,
		); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &attempt.ZoneErrors); err != nil {
				return nil, fmt.Errorf("failed to decode zone errors for log %d: %w", attempt.ID, err)
			}
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}
