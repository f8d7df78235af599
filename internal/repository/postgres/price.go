// Package postgres implements the repository interfaces on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"gridwatch/internal/models"
	"gridwatch/internal/repository"
)

type priceRepository struct {
	repository.BaseRepository
}

// NewPriceRepository creates a new PostgreSQL price repository
func NewPriceRepository(db *sql.DB) repository.PriceRepository {
	return &priceRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *priceRepository) UpsertBatch(ctx context.Context, points []models.PricePoint) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	valueStrings := make([]string, 0, len(points))
	valueArgs := make([]interface{}, 0, len(points)*6)

	for i, p := range points {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			i*6+1, i*6+2, i*6+3, i*6+4, i*6+5, i*6+6))
		valueArgs = append(valueArgs,
			p.Timestamp,
			p.ZoneCode,
			p.PriceKWh,
			p.Currency,
			p.Resolution,
			p.FetchedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO prices (timestamp, bidding_zone, price_kwh, currency, resolution, fetched_at)
		VALUES %s
		ON CONFLICT (timestamp, bidding_zone) DO UPDATE
		SET price_kwh = EXCLUDED.price_kwh,
			currency = EXCLUDED.currency,
			resolution = EXCLUDED.resolution,
			fetched_at = EXCLUDED.fetched_at`, strings.Join(valueStrings, ","))

	var count int
	err := r.Transaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, valueArgs...)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		count = int(affected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// slotCount returns the number of distinct hourly slots stored for the zone
// in [start, end).
func (r *priceRepository) slotCount(ctx context.Context, zoneCode string, start, end time.Time) (int, error) {
	var count int
	err := r.DB().QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT date_trunc('hour', timestamp))
		FROM prices
		WHERE bidding_zone = $1 AND timestamp >= $2 AND timestamp < $3`,
		zoneCode, start, end,
	).Scan(&count)
	return count, err
}

func (r *priceRepository) MissingZones(ctx context.Context, date time.Time, zones []models.BiddingZone) ([]models.BiddingZone, error) {
	var missing []models.BiddingZone
	for _, zone := range zones {
		loc, err := zone.Location()
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", zone.ZoneCode, repository.ErrInvalidTimezone)
		}

		y, m, d := date.Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		end := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
		// The local day is 23, 24 or 25 hours long depending on DST.
		expected := int(end.Sub(start).Hours())

		count, err := r.slotCount(ctx, zone.ZoneCode, start.UTC(), end.UTC())
		if err != nil {
			return nil, err
		}
		if count < expected {
			missing = append(missing, zone)
		}
	}
	return missing, nil
}

func (r *priceRepository) IsComplete(ctx context.Context, date time.Time, zones []models.BiddingZone) (bool, error) {
	missing, err := r.MissingZones(ctx, date, zones)
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}

func (r *priceRepository) GetByZone(ctx context.Context, zoneCode string, start, end time.Time) ([]models.PricePoint, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT timestamp, bidding_zone, price_kwh, currency, resolution, fetched_at
		FROM prices
		WHERE bidding_zone = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp ASC`,
		zoneCode, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

func (r *priceRepository) GetByCountry(ctx context.Context, countryCode string, start, end time.Time) (map[string][]models.PricePoint, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT p.timestamp, p.bidding_zone, p.price_kwh, p.currency, p.resolution, p.fetched_at
		FROM prices p
		JOIN bidding_zones bz ON p.bidding_zone = bz.zone_code
		WHERE bz.country_code = $1
		  AND bz.active = TRUE
		  AND p.timestamp >= $2 AND p.timestamp < $3
		ORDER BY p.bidding_zone, p.timestamp ASC`,
		countryCode, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points, err := scanPricePoints(rows)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.PricePoint)
	for _, p := range points {
		grouped[p.ZoneCode] = append(grouped[p.ZoneCode], p)
	}
	return grouped, nil
}

func (r *priceRepository) GetLatest(ctx context.Context, maxAgeHours *int) ([]models.PricePoint, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if maxAgeHours != nil {
		rows, err = r.DB().QueryContext(ctx, `
			SELECT DISTINCT ON (bidding_zone) timestamp, bidding_zone, price_kwh, currency, resolution, fetched_at
			FROM prices
			WHERE timestamp >= NOW() - make_interval(hours => $1)
			ORDER BY bidding_zone, timestamp DESC`,
			*maxAgeHours,
		)
	} else {
		rows, err = r.DB().QueryContext(ctx, `
			SELECT DISTINCT ON (bidding_zone) timestamp, bidding_zone, price_kwh, currency, resolution, fetched_at
			FROM prices
			ORDER BY bidding_zone, timestamp DESC`,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

func (r *priceRepository) FindGaps(ctx context.Context, start, end time.Time, zoneCodes []string) ([]repository.Gap, error) {
	rows, err := r.DB().QueryContext(ctx, `
		WITH date_range AS (
			SELECT generate_series($1::date, $2::date, '1 day'::interval)::date AS date
		),
		zones AS (
			SELECT unnest($3::varchar[]) AS zone_code
		),
		date_zone_pairs AS (
			SELECT d.date, z.zone_code
			FROM date_range d
			CROSS JOIN zones z
		),
		slot_counts AS (
			SELECT
				date(timestamp AT TIME ZONE 'UTC') AS price_date,
				bidding_zone,
				COUNT(DISTINCT date_trunc('hour', timestamp)) AS slot_count
			FROM prices
			WHERE timestamp >= $1::date
			  AND timestamp < ($2::date + interval '1 day')
			  AND bidding_zone = ANY($3::varchar[])
			GROUP BY date(timestamp AT TIME ZONE 'UTC'), bidding_zone
		)
		SELECT dzp.date, dzp.zone_code, COALESCE(sc.slot_count, 0) AS slot_count
		FROM date_zone_pairs dzp
		LEFT JOIN slot_counts sc
			ON dzp.date = sc.price_date AND dzp.zone_code = sc.bidding_zone
		WHERE COALESCE(sc.slot_count, 0) < 24
		ORDER BY dzp.date, dzp.zone_code`,
		start, end, pq.Array(zoneCodes),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gaps []repository.Gap
	for rows.Next() {
		var gap repository.Gap
		if err := rows.Scan(&gap.Date, &gap.ZoneCode, &gap.SlotCount); err != nil {
			return nil, err
		}
		gaps = append(gaps, gap)
	}
	return gaps, rows.Err()
}

func scanPricePoints(rows *sql.Rows) ([]models.PricePoint, error) {
	var points []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(
			&p.Timestamp,
			&p.ZoneCode,
			&p.PriceKWh,
			&p.Currency,
			&p.Resolution,
			&p.FetchedAt,
		); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
