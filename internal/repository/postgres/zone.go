package postgres

import (
	"context"
	"database/sql"

	"gridwatch/internal/models"
	"gridwatch/internal/repository"
)

type zoneRepository struct {
	repository.BaseRepository
}

// NewZoneRepository creates a new PostgreSQL zone repository
func NewZoneRepository(db *sql.DB) repository.ZoneRepository {
	return &zoneRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

const zoneColumns = `zone_code, zone_name, country_code, country_name, eic_code, timezone, active, created_at, updated_at`

func (r *zoneRepository) ListActive(ctx context.Context) ([]models.BiddingZone, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+zoneColumns+`
		FROM bidding_zones
		WHERE active = TRUE
		ORDER BY country_code, zone_code`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanZones(rows)
}

func (r *zoneRepository) GetByCode(ctx context.Context, zoneCode string) (*models.BiddingZone, error) {
	zone := &models.BiddingZone{}
	err := r.DB().QueryRowContext(ctx, `
		SELECT `+zoneColumns+`
		FROM bidding_zones
		WHERE zone_code = $1`,
		zoneCode,
	).Scan(
		&zone.ZoneCode,
		&zone.ZoneName,
		&zone.CountryCode,
		&zone.CountryName,
		&zone.EICCode,
		&zone.Timezone,
		&zone.Active,
		&zone.CreatedAt,
		&zone.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrZoneNotFound
	}
	if err != nil {
		return nil, err
	}
	return zone, nil
}

func (r *zoneRepository) GetByCountry(ctx context.Context, countryCode string) ([]models.BiddingZone, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+zoneColumns+`
		FROM bidding_zones
		WHERE country_code = $1 AND active = TRUE
		ORDER BY zone_code`,
		countryCode,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanZones(rows)
}

func (r *zoneRepository) ListCountries(ctx context.Context) ([]models.Country, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT DISTINCT country_code, country_name
		FROM bidding_zones
		WHERE active = TRUE
		ORDER BY country_code`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var countries []models.Country
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.CountryCode, &c.CountryName); err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

func scanZones(rows *sql.Rows) ([]models.BiddingZone, error) {
	var zones []models.BiddingZone
	for rows.Next() {
		var zone models.BiddingZone
		if err := rows.Scan(
			&zone.ZoneCode,
			&zone.ZoneName,
			&zone.CountryCode,
			&zone.CountryName,
			&zone.EICCode,
			&zone.Timezone,
			&zone.Active,
			&zone.CreatedAt,
			&zone.UpdatedAt,
		); err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}
	return zones, rows.Err()
}
