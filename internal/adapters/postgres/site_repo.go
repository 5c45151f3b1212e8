package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yatramap/yatramap/internal/core/domain"
)

// SiteRepo implements ports.SiteRepository with pgx.
type SiteRepo struct {
	db *DB
}

// NewSiteRepo creates a new SiteRepo.
func NewSiteRepo(db *DB) *SiteRepo {
	return &SiteRepo{db: db}
}

const siteColumns = `
	id, city, name, COALESCE(category, 'general'), COALESCE(description, ''),
	ST_Y(location::geometry) as lat,
	ST_X(location::geometry) as lng,
	COALESCE(opening_hours, ''), ticket_price, COALESCE(best_time_to_visit, ''),
	COALESCE(image_url, ''), created_at`

// Upsert inserts or updates a single site, keyed by (city, name).
func (r *SiteRepo) Upsert(ctx context.Context, s *domain.Site) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO sites (city, name, category, description, location, opening_hours, ticket_price, best_time_to_visit, image_url)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography, $7, $8, $9, $10)
		ON CONFLICT (city, name) DO UPDATE
		SET category = EXCLUDED.category, description = EXCLUDED.description,
		    location = EXCLUDED.location, opening_hours = EXCLUDED.opening_hours,
		    ticket_price = EXCLUDED.ticket_price,
		    best_time_to_visit = EXCLUDED.best_time_to_visit,
		    image_url = EXCLUDED.image_url
	`, s.City, s.Name, s.Category, s.Description, siteLng(s), siteLat(s),
		s.OpeningHrs, s.TicketPrice, s.BestTime, s.ImageURL)
	return err
}

// UpsertBatch inserts many sites using pgx.Batch.
func (r *SiteRepo) UpsertBatch(ctx context.Context, sites []domain.Site) error {
	batch := &pgx.Batch{}
	for _, s := range sites {
		batch.Queue(`
			INSERT INTO sites (city, name, category, description, location, opening_hours, ticket_price, best_time_to_visit, image_url)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography, $7, $8, $9, $10)
			ON CONFLICT (city, name) DO UPDATE
			SET category = EXCLUDED.category, description = EXCLUDED.description,
			    location = EXCLUDED.location, image_url = EXCLUDED.image_url
		`, s.City, s.Name, s.Category, s.Description, siteLng(&s), siteLat(&s),
			s.OpeningHrs, s.TicketPrice, s.BestTime, s.ImageURL)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range sites {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// GetByID returns a site by UUID.
func (r *SiteRepo) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = $1`, id)
	return scanSite(row)
}

// ListByCity returns sites in a city, optionally filtered by category.
func (r *SiteRepo) ListByCity(ctx context.Context, city string, category domain.Category, limit int) ([]domain.Site, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+siteColumns+`
		FROM sites
		WHERE lower(city) = lower($1)
		  AND ($2 = '' OR category = $2)
		ORDER BY name
		LIMIT $3
	`, city, string(category), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSites(rows)
}

// Search performs fuzzy search on site names.
func (r *SiteRepo) Search(ctx context.Context, query string, limit int) ([]domain.Site, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+siteColumns+`
		FROM sites
		WHERE name ILIKE '%' || $1 || '%' OR name %> $1
		ORDER BY similarity(name, $1) DESC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSites(rows)
}

func collectSites(rows pgx.Rows) ([]domain.Site, error) {
	var sites []domain.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, *s)
	}
	return sites, rows.Err()
}

func scanSite(row pgx.Row) (*domain.Site, error) {
	var s domain.Site
	var lat, lng *float64
	if err := row.Scan(
		&s.ID, &s.City, &s.Name, &s.Category, &s.Description,
		&lat, &lng,
		&s.OpeningHrs, &s.TicketPrice, &s.BestTime, &s.ImageURL, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		s.Location = &domain.Waypoint{Lat: *lat, Lng: *lng}
	}
	return &s, nil
}

func siteLat(s *domain.Site) *float64 {
	if s.Location == nil {
		return nil
	}
	return &s.Location.Lat
}

func siteLng(s *domain.Site) *float64 {
	if s.Location == nil {
		return nil
	}
	return &s.Location.Lng
}
