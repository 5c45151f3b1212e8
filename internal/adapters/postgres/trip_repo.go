package postgres

import (
	"context"
	"fmt"

	"github.com/yatramap/yatramap/internal/core/domain"
)

// TripRepo implements ports.TripRepository with pgx.
type TripRepo struct {
	db *DB
}

// NewTripRepo creates a new TripRepo.
func NewTripRepo(db *DB) *TripRepo {
	return &TripRepo{db: db}
}

// Insert stores one plan-history record and fills in the generated ID.
func (r *TripRepo) Insert(ctx context.Context, t *domain.Trip) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO trips (prompt, city, places, food, itinerary, tier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, t.Prompt, t.City, t.Places, t.Food, t.Itinerary, t.Tier.String(), t.CreatedAt).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

// GetByID returns a trip by UUID.
func (r *TripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	var t domain.Trip
	var tier string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, prompt, COALESCE(city, ''), places, food, itinerary, tier, created_at
		FROM trips WHERE id = $1
	`, id).Scan(&t.ID, &t.Prompt, &t.City, &t.Places, &t.Food, &t.Itinerary, &tier, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Tier = parseTier(tier)
	return &t, nil
}

// ListRecent returns the latest trips, newest first.
func (r *TripRepo) ListRecent(ctx context.Context, limit int) ([]domain.Trip, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, prompt, COALESCE(city, ''), places, food, itinerary, tier, created_at
		FROM trips
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		var t domain.Trip
		var tier string
		if err := rows.Scan(&t.ID, &t.Prompt, &t.City, &t.Places, &t.Food, &t.Itinerary, &tier, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Tier = parseTier(tier)
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func parseTier(s string) domain.Tier {
	switch s {
	case "EXPLICIT_ROUTE":
		return domain.TierExplicitRoute
	case "ITINERARY_DERIVED":
		return domain.TierItineraryDerived
	case "FUZZY_MATCHED":
		return domain.TierFuzzyMatched
	case "SINGLE_POINT":
		return domain.TierSinglePoint
	default:
		return domain.TierNone
	}
}
