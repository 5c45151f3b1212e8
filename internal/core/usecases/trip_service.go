package usecases

import (
	"context"

	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/core/ports"
)

// TripService serves plan history.
type TripService struct {
	trips ports.TripRepository
}

// NewTripService creates a new TripService.
func NewTripService(trips ports.TripRepository) *TripService {
	return &TripService{trips: trips}
}

// Recent returns the latest trips, newest first.
func (s *TripService) Recent(ctx context.Context, limit int) ([]domain.Trip, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.trips.ListRecent(ctx, limit)
}

// GetByID returns one trip.
func (s *TripService) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	return s.trips.GetByID(ctx, id)
}
