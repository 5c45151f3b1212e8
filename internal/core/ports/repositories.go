package ports

import (
	"context"

	"github.com/yatramap/yatramap/internal/core/domain"
)

// TripRepository persists plan history.
type TripRepository interface {
	Insert(ctx context.Context, trip *domain.Trip) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Trip, error)
}

// SiteRepository persists curated points of interest.
type SiteRepository interface {
	Upsert(ctx context.Context, site *domain.Site) error
	UpsertBatch(ctx context.Context, sites []domain.Site) error
	GetByID(ctx context.Context, id string) (*domain.Site, error)
	ListByCity(ctx context.Context, city string, category domain.Category, limit int) ([]domain.Site, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Site, error)
}
