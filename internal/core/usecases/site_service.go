package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/core/ports"
	"github.com/yatramap/yatramap/internal/pkg/metrics"
)

// SiteService serves curated points of interest with read-through caching.
type SiteService struct {
	sites ports.SiteRepository
	cache ports.CacheService
}

// NewSiteService creates a new SiteService.
func NewSiteService(sites ports.SiteRepository, cache ports.CacheService) *SiteService {
	return &SiteService{sites: sites, cache: cache}
}

// ListByCity returns sites in a city, optionally filtered by category.
func (s *SiteService) ListByCity(ctx context.Context, city string, category domain.Category, limit int) ([]domain.Site, error) {
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return nil, fmt.Errorf("city must not be empty")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("sites:city:%s:%s:%d", city, category, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var sites []domain.Site
			if err := json.Unmarshal(data, &sites); err == nil {
				metrics.CacheHits.WithLabelValues("sites_city").Inc()
				return sites, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("sites_city").Inc()
	}

	sites, err := s.sites.ListByCity(ctx, city, category, limit)
	if err != nil {
		return nil, err
	}

	// Curated data changes rarely; 10 minutes is plenty.
	if s.cache != nil {
		if data, err := json.Marshal(sites); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return sites, nil
}

// Search performs a name search over the sites table.
func (s *SiteService) Search(ctx context.Context, query string, limit int) ([]domain.Site, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.sites.Search(ctx, query, limit)
}

// GetByID returns a single site.
func (s *SiteService) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	cacheKey := "sites:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var site domain.Site
			if err := json.Unmarshal(data, &site); err == nil {
				metrics.CacheHits.WithLabelValues("sites_id").Inc()
				return &site, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("sites_id").Inc()
	}

	site, err := s.sites.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(site); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return site, nil
}
