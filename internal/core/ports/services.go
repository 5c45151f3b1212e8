package ports

import (
	"context"
	"encoding/json"

	"github.com/yatramap/yatramap/internal/core/domain"
)

// PlannerClient talks to the AI trip-planning backend.
type PlannerClient interface {
	// GenerateRoute asks for a city/places/food/route document for a free-text
	// prompt. The raw JSON is handed to the normalization pipeline untouched.
	GenerateRoute(ctx context.Context, prompt string) (json.RawMessage, error)
	// GenerateItinerary asks for a day-wise plan over the given places.
	GenerateItinerary(ctx context.Context, places []string, days int) (json.RawMessage, error)
}

// RenderPublisher fans render-command frames out to connected map clients.
type RenderPublisher interface {
	PublishRenderCommand(ctx context.Context, frame []byte) error
}

// MapCanvas is the drawing surface the render orchestrator controls. The real
// map lives in the browser; adapters translate these calls into wire commands.
type MapCanvas interface {
	AddMarker(id string, at domain.Waypoint, icon string, popupHTML string)
	AddPolyline(id string, points []domain.Waypoint, dashed bool)
	RemoveLayer(id string)
	FitBounds(b domain.Bounds, pad float64)
	SetView(center domain.Waypoint, zoom int)
	OpenPopup(markerID string)
}

// PanelRenderer is the non-map UI surface: itinerary list, instructions panel,
// food suggestions, notices and the loading indicator.
type PanelRenderer interface {
	ShowItinerary(days []domain.Day)
	ShowInstructions(steps []domain.InstructionStep)
	ShowFood(items []string)
	ShowNotice(message string)
	SetLoading(active bool)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
