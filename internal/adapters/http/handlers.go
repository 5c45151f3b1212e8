package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/core/usecases"
)

// planRequest is the body of POST /v1/plan.
type planRequest struct {
	Prompt string `json:"prompt"`
}

// itineraryRequest is the body of POST /v1/itinerary.
type itineraryRequest struct {
	Places []string `json:"places"`
}

// focusRequest is the body of POST /v1/map/focus.
type focusRequest struct {
	Name string `json:"name"`
}

// PlanHandler runs the full plan cycle for a free-text travel prompt.
func PlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req planRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result, err := deps.Plans.PlanFromPrompt(c.UserContext(), req.Prompt)
		if err != nil {
			if errors.Is(err, usecases.ErrEmptyPrompt) {
				return errBadRequest(c, "prompt must not be empty")
			}
			// Anything past validation is the planner backend failing.
			return errBadGateway(c, "trip planner unavailable: "+err.Error())
		}
		if result.Stale {
			return c.JSON(fiber.Map{"stale": true})
		}
		return c.JSON(planResponse(result))
	}
}

// ItineraryHandler builds a day-wise plan from an explicit destination list.
func ItineraryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req itineraryRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Places) == 0 {
			return errBadRequest(c, "places must not be empty")
		}

		result, err := deps.Plans.PlanFromPlaces(c.UserContext(), req.Places)
		if err != nil {
			var unknown *usecases.UnknownPlacesError
			if errors.As(err, &unknown) {
				return errUnprocessable(c, unknown.Error())
			}
			if errors.Is(err, usecases.ErrEmptyPrompt) {
				return errBadRequest(c, "places must not be empty")
			}
			return errBadGateway(c, "trip planner unavailable: "+err.Error())
		}
		if result.Stale {
			return c.JSON(fiber.Map{"stale": true})
		}
		return c.JSON(planResponse(result))
	}
}

// planResponse flattens a plan result for the wire.
func planResponse(r *usecases.PlanResult) fiber.Map {
	resp := fiber.Map{
		"tier":            r.Resolution.Tier.String(),
		"degraded":        r.Resolution.Degraded,
		"waypoints":       r.Resolution.Waypoints,
		"places":          r.Resolution.Places,
		"days":            r.Days,
		"instructions":    r.Steps,
		"food":            r.Food,
		"distance_meters": r.DistanceMeters,
	}
	if r.Trip != nil {
		resp["trip_id"] = r.Trip.ID
		resp["city"] = r.Trip.City
	}
	return resp
}

// FocusPlaceHandler re-centers the map on a rendered place marker.
func FocusPlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req focusRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(req.Name) == "" {
			return errBadRequest(c, "name is required")
		}
		if !deps.Plans.Focus(req.Name) {
			return errNotFound(c, "no rendered place matches that name")
		}
		return c.JSON(fiber.Map{"focused": req.Name})
	}
}

// ClearMapHandler wipes all pipeline-owned map layers.
func ClearMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Plans.ClearMap()
		return c.SendStatus(204)
	}
}

// ListTripsHandler returns recent plan history, newest first.
func ListTripsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		trips, err := deps.Trips.Recent(c.Context(), limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(trips)
	}
}

// GetTripHandler returns a single saved trip by ID.
func GetTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trip id is required")
		}
		trip, err := deps.Trips.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "trip not found")
		}
		return c.JSON(trip)
	}
}

// ListSitesHandler lists curated sites in a city, optionally by category.
func ListSitesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		city := c.Query("city")
		if city == "" {
			return errBadRequest(c, "city query parameter is required")
		}
		category := domain.Category(c.Query("category"))

		sites, err := deps.Sites.ListByCity(c.Context(), city, category, 100)
		if err != nil {
			return errInternal(c, err.Error())
		}

		// Apply offset/limit pagination on the full list
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 50
		}

		total := len(sites)
		if offset >= total {
			sites = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			sites = sites[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		c.Set("Cache-Control", "public, max-age=600")
		return c.JSON(PaginatedResponse{Data: sites, Pagination: pg})
	}
}

// SearchSitesHandler performs fuzzy search on site names.
func SearchSitesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 20)

		sites, err := deps.Sites.Search(c.Context(), query, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(sites)
	}
}

// GetSiteHandler returns a single site by ID.
func GetSiteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "site id is required")
		}
		site, err := deps.Sites.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "site not found")
		}
		return c.JSON(site)
	}
}

// ResolvePlaceHandler resolves a free-form place name through the gazetteer.
func ResolvePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}

		entry, ok := deps.Gazetteer.Resolve(query)
		if !ok {
			return errNotFound(c, "no known place matches that name")
		}

		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(fiber.Map{
			"key":      entry.Key,
			"name":     entry.Name,
			"location": entry.Location,
		})
	}
}

// ServiceStats holds row counts over the persisted data.
type ServiceStats struct {
	Trips    int    `json:"trips"`
	Sites    int    `json:"sites"`
	LastPlan string `json:"last_plan,omitempty"`
}

// StatsHandler returns row counts from the trips and sites tables.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats ServiceStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM trips),
				(SELECT count(*) FROM sites),
				COALESCE((SELECT max(created_at)::text FROM trips), '')
		`)
		if err := row.Scan(&stats.Trips, &stats.Sites, &stats.LastPlan); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}
