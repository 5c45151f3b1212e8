package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/core/gazetteer"
	"github.com/yatramap/yatramap/internal/core/ports"
	"github.com/yatramap/yatramap/internal/pkg/geospatial"
	"github.com/yatramap/yatramap/internal/pkg/metrics"
)

// ErrEmptyPrompt is returned when a plan request carries no usable text.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// UnknownPlacesError reports destinations the gazetteer could not resolve.
type UnknownPlacesError struct {
	Names []string
}

func (e *UnknownPlacesError) Error() string {
	return "unknown locations: " + strings.Join(e.Names, ", ")
}

var (
	bracketRe   = regexp.MustCompile(`\(.*?\)`)
	arrowDashRe = regexp.MustCompile(`[-→]`)
	spacesRe    = regexp.MustCompile(`\s+`)
	daysRe      = regexp.MustCompile(`(?i)(\d+)\s*[- ]?\s*day`)
)

// Landmark injected when the planner names a city but no places.
var cityLandmarks = map[string]string{
	"mysore":     "Mysore Palace",
	"coonoor":    "Sim's Park",
	"ooty":       "Ooty Lake",
	"coimbatore": "Marudhamalai Temple",
	"delhi":      "Red Fort",
	"jaipur":     "Hawa Mahal",
}

// Default dishes when the planner returns no food list.
var cityFood = map[string][]string{
	"jaipur": {"Dal Baati", "Ghewar"},
	"delhi":  {"Chole Bhature", "Paratha"},
}

// PlanResult is everything one completed plan cycle produced.
type PlanResult struct {
	Trip       *domain.Trip
	Resolution domain.RouteResolution
	Days       []domain.Day
	Steps      []domain.InstructionStep
	Food       []string

	// DistanceMeters is the great-circle length of the resolved waypoint
	// sequence, zero for single-point and empty resolutions.
	DistanceMeters float64

	// Stale marks a response superseded by a newer request; nothing was
	// rendered or persisted.
	Stale bool
}

// PlanService drives the full plan cycle: sanitize the prompt, call the
// planner backend, resolve the response through the tier table, render, and
// persist the trip. Last response wins: a monotonically increasing sequence
// number guards against stale planner responses overwriting newer state.
type PlanService struct {
	planner  ports.PlannerClient
	trips    ports.TripRepository
	resolver *Resolver
	renderer *Renderer
	panel    ports.PanelRenderer
	gaz      *gazetteer.Gazetteer
	log      *slog.Logger

	seq atomic.Uint64
}

// NewPlanService creates a PlanService.
func NewPlanService(planner ports.PlannerClient, trips ports.TripRepository, resolver *Resolver, renderer *Renderer, panel ports.PanelRenderer, gaz *gazetteer.Gazetteer, log *slog.Logger) *PlanService {
	if log == nil {
		log = slog.Default()
	}
	return &PlanService{
		planner:  planner,
		trips:    trips,
		resolver: resolver,
		renderer: renderer,
		panel:    panel,
		gaz:      gaz,
		log:      log,
	}
}

// PlanFromPrompt handles a free-text travel request end to end.
func (s *PlanService) PlanFromPrompt(ctx context.Context, prompt string) (*PlanResult, error) {
	sanitized := SanitizePrompt(prompt)
	if sanitized == "" {
		return nil, ErrEmptyPrompt
	}
	requestedDays := DetectDays(sanitized)

	seq := s.seq.Add(1)
	s.panel.SetLoading(true)
	defer s.panel.SetLoading(false)

	start := time.Now()
	raw, err := s.planner.GenerateRoute(ctx, sanitized)
	metrics.PlannerLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		// Hard backend failure: notify, keep whatever is drawn.
		metrics.PlannerFailures.Inc()
		s.panel.ShowNotice("Could not plan your trip right now. Please try again.")
		return nil, fmt.Errorf("planner request: %w", err)
	}

	if seq != s.seq.Load() {
		metrics.StaleResponsesDropped.Inc()
		s.log.Info("dropping stale planner response", "seq", seq)
		return &PlanResult{Stale: true}, nil
	}

	doc, ok := ParsePlanDocument(raw)
	if !ok {
		// A non-JSON body is a backend failure, not an empty plan: notify
		// and keep whatever is drawn. Only a parsed document that carries
		// no data degrades to the NONE tier.
		metrics.PlannerFailures.Inc()
		s.panel.ShowNotice("Could not plan your trip right now. Please try again.")
		return nil, fmt.Errorf("planner returned non-JSON response")
	}
	if doc.Status == "error" {
		s.panel.ShowNotice("The planner could not handle that request.")
		return nil, fmt.Errorf("planner returned error status")
	}
	s.injectLandmarkFallback(doc)

	res, days := s.resolver.Resolve(doc)
	metrics.ResolutionsTotal.WithLabelValues(res.Tier.String()).Inc()

	if len(days) == 0 && len(res.Places) > 0 {
		days = FallbackItinerary(placeNames(res.Places), requestedDays)
	}
	steps := ParseInstructions(doc.Instructions)
	food := doc.Food
	if len(food) == 0 {
		food = cityFood[strings.ToLower(doc.City)]
	}

	s.render(res, days, steps, food)

	// NONE put nothing on the map; history holds only plans that rendered.
	var trip *domain.Trip
	if res.Tier != domain.TierNone {
		trip = &domain.Trip{
			Prompt:    sanitized,
			City:      doc.City,
			Places:    placeNames(res.Places),
			Food:      food,
			Itinerary: domain.Itinerary{City: doc.City, Days: days, Food: food, Notes: doc.Notes},
			Tier:      res.Tier,
			CreatedAt: time.Now().UTC(),
		}
		if s.trips != nil {
			if err := s.trips.Insert(ctx, trip); err != nil {
				// History is best effort; the render already happened.
				s.log.Error("persist trip", "error", err)
			}
		}
	}

	return &PlanResult{
		Trip:           trip,
		Resolution:     res,
		Days:           days,
		Steps:          steps,
		Food:           food,
		DistanceMeters: routeDistance(res.Waypoints),
	}, nil
}

// PlanFromPlaces handles the destinations-box flow: every name must resolve
// through the gazetteer before an itinerary is requested.
func (s *PlanService) PlanFromPlaces(ctx context.Context, names []string) (*PlanResult, error) {
	var places []string
	var unknown []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := s.gaz.Resolve(name); ok {
			places = append(places, name)
		} else {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, &UnknownPlacesError{Names: unknown}
	}
	if len(places) == 0 {
		return nil, ErrEmptyPrompt
	}

	seq := s.seq.Add(1)
	s.panel.SetLoading(true)
	defer s.panel.SetLoading(false)

	days := len(places) / 2
	if days < 1 {
		days = 1
	}
	raw, err := s.planner.GenerateItinerary(ctx, places, days)

	// Last response wins even when this request errored: a superseded
	// request must not overwrite the newer render with its fallback split.
	if seq != s.seq.Load() {
		metrics.StaleResponsesDropped.Inc()
		return &PlanResult{Stale: true}, nil
	}

	var parsed []domain.Day
	if err != nil {
		metrics.PlannerFailures.Inc()
		s.log.Warn("itinerary backend failed, using fallback split", "error", err)
	} else {
		if doc, ok := ParsePlanDocument(raw); ok {
			parsed = s.resolver.Days(doc.Days)
		} else {
			// Some backends return the day array bare, without an envelope.
			parsed = s.resolver.Days(decodeArray(raw))
		}
	}
	if len(parsed) == 0 {
		parsed = FallbackItinerary(places, days)
	}

	doc := &PlanDocument{}
	for _, name := range places {
		doc.Places = append(doc.Places, quoteJSON(name))
	}
	res, _ := s.resolver.Resolve(doc)
	metrics.ResolutionsTotal.WithLabelValues(res.Tier.String()).Inc()

	s.render(res, parsed, nil, nil)
	return &PlanResult{Resolution: res, Days: parsed, DistanceMeters: routeDistance(res.Waypoints)}, nil
}

// Focus re-centers the map on a rendered place.
func (s *PlanService) Focus(name string) bool {
	return s.renderer.FocusPlace(name)
}

// ClearMap wipes all pipeline-owned layers.
func (s *PlanService) ClearMap() {
	s.renderer.Clear()
}

func (s *PlanService) render(res domain.RouteResolution, days []domain.Day, steps []domain.InstructionStep, food []string) {
	s.renderer.Clear()
	s.renderer.RenderRoute(res)
	s.renderer.RenderPlaces(res.Places)
	s.renderer.RenderItinerary(days)
	s.renderer.RenderInstructions(steps)
	if len(food) > 0 {
		s.panel.ShowFood(food)
	}
}

func (s *PlanService) injectLandmarkFallback(doc *PlanDocument) {
	if len(doc.Places) > 0 || len(doc.Days) > 0 || len(doc.Route) > 0 {
		return
	}
	landmark, ok := cityLandmarks[strings.ToLower(doc.City)]
	if !ok {
		return
	}
	s.log.Warn("planner returned no places, injecting city landmark", "city", doc.City, "landmark", landmark)
	doc.Places = append(doc.Places, quoteJSON(landmark))
}

// SanitizePrompt cleans a raw travel prompt before it reaches the planner:
// parenthetical asides removed, arrows and dashes turned into commas, vague
// region words dropped, whitespace collapsed.
func SanitizePrompt(prompt string) string {
	prompt = bracketRe.ReplaceAllString(prompt, "")
	prompt = strings.ReplaceAll(prompt, "South India", "")
	prompt = arrowDashRe.ReplaceAllString(prompt, ",")
	return strings.TrimSpace(spacesRe.ReplaceAllString(prompt, " "))
}

// DetectDays extracts an "N-day" request from the prompt, 0 when absent.
func DetectDays(prompt string) int {
	if m := daysRe.FindStringSubmatch(prompt); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// FallbackItinerary deterministically splits places across days when the
// planner supplied no usable itinerary: three canned activities per place,
// distributed evenly over the requested day count (or one place pair per day).
func FallbackItinerary(places []string, requestedDays int) []domain.Day {
	if len(places) == 0 {
		return nil
	}
	dayCount := requestedDays
	if dayCount <= 0 {
		dayCount = len(places) / 2
		if dayCount < 1 {
			dayCount = 1
		}
	}

	base := len(places) / dayCount
	rem := len(places) % dayCount
	var days []domain.Day
	idx := 0
	for d := 0; d < dayCount; d++ {
		count := base
		if d < rem {
			count++
		}
		day := domain.Day{Label: fmt.Sprintf("Day %d", d+1)}
		for i := 0; i < count && idx < len(places); i++ {
			p := places[idx]
			day.Activities = append(day.Activities,
				"Visit "+p,
				"Explore surroundings of "+p,
				"Try local food near "+p,
			)
			idx++
		}
		days = append(days, day)
	}
	return days
}

func placeNames(places []domain.Place) []string {
	var names []string
	for _, p := range places {
		names = append(names, p.Name)
	}
	return names
}

func quoteJSON(s string) []byte {
	return []byte(strconv.Quote(s))
}

func routeDistance(wps []domain.Waypoint) float64 {
	points := make([][2]float64, len(wps))
	for i, w := range wps {
		points[i] = [2]float64{w.Lat, w.Lng}
	}
	return geospatial.PathLength(points)
}
