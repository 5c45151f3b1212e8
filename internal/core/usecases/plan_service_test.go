package usecases_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/core/gazetteer"
	"github.com/yatramap/yatramap/internal/core/usecases"
)

// --- Mock PlannerClient ---

type mockPlanner struct {
	generateRouteFn     func(ctx context.Context, prompt string) (json.RawMessage, error)
	generateItineraryFn func(ctx context.Context, places []string, days int) (json.RawMessage, error)
}

func (m *mockPlanner) GenerateRoute(ctx context.Context, prompt string) (json.RawMessage, error) {
	if m.generateRouteFn != nil {
		return m.generateRouteFn(ctx, prompt)
	}
	return json.RawMessage(`{}`), nil
}

func (m *mockPlanner) GenerateItinerary(ctx context.Context, places []string, days int) (json.RawMessage, error) {
	if m.generateItineraryFn != nil {
		return m.generateItineraryFn(ctx, places, days)
	}
	return json.RawMessage(`[]`), nil
}

// --- Mock TripRepository ---

type mockTripRepo struct {
	insertFn     func(ctx context.Context, trip *domain.Trip) error
	listRecentFn func(ctx context.Context, limit int) ([]domain.Trip, error)
}

func (m *mockTripRepo) Insert(ctx context.Context, trip *domain.Trip) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, trip)
	}
	return nil
}

func (m *mockTripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	return nil, nil
}

func (m *mockTripRepo) ListRecent(ctx context.Context, limit int) ([]domain.Trip, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, limit)
	}
	return nil, nil
}

func newPlanService(planner *mockPlanner, trips *mockTripRepo, canvas *mockCanvas, panel *mockPanel) *usecases.PlanService {
	gaz := gazetteer.New()
	norm := usecases.NewNormalizer(gaz)
	resolver := usecases.NewResolver(norm, gaz)
	renderer := usecases.NewRenderer(canvas, panel)
	return usecases.NewPlanService(planner, trips, resolver, renderer, panel, gaz, nil)
}

// --- Tests ---

func TestSanitizePrompt(t *testing.T) {
	cases := map[string]string{
		"Trip to Mysore (Mysore & Coonoor) South India": "Trip to Mysore",
		"Jaipur → Ajmer - Pushkar":                      "Jaipur , Ajmer , Pushkar",
		"  lots   of    space  ":                        "lots of space",
	}
	for in, want := range cases {
		if got := usecases.SanitizePrompt(in); got != want {
			t.Errorf("SanitizePrompt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDetectDays(t *testing.T) {
	cases := map[string]int{
		"plan a 3-day trip to Jaipur": 3,
		"5 day tour":                  5,
		"2day getaway":                2,
		"a trip to Delhi":             0,
	}
	for in, want := range cases {
		if got := usecases.DetectDays(in); got != want {
			t.Errorf("DetectDays(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestPlanFromPrompt_Success(t *testing.T) {
	planner := &mockPlanner{
		generateRouteFn: func(ctx context.Context, prompt string) (json.RawMessage, error) {
			return json.RawMessage(`{
				"status": "success",
				"city": "jaipur",
				"route": [[26.9124, 75.7873], [26.4499, 74.6399]],
				"places": ["Hawa Mahal", "Ajmer"],
				"food": ["Dal Baati"],
				"instructions": ["Go left (100m)", "go LEFT", "Go right (50m)"]
			}`), nil
		},
	}
	var saved *domain.Trip
	trips := &mockTripRepo{
		insertFn: func(ctx context.Context, trip *domain.Trip) error {
			saved = trip
			return nil
		},
	}
	canvas := newMockCanvas()
	panel := &mockPanel{}
	svc := newPlanService(planner, trips, canvas, panel)

	res, err := svc.PlanFromPrompt(context.Background(), "Jaipur and Ajmer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Resolution.Tier != domain.TierExplicitRoute {
		t.Errorf("tier = %s", res.Resolution.Tier)
	}
	if len(res.Steps) != 2 {
		t.Errorf("steps = %d, want 2", len(res.Steps))
	}
	if saved == nil {
		t.Fatal("trip not persisted")
	}
	if saved.City != "jaipur" || saved.Tier != domain.TierExplicitRoute {
		t.Errorf("saved trip: %+v", saved)
	}
	if canvas.count("polyline") != 1 {
		t.Errorf("polylines = %d", canvas.count("polyline"))
	}
	// Loader shown then dismissed.
	if len(panel.loading) != 2 || !panel.loading[0] || panel.loading[1] {
		t.Errorf("loader transitions = %v", panel.loading)
	}
}

func TestPlanFromPrompt_EmptyPrompt(t *testing.T) {
	svc := newPlanService(&mockPlanner{}, &mockTripRepo{}, newMockCanvas(), &mockPanel{})
	if _, err := svc.PlanFromPrompt(context.Background(), "  ( ) "); !errors.Is(err, usecases.ErrEmptyPrompt) {
		t.Errorf("err = %v, want ErrEmptyPrompt", err)
	}
}

func TestPlanFromPrompt_BackendFailureKeepsLayers(t *testing.T) {
	canvas := newMockCanvas()
	panel := &mockPanel{}

	okPlanner := &mockPlanner{
		generateRouteFn: func(ctx context.Context, prompt string) (json.RawMessage, error) {
			return json.RawMessage(`{"route": [[26.9, 75.8], [28.6, 77.2]]}`), nil
		},
	}
	svc := newPlanService(okPlanner, &mockTripRepo{}, canvas, panel)
	if _, err := svc.PlanFromPrompt(context.Background(), "first trip"); err != nil {
		t.Fatalf("setup render failed: %v", err)
	}
	drawn := len(canvas.layers)
	if drawn == 0 {
		t.Fatal("expected layers from first render")
	}

	okPlanner.generateRouteFn = func(ctx context.Context, prompt string) (json.RawMessage, error) {
		return nil, errors.New("backend down")
	}
	if _, err := svc.PlanFromPrompt(context.Background(), "second trip"); err == nil {
		t.Fatal("expected error")
	}
	if len(canvas.layers) != drawn {
		t.Errorf("previous layers disturbed: %d -> %d", drawn, len(canvas.layers))
	}
	if len(panel.notices) == 0 {
		t.Error("expected a user-visible notice")
	}
	// Loader still dismissed after the failure.
	if panel.loading[len(panel.loading)-1] {
		t.Error("loader left spinning")
	}
}

// A body that is not JSON at all is a backend failure, not an empty plan:
// notice shown, previous layers untouched, nothing persisted.
func TestPlanFromPrompt_NonJSONBodyKeepsLayers(t *testing.T) {
	canvas := newMockCanvas()
	panel := &mockPanel{}
	inserts := 0
	trips := &mockTripRepo{
		insertFn: func(ctx context.Context, trip *domain.Trip) error {
			inserts++
			return nil
		},
	}

	planner := &mockPlanner{
		generateRouteFn: func(ctx context.Context, prompt string) (json.RawMessage, error) {
			return json.RawMessage(`{"route": [[26.9, 75.8], [28.6, 77.2]]}`), nil
		},
	}
	svc := newPlanService(planner, trips, canvas, panel)
	if _, err := svc.PlanFromPrompt(context.Background(), "first trip"); err != nil {
		t.Fatalf("setup render failed: %v", err)
	}
	drawn := len(canvas.layers)
	persisted := inserts

	planner.generateRouteFn = func(ctx context.Context, prompt string) (json.RawMessage, error) {
		return json.RawMessage(`I am sorry, I cannot produce an answer for that request.`), nil
	}
	if _, err := svc.PlanFromPrompt(context.Background(), "second trip"); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
	if len(canvas.layers) != drawn {
		t.Errorf("previous layers disturbed: %d -> %d", drawn, len(canvas.layers))
	}
	if len(panel.notices) == 0 {
		t.Error("expected a user-visible notice")
	}
	if inserts != persisted {
		t.Error("trip persisted for a failed response")
	}
	if panel.loading[len(panel.loading)-1] {
		t.Error("loader left spinning")
	}
}

func TestPlanFromPrompt_EmptyDataRendersNothing(t *testing.T) {
	planner := &mockPlanner{
		generateRouteFn: func(ctx context.Context, prompt string) (json.RawMessage, error) {
			return json.RawMessage(`{"route": [], "places": [], "itinerary": []}`), nil
		},
	}
	canvas := newMockCanvas()
	panel := &mockPanel{}
	svc := newPlanService(planner, &mockTripRepo{}, canvas, panel)

	res, err := svc.PlanFromPrompt(context.Background(), "somewhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Resolution.Tier != domain.TierNone {
		t.Errorf("tier = %s, want NONE", res.Resolution.Tier)
	}
	if canvas.count("marker") != 0 || canvas.count("polyline") != 0 {
		t.Error("NONE tier drew layers")
	}
	if panel.loading[len(panel.loading)-1] {
		t.Error("loader left spinning")
	}
}

// NONE renders nothing, so it must not leave a row in plan history either.
func TestPlanFromPrompt_NoneTierNotPersisted(t *testing.T) {
	planner := &mockPlanner{
		generateRouteFn: func(ctx context.Context, prompt string) (json.RawMessage, error) {
			return json.RawMessage(`{"route": [], "places": [], "itinerary": []}`), nil
		},
	}
	inserts := 0
	trips := &mockTripRepo{
		insertFn: func(ctx context.Context, trip *domain.Trip) error {
			inserts++
			return nil
		},
	}
	svc := newPlanService(planner, trips, newMockCanvas(), &mockPanel{})

	res, err := svc.PlanFromPrompt(context.Background(), "somewhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Resolution.Tier != domain.TierNone {
		t.Fatalf("tier = %s, want NONE", res.Resolution.Tier)
	}
	if inserts != 0 {
		t.Errorf("inserts = %d, want 0 for NONE tier", inserts)
	}
	if res.Trip != nil {
		t.Error("result carries a trip that was never saved")
	}
}

// A response that arrives after a newer request started must be dropped.
func TestPlanFromPrompt_StaleResponseDropped(t *testing.T) {
	canvas := newMockCanvas()
	panel := &mockPanel{}
	trips := &mockTripRepo{}

	var svc *usecases.PlanService
	depth := 0
	planner := &mockPlanner{}
	planner.generateRouteFn = func(ctx context.Context, prompt string) (json.RawMessage, error) {
		depth++
		if depth == 1 {
			// A newer request completes while the first is in flight.
			if _, err := svc.PlanFromPrompt(ctx, "newer request"); err != nil {
				t.Fatalf("inner request: %v", err)
			}
		}
		return json.RawMessage(`{"route": [[26.9, 75.8], [28.6, 77.2]]}`), nil
	}
	svc = newPlanService(planner, trips, canvas, panel)

	res, err := svc.PlanFromPrompt(context.Background(), "older request")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Stale {
		t.Fatal("expected stale result for superseded request")
	}
}

func TestPlanFromPrompt_LandmarkInjection(t *testing.T) {
	planner := &mockPlanner{
		generateRouteFn: func(ctx context.Context, prompt string) (json.RawMessage, error) {
			return json.RawMessage(`{"city": "delhi", "places": []}`), nil
		},
	}
	canvas := newMockCanvas()
	svc := newPlanService(planner, &mockTripRepo{}, canvas, &mockPanel{})

	res, err := svc.PlanFromPrompt(context.Background(), "delhi trip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Resolution.Tier != domain.TierSinglePoint {
		t.Fatalf("tier = %s", res.Resolution.Tier)
	}
	if len(res.Resolution.Waypoints) != 1 || res.Resolution.Waypoints[0].Lat != 28.6562 {
		t.Errorf("expected red fort marker, got %+v", res.Resolution.Waypoints)
	}
}

func TestPlanFromPlaces_UnknownPlaces(t *testing.T) {
	svc := newPlanService(&mockPlanner{}, &mockTripRepo{}, newMockCanvas(), &mockPanel{})
	_, err := svc.PlanFromPlaces(context.Background(), []string{"Jaipur", "Narnia"})
	var unknown *usecases.UnknownPlacesError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownPlacesError", err)
	}
	if len(unknown.Names) != 1 || unknown.Names[0] != "Narnia" {
		t.Errorf("unknown = %v", unknown.Names)
	}
}

func TestPlanFromPlaces_FallbackItineraryOnBadResponse(t *testing.T) {
	planner := &mockPlanner{
		generateItineraryFn: func(ctx context.Context, places []string, days int) (json.RawMessage, error) {
			return json.RawMessage(`definitely not json`), nil
		},
	}
	svc := newPlanService(planner, &mockTripRepo{}, newMockCanvas(), &mockPanel{})

	res, err := svc.PlanFromPlaces(context.Background(), []string{"Jaipur", "Ajmer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Days) != 1 {
		t.Fatalf("days = %d, want 1", len(res.Days))
	}
	if len(res.Days[0].Activities) != 6 {
		t.Errorf("activities = %d, want 6", len(res.Days[0].Activities))
	}
}

// A superseded request that errors out must be dropped, not re-rendered
// through the fallback split over the newer request's layers.
func TestPlanFromPlaces_SupersededErrorDropped(t *testing.T) {
	canvas := newMockCanvas()
	panel := &mockPanel{}

	var svc *usecases.PlanService
	var drawnByNewer int
	depth := 0
	planner := &mockPlanner{}
	planner.generateItineraryFn = func(ctx context.Context, places []string, days int) (json.RawMessage, error) {
		depth++
		if depth == 1 {
			// A newer request completes while the first is in flight, then
			// the first errors out.
			if _, err := svc.PlanFromPlaces(ctx, []string{"Delhi", "Jaipur"}); err != nil {
				t.Fatalf("inner request: %v", err)
			}
			drawnByNewer = len(canvas.layers)
			return nil, errors.New("backend down")
		}
		return json.RawMessage(`[]`), nil
	}
	svc = newPlanService(planner, &mockTripRepo{}, canvas, panel)

	res, err := svc.PlanFromPlaces(context.Background(), []string{"Jaipur", "Ajmer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Stale {
		t.Fatal("expected stale result for superseded request")
	}
	if len(canvas.layers) != drawnByNewer {
		t.Errorf("superseded request re-rendered: %d -> %d", drawnByNewer, len(canvas.layers))
	}
}

func TestFallbackItinerary_HonorsRequestedDays(t *testing.T) {
	days := usecases.FallbackItinerary([]string{"A", "B", "C"}, 2)
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	if days[0].Label != "Day 1" || days[1].Label != "Day 2" {
		t.Errorf("labels = %q, %q", days[0].Label, days[1].Label)
	}
	// 3 places over 2 days: 2 then 1.
	if len(days[0].Activities) != 6 || len(days[1].Activities) != 3 {
		t.Errorf("activity split = %d/%d", len(days[0].Activities), len(days[1].Activities))
	}
}
