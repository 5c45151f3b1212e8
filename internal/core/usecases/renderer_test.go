package usecases_test

import (
	"strings"
	"testing"

	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/core/gazetteer"
	"github.com/yatramap/yatramap/internal/core/usecases"
)

// --- Mock MapCanvas ---

type canvasOp struct {
	op     string
	id     string
	at     domain.Waypoint
	points []domain.Waypoint
	dashed bool
	popup  string
	icon   string
}

type mockCanvas struct {
	ops    []canvasOp
	layers map[string]bool
}

func newMockCanvas() *mockCanvas {
	return &mockCanvas{layers: make(map[string]bool)}
}

func (m *mockCanvas) AddMarker(id string, at domain.Waypoint, icon, popupHTML string) {
	m.layers[id] = true
	m.ops = append(m.ops, canvasOp{op: "marker", id: id, at: at, icon: icon, popup: popupHTML})
}

func (m *mockCanvas) AddPolyline(id string, points []domain.Waypoint, dashed bool) {
	m.layers[id] = true
	m.ops = append(m.ops, canvasOp{op: "polyline", id: id, points: points, dashed: dashed})
}

func (m *mockCanvas) RemoveLayer(id string) {
	delete(m.layers, id)
	m.ops = append(m.ops, canvasOp{op: "remove", id: id})
}

func (m *mockCanvas) FitBounds(b domain.Bounds, pad float64) {
	m.ops = append(m.ops, canvasOp{op: "fit"})
}

func (m *mockCanvas) SetView(center domain.Waypoint, zoom int) {
	m.ops = append(m.ops, canvasOp{op: "view", at: center})
}

func (m *mockCanvas) OpenPopup(markerID string) {
	m.ops = append(m.ops, canvasOp{op: "popup", id: markerID})
}

func (m *mockCanvas) count(op string) int {
	n := 0
	for _, o := range m.ops {
		if o.op == op {
			n++
		}
	}
	return n
}

// --- Mock PanelRenderer ---

type mockPanel struct {
	days    []domain.Day
	steps   []domain.InstructionStep
	food    []string
	notices []string
	loading []bool
}

func (m *mockPanel) ShowItinerary(days []domain.Day)             { m.days = days }
func (m *mockPanel) ShowInstructions(s []domain.InstructionStep) { m.steps = s }
func (m *mockPanel) ShowFood(items []string)                     { m.food = items }
func (m *mockPanel) ShowNotice(msg string)                       { m.notices = append(m.notices, msg) }
func (m *mockPanel) SetLoading(active bool)                      { m.loading = append(m.loading, active) }

// --- Tests ---

func TestRenderer_ClearIdempotent(t *testing.T) {
	canvas := newMockCanvas()
	r := usecases.NewRenderer(canvas, &mockPanel{})

	r.RenderRoute(domain.RouteResolution{
		Waypoints: []domain.Waypoint{{Lat: 26.9, Lng: 75.8}, {Lat: 28.6, Lng: 77.2}},
		Tier:      domain.TierExplicitRoute,
	})
	if len(canvas.layers) == 0 {
		t.Fatal("expected drawn layers")
	}

	r.Clear()
	if len(canvas.layers) != 0 {
		t.Fatalf("layers left after clear: %d", len(canvas.layers))
	}
	if r.LayerCount() != 0 {
		t.Fatalf("renderer still tracks %d layers", r.LayerCount())
	}

	// Second clear must be a no-op, not an error.
	r.Clear()
	if len(canvas.layers) != 0 || r.LayerCount() != 0 {
		t.Error("second clear left state behind")
	}
}

func TestRenderer_ExplicitRouteDrawsLineAndEndpoints(t *testing.T) {
	canvas := newMockCanvas()
	r := usecases.NewRenderer(canvas, &mockPanel{})

	start := domain.Waypoint{Lat: 26.9, Lng: 75.8}
	end := domain.Waypoint{Lat: 28.6, Lng: 77.2}
	r.RenderRoute(domain.RouteResolution{
		Waypoints: []domain.Waypoint{start, end},
		Tier:      domain.TierExplicitRoute,
	})

	if canvas.count("polyline") != 1 {
		t.Fatalf("polylines = %d, want 1", canvas.count("polyline"))
	}
	if canvas.count("marker") != 2 {
		t.Fatalf("markers = %d, want 2", canvas.count("marker"))
	}
	if canvas.count("fit") != 1 {
		t.Errorf("fit calls = %d, want 1", canvas.count("fit"))
	}
	var markerAts []domain.Waypoint
	for _, o := range canvas.ops {
		if o.op == "marker" {
			markerAts = append(markerAts, o.at)
		}
	}
	if markerAts[0] != start || markerAts[1] != end {
		t.Errorf("start/end markers misplaced: %+v", markerAts)
	}
}

func TestRenderer_DegradedRouteIsDashed(t *testing.T) {
	canvas := newMockCanvas()
	r := usecases.NewRenderer(canvas, &mockPanel{})

	r.RenderRoute(domain.RouteResolution{
		Waypoints: []domain.Waypoint{{Lat: 26.9, Lng: 75.8}, {Lat: 28.6, Lng: 77.2}},
		Tier:      domain.TierFuzzyMatched,
		Degraded:  true,
	})
	for _, o := range canvas.ops {
		if o.op == "polyline" && !o.dashed {
			t.Error("degraded route drawn with solid line")
		}
	}
}

func TestRenderer_SinglePointCentersView(t *testing.T) {
	canvas := newMockCanvas()
	r := usecases.NewRenderer(canvas, &mockPanel{})

	at := domain.Waypoint{Lat: 26.9124, Lng: 75.7873}
	r.RenderRoute(domain.RouteResolution{
		Waypoints: []domain.Waypoint{at},
		Tier:      domain.TierSinglePoint,
	})
	if canvas.count("marker") != 1 {
		t.Fatalf("markers = %d, want 1", canvas.count("marker"))
	}
	if canvas.count("polyline") != 0 {
		t.Error("single point must not draw a line")
	}
	if canvas.count("view") != 1 {
		t.Error("expected viewport centered")
	}
}

func TestRenderer_NoneDrawsNothing(t *testing.T) {
	canvas := newMockCanvas()
	r := usecases.NewRenderer(canvas, &mockPanel{})
	r.RenderRoute(domain.RouteResolution{Tier: domain.TierNone})
	if len(canvas.ops) != 0 {
		t.Errorf("NONE tier produced %d canvas ops", len(canvas.ops))
	}
}

func TestRenderer_PopupFallbacks(t *testing.T) {
	canvas := newMockCanvas()
	r := usecases.NewRenderer(canvas, &mockPanel{})

	lat, lng := 28.6562, 77.2410
	r.RenderPlaces([]domain.Place{{Name: "Red Fort", Lat: &lat, Lng: &lng}})
	if canvas.count("marker") != 1 {
		t.Fatalf("markers = %d", canvas.count("marker"))
	}
	popup := canvas.ops[0].popup
	for _, want := range []string{"A wonderful place to visit.", "10:00 AM - 5:00 PM", "₹200", "placehold.co"} {
		if !strings.Contains(popup, want) {
			t.Errorf("popup missing fallback %q", want)
		}
	}
}

func TestRenderer_FocusPlace(t *testing.T) {
	canvas := newMockCanvas()
	r := usecases.NewRenderer(canvas, &mockPanel{})

	lat, lng := 28.6129, 77.2295
	r.RenderPlaces([]domain.Place{{Name: "India Gate", Lat: &lat, Lng: &lng}})

	if !r.FocusPlace("india gate") {
		t.Fatal("expected focus hit by normalized name")
	}
	if canvas.count("view") != 1 || canvas.count("popup") != 1 {
		t.Error("focus should re-center and open the popup")
	}

	if r.FocusPlace("unknown") {
		t.Error("unknown place should be a miss, not a panic")
	}

	r.Clear()
	if r.FocusPlace("India Gate") {
		t.Error("lookup must be rebuilt on clear")
	}
}

func TestRenderer_PlacesWithoutCoordsSkipped(t *testing.T) {
	canvas := newMockCanvas()
	r := usecases.NewRenderer(canvas, &mockPanel{})
	r.RenderPlaces([]domain.Place{{Name: "Nowhere Special"}})
	if canvas.count("marker") != 0 {
		t.Error("unlocated place must not draw a marker")
	}
}

func TestRenderer_CategoryIcons(t *testing.T) {
	canvas := newMockCanvas()
	r := usecases.NewRenderer(canvas, &mockPanel{})
	lat, lng := 28.6, 77.2
	r.RenderPlaces([]domain.Place{
		{Name: "A", Lat: &lat, Lng: &lng, Category: domain.CategoryFood},
		{Name: "B", Lat: &lat, Lng: &lng},
	})
	if canvas.ops[0].icon != "food" {
		t.Errorf("icon = %q, want food", canvas.ops[0].icon)
	}
	if canvas.ops[1].icon != "default" {
		t.Errorf("icon = %q, want default", canvas.ops[1].icon)
	}
}

func TestRenderer_SinglePointDefaultsToCityCenter(t *testing.T) {
	canvas := newMockCanvas()
	r := usecases.NewRenderer(canvas, &mockPanel{})
	r.RenderRoute(domain.RouteResolution{Tier: domain.TierSinglePoint})
	if canvas.count("marker") != 1 {
		t.Fatal("expected one marker")
	}
	if canvas.ops[0].at != gazetteer.DefaultCenter {
		t.Errorf("marker at %+v, want default center", canvas.ops[0].at)
	}
}
