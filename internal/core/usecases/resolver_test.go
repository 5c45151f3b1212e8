package usecases_test

import (
	"testing"

	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/core/gazetteer"
	"github.com/yatramap/yatramap/internal/core/usecases"
)

func newResolver() *usecases.Resolver {
	gaz := gazetteer.New()
	return usecases.NewResolver(usecases.NewNormalizer(gaz), gaz)
}

func parseDoc(t *testing.T, raw string) *usecases.PlanDocument {
	t.Helper()
	doc, _ := usecases.ParsePlanDocument([]byte(raw))
	return doc
}

func TestResolver_ExplicitRoute(t *testing.T) {
	doc := parseDoc(t, `{"route": [[26.9, 75.8], [28.6, 77.2]]}`)
	res, _ := newResolver().Resolve(doc)
	if res.Tier != domain.TierExplicitRoute {
		t.Fatalf("tier = %s, want EXPLICIT_ROUTE", res.Tier)
	}
	if len(res.Waypoints) != 2 {
		t.Fatalf("got %d waypoints", len(res.Waypoints))
	}
	if res.Waypoints[0].Lat != 26.9 || res.Waypoints[1].Lng != 77.2 {
		t.Errorf("waypoint order wrong: %+v", res.Waypoints)
	}
}

// An explicit route with enough points must win even when lower tiers would
// also produce waypoints.
func TestResolver_TierMonotonicity(t *testing.T) {
	doc := parseDoc(t, `{
		"route": [[26.9, 75.8], [28.6, 77.2]],
		"places": ["Agra", "Pushkar"],
		"days": [{"day": "Day 1", "places": ["Red Fort", "India Gate"]}]
	}`)
	res, _ := newResolver().Resolve(doc)
	if res.Tier != domain.TierExplicitRoute {
		t.Fatalf("tier = %s, want EXPLICIT_ROUTE", res.Tier)
	}
}

func TestResolver_ItineraryDerived(t *testing.T) {
	doc := parseDoc(t, `{
		"route": [],
		"days": [
			{"day": "Day 1", "places": [{"name": "Red Fort"}, {"name": "India Gate"}]},
			{"day": "Day 2", "places": [{"name": "Qutub Minar"}]}
		]
	}`)
	res, days := newResolver().Resolve(doc)
	if res.Tier != domain.TierItineraryDerived {
		t.Fatalf("tier = %s, want ITINERARY_DERIVED", res.Tier)
	}
	if len(res.Waypoints) != 3 {
		t.Errorf("got %d waypoints", len(res.Waypoints))
	}
	if len(days) != 2 {
		t.Errorf("got %d days", len(days))
	}
	if days[0].Label != "Day 1" {
		t.Errorf("day label = %q", days[0].Label)
	}
}

func TestResolver_FuzzyMatched(t *testing.T) {
	doc := parseDoc(t, `{"route": [], "places": ["Jaipur Fort", "Old Delhi Market"]}`)
	res, _ := newResolver().Resolve(doc)
	if res.Tier != domain.TierFuzzyMatched {
		t.Fatalf("tier = %s, want FUZZY_MATCHED", res.Tier)
	}
	if len(res.Waypoints) != 2 {
		t.Errorf("got %d waypoints", len(res.Waypoints))
	}
}

// Two places that collapse to the same gazetteer coordinate leave only one
// waypoint after dedup, so resolution degrades to a single marker.
func TestResolver_SinglePointAfterDedupCollapse(t *testing.T) {
	doc := parseDoc(t, `{"route": [], "places": ["Jaipur Fort", "Hotel in Jaipur"]}`)
	res, _ := newResolver().Resolve(doc)
	if res.Tier != domain.TierSinglePoint {
		t.Fatalf("tier = %s, want SINGLE_POINT", res.Tier)
	}
	if len(res.Waypoints) != 1 {
		t.Fatalf("got %d waypoints", len(res.Waypoints))
	}
	if res.Waypoints[0].Lat != 26.9124 {
		t.Errorf("expected jaipur coordinate, got %+v", res.Waypoints[0])
	}
}

func TestResolver_SinglePointDefaultCenter(t *testing.T) {
	doc := parseDoc(t, `{"route": [], "places": ["Atlantis"]}`)
	res, _ := newResolver().Resolve(doc)
	if res.Tier != domain.TierSinglePoint {
		t.Fatalf("tier = %s, want SINGLE_POINT", res.Tier)
	}
	if len(res.Waypoints) != 1 || res.Waypoints[0] != gazetteer.DefaultCenter {
		t.Errorf("expected default center, got %+v", res.Waypoints)
	}
}

func TestResolver_NoneWhenNoData(t *testing.T) {
	doc := parseDoc(t, `{"route": [], "places": [], "itinerary": []}`)
	res, days := newResolver().Resolve(doc)
	if res.Tier != domain.TierNone {
		t.Fatalf("tier = %s, want NONE", res.Tier)
	}
	if len(res.Waypoints) != 0 || len(days) != 0 {
		t.Errorf("expected empty resolution, got %+v / %d days", res.Waypoints, len(days))
	}
}

func TestResolver_MalformedEntriesSkipped(t *testing.T) {
	doc := parseDoc(t, `{"route": [[26.9, 75.8], "garbage", {"lat": "x"}, [28.6, 77.2]]}`)
	res, _ := newResolver().Resolve(doc)
	if res.Tier != domain.TierExplicitRoute {
		t.Fatalf("tier = %s", res.Tier)
	}
	if len(res.Waypoints) != 2 {
		t.Errorf("got %d waypoints, want 2", len(res.Waypoints))
	}
}

func TestResolver_DegradedWhenPlacesOutnumberWaypoints(t *testing.T) {
	doc := parseDoc(t, `{
		"route": [[26.9, 75.8], [28.6, 77.2]],
		"places": ["Red Fort", "India Gate", "Nowhere Special"]
	}`)
	res, _ := newResolver().Resolve(doc)
	if !res.Degraded {
		t.Error("expected degraded resolution")
	}
}

func TestParsePlanDocument_TopLevelGarbage(t *testing.T) {
	doc, ok := usecases.ParsePlanDocument([]byte(`not json at all`))
	if ok {
		t.Error("expected parse failure flag")
	}
	res, _ := newResolver().Resolve(doc)
	if res.Tier != domain.TierNone {
		t.Errorf("tier = %s, want NONE", res.Tier)
	}
}

func TestParsePlanDocument_FieldGarbageTolerated(t *testing.T) {
	doc, ok := usecases.ParsePlanDocument([]byte(`{
		"status": 42,
		"route": "not an array",
		"places": ["Jaipur"],
		"food": [1, 2, "Dal Baati"]
	}`))
	if !ok {
		t.Fatal("object top level should parse")
	}
	if len(doc.Places) != 1 {
		t.Errorf("places = %d", len(doc.Places))
	}
	if len(doc.Food) != 1 || doc.Food[0] != "Dal Baati" {
		t.Errorf("food = %v", doc.Food)
	}
}
