package gazetteer

import (
	"testing"

	"github.com/yatramap/yatramap/internal/core/domain"
)

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"Qutub Minar":    "qutubminar",
		"  jaipur  ":     "jaipur",
		"Humayun's Tomb": "humayunstomb",
		"123!?":          "",
	}
	for in, want := range cases {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLookupExact(t *testing.T) {
	g := New()
	loc, ok := g.Lookup("Jaipur")
	if !ok {
		t.Fatal("expected jaipur to be present")
	}
	if loc.Lat != 26.9124 || loc.Lng != 75.7873 {
		t.Errorf("unexpected location %+v", loc)
	}
	if _, ok := g.Lookup("Atlantis"); ok {
		t.Error("expected miss for unknown place")
	}
}

func TestResolveSubstring(t *testing.T) {
	g := New()
	e, ok := g.Resolve("Jaipur sightseeing tour")
	if !ok {
		t.Fatal("expected substring match")
	}
	if e.Key != "jaipur" {
		t.Errorf("matched %q, want jaipur", e.Key)
	}
}

func TestResolveMonumentBeforeCity(t *testing.T) {
	g := New()
	e, ok := g.Resolve("Red Fort, Delhi")
	if !ok {
		t.Fatal("expected match")
	}
	if e.Key != "redfort" {
		t.Errorf("matched %q, want redfort", e.Key)
	}
}

func TestAddOverwritesInPlace(t *testing.T) {
	g := New()
	before := g.Len()
	g.Add("Jaipur", domain.Waypoint{Lat: 1, Lng: 2})
	if g.Len() != before {
		t.Fatalf("overwrite changed length: %d -> %d", before, g.Len())
	}
	loc, _ := g.Lookup("jaipur")
	if loc.Lat != 1 || loc.Lng != 2 {
		t.Errorf("overwrite not applied: %+v", loc)
	}
}
