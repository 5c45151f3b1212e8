package usecases

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/core/gazetteer"
)

// Resolver turns a parsed plan document into one RouteResolution through the
// tiered fallback: explicit route, itinerary-derived, fuzzy-matched, single
// point, none. Exactly one tier fires per document.
type Resolver struct {
	norm *Normalizer
	gaz  *gazetteer.Gazetteer
}

// NewResolver creates a Resolver.
func NewResolver(norm *Normalizer, gaz *gazetteer.Gazetteer) *Resolver {
	return &Resolver{norm: norm, gaz: gaz}
}

// dayEnvelope mirrors the day shapes backends emit. day/label are aliases;
// activities can be strings or named objects.
type dayEnvelope struct {
	Day        json.RawMessage   `json:"day"`
	Label      json.RawMessage   `json:"label"`
	Places     []json.RawMessage `json:"places"`
	Activities []json.RawMessage `json:"activities"`
	Route      []json.RawMessage `json:"route"`
}

// Resolve runs the tier table over the document and also returns the
// canonicalized day list for panel rendering.
func (r *Resolver) Resolve(doc *PlanDocument) (domain.RouteResolution, []domain.Day) {
	days := r.Days(doc.Days)

	places := r.norm.Places(doc.Places)
	if len(places) == 0 {
		for _, d := range days {
			places = append(places, d.Places...)
		}
	}

	// Tier 1: explicit top-level route.
	if wps := Dedup(r.norm.Waypoints(doc.Route)); len(wps) >= 2 {
		return resolution(wps, domain.TierExplicitRoute, places), days
	}

	// Tier 2: derive from the itinerary structure.
	if wps := Dedup(r.fromDays(days)); len(wps) >= 2 {
		return resolution(wps, domain.TierItineraryDerived, places), days
	}

	// Tier 3: fuzzy-match the named places list.
	if wps := Dedup(placeWaypoints(places)); len(wps) >= 2 {
		return resolution(wps, domain.TierFuzzyMatched, places), days
	}

	// Terminal tiers. NONE only when the document carried no route or place
	// data at all; any data that merely failed to resolve still yields a
	// single marker at the default center.
	if len(doc.Route) == 0 && len(doc.Places) == 0 && len(doc.Days) == 0 {
		return domain.RouteResolution{Tier: domain.TierNone}, days
	}
	point := gazetteer.DefaultCenter
	if wps := r.anyWaypoint(doc, days, places); len(wps) == 1 {
		point = wps[0]
	}
	return resolution([]domain.Waypoint{point}, domain.TierSinglePoint, places), days
}

// Days canonicalizes raw day entries. Flat day routes become one segment.
func (r *Resolver) Days(raws []json.RawMessage) []domain.Day {
	var days []domain.Day
	for i, raw := range raws {
		var env dayEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}
		d := domain.Day{
			Label:    dayLabel(env, i),
			Places:   r.norm.Places(env.Places),
			Segments: r.norm.Segments(env.Route),
		}
		for _, act := range env.Activities {
			if name, ok := entryName(act); ok {
				d.Activities = append(d.Activities, name)
			}
		}
		if len(d.Places) == 0 && len(d.Activities) == 0 && len(d.Segments) == 0 {
			continue
		}
		days = append(days, d)
	}
	return days
}

// fromDays concatenates waypoints across all days: route segments first, then
// located places, then activities pushed through the classifier.
func (r *Resolver) fromDays(days []domain.Day) []domain.Waypoint {
	var wps []domain.Waypoint
	for _, d := range days {
		for _, seg := range d.Segments {
			wps = append(wps, seg...)
		}
	}
	if len(wps) >= 2 {
		return wps
	}
	for _, d := range days {
		wps = append(wps, placeWaypoints(d.Places)...)
	}
	if len(wps) >= 2 {
		return wps
	}
	for _, d := range days {
		for _, act := range d.Activities {
			if e, ok := r.gaz.Resolve(act); ok {
				wps = append(wps, e.Location)
			}
		}
	}
	return wps
}

// anyWaypoint returns the first resolvable waypoint from any source, in tier
// order, as a single-element slice; empty when nothing resolves.
func (r *Resolver) anyWaypoint(doc *PlanDocument, days []domain.Day, places []domain.Place) []domain.Waypoint {
	if wps := r.norm.Waypoints(doc.Route); len(wps) > 0 {
		return wps[:1]
	}
	if wps := r.fromDays(days); len(wps) > 0 {
		return wps[:1]
	}
	if wps := placeWaypoints(places); len(wps) > 0 {
		return wps[:1]
	}
	return nil
}

func placeWaypoints(places []domain.Place) []domain.Waypoint {
	var wps []domain.Waypoint
	for _, p := range places {
		if w, ok := p.Location(); ok {
			wps = append(wps, w)
		}
	}
	return wps
}

func resolution(wps []domain.Waypoint, tier domain.Tier, places []domain.Place) domain.RouteResolution {
	return domain.RouteResolution{
		Waypoints: wps,
		Tier:      tier,
		Places:    places,
		Degraded:  len(places) > 0 && len(wps) < len(places),
	}
}

func dayLabel(env dayEnvelope, index int) string {
	for _, raw := range []json.RawMessage{env.Label, env.Day} {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return fmt.Sprintf("Day %d", int(n))
		}
	}
	return fmt.Sprintf("Day %d", index+1)
}
