package usecases

import (
	"encoding/json"
	"strings"

	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/core/gazetteer"
)

// Normalizer classifies loosely-typed backend entries into canonical
// waypoints and places. It is a best-effort classifier, not a validator:
// entries that match no interpretation are skipped, never errors.
type Normalizer struct {
	gaz *gazetteer.Gazetteer
}

// NewNormalizer creates a Normalizer backed by the given gazetteer.
func NewNormalizer(gaz *gazetteer.Gazetteer) *Normalizer {
	return &Normalizer{gaz: gaz}
}

// latLng and latitudeLongitude are the two object spellings backends emit.
type latLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type latitudeLongitude struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type namedEntry struct {
	Name string `json:"name"`
}

// Waypoint tries each interpretation in order and returns the first hit:
// [lat,lng] pair, {lat,lng}, {latitude,longitude}, then a string or {name}
// resolved through the gazetteer. ok is false when nothing matched.
func (n *Normalizer) Waypoint(raw json.RawMessage) (domain.Waypoint, bool) {
	if len(raw) == 0 {
		return domain.Waypoint{}, false
	}

	var pair []float64
	if err := json.Unmarshal(raw, &pair); err == nil && len(pair) == 2 {
		w := domain.Waypoint{Lat: pair[0], Lng: pair[1]}
		if w.Valid() {
			return w, true
		}
		return domain.Waypoint{}, false
	}

	var ll latLng
	if err := json.Unmarshal(raw, &ll); err == nil && ll.Lat != nil && ll.Lng != nil {
		w := domain.Waypoint{Lat: *ll.Lat, Lng: *ll.Lng}
		if w.Valid() {
			return w, true
		}
		return domain.Waypoint{}, false
	}

	var alias latitudeLongitude
	if err := json.Unmarshal(raw, &alias); err == nil && alias.Latitude != nil && alias.Longitude != nil {
		w := domain.Waypoint{Lat: *alias.Latitude, Lng: *alias.Longitude}
		if w.Valid() {
			return w, true
		}
		return domain.Waypoint{}, false
	}

	if name, ok := entryName(raw); ok {
		if e, found := n.gaz.Resolve(name); found {
			return e.Location, true
		}
	}
	return domain.Waypoint{}, false
}

// Waypoints maps the classifier over a list, dropping unrecognized entries.
func (n *Normalizer) Waypoints(raws []json.RawMessage) []domain.Waypoint {
	var out []domain.Waypoint
	for _, raw := range raws {
		if w, ok := n.Waypoint(raw); ok {
			out = append(out, w)
		}
	}
	return out
}

// Segments interprets a day route that may be either a flat waypoint list or a
// list of per-hop segments. Each entry is first tried as a waypoint; failing
// that, as a waypoint list of its own.
func (n *Normalizer) Segments(raws []json.RawMessage) [][]domain.Waypoint {
	var segments [][]domain.Waypoint
	var flat []domain.Waypoint
	for _, raw := range raws {
		if w, ok := n.Waypoint(raw); ok {
			flat = append(flat, w)
			continue
		}
		var inner []json.RawMessage
		if err := json.Unmarshal(raw, &inner); err == nil {
			if seg := n.Waypoints(inner); len(seg) > 0 {
				segments = append(segments, seg)
			}
		}
	}
	if len(flat) > 0 {
		segments = append([][]domain.Waypoint{flat}, segments...)
	}
	return segments
}

// Place interprets an entry as a named place: a bare string, or an object with
// a name plus optional coordinates and popup metadata. Coordinates missing
// from the entry are filled from the gazetteer when the name resolves.
func (n *Normalizer) Place(raw json.RawMessage) (domain.Place, bool) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		name = strings.TrimSpace(name)
		if name == "" {
			return domain.Place{}, false
		}
		p := domain.Place{Name: name}
		n.fillLocation(&p)
		return p, true
	}

	var p domain.Place
	if err := json.Unmarshal(raw, &p); err != nil || strings.TrimSpace(p.Name) == "" {
		return domain.Place{}, false
	}
	p.Name = strings.TrimSpace(p.Name)
	if _, ok := p.Location(); !ok {
		// Tolerate the latitude/longitude spelling on place objects too.
		var alias latitudeLongitude
		if err := json.Unmarshal(raw, &alias); err == nil && alias.Latitude != nil && alias.Longitude != nil {
			p.Lat, p.Lng = alias.Latitude, alias.Longitude
		}
	}
	if _, ok := p.Location(); !ok {
		n.fillLocation(&p)
	}
	return p, true
}

// Places maps Place over a list, dropping unrecognized entries.
func (n *Normalizer) Places(raws []json.RawMessage) []domain.Place {
	var out []domain.Place
	for _, raw := range raws {
		if p, ok := n.Place(raw); ok {
			out = append(out, p)
		}
	}
	return out
}

func (n *Normalizer) fillLocation(p *domain.Place) {
	if e, ok := n.gaz.Resolve(p.Name); ok {
		lat, lng := e.Location.Lat, e.Location.Lng
		p.Lat, p.Lng = &lat, &lng
	}
}

// entryName extracts the lookup name from a string or {name} entry.
func entryName(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	var named namedEntry
	if err := json.Unmarshal(raw, &named); err == nil {
		name := strings.TrimSpace(named.Name)
		return name, name != ""
	}
	return "", false
}
