package domain

import "math"

// Waypoint represents a geographic coordinate (WGS 84) used for drawing.
type Waypoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both coordinates are finite and within geographic range.
func (w Waypoint) Valid() bool {
	if math.IsNaN(w.Lat) || math.IsInf(w.Lat, 0) || math.IsNaN(w.Lng) || math.IsInf(w.Lng, 0) {
		return false
	}
	return w.Lat >= -90 && w.Lat <= 90 && w.Lng >= -180 && w.Lng <= 180
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// BoundsOf returns the bounding box of the given waypoints.
// The second return value is false when the slice is empty.
func BoundsOf(wps []Waypoint) (Bounds, bool) {
	if len(wps) == 0 {
		return Bounds{}, false
	}
	b := Bounds{MinLat: wps[0].Lat, MinLng: wps[0].Lng, MaxLat: wps[0].Lat, MaxLng: wps[0].Lng}
	for _, w := range wps[1:] {
		b = b.Extend(w)
	}
	return b, true
}

// Extend grows the box to include w.
func (b Bounds) Extend(w Waypoint) Bounds {
	if w.Lat < b.MinLat {
		b.MinLat = w.Lat
	}
	if w.Lat > b.MaxLat {
		b.MaxLat = w.Lat
	}
	if w.Lng < b.MinLng {
		b.MinLng = w.Lng
	}
	if w.Lng > b.MaxLng {
		b.MaxLng = w.Lng
	}
	return b
}

// Pad expands the box on every side by the given fraction of its span.
func (b Bounds) Pad(fraction float64) Bounds {
	dLat := (b.MaxLat - b.MinLat) * fraction
	dLng := (b.MaxLng - b.MinLng) * fraction
	return Bounds{
		MinLat: b.MinLat - dLat,
		MinLng: b.MinLng - dLng,
		MaxLat: b.MaxLat + dLat,
		MaxLng: b.MaxLng + dLng,
	}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Waypoint {
	return Waypoint{Lat: (b.MinLat + b.MaxLat) / 2, Lng: (b.MinLng + b.MaxLng) / 2}
}
