// Package gazetteer maps well-known place names to coordinates without any
// network geocoding. Lookup order is significant: entries are kept as an
// ordered slice and the first substring match wins, so more specific names
// must be registered before the cities that contain them.
package gazetteer

import (
	"strings"

	"github.com/yatramap/yatramap/internal/core/domain"
)

// DefaultCenter is the viewport used when nothing at all could be resolved.
var DefaultCenter = domain.Waypoint{Lat: 28.6139, Lng: 77.2090} // Delhi

// DefaultZoom pairs with DefaultCenter.
const DefaultZoom = 12

// Entry is one named location in the table.
type Entry struct {
	Key      string // normalized: lowercase, letters only
	Name     string
	Location domain.Waypoint
}

// Gazetteer is an ordered place-name table.
type Gazetteer struct {
	entries []Entry
	index   map[string]int
}

// New returns a gazetteer seeded with the built-in table.
func New() *Gazetteer {
	g := &Gazetteer{index: make(map[string]int)}
	for _, e := range builtins {
		g.Add(e.Name, e.Location)
	}
	return g
}

// Add registers a name. Re-adding an existing key overwrites its location but
// keeps its original position in the match order.
func (g *Gazetteer) Add(name string, loc domain.Waypoint) {
	key := NormalizeKey(name)
	if key == "" {
		return
	}
	if i, ok := g.index[key]; ok {
		g.entries[i].Location = loc
		g.entries[i].Name = name
		return
	}
	g.index[key] = len(g.entries)
	g.entries = append(g.entries, Entry{Key: key, Name: name, Location: loc})
}

// Lookup resolves an exact (normalized) name.
func (g *Gazetteer) Lookup(name string) (domain.Waypoint, bool) {
	i, ok := g.index[NormalizeKey(name)]
	if !ok {
		return domain.Waypoint{}, false
	}
	return g.entries[i].Location, true
}

// Resolve finds the first entry whose key occurs as a substring of the
// normalized input. "Jaipur sightseeing tour" therefore resolves to jaipur.
func (g *Gazetteer) Resolve(name string) (Entry, bool) {
	key := NormalizeKey(name)
	if key == "" {
		return Entry{}, false
	}
	if i, ok := g.index[key]; ok {
		return g.entries[i], true
	}
	for _, e := range g.entries {
		if strings.Contains(key, e.Key) {
			return e, true
		}
	}
	return Entry{}, false
}

// Len reports the number of registered entries.
func (g *Gazetteer) Len() int { return len(g.entries) }

// NormalizeKey lowercases the name and strips everything that is not a letter,
// so "Qutub Minar" and "qutubminar" collide.
func NormalizeKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Built-in table. Monuments come before their host cities so that
// "Red Fort Delhi" resolves to the fort, not the city.
var builtins = []Entry{
	{Name: "Red Fort", Location: domain.Waypoint{Lat: 28.6562, Lng: 77.2410}},
	{Name: "Qutub Minar", Location: domain.Waypoint{Lat: 28.5245, Lng: 77.1855}},
	{Name: "Chandni Chowk", Location: domain.Waypoint{Lat: 28.6564, Lng: 77.2303}},
	{Name: "India Gate", Location: domain.Waypoint{Lat: 28.6129, Lng: 77.2295}},
	{Name: "Humayuns Tomb", Location: domain.Waypoint{Lat: 28.5933, Lng: 77.2507}},
	{Name: "Lotus Temple", Location: domain.Waypoint{Lat: 28.5535, Lng: 77.2588}},
	{Name: "Dilkusha Kothi", Location: domain.Waypoint{Lat: 26.8381, Lng: 80.9910}},
	{Name: "Rumi Darwaza", Location: domain.Waypoint{Lat: 26.8696, Lng: 80.9134}},
	{Name: "Vijay Chowk", Location: domain.Waypoint{Lat: 28.6145, Lng: 77.2038}},
	{Name: "The Residency", Location: domain.Waypoint{Lat: 26.8605, Lng: 80.9466}},
	{Name: "Jaipur", Location: domain.Waypoint{Lat: 26.9124, Lng: 75.7873}},
	{Name: "Ajmer", Location: domain.Waypoint{Lat: 26.4499, Lng: 74.6399}},
	{Name: "Pushkar", Location: domain.Waypoint{Lat: 26.4890, Lng: 74.5510}},
	{Name: "Delhi", Location: domain.Waypoint{Lat: 28.6139, Lng: 77.2090}},
	{Name: "Agra", Location: domain.Waypoint{Lat: 27.1767, Lng: 78.0081}},
}
