package usecases

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/core/gazetteer"
	"github.com/yatramap/yatramap/internal/core/ports"
)

// Popup fallbacks shown whenever the planner omits a field. Never render a
// blank popup row.
const (
	fallbackDescription = "A wonderful place to visit."
	fallbackHours       = "10:00 AM - 5:00 PM"
	fallbackPrice       = "₹200"
	fallbackPhotoURL    = "https://placehold.co/200x120?text=Photo"
)

const (
	focusZoom   = 14
	fitPadding  = 0.12
	startIcon   = "start"
	endIcon     = "end"
	defaultIcon = "default"
)

// Renderer owns the map layer lifecycle. Every marker and polyline the
// pipeline draws goes through here, so at most one pipeline-owned layer set
// exists at a time; Clear before redraw is the invariant that keeps it so.
type Renderer struct {
	canvas ports.MapCanvas
	panel  ports.PanelRenderer

	mu      sync.Mutex
	layers  []string
	markers map[string]markerRef // normalized place name -> marker
	nextID  int
}

type markerRef struct {
	layerID  string
	location domain.Waypoint
}

// NewRenderer creates a Renderer over the given surfaces.
func NewRenderer(canvas ports.MapCanvas, panel ports.PanelRenderer) *Renderer {
	return &Renderer{
		canvas:  canvas,
		panel:   panel,
		markers: make(map[string]markerRef),
	}
}

// Clear removes every layer previously added by the pipeline and resets the
// place-to-marker lookup. Idempotent: safe when nothing is drawn.
func (r *Renderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.layers {
		r.canvas.RemoveLayer(id)
	}
	r.layers = r.layers[:0]
	r.markers = make(map[string]markerRef)
}

// RenderRoute draws the resolved route according to its tier.
func (r *Renderer) RenderRoute(res domain.RouteResolution) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch res.Tier {
	case domain.TierNone:
		return
	case domain.TierSinglePoint:
		at := gazetteer.DefaultCenter
		if len(res.Waypoints) > 0 {
			at = res.Waypoints[0]
		}
		id := r.addMarker(at, defaultIcon, "")
		if len(res.Places) > 0 {
			r.markers[gazetteer.NormalizeKey(res.Places[0].Name)] = markerRef{layerID: id, location: at}
		}
		r.canvas.SetView(at, gazetteer.DefaultZoom)
	default:
		if len(res.Waypoints) < 2 {
			return
		}
		r.addPolyline(res.Waypoints, res.Degraded)
		r.addMarker(res.Waypoints[0], startIcon, "<b>Start</b>")
		r.addMarker(res.Waypoints[len(res.Waypoints)-1], endIcon, "<b>End</b>")
		if b, ok := domain.BoundsOf(res.Waypoints); ok {
			r.canvas.FitBounds(b, fitPadding)
		}
	}
}

// RenderPlaces adds one marker per locatable place, keyed by category icon,
// with a detail popup. The name-to-marker lookup built here backs FocusPlace
// until the next Clear.
func (r *Renderer) RenderPlaces(places []domain.Place) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range places {
		at, ok := p.Location()
		if !ok {
			continue
		}
		id := r.addMarker(at, iconFor(p.Category), popupHTML(p))
		r.markers[gazetteer.NormalizeKey(p.Name)] = markerRef{layerID: id, location: at}
	}
}

// RenderItinerary hands the canonical day list to the panel.
func (r *Renderer) RenderItinerary(days []domain.Day) {
	r.panel.ShowItinerary(days)
}

// RenderInstructions replaces the instructions panel contents. The panel shows
// its own placeholder when the step list is empty.
func (r *Renderer) RenderInstructions(steps []domain.InstructionStep) {
	r.panel.ShowInstructions(steps)
}

// FocusPlace re-centers the viewport on a rendered place's marker and opens
// its popup. Unknown names are a no-op, not an error.
func (r *Renderer) FocusPlace(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.markers[gazetteer.NormalizeKey(name)]
	if !ok {
		return false
	}
	r.canvas.SetView(ref.location, focusZoom)
	r.canvas.OpenPopup(ref.layerID)
	return true
}

// LayerCount reports how many pipeline-owned layers are currently drawn.
func (r *Renderer) LayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.layers)
}

// callers hold r.mu
func (r *Renderer) addMarker(at domain.Waypoint, icon, popup string) string {
	id := r.layerID("marker")
	r.canvas.AddMarker(id, at, icon, popup)
	r.layers = append(r.layers, id)
	return id
}

func (r *Renderer) addPolyline(points []domain.Waypoint, dashed bool) {
	id := r.layerID("line")
	r.canvas.AddPolyline(id, points, dashed)
	r.layers = append(r.layers, id)
}

func (r *Renderer) layerID(kind string) string {
	r.nextID++
	return fmt.Sprintf("%s-%d", kind, r.nextID)
}

func iconFor(cat domain.Category) string {
	switch cat {
	case domain.CategoryCulture, domain.CategoryFood, domain.CategoryAdventure, domain.CategoryNature:
		return string(cat)
	default:
		return defaultIcon
	}
}

func popupHTML(p domain.Place) string {
	desc := p.Description
	if desc == "" {
		desc = fallbackDescription
	}
	hours := strings.TrimSpace(p.OpeningTime + " - " + p.ClosingTime)
	if p.OpeningTime == "" || p.ClosingTime == "" {
		hours = fallbackHours
	}
	price := p.TicketPrice
	if price == "" {
		price = fallbackPrice
	}
	photo := p.PhotoURL
	if photo == "" {
		photo = fallbackPhotoURL
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>", html.EscapeString(p.Name))
	fmt.Fprintf(&b, "<div><b>Description:</b> %s</div>", html.EscapeString(desc))
	fmt.Fprintf(&b, `<img src=%q alt="photo">`, photo)
	fmt.Fprintf(&b, "<div><b>Timings:</b> %s</div>", html.EscapeString(hours))
	fmt.Fprintf(&b, "<div><b>Ticket Price:</b> %s</div>", html.EscapeString(price))
	return b.String()
}
