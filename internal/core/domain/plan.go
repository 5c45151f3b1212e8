package domain

// Tier identifies which resolution strategy produced a set of route waypoints.
// Tiers are ordered from most to least faithful to the planner response.
type Tier int

const (
	TierExplicitRoute Tier = iota
	TierItineraryDerived
	TierFuzzyMatched
	TierSinglePoint
	TierNone
)

func (t Tier) String() string {
	switch t {
	case TierExplicitRoute:
		return "EXPLICIT_ROUTE"
	case TierItineraryDerived:
		return "ITINERARY_DERIVED"
	case TierFuzzyMatched:
		return "FUZZY_MATCHED"
	case TierSinglePoint:
		return "SINGLE_POINT"
	default:
		return "NONE"
	}
}

// Category classifies a place of interest.
type Category string

const (
	CategoryCulture   Category = "culture"
	CategoryFood      Category = "food"
	CategoryAdventure Category = "adventure"
	CategoryNature    Category = "nature"
	CategoryGeneral   Category = "general"
)

// Place is a named point of interest from a plan response. Coordinates are
// optional: a place can be named without the planner supplying a location.
type Place struct {
	Name        string   `json:"name"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Category    Category `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	OpeningTime string   `json:"opening_time,omitempty"`
	ClosingTime string   `json:"closing_time,omitempty"`
	TicketPrice string   `json:"ticket_price,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`
}

// Location returns the place's waypoint when both coordinates are present.
func (p Place) Location() (Waypoint, bool) {
	if p.Lat == nil || p.Lng == nil {
		return Waypoint{}, false
	}
	w := Waypoint{Lat: *p.Lat, Lng: *p.Lng}
	return w, w.Valid()
}

// Day is the canonical form of one itinerary day. A flat day route becomes a
// single segment; per-hop route lists keep one segment per hop.
type Day struct {
	Label      string       `json:"label"`
	Places     []Place      `json:"places,omitempty"`
	Activities []string     `json:"activities,omitempty"`
	Segments   [][]Waypoint `json:"segments,omitempty"`
}

// Itinerary is the full canonical plan: the day list plus everything resolved
// from it.
type Itinerary struct {
	City  string   `json:"city,omitempty"`
	Days  []Day    `json:"days"`
	Food  []string `json:"food,omitempty"`
	Notes string   `json:"notes,omitempty"`
}

// RouteResolution is the outcome of the tiered route fallback: the waypoints to
// draw, which tier produced them, and the named places that survived
// normalization.
type RouteResolution struct {
	Waypoints []Waypoint `json:"waypoints"`
	Tier      Tier       `json:"tier"`
	Places    []Place    `json:"places,omitempty"`

	// Degraded is set when fewer waypoints resolved than places were named,
	// so the drawn line is known to be incomplete.
	Degraded bool `json:"degraded,omitempty"`
}
