package domain

import (
	"strconv"
	"time"
)

// Trip is a persisted plan request and its outcome, kept for history.
type Trip struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	City      string    `json:"city,omitempty"`
	Places    []string  `json:"places,omitempty"`
	Food      []string  `json:"food,omitempty"`
	Itinerary Itinerary `json:"itinerary"`
	Tier      Tier      `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
}

// Site is a curated point of interest stored in the sites database.
type Site struct {
	ID          string    `json:"id"`
	City        string    `json:"city"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Description string    `json:"description,omitempty"`
	Location    *Waypoint `json:"location,omitempty"`
	OpeningHrs  string    `json:"opening_hours,omitempty"`
	TicketPrice *float64  `json:"ticket_price,omitempty"`
	BestTime    string    `json:"best_time_to_visit,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AsPlace converts a curated site into a plan place, carrying over the popup
// fields the renderer knows how to show.
func (s Site) AsPlace() Place {
	p := Place{
		Name:        s.Name,
		Category:    s.Category,
		Description: s.Description,
		PhotoURL:    s.ImageURL,
	}
	if s.Location != nil {
		lat, lng := s.Location.Lat, s.Location.Lng
		p.Lat, p.Lng = &lat, &lng
	}
	if s.TicketPrice != nil {
		p.TicketPrice = formatPrice(*s.TicketPrice)
	}
	return p
}

func formatPrice(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', -1, 64)
}
