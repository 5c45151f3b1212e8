package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/yatramap/yatramap/internal/adapters/postgres"
	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/pkg/config"
)

// ---------------------------------------------------------------------------
// Manifest types
// ---------------------------------------------------------------------------

type Manifest struct {
	Source string      `json:"source"`
	Sites  []SiteEntry `json:"sites"`
}

type SiteEntry struct {
	City        string   `json:"city"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	OpeningHrs  string   `json:"opening_hours,omitempty"`
	TicketPrice *float64 `json:"ticket_price,omitempty"`
	BestTime    string   `json:"best_time_to_visit,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	cfg, err := config.Load("yatramap-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Load manifest
	manifestPath := "data/sites.json"
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		log.Fatalf("read manifest: %v", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		log.Fatalf("parse manifest: %v", err)
	}

	log.Printf("YatraMap Site Seeder — %d sites from %s", len(manifest.Sites), manifest.Source)

	// Filter cities (optional CLI arg: comma-separated city list)
	cityFilter := map[string]bool{}
	if len(os.Args) > 2 {
		for _, c := range strings.Split(os.Args[2], ",") {
			cityFilter[strings.ToLower(strings.TrimSpace(c))] = true
		}
	}

	byCity := map[string][]domain.Site{}
	for _, e := range manifest.Sites {
		city := strings.ToLower(strings.TrimSpace(e.City))
		if len(cityFilter) > 0 && !cityFilter[city] {
			continue
		}
		byCity[city] = append(byCity[city], toSite(city, e))
	}

	repo := postgres.NewSiteRepo(db)

	var wg sync.WaitGroup
	sem := make(chan struct{}, 4) // max 4 cities in flight

	for city, sites := range byCity {
		wg.Add(1)
		go func(city string, sites []domain.Site) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := repo.UpsertBatch(ctx, sites); err != nil {
				log.Printf("ERROR [%s]: %v", city, err)
				return
			}
			log.Printf("OK  %-12s %d sites", city, len(sites))
		}(city, sites)
	}

	wg.Wait()
	log.Println("seeding complete")
}

func toSite(city string, e SiteEntry) domain.Site {
	cat := domain.Category(e.Category)
	if cat == "" {
		cat = domain.CategoryGeneral
	}
	return domain.Site{
		City:        city,
		Name:        strings.TrimSpace(e.Name),
		Category:    cat,
		Description: e.Description,
		Location:    &domain.Waypoint{Lat: e.Lat, Lng: e.Lng},
		OpeningHrs:  e.OpeningHrs,
		TicketPrice: e.TicketPrice,
		BestTime:    e.BestTime,
		ImageURL:    e.ImageURL,
	}
}
