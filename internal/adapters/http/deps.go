package http

import (
	"github.com/nats-io/nats.go"
	"github.com/yatramap/yatramap/internal/adapters/postgres"
	"github.com/yatramap/yatramap/internal/adapters/valkey"
	"github.com/yatramap/yatramap/internal/core/gazetteer"
	"github.com/yatramap/yatramap/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Plans     *usecases.PlanService
	Sites     *usecases.SiteService
	Trips     *usecases.TripService
	Gazetteer *gazetteer.Gazetteer
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
}
