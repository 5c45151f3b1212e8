package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/yatramap/yatramap/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	waypointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Waypoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	dayType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Day",
		Fields: graphql.Fields{
			"label":      &graphql.Field{Type: graphql.String},
			"activities": &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	tripType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trip",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.String},
			"prompt": &graphql.Field{Type: graphql.String},
			"city":   &graphql.Field{Type: graphql.String},
			"places": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"food":   &graphql.Field{Type: graphql.NewList(graphql.String)},
			"tier": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if t, ok := p.Source.(domain.Trip); ok {
						return t.Tier.String(), nil
					}
					return nil, nil
				},
			},
			"days": &graphql.Field{
				Type: graphql.NewList(dayType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if t, ok := p.Source.(domain.Trip); ok {
						return t.Itinerary.Days, nil
					}
					return nil, nil
				},
			},
			"created_at": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if t, ok := p.Source.(domain.Trip); ok {
						return t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), nil
					}
					return nil, nil
				},
			},
		},
	})

	siteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Site",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: graphql.String},
			"city":               &graphql.Field{Type: graphql.String},
			"name":               &graphql.Field{Type: graphql.String},
			"category":           &graphql.Field{Type: graphql.String},
			"description":        &graphql.Field{Type: graphql.String},
			"location":           &graphql.Field{Type: waypointType},
			"opening_hours":      &graphql.Field{Type: graphql.String},
			"ticket_price":       &graphql.Field{Type: graphql.Float},
			"best_time_to_visit": &graphql.Field{Type: graphql.String},
			"image_url":          &graphql.Field{Type: graphql.String},
		},
	})

	placeEntryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PlaceEntry",
		Fields: graphql.Fields{
			"key":      &graphql.Field{Type: graphql.String},
			"name":     &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: waypointType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"recentTrips": &graphql.Field{
				Type:        graphql.NewList(tripType),
				Description: "Latest saved trips, newest first",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit := p.Args["limit"].(int)
					return deps.Trips.Recent(p.Context, limit)
				},
			},
			"trip": &graphql.Field{
				Type:        tripType,
				Description: "Get a saved trip by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					trip, err := deps.Trips.GetByID(p.Context, id)
					if err != nil {
						return nil, err
					}
					return *trip, nil
				},
			},
			"sites": &graphql.Field{
				Type:        graphql.NewList(siteType),
				Description: "Curated sites in a city, optionally by category",
				Args: graphql.FieldConfigArgument{
					"city":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					city := p.Args["city"].(string)
					category := domain.Category(p.Args["category"].(string))
					limit := p.Args["limit"].(int)
					return deps.Sites.ListByCity(p.Context, city, category, limit)
				},
			},
			"searchSites": &graphql.Field{
				Type:        graphql.NewList(siteType),
				Description: "Search sites by name (fuzzy matching)",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := p.Args["query"].(string)
					limit := p.Args["limit"].(int)
					return deps.Sites.Search(p.Context, q, limit)
				},
			},
			"site": &graphql.Field{
				Type:        siteType,
				Description: "Get a site by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					site, err := deps.Sites.GetByID(p.Context, id)
					if err != nil {
						return nil, err
					}
					return *site, nil
				},
			},
			"resolvePlace": &graphql.Field{
				Type:        placeEntryType,
				Description: "Resolve a free-form place name through the gazetteer",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name := p.Args["name"].(string)
					entry, ok := deps.Gazetteer.Resolve(name)
					if !ok {
						return nil, nil
					}
					return map[string]interface{}{
						"key":      entry.Key,
						"name":     entry.Name,
						"location": entry.Location,
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
