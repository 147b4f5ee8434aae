package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/nocodeci/yatou-sub002/internal/types"
)

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// RouteEstimate is a driving route summary used to price a trip.
type RouteEstimate struct {
	DistanceKm float64
	Minutes    int
	Summary    string
}

// EstimateRoute returns the driving distance and duration between two points.
// It assumes driving mode.
func (s *RouteService) EstimateRoute(ctx context.Context, origin, destination types.Point) (*RouteEstimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", destination.Lat, destination.Lng),
		Mode:        maps.TravelModeDriving,
		Language:    "fr", // French route summaries for receipts
		Region:      "CI", // Bias results to Côte d'Ivoire
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return &RouteEstimate{
		DistanceKm: float64(leg.Distance.Meters) / 1000.0,
		Minutes:    int(leg.Duration.Minutes()),
		Summary:    leg.Distance.HumanReadable,
	}, nil
}
