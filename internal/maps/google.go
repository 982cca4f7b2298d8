package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"
)

const metersPerMile = 1609.344

// GoogleClient adapts the Google Maps API to the pricing collaborator
// interfaces: geocoding for county resolution and directions for mileage.
type GoogleClient struct {
	client *maps.Client
	region string
}

// NewGoogleClient creates a client with the given API key. region biases
// geocoding results (e.g. "us").
func NewGoogleClient(apiKey, region string) (*GoogleClient, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleClient{client: c, region: region}, nil
}

// ResolveAdministrativeArea geocodes an address and returns its county
// (administrative_area_level_2). An address that geocodes without a county
// component resolves to "".
func (g *GoogleClient) ResolveAdministrativeArea(ctx context.Context, address string) (string, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
		Region:  g.region,
	})
	if err != nil {
		return "", fmt.Errorf("geocode: %w", err)
	}
	if len(results) == 0 {
		return "", nil
	}
	for _, comp := range results[0].AddressComponents {
		for _, t := range comp.Types {
			if t == "administrative_area_level_2" {
				return comp.LongName, nil
			}
		}
	}
	return "", nil
}

// Route returns driving mileage and a human-readable duration between two
// addresses.
func (g *GoogleClient) Route(ctx context.Context, origin, destination string) (float64, string, error) {
	routes, _, err := g.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Region:      g.region,
	})
	if err != nil {
		return 0, "", fmt.Errorf("directions: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, "", fmt.Errorf("no route found")
	}
	leg := routes[0].Legs[0]
	return float64(leg.Distance.Meters) / metersPerMile, formatDuration(leg.Duration), nil
}

func formatDuration(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%d mins", int(d.Minutes()))
	}
	return fmt.Sprintf("%d hours %d mins", int(d.Hours()), int(d.Minutes())%60)
}
