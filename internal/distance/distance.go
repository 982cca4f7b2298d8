package distance

import (
	"context"
	"math/rand"

	"github.com/example/nemt-pricing/internal/models"
)

// Router is the interface used to obtain real trip mileage.
type Router interface {
	Route(ctx context.Context, origin, destination string) (miles float64, durationText string, err error)
}

const (
	estimateMinMiles = 5.0
	estimateMaxMiles = 25.0
)

// Resolver produces trip mileage. A caller-supplied override short-circuits
// the router entirely; a router failure degrades to a bounded estimate so a
// quote never hard-fails just because routing is down.
type Resolver struct {
	router Router
	// rand source is injectable so estimate bounds are testable
	randFloat func() float64
}

func NewResolver(router Router) *Resolver {
	return &Resolver{router: router, randFloat: rand.Float64}
}

// Resolve returns the mileage for a trip. The override may be a bare number,
// a map with a "miles" key, or a map with a "distance" key; any other
// non-nil shape normalizes to 0 miles.
func (r *Resolver) Resolve(ctx context.Context, origin, destination string, override any) models.DistanceResult {
	if override != nil {
		return models.DistanceResult{
			Miles:  NormalizeOverride(override),
			Source: models.SourceResolved,
		}
	}

	if r.router != nil {
		miles, duration, err := r.router.Route(ctx, origin, destination)
		if err == nil && miles >= 0 {
			return models.DistanceResult{
				Miles:        miles,
				DurationText: duration,
				Source:       models.SourceResolved,
			}
		}
	}

	// Bounded pseudo-random estimate in [5, 25] miles.
	miles := estimateMinMiles + r.randFloat()*(estimateMaxMiles-estimateMinMiles)
	return models.DistanceResult{
		Miles:     miles,
		Estimated: true,
		Source:    models.SourceEstimated,
	}
}

// NormalizeOverride coerces the three accepted precomputed-distance shapes
// into miles. JSON decoding hands numbers over as float64; typed ints show
// up from in-process callers.
func NormalizeOverride(v any) float64 {
	switch d := v.(type) {
	case float64:
		return nonNegative(d)
	case float32:
		return nonNegative(float64(d))
	case int:
		return nonNegative(float64(d))
	case int64:
		return nonNegative(float64(d))
	case map[string]any:
		if m, ok := d["miles"]; ok {
			return NormalizeOverride(m)
		}
		if m, ok := d["distance"]; ok {
			return NormalizeOverride(m)
		}
		return 0
	default:
		return 0
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
