package jurisdiction

import (
	"context"
	"strings"

	"github.com/example/nemt-pricing/internal/models"
)

// Geocoder resolves a street address to its county (administrative area).
// An empty county with a nil error means the address could not be resolved.
type Geocoder interface {
	ResolveAdministrativeArea(ctx context.Context, address string) (string, error)
}

// Classifier decides which mileage rate a trip earns. A trip is in the
// primary jurisdiction only when both endpoints resolve to the primary
// county; otherwise the whole trip bills at the outside rate.
type Classifier struct {
	geocoder      Geocoder
	primaryCounty string
}

func NewClassifier(geocoder Geocoder, primaryCounty string) *Classifier {
	return &Classifier{geocoder: geocoder, primaryCounty: primaryCounty}
}

// Classify resolves both endpoints. If either lookup errors or comes back
// empty, the trip defaults to the primary jurisdiction with zero crossings,
// tagged SourceDefaulted so auditors can tell a real answer from an outage.
func (c *Classifier) Classify(ctx context.Context, origin, destination string) models.JurisdictionInfo {
	defaulted := models.JurisdictionInfo{
		InPrimary: true,
		Source:    models.SourceDefaulted,
	}
	if c.geocoder == nil {
		return defaulted
	}

	originCounty, err := c.geocoder.ResolveAdministrativeArea(ctx, origin)
	if err != nil || originCounty == "" {
		return defaulted
	}
	destCounty, err := c.geocoder.ResolveAdministrativeArea(ctx, destination)
	if err != nil || destCounty == "" {
		return defaulted
	}

	inPrimary := c.isPrimary(originCounty) && c.isPrimary(destCounty)

	crossed := 0
	if !c.isPrimary(originCounty) {
		crossed++
	}
	if !c.isPrimary(destCounty) && !strings.EqualFold(destCounty, originCounty) {
		crossed++
	}

	return models.JurisdictionInfo{
		InPrimary:         inPrimary,
		CountiesCrossed:   crossed,
		OriginCounty:      originCounty,
		DestinationCounty: destCounty,
		Source:            models.SourceResolved,
	}
}

func (c *Classifier) isPrimary(county string) bool {
	return strings.EqualFold(county, c.primaryCounty)
}
