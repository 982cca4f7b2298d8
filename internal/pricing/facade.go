package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/nemt-pricing/internal/calendar"
	"github.com/example/nemt-pricing/internal/distance"
	"github.com/example/nemt-pricing/internal/fare"
	"github.com/example/nemt-pricing/internal/jurisdiction"
	"github.com/example/nemt-pricing/internal/models"
	"github.com/example/nemt-pricing/internal/observability"
)

// ErrInvalidRequest marks structurally invalid input. Collaborator outages
// never surface as errors; they degrade to estimates and defaults instead.
var ErrInvalidRequest = errors.New("invalid trip request")

// Accepted pickup time layouts, tried in order.
var pickupLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Facade is the single entry point for pricing a trip. It fans out to the
// distance and jurisdiction lookups, classifies the pickup date, and hands
// everything to the composer.
type Facade struct {
	resolver   *distance.Resolver
	classifier *jurisdiction.Classifier
	calendar   *calendar.Engine
	composer   *fare.Composer

	loc     *time.Location
	timeout time.Duration
}

type QuoteResult struct {
	Breakdown models.PriceBreakdown `json:"breakdown"`
	Summary   models.QuoteSummary   `json:"summary"`
}

// NewFacade wires a facade. loc is the zone every date rule evaluates in;
// timeout bounds each collaborator call.
func NewFacade(resolver *distance.Resolver, classifier *jurisdiction.Classifier, cal *calendar.Engine, composer *fare.Composer, loc *time.Location, timeout time.Duration) *Facade {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Facade{
		resolver:   resolver,
		classifier: classifier,
		calendar:   cal,
		composer:   composer,
		loc:        loc,
		timeout:    timeout,
	}
}

// Quote prices a trip. It rejects structurally invalid requests with an
// error wrapping ErrInvalidRequest and never returns a partial breakdown.
func (f *Facade) Quote(ctx context.Context, req models.TripRequest) (*QuoteResult, error) {
	pickup, err := f.validate(req)
	if err != nil {
		return nil, err
	}

	// The two lookups are independent; run them together, each under its
	// own timeout so neither can block the caller indefinitely.
	var (
		wg   sync.WaitGroup
		dist models.DistanceResult
		jur  models.JurisdictionInfo
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		dctx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		dist = f.resolver.Resolve(dctx, req.PickupAddress, req.DestinationAddress, req.Distance)
	}()
	go func() {
		defer wg.Done()
		jctx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		jur = f.classifier.Classify(jctx, req.PickupAddress, req.DestinationAddress)
	}()
	wg.Wait()

	if dist.Source == models.SourceEstimated {
		observability.DegradedLookups.WithLabelValues("distance").Inc()
	}
	if jur.Source == models.SourceDefaulted {
		observability.DegradedLookups.WithLabelValues("jurisdiction").Inc()
	}

	holiday := f.calendar.Classify(pickup)
	if holiday.IsHoliday {
		observability.HolidayQuotes.Inc()
	}

	breakdown := f.composer.Compose(req, pickup, dist, jur, holiday)
	return &QuoteResult{
		Breakdown: breakdown,
		Summary:   f.summarize(req, dist, jur, holiday, breakdown),
	}, nil
}

func (f *Facade) validate(req models.TripRequest) (time.Time, error) {
	if strings.TrimSpace(req.PickupAddress) == "" {
		return time.Time{}, fmt.Errorf("%w: pickup_address is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.DestinationAddress) == "" {
		return time.Time{}, fmt.Errorf("%w: destination_address is required", ErrInvalidRequest)
	}
	switch req.Wheelchair {
	case "", models.WheelchairNone, models.WheelchairPersonal, models.WheelchairRental:
	default:
		return time.Time{}, fmt.Errorf("%w: unknown wheelchair mode %q", ErrInvalidRequest, req.Wheelchair)
	}
	pickup, err := f.parsePickup(req.PickupAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unparseable pickup_at %q", ErrInvalidRequest, req.PickupAt)
	}
	return pickup, nil
}

// parsePickup interprets the pickup timestamp in the configured zone so
// holiday and after-hours rules do not depend on server locale.
func (f *Facade) parsePickup(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty")
	}
	for _, layout := range pickupLayouts {
		if t, err := time.ParseInLocation(layout, v, f.loc); err == nil {
			return t.In(f.loc), nil
		}
	}
	return time.Time{}, errors.New("no layout matched")
}

func (f *Facade) summarize(req models.TripRequest, dist models.DistanceResult, jur models.JurisdictionInfo, hol models.HolidayInfo, b models.PriceBreakdown) models.QuoteSummary {
	tripType := "one way"
	if req.RoundTrip {
		tripType = "round trip"
	}

	distDisplay := fmt.Sprintf("%.1f mi", dist.Miles)
	if dist.Estimated {
		distDisplay += " (estimated)"
	}

	jurDisplay := "primary service area"
	if !jur.InPrimary {
		jurDisplay = "outside primary service area"
	}

	var premium, discount bool
	for _, it := range b.Items {
		switch it.Category {
		case models.CategoryPremium:
			premium = true
		case models.CategoryDiscount:
			discount = true
		}
	}

	return models.QuoteSummary{
		TripType:        tripType,
		Distance:        distDisplay,
		Duration:        dist.DurationText,
		Total:           fare.FormatCents(b.TotalCents),
		PremiumApplied:  premium,
		DiscountApplied: discount,
		Jurisdiction:    jurDisplay,
		Holiday:         hol.Name,
		Passengers:      1 + req.AdditionalPassengers,
	}
}
