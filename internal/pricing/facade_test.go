package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nemt-pricing/internal/calendar"
	"github.com/example/nemt-pricing/internal/distance"
	"github.com/example/nemt-pricing/internal/fare"
	"github.com/example/nemt-pricing/internal/jurisdiction"
	"github.com/example/nemt-pricing/internal/models"
)

type fakeRouter struct {
	miles    float64
	duration string
	err      error
	calls    int
}

func (f *fakeRouter) Route(ctx context.Context, origin, destination string) (float64, string, error) {
	f.calls++
	return f.miles, f.duration, f.err
}

type fakeGeocoder struct {
	counties map[string]string
	err      error
}

func (f *fakeGeocoder) ResolveAdministrativeArea(ctx context.Context, address string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.counties[address], nil
}

func newTestFacade(router distance.Router, geo jurisdiction.Geocoder) *Facade {
	rates := fare.DefaultRates()
	return NewFacade(
		distance.NewResolver(router),
		jurisdiction.NewClassifier(geo, "Fayette County"),
		calendar.NewEngine(rates.HolidaySurchargeCents),
		fare.NewComposer(rates),
		time.UTC,
		time.Second,
	)
}

func primaryGeo() *fakeGeocoder {
	return &fakeGeocoder{counties: map[string]string{
		"100 Main St": "Fayette County",
		"200 Oak Ave": "Fayette County",
	}}
}

func baseRequest() models.TripRequest {
	return models.TripRequest{
		PickupAddress:      "100 Main St",
		DestinationAddress: "200 Oak Ave",
		PickupAt:           "2025-08-20 12:00", // Wednesday noon
	}
}

func TestQuote_Baseline(t *testing.T) {
	f := newTestFacade(&fakeRouter{miles: 10, duration: "22 mins"}, primaryGeo())
	res, err := f.Quote(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(8000), res.Breakdown.TotalCents)
	assert.Equal(t, "$80.00", res.Summary.Total)
	assert.Equal(t, "one way", res.Summary.TripType)
	assert.Equal(t, "10.0 mi", res.Summary.Distance)
	assert.Equal(t, "22 mins", res.Summary.Duration)
	assert.Equal(t, "primary service area", res.Summary.Jurisdiction)
	assert.False(t, res.Summary.PremiumApplied)
	assert.False(t, res.Summary.DiscountApplied)
}

func TestQuote_OverrideNeverCallsRouter(t *testing.T) {
	router := &fakeRouter{miles: 99}
	f := newTestFacade(router, primaryGeo())
	req := baseRequest()
	req.Distance = map[string]any{"miles": 12.5}
	res, err := f.Quote(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, router.calls)
	// $50 + 12.5 mi * $3.00 = $87.50
	assert.Equal(t, int64(8750), res.Breakdown.TotalCents)
	assert.Equal(t, "12.5 mi", res.Summary.Distance)
}

func TestQuote_HolidayAfterHours(t *testing.T) {
	f := newTestFacade(&fakeRouter{miles: 10}, primaryGeo())
	req := baseRequest()
	req.PickupAt = "2025-12-25T19:00" // Christmas evening
	res, err := f.Quote(context.Background(), req)
	require.NoError(t, err)
	// $80 baseline + $40 after-hours + $100 holiday = $220.00
	assert.Equal(t, int64(22000), res.Breakdown.TotalCents)
	assert.Equal(t, "Christmas Day", res.Summary.Holiday)
	assert.True(t, res.Summary.PremiumApplied)
}

func TestQuote_UnparseablePickupRejected(t *testing.T) {
	f := newTestFacade(&fakeRouter{miles: 10}, primaryGeo())
	req := baseRequest()
	req.PickupAt = "next tuesday-ish"
	res, err := f.Quote(context.Background(), req)
	assert.Nil(t, res, "no partial price on input errors")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestQuote_MissingAddressRejected(t *testing.T) {
	f := newTestFacade(&fakeRouter{miles: 10}, primaryGeo())
	req := baseRequest()
	req.DestinationAddress = "  "
	_, err := f.Quote(context.Background(), req)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestQuote_UnknownWheelchairModeRejected(t *testing.T) {
	f := newTestFacade(&fakeRouter{miles: 10}, primaryGeo())
	req := baseRequest()
	req.Wheelchair = "hoverboard"
	_, err := f.Quote(context.Background(), req)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestQuote_CollaboratorOutagesDegrade(t *testing.T) {
	f := newTestFacade(&fakeRouter{err: errors.New("routing down")}, &fakeGeocoder{err: errors.New("geocoding down")})
	res, err := f.Quote(context.Background(), baseRequest())
	require.NoError(t, err, "collaborator failures must not surface")
	// Estimated mileage stays within [5, 25]; jurisdiction defaults to primary.
	assert.Contains(t, res.Summary.Distance, "(estimated)")
	assert.Equal(t, "primary service area", res.Summary.Jurisdiction)
	assert.GreaterOrEqual(t, res.Breakdown.TotalCents, int64(5000+5*300))
	assert.LessOrEqual(t, res.Breakdown.TotalCents, int64(5000+25*300))
}

func TestQuote_VeteranRoundTrip(t *testing.T) {
	f := newTestFacade(&fakeRouter{miles: 10}, primaryGeo())
	req := baseRequest()
	req.RoundTrip = true
	req.Veteran = true
	res, err := f.Quote(context.Background(), req)
	require.NoError(t, err)
	// $160.00 - 10% = $144.00
	assert.Equal(t, int64(14400), res.Breakdown.TotalCents)
	assert.Equal(t, "round trip", res.Summary.TripType)
	assert.True(t, res.Summary.DiscountApplied)
}

func TestQuote_OutsideJurisdiction(t *testing.T) {
	geo := &fakeGeocoder{counties: map[string]string{
		"100 Main St": "Greenup County",
		"200 Oak Ave": "Boyd County",
	}}
	f := newTestFacade(&fakeRouter{miles: 10}, geo)
	res, err := f.Quote(context.Background(), baseRequest())
	require.NoError(t, err)
	// $50 base + 10 mi * $4.50 + (2-1) * $25 = $120.00
	assert.Equal(t, int64(12000), res.Breakdown.TotalCents)
	assert.Equal(t, "outside primary service area", res.Summary.Jurisdiction)
}

func TestQuote_Deterministic(t *testing.T) {
	f := newTestFacade(&fakeRouter{miles: 10}, primaryGeo())
	first, err := f.Quote(context.Background(), baseRequest())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := f.Quote(context.Background(), baseRequest())
		require.NoError(t, err)
		assert.Equal(t, first.Breakdown, again.Breakdown)
	}
}
