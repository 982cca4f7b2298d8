package jurisdiction

import (
	"context"
	"errors"
	"testing"

	"github.com/example/nemt-pricing/internal/models"
)

// fakeGeocoder maps addresses to counties; missing entries resolve empty.
type fakeGeocoder struct {
	counties map[string]string
	err      error
	calls    int
}

func (f *fakeGeocoder) ResolveAdministrativeArea(ctx context.Context, address string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.counties[address], nil
}

func TestClassify_BothInPrimary(t *testing.T) {
	g := &fakeGeocoder{counties: map[string]string{
		"100 Main St": "Fayette County",
		"200 Oak Ave": "fayette county", // match is case-insensitive
	}}
	c := NewClassifier(g, "Fayette County")
	got := c.Classify(context.Background(), "100 Main St", "200 Oak Ave")
	if !got.InPrimary || got.CountiesCrossed != 0 {
		t.Fatalf("expected in-primary with 0 crossings, got %+v", got)
	}
	if got.Source != models.SourceResolved {
		t.Fatalf("expected resolved source, got %s", got.Source)
	}
}

func TestClassify_OneEndpointOutside(t *testing.T) {
	g := &fakeGeocoder{counties: map[string]string{
		"100 Main St": "Fayette County",
		"9 Hill Rd":   "Greenup County",
	}}
	c := NewClassifier(g, "Fayette County")
	got := c.Classify(context.Background(), "100 Main St", "9 Hill Rd")
	if got.InPrimary {
		t.Fatalf("one outside endpoint must take the whole trip outside, got %+v", got)
	}
	if got.CountiesCrossed != 1 {
		t.Fatalf("expected 1 crossing, got %d", got.CountiesCrossed)
	}
}

func TestClassify_TwoDistinctOutsideCounties(t *testing.T) {
	g := &fakeGeocoder{counties: map[string]string{
		"9 Hill Rd": "Greenup County",
		"4 Lake Dr": "Boyd County",
	}}
	c := NewClassifier(g, "Fayette County")
	got := c.Classify(context.Background(), "9 Hill Rd", "4 Lake Dr")
	if got.CountiesCrossed != 2 {
		t.Fatalf("expected 2 crossings, got %+v", got)
	}
}

func TestClassify_SameOutsideCountyCountsOnce(t *testing.T) {
	g := &fakeGeocoder{counties: map[string]string{
		"9 Hill Rd": "Greenup County",
		"4 Lake Dr": "Greenup County",
	}}
	c := NewClassifier(g, "Fayette County")
	got := c.Classify(context.Background(), "9 Hill Rd", "4 Lake Dr")
	if got.CountiesCrossed != 1 {
		t.Fatalf("same county both ends must count once, got %+v", got)
	}
}

func TestClassify_GeocoderErrorFailsOpen(t *testing.T) {
	g := &fakeGeocoder{err: errors.New("geocoding down")}
	c := NewClassifier(g, "Fayette County")
	got := c.Classify(context.Background(), "100 Main St", "9 Hill Rd")
	if !got.InPrimary || got.CountiesCrossed != 0 {
		t.Fatalf("expected fail-open default, got %+v", got)
	}
	if got.Source != models.SourceDefaulted {
		t.Fatalf("degraded result must be tagged defaulted, got %s", got.Source)
	}
}

func TestClassify_UnresolvedAddressFailsOpen(t *testing.T) {
	g := &fakeGeocoder{counties: map[string]string{"100 Main St": "Fayette County"}}
	c := NewClassifier(g, "Fayette County")
	got := c.Classify(context.Background(), "100 Main St", "nowhere in particular")
	if !got.InPrimary || got.CountiesCrossed != 0 || got.Source != models.SourceDefaulted {
		t.Fatalf("expected fail-open default, got %+v", got)
	}
}

func TestClassify_NilGeocoderFailsOpen(t *testing.T) {
	c := NewClassifier(nil, "Fayette County")
	got := c.Classify(context.Background(), "a", "b")
	if !got.InPrimary || got.Source != models.SourceDefaulted {
		t.Fatalf("expected fail-open default, got %+v", got)
	}
}
