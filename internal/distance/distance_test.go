package distance

import (
	"context"
	"errors"
	"testing"

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

func TestResolve_OverrideSkipsRouter(t *testing.T) {
	f := &fakeRouter{miles: 99}
	r := NewResolver(f)
	got := r.Resolve(context.Background(), "a", "b", map[string]any{"miles": 12.5})
	if got.Miles != 12.5 {
		t.Fatalf("expected 12.5 miles, got %f", got.Miles)
	}
	if got.Estimated {
		t.Fatalf("override must not be flagged estimated")
	}
	if f.calls != 0 {
		t.Fatalf("router must not be invoked when an override is supplied, got %d calls", f.calls)
	}
}

func TestResolve_RouterResult(t *testing.T) {
	f := &fakeRouter{miles: 7.3, duration: "18 mins"}
	r := NewResolver(f)
	got := r.Resolve(context.Background(), "a", "b", nil)
	if got.Miles != 7.3 || got.DurationText != "18 mins" || got.Estimated {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.Source != models.SourceResolved {
		t.Fatalf("expected resolved source, got %s", got.Source)
	}
}

func TestResolve_RouterFailureYieldsBoundedEstimate(t *testing.T) {
	f := &fakeRouter{err: errors.New("routing down")}
	r := NewResolver(f)
	for i := 0; i < 50; i++ {
		got := r.Resolve(context.Background(), "a", "b", nil)
		if !got.Estimated || got.Source != models.SourceEstimated {
			t.Fatalf("expected estimated result, got %+v", got)
		}
		if got.Miles < 5 || got.Miles > 25 {
			t.Fatalf("estimate %f out of [5, 25]", got.Miles)
		}
	}
}

func TestResolve_NoRouterYieldsEstimate(t *testing.T) {
	r := NewResolver(nil)
	got := r.Resolve(context.Background(), "a", "b", nil)
	if !got.Estimated {
		t.Fatalf("expected estimate without a router, got %+v", got)
	}
}

func TestResolve_EstimateBoundsExact(t *testing.T) {
	r := NewResolver(nil)
	r.randFloat = func() float64 { return 0 }
	if got := r.Resolve(context.Background(), "a", "b", nil); got.Miles != 5 {
		t.Fatalf("expected lower bound 5, got %f", got.Miles)
	}
	r.randFloat = func() float64 { return 1 }
	if got := r.Resolve(context.Background(), "a", "b", nil); got.Miles != 25 {
		t.Fatalf("expected upper bound 25, got %f", got.Miles)
	}
}

func TestNormalizeOverride(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"bare float", 12.5, 12.5},
		{"bare int", 8, 8},
		{"miles field", map[string]any{"miles": 3.25}, 3.25},
		{"distance field", map[string]any{"distance": 4.0}, 4},
		{"miles wins over distance", map[string]any{"miles": 1.0, "distance": 9.0}, 1},
		{"unrecognized map", map[string]any{"km": 10.0}, 0},
		{"unrecognized type", "ten", 0},
		{"negative clamps", -3.0, 0},
		{"negative in map clamps", map[string]any{"miles": -2.0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeOverride(tt.in); got != tt.want {
				t.Fatalf("NormalizeOverride(%v) = %f, want %f", tt.in, got, tt.want)
			}
		})
	}
}
