package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const metersPerMile = 1609.344

// OSRMRouter resolves mileage against a self-hosted OSRM HTTP server, for
// deployments that do not want a commercial maps dependency.
type OSRMRouter struct {
	Endpoint string
	Client   *http.Client
}

func NewOSRMRouter(endpoint string) *OSRMRouter {
	return &OSRMRouter{Endpoint: endpoint, Client: &http.Client{Timeout: 2 * time.Second}}
}

// Route queries OSRM's address-based route endpoint and returns miles plus a
// rough duration string.
func (o *OSRMRouter) Route(ctx context.Context, origin, destination string) (float64, string, error) {
	// OSRM itself routes coordinates; deployments front it with a resolver
	// that accepts free-form addresses on the same path shape.
	u := fmt.Sprintf("%s/route/v1/driving/%s;%s?overview=false", o.Endpoint, url.PathEscape(origin), url.PathEscape(destination))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, "", err
	}
	resp, err := o.Client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	var out struct {
		Routes []struct {
			Distance float64 `json:"distance"` // meters
			Duration float64 `json:"duration"` // seconds
		} `json:"routes"`
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, "", err
	}
	if out.Code != "Ok" || len(out.Routes) == 0 {
		return 0, "", fmt.Errorf("osrm no route: %v", out.Code)
	}
	r := out.Routes[0]
	return r.Distance / metersPerMile, formatDuration(r.Duration), nil
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Hour {
		return fmt.Sprintf("%d mins", int(d.Minutes()))
	}
	return fmt.Sprintf("%d hours %d mins", int(d.Hours()), int(d.Minutes())%60)
}
