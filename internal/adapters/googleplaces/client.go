// internal/adapters/googleplaces/client.go
package googleplaces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"noonpick/internal/adapters/observability"
)

const (
	providerName = "google_places"

	// matchRadiusM bounds the fuzzy name match to places near the
	// candidate's own coordinates.
	matchRadiusM = 100
)

var ErrNoKey = errors.New("googleplaces: API key not configured")

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int, timeout time.Duration) *Client {
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: timeout},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// FindPhoto resolves a photo URL by fuzzy name+coordinate match: a nearby
// search constrained to ~100m picks the geometrically closest hit, then a
// details call fetches its largest photo. Returns "" with a nil error when
// nothing matches.
func (c *Client) FindPhoto(ctx context.Context, name string, lat, lng float64) (string, error) {
	if c.key == "" {
		return "", ErrNoKey
	}
	placeID, err := c.findPlace(ctx, name, lat, lng)
	if err != nil || placeID == "" {
		return "", err
	}
	return c.placePhoto(ctx, placeID)
}

func (c *Client) findPlace(ctx context.Context, name string, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%s,%s", formatCoord(lat), formatCoord(lng)))
	q.Set("radius", strconv.Itoa(matchRadiusM))
	q.Set("keyword", name)
	q.Set("type", "restaurant")
	q.Set("key", c.key)

	var resp nearbyResponse
	if err := c.get(ctx, c.base+"/maps/api/place/nearbysearch/json?"+q.Encode(), "nearby_search", &resp); err != nil {
		return "", err
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return "", nil
	}

	// Closest hit wins; same manhattan-distance tie-break the portal used.
	best := resp.Results[0]
	bestDist := math.Abs(best.Geometry.Location.Lat-lat) + math.Abs(best.Geometry.Location.Lng-lng)
	for _, r := range resp.Results[1:] {
		d := math.Abs(r.Geometry.Location.Lat-lat) + math.Abs(r.Geometry.Location.Lng-lng)
		if d < bestDist {
			best, bestDist = r, d
		}
	}
	return best.PlaceID, nil
}

func (c *Client) placePhoto(ctx context.Context, placeID string) (string, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "photos")
	q.Set("key", c.key)

	var resp detailsResponse
	if err := c.get(ctx, c.base+"/maps/api/place/details/json?"+q.Encode(), "place_details", &resp); err != nil {
		return "", err
	}
	if resp.Status != "OK" || len(resp.Result.Photos) == 0 {
		return "", nil
	}
	best := resp.Result.Photos[0]
	for _, p := range resp.Result.Photos[1:] {
		if p.Width*p.Height > best.Width*best.Height {
			best = p
		}
	}
	if best.PhotoReference == "" {
		return "", nil
	}
	return fmt.Sprintf("%s/maps/api/place/photo?maxwidth=400&photoreference=%s&key=%s",
		c.base, url.QueryEscape(best.PhotoReference), url.QueryEscape(c.key)), nil
}

// ---- Response shapes ----

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string `json:"place_id"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Photos []struct {
			Width          int    `json:"width"`
			Height         int    `json:"height"`
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"result"`
}

func formatCoord(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// get performs a single rate-limited GET; the enrichment layer owns
// retries-by-fallback, so the client does not retry on its own.
func (c *Client) get(ctx context.Context, url, endpoint string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "noonpick/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(providerName, endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal(providerName, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
