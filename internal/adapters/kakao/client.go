// internal/adapters/kakao/client.go
package kakao

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"noonpick/internal/adapters/observability"
	"noonpick/internal/domain"
)

const providerName = "kakao"

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int, timeout time.Duration) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
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
	}, nil
}

// ---- Public API ----

// SearchCategory runs the fixed restaurant category search around the
// center, closest first.
func (c *Client) SearchCategory(ctx context.Context, lat, lng float64, radiusM int) ([]domain.RawPlace, error) {
	q := url.Values{}
	q.Set("category_group_code", "FD6") // restaurants
	q.Set("x", formatCoord(lng))
	q.Set("y", formatCoord(lat))
	q.Set("radius", strconv.Itoa(radiusM))
	q.Set("page", "1")
	q.Set("size", "15")
	q.Set("sort", "distance")

	var resp searchResponse
	if err := c.get(ctx, c.base+"/v2/local/search/category.json?"+q.Encode(), "search_category", &resp); err != nil {
		return nil, err
	}
	return resp.places(), nil
}

// SearchKeyword runs a free-text keyword search around the center.
func (c *Client) SearchKeyword(ctx context.Context, lat, lng float64, radiusM int, query string) ([]domain.RawPlace, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("x", formatCoord(lng))
	q.Set("y", formatCoord(lat))
	q.Set("radius", strconv.Itoa(radiusM))
	q.Set("page", "1")
	q.Set("size", "15")
	q.Set("sort", "distance")

	var resp searchResponse
	if err := c.get(ctx, c.base+"/v2/local/search/keyword.json?"+q.Encode(), "search_keyword", &resp); err != nil {
		return nil, err
	}
	return resp.places(), nil
}

// PlacePhoto looks up the place detail and returns the origin URL of the
// largest photo, or "" when the place carries no photos.
func (c *Client) PlacePhoto(ctx context.Context, providerID string) (string, error) {
	var resp placeDetailResponse
	if err := c.get(ctx, fmt.Sprintf("%s/v2/local/place/%s.json", c.base, url.PathEscape(providerID)), "place_photo", &resp); err != nil {
		return "", err
	}
	if len(resp.Documents) == 0 {
		return "", nil
	}
	var best photoItem
	var bestArea int
	for _, p := range resp.Documents[0].Photo.PhotoList {
		w, _ := strconv.Atoi(p.Width)
		h, _ := strconv.Atoi(p.Height)
		if area := w * h; area >= bestArea {
			best, bestArea = p, area
		}
	}
	return best.OriginURL, nil
}

// Geocode converts an address to coordinates via the address search API.
func (c *Client) Geocode(ctx context.Context, address string) (lat, lng float64, err error) {
	q := url.Values{}
	q.Set("query", address)

	var resp geocodeResponse
	if err := c.get(ctx, c.base+"/v2/local/search/address.json?"+q.Encode(), "geocode", &resp); err != nil {
		return 0, 0, err
	}
	if len(resp.Documents) == 0 {
		return 0, 0, ErrNotFound
	}
	doc := resp.Documents[0]
	lat, err = strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad latitude %q: %w", doc.Y, err)
	}
	lng, err = strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad longitude %q: %w", doc.X, err)
	}
	return lat, lng, nil
}

// ---- Response shapes (provider field names stay inside this package) ----

type searchResponse struct {
	Documents []placeDoc `json:"documents"`
}

type placeDoc struct {
	ID              string `json:"id"`
	PlaceName       string `json:"place_name"`
	CategoryName    string `json:"category_name"`
	Phone           string `json:"phone"`
	AddressName     string `json:"address_name"`
	RoadAddressName string `json:"road_address_name"`
	X               string `json:"x"` // longitude
	Y               string `json:"y"` // latitude
	PlaceURL        string `json:"place_url"`
	Distance        string `json:"distance"`
}

type placeDetailResponse struct {
	Documents []struct {
		Photo struct {
			PhotoList []photoItem `json:"photoList"`
		} `json:"photo"`
	} `json:"documents"`
}

type photoItem struct {
	Width     string `json:"width"`
	Height    string `json:"height"`
	OriginURL string `json:"originurl"`
}

type geocodeResponse struct {
	Documents []struct {
		X string `json:"x"`
		Y string `json:"y"`
	} `json:"documents"`
}

func (r searchResponse) places() []domain.RawPlace {
	out := make([]domain.RawPlace, 0, len(r.Documents))
	for _, d := range r.Documents {
		lat, latErr := strconv.ParseFloat(d.Y, 64)
		lng, lngErr := strconv.ParseFloat(d.X, 64)
		if latErr != nil || lngErr != nil {
			continue // malformed coordinates, drop the entry
		}
		dist, _ := strconv.Atoi(d.Distance)
		if dist < 0 {
			dist = 0
		}
		out = append(out, domain.RawPlace{
			Provider:    providerName,
			ProviderID:  d.ID,
			Name:        d.PlaceName,
			Lat:         lat,
			Lng:         lng,
			Address:     d.AddressName,
			RoadAddress: d.RoadAddressName,
			Phone:       d.Phone,
			DistanceM:   dist,
			RawCategory: d.CategoryName,
			Tags:        domain.MatchTags(d.CategoryName),
			DetailURL:   d.PlaceURL,
		})
	}
	return out
}

func formatCoord(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// ---- Internals ----

var (
	ErrNotFound     = errors.New("kakao: not found")
	ErrUnauthorized = errors.New("kakao: unauthorized")
	ErrForbidden    = errors.New("kakao: forbidden")
)

// get performs a GET with client-side rate limiting, retries, and JSON
// decode into out. Retries on 429 and transient 5xx, honoring Retry-After
// when provided.
func (c *Client) get(ctx context.Context, url, endpoint string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "KakaoAK "+c.key)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "noonpick/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(providerName, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(providerName, endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
