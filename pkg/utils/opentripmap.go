package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("opentripmap rate limit exceeded")

// OpenTripMapClient finds a preview image near a coordinate. Calls are
// throttled to one per second and answers, including "no image", are cached.
type OpenTripMapClient struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	Radius  int

	limiter *rate.Limiter
	cache   *gocache.Cache
}

func NewOpenTripMapClient(apiKey string) *OpenTripMapClient {
	return &OpenTripMapClient{
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		BaseURL: "https://api.opentripmap.com/0.1/en",
		APIKey:  apiKey,
		Radius:  500,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		cache:   gocache.New(24*time.Hour, time.Hour),
	}
}

// SetRateLimit replaces the request throttle.
func (c *OpenTripMapClient) SetRateLimit(l *rate.Limiter) { c.limiter = l }

type otmPlace struct {
	XID string `json:"xid"`
}

type otmDetails struct {
	Preview *struct {
		Source string `json:"source"`
	} `json:"preview"`
}

// PreviewImage returns the preview image URL of the first named place within
// Radius metres of lat,lng, or "" when there is none.
func (c *OpenTripMapClient) PreviewImage(ctx context.Context, lat, lng float64) (string, error) {
	cacheKey := fmt.Sprintf("%.5f,%.5f", lat, lng)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(string), nil
	}

	q := url.Values{}
	q.Set("radius", strconv.Itoa(c.Radius))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("apikey", c.APIKey)

	var places []otmPlace
	if err := c.getJSON(ctx, c.BaseURL+"/places/radius?"+q.Encode(), &places); err != nil {
		return "", err
	}

	xid := ""
	for _, p := range places {
		if p.XID != "" {
			xid = p.XID
			break
		}
	}
	if xid == "" {
		c.cache.SetDefault(cacheKey, "")
		return "", nil
	}

	var details otmDetails
	detailsURL := fmt.Sprintf("%s/places/xid/%s?apikey=%s", c.BaseURL, url.PathEscape(xid), url.QueryEscape(c.APIKey))
	if err := c.getJSON(ctx, detailsURL, &details); err != nil {
		return "", err
	}

	image := ""
	if details.Preview != nil {
		image = details.Preview.Source
	}
	c.cache.SetDefault(cacheKey, image)
	return image, nil
}

func (c *OpenTripMapClient) getJSON(ctx context.Context, u string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("opentripmap http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("opentripmap bad status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("opentripmap decode: %w", err)
	}
	return nil
}
