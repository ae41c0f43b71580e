package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/svarun115/googleplaces-mcp-server/internal/config"
	"github.com/svarun115/googleplaces-mcp-server/internal/logger"
)

const (
	defaultPlacesBaseURL  = "https://places.googleapis.com"
	defaultWeatherBaseURL = "https://weather.googleapis.com"
	defaultMapsBaseURL    = "https://maps.googleapis.com"

	// MaxSearchRadiusMeters is the upstream limit for a circular location
	// bias; larger requested radii are clamped, not rejected.
	MaxSearchRadiusMeters = 50000

	// Field masks keep the Places API responses down to what gets mapped.
	searchFieldMask = "places.id,places.displayName,places.formattedAddress,places.location," +
		"places.types,places.rating,places.userRatingCount,places.businessStatus"
	detailsFieldMask = "id,displayName,formattedAddress,location,internationalPhoneNumber," +
		"websiteUri,rating,priceLevel,types,regularOpeningHours"

	errorBodyLimit = 512
)

// Client performs the outbound HTTPS calls against the Google geolocation
// APIs. One Client is shared by every tool handler; it holds no per-request
// state.
type Client struct {
	httpClient     *http.Client
	keys           config.KeySource
	placesBaseURL  string
	weatherBaseURL string
	mapsBaseURL    string
	log            *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom timeouts).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURLs points the client at alternative endpoints. Empty strings
// leave the corresponding default untouched.
func WithBaseURLs(placesURL, weatherURL, mapsURL string) Option {
	return func(c *Client) {
		if placesURL != "" {
			c.placesBaseURL = placesURL
		}
		if weatherURL != "" {
			c.weatherBaseURL = weatherURL
		}
		if mapsURL != "" {
			c.mapsBaseURL = mapsURL
		}
	}
}

func NewClient(keys config.KeySource, opts ...Option) *Client {
	c := &Client{
		httpClient:     http.DefaultClient,
		keys:           keys,
		placesBaseURL:  defaultPlacesBaseURL,
		weatherBaseURL: defaultWeatherBaseURL,
		mapsBaseURL:    defaultMapsBaseURL,
		log:            logger.ForComponent("places"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchQuery describes one text search. A nil Bias sends no location bias.
type SearchQuery struct {
	Query        string
	Bias         *LatLng
	RadiusMeters float64
}

// SearchText runs a Places text search. The result list is not truncated
// here; callers decide how many places they surface.
func (c *Client) SearchText(ctx context.Context, q SearchQuery) (*SearchTextResponse, error) {
	body := searchTextRequest{
		TextQuery: q.Query,
		PageSize:  10,
	}
	if q.Bias != nil {
		radius := q.RadiusMeters
		if radius <= 0 {
			radius = MaxSearchRadiusMeters
		}
		if radius > MaxSearchRadiusMeters {
			radius = MaxSearchRadiusMeters
		}
		body.LocationBias = &locationBias{
			Circle: circle{Center: *q.Bias, Radius: radius},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.placesBaseURL+"/v1/places:searchText", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.keys.APIKey())
	req.Header.Set("X-Goog-FieldMask", searchFieldMask)

	var result SearchTextResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// NormalizePlaceID strips the "places/" resource-path prefix, so callers can
// pass either form interchangeably.
func NormalizePlaceID(id string) string {
	return strings.TrimPrefix(id, "places/")
}

// PlaceDetails fetches one place by identifier.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*Place, error) {
	id := NormalizePlaceID(placeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.placesBaseURL+"/v1/places/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("building details request: %w", err)
	}
	req.Header.Set("X-Goog-Api-Key", c.keys.APIKey())
	req.Header.Set("X-Goog-FieldMask", detailsFieldMask)

	var place Place
	if err := c.do(req, &place); err != nil {
		return nil, err
	}
	return &place, nil
}

// CurrentConditions fetches current weather for one coordinate. unitsSystem
// is the upstream token (METRIC or IMPERIAL).
func (c *Client) CurrentConditions(ctx context.Context, loc LatLng, unitsSystem string) (*CurrentConditions, error) {
	params := url.Values{}
	params.Set("key", c.keys.APIKey())
	params.Set("location.latitude", formatCoord(loc.Latitude))
	params.Set("location.longitude", formatCoord(loc.Longitude))
	params.Set("unitsSystem", unitsSystem)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.weatherBaseURL+"/v1/currentConditions:lookup?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building weather request: %w", err)
	}

	var conditions CurrentConditions
	if err := c.do(req, &conditions); err != nil {
		return nil, err
	}
	return &conditions, nil
}

// Elevation looks up elevation for one or more coordinates. The upstream
// embeds its own status field; anything but OK is an UpstreamError even on
// HTTP 200.
func (c *Client) Elevation(ctx context.Context, points []LatLng) ([]ElevationResult, error) {
	encoded := make([]string, len(points))
	for i, p := range points {
		encoded[i] = formatCoord(p.Latitude) + "," + formatCoord(p.Longitude)
	}

	params := url.Values{}
	params.Set("locations", strings.Join(encoded, "|"))
	params.Set("key", c.keys.APIKey())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.mapsBaseURL+"/maps/api/elevation/json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building elevation request: %w", err)
	}

	var result elevationResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	if result.Status != "OK" {
		return nil, &UpstreamError{APIStatus: result.Status, Body: result.ErrorMessage}
	}
	return result.Results, nil
}

// DirectionsQuery carries pre-encoded origin/destination waypoints, either
// "place_id:<id>" or "<lat>,<lng>".
type DirectionsQuery struct {
	Origin        string
	Destination   string
	Mode          string
	DepartureTime string
}

// Directions computes a route between two waypoints.
func (c *Client) Directions(ctx context.Context, q DirectionsQuery) (*DirectionsResponse, error) {
	params := url.Values{}
	params.Set("origin", q.Origin)
	params.Set("destination", q.Destination)
	params.Set("mode", q.Mode)
	if q.DepartureTime != "" {
		params.Set("departure_time", q.DepartureTime)
	}
	params.Set("key", c.keys.APIKey())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.mapsBaseURL+"/maps/api/directions/json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building directions request: %w", err)
	}

	var result DirectionsResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	if result.Status != "OK" {
		return nil, &UpstreamError{APIStatus: result.Status, Body: result.ErrorMessage}
	}
	return &result, nil
}

// do executes the request, validates the HTTP status, and decodes the body
// into out.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		c.log.Warn("upstream call failed",
			"url", req.URL.Path,
			"status", resp.StatusCode)
		return &UpstreamError{
			HTTPStatus: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding upstream response: %w", err)
	}
	return nil
}

// formatCoord renders a coordinate with the shortest exact decimal form so
// identical inputs always produce byte-identical request parameters.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
