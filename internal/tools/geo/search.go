package geo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/svarun115/googleplaces-mcp-server/internal/places"
	"github.com/svarun115/googleplaces-mcp-server/internal/tools"
)

// maxSearchResults caps how many places a single search surfaces.
const maxSearchResults = 10

type SearchRequest struct {
	Query    string      `json:"query"`
	Location *Coordinate `json:"location,omitempty"`
	Radius   float64     `json:"radius,omitempty"`
}

type PlaceSummary struct {
	PlaceID        string     `json:"place_id"`
	Name           string     `json:"name"`
	Address        string     `json:"address"`
	Location       Coordinate `json:"location"`
	Types          []string   `json:"types,omitempty"`
	Rating         float64    `json:"rating,omitempty"`
	RatingCount    int        `json:"rating_count,omitempty"`
	BusinessStatus string     `json:"business_status,omitempty"`
}

type SearchResponse struct {
	Places []PlaceSummary `json:"places"`
}

type SearchTool struct {
	client *places.Client
}

func NewSearchTool(client *places.Client) *SearchTool {
	return &SearchTool{client: client}
}

func (t *SearchTool) Name() string {
	return "search_places"
}

func (t *SearchTool) Title() string {
	return "Search Places"
}

func (t *SearchTool) Description() string {
	return "Search for places by text query, optionally biased toward a circular area"
}

func (t *SearchTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *SearchTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "Free-text search query, e.g. 'coffee shops in Seattle'"
			},
			"location": {
				"type": "object",
				"description": "Center of an optional circular location bias",
				"properties": {
					"lat": {"type": "number"},
					"lng": {"type": "number"}
				},
				"required": ["lat", "lng"]
			},
			"radius": {
				"type": "number",
				"description": "Bias circle radius in meters (max 50000)",
				"minimum": 0
			}
		},
		"required": ["query"]
	}`)
}

func (t *SearchTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req SearchRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if req.Query == "" {
		return nil, tools.NewInvalidArgumentsError("query is required")
	}

	q := places.SearchQuery{Query: req.Query}
	if req.Location != nil {
		q.Bias = &places.LatLng{Latitude: req.Location.Lat, Longitude: req.Location.Lng}
		q.RadiusMeters = req.Radius
	}

	upstream, err := t.client.SearchText(ctx, q)
	if err != nil {
		return nil, err
	}

	found := upstream.Places
	if len(found) > maxSearchResults {
		found = found[:maxSearchResults]
	}

	resp := SearchResponse{Places: make([]PlaceSummary, len(found))}
	for i, p := range found {
		resp.Places[i] = PlaceSummary{
			PlaceID:        p.ID,
			Name:           p.DisplayName.Text,
			Address:        p.FormattedAddress,
			Location:       Coordinate{Lat: p.Location.Latitude, Lng: p.Location.Longitude},
			Types:          p.Types,
			Rating:         p.Rating,
			RatingCount:    p.UserRatingCount,
			BusinessStatus: p.BusinessStatus,
		}
	}
	return resp, nil
}
