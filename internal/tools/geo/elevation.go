package geo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/svarun115/googleplaces-mcp-server/internal/places"
	"github.com/svarun115/googleplaces-mcp-server/internal/tools"
)

type ElevationRequest struct {
	Locations []Coordinate `json:"locations"`
}

type ElevationPoint struct {
	Location   Coordinate `json:"location"`
	Elevation  float64    `json:"elevation"`
	Resolution float64    `json:"resolution,omitempty"`
}

type ElevationResponse struct {
	Results []ElevationPoint `json:"results"`
}

type ElevationTool struct {
	client *places.Client
}

func NewElevationTool(client *places.Client) *ElevationTool {
	return &ElevationTool{client: client}
}

func (t *ElevationTool) Name() string {
	return "get_elevation"
}

func (t *ElevationTool) Title() string {
	return "Get Elevation"
}

func (t *ElevationTool) Description() string {
	return "Look up ground elevation for one or more coordinates"
}

func (t *ElevationTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ElevationTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"locations": {
				"type": "array",
				"description": "Coordinates to look up",
				"items": {
					"type": "object",
					"properties": {
						"lat": {"type": "number"},
						"lng": {"type": "number"}
					},
					"required": ["lat", "lng"]
				},
				"minItems": 1
			}
		},
		"required": ["locations"]
	}`)
}

func (t *ElevationTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req ElevationRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if len(req.Locations) == 0 {
		return nil, tools.NewInvalidArgumentsError("locations must contain at least one coordinate")
	}

	points := make([]places.LatLng, len(req.Locations))
	for i, loc := range req.Locations {
		points[i] = places.LatLng{Latitude: loc.Lat, Longitude: loc.Lng}
	}

	results, err := t.client.Elevation(ctx, points)
	if err != nil {
		return nil, err
	}

	resp := ElevationResponse{Results: make([]ElevationPoint, len(results))}
	for i, r := range results {
		resp.Results[i] = ElevationPoint{
			Location:   Coordinate{Lat: r.Location.Lat, Lng: r.Location.Lng},
			Elevation:  r.Elevation,
			Resolution: r.Resolution,
		}
	}
	return resp, nil
}
