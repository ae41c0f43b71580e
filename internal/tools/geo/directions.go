package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/svarun115/googleplaces-mcp-server/internal/places"
	"github.com/svarun115/googleplaces-mcp-server/internal/tools"
)

// Waypoint is either a place identifier or a raw coordinate.
type Waypoint struct {
	PlaceID string   `json:"place_id,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

type DirectionsRequest struct {
	Origin        *Waypoint `json:"origin"`
	Destination   *Waypoint `json:"destination"`
	Mode          string    `json:"mode,omitempty"`
	DepartureTime *int64    `json:"departure_time,omitempty"`
}

type TransitStep struct {
	Line          string `json:"line,omitempty"`
	LineShortName string `json:"line_short_name,omitempty"`
	DepartureStop string `json:"departure_stop,omitempty"`
	ArrivalStop   string `json:"arrival_stop,omitempty"`
	NumStops      int    `json:"num_stops,omitempty"`
}

type DirectionStep struct {
	Instructions string       `json:"instructions"`
	Distance     string       `json:"distance,omitempty"`
	Duration     string       `json:"duration,omitempty"`
	TravelMode   string       `json:"travel_mode,omitempty"`
	Transit      *TransitStep `json:"transit,omitempty"`
}

type DirectionsResult struct {
	Summary           string          `json:"summary,omitempty"`
	Duration          string          `json:"duration"`
	DurationSeconds   int64           `json:"duration_seconds"`
	DurationInTraffic string          `json:"duration_in_traffic,omitempty"`
	Distance          string          `json:"distance"`
	DistanceMeters    int64           `json:"distance_meters"`
	Steps             []DirectionStep `json:"steps"`
}

type DirectionsTool struct {
	client *places.Client
}

func NewDirectionsTool(client *places.Client) *DirectionsTool {
	return &DirectionsTool{client: client}
}

func (t *DirectionsTool) Name() string {
	return "get_directions"
}

func (t *DirectionsTool) Title() string {
	return "Get Directions"
}

func (t *DirectionsTool) Description() string {
	return "Get step-by-step directions between two places or coordinates"
}

func (t *DirectionsTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *DirectionsTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"origin": {
				"type": "object",
				"description": "Starting point: a place_id, or lat and lng",
				"properties": {
					"place_id": {"type": "string"},
					"lat": {"type": "number"},
					"lng": {"type": "number"}
				}
			},
			"destination": {
				"type": "object",
				"description": "End point: a place_id, or lat and lng",
				"properties": {
					"place_id": {"type": "string"},
					"lat": {"type": "number"},
					"lng": {"type": "number"}
				}
			},
			"mode": {
				"type": "string",
				"description": "Travel mode (default: driving)",
				"enum": ["driving", "transit", "walking", "bicycling"]
			},
			"departure_time": {
				"type": "integer",
				"description": "Departure time as a unix timestamp in seconds"
			}
		},
		"required": ["origin", "destination"]
	}`)
}

// encodeWaypoint renders a waypoint in the upstream query format.
func encodeWaypoint(name string, w *Waypoint) (string, error) {
	if w == nil {
		return "", tools.NewInvalidArgumentsError("%s is required", name)
	}
	if w.PlaceID != "" {
		return "place_id:" + places.NormalizePlaceID(w.PlaceID), nil
	}
	if w.Lat != nil && w.Lng != nil {
		return strconv.FormatFloat(*w.Lat, 'f', -1, 64) + "," +
			strconv.FormatFloat(*w.Lng, 'f', -1, 64), nil
	}
	return "", tools.NewInvalidArgumentsError("%s must contain a place_id or both lat and lng", name)
}

func validMode(mode string) (string, error) {
	switch mode {
	case "":
		return "driving", nil
	case "driving", "transit", "walking", "bicycling":
		return mode, nil
	default:
		return "", tools.NewInvalidArgumentsError("mode must be one of driving, transit, walking, bicycling; got %q", mode)
	}
}

func (t *DirectionsTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req DirectionsRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	origin, err := encodeWaypoint("origin", req.Origin)
	if err != nil {
		return nil, err
	}
	destination, err := encodeWaypoint("destination", req.Destination)
	if err != nil {
		return nil, err
	}
	mode, err := validMode(req.Mode)
	if err != nil {
		return nil, err
	}

	q := places.DirectionsQuery{
		Origin:      origin,
		Destination: destination,
		Mode:        mode,
	}
	if req.DepartureTime != nil {
		q.DepartureTime = strconv.FormatInt(*req.DepartureTime, 10)
	}

	upstream, err := t.client.Directions(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(upstream.Routes) == 0 || len(upstream.Routes[0].Legs) == 0 {
		return nil, &places.UpstreamError{APIStatus: upstream.Status, Body: "no route found"}
	}

	route := upstream.Routes[0]
	leg := route.Legs[0]

	result := DirectionsResult{
		Summary:         route.Summary,
		Duration:        leg.Duration.Text,
		DurationSeconds: leg.Duration.Value,
		Distance:        leg.Distance.Text,
		DistanceMeters:  leg.Distance.Value,
		Steps:           make([]DirectionStep, len(leg.Steps)),
	}
	if leg.DurationInTraffic != nil {
		result.DurationInTraffic = leg.DurationInTraffic.Text
	}
	for i, s := range leg.Steps {
		step := DirectionStep{
			Instructions: stripHTML(s.HTMLInstructions),
			Distance:     s.Distance.Text,
			Duration:     s.Duration.Text,
			TravelMode:   s.TravelMode,
		}
		if td := s.TransitDetails; td != nil {
			step.Transit = &TransitStep{
				Line:          td.Line.Name,
				LineShortName: td.Line.ShortName,
				DepartureStop: td.DepartureStop.Name,
				ArrivalStop:   td.ArrivalStop.Name,
				NumStops:      td.NumStops,
			}
		}
		result.Steps[i] = step
	}
	return result, nil
}
