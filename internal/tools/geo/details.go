package geo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/svarun115/googleplaces-mcp-server/internal/places"
	"github.com/svarun115/googleplaces-mcp-server/internal/tools"
)

type DetailsRequest struct {
	PlaceID string `json:"place_id"`
}

type OpeningHours struct {
	OpenNow     bool     `json:"open_now"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

type PlaceDetails struct {
	PlaceID      string        `json:"place_id"`
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	Location     Coordinate    `json:"location"`
	Phone        string        `json:"phone,omitempty"`
	Website      string        `json:"website,omitempty"`
	Rating       float64       `json:"rating,omitempty"`
	PriceLevel   string        `json:"price_level,omitempty"`
	Types        []string      `json:"types,omitempty"`
	OpeningHours *OpeningHours `json:"opening_hours,omitempty"`
}

type DetailsTool struct {
	client *places.Client
}

func NewDetailsTool(client *places.Client) *DetailsTool {
	return &DetailsTool{client: client}
}

func (t *DetailsTool) Name() string {
	return "get_place_details"
}

func (t *DetailsTool) Title() string {
	return "Get Place Details"
}

func (t *DetailsTool) Description() string {
	return "Fetch detailed information about a place by its identifier"
}

func (t *DetailsTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *DetailsTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"place_id": {
				"type": "string",
				"description": "Place identifier, with or without the 'places/' prefix"
			}
		},
		"required": ["place_id"]
	}`)
}

func (t *DetailsTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req DetailsRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if req.PlaceID == "" {
		return nil, tools.NewInvalidArgumentsError("place_id is required")
	}

	place, err := t.client.PlaceDetails(ctx, req.PlaceID)
	if err != nil {
		return nil, err
	}

	details := PlaceDetails{
		PlaceID:    place.ID,
		Name:       place.DisplayName.Text,
		Address:    place.FormattedAddress,
		Location:   Coordinate{Lat: place.Location.Latitude, Lng: place.Location.Longitude},
		Phone:      place.InternationalPhoneNumber,
		Website:    place.WebsiteURI,
		Rating:     place.Rating,
		PriceLevel: place.PriceLevel,
		Types:      place.Types,
	}
	if place.RegularOpeningHours != nil {
		details.OpeningHours = &OpeningHours{
			OpenNow:     place.RegularOpeningHours.OpenNow,
			WeekdayText: place.RegularOpeningHours.WeekdayDescriptions,
		}
	}
	return details, nil
}
