package geo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/svarun115/googleplaces-mcp-server/internal/places"
	"github.com/svarun115/googleplaces-mcp-server/internal/tools"
)

type WeatherRequest struct {
	Location *Coordinate `json:"location"`
	Units    string      `json:"units,omitempty"`
}

type WeatherHistory struct {
	TemperatureChange *float64 `json:"temperature_change,omitempty"`
	MaxTemperature    *float64 `json:"max_temperature,omitempty"`
	MinTemperature    *float64 `json:"min_temperature,omitempty"`
	Precipitation     float64  `json:"precipitation"`
}

// WeatherUnits echoes which symbol set the numeric fields use.
type WeatherUnits struct {
	System        string `json:"system"`
	Temperature   string `json:"temperature"`
	Speed         string `json:"speed"`
	Precipitation string `json:"precipitation"`
	Distance      string `json:"distance"`
}

type WeatherReport struct {
	Time                     string          `json:"time,omitempty"`
	IsDaytime                bool            `json:"is_daytime"`
	Condition                string          `json:"condition,omitempty"`
	ConditionType            string          `json:"condition_type,omitempty"`
	Temperature              *float64        `json:"temperature,omitempty"`
	FeelsLike                *float64        `json:"feels_like,omitempty"`
	DewPoint                 *float64        `json:"dew_point,omitempty"`
	HeatIndex                *float64        `json:"heat_index,omitempty"`
	WindChill                *float64        `json:"wind_chill,omitempty"`
	Humidity                 float64         `json:"humidity"`
	UVIndex                  int             `json:"uv_index"`
	PrecipitationProbability float64         `json:"precipitation_probability"`
	PrecipitationType        string          `json:"precipitation_type,omitempty"`
	PrecipitationAmount      float64         `json:"precipitation_amount"`
	ThunderstormProbability  float64         `json:"thunderstorm_probability"`
	Pressure                 float64         `json:"pressure"`
	WindDirection            float64         `json:"wind_direction"`
	WindCardinal             string          `json:"wind_cardinal,omitempty"`
	WindSpeed                float64         `json:"wind_speed"`
	WindGust                 float64         `json:"wind_gust"`
	Visibility               float64         `json:"visibility"`
	CloudCover               float64         `json:"cloud_cover"`
	History                  *WeatherHistory `json:"history_24h,omitempty"`
	Units                    WeatherUnits    `json:"units"`
}

type WeatherTool struct {
	client *places.Client
}

func NewWeatherTool(client *places.Client) *WeatherTool {
	return &WeatherTool{client: client}
}

func (t *WeatherTool) Name() string {
	return "get_weather"
}

func (t *WeatherTool) Title() string {
	return "Get Weather"
}

func (t *WeatherTool) Description() string {
	return "Get current weather conditions for a coordinate"
}

func (t *WeatherTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *WeatherTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"location": {
				"type": "object",
				"description": "Coordinate to report weather for",
				"properties": {
					"lat": {"type": "number"},
					"lng": {"type": "number"}
				},
				"required": ["lat", "lng"]
			},
			"units": {
				"type": "string",
				"description": "Unit system for the report (default: metric)",
				"enum": ["metric", "imperial", "standard"]
			}
		},
		"required": ["location"]
	}`)
}

// unitsSystemToken converts the tool's units enum to the upstream token.
// The upstream only distinguishes metric and imperial; "standard" rides on
// metric.
func unitsSystemToken(units string) (string, error) {
	switch units {
	case "", "metric", "standard":
		return "METRIC", nil
	case "imperial":
		return "IMPERIAL", nil
	default:
		return "", tools.NewInvalidArgumentsError("units must be one of metric, imperial, standard; got %q", units)
	}
}

func unitsEcho(token string) WeatherUnits {
	if token == "IMPERIAL" {
		return WeatherUnits{
			System:        "imperial",
			Temperature:   "°F",
			Speed:         "mph",
			Precipitation: "in",
			Distance:      "mi",
		}
	}
	return WeatherUnits{
		System:        "metric",
		Temperature:   "°C",
		Speed:         "km/h",
		Precipitation: "mm",
		Distance:      "km",
	}
}

func (t *WeatherTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req WeatherRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if req.Location == nil {
		return nil, tools.NewInvalidArgumentsError("location is required")
	}
	token, err := unitsSystemToken(req.Units)
	if err != nil {
		return nil, err
	}

	loc := places.LatLng{Latitude: req.Location.Lat, Longitude: req.Location.Lng}
	cc, err := t.client.CurrentConditions(ctx, loc, token)
	if err != nil {
		return nil, err
	}

	report := WeatherReport{
		Time:                     cc.CurrentTime,
		IsDaytime:                cc.IsDaytime,
		Condition:                cc.WeatherCondition.Description.Text,
		ConditionType:            cc.WeatherCondition.Type,
		Temperature:              degrees(cc.Temperature),
		FeelsLike:                degrees(cc.FeelsLikeTemperature),
		DewPoint:                 degrees(cc.DewPoint),
		HeatIndex:                degrees(cc.HeatIndex),
		WindChill:                degrees(cc.WindChill),
		Humidity:                 cc.RelativeHumidity,
		UVIndex:                  cc.UVIndex,
		PrecipitationProbability: cc.Precipitation.Probability.Percent,
		PrecipitationType:        cc.Precipitation.Probability.Type,
		PrecipitationAmount:      cc.Precipitation.QPF.Quantity,
		ThunderstormProbability:  cc.ThunderstormProbability,
		Pressure:                 cc.AirPressure.MeanSeaLevelMillibars,
		WindDirection:            cc.Wind.Direction.Degrees,
		WindCardinal:             cc.Wind.Direction.Cardinal,
		WindSpeed:                cc.Wind.Speed.Value,
		WindGust:                 cc.Wind.Gust.Value,
		Visibility:               cc.Visibility.Distance,
		CloudCover:               cc.CloudCover,
		Units:                    unitsEcho(token),
	}
	if h := cc.CurrentConditionsHistory; h != nil {
		report.History = &WeatherHistory{
			TemperatureChange: degrees(h.TemperatureChange),
			MaxTemperature:    degrees(h.MaxTemperature),
			MinTemperature:    degrees(h.MinTemperature),
			Precipitation:     h.QPF.Quantity,
		}
	}
	return report, nil
}

func degrees(t *places.Temperature) *float64 {
	if t == nil {
		return nil
	}
	d := t.Degrees
	return &d
}
