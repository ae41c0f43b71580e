package geo

import (
	"github.com/svarun115/googleplaces-mcp-server/internal/places"
	"github.com/svarun115/googleplaces-mcp-server/internal/tools"
)

// GetTools returns the geolocation tool set, all backed by the same upstream
// client.
func GetTools(client *places.Client) []tools.Tool {
	return []tools.Tool{
		NewSearchTool(client),
		NewDetailsTool(client),
		NewWeatherTool(client),
		NewElevationTool(client),
		NewDirectionsTool(client),
	}
}
