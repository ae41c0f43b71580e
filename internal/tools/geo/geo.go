package geo

// Coordinate is the tool-facing lat/lng pair, used for inputs (location
// bias, weather and elevation targets, directions endpoints) and embedded in
// outputs.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
