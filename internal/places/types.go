package places

// Typed response schemas for every upstream endpoint. Mapping into tool
// output happens in internal/tools/geo; these structs mirror the upstream
// wire shapes so a shape mismatch fails at decode time instead of silently
// producing empty fields.

// LatLng is the Places API (v1) coordinate representation.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// Place is the subset of the Places API (v1) place resource the server maps.
type Place struct {
	ID                       string        `json:"id"`
	DisplayName              LocalizedText `json:"displayName"`
	FormattedAddress         string        `json:"formattedAddress"`
	Location                 LatLng        `json:"location"`
	Types                    []string      `json:"types,omitempty"`
	Rating                   float64       `json:"rating,omitempty"`
	UserRatingCount          int           `json:"userRatingCount,omitempty"`
	BusinessStatus           string        `json:"businessStatus,omitempty"`
	InternationalPhoneNumber string        `json:"internationalPhoneNumber,omitempty"`
	WebsiteURI               string        `json:"websiteUri,omitempty"`
	PriceLevel               string        `json:"priceLevel,omitempty"`
	RegularOpeningHours      *OpeningHours `json:"regularOpeningHours,omitempty"`
}

type OpeningHours struct {
	OpenNow             bool     `json:"openNow"`
	WeekdayDescriptions []string `json:"weekdayDescriptions,omitempty"`
}

type searchTextRequest struct {
	TextQuery    string        `json:"textQuery"`
	PageSize     int           `json:"pageSize"`
	LocationBias *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type SearchTextResponse struct {
	Places []Place `json:"places"`
}

// Weather API current conditions.

type Temperature struct {
	Degrees float64 `json:"degrees"`
	Unit    string  `json:"unit"`
}

type WeatherCondition struct {
	Description LocalizedText `json:"description"`
	Type        string        `json:"type"`
}

type PrecipitationProbability struct {
	Percent float64 `json:"percent"`
	Type    string  `json:"type"`
}

type QuantityWithUnit struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type Precipitation struct {
	Probability PrecipitationProbability `json:"probability"`
	QPF         QuantityWithUnit         `json:"qpf"`
}

type AirPressure struct {
	MeanSeaLevelMillibars float64 `json:"meanSeaLevelMillibars"`
}

type WindDirection struct {
	Degrees  float64 `json:"degrees"`
	Cardinal string  `json:"cardinal"`
}

type Speed struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type Wind struct {
	Direction WindDirection `json:"direction"`
	Speed     Speed         `json:"speed"`
	Gust      Speed         `json:"gust"`
}

type Visibility struct {
	Distance float64 `json:"distance"`
	Unit     string  `json:"unit"`
}

type ConditionsHistory struct {
	TemperatureChange *Temperature     `json:"temperatureChange,omitempty"`
	MaxTemperature    *Temperature     `json:"maxTemperature,omitempty"`
	MinTemperature    *Temperature     `json:"minTemperature,omitempty"`
	QPF               QuantityWithUnit `json:"qpf"`
}

type CurrentConditions struct {
	CurrentTime              string             `json:"currentTime"`
	IsDaytime                bool               `json:"isDaytime"`
	WeatherCondition         WeatherCondition   `json:"weatherCondition"`
	Temperature              *Temperature       `json:"temperature,omitempty"`
	FeelsLikeTemperature     *Temperature       `json:"feelsLikeTemperature,omitempty"`
	DewPoint                 *Temperature       `json:"dewPoint,omitempty"`
	HeatIndex                *Temperature       `json:"heatIndex,omitempty"`
	WindChill                *Temperature       `json:"windChill,omitempty"`
	RelativeHumidity         float64            `json:"relativeHumidity"`
	UVIndex                  int                `json:"uvIndex"`
	Precipitation            Precipitation      `json:"precipitation"`
	ThunderstormProbability  float64            `json:"thunderstormProbability"`
	AirPressure              AirPressure        `json:"airPressure"`
	Wind                     Wind               `json:"wind"`
	Visibility               Visibility         `json:"visibility"`
	CloudCover               float64            `json:"cloudCover"`
	CurrentConditionsHistory *ConditionsHistory `json:"currentConditionsHistory,omitempty"`
}

// Elevation API (legacy Maps web service).

type ElevationLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ElevationResult struct {
	Elevation  float64           `json:"elevation"`
	Location   ElevationLocation `json:"location"`
	Resolution float64           `json:"resolution,omitempty"`
}

type elevationResponse struct {
	Results      []ElevationResult `json:"results"`
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// Directions API (legacy Maps web service).

type TextValue struct {
	Text  string `json:"text"`
	Value int64  `json:"value"`
}

type TransitStop struct {
	Name string `json:"name"`
}

type TransitLine struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type TransitDetails struct {
	Line          TransitLine `json:"line"`
	DepartureStop TransitStop `json:"departure_stop"`
	ArrivalStop   TransitStop `json:"arrival_stop"`
	NumStops      int         `json:"num_stops"`
}

type RouteStep struct {
	HTMLInstructions string          `json:"html_instructions"`
	Distance         TextValue       `json:"distance"`
	Duration         TextValue       `json:"duration"`
	TravelMode       string          `json:"travel_mode"`
	TransitDetails   *TransitDetails `json:"transit_details,omitempty"`
}

type RouteLeg struct {
	Duration          TextValue   `json:"duration"`
	DurationInTraffic *TextValue  `json:"duration_in_traffic,omitempty"`
	Distance          TextValue   `json:"distance"`
	Steps             []RouteStep `json:"steps"`
}

type Route struct {
	Summary string     `json:"summary"`
	Legs    []RouteLeg `json:"legs"`
}

type DirectionsResponse struct {
	Routes       []Route `json:"routes"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}
