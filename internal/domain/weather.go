package domain

// StateCode is a normalized two-letter US state or territory code, e.g. "CA".
type StateCode string

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// AlertRecord is one active alert. Empty fields were omitted upstream.
type AlertRecord struct {
	Event    string
	AreaDesc string
	Severity string
	Status   string
	Headline string
}

// ForecastPeriod is one named period of a grid-point forecast.
type ForecastPeriod struct {
	Name            string
	Temperature     *float64 // nil when upstream omitted it
	TemperatureUnit string
	WindSpeed       string
	WindDirection   string
	ShortForecast   string
}

// GridPointResult is the resolved grid point for a coordinate.
type GridPointResult struct {
	ForecastURL string // empty when the point has no forecast
}

// AlertsPayload is the decoded result of an alerts lookup.
type AlertsPayload struct {
	Features []AlertRecord
}

// ForecastPayload is the decoded result of a forecast lookup.
type ForecastPayload struct {
	Periods []ForecastPeriod
}
