// Package domain models National Weather Service (NWS) alert and forecast data
// as served to tool callers.
//
// # Data Source
//
// All data comes from the public NWS API at https://api.weather.gov. The API is
// unauthenticated but requires a User-Agent identifying the client, and serves
// GeoJSON when asked for "application/geo+json".
//
// # NWS Data Conventions
//
// Alerts:
//
//	GET /alerts?area=<STATE> returns a FeatureCollection. Each feature's
//	"properties" carries event, areaDesc, severity, status and headline.
//	Any of them may be missing; absence is kept as the empty string and only
//	rendered as a placeholder ("Unknown", "No headline") by the formatter.
//
// Grid points:
//
//	A coordinate is first resolved with GET /points/<lat>,<lon>. The API
//	expects at most 4 decimal places and redirects longer values, so
//	coordinates are always rendered with exactly 4 ([FormatPoint]).
//	The response's properties.forecast is an opaque URL for the 12-hour
//	forecast of the containing grid square. Points outside NWS coverage
//	come back without it, which is reported as FORECAST_URL_MISSING.
//
// Forecast periods:
//
//	properties.periods is an ordered list of named periods ("Tonight",
//	"Friday", ...). temperature is a number in temperatureUnit ("F" or "C");
//	windSpeed is free text ("5 to 10 mph").
//
// State codes:
//
//	Two ASCII letters, case-insensitive on input and normalized to upper case.
//	Shape is checked locally; whether the code names a real state or marine
//	zone is left to the upstream API.
//
// # Errors
//
// Every failure leaving this package, the API client or the service is a
// [*WeatherError] carrying one [Code] from a closed set. See [Code] for the
// list and which codes are retryable.
package domain
