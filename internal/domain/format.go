package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	placeholderUnknown     = "Unknown"
	placeholderHeadline    = "No headline"
	placeholderForecast    = "No forecast available"
	defaultTemperatureUnit = "F"
	blockSeparator         = "---"
)

// FormatAlert renders one alert as a text block.
func FormatAlert(a AlertRecord) string {
	return strings.Join([]string{
		"Event: " + orDefault(a.Event, placeholderUnknown),
		"Area: " + orDefault(a.AreaDesc, placeholderUnknown),
		"Severity: " + orDefault(a.Severity, placeholderUnknown),
		"Status: " + orDefault(a.Status, placeholderUnknown),
		"Headline: " + orDefault(a.Headline, placeholderHeadline),
		blockSeparator,
	}, "\n")
}

// FormatPeriod renders one forecast period as a text block.
func FormatPeriod(p ForecastPeriod) string {
	temp := placeholderUnknown
	if p.Temperature != nil {
		temp = strconv.FormatFloat(*p.Temperature, 'f', -1, 64)
	}
	return strings.Join([]string{
		orDefault(p.Name, placeholderUnknown) + ":",
		fmt.Sprintf("Temperature: %s°%s", temp, orDefault(p.TemperatureUnit, defaultTemperatureUnit)),
		fmt.Sprintf("Wind: %s %s", orDefault(p.WindSpeed, placeholderUnknown), p.WindDirection),
		orDefault(p.ShortForecast, placeholderForecast),
		blockSeparator,
	}, "\n")
}

// FormatAlerts renders the alert list for a state, or a "no active alerts"
// line when the list is empty.
func FormatAlerts(state StateCode, alerts []AlertRecord) string {
	if len(alerts) == 0 {
		return fmt.Sprintf("No active alerts for %s", state)
	}
	blocks := make([]string, len(alerts))
	for i, a := range alerts {
		blocks[i] = FormatAlert(a)
	}
	return fmt.Sprintf("Active alerts for %s:\n\n%s", state, strings.Join(blocks, "\n"))
}

// FormatForecast renders the forecast periods for a coordinate.
func FormatForecast(c Coordinates, periods []ForecastPeriod) string {
	if len(periods) == 0 {
		return "No forecast periods available"
	}
	blocks := make([]string, len(periods))
	for i, p := range periods {
		blocks[i] = FormatPeriod(p)
	}
	return fmt.Sprintf("Forecast for %s, %s:\n\n%s",
		strconv.FormatFloat(c.Lat, 'f', -1, 64),
		strconv.FormatFloat(c.Lon, 'f', -1, 64),
		strings.Join(blocks, "\n"),
	)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
