package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// stateCodeRe matches a normalized state code: exactly two ASCII letters.
var stateCodeRe = regexp.MustCompile(`^[A-Z]{2}$`)

// CoordinatePrecision is the number of decimals the points endpoint accepts.
const CoordinatePrecision = 4

// ValidateStateCode normalizes input to upper case and checks its shape.
func ValidateStateCode(input string) (StateCode, error) {
	code := strings.ToUpper(input)
	if !stateCodeRe.MatchString(code) {
		return "", &WeatherError{
			Code:    CodeInvalidStateCode,
			Message: fmt.Sprintf("invalid state code %q: must be two letters, e.g. CA", input),
		}
	}
	return StateCode(code), nil
}

// ValidateCoordinates checks latitude before longitude, so a pair with both
// out of range reports INVALID_LATITUDE. NaN is out of range.
func ValidateCoordinates(lat, lon float64) (Coordinates, error) {
	if !(lat >= -90 && lat <= 90) {
		return Coordinates{}, &WeatherError{
			Code:    CodeInvalidLatitude,
			Message: fmt.Sprintf("invalid latitude %v: must be between -90 and 90", lat),
		}
	}
	if !(lon >= -180 && lon <= 180) {
		return Coordinates{}, &WeatherError{
			Code:    CodeInvalidLongitude,
			Message: fmt.Sprintf("invalid longitude %v: must be between -180 and 180", lon),
		}
	}
	return Coordinates{Lat: lat, Lon: lon}, nil
}

// FormatPoint renders coordinates as "lat,lon" with exactly
// CoordinatePrecision decimals each, e.g. "40.7128,-74.0060".
func FormatPoint(c Coordinates) string {
	return formatFixed(c.Lat) + "," + formatFixed(c.Lon)
}

// formatFixed rounds the shortest decimal form of v half away from zero, so
// 40.71275 becomes 40.7128 even though its binary value sits just below.
func formatFixed(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', CoordinatePrecision, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(CoordinatePrecision)
}
