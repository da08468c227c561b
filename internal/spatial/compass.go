package spatial

import (
	"fmt"
	"math"
)

// compassPoints are the 16 labels, 22.5 degrees apart, starting at North
var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// CompassLabel quantizes a bearing into one of 16 compass labels
func CompassLabel(bearing float64) string {
	idx := int(math.Round(NormalizeBearing(bearing)/22.5)) % 16
	return compassPoints[idx]
}

// DistanceDisplay is a distance in meters together with its human-readable form
type DistanceDisplay struct {
	Meters  float64 `json:"meters"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Display string  `json:"display"`
}

// FormatDistance renders meters below 1 km as whole meters, otherwise km with 2 decimals
func FormatDistance(meters float64) DistanceDisplay {
	if meters < 1000 {
		v := math.Round(meters)
		return DistanceDisplay{
			Meters:  meters,
			Value:   v,
			Unit:    "m",
			Display: fmt.Sprintf("%.0f m", v),
		}
	}

	km := math.Round(meters/10) / 100
	return DistanceDisplay{
		Meters:  meters,
		Value:   km,
		Unit:    "km",
		Display: fmt.Sprintf("%.2f km", km),
	}
}

// TurnDirection maps a relative bearing to left/right/straight
func TurnDirection(relative float64) string {
	switch {
	case relative < 0:
		return "left"
	case relative > 0:
		return "right"
	default:
		return "straight"
	}
}
