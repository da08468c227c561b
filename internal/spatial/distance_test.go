package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type latLon struct {
	Lat, Lon float64
}

var samplePoints = []latLon{
	{Lat: 10.0, Lon: 20.0},
	{Lat: 10.001, Lon: 20.001},
	{Lat: -33.8688, Lon: 151.2093},
	{Lat: 51.5074, Lon: -0.1278},
	{Lat: 89.9, Lon: 0},
	{Lat: -45.0, Lon: -179.9},
	{Lat: -45.0, Lon: 179.9},
}

func TestHaversineDistance(t *testing.T) {
	t.Run("symmetric and zero on identity", func(t *testing.T) {
		for _, a := range samplePoints {
			assert.Equal(t, 0.0, HaversineDistance(a.Lat, a.Lon, a.Lat, a.Lon))
			for _, b := range samplePoints {
				ab := HaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)
				ba := HaversineDistance(b.Lat, b.Lon, a.Lat, a.Lon)
				assert.InDelta(t, ab, ba, 1e-6)
			}
		}
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d := HaversineDistance(0, 0, 1, 0)
		assert.InDelta(t, EarthRadiusMeters*math.Pi/180, d, 1e-6)
	})

	t.Run("small offset near the equator", func(t *testing.T) {
		d := HaversineDistance(10.0, 20.0, 10.001, 20.001)
		assert.InDelta(t, 156.2, d, 1.0)
	})

	t.Run("across the antimeridian", func(t *testing.T) {
		d := HaversineDistance(-45.0, -179.9, -45.0, 179.9)
		assert.Less(t, d, 20000.0)
	})
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name     string
		from, to latLon
		want     float64
	}{
		{"due north", latLon{0, 0}, latLon{1, 0}, 0},
		{"due east", latLon{0, 0}, latLon{0, 1}, 90},
		{"due south", latLon{1, 0}, latLon{0, 0}, 180},
		{"due west", latLon{0, 1}, latLon{0, 0}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(tt.from.Lat, tt.from.Lon, tt.to.Lat, tt.to.Lon)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}

	t.Run("always within [0, 360)", func(t *testing.T) {
		for _, a := range samplePoints {
			for _, b := range samplePoints {
				if a == b {
					continue
				}
				got := Bearing(a.Lat, a.Lon, b.Lat, b.Lon)
				assert.GreaterOrEqual(t, got, 0.0)
				assert.Less(t, got, 360.0)
			}
		}
	})

	t.Run("coincident points", func(t *testing.T) {
		assert.Equal(t, 0.0, Bearing(12.5, 7.25, 12.5, 7.25))
	})

	t.Run("camp lies southwest", func(t *testing.T) {
		got := Bearing(10.001, 20.001, 10.0, 20.0)
		assert.InDelta(t, 224.6, got, 1.0)
		assert.Equal(t, "SW", CompassLabel(got))
	})
}

func TestRelativeBearing(t *testing.T) {
	tests := []struct {
		bearing, heading, want float64
	}{
		{90, 0, 90},
		{0, 90, -90},
		{10, 350, 20},
		{350, 10, -20},
		{180, 0, 180},
		{0, 180, 180},
		{45, 45, 0},
		{359, 0, -1},
	}
	for _, tt := range tests {
		got := RelativeBearing(tt.bearing, tt.heading)
		assert.InDelta(t, tt.want, got, 1e-9, "bearing=%v heading=%v", tt.bearing, tt.heading)
		assert.Greater(t, got, -180.0)
		assert.LessOrEqual(t, got, 180.0)
	}
}

func TestDestinationPoint(t *testing.T) {
	for _, bearing := range []float64{0, 45, 137, 270} {
		lat, lon := DestinationPoint(10.0, 20.0, bearing, 250)
		require.InDelta(t, 250, HaversineDistance(10.0, 20.0, lat, lon), 1e-3)
		if bearing != 0 {
			assert.InDelta(t, bearing, Bearing(10.0, 20.0, lat, lon), 0.01)
		}
	}
}

func TestEncodeGeohash(t *testing.T) {
	assert.Equal(t, "u4pruydqqvj", EncodeGeohash(57.64911, 10.40744, 11))
	assert.Len(t, EncodeGeohash(10, 20, WaypointGeohashPrecision), WaypointGeohashPrecision)
	assert.Len(t, EncodeGeohash(10, 20, 0), 1)
	assert.Len(t, EncodeGeohash(10, 20, 40), 12)
}
