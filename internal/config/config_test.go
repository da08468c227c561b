package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, 5*time.Second, cfg.Trail.SampleInterval)
	assert.Equal(t, 5.0, cfg.Trail.MinDistanceMeters)
	assert.Equal(t, 10.0, cfg.Navigation.ArrivalRadiusMeters)
	assert.Equal(t, 5, cfg.LostMode.NearestWaypoints)
	assert.Equal(t, time.Second, cfg.GPS.UpdateInterval)
	assert.InDelta(t, -33.8688, cfg.GPS.DefaultLatitude, 1e-9)
	assert.False(t, cfg.Auth.Enabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SURVIVAL_TRAIL_MIN_DISTANCE_METERS", "12.5")
	t.Setenv("SURVIVAL_STORAGE_DRIVER", "json")
	t.Setenv("SURVIVAL_GPS_UPDATE_INTERVAL", "250ms")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/nav.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12.5, cfg.Trail.MinDistanceMeters)
	assert.Equal(t, "json", cfg.Storage.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.GPS.UpdateInterval)
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "/tmp/nav.db", cfg.Storage.DBPath)
}

func TestDecode_Validation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  interface{}
	}{
		{"unknown driver", "storage.driver", "postgres"},
		{"bad log level", "log.level", "verbose"},
		{"latitude out of range", "gps.default_latitude", 91.0},
		{"non-positive sample interval", "trail.sample_interval", "0s"},
		{"negative threshold", "trail.min_distance_meters", -1.0},
		{"zero arrival radius", "navigation.arrival_radius_meters", 0.0},
		{"no nearest waypoints", "lost_mode.nearest_waypoints", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			v.Set(tt.key, tt.val)

			_, err := decode(v)
			assert.Error(t, err)
		})
	}
}

func TestDecode_AuthRequiresSecret(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("auth.enabled", true)
	v.Set("auth.jwt_secret", "short")

	_, err := decode(v)
	assert.Error(t, err)

	v.Set("auth.jwt_secret", "a-long-enough-secret")
	cfg, err := decode(v)
	require.NoError(t, err)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenTTL)
}
