package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Config is the application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Log        LogConfig        `mapstructure:"log"`
	GPS        GPSConfig        `mapstructure:"gps"`
	Trail      TrailConfig      `mapstructure:"trail"`
	Navigation NavigationConfig `mapstructure:"navigation"`
	LostMode   LostModeConfig   `mapstructure:"lost_mode"`
	Auth       AuthConfig       `mapstructure:"auth"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	RateLimit       float64       `mapstructure:"rate_limit"` // requests per second per client
	RateBurst       int           `mapstructure:"rate_burst"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects where waypoints and trails are persisted
type StorageConfig struct {
	Driver  string `mapstructure:"driver"` // sqlite or json
	DBPath  string `mapstructure:"db_path"`
	JSONDir string `mapstructure:"json_dir"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// GPSConfig holds the default position and the simulated feed settings
type GPSConfig struct {
	DefaultLatitude  float64       `mapstructure:"default_latitude"`
	DefaultLongitude float64       `mapstructure:"default_longitude"`
	DefaultAltitude  float64       `mapstructure:"default_altitude"`
	Simulate         bool          `mapstructure:"simulate"`
	UpdateInterval   time.Duration `mapstructure:"update_interval"`
	TimeToFix        time.Duration `mapstructure:"time_to_fix"`
	Satellites       int           `mapstructure:"satellites"`
	JitterMeters     float64       `mapstructure:"jitter_meters"`
	CourseDegrees    float64       `mapstructure:"course_degrees"`
	SpeedMPS         float64       `mapstructure:"speed_mps"`
}

// TrailConfig holds the breadcrumb sampling policy
type TrailConfig struct {
	SampleInterval    time.Duration `mapstructure:"sample_interval"`
	MinDistanceMeters float64       `mapstructure:"min_distance_meters"`
}

// NavigationConfig holds navigation settings
type NavigationConfig struct {
	ArrivalRadiusMeters float64 `mapstructure:"arrival_radius_meters"`
}

// LostModeConfig holds lost-mode settings
type LostModeConfig struct {
	NearestWaypoints int `mapstructure:"nearest_waypoints"`
}

// AuthConfig holds device-token settings
type AuthConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	PairingCode string        `mapstructure:"pairing_code"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
}

// Load reads config.yaml (optional), SURVIVAL_* environment variables and defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/survival-companion")

	v.SetEnvPrefix("SURVIVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// legacy variables
	_ = v.BindEnv("server.port", "SURVIVAL_SERVER_PORT", "PORT")
	_ = v.BindEnv("storage.db_path", "SURVIVAL_STORAGE_DB_PATH", "DB_PATH")
	_ = v.BindEnv("auth.jwt_secret", "SURVIVAL_AUTH_JWT_SECRET", "JWT_SECRET")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !strings.Contains(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.db_path", "./data/navigation/navigation.db")
	v.SetDefault("storage.json_dir", "./data/navigation")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "")

	// Sydney, matching the device's factory demo fix
	v.SetDefault("gps.default_latitude", -33.8688)
	v.SetDefault("gps.default_longitude", 151.2093)
	v.SetDefault("gps.default_altitude", 58.0)
	v.SetDefault("gps.simulate", true)
	v.SetDefault("gps.update_interval", "1s")
	v.SetDefault("gps.time_to_fix", "3s")
	v.SetDefault("gps.satellites", 9)
	v.SetDefault("gps.jitter_meters", 2.0)
	v.SetDefault("gps.course_degrees", 0.0)
	v.SetDefault("gps.speed_mps", 0.0)

	v.SetDefault("trail.sample_interval", "5s")
	v.SetDefault("trail.min_distance_meters", 5.0)

	v.SetDefault("navigation.arrival_radius_meters", 10.0)

	v.SetDefault("lost_mode.nearest_waypoints", 5)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt_secret", "dev-jwt-secret-change-in-production")
	v.SetDefault("auth.pairing_code", "000000")
	v.SetDefault("auth.token_ttl", "720h")
}

func validateConfig(cfg *Config) error {
	if !lo.Contains([]string{"sqlite", "json"}, cfg.Storage.Driver) {
		return fmt.Errorf("invalid storage driver: %s", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == "sqlite" && cfg.Storage.DBPath == "" {
		return fmt.Errorf("storage db_path cannot be empty")
	}
	if cfg.Storage.Driver == "json" && cfg.Storage.JSONDir == "" {
		return fmt.Errorf("storage json_dir cannot be empty")
	}

	if !lo.Contains([]string{"debug", "info", "warn", "error"}, cfg.Log.Level) {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if !lo.Contains([]string{"", "json", "console"}, cfg.Log.Encoding) {
		return fmt.Errorf("invalid log encoding: %s", cfg.Log.Encoding)
	}

	if cfg.Server.RateLimit <= 0 || cfg.Server.RateBurst < 1 {
		return fmt.Errorf("rate limit must be positive")
	}

	if cfg.GPS.DefaultLatitude < -90 || cfg.GPS.DefaultLatitude > 90 {
		return fmt.Errorf("default latitude out of range: %f", cfg.GPS.DefaultLatitude)
	}
	if cfg.GPS.DefaultLongitude < -180 || cfg.GPS.DefaultLongitude > 180 {
		return fmt.Errorf("default longitude out of range: %f", cfg.GPS.DefaultLongitude)
	}
	if cfg.GPS.UpdateInterval <= 0 {
		return fmt.Errorf("gps update interval must be positive")
	}
	if cfg.GPS.JitterMeters < 0 || cfg.GPS.SpeedMPS < 0 {
		return fmt.Errorf("gps jitter and speed cannot be negative")
	}

	if cfg.Trail.SampleInterval <= 0 {
		return fmt.Errorf("trail sample interval must be positive")
	}
	if cfg.Trail.MinDistanceMeters < 0 {
		return fmt.Errorf("trail min distance cannot be negative")
	}
	if cfg.Navigation.ArrivalRadiusMeters <= 0 {
		return fmt.Errorf("arrival radius must be positive")
	}
	if cfg.LostMode.NearestWaypoints < 1 {
		return fmt.Errorf("lost mode must list at least one waypoint")
	}

	if cfg.Auth.Enabled {
		if len(cfg.Auth.JWTSecret) < 8 {
			return fmt.Errorf("JWT secret must be at least 8 characters long")
		}
		if cfg.Auth.PairingCode == "" {
			return fmt.Errorf("pairing code cannot be empty when auth is enabled")
		}
		if cfg.Auth.TokenTTL < time.Minute {
			return fmt.Errorf("token ttl must be at least 1 minute")
		}
	}

	return nil
}

// IsProduction returns true if the environment is production
func (s *ServerConfig) IsProduction() bool {
	return strings.ToLower(s.Environment) == "production"
}
