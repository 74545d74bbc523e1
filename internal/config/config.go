package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Meter    MeterConfig
	Source   SourceConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// MeterConfig holds metering-core tuning.
type MeterConfig struct {
	CorrectionFactor float64       // empirical GPS distance correction
	NoiseGateMeters  float64       // movement threshold for the sample filter
	WaitingTick      time.Duration // waiting-clock resolution
}

// SourceConfig holds sample-source configuration.
type SourceConfig struct {
	VehicleID         string
	DefaultMode       string // "live" or "simulated"
	LiveKind          string // "redis" or "websocket"
	WebSocketURL      string
	SimulatedTick     time.Duration
	SimulatedLat      float64
	SimulatedLng      float64
	SimulatedSpeedKmh float64
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "taximeter"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Meter: MeterConfig{
			CorrectionFactor: getFloatEnv("METER_CORRECTION_FACTOR", 1.4),
			NoiseGateMeters:  getFloatEnv("METER_NOISE_GATE_METERS", 5),
			WaitingTick:      getDurationEnv("METER_WAITING_TICK", time.Second),
		},
		Source: SourceConfig{
			VehicleID:         getEnv("SOURCE_VEHICLE_ID", "cab-1"),
			DefaultMode:       getEnv("SOURCE_DEFAULT_MODE", "live"),
			LiveKind:          getEnv("SOURCE_LIVE_KIND", "redis"),
			WebSocketURL:      getEnv("SOURCE_WEBSOCKET_URL", "ws://localhost:9001/fixes"),
			SimulatedTick:     getDurationEnv("SOURCE_SIMULATED_TICK", time.Second),
			SimulatedLat:      getFloatEnv("SOURCE_SIMULATED_LAT", -34.9011),
			SimulatedLng:      getFloatEnv("SOURCE_SIMULATED_LNG", -56.1645),
			SimulatedSpeedKmh: getFloatEnv("SOURCE_SIMULATED_SPEED_KMH", 40),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
