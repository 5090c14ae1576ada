package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	Mongo         MongoConfig
	Logger        LoggerConfig
	Auth          AuthConfig
	Insights      InsightsConfig
	Transcription TranscriptionConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	Timezone              string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MongoConfig points at the optional annotation document store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Enabled reports whether annotations should be read from MongoDB.
func (m MongoConfig) Enabled() bool {
	return m.URI != ""
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Development bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// InsightsConfig tunes aggregation and feedback rules.
type InsightsConfig struct {
	TopN                        int
	DuplicateContactWindowHours int
}

// DuplicateContactWindow returns the window in which a contact number may not repeat.
func (i InsightsConfig) DuplicateContactWindow() time.Duration {
	if i.DuplicateContactWindowHours <= 0 {
		return 48 * time.Hour
	}
	return time.Duration(i.DuplicateContactWindowHours) * time.Hour
}

// TranscriptionConfig controls the fire-and-forget transcription hand-off.
type TranscriptionConfig struct {
	QueueKey           string
	MinDurationSeconds float64
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	minDuration, err := strconv.ParseFloat(getEnv("TRANSCRIPTION_MIN_DURATION_SECONDS", "300"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSCRIPTION_MIN_DURATION_SECONDS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "field-insights"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			Timezone:              getEnv("APP_TIMEZONE", "UTC"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Mongo: MongoConfig{
			URI:        os.Getenv("MONGO_URI"),
			Database:   getEnv("MONGO_DATABASE", "field_insights"),
			Collection: getEnv("MONGO_ANNOTATIONS_COLLECTION", "transcript_annotations"),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		Insights: InsightsConfig{
			TopN:                        getEnvAsInt("INSIGHTS_TOP_N", 5),
			DuplicateContactWindowHours: getEnvAsInt("FEEDBACK_DUPLICATE_CONTACT_WINDOW_HOURS", 48),
		},
		Transcription: TranscriptionConfig{
			QueueKey:           getEnv("TRANSCRIPTION_QUEUE_KEY", "transcription:pending"),
			MinDurationSeconds: minDuration,
		},
	}

	if _, err := cfg.App.Location(); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// Location resolves the configured timezone.
func (a AppConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(a.Timezone)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
