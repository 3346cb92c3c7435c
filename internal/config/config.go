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
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Transport TransportConfig
	Logger    LoggerConfig
	Seed      SeedConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN switches the
// service to the in-memory store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TransportConfig configures the Redis Streams event transport.
type TransportConfig struct {
	TicketCreatedStream     string
	TicketAssignmentsStream string
	DeadLetterStream        string
	ConsumerGroup           string
	ConsumerName            string
	Workers                 int
	BlockTimeoutSeconds     int
	PublishTimeoutSeconds   int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SeedConfig toggles sample agent fixtures at startup.
type SeedConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	consumerName := getEnv("TRANSPORT_CONSUMER_NAME", "")
	if consumerName == "" {
		if host, err := os.Hostname(); err == nil {
			consumerName = host
		} else {
			consumerName = "assignment-service"
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "agent-assignment-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Transport: TransportConfig{
			TicketCreatedStream:     getEnv("TRANSPORT_TICKET_CREATED_STREAM", "ticket-created"),
			TicketAssignmentsStream: getEnv("TRANSPORT_TICKET_ASSIGNMENTS_STREAM", "ticket-assignments"),
			DeadLetterStream:        getEnv("TRANSPORT_DEAD_LETTER_STREAM", "ticket-created-dlq"),
			ConsumerGroup:           getEnv("TRANSPORT_CONSUMER_GROUP", "agent-assignment-service"),
			ConsumerName:            consumerName,
			Workers:                 getEnvAsInt("TRANSPORT_WORKERS", 2),
			BlockTimeoutSeconds:     getEnvAsInt("TRANSPORT_BLOCK_TIMEOUT_SECONDS", 5),
			PublishTimeoutSeconds:   getEnvAsInt("TRANSPORT_PUBLISH_TIMEOUT_SECONDS", 5),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Seed: SeedConfig{
			Enabled: getEnvAsBool("SEED_SAMPLE_AGENTS", true),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// BlockTimeout returns the consumer read block duration.
func (t TransportConfig) BlockTimeout() time.Duration {
	if t.BlockTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(t.BlockTimeoutSeconds) * time.Second
}

// PublishTimeout returns the notifier publish deadline.
func (t TransportConfig) PublishTimeout() time.Duration {
	if t.PublishTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(t.PublishTimeoutSeconds) * time.Second
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
