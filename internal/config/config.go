package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/baq-transit/service-routing/internal/platform/database"
)

// EnvPrefix is prepended to every environment variable the service reads.
const EnvPrefix = "ROUTING"

// Event drivers.
const (
	DriverKafka = "kafka"
	DriverNATS  = "nats"
	DriverNone  = "none"
)

// RoutingConfig tunes candidate search and path enumeration.
type RoutingConfig struct {
	SearchRadiusMeters float64 `validate:"gt=0,lte=5000"`
	TrunkAlternatives  int     `validate:"min=1,max=10"`
}

// CacheConfig sizes the network lookup cache.
type CacheConfig struct {
	Size int           `validate:"min=1"`
	TTL  time.Duration `validate:"gt=0"`
}

// EventsConfig selects and configures the message broker.
type EventsConfig struct {
	Driver           string   `validate:"oneof=kafka nats none"`
	KafkaBrokers     []string `validate:"required_if=Driver kafka,dive,hostname_port"`
	KafkaGroupPrefix string   `validate:"required_if=Driver kafka"`
	NATSURL          string   `validate:"required_if=Driver nats"`
}

// ConsumerGroup returns the consumer group id for the named consumer.
func (c EventsConfig) ConsumerGroup(name string) string {
	return c.KafkaGroupPrefix + "-" + name
}

// ServiceConfig holds all configuration for the routing service.
type ServiceConfig struct {
	Port           string `validate:"required"`
	AppEnv         string `validate:"oneof=development production test"`
	MigrationsPath string `validate:"required"`
	DBConfig       database.PostgresConfig
	Routing        RoutingConfig
	Cache          CacheConfig
	Events         EventsConfig
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads configuration from environment variables, after loading an
// optional .env file, and validates it.
func Load() (*ServiceConfig, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &ServiceConfig{
		Port:           servicePort(v.GetString("SERVICE_PORT")),
		AppEnv:         v.GetString("APP_ENV"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Routing: RoutingConfig{
			SearchRadiusMeters: v.GetFloat64("SEARCH_RADIUS_METERS"),
			TrunkAlternatives:  v.GetInt("TRUNK_ALTERNATIVES"),
		},
		Cache: CacheConfig{
			Size: v.GetInt("CACHE_SIZE"),
			TTL:  v.GetDuration("CACHE_TTL"),
		},
		Events: EventsConfig{
			Driver:           strings.ToLower(v.GetString("EVENTS_DRIVER")),
			KafkaBrokers:     splitList(v.GetString("KAFKA_BROKERS")),
			KafkaGroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
			NATSURL:          v.GetString("NATS_URL"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_PORT", ":8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "routing")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SEARCH_RADIUS_METERS", 500)
	v.SetDefault("TRUNK_ALTERNATIVES", 1)
	v.SetDefault("CACHE_SIZE", 1024)
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("EVENTS_DRIVER", DriverKafka)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "service-routing")
	v.SetDefault("NATS_URL", "nats://localhost:4222")
}

// servicePort accepts both "8080" and ":8080".
func servicePort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
