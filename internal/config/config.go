// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// KafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// TrackerTopic is the Kafka topic carrying inbound tracker payloads (default owntracks-ingest).
	// Message key is the routing key "<prefix>/<user>/<device>", value is the JSON payload.
	TrackerTopic string `mapstructure:"TRACKER_KAFKA_TOPIC"`
	// EventsTopic is the Kafka topic geofence events are dispatched to (default geofence-events).
	EventsTopic string `mapstructure:"EVENTS_KAFKA_TOPIC"`
	// CommandTopic is the Kafka topic device-addressed commands are published to (default owntracks-commands).
	// The routing key "<prefix>/<user>/<device>/cmd" is carried as the message key.
	CommandTopic string `mapstructure:"COMMAND_KAFKA_TOPIC"`
	// CommandKeyPrefix is the leading segment of the command routing key (default owntracks).
	CommandKeyPrefix string `mapstructure:"COMMAND_KEY_PREFIX"`
	// KafkaGroupID is the consumer group ID for the engine consumer.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`

	// DatabaseURL is the Postgres DSN; when empty, user and fence state is kept in memory only.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// AdminAddr is the address the admin HTTP API listens on (e.g. :8080).
	AdminAddr string `mapstructure:"ADMIN_ADDR"`
	// AdminJWTSecret is the HS256 secret for admin bearer tokens. Empty disables the admin API.
	AdminJWTSecret string `mapstructure:"ADMIN_JWT_SECRET"`
	// AdminJWTIssuer is the expected iss claim on admin tokens.
	AdminJWTIssuer string `mapstructure:"ADMIN_JWT_ISSUER"`

	// AccuracyThreshold is the max position accuracy in meters accepted for transitions (default 200).
	AccuracyThreshold int `mapstructure:"ACCURACY_THRESHOLD"`
	// DoubleEnter enables suppression of repeated enter events for the fence the user is already in.
	DoubleEnter bool `mapstructure:"DOUBLE_ENTER"`
	// DoubleLeave enables suppression of leave events when the user is not in any fence.
	DoubleLeave bool `mapstructure:"DOUBLE_LEAVE"`
	// UseInregions enables reconciliation from region-membership snapshots in location messages.
	UseInregions bool `mapstructure:"USE_INREGIONS"`

	// OTLPEndpoint is the OTLP gRPC endpoint for traces/metrics/logs (e.g. localhost:4317). Empty disables export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP even for https endpoints (standard OTEL_EXPORTER_OTLP_INSECURE behavior).
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`

	// Worker-only: Loki URL for the event worker to push logs (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// WorkerGroupID is the consumer group ID for the Loki worker.
	WorkerGroupID string `mapstructure:"WORKER_GROUP_ID"`

	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("TRACKER_KAFKA_TOPIC", "owntracks-ingest")
	v.SetDefault("EVENTS_KAFKA_TOPIC", "geofence-events")
	v.SetDefault("COMMAND_KAFKA_TOPIC", "owntracks-commands")
	v.SetDefault("COMMAND_KEY_PREFIX", "owntracks")
	v.SetDefault("KAFKA_GROUP_ID", "geofence-engine")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("ADMIN_ADDR", ":8080")
	v.SetDefault("ADMIN_JWT_SECRET", "")
	v.SetDefault("ADMIN_JWT_ISSUER", "geofence-admin")
	v.SetDefault("ACCURACY_THRESHOLD", 200)
	v.SetDefault("DOUBLE_ENTER", true)
	v.SetDefault("DOUBLE_LEAVE", true)
	v.SetDefault("USE_INREGIONS", true)
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("WORKER_GROUP_ID", "geofence-loki-worker")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.AccuracyThreshold <= 0 {
		return nil, errors.New("config: ACCURACY_THRESHOLD must be a positive number of meters")
	}
	if cfg.TrackerTopic == "" {
		return nil, errors.New("config: TRACKER_KAFKA_TOPIC must be set")
	}
	if cfg.EventsTopic == "" {
		return nil, errors.New("config: EVENTS_KAFKA_TOPIC must be set")
	}

	return &cfg, nil
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if Kafka transport is enabled (non-empty list) and to create readers/writers.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
