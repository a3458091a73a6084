package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type StoreKind string

const (
	MemoryStore       StoreKind = "memory"
	DynamoStore       StoreKind = "dynamodb"
	LocalDynamoStore  StoreKind = "local-dynamodb"
	JetStreamStore    StoreKind = "jetstream"
	EventStoreDBStore StoreKind = "esdb"
	RedisStore        StoreKind = "redis"
	SqliteStore       StoreKind = "sqlite"
)

var storeKinds = []StoreKind{MemoryStore, DynamoStore, LocalDynamoStore, JetStreamStore, EventStoreDBStore, RedisStore, SqliteStore}

type Config struct {
	Log       LogConfig
	Server    ServerConfig
	Store     StoreConfig
	Runtime   RuntimeConfig
	Kafka     KafkaConfig
	Telemetry TelemetryConfig
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type StoreConfig struct {
	Kind           StoreKind
	DynamoTable    string
	DynamoEndpoint string
	NatsURL        string
	NatsStream     string
	ESDBConnection string
	RedisAddr      string
	SqliteDSN      string
}

type RuntimeConfig struct {
	Attempts uint
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type TelemetryConfig struct {
	Exporter         string
	HoneycombTeam    string
	HoneycombDataset string
	JaegerEndpoint   string
}

// Load reads .env when one is present, then the environment. Unset values
// fall back to defaults suitable for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", ":9080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Store: StoreConfig{
			Kind:           StoreKind(getEnv("STORE", string(MemoryStore))),
			DynamoTable:    getEnv("DYNAMODB_STATE_TABLE_NAME", "contract-state"),
			DynamoEndpoint: getEnv("DYNAMODB_ENDPOINT", "http://localhost:8000"),
			NatsURL:        getEnv("NATS_URL", "nats://localhost:4222"),
			NatsStream:     getEnv("NATS_STREAM", "contract-state"),
			ESDBConnection: getEnv("ESDB_CONNECTION", "esdb://localhost:2113?tls=false"),
			RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
			SqliteDSN:      getEnv("SQLITE_DSN", "file:ledger.db?cache=shared"),
		},
		Runtime: RuntimeConfig{
			Attempts: uint(getEnvInt("CALL_ATTEMPTS", 3)),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_RECEIPTS_TOPIC", "ledger.receipts"),
		},
		Telemetry: TelemetryConfig{
			Exporter:         getEnv("TRACE_EXPORTER", ""),
			HoneycombTeam:    getEnv("HONEYCOMB_TEAM", ""),
			HoneycombDataset: getEnv("HONEYCOMB_DATASET", "wee-ledger"),
			JaegerEndpoint:   getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	known := false
	for _, kind := range storeKinds {
		if c.Store.Kind == kind {
			known = true
			break
		}
	}

	if !known {
		return errors.Errorf("unknown store %q", c.Store.Kind)
	}

	if c.Runtime.Attempts == 0 {
		return errors.New("CALL_ATTEMPTS must be at least 1")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required when kafka is enabled")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
