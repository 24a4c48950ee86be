// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
	DriverMemory   = "memory"
)

// Config centralises runtime configuration.
type Config struct {
	HTTPPort       string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	LogLevel       string

	StoreDriver     string
	DynamoTable     string
	AWSRegion       string
	DynamoEndpoint  string
	DatabaseURL     string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	CatalogBaseURL string
	CatalogTimeout time.Duration

	AMQPURL            string
	AMQPQueue          string
	PriceCheckInterval time.Duration
}

// Load reads a .env file when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "loading .env")
	}

	httpPort := getEnv("HTTP_PORT", "")
	if httpPort == "" {
		httpPort = getEnv("PORT", "5000")
	}

	cfg := Config{
		HTTPPort:       httpPort,
		AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:    getDurationEnv("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("HTTP_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:    getDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", DriverDynamoDB)),
		DynamoTable:     getEnv("DYNAMODB_TABLE", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		DynamoEndpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MongoURI:        getEnv("MONGODB_URI", ""),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "inventory"),
		MongoCollection: getEnv("MONGODB_COLLECTION", "products"),

		CatalogBaseURL: getEnv("FAKE_STORE_API", "https://fakestoreapi.com"),
		CatalogTimeout: getDurationEnv("CATALOG_TIMEOUT", 10*time.Second),

		AMQPURL:            getEnv("AMQP_URL", ""),
		AMQPQueue:          getEnv("AMQP_QUEUE", "inventory-events"),
		PriceCheckInterval: getDurationEnv("PRICE_CHECK_INTERVAL", 0),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case DriverDynamoDB:
		if c.DynamoTable == "" {
			return errors.New("DYNAMODB_TABLE is required for the dynamodb store")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case DriverMongoDB:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongodb store")
		}
	case DriverMemory:
	default:
		return errors.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.CatalogBaseURL == "" {
		return errors.New("FAKE_STORE_API is required")
	}
	if c.PriceCheckInterval < 0 {
		return errors.New("PRICE_CHECK_INTERVAL must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// getDurationEnv accepts Go durations ("90s") or a bare number of seconds.
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := []string{}
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return []string{"*"}
	}
	return parts
}
