package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration loaded from environment
// variables (optionally seeded from a .env file).
type Config struct {
	Env                string
	HTTPAddr           string
	MongoURI           string
	MongoDB            string
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	RedisAddr          string
	IdempotencyTTL     time.Duration
	JWTSecret          string
	CancellationWindow time.Duration
	MaxStayNights      int
	Currency           string
}

// Load parses configuration from the current environment. Persistence and
// broker settings are optional: with them absent the service runs on its
// in-memory backends, which is the mode tests and local demos use.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "staybook"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		Currency:         strings.ToUpper(getEnv("CURRENCY", "USD")),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	ttl, err := parseDurationEnv("IDEMP_TTL", 168*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.IdempotencyTTL = ttl

	window, err := parseDurationEnv("CANCEL_WINDOW", 48*time.Hour)
	if err != nil {
		return Config{}, err
	}
	if window <= 0 {
		return Config{}, fmt.Errorf("CANCEL_WINDOW must be positive")
	}
	cfg.CancellationWindow = window

	maxStay, err := parseIntEnv("MAX_STAY_NIGHTS", 30)
	if err != nil {
		return Config{}, err
	}
	if maxStay <= 0 {
		return Config{}, fmt.Errorf("MAX_STAY_NIGHTS must be positive")
	}
	cfg.MaxStayNights = maxStay

	if len(cfg.Currency) != 3 {
		return Config{}, fmt.Errorf("CURRENCY must be a 3-letter code, got %q", cfg.Currency)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}
