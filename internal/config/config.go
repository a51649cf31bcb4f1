package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	StatePath       string
	StateTTL        time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	LogLevel        string
	LogFormat       string
	Tracing         bool
	MockAPIPort     string
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to read .env: %v", err)
	}

	return &Config{
		APIBaseURL:      strings.TrimRight(getEnv("STOREFRONT_API_URL", "http://localhost:8080/api"), "/"),
		RequestTimeout:  getDuration("STOREFRONT_TIMEOUT", 10*time.Second),
		RedisAddr:       getEnv("STOREFRONT_REDIS_ADDR", ""),
		RedisPassword:   getEnv("STOREFRONT_REDIS_PASSWORD", ""),
		RedisDB:         getInt("STOREFRONT_REDIS_DB", 0),
		StatePath:       getEnv("STOREFRONT_STATE_PATH", defaultStatePath()),
		StateTTL:        getDuration("STOREFRONT_STATE_TTL", 24*time.Hour),
		BreakerFailures: uint32(getInt("STOREFRONT_BREAKER_FAILURES", 5)),
		BreakerTimeout:  getDuration("STOREFRONT_BREAKER_TIMEOUT", 30*time.Second),
		LogLevel:        getEnv("STOREFRONT_LOG_LEVEL", "info"),
		LogFormat:       getEnv("STOREFRONT_LOG_FORMAT", "text"),
		Tracing:         getBool("STOREFRONT_TRACING", false),
		MockAPIPort:     getEnv("MOCK_API_PORT", "8080"),
		ShutdownTimeout: 10 * time.Second,
	}
}

// StateMemory as STOREFRONT_STATE_PATH keeps state in process memory only.
const StateMemory = "memory"

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".storefront", "state.db")
	}
	return filepath.Join(dir, "storefront", "state.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		log.Printf("invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
