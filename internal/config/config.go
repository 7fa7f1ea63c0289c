package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token store backends.
const (
	TokenStoreFile   = "file"
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

// Config holds application configuration
type Config struct {
	Env            string
	LogLevel       string
	APIBaseURL     string
	AuthBaseURL    string
	RequestTimeout time.Duration

	// Token storage
	TokenStore string
	TokenFile  string
	TokenKey   string
	TokenTTL   time.Duration

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:4000"), "/"),
		AuthBaseURL:    strings.TrimRight(getEnv("AUTH_BASE_URL", "http://127.0.0.1:8000"), "/"),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),

		TokenStore: strings.ToLower(strings.TrimSpace(getEnv("TOKEN_STORE", TokenStoreFile))),
		TokenFile:  getEnv("TOKEN_FILE", defaultTokenFile()),
		TokenKey:   getEnv("TOKEN_KEY", "login-system"),
		TokenTTL:   getEnvAsDuration("TOKEN_TTL", 0),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
	}
}

// LoadWithDotEnv loads the given .env files (missing files are skipped) into
// the process environment and then reads the configuration. Variables already
// set in the environment win over file values.
func LoadWithDotEnv(paths ...string) (*Config, error) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration combinations that cannot work.
func (c *Config) Validate() error {
	switch c.TokenStore {
	case TokenStoreFile:
		if strings.TrimSpace(c.TokenFile) == "" {
			return errors.New("config: TOKEN_FILE is required for the file token store")
		}
	case TokenStoreMemory:
	case TokenStoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return errors.New("config: REDIS_ADDR is required for the redis token store")
		}
	default:
		return fmt.Errorf("config: unknown TOKEN_STORE %q", c.TokenStore)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("config: REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".hms-token"
	}
	return filepath.Join(dir, "hms", "token")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
