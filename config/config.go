package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup and not modified afterwards.
type Config struct {
	Port   string
	GoEnv  string
	Domain string

	JWTSecret  string
	SessionTTL time.Duration
	AuthMode   string
	LoginDelay time.Duration

	MongoURI      string
	MongoDatabase string
	SeedFixtures  bool

	RedisAddress     string
	RedisPassword    string
	IssueQueuePrefix string
	IssueDailyLimit  int

	PlaceholderAPIURL     string
	PlaceholderAPITimeout time.Duration

	CORSAllowedOrigins []string
	LogLevel           string
}

const (
	AuthModeMock      = "mock"
	AuthModeDirectory = "directory"
)

// IsProduction reports whether GO_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// LoadDotEnv reads a .env file if one exists. It reports whether a file was
// loaded so the caller can log it.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.Port = getEnvString("PORT", "8080")
	cfg.GoEnv = getEnvString("GO_ENV", "development")
	cfg.Domain = getEnvString("DOMAIN", "")
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", 72*time.Hour)
	cfg.AuthMode = strings.ToLower(getEnvString("AUTH_MODE", AuthModeMock))
	cfg.LoginDelay = getEnvDuration("LOGIN_DELAY", time.Second)
	cfg.MongoURI = getEnvString("MONGODB_URI", "")
	cfg.MongoDatabase = getEnvString("MONGODB_DATABASE", "civicsync")
	cfg.SeedFixtures = getEnvBool("SEED_FIXTURES", true)
	cfg.RedisAddress = getEnvString("REDIS_ADDRESS", "")
	cfg.RedisPassword = getEnvString("REDIS_PASSWORD", "")
	cfg.IssueQueuePrefix = getEnvString("REDIS_QUEUE_FOR_ISSUE_LIMIT", "issue-limit")
	cfg.IssueDailyLimit = getEnvInt("ISSUE_DAILY_LIMIT", 10)
	cfg.PlaceholderAPIURL = getEnvString("PLACEHOLDER_API_URL", "https://jsonplaceholder.typicode.com")
	cfg.PlaceholderAPITimeout = getEnvDuration("PLACEHOLDER_API_TIMEOUT", 10*time.Second)
	cfg.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	if cfg.AuthMode != AuthModeMock && cfg.AuthMode != AuthModeDirectory {
		return nil, fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeMock, AuthModeDirectory, cfg.AuthMode)
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
