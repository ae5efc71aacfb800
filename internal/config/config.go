package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/actuallystonmai/health-advisor/internal/model"
)

type Config struct {
	Port   int
	APIKey string

	Models          []string
	ProbeTimeout    time.Duration
	GenerateTimeout time.Duration

	RateLimitMax         int
	RateLimitWindow      time.Duration
	ClientRateLimitRPS   float64
	ClientRateLimitBurst int

	CacheEnabled bool
	CacheTTL     time.Duration
	CacheSize    int
	RedisURL     string

	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
	// TrustProxyHeaders takes the client address from X-Forwarded-For /
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders  bool

	LogLevel  string
	LogFormat string
}

// Load configuration from env. A .env file in the working directory is read
// first; variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:   getEnvInt("PORT", 3001),
		APIKey: getEnv("GOOGLE_API_KEY", os.Getenv("GEMINI_API_KEY")),

		Models:          getEnvList("AI_MODELS", model.DefaultModels),
		ProbeTimeout:    getEnvDuration("AI_PROBE_TIMEOUT", 5*time.Second),
		GenerateTimeout: getEnvDuration("AI_GENERATE_TIMEOUT", 45*time.Second),

		RateLimitMax:         getEnvInt("RATE_LIMIT_MAX", 10),
		RateLimitWindow:      getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		ClientRateLimitRPS:   getEnvFloat("CLIENT_RATE_LIMIT_RPS", 0),
		ClientRateLimitBurst: getEnvInt("CLIENT_RATE_LIMIT_BURST", 0),

		CacheEnabled: getEnvBool("CACHE_ENABLED", true),
		CacheTTL:     getEnvDuration("CACHE_TTL", 10*time.Minute),
		CacheSize:    getEnvInt("CACHE_SIZE", 256),
		RedisURL:     getEnv("REDIS_URL", ""),

		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 90*time.Second),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustProxyHeaders:  getEnvBool("TRUST_PROXY_HEADERS", false),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimitMax)
	}
	if c.GenerateTimeout <= 0 || c.ProbeTimeout <= 0 {
		return fmt.Errorf("AI timeouts must be positive")
	}
	if budget := c.AIBudget(); c.RequestTimeout < budget {
		return fmt.Errorf("REQUEST_TIMEOUT (%s) must cover probing %d models at AI_PROBE_TIMEOUT plus AI_GENERATE_TIMEOUT (%s)",
			c.RequestTimeout, len(c.Models), budget)
	}
	return nil
}

// AIBudget is the longest a single advice request can spend on the model: a
// cold probe through every candidate followed by one generation.
func (c *Config) AIBudget() time.Duration {
	return time.Duration(len(c.Models))*c.ProbeTimeout + c.GenerateTimeout
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// HasAPIKey reports whether an AI credential is configured.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return fallback
}

// comma separated, blanks dropped
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
