package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort            = "3000"
	defaultDatabaseURL     = "captionstudio.db"
	defaultOpenAIBaseURL   = "https://api.openai.com"
	defaultOpenAIModel     = "gpt-4o"
	defaultMaxOutputTokens = "500"
	defaultInstagramURL    = "https://instagram-scraper-api2.p.rapidapi.com"
	defaultUploadDir       = "./photos"
	defaultRetention       = "retain"
	defaultUploadTTL       = "72h"
)

// RetentionPolicy controls what happens to an uploaded photo after the
// request that created it has been served.
type RetentionPolicy string

const (
	// RetentionRetain leaves uploads on disk indefinitely.
	RetentionRetain RetentionPolicy = "retain"
	// RetentionDelete removes the file as soon as the request succeeds.
	RetentionDelete RetentionPolicy = "delete"
	// RetentionTTL keeps files until the cleanup command purges those
	// older than UploadTTL.
	RetentionTTL RetentionPolicy = "ttl"
)

type Config struct {
	Port        string
	DatabaseURL string

	OpenAIAPIKey          string
	OpenAIBaseURL         string
	OpenAIModel           string
	OpenAIMaxOutputTokens int

	RapidAPIKey      string
	InstagramBaseURL string

	CORSAllowedOrigins []string

	UploadDir       string
	UploadRetention RetentionPolicy
	UploadTTL       time.Duration
}

// Load reads the full runtime configuration from the environment once at
// process start. Provider keys are required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))

	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.OpenAIBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("OPENAI_BASE_URL", defaultOpenAIBaseURL)), "/")
	cfg.OpenAIModel = strings.TrimSpace(getEnv("OPENAI_MODEL", defaultOpenAIModel))

	var err error
	cfg.OpenAIMaxOutputTokens, err = parseIntEnv("OPENAI_MAX_OUTPUT_TOKENS", defaultMaxOutputTokens)
	if err != nil {
		return nil, err
	}

	cfg.RapidAPIKey = strings.TrimSpace(os.Getenv("RAPIDAPI_KEY"))
	cfg.InstagramBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("INSTAGRAM_API_BASE_URL", defaultInstagramURL)), "/")

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	cfg.UploadDir = strings.TrimSpace(getEnv("UPLOAD_DIR", defaultUploadDir))
	cfg.UploadRetention = RetentionPolicy(strings.ToLower(strings.TrimSpace(getEnv("UPLOAD_RETENTION", defaultRetention))))

	cfg.UploadTTL, err = parseDurationEnv("UPLOAD_TTL", defaultUploadTTL)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.RapidAPIKey == "" {
		return fmt.Errorf("RAPIDAPI_KEY is required")
	}
	if cfg.OpenAIMaxOutputTokens <= 0 {
		return fmt.Errorf("OPENAI_MAX_OUTPUT_TOKENS must be > 0")
	}
	switch cfg.UploadRetention {
	case RetentionRetain, RetentionDelete, RetentionTTL:
	default:
		return fmt.Errorf("UPLOAD_RETENTION must be one of: retain, delete, ttl")
	}
	if cfg.UploadRetention == RetentionTTL && cfg.UploadTTL <= 0 {
		return fmt.Errorf("UPLOAD_TTL must be > 0 when UPLOAD_RETENTION=ttl")
	}
	return nil
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
