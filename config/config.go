package config

import (
	"fmt"
	"os"
)

// Config holds the environment-driven settings the portal needs at startup.
// Values are read once in Load and passed explicitly; nothing else in the
// codebase reads os.Getenv.
type Config struct {
	Port             string
	LogLevel         string
	SupabaseURL      string
	SupabaseKey      string
	MediaBucket      string
	AnalyticsWorkers int
}

// Load reads configuration from environment variables. SUPABASE_URL and one
// of SUPABASE_SERVICE_KEY / SUPABASE_ANON_KEY are required; everything else
// has a sensible default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		SupabaseURL:      os.Getenv("SUPABASE_URL"),
		MediaBucket:      getEnv("MEDIA_BUCKET", "session-videos"),
		AnalyticsWorkers: 4,
	}

	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL must be set")
	}

	cfg.SupabaseKey = os.Getenv("SUPABASE_SERVICE_KEY")
	if cfg.SupabaseKey == "" {
		cfg.SupabaseKey = os.Getenv("SUPABASE_ANON_KEY")
	}
	if cfg.SupabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_KEY or SUPABASE_ANON_KEY must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
