package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Match    MatchConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Backends BackendConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogJSON     bool
	Debug       bool
}

// MatchConfig carries the hand-tuned scoring constants. They are
// configurable defaults, not invariants.
type MatchConfig struct {
	SkillDirectWeight        float64
	SkillSemanticWeight      float64
	DealbreakerCeiling       int
	DefaultMaxCommuteMinutes int
	MinFeedbackForWarm       int
}

type CacheConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	TTL           time.Duration
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

// Enabled reports whether enough settings are present to reach the
// preference store. The store is optional; cold-start weights cover
// its absence.
func (d DatabaseConfig) Enabled() bool {
	return d.DBHost != "" && d.DBPort != "" && d.DBName != "" && d.DBUser != ""
}

type BackendConfig struct {
	GeminiAPIKey      string
	GeminiModel       string
	ScoringServiceURL string
	TravelTimeURL     string
	CallTimeout       time.Duration
	ProbeInterval     time.Duration
	BatchConcurrency  int
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	optInt := func(key string, def int) int {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return def
		}
		return n
	}
	optFloat := func(key string, def float64) float64 {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return def
		}
		return f
	}
	optSeconds := func(key string, def time.Duration) time.Duration {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return def
		}
		return time.Duration(n) * time.Second
	}
	optBool := func(key string, def bool) bool {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogJSON:     optBool("LOG_JSON", true),
		Debug:       optBool("LOG_DEBUG", false),
	}

	cfg.Match = MatchConfig{
		SkillDirectWeight:        optFloat("MATCH_SKILL_DIRECT_WEIGHT", 0.7),
		SkillSemanticWeight:      optFloat("MATCH_SKILL_SEMANTIC_WEIGHT", 0.3),
		DealbreakerCeiling:       optInt("MATCH_DEALBREAKER_CEILING", 20),
		DefaultMaxCommuteMinutes: optInt("MATCH_MAX_COMMUTE_MINUTES", 60),
		MinFeedbackForWarm:       optInt("MATCH_MIN_FEEDBACK_FOR_WARM", 5),
	}

	cfg.Cache = CacheConfig{
		RedisHost:     opt("REDIS_HOST", ""),
		RedisPort:     opt("REDIS_PORT", "6379"),
		RedisPassword: opt("REDIS_PASSWORD", ""),
		TTL:           optSeconds("MATCH_CACHE_TTL", 300*time.Second),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST", ""),
		DBPort:     opt("DB_PORT", ""),
		DBName:     opt("DB_NAME", ""),
		DBUser:     opt("DB_USER", ""),
		DBPassword: opt("DB_PASSWORD", ""),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),
	}

	cfg.Backends = BackendConfig{
		GeminiAPIKey:      opt("GEMINI_API_KEY", ""),
		GeminiModel:       opt("GEMINI_MODEL", ""),
		ScoringServiceURL: opt("SCORING_SERVICE_URL", ""),
		TravelTimeURL:     opt("TRAVEL_TIME_URL", ""),
		CallTimeout:       optSeconds("BACKEND_CALL_TIMEOUT", 5*time.Second),
		ProbeInterval:     optSeconds("BACKEND_PROBE_INTERVAL", 30*time.Second),
		BatchConcurrency:  optInt("BATCH_CONCURRENCY", 8),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
