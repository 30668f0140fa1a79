package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Search   SearchConfig
	Goal     GoalConfig
	Reward   RewardConfig
	Sim      SimConfig
	Database DatabaseConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type AuthConfig struct {
	JWTSecret string
	// CompletionCodeKey encrypts the code shown on the done page. Must be
	// 16, 24 or 32 bytes; empty disables completion codes.
	CompletionCodeKey string
}

type CatalogConfig struct {
	Source       string // "file" or "postgres"
	Path         string
	Limit        int
	DefaultPrice float64
	Seed         int64
}

type SearchConfig struct {
	TopN     int
	PageSize int
	Timeout  time.Duration
}

type GoalConfig struct {
	Strategy string // "synthetic" or "curated"
	Limit    int    // -1 keeps every goal
	Seed     int64
}

type SimConfig struct {
	// ShowAttrs inlines the product attribute tags on the item page.
	ShowAttrs bool
	Seed      int64
}

type RewardConfig struct {
	FuzzyThreshold  int
	TitleScoreLow   float64
	TitleScoreMatch float64
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Shopping Simulation API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			CompletionCodeKey: getEnv("COMPLETION_CODE_KEY", ""),
		},
		Catalog: CatalogConfig{
			Source:       getEnv("CATALOG_SOURCE", "file"),
			Path:         getEnv("CATALOG_PATH", "data/products.json"),
			Limit:        getEnvInt("CATALOG_LIMIT", 0),
			DefaultPrice: getEnvFloat("CATALOG_DEFAULT_PRICE", 100.0),
			Seed:         int64(getEnvInt("CATALOG_SEED", 233)),
		},
		Search: SearchConfig{
			TopN:     getEnvInt("SEARCH_TOP_N", 50),
			PageSize: getEnvInt("SEARCH_PAGE_SIZE", 10),
			Timeout:  getEnvDuration("SEARCH_TIMEOUT", 2*time.Second),
		},
		Goal: GoalConfig{
			Strategy: getEnv("GOAL_STRATEGY", "synthetic"),
			Limit:    getEnvInt("GOAL_LIMIT", -1),
			Seed:     int64(getEnvInt("GOAL_SEED", 233)),
		},
		Sim: SimConfig{
			ShowAttrs: getEnvBool("SIM_SHOW_ATTRS", false),
			Seed:      int64(getEnvInt("SIM_SEED", 0)),
		},
		Reward: RewardConfig{
			FuzzyThreshold:  getEnvInt("REWARD_FUZZY_THRESHOLD", 85),
			TitleScoreLow:   getEnvFloat("REWARD_TITLE_SCORE_LOW", 0.1),
			TitleScoreMatch: getEnvFloat("REWARD_TITLE_SCORE_MATCH", 0.2),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "shopsim"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
	}

	if cfg.Catalog.Source != "file" && cfg.Catalog.Source != "postgres" {
		return nil, errors.New("CATALOG_SOURCE must be file or postgres")
	}

	if cfg.Catalog.Source == "file" && cfg.Catalog.Path == "" {
		return nil, errors.New("missing catalog path")
	}

	if cfg.Catalog.Source == "postgres" && cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Goal.Strategy != "synthetic" && cfg.Goal.Strategy != "curated" {
		return nil, errors.New("GOAL_STRATEGY must be synthetic or curated")
	}

	if cfg.App.Environment == "production" && cfg.Auth.JWTSecret == "" {
		return nil, errors.New("missing jwt secret")
	}

	if key := cfg.Auth.CompletionCodeKey; key != "" {
		switch len(key) {
		case 16, 24, 32:
		default:
			return nil, errors.New("COMPLETION_CODE_KEY must be 16, 24 or 32 bytes")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}

	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}

	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return defaultVal
}
