package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App            AppConfig
	Server         ServerConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Availability   AvailabilityConfig
	Recommendation RecommendationConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type AvailabilityConfig struct {
	BaseURL          string
	Timeout          time.Duration
	RequestsPerSec   float64
	BreakerFailures  uint32
	BreakerTimeout   time.Duration
	CountrySuffixes  []string
	LookupConcurrent int
}

type RecommendationConfig struct {
	DefaultK           int
	LearningRate       float64
	Iterations         int
	OnlineLearningRate float64
	OnlineUpdates      bool
	RecentWindow       time.Duration
	RejectionRetention time.Duration
	CoPurchaseTTL      time.Duration
	RetrainInterval    time.Duration
	Timezone           string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "My Green Cart Recommender"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "my_green_cart"),
			SSLMode:     getEnv("DB_SSL_MODE", "disable"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Enabled:       getEnvBool("REDIS_ENABLED", true),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Availability: AvailabilityConfig{
			BaseURL:          getEnv("AVAILABILITY_BASE_URL", "http://localhost:8090"),
			Timeout:          getEnvDuration("AVAILABILITY_TIMEOUT", 5*time.Second),
			RequestsPerSec:   getEnvFloat("AVAILABILITY_RPS", 20),
			BreakerFailures:  uint32(getEnvInt("AVAILABILITY_BREAKER_FAILURES", 5)),
			BreakerTimeout:   getEnvDuration("AVAILABILITY_BREAKER_TIMEOUT", 30*time.Second),
			CountrySuffixes:  getEnvList("AVAILABILITY_COUNTRY_SUFFIXES", []string{"Indonesia"}),
			LookupConcurrent: getEnvInt("RECO_AVAILABILITY_CONCURRENCY", 8),
		},
		Recommendation: RecommendationConfig{
			DefaultK:           getEnvInt("RECO_DEFAULT_K", 10),
			LearningRate:       getEnvFloat("RECO_LEARNING_RATE", 0.01),
			Iterations:         getEnvInt("RECO_ITERATIONS", 1000),
			OnlineLearningRate: getEnvFloat("RECO_ONLINE_LEARNING_RATE", 0.01),
			OnlineUpdates:      getEnvBool("RECO_ONLINE_UPDATES", true),
			RecentWindow:       getEnvDuration("RECO_RECENT_WINDOW", 30*24*time.Hour),
			RejectionRetention: getEnvDuration("RECO_REJECTION_RETENTION", 7*24*time.Hour),
			CoPurchaseTTL:      getEnvDuration("RECO_COPURCHASE_TTL", 7*24*time.Hour),
			RetrainInterval:    getEnvDuration("RECO_RETRAIN_INTERVAL", 0),
			Timezone:           getEnv("RECO_TIMEZONE", "Local"),
		},
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Recommendation.Iterations <= 0 {
		return nil, errors.New("RECO_ITERATIONS must be positive")
	}

	if cfg.Recommendation.LearningRate <= 0 {
		return nil, errors.New("RECO_LEARNING_RATE must be positive")
	}

	return cfg, nil
}

// Location resolves the configured recommendation time zone.
func (c RecommendationConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return v
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func getEnvBool(key string, defaultVal bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return v
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return v
}

func getEnvList(key string, defaultVal []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
