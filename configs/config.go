package config

import (
	"os"
	"strconv"
	"strings"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type AIProvider struct {
	Name        string
	BaseURL     string
	APIKey      string
	HourlyLimit int64
	DailyLimit  int64
}

type Config struct {
	Port          string
	PostgresURI   string
	RedisURI      string
	FrontendURL   string
	R2            R2
	SecretKey     string
	CookieName    string
	AIProviders   []AIProvider
	AnalyticsSeed int64
	SweepSchedule string
}

var defaultProviders = "openai,anthropic,stability,elevenlabs,runway"

func LoadConfig() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		PostgresURI: getEnv("POSTGRES_URI", ""),
		RedisURI:    getEnv("REDIS_URI", ""),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:     getEnv("SECRET_KEY", ""),
		CookieName:    getEnv("COOKIE_NAME", "contentflow_session"),
		AIProviders:   loadProviders(getEnv("AI_PROVIDERS", defaultProviders)),
		AnalyticsSeed: getEnvInt("ANALYTICS_SEED", 0),
		SweepSchedule: getEnv("SWEEP_SCHEDULE", "@every 1m"),
	}
}

// loadProviders reads AI_<NAME>_BASE_URL, AI_<NAME>_API_KEY,
// AI_<NAME>_HOURLY_LIMIT and AI_<NAME>_DAILY_LIMIT for every name in list.
func loadProviders(list string) []AIProvider {
	var providers []AIProvider
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		prefix := "AI_" + strings.ToUpper(name) + "_"
		providers = append(providers, AIProvider{
			Name:        name,
			BaseURL:     getEnv(prefix+"BASE_URL", ""),
			APIKey:      getEnv(prefix+"API_KEY", ""),
			HourlyLimit: getEnvInt(prefix+"HOURLY_LIMIT", 100),
			DailyLimit:  getEnvInt(prefix+"DAILY_LIMIT", 1000),
		})
	}
	return providers
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
