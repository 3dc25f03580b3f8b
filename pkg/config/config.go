package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	GoogleProjectID     string
	FirebaseCredentials string
	EventsSubscription  string
	LogLevel            string
	LogFormat           string
	GinMode             string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	subscription := getEnv("EVENTS_SUBSCRIPTION", "")
	// Accept the full resource name ("projects/p/subscriptions/s") as well as the short one
	if parts := strings.Split(subscription, "/"); len(parts) > 1 {
		subscription = parts[len(parts)-1]
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", getEnv("GOOGLE_CLOUD_PROJECT", "")),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		EventsSubscription:  subscription,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
		GinMode:             getEnv("GIN_MODE", "release"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
