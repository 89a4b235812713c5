package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Topics   TopicsConfig
	Sweeper  SweeperConfig
	Provider ProviderConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TopicsConfig names the cross-service streams. The defaults are the
// contract the other services subscribe with; only override them in test
// environments.
type TopicsConfig struct {
	EmployerAccountLinked   string
	FreelancerAccountLinked string
	PaymentIntentLinked     string
	PaymentCancellation     string
	ConsumerGroup           string
}

type SweeperConfig struct {
	// Spec is a cron expression with a seconds field. Hourly by default.
	Spec string
}

type ProviderConfig struct {
	BaseURL string
	APIKey  string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "worklane"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Topics: TopicsConfig{
			EmployerAccountLinked:   getEnv("TOPIC_EMPLOYER_ACCOUNT_LINKED", "employer-account-linked"),
			FreelancerAccountLinked: getEnv("TOPIC_FREELANCER_ACCOUNT_LINKED", "freelancer-account-linked"),
			PaymentIntentLinked:     getEnv("TOPIC_PAYMENT_INTENT_LINKED", "payment-intent-linked"),
			PaymentCancellation:     getEnv("TOPIC_PAYMENT_CANCELLATION", "payment-cancellation"),
			ConsumerGroup:           getEnv("TOPIC_CONSUMER_GROUP", "worklane"),
		},
		Sweeper: SweeperConfig{
			Spec: getEnv("SWEEPER_CRON", "0 0 * * * *"),
		},
		Provider: ProviderConfig{
			BaseURL: getEnv("PROVIDER_URL", "http://localhost:9090"),
			APIKey:  getEnv("PROVIDER_API_KEY", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
