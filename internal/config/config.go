package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// Redis configuration
	Redis RedisConfig

	// ParkAPI configuration
	ParkAPI ParkAPIConfig

	// Checkout configuration
	Checkout CheckoutConfig

	// Message broker configuration
	AMQP AMQPConfig

	// Login rate limiting configuration
	RateLimit RateLimitConfig

	// CORS configuration
	CORS CORSConfig

	// Security configuration
	Security SecurityConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
	SessionIdle time.Duration
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret             string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// RedisConfig holds the catalog cache connection. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// ParkAPIConfig holds the remote catalog endpoint
type ParkAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CheckoutConfig holds the hosted payment links
type CheckoutConfig struct {
	MonthlyURL    string
	AnnualURL     string
	WebhookSecret string
}

// AMQPConfig holds the notification broker. An empty URL logs notifications instead.
type AMQPConfig struct {
	URL      string
	Exchange string
}

// RateLimitConfig holds login rate limiting configuration
type RateLimitConfig struct {
	MaxEmailAttempts int
	EmailWindow      time.Duration
	MaxIPAttempts    int
	IPWindow         time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	BcryptCost       int
	EnableRequestLog bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			SessionIdle: getEnvAsDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", ""),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenExpiry:  time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)) * time.Second,
			RefreshTokenExpiry: time.Duration(getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRY", 2592000)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheTTL: getEnvAsDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		},
		ParkAPI: ParkAPIConfig{
			BaseURL: getEnv("PARKAPI_BASE_URL", "https://api.parkendd.de"),
			Timeout: getEnvAsDuration("PARKAPI_TIMEOUT", 10*time.Second),
		},
		Checkout: CheckoutConfig{
			MonthlyURL:    getEnv("CHECKOUT_MONTHLY_URL", "https://buy.stripe.com/test_6oIdRa6NMcBbfEa3n15AQ01"),
			AnnualURL:     getEnv("CHECKOUT_ANNUAL_URL", "https://buy.stripe.com/test_eVq8wQ1tsfNn63A7Dy5AQ00"),
			WebhookSecret: getEnv("CHECKOUT_WEBHOOK_SECRET", ""),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "parkeasy.events"),
		},
		RateLimit: RateLimitConfig{
			MaxEmailAttempts: getEnvAsInt("LOGIN_MAX_EMAIL_ATTEMPTS", 5),
			EmailWindow:      getEnvAsDuration("LOGIN_EMAIL_WINDOW", 15*time.Minute),
			MaxIPAttempts:    getEnvAsInt("LOGIN_MAX_IP_ATTEMPTS", 20),
			IPWindow:         getEnvAsDuration("LOGIN_IP_WINDOW", time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Security: SecurityConfig{
			BcryptCost:       getEnvAsInt("BCRYPT_COST", 12),
			EnableRequestLog: getEnvAsBool("ENABLE_REQUEST_LOGGING", true),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	if c.Server.Environment == "production" && c.Checkout.WebhookSecret == "" {
		return fmt.Errorf("CHECKOUT_WEBHOOK_SECRET is required in production")
	}

	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("invalid BCRYPT_COST: %d (must be between 4 and 31)", c.Security.BcryptCost)
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid duration value for %s, using default: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
