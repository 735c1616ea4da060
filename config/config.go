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

// Config holds application configuration
type Config struct {
	Port  string
	Debug bool

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTKey               string
	SaltRound            int
	AccessTokenLifetime  time.Duration
	RefreshTokenLifetime time.Duration

	PageSize  int
	MinRating int
	MaxRating int

	TimeZone       *time.Location
	AllowedOrigins string
	LogLevel       string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg, err := FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	AppConfig = cfg

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// FromEnv builds a Config from the current process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "3000"),
		Debug: getEnvBool("DEBUG", false),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "cacc"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "cacc"),

		JWTKey:               getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound:            getEnvInt("SALT_ROUND", 10),
		AccessTokenLifetime:  getEnvDuration("ACCESS_TOKEN_LIFETIME", 5*time.Minute),
		RefreshTokenLifetime: getEnvDuration("REFRESH_TOKEN_LIFETIME", 24*time.Hour),

		PageSize:  getEnvInt("PAGE_SIZE", 100),
		MinRating: getEnvInt("MIN_RATING", 1),
		MaxRating: getEnvInt("MAX_RATING", 5),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	loc, err := time.LoadLocation(getEnv("TIME_ZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("TIME_ZONE: %w", err)
	}
	cfg.TimeZone = loc

	if cfg.MinRating > cfg.MaxRating {
		return nil, fmt.Errorf("MIN_RATING (%d) is greater than MAX_RATING (%d)", cfg.MinRating, cfg.MaxRating)
	}
	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}

	switch cfg.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
