package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
	CORS     CORSConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Version  string
}

// PayrollConfig holds the hours/pay engine settings.
// Timezone is the organisation zone every day bucket is derived from.
type PayrollConfig struct {
	Timezone        string
	DefaultRate     decimal.Decimal
	RateCacheTTL    time.Duration
	StaleShiftHours int
	ClockRateLimit  float64
	ClockRateBurst  int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "knk_workforce"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Version:  getEnv("APP_VERSION", "v1.0.0"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll configuration
	defaultRate, err := decimal.NewFromString(getEnv("PAYROLL_DEFAULT_RATE", "25.00"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_DEFAULT_RATE: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("PAYROLL_RATE_CACHE_TTL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_RATE_CACHE_TTL: %w", err)
	}
	staleHours, err := strconv.Atoi(getEnv("PAYROLL_STALE_SHIFT_HOURS", "16"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_STALE_SHIFT_HOURS: %w", err)
	}
	clockLimit, err := strconv.ParseFloat(getEnv("CLOCK_RATE_LIMIT_PER_SEC", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CLOCK_RATE_LIMIT_PER_SEC: %w", err)
	}
	clockBurst, err := strconv.Atoi(getEnv("CLOCK_RATE_BURST", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOCK_RATE_BURST: %w", err)
	}

	config.Payroll = PayrollConfig{
		Timezone:        getEnv("PAYROLL_TIMEZONE", "Europe/Helsinki"),
		DefaultRate:     defaultRate,
		RateCacheTTL:    cacheTTL,
		StaleShiftHours: staleHours,
		ClockRateLimit:  clockLimit,
		ClockRateBurst:  clockBurst,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.Payroll.Timezone); err != nil {
		return fmt.Errorf("PAYROLL_TIMEZONE %q is not a valid time zone: %w", c.Payroll.Timezone, err)
	}
	if !c.Payroll.DefaultRate.IsPositive() {
		return fmt.Errorf("PAYROLL_DEFAULT_RATE must be positive")
	}
	if c.Payroll.StaleShiftHours <= 0 {
		return fmt.Errorf("PAYROLL_STALE_SHIFT_HOURS must be positive")
	}
	return nil
}

// Location returns the organisation time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Payroll.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
