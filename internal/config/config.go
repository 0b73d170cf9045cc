package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/corebank/ftreserve/internal/models"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Database  DatabaseConfig
	Gateway   GatewayConfig
	Scheduler SchedulerConfig
	App       AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
}

// GatewayAccount maps one supported currency to the account identifiers used
// to correlate local and external reservation records
type GatewayAccount struct {
	Currency          models.Currency
	ExternalAccountID string
	AccountRef        uuid.UUID
}

// GatewayConfig holds the external FT reservation API configuration.
// The legacy endpoint may sit behind a self-signed certificate;
// InsecureSkipVerify relaxes verification only when set explicitly.
type GatewayConfig struct {
	BaseURL            string
	APIToken           string
	Timeout            time.Duration
	InsecureSkipVerify bool
	Accounts           []GatewayAccount
}

// AccountFor returns the account mapping for a currency, if configured
func (c *GatewayConfig) AccountFor(currency models.Currency) (GatewayAccount, bool) {
	for _, a := range c.Accounts {
		if a.Currency == currency {
			return a, true
		}
	}
	return GatewayAccount{}, false
}

// SchedulerConfig holds cron specs for the background jobs
type SchedulerConfig struct {
	Enabled       bool
	ReconcileSpec string
	SweepSpec     string
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	ReservationTTL time.Duration
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string // debug, info, warn, error
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "ftreserve"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "5m"),
		},
		Gateway: GatewayConfig{
			BaseURL:            getEnv("FT_BASE_URL", "https://localhost:8443"),
			APIToken:           getEnv("FT_API_TOKEN", ""),
			Timeout:            getEnvAsDuration("FT_TIMEOUT", "10s"),
			InsecureSkipVerify: getEnvAsBool("FT_INSECURE_SKIP_VERIFY", false),
		},
		Scheduler: SchedulerConfig{
			Enabled:       getEnvAsBool("SCHEDULER_ENABLED", true),
			ReconcileSpec: getEnv("RECONCILE_CRON", "@every 5m"),
			SweepSpec:     getEnv("SWEEP_CRON", "@every 1m"),
		},
		App: AppConfig{
			ReservationTTL: getEnvAsDuration("RESERVATION_TTL", "168h"), // 7 days
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	accounts, err := loadGatewayAccounts()
	if err != nil {
		return nil, fmt.Errorf("invalid gateway account mapping: %w", err)
	}
	cfg.Gateway.Accounts = accounts

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadGatewayAccounts reads the per-currency external account mapping.
// Each supported currency needs FT_ACCOUNT_<CUR> (external id) and
// FT_ACCOUNT_REF_<CUR> (local account uuid); currencies without both are
// simply not tracked.
func loadGatewayAccounts() ([]GatewayAccount, error) {
	var accounts []GatewayAccount
	for _, currency := range models.SupportedCurrencies {
		externalID := os.Getenv("FT_ACCOUNT_" + string(currency))
		refStr := os.Getenv("FT_ACCOUNT_REF_" + string(currency))
		if externalID == "" && refStr == "" {
			continue
		}
		if externalID == "" || refStr == "" {
			return nil, fmt.Errorf("currency %s needs both FT_ACCOUNT_%s and FT_ACCOUNT_REF_%s", currency, currency, currency)
		}
		ref, err := uuid.Parse(refStr)
		if err != nil {
			return nil, fmt.Errorf("FT_ACCOUNT_REF_%s: %w", currency, err)
		}
		accounts = append(accounts, GatewayAccount{
			Currency:          currency,
			ExternalAccountID: externalID,
			AccountRef:        ref,
		})
	}
	return accounts, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host cannot be empty")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name cannot be empty")
	}

	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway base URL cannot be empty")
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway timeout must be positive, got %s", c.Gateway.Timeout)
	}

	if c.App.ReservationTTL <= 0 {
		return fmt.Errorf("reservation TTL must be positive, got %s", c.App.ReservationTTL)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
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
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to parsing the default if provided value is invalid
		duration, err = time.ParseDuration(defaultValue)
		if err != nil {
			return 0
		}
	}
	return duration
}
