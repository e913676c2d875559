package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	// StoreMemory keeps matches in process memory and players in an
	// in-memory sqlite database. Nothing survives a restart.
	StoreMemory = "memory"
)

type Config struct {
	App struct {
		Env         string `env:"APP_ENV" envDefault:"development"`
		Port        string `env:"PORT"    envDefault:"8088"`
		FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
		StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	}
	DB struct {
		Host       string `env:"DB_HOST"     envDefault:"localhost"`
		Port       string `env:"DB_PORT"     envDefault:"5432"`
		User       string `env:"DB_USER"     envDefault:"postgres"`
		Password   string `env:"DB_PASSWORD" envDefault:"password"`
		Name       string `env:"DB_NAME"     envDefault:"crease_db"`
		SSLMode    string `env:"DB_SSLMODE"  envDefault:"disable"`
		SQLitePath string `env:"SQLITE_PATH" envDefault:"crease.db"`
	}
	JWT struct {
		AccessTokenSecret        string `env:"JWT_ACCESS_TOKEN_SECRET"  envDefault:"supersecret"`
		AccessTokenExpiryMinutes int    `env:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES" envDefault:"15"`
	}
	Scoring struct {
		DefaultOvers   int           `env:"SCORING_DEFAULT_OVERS"    envDefault:"20"`
		WideRuns       int           `env:"SCORING_WIDE_RUNS"        envDefault:"1"`
		NoBallRuns     int           `env:"SCORING_NO_BALL_RUNS"     envDefault:"1"`
		TxMaxRetries   int           `env:"SCORING_TX_MAX_RETRIES"   envDefault:"5"`
		TxRetryBackoff time.Duration `env:"SCORING_TX_RETRY_BACKOFF" envDefault:"20ms"`
	}
	Broker struct {
		// URL empty disables AMQP publishing.
		URL      string `env:"AMQP_URL"`
		Exchange string `env:"AMQP_EXCHANGE" envDefault:"crease.matches"`
	}
}

// LoadConfig loads configuration from environment variables into the Config struct.
func LoadConfig() (*Config, error) {
	// Load .env file. It's okay if it doesn't exist, especially in production
	// where env vars are set directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on system environment variables.")
	}

	cfg := &Config{}

	// --- App Configuration ---
	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.Port = getEnv("PORT", "8088")
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")
	cfg.App.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", StorePostgres))
	switch cfg.App.StoreDriver {
	case StorePostgres, StoreSQLite, StoreMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: expected postgres, sqlite or memory", cfg.App.StoreDriver)
	}

	// --- Database Configuration ---
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "password")
	cfg.DB.Name = getEnv("DB_NAME", "crease_db")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.DB.SQLitePath = getEnv("SQLITE_PATH", "crease.db")

	// --- JWT Configuration ---
	cfg.JWT.AccessTokenSecret = getEnv("JWT_ACCESS_TOKEN_SECRET", "your-very-strong-access-secret")

	var err error
	cfg.JWT.AccessTokenExpiryMinutes, err = getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", 15)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY_MINUTES: %w", err)
	}

	// --- Scoring Configuration ---
	if cfg.Scoring.DefaultOvers, err = getEnvAsInt("SCORING_DEFAULT_OVERS", 20); err != nil {
		return nil, err
	}
	if cfg.Scoring.WideRuns, err = getEnvAsInt("SCORING_WIDE_RUNS", 1); err != nil {
		return nil, err
	}
	if cfg.Scoring.NoBallRuns, err = getEnvAsInt("SCORING_NO_BALL_RUNS", 1); err != nil {
		return nil, err
	}
	if cfg.Scoring.TxMaxRetries, err = getEnvAsInt("SCORING_TX_MAX_RETRIES", 5); err != nil {
		return nil, err
	}
	if cfg.Scoring.TxRetryBackoff, err = getEnvAsDuration("SCORING_TX_RETRY_BACKOFF", 20*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.Scoring.DefaultOvers < 1 {
		return nil, fmt.Errorf("SCORING_DEFAULT_OVERS must be at least 1, got %d", cfg.Scoring.DefaultOvers)
	}
	if cfg.Scoring.TxMaxRetries < 0 {
		return nil, fmt.Errorf("SCORING_TX_MAX_RETRIES cannot be negative, got %d", cfg.Scoring.TxMaxRetries)
	}

	// --- Broker Configuration ---
	cfg.Broker.URL = getEnv("AMQP_URL", "")
	cfg.Broker.Exchange = getEnv("AMQP_EXCHANGE", "crease.matches")

	// Basic validation for critical secrets
	if cfg.JWT.AccessTokenSecret == "your-very-strong-access-secret" {
		log.Println("WARNING: Using default JWT secret. Please set JWT_ACCESS_TOKEN_SECRET for production.")
	}
	if cfg.DB.Password == "password" && cfg.App.Env == "production" && cfg.App.StoreDriver == StorePostgres {
		log.Println("WARNING: Using default DB password in production. Please set DB_PASSWORD environment variable.")
	}

	return cfg, nil
}

// ConnectDB opens the database selected by STORE_DRIVER.
func ConnectDB(cfg Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		// Unique violations surface as gorm.ErrDuplicatedKey, which the
		// repositories translate into domain errors.
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
	if cfg.App.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info) // Log SQL queries in development
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	switch cfg.App.StoreDriver {
	case StoreSQLite:
		dialector = sqlite.Open(cfg.DB.SQLitePath)
	case StoreMemory:
		dialector = sqlite.Open("file::memory:")
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DB.Host,
			cfg.DB.User,
			cfg.DB.Password,
			cfg.DB.Name,
			cfg.DB.Port,
			cfg.DB.SSLMode,
		)
		dialector = postgres.Open(dsn)
	}

	gormDB, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.App.StoreDriver != StorePostgres {
		// sqlite allows a single writer; one connection also keeps an
		// in-memory database alive and shared.
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Printf("Successfully connected to %s database!", cfg.App.StoreDriver)
	return gormDB, nil
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as an integer or return a default value.
func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got '%s'", key, valueStr)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected duration, got '%s'", key, valueStr)
	}
	return value, nil
}
