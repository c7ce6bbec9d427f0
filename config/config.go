// Package config загружает конфигурацию движка прогрессии из переменных
// окружения. Каждое поле имеет дефолт, пригодный для локальной разработки;
// .env подхватывается в cmd через godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// StoreBackend выбирает реализацию KV-хранилища.
type StoreBackend string

const (
	// BackendMemory - процессное хранилище без персистентности (dev/тесты).
	BackendMemory StoreBackend = "memory"

	// BackendSQLite - локальный файл SQLite (дефолт для одного узла).
	BackendSQLite StoreBackend = "sqlite"

	// BackendRedis - Redis.
	BackendRedis StoreBackend = "redis"

	// BackendPostgres - PostgreSQL.
	BackendPostgres StoreBackend = "postgres"
)

// Config - вся конфигурация сервиса.
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
	HTTP     HTTPConfig
	Retry    RetryConfig
}

// AppConfig - общие настройки приложения.
type AppConfig struct {
	// Name - имя сервиса в логах.
	Name string

	// Environment - "development", "staging" или "production".
	Environment string

	// LogLevel - "debug", "info", "warn" или "error".
	LogLevel string
}

// StoreConfig - выбор бэкенда хранилища.
type StoreConfig struct {
	// Backend - memory | sqlite | redis | postgres.
	Backend StoreBackend
}

// RedisConfig - подключение к Redis.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// PostgresConfig - подключение к PostgreSQL.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// SQLiteConfig - путь к файлу SQLite.
type SQLiteConfig struct {
	Path string
}

// HTTPConfig - HTTP-сервер.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// RetryConfig - повторы обращений к хранилищу.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Load читает конфигурацию из окружения.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "learnpath-progress"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Backend: StoreBackend(strings.ToLower(getEnv("STORE_BACKEND", string(BackendSQLite)))),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			Database: getEnv("POSTGRES_DB", "learnpath"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "progress.db"),
		},
		HTTP: HTTPConfig{
			Host:            getEnv("HTTP_HOST", "0.0.0.0"),
			Port:            getEnvInt("HTTP_PORT", 8080),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Retry: RetryConfig{
			MaxAttempts:  getEnvInt("STORE_RETRY_MAX_ATTEMPTS", 3),
			InitialDelay: getEnvDuration("STORE_RETRY_INITIAL_DELAY", 100*time.Millisecond),
			MaxDelay:     getEnvDuration("STORE_RETRY_MAX_DELAY", 2*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность конфигурации.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: invalid http port %d", c.HTTP.Port)
	}
	if c.Store.Backend == BackendSQLite && c.SQLite.Path == "" {
		return fmt.Errorf("config: sqlite backend requires SQLITE_PATH")
	}
	return nil
}

// IsProduction сообщает, работает ли сервис в production-окружении.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ──────────────────────────────────────────────
// Env helpers
// ──────────────────────────────────────────────

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
