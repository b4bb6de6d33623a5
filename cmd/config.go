package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"orders/internal/adapters/out/persistence"

	"github.com/joho/godotenv"
)

const DriverMemory = "memory"

type Config struct {
	HTTPPort string

	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	KafkaHost              string
	KafkaOrderChangedTopic string

	OutboxRelaySchedule string
	OutboxBatchSize     int

	LogLevel slog.Level
}

// LoadConfig reads the environment, after loading .env from the working
// directory when one exists. Variables already set in the environment win.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		DBDriver:               strings.ToLower(getEnv("DB_DRIVER", persistence.DriverPostgres)),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 os.Getenv("DB_PORT"),
		DBUser:                 getEnv("DB_USER", "postgres"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 getEnv("DB_NAME", "orders"),
		DBSslMode:              getEnv("DB_SSLMODE", "disable"),
		KafkaHost:              os.Getenv("KAFKA_HOST"),
		KafkaOrderChangedTopic: getEnv("KAFKA_ORDER_CHANGED_TOPIC", "orders.status_changed"),
		OutboxRelaySchedule:    os.Getenv("OUTBOX_RELAY_SCHEDULE"),
	}

	var err error
	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return Config{}, err
	}
	if cfg.DBMaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return Config{}, err
	}
	if cfg.OutboxBatchSize, err = getEnvInt("OUTBOX_BATCH_SIZE", 100); err != nil {
		return Config{}, err
	}
	if err = cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "INFO"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	switch cfg.DBDriver {
	case persistence.DriverPostgres:
		if cfg.DBPort == "" {
			cfg.DBPort = "5432"
		}
	case persistence.DriverMySQL:
		if cfg.DBPort == "" {
			cfg.DBPort = "3306"
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("DB_DRIVER: unsupported value %q", cfg.DBDriver)
	}

	return cfg, nil
}

// Database returns the connection settings of the relational store.
func (c Config) Database() persistence.Config {
	return persistence.Config{
		Driver:       c.DBDriver,
		Host:         c.DBHost,
		Port:         c.DBPort,
		User:         c.DBUser,
		Password:     c.DBPassword,
		Name:         c.DBName,
		SSLMode:      c.DBSslMode,
		MaxOpenConns: c.DBMaxOpenConns,
		MaxIdleConns: c.DBMaxIdleConns,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
