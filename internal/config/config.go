package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

// EnvConfig is the exported name of the loaded configuration.
type EnvConfig = envConfig

type envConfig struct {
	// server config
	APP_PORT         string
	SHUTDOWN_TIMEOUT time.Duration
	STORE_DRIVER     string
	// mongo config
	MONGODB_URI      string
	DATABASE         string
	MONGO_COLLECTION string
	// postgres config
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	// datastore config
	DATASTORE_PROJECT_ID string
	DATASTORE_KIND       string
	// elasticsearch config
	ELASTIC_URL   string
	ELASTIC_INDEX string
	// auth config
	JWT_SECRET    string
	JWT_ALGORITHM string
	TOKEN_TTL     time.Duration
	// events config
	REDIS_ADDR    string
	REDIS_CHANNEL string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
	// export config
	EXPORT_CONFIG_PATH string
}

// LoadEnvConfig reads .env (if present) and the process environment into
// DefaultEnvConfig.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	DefaultEnvConfig = FromEnv()
	return nil
}

// FromEnv builds a configuration from the current environment only.
func FromEnv() *envConfig {
	return &envConfig{
		APP_PORT:             getEnvString("APP_PORT", "8000"),
		SHUTDOWN_TIMEOUT:     getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		STORE_DRIVER:         getEnvString("STORE_DRIVER", "mongo"),
		MONGODB_URI:          getEnvString("MONGODB_URI", "mongodb://localhost:27017"),
		DATABASE:             getEnvString("DATABASE", "assessment_db"),
		MONGO_COLLECTION:     getEnvString("MONGO_COLLECTION", "employees"),
		DB_HOST:              getEnvString("DB_HOST", "localhost"),
		DB_PORT:              getEnvInt("DB_PORT", 5432),
		DB_USER:              getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:          getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:              getEnvString("DB_NAME", "postgres"),
		DB_SSL_MODE:          getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME: getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DB_MAX_OPEN_CONNS:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
		DATASTORE_PROJECT_ID: getEnvString("DATASTORE_PROJECT_ID", ""),
		DATASTORE_KIND:       getEnvString("DATASTORE_KIND", "Employee"),
		ELASTIC_URL:          getEnvString("ELASTIC_URL", "http://localhost:9200"),
		ELASTIC_INDEX:        getEnvString("ELASTIC_INDEX", "employees"),
		JWT_SECRET:           os.Getenv("JWT_SECRET"),
		JWT_ALGORITHM:        getEnvString("JWT_ALGORITHM", "HS256"),
		TOKEN_TTL:            getEnvDuration("TOKEN_TTL", 2*time.Hour),
		REDIS_ADDR:           getEnvString("REDIS_ADDR", ""),
		REDIS_CHANNEL:        getEnvString("REDIS_CHANNEL", "employee-events"),
		LOG_FILE_PATH:        getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:            getEnvString("LOG_LEVEL", "info"),
		EXPORT_CONFIG_PATH:   getEnvString("EXPORT_CONFIG_PATH", ""),
	}
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
