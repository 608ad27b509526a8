package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	LogLevel  string
	LogFormat string

	StorageDriver   string
	StorageDir      string
	StorageTenant   string
	StorageCompress bool

	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTLPEndpoint string

	DemoLiveDates    bool
	IntroResetPolicy string
	SettingsPath     string
}

const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMySQL    = "mysql"
	StorageRedis    = "redis"
)

const (
	IntroResetProcess = "process"
	IntroResetStorage = "storage"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:           getenv("APP_SERVICE", "smh"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		LogLevel:          strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
		LogFormat:         strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
		StorageDriver:     normalizeDriver(getenv("STORAGE_DRIVER", StorageFile)),
		StorageDir:        getenv("STORAGE_DIR", ".smh"),
		StorageTenant:     strings.TrimSpace(getenv("STORAGE_TENANT", "")),
		StorageCompress:   getenvBool("STORAGE_COMPRESS", false),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "smh"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBPath:            getenv("DATABASE_PATH", "smh.db"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		RedisAddr:         getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           getenvInt("REDIS_DB", 0),
		OTLPEndpoint:      strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")),
		DemoLiveDates:     getenvBool("DEMO_LIVE_DATES", false),
		IntroResetPolicy:  normalizeIntroPolicy(getenv("INTRO_RESET_POLICY", IntroResetProcess)),
		SettingsPath:      strings.TrimSpace(getenv("SETTINGS_PATH", "")),
	}
}

func normalizeDriver(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case StorageMemory, StorageFile, StorageSQLite, StoragePostgres, StorageMySQL, StorageRedis:
		return value
	default:
		return StorageFile
	}
}

func normalizeIntroPolicy(raw string) string {
	if strings.ToLower(strings.TrimSpace(raw)) == IntroResetStorage {
		return IntroResetStorage
	}
	return IntroResetProcess
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
