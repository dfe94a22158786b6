package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetFloatEnv returns a float environment variable or a default value.
func GetFloatEnv(key string, defaultVal float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable ("15m", "1h") or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// DBConfig holds the postgres connection and pool settings.
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN renders the settings as a libpq keyword/value connection string.
func (c DBConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode
}

// RedisConfig holds the redis connection settings. An empty Host disables redis.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CashbackConfig holds the cashback fraction range, both ends in [0, 1].
type CashbackConfig struct {
	LowerFraction float64
	UpperFraction float64
}

// AppConfig is the full runtime configuration of the server.
type AppConfig struct {
	Port               string
	StoreDriver        string // "postgres" or "memory"
	DB                 DBConfig
	Redis              RedisConfig
	JWTSecret          string
	JWTTTL             time.Duration
	Cashback           CashbackConfig
	NotificationDriver string // "channel" or "redis"
	StatementCacheTTL  time.Duration
	CORSOrigins        string
}

// Load reads the application configuration from the environment.
func Load() AppConfig {
	return AppConfig{
		Port:        GetEnv("PORT", "3000"),
		StoreDriver: GetEnv("STORE_DRIVER", "postgres"),
		DB: DBConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "tuplepay"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", ""),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
		},
		JWTSecret: GetEnv("JWT_SECRET", "tuplepay-dev-secret"),
		JWTTTL:    GetDurationEnv("JWT_TTL", 24*time.Hour),
		Cashback: CashbackConfig{
			LowerFraction: GetFloatEnv("CASHBACK_LOWER_FRACTION", 0.05),
			UpperFraction: GetFloatEnv("CASHBACK_UPPER_FRACTION", 0.10),
		},
		NotificationDriver: GetEnv("NOTIFICATION_DRIVER", "channel"),
		StatementCacheTTL:  GetDurationEnv("STATEMENT_CACHE_TTL", 5*time.Minute),
		CORSOrigins:        GetEnv("CORS_ORIGINS", "http://localhost:5173"),
	}
}
