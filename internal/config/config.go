package config

import (
	"os"      // For reading the public key file
	"strings" // For trimming values
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // For env resolution with defaults
)

// Config holds the application configuration
type Config struct {
	AppPort         string        // Application port
	IsProd          bool          // Is production environment
	LogLevel        string        // Logrus level name
	DBDriver        string        // postgres, mysql or sqlite
	DBUser          string        // Database user
	DBPassword      string        // Database password
	DBHost          string        // Database host
	DBPort          string        // Database port
	DBName          string        // Database name
	DBSSLMode       string        // Postgres sslmode
	SQLitePath      string        // SQLite file path
	RedisAddr       string        // Redis server address, empty disables caching
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	CacheTTL        time.Duration // Lifetime of cached summaries
	PublicKey       string        // PEM encoded RS256 public key, empty disables auth
	ShutdownTimeout time.Duration // Grace period for in-flight requests
}

// LoadConfig loads configuration from the environment, after an optional .env file
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "32223")
	v.SetDefault("IS_PROD", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "fintrack.db")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 60)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 15)

	// Older deployments set POSTGRES_* names; keep them working
	for key, legacy := range map[string]string{
		"DB_USER":     "POSTGRES_USER",
		"DB_PASSWORD": "POSTGRES_PASSWORD",
		"DB_HOST":     "POSTGRES_HOST",
		"DB_PORT":     "POSTGRES_PORT",
		"DB_NAME":     "POSTGRES_DB",
	} {
		_ = v.BindEnv(key, key, legacy)
	}
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppPort:         v.GetString("APP_PORT"),
		IsProd:          v.GetBool("IS_PROD"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		DBUser:          v.GetString("DB_USER"),
		DBPassword:      v.GetString("DB_PASSWORD"),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBName:          v.GetString("DB_NAME"),
		DBSSLMode:       v.GetString("DB_SSLMODE"),
		SQLitePath:      v.GetString("SQLITE_PATH"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPass:       v.GetString("REDIS_PASS"),
		RedisDB:         v.GetInt("REDIS_DB"),
		CacheTTL:        time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		PublicKey:       readPublicKey(v.GetString("PUBLIC_KEY_PATH")),
		ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
	}
}

// readPublicKey returns the file contents when path exists, otherwise the value itself
func readPublicKey(path string) string {
	if path == "" {
		return ""
	}
	if b, err := os.ReadFile(path); err == nil {
		return string(b)
	}
	return path
}
