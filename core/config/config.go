package config

import (
	"fmt"
	"sync"
	"time"

	"slotpoll/core/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host     string
	Port     int
	LogLevel string
}

type StorageConfig struct {
	// Driver selects the event repository backend: "memory" (default) or
	// "postgres".
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GoogleAPIConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type IdentityConfig struct {
	// JWTSecret verifies optional identity tokens. The token only supplies a
	// suggested display name, never authorization.
	JWTSecret string
}

type RetentionConfig struct {
	// Days after a poll's last date before it becomes eligible for purging.
	// 0 disables retention entirely: polls are kept forever.
	Days int
}

type AppConfig struct {
	// Timezone is the implicit local time of every poll grid.
	Timezone       string
	BestSlotsLimit int
}

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	GoogleAPI GoogleAPIConfig
	Identity  IdentityConfig
	Retention RetentionConfig
	App       AppConfig

	location *time.Location
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads .env (if present) and environment variables into the process
// config singleton.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments use the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", constants.DefaultServerHost)
	v.SetDefault("SERVER_PORT", constants.DefaultServerPort)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", constants.StorageDriverMemory)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "slotpoll")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RETENTION_DAYS", 0)
	v.SetDefault("APP_TIMEZONE", "Local")
	v.SetDefault("BEST_SLOTS_LIMIT", constants.DefaultBestSlotsLimit)

	cfg := &Config{
		Server: ServerConfig{
			Host:     v.GetString("SERVER_HOST"),
			Port:     v.GetInt("SERVER_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Storage: StorageConfig{
			Driver: v.GetString("STORAGE_DRIVER"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  v.GetString("GOOGLE_REDIRECT_URI"),
		},
		Identity: IdentityConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		Retention: RetentionConfig{
			Days: v.GetInt("RETENTION_DAYS"),
		},
		App: AppConfig{
			Timezone:       v.GetString("APP_TIMEZONE"),
			BestSlotsLimit: v.GetInt("BEST_SLOTS_LIMIT"),
		},
	}

	if cfg.Storage.Driver != constants.StorageDriverMemory && cfg.Storage.Driver != constants.StorageDriverPostgres {
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.App.Timezone, err)
	}
	cfg.location = loc

	mu.Lock()
	instance = cfg
	mu.Unlock()

	return cfg, nil
}

// Get returns the process config. Panics if Load has not run.
func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config: Get called before Load")
	}
	return cfg
}

// GetSafe returns the process config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}

// Location returns the poll grid's wall-clock location.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// SetForTesting installs a config singleton for tests.
func SetForTesting(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}
