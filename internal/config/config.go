package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	CartStoreSQL   = "sql"
	CartStoreRedis = "redis"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cart     CartConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Seed     SeedConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver           string
	Host             string
	Port             int
	User             string
	Password         string
	Name             string
	Path             string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	TxTimeout        time.Duration
	MaxRetryAttempts int
}

type CartConfig struct {
	Store string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type SeedConfig struct {
	File string
}

type LogConfig struct {
	Level string
}

// Load reads settings from the environment. A config.yaml in the working
// directory or ./config, when present, supplies values the environment does not set.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "parkbooking")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "parkbooking")
	v.SetDefault("DB_PATH", "parkbooking.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_TX_TIMEOUT", "5s")
	v.SetDefault("DB_MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("CART_STORE", CartStoreSQL)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CART_TTL", "72h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "bookings")
	v.SetDefault("SEED_FILE", "")
	v.SetDefault("LOG_LEVEL", "info")

	durations := map[string]time.Duration{}
	for _, key := range []string{"SERVER_SHUTDOWN_TIMEOUT", "DB_CONN_MAX_LIFETIME", "DB_TX_TIMEOUT", "REDIS_CART_TTL"} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		durations[key] = d
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: durations["SERVER_SHUTDOWN_TIMEOUT"],
		},
		Database: DatabaseConfig{
			Driver:           strings.ToLower(v.GetString("DB_DRIVER")),
			Host:             v.GetString("DB_HOST"),
			Port:             v.GetInt("DB_PORT"),
			User:             v.GetString("DB_USER"),
			Password:         v.GetString("DB_PASSWORD"),
			Name:             v.GetString("DB_NAME"),
			Path:             v.GetString("DB_PATH"),
			MaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime:  durations["DB_CONN_MAX_LIFETIME"],
			TxTimeout:        durations["DB_TX_TIMEOUT"],
			MaxRetryAttempts: v.GetInt("DB_MAX_RETRY_ATTEMPTS"),
		},
		Cart: CartConfig{
			Store: strings.ToLower(v.GetString("CART_STORE")),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      durations["REDIS_CART_TTL"],
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Seed: SeedConfig{
			File: v.GetString("SEED_FILE"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Cart.Store {
	case CartStoreSQL, CartStoreRedis:
	default:
		return fmt.Errorf("unsupported CART_STORE %q", c.Cart.Store)
	}
	if c.Database.MaxRetryAttempts < 1 {
		return fmt.Errorf("DB_MAX_RETRY_ATTEMPTS must be at least 1")
	}
	return nil
}
