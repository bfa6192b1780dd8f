package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Storage  StorageConfig
	Catalog  CatalogConfig
}

type ServerConfig struct {
	AppEnv             string
	HTTPPort           string
	GRPCPort           string
	CORSAllowedOrigins []string
	ShutdownTimeout    int
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	AutoMigrate     bool
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	// LockTTL is the lease of the production approval lock, in seconds.
	LockTTL int
}

type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	LedgerTopic string
}

type StorageConfig struct {
	Driver string
}

type CatalogConfig struct {
	CacheTTL int
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:             getEnv("APP_ENV", "dev"),
			HTTPPort:           getEnv("HTTP_PORT", ":8090"),
			GRPCPort:           getEnv("GRPC_PORT", ":8091"),
			CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			ShutdownTimeout:    getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5433"),
			User:            getEnv("POSTGRES_USER", "omnipos"),
			Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
			DBName:          getEnv("POSTGRES_DB", "omnipos_stock"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
			AutoMigrate:     getEnvBool("POSTGRES_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			LockTTL:  getEnvInt("LOCK_TTL_SECONDS", 30),
		},
		Kafka: KafkaConfig{
			Enabled:     getEnvBool("KAFKA_ENABLED", false),
			Brokers:     getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			LedgerTopic: getEnv("KAFKA_TOPIC_LEDGER", "stock.ledger.events"),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		},
		Catalog: CatalogConfig{
			CacheTTL: getEnvInt("CATALOG_CACHE_TTL_SECONDS", 300),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}
