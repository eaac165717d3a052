package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
	// LockTimeout bounds how long an order waits for an option row lock.
	LockTimeout time.Duration
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey string
	Lifetime   time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Driver string
}

// OrderConfig holds order placement settings
type OrderConfig struct {
	Timeout time.Duration
}

// NotifyConfig holds settings for the post-order notification workers
type NotifyConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// KakaoConfig holds the Kakao OAuth client settings
type KakaoConfig struct {
	ClientID    string
	RedirectURI string
	AuthURL     string
	APIURL      string
	WebURL      string
}

// RedisConfig holds the order cache settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// KafkaConfig holds the order event settings. No brokers disables publishing.
type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	JWT         JWTConfig
	Log         LogConfig
	Storage     StorageConfig
	Order       OrderConfig
	Notify      NotifyConfig
	Kakao       KakaoConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not returning error as .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the current process environment
func FromEnv() (*Config, error) {
	config := &Config{
		ServiceName: getEnv("SERVICE_NAME", "gift-service"),
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", "gift"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
			LockTimeout:     getEnvAsDuration("DB_LOCK_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("APP_ENV", "development"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
		},
		JWT: JWTConfig{
			SigningKey: getEnv("JWT_SIGNING_KEY", "giftservicedefaultsecretkey"),
			Lifetime:   getEnvAsDuration("JWT_LIFETIME", 24*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		},
		Order: OrderConfig{
			Timeout: getEnvAsDuration("ORDER_TIMEOUT", 5*time.Second),
		},
		Notify: NotifyConfig{
			Workers:   getEnvAsInt("NOTIFY_WORKERS", 4),
			QueueSize: getEnvAsInt("NOTIFY_QUEUE_SIZE", 1000),
			Timeout:   getEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second),
		},
		Kakao: KakaoConfig{
			ClientID:    getEnv("KAKAO_CLIENT_ID", ""),
			RedirectURI: getEnv("KAKAO_REDIRECT_URI", "http://localhost:8080/api/members/login/kakao"),
			AuthURL:     getEnv("KAKAO_AUTH_URL", "https://kauth.kakao.com"),
			APIURL:      getEnv("KAKAO_API_URL", "https://kapi.kakao.com"),
			WebURL:      getEnv("KAKAO_WEB_URL", "http://localhost:8080"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("ORDER_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:    getEnvAsList("KAFKA_BROKERS", nil),
			OrderTopic: getEnv("KAFKA_ORDER_TOPIC", "gift.order.placed"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.JWT.SigningKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY must not be empty")
	}
	if c.JWT.Lifetime <= 0 {
		return fmt.Errorf("JWT_LIFETIME must be positive, got %s", c.JWT.Lifetime)
	}
	if c.Notify.Workers < 1 {
		c.Notify.Workers = 1
	}
	if c.Notify.QueueSize < 1 {
		c.Notify.QueueSize = 1
	}
	return nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("storage_driver", c.Storage.Driver),
		zap.String("db_host", c.DB.Host),
		zap.String("db_port", c.DB.Port),
		zap.String("db_user", c.DB.User),
		zap.String("db_name", c.DB.DBName),
		zap.Duration("db_lock_timeout", c.DB.LockTimeout),
		zap.String("server_port", c.Server.Port),
		zap.Bool("order_cache_enabled", c.Redis.Addr != ""),
		zap.Int("kafka_brokers", len(c.Kafka.Brokers)),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get comma separated environment variables
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
