package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	SMTP      SMTPConfig
	Cache     CacheConfig
	Queue     QueueConfig
	Store     StoreConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name        string        `mapstructure:"name"`
	Environment string        `mapstructure:"environment"`
	Debug       bool          `mapstructure:"debug"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Port        string        `mapstructure:"port"`
	LogsPath    string        `mapstructure:"logs_path"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Seed            bool          `mapstructure:"seed"`
}

type JWTConfig struct {
	Secret         string        `mapstructure:"secret"`
	Issuer         string        `mapstructure:"issuer"`
	Audience       string        `mapstructure:"audience"`
	ExpirationTime time.Duration `mapstructure:"expiration_time"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

type RateLimitConfig struct {
	Request  int `mapstructure:"request"`
	Duration int `mapstructure:"duration"`
}

// SMTPConfig mirrors the mail settings of the address book: server, port,
// sender account and whether the connection is implicit TLS.
type SMTPConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	SenderEmail   string        `mapstructure:"sender_email"`
	SSL           bool          `mapstructure:"ssl"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ResetTokenTTL time.Duration `mapstructure:"reset_token_ttl"`
}

type CacheConfig struct {
	Driver            string        `mapstructure:"driver"`
	TTL               time.Duration `mapstructure:"ttl"`
	OperationTimeout  time.Duration `mapstructure:"operation_timeout"`
	InvalidateOnWrite bool          `mapstructure:"invalidate_on_write"`
}

type QueueConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Concurrency    int           `mapstructure:"concurrency"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type StoreConfig struct {
	Contacts string `mapstructure:"contacts"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "addressbook-api"),
			Environment: getEnv("APP_ENV", constants.EnvDevelopment),
			Port:        getEnv("APP_PORT", "8080"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			Timeout:     getEnvAsDuration("APP_TIMEOUT", 30*time.Second),
			LogsPath:    getEnv("LOGS_PATH", "./logs"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "addressbook"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
			Seed:            getEnvAsBool("DB_SEED", false),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			Database:     getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getEnvAsDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", ""),
			Issuer:         getEnv("JWT_ISSUER", "addressbook-api"),
			Audience:       getEnv("JWT_AUDIENCE", "addressbook-clients"),
			ExpirationTime: getEnvAsDuration("JWT_EXPIRATION", time.Hour),
		},
		RateLimit: RateLimitConfig{
			Request:  getEnvAsInt("RATE_LIMIT_MAX_REQUEST", 60),
			Duration: getEnvAsInt("RATE_LIMIT_DURATION", 60),
		},
		SMTP: SMTPConfig{
			Enabled:       getEnvAsBool("SMTP_ENABLED", false),
			Host:          getEnv("SMTP_SERVER", "smtp.gmail.com"),
			Port:          getEnvAsInt("SMTP_PORT", 465),
			Username:      getEnv("SMTP_USERNAME", ""),
			Password:      getEnv("SMTP_SENDER_PASSWORD", ""),
			SenderEmail:   getEnv("SMTP_SENDER_EMAIL", ""),
			SSL:           getEnvAsBool("SMTP_SSL", true),
			Timeout:       getEnvAsDuration("SMTP_TIMEOUT", 10*time.Second),
			ResetTokenTTL: getEnvAsDuration("RESET_TOKEN_TTL", time.Hour),
		},
		Cache: CacheConfig{
			Driver:            getEnv("CACHE_DRIVER", CacheDriverRedis),
			TTL:               getEnvAsDuration("CACHE_TTL", 10*time.Minute),
			OperationTimeout:  getEnvAsDuration("CACHE_OPERATION_TIMEOUT", 200*time.Millisecond),
			InvalidateOnWrite: getEnvAsBool("CACHE_INVALIDATE_ON_WRITE", false),
		},
		Queue: QueueConfig{
			Enabled:        getEnvAsBool("QUEUE_ENABLED", true),
			Concurrency:    getEnvAsInt("QUEUE_CONCURRENCY", 2),
			PublishTimeout: getEnvAsDuration("QUEUE_PUBLISH_TIMEOUT", 500*time.Millisecond),
		},
		Store: StoreConfig{
			Contacts: getEnv("CONTACT_STORE", StoreMemory),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations that would otherwise only fail on the
// first request that touches the missing setting.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.ExpirationTime <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}

	switch c.Store.Contacts {
	case StoreMemory, StorePostgres:
	default:
		errs = append(errs, fmt.Errorf("CONTACT_STORE must be %q or %q, got %q", StoreMemory, StorePostgres, c.Store.Contacts))
	}

	switch c.Cache.Driver {
	case CacheDriverRedis, CacheDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("CACHE_DRIVER must be %q or %q, got %q", CacheDriverRedis, CacheDriverMemory, c.Cache.Driver))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}
	if c.Cache.Driver == CacheDriverRedis && !c.Redis.Enabled {
		errs = append(errs, errors.New("CACHE_DRIVER=redis requires REDIS_ENABLED=true"))
	}
	if c.Queue.Enabled && !c.Redis.Enabled {
		errs = append(errs, errors.New("QUEUE_ENABLED=true requires REDIS_ENABLED=true"))
	}

	if c.SMTP.Enabled {
		if c.SMTP.Host == "" || c.SMTP.Port == 0 {
			errs = append(errs, errors.New("SMTP_SERVER and SMTP_PORT are required when SMTP_ENABLED=true"))
		}
		if c.SMTP.SenderEmail == "" {
			errs = append(errs, errors.New("SMTP_SENDER_EMAIL is required when SMTP_ENABLED=true"))
		}
	}
	if c.SMTP.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) DatabaseConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == constants.EnvProduction
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseEnv falls back to defaultValue when key is unset or does not parse
func parseEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := parse(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvAsInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, strconv.Atoi)
}

func getEnvAsBool(key string, defaultValue bool) bool {
	return parseEnv(key, defaultValue, strconv.ParseBool)
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, time.ParseDuration)
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
