package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvProduction is the APP_ENV value that enables production response policy.
const EnvProduction = "production"

// DefaultPublicURL is used when APP_PUBLIC_URL is unset or blank.
const DefaultPublicURL = "http://localhost:8080"

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Response ResponseConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	PublicURL             string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. DSN, when set, wins over the
// individual fields.
type PostgresConfig struct {
	DSN            string
	Host           string
	Port           int
	Database       string
	User           string
	Password       string
	UsePool        bool
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables the
// event relay.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// ResponseConfig controls error redaction and the CORS origin header.
type ResponseConfig struct {
	Production      bool
	SuppressDetails bool
	AllowedOrigins  []string
	PublicURL       string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	env := getEnv("APP_ENV", "development")
	publicURL := getEnv("APP_PUBLIC_URL", DefaultPublicURL)

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "user-service"),
			Env:                   env,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			PublicURL:             publicURL,
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           dbPort,
			Database:       getEnv("DB_NAME", "users_db"),
			User:           getEnv("DB_USER", "testuser"),
			Password:       getEnv("DB_PASSWORD", "testpass"),
			UsePool:        getEnvAsBool("POSTGRES_POOL", false),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			Stream:   getEnv("REDIS_STREAM", "users.events"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Response: ResponseConfig{
			Production:      strings.EqualFold(env, EnvProduction),
			SuppressDetails: getEnvAsBool("SUPPRESS_ERROR_DETAILS", false),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS"),
			PublicURL:       publicURL,
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ConnString returns DSN if set, otherwise a URL built from the individual fields.
func (p PostgresConfig) ConnString() string {
	if p.DSN != "" {
		return p.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:   "/" + p.Database,
	}
	return u.String()
}

// CORSOrigin returns the Access-Control-Allow-Origin value: the first
// allow-listed origin, or a mode-dependent default. It is never empty.
func (r ResponseConfig) CORSOrigin() string {
	if len(r.AllowedOrigins) > 0 {
		return r.AllowedOrigins[0]
	}
	if !r.Production {
		return "*"
	}
	if publicURL := strings.TrimSpace(r.PublicURL); publicURL != "" {
		return publicURL
	}
	return DefaultPublicURL
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
