package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPPort string

	DatabaseURL    string
	DBMaxConns     int32
	AcquireTimeout time.Duration

	CORSOrigin string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	RateRPS      int
	LogLevel     string
	Migrate      bool
	AuditWorkers int
}

// Load reads the process environment, after merging an optional .env file
// from the working directory. Values already set in the environment win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Env:            get("APP_ENV", "dev"),
		HTTPPort:       get("PORT", "5000"),
		DBMaxConns:     int32(getInt("DB_MAX_CONNS", 10)),
		AcquireTimeout: getDuration("DB_ACQUIRE_TIMEOUT", 3*time.Second),
		CORSOrigin:     get("CORS_ORIGIN", "http://localhost:3000"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		CacheTTL:       getDuration("CACHE_TTL", 5*time.Minute),
		RateRPS:        getInt("RATE_RPS", 100),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		Migrate:        os.Getenv("APP_MIGRATE") == "true",
		AuditWorkers:   getInt("AUDIT_WORKERS", 2),
	}
	cfg.DatabaseURL = get("DATABASE_URL", postgresURL(
		get("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		get("DB_HOST", "localhost"),
		get("DB_PORT", "5432"),
		get("DB_NAME", "bank"),
		get("DB_SSLMODE", "disable"),
	))
	return cfg
}

func (c Config) IsProd() bool { return c.Env == "prod" }

func postgresURL(user, password, host, port, name, sslmode string) string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     host + ":" + port,
		Path:     "/" + name,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	if password != "" {
		u.User = url.UserPassword(user, password)
	} else {
		u.User = url.User(user)
	}
	return u.String()
}

func get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		fmt.Fprintf(os.Stderr, "config: ignoring invalid %s=%q\n", key, v)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		fmt.Fprintf(os.Stderr, "config: ignoring invalid %s=%q\n", key, v)
		return def
	}
	return d
}
