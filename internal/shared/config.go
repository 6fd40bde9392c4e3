package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	devSessionSecret = "everjourney-dev-secret"
	devDatabaseURL   = "file:everjourney.db"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	DBDriver       string
	DatabaseURL    string
	DBMaxOpen      int
	DBMaxIdle      int
	DBConnLifetime time.Duration
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	MongoURI       string
	MongoDB        string
	CacheTTL       time.Duration
	LocalCacheSize int
	SessionSecret  string
	SessionTTL     time.Duration
	LocalSessions  int
	UploadsDir     string
	AssetsDir      string
	LoginRPS       float64
	LoginBurst     int
	RequestTimeout time.Duration
}

// Load reads .env (if present) and then the process environment.
// Variables already set in the environment win over .env.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be read")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Msg("not an integer, using default")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Msg("not a number, using default")
		}
		return def
	}
	secs := func(k string, def int) time.Duration { return time.Duration(atoi(k, def)) * time.Second }

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		DBDriver:       env("DB_DRIVER", "sqlite"),
		DatabaseURL:    env("DATABASE_URL", devDatabaseURL),
		DBMaxOpen:      atoi("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdle:      atoi("DB_MAX_IDLE_CONNS", 5),
		DBConnLifetime: secs("DB_CONN_MAX_LIFETIME_SECONDS", 300),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDB:        env("MONGO_DB", "everjourney"),
		CacheTTL:       secs("CACHE_TTL_SECONDS", 900),
		LocalCacheSize: atoi("LOCAL_CACHE_SIZE", 2000),
		SessionSecret:  env("SESSION_SECRET", devSessionSecret),
		SessionTTL:     secs("SESSION_TTL_SECONDS", 86400),
		LocalSessions:  atoi("SESSION_LOCAL_MAX", 10000),
		UploadsDir:     env("UPLOADS_DIR", "uploads"),
		AssetsDir:      env("ASSETS_DIR", "public"),
		LoginRPS:       atof("LOGIN_RPS", 1),
		LoginBurst:     atoi("LOGIN_BURST", 10),
		RequestTimeout: secs("REQUEST_TIMEOUT_SECONDS", 15),
	}
	if c.SessionSecret == devSessionSecret {
		log.Warn().Msg("SESSION_SECRET is not set; using the built-in development secret")
	}
	if c.DatabaseURL == devDatabaseURL {
		log.Warn().Str("driver", c.DBDriver).Msg("DATABASE_URL is not set; using the local development database")
	}
	return c
}

// Dev reports whether the app runs in development mode.
func (c Config) Dev() bool { return c.AppEnv == "dev" || c.AppEnv == "development" }

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
