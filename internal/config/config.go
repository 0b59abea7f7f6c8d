package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	APIPrefix            string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	DBDriver    string
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	LogLevel string
	LogFile  string

	WorkerPollInterval time.Duration
}

// Load reads envFile (when present) and then the process environment.
// Values already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		APIPrefix:            strings.TrimRight(getenv("API_PREFIX", ""), "/"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		DBDriver:             strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DatabaseURL:          getenv("DATABASE_URL", ""),
		JWTSecret:            getenv("JWT_SECRET", ""),
		LogLevel:             getenv("LOG_LEVEL", "info"),
		LogFile:              getenv("LOG_FILE", ""),
	}

	for _, o := range strings.Split(getenv("CORS_ALLOWED_ORIGINS", "*"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	var err error
	if cfg.TokenTTL, err = getduration("TOKEN_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.WorkerPollInterval, err = getduration("WORKER_POLL_INTERVAL", 800*time.Millisecond); err != nil {
		return Config{}, err
	}

	if cfg.DBDriver == "sqlite" && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "cropdesk.db"
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite, postgres or mysql)", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("missing env: DATABASE_URL")
	}
	if c.JWTSecret == "" {
		return errors.New("missing env: JWT_SECRET")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getduration(key string, def time.Duration) (time.Duration, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
