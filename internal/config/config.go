package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port      string
	APIPrefix string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	JWTSecret    string
	JWTIssuer    string
	JWTTTL       time.Duration
	CookieName   string
	CookieSecure bool

	CORSOrigins []string

	LogLevel  slog.Level
	LogFormat string

	AMQPURL      string
	AMQPExchange string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:         fallback(os.Getenv("PORT"), "8080"),
		APIPrefix:    normalizePrefix(fallback(os.Getenv("API_PREFIX"), "/api")),
		DBDriver:     strings.ToLower(fallback(os.Getenv("DB_DRIVER"), "postgres")),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:   fallback(os.Getenv("SQLITE_PATH"), "./data/ledger.db"),
		JWTSecret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:    fallback(os.Getenv("JWT_ISSUER"), "ledger-backend"),
		CookieName:   fallback(os.Getenv("AUTH_COOKIE_NAME"), "token"),
		CORSOrigins:  parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		LogFormat:    strings.ToLower(fallback(os.Getenv("LOG_FORMAT"), "text")),
		AMQPURL:      strings.TrimSpace(os.Getenv("AMQP_URL")),
		AMQPExchange: fallback(os.Getenv("AMQP_EXCHANGE"), "ledger.events"),
	}

	minutes := fallback(os.Getenv("JWT_TTL_MINUTES"), "1440")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 24 * time.Hour
	}

	cfg.CookieSecure, _ = strconv.ParseBool(fallback(os.Getenv("COOKIE_SECURE"), "false"))

	if err := cfg.LogLevel.UnmarshalText([]byte(fallback(os.Getenv("LOG_LEVEL"), "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the combination of settings.
func (c Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %q: must be a number between 1 and 65535", c.Port))
	}

	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required"))
		}
	case "sqlite":
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid DB_DRIVER %q: must be postgres or sqlite", c.DBDriver))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", c.LogFormat))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			errs = append(errs, errors.New("invalid AMQP_URL: scheme must be amqp or amqps"))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, errors.New("AMQP_EXCHANGE is required when AMQP_URL is set"))
		}
	}

	return errors.Join(errs...)
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

// normalizePrefix returns prefix with a leading slash and no trailing one.
// "/" and "" both mean no prefix.
func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
