// Package config reads service settings from command-line flags, falling
// back to environment variables and then to built-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"teakspice-storefront/internal/modal"
	"teakspice-storefront/internal/render"
	"teakspice-storefront/internal/tracker"
)

type Config struct {
	Addr           string
	AllowedOrigins []string

	MongoURL      string
	MongoDatabase string
	SeedCatalog   bool

	JWTSecret  string
	SessionTTL time.Duration

	TrackerDelay    time.Duration
	ConfirmationTTL time.Duration

	Locale         string
	CurrencySymbol string

	LogLevel string
	LogDev   bool
}

// Load parses args (without the program name). lookup is usually
// os.LookupEnv.
func Load(args []string, lookup func(string) (string, bool)) (Config, error) {
	env := func(def string, keys ...string) string {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				return v
			}
		}
		return def
	}

	sessionTTL, err := durationEnv(env, "SESSION_TTL", 2*time.Hour)
	if err != nil {
		return Config{}, err
	}
	trackerDelay, err := durationEnv(env, "TRACKER_DELAY", tracker.DefaultDelay)
	if err != nil {
		return Config{}, err
	}
	confirmationTTL, err := durationEnv(env, "CONFIRMATION_TTL", modal.DefaultConfirmationTTL)
	if err != nil {
		return Config{}, err
	}

	var c Config
	var origins string
	fs := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&c.Addr, "addr", addrFromEnv(env), "HTTP listen address")
	fs.StringVar(&origins, "allowed-origins", env("https://www.bestvragro.com", "ALLOWED_ORIGINS"), "comma separated CORS origins")
	fs.StringVar(&c.MongoURL, "mongo-url", env("", "MONGO_PUBLIC_URL", "MONGO_URL"), "MongoDB URI for the product catalog; empty uses the built-in catalog")
	fs.StringVar(&c.MongoDatabase, "mongo-db", env("teakspice", "MONGO_DB"), "MongoDB database name")
	fs.BoolVar(&c.SeedCatalog, "seed-catalog", env("false", "SEED_CATALOG") == "true", "insert the default products into an empty catalog collection")
	fs.StringVar(&c.JWTSecret, "jwt-secret", env("", "JWT_SECRET"), "HMAC secret for session tokens")
	fs.DurationVar(&c.SessionTTL, "session-ttl", sessionTTL, "idle time after which a session is dropped")
	fs.DurationVar(&c.TrackerDelay, "tracker-delay", trackerDelay, "delay before the tracker reveals a lookup result")
	fs.DurationVar(&c.ConfirmationTTL, "confirmation-ttl", confirmationTTL, "how long the order confirmation stays open")
	fs.StringVar(&c.Locale, "locale", env(render.DefaultLocale, "LOCALE"), "locale for amount formatting")
	fs.StringVar(&c.CurrencySymbol, "currency", env(render.DefaultSymbol, "CURRENCY_SYMBOL"), "currency symbol prefix")
	fs.StringVar(&c.LogLevel, "log-level", env("info", "LOG_LEVEL"), "debug, info, warn or error")
	fs.BoolVar(&c.LogDev, "log-dev", env("false", "LOG_DEV") == "true", "human readable development logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	c.AllowedOrigins = splitList(origins)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required (--jwt-secret or JWT_SECRET)")
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	if c.TrackerDelay < 0 || c.ConfirmationTTL < 0 {
		return fmt.Errorf("delays cannot be negative")
	}
	return nil
}

func addrFromEnv(env func(string, ...string) string) string {
	if port := env("", "PORT"); port != "" {
		return ":" + port
	}
	return env(":8080", "ADDR")
}

func durationEnv(env func(string, ...string) string, key string, def time.Duration) (time.Duration, error) {
	v := env("", key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
