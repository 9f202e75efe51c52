package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// MinSessionSecretLength must match session.MinSecretLength.
const MinSessionSecretLength = 16

type Config struct {
	RunAddress     string
	MetricsAddress string
	LogLevel       string
	EnvFile        string

	SessionSecret     string
	SessionCookieName string
	SecureCookies     bool

	LoginUsername     string
	LoginPassword     string
	LoginPasswordHash string
	TOTPSecret        string

	OdooBaseURL  string
	OdooAPIKey   string
	OdooDatabase string
	OdooTimeout  time.Duration
}

// ConfigurationError is a fatal startup misconfiguration.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		RunAddress:        "localhost:8080",
		MetricsAddress:    "localhost:9090",
		LogLevel:          "info",
		EnvFile:           ".env",
		SessionCookieName: "etc_session",
		LoginUsername:     "ETC-Team",
		OdooTimeout:       30 * time.Second,
	}
}

// BindFlags registers command line flags that write into cfg.
func (cfg *Config) BindFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&cfg.RunAddress, "address", "a", cfg.RunAddress, "Server address.")
	flags.StringVarP(&cfg.MetricsAddress, "metrics-address", "m", cfg.MetricsAddress, "Metrics and health address, empty disables.")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error.")
	flags.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Dotenv file loaded before reading the environment.")
	flags.BoolVar(&cfg.SecureCookies, "secure-cookies", cfg.SecureCookies, "Always mark the session cookie Secure. APP_ENV=production turns it on regardless of this flag.")
	flags.DurationVar(&cfg.OdooTimeout, "odoo-timeout", cfg.OdooTimeout, "Timeout for Odoo API calls.")
}

// Load reads the dotenv file (if present) and applies the environment on top
// of defaults and flags.
func (cfg *Config) Load() error {
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: can't load %s, %w", cfg.EnvFile, err)
		}
	}
	return cfg.updateFromEnv()
}

func (cfg *Config) updateFromEnv() error {
	if addr, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		cfg.RunAddress = addr
	}
	if addr, ok := os.LookupEnv("METRICS_ADDRESS"); ok {
		cfg.MetricsAddress = addr
	}
	if lvl, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = lvl
	}
	if secret, ok := os.LookupEnv("ETC_SESSION_SECRET"); ok {
		cfg.SessionSecret = secret
	}
	if name, ok := os.LookupEnv("ETC_SESSION_COOKIE"); ok && name != "" {
		cfg.SessionCookieName = name
	}
	if env, ok := os.LookupEnv("APP_ENV"); ok && strings.EqualFold(env, "production") {
		cfg.SecureCookies = true
	}
	if user, ok := os.LookupEnv("ETC_LOGIN_USER"); ok && user != "" {
		cfg.LoginUsername = user
	}
	if pass, ok := os.LookupEnv("ETC_LOGIN_PASSWORD"); ok {
		cfg.LoginPassword = pass
	}
	if hash, ok := os.LookupEnv("ETC_LOGIN_PASSWORD_BCRYPT"); ok {
		cfg.LoginPasswordHash = strings.TrimSpace(hash)
	}
	if secret, ok := os.LookupEnv("ETC_2FA_SECRET"); ok {
		cfg.TOTPSecret = strings.TrimSpace(secret)
	}
	if u, ok := os.LookupEnv("ODOO_BASE_URL"); ok {
		cfg.OdooBaseURL = strings.TrimSuffix(u, "/")
	}
	if key, ok := os.LookupEnv("ODOO_API_KEY"); ok {
		cfg.OdooAPIKey = key
	}
	if db, ok := os.LookupEnv("ODOO_DATABASE"); ok {
		cfg.OdooDatabase = db
	}
	if raw, ok := os.LookupEnv("ODOO_TIMEOUT"); ok {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return &ConfigurationError{Field: "ODOO_TIMEOUT", Reason: fmt.Sprintf("is not a positive duration: %q", raw)}
		}
		cfg.OdooTimeout = d
	}
	return nil
}

// AuthEnabled reports whether the session gate is enforced.
func (cfg *Config) AuthEnabled() bool {
	return cfg.SessionSecret != ""
}

// SecondFactorEnabled reports whether logins require a TOTP code.
func (cfg *Config) SecondFactorEnabled() bool {
	return cfg.TOTPSecret != ""
}

// Validate returns a *ConfigurationError for settings the service can't run with.
func (cfg *Config) Validate() error {
	if cfg.SessionSecret != "" && len(cfg.SessionSecret) < MinSessionSecretLength {
		return &ConfigurationError{
			Field:  "ETC_SESSION_SECRET",
			Reason: fmt.Sprintf("must be at least %d characters", MinSessionSecretLength),
		}
	}
	if cfg.AuthEnabled() && cfg.LoginPassword == "" && cfg.LoginPasswordHash == "" {
		return &ConfigurationError{
			Field:  "ETC_LOGIN_PASSWORD",
			Reason: "is not set (or set ETC_LOGIN_PASSWORD_BCRYPT)",
		}
	}
	if cfg.OdooTimeout <= 0 {
		return &ConfigurationError{Field: "odoo-timeout", Reason: "must be positive"}
	}
	return nil
}
