package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Booking    BookingConfig    `yaml:"booking"`
	Admin      AdminConfig      `yaml:"admin"`
	Mail       MailConfig       `yaml:"mail"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	TrustedProxies  []string      `yaml:"trusted_proxies"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres or sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// BookingConfig drives the public availability window.
type BookingConfig struct {
	Timezone    string         `yaml:"timezone"`
	HorizonDays int            `yaml:"horizon_days"`
	MaxDates    int            `yaml:"max_dates"`
	Location    *time.Location `yaml:"-"`
}

// AdminConfig holds the single admin account and token settings.
type AdminConfig struct {
	Email         string        `yaml:"email"`
	PasswordHash  string        `yaml:"password_hash"` // bcrypt
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTLHours int           `yaml:"token_ttl_hours"`
	TokenTTL      time.Duration `yaml:"-"`
}

// MailConfig holds the SMTP settings for lead notifications.
type MailConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
	AdminEmail     string `yaml:"admin_email"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are present.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size"`
	QueueSize int `yaml:"queue_size"`
}

// LogConfig selects level and output format of the application logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the configuration from the given path. A .env file in the
// working directory is loaded first; secrets in the environment win over
// the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{"DATABASE_DSN", &c.Database.DSN},
		{"JWT_SECRET", &c.Admin.JWTSecret},
		{"ADMIN_PASSWORD_HASH", &c.Admin.PasswordHash},
		{"SMTP_PASSWORD", &c.Mail.Password},
		{"VAPID_PRIVATE_KEY", &c.Push.PrivateKey},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.dst = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = 10
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = 5
	}
	if c.Server.CacheTTLSeconds <= 0 {
		c.Server.CacheTTLSeconds = 30
	}
	c.Server.CacheTTL = time.Duration(c.Server.CacheTTLSeconds) * time.Second

	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetimeMinutes <= 0 {
		c.Database.ConnMaxLifetimeMinutes = 30
	}

	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "Europe/Paris"
	}
	if c.Booking.HorizonDays <= 0 {
		c.Booking.HorizonDays = 30
	}
	if c.Booking.MaxDates <= 0 {
		c.Booking.MaxDates = 10
	}

	if c.Admin.TokenTTLHours <= 0 {
		c.Admin.TokenTTLHours = 24
	}
	c.Admin.TokenTTL = time.Duration(c.Admin.TokenTTLHours) * time.Hour

	if c.Mail.Port <= 0 {
		c.Mail.Port = 587
	}
	if c.Mail.TimeoutSeconds <= 0 {
		c.Mail.TimeoutSeconds = 15
	}

	if c.Push.TTL <= 0 {
		c.Push.TTL = 3600
	}

	if c.WorkerPool.Size <= 0 {
		c.WorkerPool.Size = 2
	}
	if c.WorkerPool.QueueSize <= 0 {
		c.WorkerPool.QueueSize = 64
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate checks the settings that have no sane default and resolves the
// booking timezone.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver %q is not supported (postgres, sqlite)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.Admin.JWTSecret == "" {
		return errors.New("admin.jwt_secret is required (or JWT_SECRET)")
	}

	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return fmt.Errorf("booking.timezone %q: %w", c.Booking.Timezone, err)
	}
	c.Booking.Location = loc

	if c.Mail.Enabled && (c.Mail.Host == "" || c.Mail.FromEmail == "") {
		return errors.New("mail.host and mail.from_email are required when mail is enabled")
	}
	return nil
}
