package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Providers ProvidersConfig
	Retry     RetryConfig
	Tracker   TrackerConfig
	Cache     CacheConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// ProviderConfig holds the settings of one dropshipping provider.
type ProviderConfig struct {
	APIKey            string
	BaseURL           string
	Enabled           bool
	TimeoutSeconds    int
	RequestsPerSecond float64
	MaxConcurrency    int
}

// Configured reports whether the provider has credentials and is enabled.
// A provider without an API key is skipped at startup rather than failing it.
func (p *ProviderConfig) Configured() bool {
	return p.Enabled && p.APIKey != ""
}

// ProvidersConfig holds per-provider settings.
type ProvidersConfig struct {
	Default  string
	Printful ProviderConfig
	Spocket  ProviderConfig
}

// RetryConfig holds the provider retry policy settings.
type RetryConfig struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	Multiplier     float64
	MaxDelay       time.Duration
	JitterFraction float64
}

// TrackerConfig holds order tracker settings.
type TrackerConfig struct {
	Enabled         bool
	PollInterval    time.Duration
	MaxPollInterval time.Duration
	MaxTracked      int
	Workers         int
}

// CacheConfig holds product cache settings.
type CacheConfig struct {
	ProductTTL time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with DROPSHIP_ prefix (e.g., DROPSHIP_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("DROPSHIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Providers: ProvidersConfig{
			Default:  v.GetString("providers.default"),
			Printful: providerConfig(v, "providers.printful"),
			Spocket:  providerConfig(v, "providers.spocket"),
		},
		Retry: RetryConfig{
			MaxAttempts:    v.GetInt("retry.max_attempts"),
			BaseDelay:      v.GetDuration("retry.base_delay"),
			Multiplier:     v.GetFloat64("retry.multiplier"),
			MaxDelay:       v.GetDuration("retry.max_delay"),
			JitterFraction: v.GetFloat64("retry.jitter_fraction"),
		},
		Tracker: TrackerConfig{
			Enabled:         v.GetBool("tracker.enabled"),
			PollInterval:    v.GetDuration("tracker.poll_interval"),
			MaxPollInterval: v.GetDuration("tracker.max_poll_interval"),
			MaxTracked:      v.GetInt("tracker.max_tracked"),
			Workers:         v.GetInt("tracker.workers"),
		},
		Cache: CacheConfig{
			ProductTTL: v.GetDuration("cache.product_ttl"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ProviderConfig {
	return ProviderConfig{
		APIKey:            v.GetString(prefix + ".api_key"),
		BaseURL:           v.GetString(prefix + ".base_url"),
		Enabled:           v.GetBool(prefix + ".enabled"),
		TimeoutSeconds:    v.GetInt(prefix + ".timeout_seconds"),
		RequestsPerSecond: v.GetFloat64(prefix + ".requests_per_second"),
		MaxConcurrency:    v.GetInt(prefix + ".max_concurrency"),
	}
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "dropship-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "dropship"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	// NOTE: CORS origins are intentionally not given a default fallback to "*".
	// An empty list means no cross-origin requests are allowed until explicitly
	// configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.BaseDelay == 0 {
		cfg.Retry.BaseDelay = 500 * time.Millisecond
	}
	if cfg.Retry.Multiplier == 0 {
		cfg.Retry.Multiplier = 2.0
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = 10 * time.Second
	}
	if cfg.Retry.JitterFraction == 0 {
		cfg.Retry.JitterFraction = 0.2
	}
	if cfg.Tracker.PollInterval == 0 {
		cfg.Tracker.PollInterval = time.Minute
	}
	if cfg.Tracker.MaxPollInterval == 0 {
		cfg.Tracker.MaxPollInterval = time.Hour
	}
	if cfg.Tracker.MaxTracked == 0 {
		cfg.Tracker.MaxTracked = 1000
	}
	if cfg.Tracker.Workers == 0 {
		cfg.Tracker.Workers = 4
	}
	if cfg.Cache.ProductTTL == 0 {
		cfg.Cache.ProductTTL = 5 * time.Minute
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Validate connection pool settings
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Retry.JitterFraction < 0 || c.Retry.JitterFraction >= 1 {
		return fmt.Errorf("retry.jitter_fraction must be in [0, 1), got %f", c.Retry.JitterFraction)
	}

	switch c.Providers.Default {
	case "", "printful", "spocket":
	default:
		return fmt.Errorf("providers.default must be 'printful' or 'spocket', got %q", c.Providers.Default)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		// CORS must not use wildcard in production
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
