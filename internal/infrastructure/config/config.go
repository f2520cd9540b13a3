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
	App         AppConfig
	Database    DatabaseConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Sync        SyncConfig
	WooCommerce WooCommerceConfig
	BigCommerce BigCommerceConfig
	Shopify     ShopifyConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
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

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SyncConfig holds settings for the import orchestrator and scheduler
type SyncConfig struct {
	// SchedulerEnabled controls the periodic import trigger
	SchedulerEnabled bool
	// PollInterval is how often the scheduled import runs
	PollInterval time.Duration
	// RequestTimeout is the per-call timeout for outbound platform requests
	RequestTimeout time.Duration
	// DefaultAssignee optionally assigns imported orders to a handler
	// (UUID string, empty = leave unassigned)
	DefaultAssignee string
}

// WooCommerceConfig holds credentials for a remote WooCommerce store
type WooCommerceConfig struct {
	Enabled        bool
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	StatusFilter   []string
	MinimumDate    string // RFC3339, overrides the built-in cutover floor
}

// Configured returns true if usable credentials are present
func (c *WooCommerceConfig) Configured() bool {
	return c.Enabled && c.BaseURL != "" && c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// BigCommerceConfig holds credentials for a BigCommerce store
type BigCommerceConfig struct {
	Enabled      bool
	StoreHash    string
	AccessToken  string
	StatusFilter []string
	MinimumDate  string
}

// Configured returns true if usable credentials are present
func (c *BigCommerceConfig) Configured() bool {
	return c.Enabled && c.StoreHash != "" && c.AccessToken != ""
}

// ShopifyConfig holds credentials for a Shopify store
type ShopifyConfig struct {
	Enabled      bool
	StoreName    string
	AccessToken  string
	StatusFilter []string
	MinimumDate  string
}

// Configured returns true if usable credentials are present
func (c *ShopifyConfig) Configured() bool {
	return c.Enabled && c.StoreName != "" && c.AccessToken != ""
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ORDERSYNC_ prefix (e.g. ORDERSYNC_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("ORDERSYNC")
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
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Sync: SyncConfig{
			SchedulerEnabled: v.GetBool("sync.scheduler_enabled"),
			PollInterval:     v.GetDuration("sync.poll_interval"),
			RequestTimeout:   v.GetDuration("sync.request_timeout"),
			DefaultAssignee:  v.GetString("sync.default_assignee"),
		},
		WooCommerce: WooCommerceConfig{
			Enabled:        v.GetBool("woocommerce.enabled"),
			BaseURL:        v.GetString("woocommerce.base_url"),
			ConsumerKey:    v.GetString("woocommerce.consumer_key"),
			ConsumerSecret: v.GetString("woocommerce.consumer_secret"),
			StatusFilter:   v.GetStringSlice("woocommerce.status_filter"),
			MinimumDate:    v.GetString("woocommerce.minimum_date"),
		},
		BigCommerce: BigCommerceConfig{
			Enabled:      v.GetBool("bigcommerce.enabled"),
			StoreHash:    v.GetString("bigcommerce.store_hash"),
			AccessToken:  v.GetString("bigcommerce.access_token"),
			StatusFilter: v.GetStringSlice("bigcommerce.status_filter"),
			MinimumDate:  v.GetString("bigcommerce.minimum_date"),
		},
		Shopify: ShopifyConfig{
			Enabled:      v.GetBool("shopify.enabled"),
			StoreName:    v.GetString("shopify.store_name"),
			AccessToken:  v.GetString("shopify.access_token"),
			StatusFilter: v.GetStringSlice("shopify.status_filter"),
			MinimumDate:  v.GetString("shopify.minimum_date"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "ordersync"
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
		cfg.Database.DBName = "ordersync"
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
	if cfg.Sync.PollInterval == 0 {
		cfg.Sync.PollInterval = time.Hour
	}
	if cfg.Sync.RequestTimeout == 0 {
		cfg.Sync.RequestTimeout = 30 * time.Second
	}
	if len(cfg.WooCommerce.StatusFilter) == 0 {
		cfg.WooCommerce.StatusFilter = []string{"processing", "completed"}
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
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
	if c.Sync.PollInterval < time.Minute {
		return fmt.Errorf("sync.poll_interval must be at least one minute")
	}

	for _, d := range []struct{ section, value string }{
		{"woocommerce", c.WooCommerce.MinimumDate},
		{"bigcommerce", c.BigCommerce.MinimumDate},
		{"shopify", c.Shopify.MinimumDate},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, d.value); err != nil {
			return fmt.Errorf("%s.minimum_date must be RFC3339: %w", d.section, err)
		}
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
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
