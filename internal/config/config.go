// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/snapbuy/internal/buyer"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig
	Buyer() BuyerConfig
	Metrics() MetricsConfig
	UI() UIConfig

	// Browser Setters
	SetBrowserHeadless(bool)
	SetBrowserUserDataDir(string)

	// Buyer Setters
	SetBuyerTargetURL(string)
	SetBuyerScanIntervalMs(int)
	SetBuyerConfirmIntervalMs(int)

	// Metrics Setters
	SetMetricsAddr(string)

	// UI Setters
	SetUITUI(bool)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	BrowserCfg BrowserConfig `mapstructure:"browser" yaml:"browser"`
	BuyerCfg   BuyerConfig   `mapstructure:"buyer" yaml:"buyer"`
	MetricsCfg MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	UICfg      UIConfig      `mapstructure:"ui" yaml:"ui"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig { return c.BrowserCfg }
func (c *Config) Buyer() BuyerConfig     { return c.BuyerCfg }
func (c *Config) Metrics() MetricsConfig { return c.MetricsCfg }
func (c *Config) UI() UIConfig           { return c.UICfg }

// --- Interface Method Implementations (Setters) ---

// Browser Setters
func (c *Config) SetBrowserHeadless(b bool)      { c.BrowserCfg.Headless = b }
func (c *Config) SetBrowserUserDataDir(d string) { c.BrowserCfg.UserDataDir = d }

// Buyer Setters
func (c *Config) SetBuyerTargetURL(u string)       { c.BuyerCfg.TargetURL = u }
func (c *Config) SetBuyerScanIntervalMs(ms int)    { c.BuyerCfg.ScanIntervalMs = ms }
func (c *Config) SetBuyerConfirmIntervalMs(ms int) { c.BuyerCfg.ConfirmIntervalMs = ms }

// Metrics Setters
func (c *Config) SetMetricsAddr(a string) {
	c.MetricsCfg.Addr = a
	c.MetricsCfg.Enabled = a != ""
}

// UI Setters
func (c *Config) SetUITUI(b bool) { c.UICfg.TUI = b }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the Chromium instance driving the sale page.
type BrowserConfig struct {
	Headless bool `mapstructure:"headless" yaml:"headless"`
	// UserDataDir points at a Chrome profile so an existing login session is reused.
	UserDataDir       string         `mapstructure:"user_data_dir" yaml:"user_data_dir"`
	ExecPath          string         `mapstructure:"exec_path" yaml:"exec_path"`
	Args              []string       `mapstructure:"args" yaml:"args"`
	Viewport          map[string]int `mapstructure:"viewport" yaml:"viewport"`
	NavigationTimeout time.Duration  `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	Debug             bool           `mapstructure:"debug" yaml:"debug"`
}

// BuyerConfig configures the polling controller.
type BuyerConfig struct {
	TargetURL         string        `mapstructure:"target_url" yaml:"target_url"`
	ScanIntervalMs    int           `mapstructure:"scan_interval_ms" yaml:"scan_interval_ms"`
	ConfirmIntervalMs int           `mapstructure:"confirm_interval_ms" yaml:"confirm_interval_ms"`
	TickTimeout       time.Duration `mapstructure:"tick_timeout" yaml:"tick_timeout"`
	Heartbeat         time.Duration `mapstructure:"heartbeat" yaml:"heartbeat"`
	// AutoStart begins scanning as soon as the page is ready.
	AutoStart bool `mapstructure:"auto_start" yaml:"auto_start"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// UIConfig controls the terminal status panel.
type UIConfig struct {
	TUI bool `mapstructure:"tui" yaml:"tui"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "snapbuy")
	v.SetDefault("logger.log_file", "snapbuy.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Browser --
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.user_data_dir", "")
	v.SetDefault("browser.viewport", map[string]int{"width": 1280, "height": 900})
	v.SetDefault("browser.navigation_timeout", "60s")
	v.SetDefault("browser.debug", false)

	// -- Buyer --
	v.SetDefault("buyer.scan_interval_ms", 100)
	v.SetDefault("buyer.confirm_interval_ms", 100)
	v.SetDefault("buyer.tick_timeout", "2s")
	v.SetDefault("buyer.heartbeat", "5s")
	v.SetDefault("buyer.auto_start", true)

	// -- Metrics --
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "127.0.0.1:9464")
	v.SetDefault("metrics.path", "/metrics")

	// -- UI --
	v.SetDefault("ui.tui", true)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.BuyerCfg.Validate(); err != nil {
		return fmt.Errorf("buyer configuration invalid: %w", err)
	}
	if c.BrowserCfg.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be a positive duration")
	}
	if c.MetricsCfg.Enabled && strings.TrimSpace(c.MetricsCfg.Addr) == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}
	if c.MetricsCfg.Path != "" && !strings.HasPrefix(c.MetricsCfg.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/'")
	}
	return nil
}

// Validate checks the buyer settings.
func (b *BuyerConfig) Validate() error {
	if b.ScanIntervalMs < buyer.MinIntervalMs || b.ScanIntervalMs > buyer.MaxIntervalMs {
		return fmt.Errorf("scan_interval_ms must be between %d and %d, got %d", buyer.MinIntervalMs, buyer.MaxIntervalMs, b.ScanIntervalMs)
	}
	if b.ConfirmIntervalMs < buyer.MinIntervalMs || b.ConfirmIntervalMs > buyer.MaxIntervalMs {
		return fmt.Errorf("confirm_interval_ms must be between %d and %d, got %d", buyer.MinIntervalMs, buyer.MaxIntervalMs, b.ConfirmIntervalMs)
	}
	if b.TickTimeout <= 0 {
		return fmt.Errorf("tick_timeout must be a positive duration")
	}
	if b.Heartbeat < 0 {
		return fmt.Errorf("heartbeat must not be negative")
	}
	return nil
}

// EnvPrefix namespaces environment overrides, e.g. SNAPBUY_BUYER_SCAN_INTERVAL_MS.
const EnvPrefix = "SNAPBUY"

// ConfigureEnv makes every known key overridable from the environment.
func ConfigureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}
