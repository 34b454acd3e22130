// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "snapbuy", cfg.Logger().ServiceName)
	assert.Equal(t, "green", cfg.Logger().Colors.Info)
	assert.False(t, cfg.Browser().Headless)
	assert.Equal(t, 1280, cfg.Browser().Viewport["width"])
	assert.Equal(t, 60*time.Second, cfg.Browser().NavigationTimeout)
	assert.Equal(t, 100, cfg.Buyer().ScanIntervalMs)
	assert.Equal(t, 100, cfg.Buyer().ConfirmIntervalMs)
	assert.Equal(t, 2*time.Second, cfg.Buyer().TickTimeout)
	assert.Equal(t, 5*time.Second, cfg.Buyer().Heartbeat)
	assert.True(t, cfg.Buyer().AutoStart)
	assert.False(t, cfg.Metrics().Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics().Path)
	assert.True(t, cfg.UI().TUI)

	require.NoError(t, cfg.Validate(), "defaults must validate")
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Buyer Intervals", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.BuyerCfg.ScanIntervalMs = 9
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scan_interval_ms must be between 10 and 1000")

		cfg = NewDefaultConfig()
		cfg.BuyerCfg.ConfirmIntervalMs = 1001
		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "confirm_interval_ms must be between 10 and 1000")

		cfg = NewDefaultConfig()
		cfg.BuyerCfg.ScanIntervalMs = 10
		cfg.BuyerCfg.ConfirmIntervalMs = 1000
		assert.NoError(t, cfg.Validate(), "bounds are inclusive")
	})

	t.Run("Buyer Durations", func(t *testing.T) {
		b := NewDefaultConfig().BuyerCfg
		b.TickTimeout = 0
		assert.ErrorContains(t, b.Validate(), "tick_timeout must be a positive duration")

		b = NewDefaultConfig().BuyerCfg
		b.Heartbeat = -time.Second
		assert.ErrorContains(t, b.Validate(), "heartbeat must not be negative")

		b.Heartbeat = 0
		assert.NoError(t, b.Validate(), "zero disables the heartbeat")
	})

	t.Run("Browser", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.BrowserCfg.NavigationTimeout = 0
		assert.ErrorContains(t, cfg.Validate(), "browser.navigation_timeout must be a positive duration")
	})

	t.Run("Metrics", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.MetricsCfg.Enabled = true
		cfg.MetricsCfg.Addr = " "
		assert.ErrorContains(t, cfg.Validate(), "metrics.addr is required")

		cfg = NewDefaultConfig()
		cfg.MetricsCfg.Path = "metrics"
		assert.ErrorContains(t, cfg.Validate(), "metrics.path must start with '/'")
	})
}

func TestSetters(t *testing.T) {
	cfg := NewDefaultConfig()
	var iface Interface = cfg

	iface.SetBrowserHeadless(true)
	iface.SetBrowserUserDataDir("~/.config/snapbuy")
	iface.SetBuyerTargetURL("https://example.com/sale")
	iface.SetBuyerScanIntervalMs(20)
	iface.SetBuyerConfirmIntervalMs(30)
	iface.SetUITUI(false)

	assert.True(t, iface.Browser().Headless)
	assert.Equal(t, "~/.config/snapbuy", iface.Browser().UserDataDir)
	assert.Equal(t, "https://example.com/sale", iface.Buyer().TargetURL)
	assert.Equal(t, 20, iface.Buyer().ScanIntervalMs)
	assert.Equal(t, 30, iface.Buyer().ConfirmIntervalMs)
	assert.False(t, iface.UI().TUI)

	iface.SetMetricsAddr(":9000")
	assert.True(t, iface.Metrics().Enabled)
	assert.Equal(t, ":9000", iface.Metrics().Addr)

	iface.SetMetricsAddr("")
	assert.False(t, iface.Metrics().Enabled, "an empty address disables the endpoint")
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
buyer:
  target_url: "https://shop.example.com/flash"
  scan_interval_ms: 25
browser:
  headless: true
  args: ["lang=zh-CN", "mute-audio"]
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, "https://shop.example.com/flash", cfg.Buyer().TargetURL)
		assert.Equal(t, 25, cfg.Buyer().ScanIntervalMs)
		assert.Equal(t, 100, cfg.Buyer().ConfirmIntervalMs, "unset keys keep their defaults")
		assert.True(t, cfg.Browser().Headless)
		assert.Equal(t, []string{"lang=zh-CN", "mute-audio"}, cfg.Browser().Args)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("buyer.confirm_interval_ms", 5)

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "confirm_interval_ms must be between 10 and 1000")
	})

	t.Run("Environment Variable Override", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		ConfigureEnv(v)

		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBufferString("buyer:\n  scan_interval_ms: 40\n")))

		t.Setenv("SNAPBUY_BUYER_SCAN_INTERVAL_MS", "250")
		t.Setenv("SNAPBUY_METRICS_ENABLED", "true")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, 250, cfg.Buyer().ScanIntervalMs, "env overrides the config file")
		assert.True(t, cfg.Metrics().Enabled)
	})
}
