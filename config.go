package adcgo

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration needed to construct a Bridge.
type Config struct {
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	MFACookie string `mapstructure:"mfa_cookie"`

	BaseURL string `mapstructure:"base_url"`

	LogLevel string `mapstructure:"log_level"`

	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	RequestRetryLimit  int           `mapstructure:"request_retry_limit"`
	WebsocketConnectMs int           `mapstructure:"websocket_connect_timeout_ms"`

	DeviceName string `mapstructure:"device_name"`
}

// LoadConfig reads Config from environment variables prefixed ADC_ plus any
// defaults, the way the teacher's ServerConfig loads from CODESPACE_SERVER_.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("mfa_cookie", "")
	v.SetDefault("base_url", "https://www.alarm.com/")
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("request_retry_limit", 3)
	v.SetDefault("websocket_connect_timeout_ms", 10000)
	v.SetDefault("device_name", "adcgo")

	v.SetEnvPrefix("ADC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal adcgo config: %w", err)
	}

	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}

	return &cfg, nil
}

// Validate checks that the minimum fields required to log in are present.
func (c *Config) Validate() error {
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("username and password are required")
	}
	return nil
}
