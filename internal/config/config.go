package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("unhinged version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Endpoint EndpointConfig `mapstructure:"endpoint"`
	Session  SessionConfig  `mapstructure:"session"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Geo      GeoConfig      `mapstructure:"geo"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type EndpointConfig struct {
	BaseURL   string            `json:"base_url" mapstructure:"base_url"`
	Headers   map[string]string `json:"headers" mapstructure:"headers"`
	Timeout   time.Duration     `json:"timeout" mapstructure:"timeout"`
	RateLimit float64           `json:"rate_limit" mapstructure:"rate_limit"` // requests per second, 0 disables
}

// APIURL returns the base of every backend route.
func (e EndpointConfig) APIURL() string {
	return strings.TrimRight(e.BaseURL, "/") + "/api"
}

type SessionConfig struct {
	TokenFile string `mapstructure:"token_file"`
}

type OAuthConfig struct {
	RedirectHost string `mapstructure:"redirect_host"`
	RedirectPort int    `mapstructure:"redirect_port"`
}

// RedirectBase is the origin the loopback receiver listens on.
func (o OAuthConfig) RedirectBase() string {
	return fmt.Sprintf("http://%s:%d", o.RedirectHost, o.RedirectPort)
}

type ChatConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type GeoConfig struct {
	NominatimURL string  `mapstructure:"nominatim_url"`
	Latitude     float64 `mapstructure:"latitude"`
	Longitude    float64 `mapstructure:"longitude"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	Color             bool   `mapstructure:"color"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// InitFlags initializes command line flags (without parsing)
func InitFlags(flags *pflag.FlagSet) {
	flags.String("endpoint.base_url", "", "Base URL of the Unhinged backend")
	flags.String("session.token_file", "", "Path to the persisted session file")
	flags.String("logging.level", "", "Log level (debug|info|warn|error)")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint.timeout", 30*time.Second)
	v.SetDefault("endpoint.rate_limit", 0)
	v.SetDefault("session.token_file", defaultPath(os.UserConfigDir, "session.yaml"))
	v.SetDefault("oauth.redirect_host", "127.0.0.1")
	v.SetDefault("oauth.redirect_port", 8765)
	v.SetDefault("chat.poll_interval", 5*time.Second)
	v.SetDefault("geo.nominatim_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.disable_console", true)
	v.SetDefault("logging.append_to_file", true)
	v.SetDefault("logging.output_path", defaultPath(os.UserCacheDir, "unhinged.log"))
}

func defaultPath(base func() (string, error), name string) string {
	dir, err := base()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "unhinged", name)
}

// Load reads configuration from flags, environment, .env and config.yaml.
// A missing config file is not an error.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// .env only seeds the process environment; absence is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("UNHINGED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "unhinged"))
	}
	v.AddConfigPath("/etc/unhinged")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if c.Endpoint.BaseURL == "" {
		return fmt.Errorf("endpoint.base_url is required, please adjust the config or pass --endpoint.base_url or UNHINGED_ENDPOINT_BASE_URL environment variable")
	}
	if c.Session.TokenFile == "" {
		return fmt.Errorf("session.token_file must not be empty")
	}
	if c.Chat.PollInterval <= 0 {
		return fmt.Errorf("chat.poll_interval must be positive, got %s", c.Chat.PollInterval)
	}
	return nil
}
