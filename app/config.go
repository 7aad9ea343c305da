package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	valid "github.com/asaskevich/govalidator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultAuthToken = "your-token-here"
	PlaintextURL     = "http://localhost:8080"
	TLSURL           = "https://localhost:8443"

	envPrefix = "RTC"
)

var ErrInvalidBaseURL = errors.New("invalid base URL")

// Config is resolved once at startup and passed around by value.
type Config struct {
	AuthToken  string
	TLSEnabled bool
	BaseURL    string
	VerifySSL  bool
	Timeout    time.Duration
	RateLimit  float64
}

// LoadOptions carries command line overrides. Zero values mean "not set".
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64
}

// LoadConfig resolves the configuration from defaults, an optional config
// file, RTC_* environment variables and finally the given overrides.
func LoadConfig(opts LoadOptions) (Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return Config{}, fmt.Errorf("cannot load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("auth_token", DefaultAuthToken)
	v.SetDefault("server_tls_enabled", "false")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("rate_limit", 0.0)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("cannot read config file %s: %w", opts.ConfigFile, err)
		}
	}

	if opts.BaseURL != "" {
		v.Set("base_url", opts.BaseURL)
	}
	if opts.Timeout != 0 {
		v.Set("timeout", opts.Timeout)
	}
	if opts.RateLimit != 0 {
		v.Set("rate_limit", opts.RateLimit)
	}

	tlsEnabled := strings.ToLower(v.GetString("server_tls_enabled")) == "true"

	cfg := Config{
		AuthToken:  v.GetString("auth_token"),
		TLSEnabled: tlsEnabled,
		BaseURL:    PlaintextURL,
		VerifySSL:  true,
		Timeout:    v.GetDuration("timeout"),
		RateLimit:  v.GetFloat64("rate_limit"),
	}

	if tlsEnabled {
		cfg.BaseURL = TLSURL
		// self-signed certificates
		cfg.VerifySSL = false
	}

	if override := v.GetString("base_url"); override != "" {
		if !valid.IsURL(override) || !hasHTTPScheme(override) {
			return Config{}, fmt.Errorf("%q: %w", override, ErrInvalidBaseURL)
		}
		cfg.BaseURL = strings.TrimSuffix(override, "/")
	}

	return cfg, nil
}

func hasHTTPScheme(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
