// Package config loads the valuation tunables and provider credentials.
// Tunables come from an optional YAML or HJSON file with defaults matching
// the standard model inputs; credentials come from the environment, with
// .env support for local runs.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	hjson "github.com/hjson/hjson-go/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Environment variables holding provider credentials.
const (
	EnvAlphaVantageKey = "ALPHA_VANTAGE_API_KEY"
	EnvFMPKey          = "FMP_API_KEY"
)

// ConfigurationError reports a missing or unusable configuration input.
// It is fatal at startup, before any computation begins.
type ConfigurationError struct {
	Field  string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Detail)
}

// Config holds the valuation tunables and credentials for one run.
type Config struct {
	// RiskFreeRate is the CAPM risk-free rate, e.g. the 10-year Treasury
	// yield.
	RiskFreeRate float64 `yaml:"risk_free_rate" json:"risk_free_rate" validate:"gt=0,lt=1"`
	// MarketRiskPremium is the CAPM equity risk premium.
	MarketRiskPremium float64 `yaml:"market_risk_premium" json:"market_risk_premium" validate:"gt=0,lt=1"`
	// TerminalGrowthRate caps the projection horizon and floors the growth
	// interpolation.
	TerminalGrowthRate float64 `yaml:"terminal_growth_rate" json:"terminal_growth_rate" validate:"gt=0,lt=1"`
	// ProjectionYears is the explicit projection horizon.
	ProjectionYears int `yaml:"projection_years" json:"projection_years" validate:"gt=0,lte=50"`
	// RequestTimeoutSeconds bounds each provider HTTP request.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" json:"request_timeout_seconds" validate:"gt=0"`

	// Credentials are environment-only, never read from the config file.
	AlphaVantageAPIKey string `yaml:"-" json:"-" validate:"-"`
	FMPAPIKey          string `yaml:"-" json:"-" validate:"-"`
}

// Default returns the standard model inputs: 3.9% risk-free rate, 5.5%
// market risk premium, 3% terminal growth, ten projection years.
func Default() *Config {
	return &Config{
		RiskFreeRate:          0.039,
		MarketRiskPremium:     0.055,
		TerminalGrowthRate:    0.03,
		ProjectionYears:       10,
		RequestTimeoutSeconds: 30,
	}
}

// Load reads tunables from a config file over the defaults. An empty path
// returns the defaults unchanged. The extension selects the decoder:
// .hjson and .json parse leniently via hjson, everything else as YAML.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hjson", ".json":
		// hjson tolerates comments and relaxed syntax; round-trip through
		// plain JSON to land in the struct.
		var raw map[string]any
		if err := hjson.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		normalized, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize config %s: %w", path, err)
		}
		if err := json.Unmarshal(normalized, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// LoadCredentials reads provider API keys from the environment, loading a
// local .env first when present. The Alpha Vantage key is required; the
// FMP key is optional and its absence only degrades the analyst growth
// signal to its fallback.
func (c *Config) LoadCredentials() error {
	// A missing .env is fine; the variables may be set directly.
	_ = godotenv.Load()

	c.AlphaVantageAPIKey = os.Getenv(EnvAlphaVantageKey)
	c.FMPAPIKey = os.Getenv(EnvFMPKey)

	if c.AlphaVantageAPIKey == "" {
		return &ConfigurationError{
			Field:  EnvAlphaVantageKey,
			Detail: "no Alpha Vantage API key in environment or .env",
		}
	}
	return nil
}

// Validate checks the tunables. Rates must sit strictly inside (0, 1) and
// the horizon must be positive.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return &ConfigurationError{
				Field:  first.Field(),
				Detail: fmt.Sprintf("value %v fails constraint %q", first.Value(), first.Tag()),
			}
		}
		return err
	}
	return nil
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
