package fieldcodec

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable read by LoadConfig.
const EnvPrefix = "FIELDCODEC_"

// Config is the configuration surface of a FieldCodec.
//
// Secret should come from a secret manager or the process environment;
// there is no safe default.
type Config struct {
	Secret        string `env:"SECRET,unset"`
	Scheme        Scheme `env:"SCHEME" envDefault:"ctr"`
	RequireSecret bool   `env:"REQUIRE_SECRET" envDefault:"false"`
}

// LoadConfig reads Config from FIELDCODEC_* environment variables.
// FIELDCODEC_SECRET is removed from the environment once read.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("error getting env configs: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the scheme and, when RequireSecret is set, the secret.
func (c Config) Validate() error {
	if c.Scheme != "" && !IsValidScheme(c.Scheme) {
		return fmt.Errorf("%w: %q", ErrUnknownScheme, c.Scheme)
	}
	if c.RequireSecret && c.Secret == "" {
		return ErrEmptySecret
	}
	return nil
}

// Options converts the config into FieldCodec options.
func (c Config) Options() []Option {
	var opts []Option
	if c.Scheme != "" {
		opts = append(opts, WithScheme(c.Scheme))
	}
	if c.RequireSecret {
		opts = append(opts, WithRequireSecret())
	}
	return opts
}

// String redacts the secret.
func (c Config) String() string {
	secret := "<empty>"
	if c.Secret != "" {
		secret = "[REDACTED]"
	}
	return fmt.Sprintf("Config{Secret:%s Scheme:%s RequireSecret:%t}", secret, c.Scheme, c.RequireSecret)
}

// NewFromConfig builds a FieldCodec from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*FieldCodec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg.Secret, append(cfg.Options(), opts...)...)
}
