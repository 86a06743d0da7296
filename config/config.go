// Package config loads client settings from the environment, an optional
// .env file and an optional INI profile.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

const profileSection = "viaphone"

var ErrMissingAPIKey = errors.New("config: VIAPHONE_API_KEY is required")

type Config struct {
	// Application
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// ViaPhone API
	APIKey          string        `env:"VIAPHONE_API_KEY"`
	BaseURL         string        `env:"VIAPHONE_BASE_URL"         envDefault:"https://api.viaphoneapp.com/v2/"`
	Language        string        `env:"VIAPHONE_LANGUAGE"         envDefault:"en"`
	Timeout         time.Duration `env:"VIAPHONE_TIMEOUT"          envDefault:"30s"`
	MaxRedirects    int           `env:"VIAPHONE_MAX_REDIRECTS"    envDefault:"10"`
	SingleRecipient string        `env:"VIAPHONE_SINGLE_RECIPIENT"`

	// ProfileFile points at an INI file whose [viaphone] section fills in
	// values the environment left unset.
	ProfileFile string `env:"VIAPHONE_PROFILE_FILE"`
}

// New reads the process environment. Variables from envFiles are loaded
// first without overriding ones already set; missing files are ignored.
func New(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	return Parse(env.Options{}) //nolint:exhaustruct
}

// Parse builds a Config using opts, which lets callers supply their own
// environment map.
func Parse(opts env.Options) (*Config, error) {
	var cfg Config

	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.ProfileFile != "" {
		if err := cfg.applyProfile(cfg.ProfileFile, lookupFunc(opts)); err != nil {
			return nil, err
		}
	}

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return &cfg, nil
}

func (c *Config) applyProfile(path string, isSet func(key string) bool) error {
	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load profile %s: %w", path, err)
	}

	section := file.Section(profileSection)

	if c.APIKey == "" {
		c.APIKey = section.Key("api_key").String()
	}

	if c.SingleRecipient == "" {
		c.SingleRecipient = section.Key("single_recipient").String()
	}

	if language := section.Key("language").String(); language != "" && !isSet("VIAPHONE_LANGUAGE") {
		c.Language = language
	}

	if baseURL := section.Key("base_url").String(); baseURL != "" && !isSet("VIAPHONE_BASE_URL") {
		c.BaseURL = baseURL
	}

	if section.HasKey("timeout") && !isSet("VIAPHONE_TIMEOUT") {
		timeout, err := section.Key("timeout").Duration()
		if err != nil {
			return fmt.Errorf("invalid timeout in profile %s: %w", path, err)
		}

		c.Timeout = timeout
	}

	if section.HasKey("max_redirects") && !isSet("VIAPHONE_MAX_REDIRECTS") {
		maxRedirects, err := section.Key("max_redirects").Int()
		if err != nil {
			return fmt.Errorf("invalid max_redirects in profile %s: %w", path, err)
		}

		c.MaxRedirects = maxRedirects
	}

	return nil
}

func lookupFunc(opts env.Options) func(key string) bool {
	if opts.Environment != nil {
		return func(key string) bool {
			_, ok := opts.Environment[key]

			return ok
		}
	}

	return func(key string) bool {
		_, ok := os.LookupEnv(key)

		return ok
	}
}
