package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
// An empty path yields the defaults with environment overrides applied.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills webhook defaults.
func Validate(cfg *Config) error {
	if cfg.Marker == "" {
		return errors.New("marker: must not be empty")
	}

	if err := validateFields(cfg.Fields); err != nil {
		return fmt.Errorf("fields: %w", err)
	}

	if cfg.Rank.SectionMarker == "" {
		return errors.New("rank.section_marker: must not be empty")
	}
	if cfg.Rank.TopMarker == "" {
		return errors.New("rank.top_marker: must not be empty")
	}

	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateFields(l FieldLayout) error {
	for _, f := range l.indices() {
		if f.index < 0 {
			return fmt.Errorf("%s index must be >= 0, got %d", f.name, f.index)
		}
	}
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = ExpandEnvVar(wh.Token)

	if err := ValidateTrigger(wh.Trigger); err != nil {
		return err
	}
	if wh.Trigger == "" {
		wh.Trigger = WebhookTriggerAlways
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// ValidateTrigger reports whether t is a known trigger. Empty is allowed.
func ValidateTrigger(t WebhookTrigger) error {
	switch t {
	case "", WebhookTriggerAlways, WebhookTriggerOnSkipped, WebhookTriggerNever:
		return nil
	default:
		return fmt.Errorf("invalid trigger %q (must be always, on_skipped, or never)", t)
	}
}

// ExpandEnvVar expands a value written as ${VAR} or $VAR.
// Any other value is returned unchanged.
func ExpandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
