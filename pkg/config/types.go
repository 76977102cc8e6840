// Package config provides configuration loading and validation for bifinder.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Marker is the substring that selects event lines for scoring.
	Marker string `yaml:"marker"`

	Fields FieldLayout `yaml:"fields"`
	Rank   RankConfig  `yaml:"rank"`

	// Strict aborts the run on the first line that cannot be scored.
	Strict bool `yaml:"strict,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// FieldLayout gives the 0-based whitespace token index of each event field.
type FieldLayout struct {
	Date  int `yaml:"date"`
	Time  int `yaml:"time"`
	ID    int `yaml:"id"`
	P     int `yaml:"p"`
	P2    int `yaml:"p2"`
	RI    int `yaml:"ri"`
	Onset int `yaml:"onset"`
}

// MinFields returns the number of tokens a line needs to cover every field.
func (l FieldLayout) MinFields() int {
	highest := 0
	for _, f := range l.indices() {
		if f.index > highest {
			highest = f.index
		}
	}
	return highest + 1
}

type fieldIndex struct {
	name  string
	index int
}

// indices lists the fields in layout order.
func (l FieldLayout) indices() []fieldIndex {
	return []fieldIndex{
		{"date", l.Date},
		{"time", l.Time},
		{"id", l.ID},
		{"p", l.P},
		{"p2", l.P2},
		{"ri", l.RI},
		{"onset", l.Onset},
	}
}

// RankConfig defines the markers used by the relative importance lookup.
type RankConfig struct {
	// SectionMarker starts a relative importance section for an event id.
	SectionMarker string `yaml:"section_marker"`

	// TopMarker identifies the rank-1 entry within a section.
	TopMarker string `yaml:"top_marker"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerAlways fires after every run (default).
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerOnSkipped fires only when some event lines were skipped.
	WebhookTriggerOnSkipped WebhookTrigger = "on_skipped"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded.
	Token string `yaml:"token,omitempty"`

	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
