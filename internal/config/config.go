// Package config provides configuration loading and validation for the
// item blocker daemon.
package config

import "github.com/gjdunga/ModernItemBlocker/internal/domain/audit"

// Config is the single owned configuration value, passed by handle into
// the components that need it at construction time. There is no ambient
// or package-global configuration access.
type Config struct {
	// PolicyFile is the path of the persisted policy record.
	PolicyFile string `mapstructure:"policy_file" yaml:"policy_file" validate:"required"`

	// LogLevel selects the slog level: debug, info, warn, or error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	Audit    AuditConfig    `mapstructure:"audit" yaml:"audit"`
	Messages MessagesConfig `mapstructure:"messages" yaml:"messages"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
	Admin    AdminConfig    `mapstructure:"admin" yaml:"admin"`
}

// AuditConfig configures the audit log sink and tail reads.
type AuditConfig struct {
	// File is the path of the append-only audit log.
	File string `mapstructure:"file" yaml:"file" validate:"required"`
	// TailLines is how many lines a loglist command returns.
	TailLines int `mapstructure:"tail_lines" yaml:"tail_lines" validate:"omitempty,min=1,max=200"`
	// TailBytes caps how many bytes a tail read may inspect.
	TailBytes int `mapstructure:"tail_bytes" yaml:"tail_bytes" validate:"omitempty,min=1024"`
}

// MessagesConfig holds presentation settings for user-facing output.
// Invalid color fields are recovered to defaults with a warning, never
// treated as fatal.
type MessagesConfig struct {
	// Prefix is prepended to every notification.
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
	// PrefixColor is the hex color of the prefix.
	PrefixColor string `mapstructure:"prefix_color" yaml:"prefix_color" validate:"omitempty,hexcolor"`
	// DenyColor is the hex color of denial notifications.
	DenyColor string `mapstructure:"deny_color" yaml:"deny_color" validate:"omitempty,hexcolor"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
}

// AdminConfig configures the administrative command surface.
type AdminConfig struct {
	// TokenHashes are Argon2id encodings of admin tokens. Non-console
	// callers must present a token matching one of them.
	TokenHashes []string `mapstructure:"token_hashes" yaml:"token_hashes"`
	// MaxAliasLength bounds alias names accepted by add/remove, keeping
	// persisted state and audit lines from growing without limit.
	MaxAliasLength int `mapstructure:"max_alias_length" yaml:"max_alias_length" validate:"omitempty,min=1,max=256"`
}

// Defaults for recoverable fields.
const (
	DefaultPolicyFile     = "itemblocker-policy.json"
	DefaultAuditFile      = "itemblocker-audit.log"
	DefaultLogLevel       = "info"
	DefaultPrefix         = "[ItemBlocker]"
	DefaultPrefixColor    = "#FFA500"
	DefaultDenyColor      = "#FF4040"
	DefaultMetricsAddr    = "127.0.0.1:9721"
	DefaultMaxAliasLength = 64
)

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		PolicyFile: DefaultPolicyFile,
		LogLevel:   DefaultLogLevel,
		Audit: AuditConfig{
			File:      DefaultAuditFile,
			TailLines: audit.DefaultTailLines,
			TailBytes: audit.DefaultTailBytes,
		},
		Messages: MessagesConfig{
			Prefix:      DefaultPrefix,
			PrefixColor: DefaultPrefixColor,
			DenyColor:   DefaultDenyColor,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    DefaultMetricsAddr,
		},
		Admin: AdminConfig{
			MaxAliasLength: DefaultMaxAliasLength,
		},
	}
}
