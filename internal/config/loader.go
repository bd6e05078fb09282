package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the configuration file and environment
// variables. If configFile is empty, it searches standard locations for
// itemblocker.yaml/.yml. The search requires an explicit YAML extension so
// the binary itself (same base name, no extension) is never matched.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		// No config file in any standard location. Set name/type without
		// search paths so ReadInConfig returns ConfigFileNotFoundError,
		// which LoadConfig handles gracefully.
		viper.SetConfigName("itemblocker")
		viper.SetConfigType("yaml")
	}

	// Environment variable support: ITEMBLOCKER_AUDIT_FILE etc.
	viper.SetEnvPrefix("ITEMBLOCKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindNestedEnvKeys()
}

// findConfigFile searches the working directory, $HOME/.itemblocker, and
// /etc/itemblocker for itemblocker.yaml or .yml.
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".itemblocker"),
		"/etc/itemblocker",
	}
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "itemblocker"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindNestedEnvKeys binds nested config keys for environment variable
// overrides. Admin token hashes are an array and stay file-only.
func bindNestedEnvKeys() {
	_ = viper.BindEnv("policy_file")
	_ = viper.BindEnv("log_level")
	_ = viper.BindEnv("audit.file")
	_ = viper.BindEnv("audit.tail_lines")
	_ = viper.BindEnv("audit.tail_bytes")
	_ = viper.BindEnv("messages.prefix")
	_ = viper.BindEnv("messages.prefix_color")
	_ = viper.BindEnv("messages.deny_color")
	_ = viper.BindEnv("metrics.enabled")
	_ = viper.BindEnv("metrics.addr")
	_ = viper.BindEnv("admin.max_alias_length")
}

// LoadConfig reads the configuration file, applies environment overrides
// and defaults, and returns the Config. Caller should then call
// cfg.Normalize(logger) to recover any invalid recoverable fields.
func LoadConfig() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file: run on defaults plus environment variables.
	}

	setDefaults()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers the documented defaults with Viper.
func setDefaults() {
	def := Default()
	viper.SetDefault("policy_file", def.PolicyFile)
	viper.SetDefault("log_level", def.LogLevel)
	viper.SetDefault("audit.file", def.Audit.File)
	viper.SetDefault("audit.tail_lines", def.Audit.TailLines)
	viper.SetDefault("audit.tail_bytes", def.Audit.TailBytes)
	viper.SetDefault("messages.prefix", def.Messages.Prefix)
	viper.SetDefault("messages.prefix_color", def.Messages.PrefixColor)
	viper.SetDefault("messages.deny_color", def.Messages.DenyColor)
	viper.SetDefault("metrics.enabled", def.Metrics.Enabled)
	viper.SetDefault("metrics.addr", def.Metrics.Addr)
	viper.SetDefault("admin.max_alias_length", def.Admin.MaxAliasLength)
}
