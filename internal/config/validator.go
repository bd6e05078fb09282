package config

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

// Normalize validates the configuration and recovers every invalid
// recoverable field to its documented default, logging a warning per
// field. Configuration problems are never fatal: the engine must come up
// and keep evaluating even on a mangled config file.
func (c *Config) Normalize(logger *slog.Logger) {
	def := Default()

	// Missing paths would otherwise fail required-field validation below;
	// recover them first so a single pass is enough.
	if c.PolicyFile == "" {
		logger.Warn("policy_file not set, using default", "default", def.PolicyFile)
		c.PolicyFile = def.PolicyFile
	}
	if c.Audit.File == "" {
		logger.Warn("audit.file not set, using default", "default", def.Audit.File)
		c.Audit.File = def.Audit.File
	}
	if c.Audit.TailLines == 0 {
		c.Audit.TailLines = def.Audit.TailLines
	}
	if c.Audit.TailBytes == 0 {
		c.Audit.TailBytes = def.Audit.TailBytes
	}
	if c.Admin.MaxAliasLength == 0 {
		c.Admin.MaxAliasLength = def.Admin.MaxAliasLength
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(c)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		logger.Warn("config validation failed, continuing with loaded values", "error", err)
		return
	}

	for _, fe := range fieldErrs {
		switch fe.StructNamespace() {
		case "Config.LogLevel":
			logger.Warn("invalid log_level, using default",
				"value", c.LogLevel, "default", def.LogLevel)
			c.LogLevel = def.LogLevel
		case "Config.Audit.TailLines":
			logger.Warn("invalid audit.tail_lines, using default",
				"value", c.Audit.TailLines, "default", def.Audit.TailLines)
			c.Audit.TailLines = def.Audit.TailLines
		case "Config.Audit.TailBytes":
			logger.Warn("invalid audit.tail_bytes, using default",
				"value", c.Audit.TailBytes, "default", def.Audit.TailBytes)
			c.Audit.TailBytes = def.Audit.TailBytes
		case "Config.Messages.PrefixColor":
			logger.Warn("invalid messages.prefix_color, using default",
				"value", c.Messages.PrefixColor, "default", def.Messages.PrefixColor)
			c.Messages.PrefixColor = def.Messages.PrefixColor
		case "Config.Messages.DenyColor":
			logger.Warn("invalid messages.deny_color, using default",
				"value", c.Messages.DenyColor, "default", def.Messages.DenyColor)
			c.Messages.DenyColor = def.Messages.DenyColor
		case "Config.Metrics.Addr":
			logger.Warn("invalid metrics.addr, using default",
				"value", c.Metrics.Addr, "default", def.Metrics.Addr)
			c.Metrics.Addr = def.Metrics.Addr
		case "Config.Admin.MaxAliasLength":
			logger.Warn("invalid admin.max_alias_length, using default",
				"value", c.Admin.MaxAliasLength, "default", def.Admin.MaxAliasLength)
			c.Admin.MaxAliasLength = def.Admin.MaxAliasLength
		default:
			logger.Warn("invalid config field, keeping loaded value",
				"field", fe.StructNamespace(), "rule", fe.Tag())
		}
	}
}
