package policy

import "log/slog"

// ExemptionProvider is an optional external collaborator that can grant a
// subject a bypass of all policy checks. Providers are registered at
// construction time; the engine holds zero or more of them.
type ExemptionProvider interface {
	// Name identifies the provider in diagnostics.
	Name() string
	// IsExempt reports whether the subject currently bypasses all checks.
	IsExempt(subjectID string) (bool, error)
}

// ExemptionChain queries registered providers in order. A failing provider
// is logged by name and treated as "not exempt": an optional collaborator
// that breaks must never silently grant a bypass.
type ExemptionChain struct {
	providers []ExemptionProvider
	logger    *slog.Logger
}

// NewExemptionChain creates a chain over the given providers.
func NewExemptionChain(logger *slog.Logger, providers ...ExemptionProvider) *ExemptionChain {
	return &ExemptionChain{providers: providers, logger: logger}
}

// IsExempt reports whether any provider grants the subject a bypass.
func (c *ExemptionChain) IsExempt(subjectID string) bool {
	for _, p := range c.providers {
		exempt, err := p.IsExempt(subjectID)
		if err != nil {
			c.logger.Warn("exemption provider failed, treating as not exempt",
				"provider", p.Name(), "subject", subjectID, "error", err)
			continue
		}
		if exempt {
			return true
		}
	}
	return false
}
