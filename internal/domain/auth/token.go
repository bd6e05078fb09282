// Package auth implements the authorization-token provider for the
// administrative command surface: a caller is either the console (exempt
// from token checks) or presents a token verified against configured
// Argon2id hashes.
package auth

import (
	"log/slog"
	"strings"

	"github.com/alexedwards/argon2id"
)

// Caller describes who issued an administrative command.
type Caller struct {
	// ID is the stable subject identifier (e.g. a platform account id).
	ID string
	// Name is the display name used in audit entries.
	Name string
	// Console marks the unauthenticated console/RCON case, which is exempt
	// from token verification.
	Console bool
	// Token is the presented admin token, empty for the console.
	Token string
}

// Authorizer answers the single yes/no fact the command handler consumes.
type Authorizer interface {
	Authorized(c Caller) bool
}

// TokenVerifier authorizes callers against a set of Argon2id token hashes.
// An empty hash set means no token grants access; only the console can
// administer such a deployment.
type TokenVerifier struct {
	hashes []string
	logger *slog.Logger
}

// NewTokenVerifier creates a TokenVerifier over the configured hashes.
// Entries that are not Argon2id encodings are dropped with a warning so a
// typo in one hash does not disable the others.
func NewTokenVerifier(hashes []string, logger *slog.Logger) *TokenVerifier {
	valid := make([]string, 0, len(hashes))
	for _, h := range hashes {
		if !strings.HasPrefix(h, "$argon2id$") {
			logger.Warn("ignoring malformed admin token hash")
			continue
		}
		valid = append(valid, h)
	}
	return &TokenVerifier{hashes: valid, logger: logger}
}

// Authorized reports whether the caller may issue administrative commands.
// Console callers are exempt; everyone else must present a token matching
// one of the configured hashes.
func (v *TokenVerifier) Authorized(c Caller) bool {
	if c.Console {
		return true
	}
	if c.Token == "" {
		return false
	}
	for _, h := range v.hashes {
		match, err := argon2id.ComparePasswordAndHash(c.Token, h)
		if err != nil {
			v.logger.Warn("admin token hash comparison failed", "error", err)
			continue
		}
		if match {
			return true
		}
	}
	return false
}

// HashToken produces an Argon2id encoding of a raw token, for seeding
// configuration. Uses the library's default parameters.
func HashToken(raw string) (string, error) {
	return argon2id.CreateHash(raw, argon2id.DefaultParams)
}

// Compile-time interface verification.
var _ Authorizer = (*TokenVerifier)(nil)
