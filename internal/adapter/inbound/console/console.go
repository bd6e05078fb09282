// Package console implements the command transport: it parses
// administrative and host-runtime command lines, routes them into the
// services, and renders user-facing replies. All rejections are replies,
// never errors that could take the daemon down.
package console

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/gjdunga/ModernItemBlocker/internal/domain/auth"
	"github.com/gjdunga/ModernItemBlocker/internal/domain/policy"
	"github.com/gjdunga/ModernItemBlocker/internal/service"
)

// markupPattern matches rich-text-like markup in stored aliases. Stored
// names are stripped before display so a previously stored malicious alias
// cannot alter client-side rendering.
var markupPattern = regexp.MustCompile(`<[^>]*>`)

// usage is the help text returned for help and unrecognized input.
const usage = `itemblock commands:
  list                                   show all block lists
  add <permanent|timed> <category> <name>    add a block
  remove <permanent|timed> <category> <name> remove a block
  reload                                 re-read the policy file
  loglist                                show recent audit entries
  help                                   show this text
categories: item(s), clothing/clothes, ammo/ammunition`

// Console routes one command line to the services and renders the reply.
type Console struct {
	admin  *service.AdminService
	blocks *service.BlockService
	auth   auth.Authorizer
	maxLen int
	logger *slog.Logger
}

// New creates a Console over the given services.
func New(admin *service.AdminService, blocks *service.BlockService, authorizer auth.Authorizer, maxAliasLen int, logger *slog.Logger) *Console {
	return &Console{
		admin:  admin,
		blocks: blocks,
		auth:   authorizer,
		maxLen: maxAliasLen,
		logger: logger,
	}
}

// Handle processes one command line from the given caller and returns the
// reply text. Unauthorized or unrecognized input yields a user-facing
// rejection.
func (c *Console) Handle(caller auth.Caller, line string) string {
	args := strings.Fields(line)
	if len(args) == 0 {
		return usage
	}

	verb := strings.ToLower(args[0])
	switch verb {
	case "help":
		return usage
	case "list", "add", "remove", "reload", "loglist", "epoch", "check":
		// Re-arming the window or probing the lists is as privileged as
		// editing them; a transport handing Handle real player callers must
		// not let them do either.
		if !c.auth.Authorized(caller) {
			c.logger.Warn("unauthorized command rejected",
				"command", verb, "caller", caller.ID)
			return "You are not authorized to use this command."
		}
	default:
		return usage
	}

	switch verb {
	case "list":
		return c.renderListing()
	case "add", "remove":
		return c.handleMutation(caller, verb, args[1:])
	case "reload":
		if err := c.admin.Reload(caller); err != nil {
			return fmt.Sprintf("Reload failed: %v", err)
		}
		return "Block lists reloaded."
	case "loglist":
		return c.renderTail()
	case "epoch":
		c.admin.OnEpoch()
		return "Timed window re-armed."
	case "check":
		return c.handleCheck(caller, args[1:])
	}
	return usage
}

// handleMutation validates the add/remove argument shape and dispatches.
func (c *Console) handleMutation(caller auth.Caller, verb string, args []string) string {
	if len(args) < 3 {
		return fmt.Sprintf("Usage: %s <permanent|timed> <category> <name>", verb)
	}

	kind, ok := policy.ParseKind(args[0])
	if !ok {
		return fmt.Sprintf("Unknown block type %q, expected permanent or timed.", args[0])
	}
	class, ok := policy.ParseClass(args[1])
	if !ok {
		return fmt.Sprintf("Unknown category %q, expected item, clothing, or ammo.", args[1])
	}
	name := strings.Join(args[2:], " ")

	var (
		outcome policy.MutationOutcome
		err     error
	)
	if verb == "add" {
		outcome, err = c.admin.AddAlias(caller, kind, class, name)
	} else {
		outcome, err = c.admin.RemoveAlias(caller, kind, class, name)
	}

	switch {
	case errors.Is(err, service.ErrEmptyAlias):
		return "A name is required."
	case errors.Is(err, service.ErrAliasTooLong):
		return fmt.Sprintf("That name is too long (max %d characters).", c.maxLen)
	case err != nil:
		// The in-memory lists changed but persistence failed; report it so
		// the operator can fix the disk and rerun.
		return fmt.Sprintf("Lists updated, but saving failed: %v", err)
	}

	name = strings.TrimSpace(name)
	switch outcome {
	case policy.OutcomeAdded:
		return fmt.Sprintf("Added %q to the %s %s block list.", name, kind, class)
	case policy.OutcomeAlreadyPresent:
		return fmt.Sprintf("%q is already on the %s %s block list.", name, kind, class)
	case policy.OutcomeRemoved:
		return fmt.Sprintf("Removed %q from the %s %s block list.", name, kind, class)
	case policy.OutcomeNotFound:
		return fmt.Sprintf("%q is not on the %s %s block list.", name, kind, class)
	default:
		return "Invalid category or block type."
	}
}

// handleCheck evaluates a single name the way the host runtime would,
// for operator inspection.
func (c *Console) handleCheck(caller auth.Caller, args []string) string {
	if len(args) < 2 {
		return "Usage: check <category> <name>"
	}
	class, ok := policy.ParseClass(args[0])
	if !ok {
		return fmt.Sprintf("Unknown category %q, expected item, clothing, or ammo.", args[0])
	}
	name := strings.Join(args[1:], " ")

	d := c.blocks.Check(service.AccessAttempt{
		DisplayName: name,
		ShortName:   name,
		Class:       class,
		SubjectID:   caller.ID,
		SubjectName: caller.Name,
	})
	if d == nil {
		return fmt.Sprintf("%q is allowed.", name)
	}
	if d.Verdict == policy.VerdictPermanentDeny {
		return fmt.Sprintf("%q is permanently blocked.", name)
	}
	return fmt.Sprintf("%q is blocked for another %s.", name, FormatRemaining(d.Remaining))
}

// renderListing renders all six collections. Empty collections render as a
// literal placeholder; stored aliases are markup-stripped first.
func (c *Console) renderListing() string {
	var b strings.Builder
	for _, sec := range c.admin.Listing().Sections {
		fmt.Fprintf(&b, "%s %s blocks: ", titleCase(sec.Kind.String()), sec.Class)
		if len(sec.Aliases) == 0 {
			b.WriteString("(none)")
		} else {
			cleaned := make([]string, len(sec.Aliases))
			for i, a := range sec.Aliases {
				cleaned[i] = StripMarkup(a)
			}
			b.WriteString(strings.Join(cleaned, ", "))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderTail renders the recent audit entries.
func (c *Console) renderTail() string {
	lines, err := c.admin.Tail()
	if err != nil {
		return fmt.Sprintf("Could not read the audit log: %v", err)
	}
	if len(lines) == 0 {
		return "The audit log is empty."
	}
	return strings.Join(lines, "\n")
}

// StripMarkup removes rich-text-like markup from a stored alias so it
// cannot alter client-side rendering.
func StripMarkup(s string) string {
	return markupPattern.ReplaceAllString(s, "")
}

// FormatRemaining renders a remaining duration as hours and minutes,
// rounding up so "1 second left" never displays as zero.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}
	mins := int((d + time.Minute - 1) / time.Minute)
	h, m := mins/60, mins%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// titleCase upper-cases the first byte of an ASCII word.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
