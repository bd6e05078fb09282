package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/gjdunga/ModernItemBlocker/internal/domain/policy"
	"github.com/gjdunga/ModernItemBlocker/internal/service"
)

// Notifier renders denial notifications to an output stream using the
// configured presentation settings. It implements the messaging
// collaborator boundary; the engine itself never formats user text.
type Notifier struct {
	mu          sync.Mutex
	out         io.Writer
	prefix      string
	prefixColor string
	denyColor   string
}

// NewNotifier creates a Notifier writing to out.
func NewNotifier(out io.Writer, prefix, prefixColor, denyColor string) *Notifier {
	return &Notifier{
		out:         out,
		prefix:      prefix,
		prefixColor: prefixColor,
		denyColor:   denyColor,
	}
}

// NotifyDenied renders one denial message for the subject. The colors are
// emitted as host-runtime markup; the host's chat layer interprets them.
func (n *Notifier) NotifyDenied(subjectID string, d Denial) {
	var body string
	if d.Verdict == policy.VerdictPermanentDeny {
		body = fmt.Sprintf("%q is permanently blocked.", d.ResourceName)
	} else {
		body = fmt.Sprintf("%q is blocked for another %s.",
			d.ResourceName, FormatRemaining(d.Remaining))
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "[to %s] <color=%s>%s</color> <color=%s>%s</color>\n",
		subjectID, n.prefixColor, n.prefix, n.denyColor, body)
}

// Denial aliases the service type so callers wiring the Notifier do not
// need a second import.
type Denial = service.Denial

// Compile-time interface verification.
var _ service.Messenger = (*Notifier)(nil)
