// Package audit contains the domain types for the append-only audit trail:
// the log interface, the line format constants, and the sanitizer that
// keeps externally-sourced text from forging log lines.
package audit

import (
	"strings"
	"time"
)

// Line format constants. The first field of every line is a UTC timestamp;
// remaining fields are joined by the delimiter.
const (
	// TimeLayout is the timestamp format of the first field.
	TimeLayout = "2006-01-02 15:04:05"
	// FieldSeparator joins fields within a line.
	FieldSeparator = " | "
	// delimiter is the single character the sanitizer must strip, since it
	// is what gives FieldSeparator its structure.
	delimiter = '|'
)

// Tail read bounds. ReadTail never loads more than DefaultTailBytes from
// the underlying sink regardless of its total size.
const (
	// DefaultTailLines is the default number of lines returned by ReadTail.
	DefaultTailLines = 20
	// DefaultTailBytes caps how many bytes a tail read may inspect.
	DefaultTailBytes = 64 * 1024
)

// Log is the audit trail as the rest of the engine sees it: sanitized
// appends and a bounded tail read. The engine never parses lines back into
// structured form; only the raw text tail is surfaced.
type Log interface {
	// Append writes one line: a UTC timestamp followed by the given fields,
	// each sanitized, joined by FieldSeparator.
	Append(fields ...string) error
	// ReadTail returns up to maxLines lines from the end of the log,
	// inspecting at most maxBytes bytes. Non-positive arguments select the
	// defaults. A partial first line from the byte cutoff may be included.
	ReadTail(maxLines, maxBytes int) ([]string, error)
}

// Sanitize replaces every ASCII control character (0x00-0x1F, 0x7F) and
// the field delimiter with a single space, in one pass. It must be applied
// to every externally-sourced string before concatenation into a log line:
// a hostile actor name containing a newline and a forged timestamp must
// not be able to synthesize a fake audit line.
func Sanitize(s string) string {
	var b strings.Builder
	dirty := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7F || c == delimiter {
			if !dirty {
				b.Grow(len(s))
				b.WriteString(s[:i])
				dirty = true
			}
			b.WriteByte(' ')
			continue
		}
		if dirty {
			b.WriteByte(c)
		}
	}
	if !dirty {
		return s
	}
	return b.String()
}

// FormatLine builds one audit line from a timestamp and raw fields,
// sanitizing each field. Exposed for the sink implementation and tests.
func FormatLine(ts time.Time, fields ...string) string {
	parts := make([]string, 0, len(fields)+1)
	parts = append(parts, ts.UTC().Format(TimeLayout))
	for _, f := range fields {
		parts = append(parts, Sanitize(f))
	}
	return strings.Join(parts, FieldSeparator)
}
