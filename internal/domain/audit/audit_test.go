package audit

import (
	"strings"
	"testing"
	"time"
)

func TestSanitize_StripsControlCharsAndDelimiter(t *testing.T) {
	in := "evil\nname\rwith|pipe\tand\x00null"
	got := Sanitize(in)

	for _, bad := range []string{"\n", "\r", "|", "\t", "\x00"} {
		if strings.Contains(got, bad) {
			t.Errorf("Sanitize output still contains %q: %q", bad, got)
		}
	}
	if len(got) != len(in) {
		t.Errorf("length changed: got %d, want %d (single-space replacement)", len(got), len(in))
	}
}

func TestSanitize_CleanInputUnchanged(t *testing.T) {
	in := "Rocket Launcher (tier 3)"
	if got := Sanitize(in); got != in {
		t.Errorf("Sanitize(%q) = %q, want unchanged", in, got)
	}
}

func TestSanitize_DeleteChar(t *testing.T) {
	if got := Sanitize("a\x7Fb"); got != "a b" {
		t.Errorf("Sanitize = %q, want %q", got, "a b")
	}
}

func TestSanitize_ForgedLineCannotInjectNewline(t *testing.T) {
	// A hostile actor name embedding a newline and a forged timestamp must
	// not be able to synthesize a second audit line.
	hostile := "player\n2026-01-01 00:00:00 | admin | forged entry"
	line := FormatLine(time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC), hostile)
	if strings.Count(line, "\n") != 0 {
		t.Errorf("formatted line contains a newline: %q", line)
	}
}

func TestFormatLine(t *testing.T) {
	ts := time.Date(2026, 3, 5, 18, 4, 5, 0, time.UTC)
	got := FormatLine(ts, "admin", "76561198000000001", "added permanent item block for \"C4\"")
	want := `2026-03-05 18:04:05 | admin | 76561198000000001 | added permanent item block for "C4"`
	if got != want {
		t.Errorf("FormatLine = %q, want %q", got, want)
	}
}

func TestFormatLine_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2026, 3, 5, 10, 0, 0, 0, loc)
	got := FormatLine(ts, "x")
	if !strings.HasPrefix(got, "2026-03-05 05:00:00") {
		t.Errorf("FormatLine timestamp = %q, want UTC prefix 2026-03-05 05:00:00", got)
	}
}
