package console

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gjdunga/ModernItemBlocker/internal/adapter/outbound/state"
	"github.com/gjdunga/ModernItemBlocker/internal/domain/auth"
	"github.com/gjdunga/ModernItemBlocker/internal/domain/policy"
	"github.com/gjdunga/ModernItemBlocker/internal/service"
)

// memLog is an in-memory audit sink.
type memLog struct {
	entries []string
}

func (m *memLog) Append(fields ...string) error {
	m.entries = append(m.entries, strings.Join(fields, " | "))
	return nil
}

func (m *memLog) ReadTail(maxLines, maxBytes int) ([]string, error) {
	return m.entries, nil
}

// failLog always fails, for I/O error rendering tests.
type failLog struct{}

func (failLog) Append(fields ...string) error { return errors.New("disk full") }

func (failLog) ReadTail(maxLines, maxBytes int) ([]string, error) {
	return nil, errors.New("disk full")
}

// fakeAuth authorizes console callers plus anyone when open is set.
type fakeAuth struct {
	open bool
}

func (a *fakeAuth) Authorized(c auth.Caller) bool {
	return c.Console || a.open
}

type nopRegistrar struct{}

func (nopRegistrar) Subscribe(ch policy.Channel)   {}
func (nopRegistrar) Unsubscribe(ch policy.Channel) {}

var (
	operator = auth.Caller{ID: "console", Name: "console", Console: true}
	stranger = auth.Caller{ID: "76561198000000002", Name: "stranger"}
)

func newConsole(t *testing.T, log interface {
	Append(fields ...string) error
	ReadTail(maxLines, maxBytes int) ([]string, error)
}) *Console {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	persist := state.NewFileStore(filepath.Join(t.TempDir(), "policy.json"), logger)
	record := state.DefaultRecord()

	store := policy.NewStore()
	window := policy.NewWindow(record.DurationHours, time.Now(), nil)
	engine := policy.NewEngine(policy.BuildIndex(store), window)
	gate := policy.NewGate(nopRegistrar{}, logger)

	admin := service.NewAdminService(service.AdminDeps{
		Store:          store,
		Engine:         engine,
		Gate:           gate,
		Window:         window,
		Persist:        persist,
		Record:         record,
		Log:            log,
		Logger:         logger,
		MaxAliasLength: 32,
	})
	blocks := service.NewBlockService(engine, policy.NewExemptionChain(logger), log, nil, nil, logger)
	return New(admin, blocks, &fakeAuth{}, 32, logger)
}

func TestConsole_HelpAndUnknown(t *testing.T) {
	c := newConsole(t, &memLog{})

	for _, line := range []string{"help", "", "frobnicate"} {
		if got := c.Handle(operator, line); !strings.Contains(got, "itemblock commands") {
			t.Errorf("Handle(%q) = %q, want usage text", line, got)
		}
	}
}

func TestConsole_UnauthorizedCallerRejected(t *testing.T) {
	c := newConsole(t, &memLog{})

	got := c.Handle(stranger, "add permanent item C4")
	if !strings.Contains(got, "not authorized") {
		t.Errorf("Handle = %q, want authorization rejection", got)
	}
	// Nothing was mutated.
	if list := c.Handle(operator, "list"); strings.Contains(list, "C4") {
		t.Error("unauthorized add still mutated the lists")
	}
}

func TestConsole_EpochAndCheckRequireAuthorization(t *testing.T) {
	c := newConsole(t, &memLog{})
	before := c.admin.Remaining()

	if got := c.Handle(stranger, "epoch"); !strings.Contains(got, "not authorized") {
		t.Errorf("Handle(epoch) = %q, want authorization rejection", got)
	}
	// The window was not re-armed past its original end.
	if after := c.admin.Remaining(); after > before {
		t.Errorf("Remaining grew from %v to %v after rejected epoch", before, after)
	}
	if got := c.Handle(stranger, "check item C4"); !strings.Contains(got, "not authorized") {
		t.Errorf("Handle(check) = %q, want authorization rejection", got)
	}
}

func TestConsole_AddRemoveFlow(t *testing.T) {
	c := newConsole(t, &memLog{})

	if got := c.Handle(operator, "add permanent item Rocket Launcher"); !strings.Contains(got, `Added "Rocket Launcher"`) {
		t.Fatalf("add reply = %q", got)
	}
	if got := c.Handle(operator, "add perm items rocket launcher"); !strings.Contains(got, "already on") {
		t.Errorf("duplicate add reply = %q, want already-on message", got)
	}
	if got := c.Handle(operator, "remove permanent item ROCKET LAUNCHER"); !strings.Contains(got, `Removed "ROCKET LAUNCHER"`) {
		t.Errorf("remove reply = %q", got)
	}
	if got := c.Handle(operator, "remove permanent item Rocket Launcher"); !strings.Contains(got, "is not on") {
		t.Errorf("second remove reply = %q, want not-on message", got)
	}
}

func TestConsole_BadTokensRejected(t *testing.T) {
	c := newConsole(t, &memLog{})

	cases := []struct {
		line string
		want string
	}{
		{"add forever item C4", "Unknown block type"},
		{"add permanent vehicle C4", "Unknown category"},
		{"add permanent item", "Usage:"},
		{"remove timed", "Usage:"},
	}
	for _, tc := range cases {
		if got := c.Handle(operator, tc.line); !strings.Contains(got, tc.want) {
			t.Errorf("Handle(%q) = %q, want it to contain %q", tc.line, got, tc.want)
		}
	}
}

func TestConsole_OversizedNameRejected(t *testing.T) {
	c := newConsole(t, &memLog{})

	long := strings.Repeat("a", 40)
	if got := c.Handle(operator, "add permanent item "+long); !strings.Contains(got, "too long") {
		t.Errorf("Handle = %q, want too-long rejection", got)
	}
}

func TestConsole_ListShowsPlaceholderAndStripsMarkup(t *testing.T) {
	c := newConsole(t, &memLog{})
	c.Handle(operator, "add timed clothing <color=red>Hazmat</color>")

	got := c.Handle(operator, "list")
	if !strings.Contains(got, "(none)") {
		t.Errorf("list output missing placeholder for empty collections:\n%s", got)
	}
	if strings.Contains(got, "<color") {
		t.Errorf("list output contains raw markup:\n%s", got)
	}
	if !strings.Contains(got, "Hazmat") {
		t.Errorf("list output missing stripped alias:\n%s", got)
	}
}

func TestConsole_LogList(t *testing.T) {
	log := &memLog{}
	c := newConsole(t, log)

	if got := c.Handle(operator, "loglist"); !strings.Contains(got, "empty") {
		t.Errorf("loglist on empty log = %q", got)
	}

	c.Handle(operator, "add permanent ammo explosive.ammo")
	if got := c.Handle(operator, "loglist"); !strings.Contains(got, "explosive.ammo") {
		t.Errorf("loglist = %q, want the add entry", got)
	}
}

func TestConsole_LogListErrorIsHumanReadable(t *testing.T) {
	c := newConsole(t, failLog{})

	got := c.Handle(operator, "loglist")
	if !strings.Contains(got, "Could not read the audit log") {
		t.Errorf("Handle = %q, want readable I/O error", got)
	}
}

func TestConsole_EpochAndCheck(t *testing.T) {
	c := newConsole(t, &memLog{})
	c.Handle(operator, "add timed item AK47")

	if got := c.Handle(operator, "epoch"); !strings.Contains(got, "re-armed") {
		t.Errorf("epoch reply = %q", got)
	}
	if got := c.Handle(operator, "check item AK47"); !strings.Contains(got, "blocked for another") {
		t.Errorf("check reply = %q, want timed-block message", got)
	}
	if got := c.Handle(operator, "check item Torch"); !strings.Contains(got, "allowed") {
		t.Errorf("check reply = %q, want allowed", got)
	}

	c.Handle(operator, "add permanent item C4")
	if got := c.Handle(operator, "check items C4"); !strings.Contains(got, "permanently blocked") {
		t.Errorf("check reply = %q, want permanent-block message", got)
	}
}

func TestStripMarkup(t *testing.T) {
	in := `<b>bold</b> and <color=#ff0000>red</color>`
	if got := StripMarkup(in); got != "bold and red" {
		t.Errorf("StripMarkup = %q, want %q", got, "bold and red")
	}
}

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{-time.Hour, "0m"},
		{time.Second, "1m"},
		{30 * time.Minute, "30m"},
		{90 * time.Minute, "1h 30m"},
		{30 * time.Hour, "30h 0m"},
	}
	for _, tc := range cases {
		if got := FormatRemaining(tc.d); got != tc.want {
			t.Errorf("FormatRemaining(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
