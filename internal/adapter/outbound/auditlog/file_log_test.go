package auditlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/gjdunga/ModernItemBlocker/internal/domain/audit"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestLog(t *testing.T) *FileLog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.log")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l, err := NewFileLog(path, logger)
	if err != nil {
		t.Fatalf("NewFileLog: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestFileLog_AppendFormatsLine(t *testing.T) {
	l := newTestLog(t)
	l.now = func() time.Time { return time.Date(2026, 3, 5, 18, 4, 5, 0, time.UTC) }

	if err := l.Append("admin", "id-1", "added permanent item block"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	want := "2026-03-05 18:04:05 | admin | id-1 | added permanent item block\n"
	if string(data) != want {
		t.Errorf("log content = %q, want %q", string(data), want)
	}
}

func TestFileLog_AppendSanitizesFields(t *testing.T) {
	l := newTestLog(t)

	if err := l.Append("evil\nname|with|pipes"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	lines, err := l.ReadTail(0, 0)
	if err != nil {
		t.Fatalf("ReadTail: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("line count = %d, want 1 (newline must not split the entry)", len(lines))
	}
	// One timestamp separator, nothing from the hostile field.
	if got := strings.Count(lines[0], audit.FieldSeparator); got != 1 {
		t.Errorf("separator count = %d, want 1: %q", got, lines[0])
	}
}

func TestFileLog_ReadTailBounds(t *testing.T) {
	l := newTestLog(t)

	// Grow the log well past the byte cap.
	for i := 0; i < 2000; i++ {
		if err := l.Append(fmt.Sprintf("entry-%04d", i), strings.Repeat("x", 100)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	info, err := os.Stat(l.path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	maxBytes := 4096
	if info.Size() <= int64(maxBytes)*4 {
		t.Fatalf("log too small for the test: %d bytes", info.Size())
	}

	lines, err := l.ReadTail(20, maxBytes)
	if err != nil {
		t.Fatalf("ReadTail: %v", err)
	}
	if len(lines) > 20 {
		t.Errorf("line count = %d, want <= 20", len(lines))
	}
	total := 0
	for _, line := range lines {
		total += len(line)
	}
	if total > maxBytes {
		t.Errorf("returned %d bytes of lines, want <= %d", total, maxBytes)
	}
	// The newest entry must be present.
	if !strings.Contains(lines[len(lines)-1], "entry-1999") {
		t.Errorf("last line = %q, want newest entry", lines[len(lines)-1])
	}
}

func TestFileLog_ReadTailFewerLinesThanMax(t *testing.T) {
	l := newTestLog(t)
	_ = l.Append("only-entry")

	lines, err := l.ReadTail(20, 0)
	if err != nil {
		t.Fatalf("ReadTail: %v", err)
	}
	if len(lines) != 1 {
		t.Errorf("line count = %d, want 1", len(lines))
	}
}

func TestFileLog_ReadTailMissingFile(t *testing.T) {
	l := newTestLog(t)

	lines, err := l.ReadTail(0, 0)
	if err != nil {
		t.Fatalf("ReadTail on missing file: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("lines = %v, want empty", lines)
	}
}

func TestFileLog_AppendAfterClose(t *testing.T) {
	l := newTestLog(t)
	_ = l.Append("before close")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// The handle reopens lazily; appends keep working.
	if err := l.Append("after close"); err != nil {
		t.Fatalf("Append after Close: %v", err)
	}
	lines, err := l.ReadTail(0, 0)
	if err != nil {
		t.Fatalf("ReadTail: %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("line count = %d, want 2", len(lines))
	}
}
