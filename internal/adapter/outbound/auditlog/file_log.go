// Package auditlog provides the file-backed audit sink: serialized
// line appends plus a bounded-memory tail reader.
package auditlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gjdunga/ModernItemBlocker/internal/domain/audit"
)

// FileLog appends sanitized audit lines to a single flat text file.
// The engine never rotates, compresses, or deletes the file; those belong
// to the hosting environment.
//
// Appends serialize under the mutex so concurrent writers (administrative
// edits firing while denial logging is occurring) cannot interleave partial
// lines. Tail reads deliberately do not take the mutex: they work from a
// size snapshot taken at read time, and a write landing mid-read may or may
// not appear in the returned tail. That race is accepted; the tail is an
// eventually consistent view, not a correctness guarantee.
type FileLog struct {
	path   string
	mu     sync.Mutex
	file   *os.File
	logger *slog.Logger
	now    func() time.Time
}

// NewFileLog creates a FileLog writing to path, creating parent directories
// as needed. The file itself is opened lazily on first append, so a log
// that is temporarily unwritable does not prevent startup.
func NewFileLog(path string, logger *slog.Logger) (*FileLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	return &FileLog{path: path, logger: logger, now: time.Now}, nil
}

// Append writes one line: UTC timestamp, then each field sanitized, joined
// by the field separator. Errors are returned to the caller for reporting;
// evaluation must keep functioning even while the log is unwritable, so
// nothing here is fatal.
func (l *FileLog) Append(fields ...string) error {
	line := audit.FormatLine(l.now(), fields...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureOpenLocked(); err != nil {
		return err
	}
	if _, err := l.file.WriteString(line + "\n"); err != nil {
		// Drop the handle so the next append retries the open; the file may
		// have been removed or the disk remounted underneath us.
		_ = l.file.Close()
		l.file = nil
		return fmt.Errorf("append audit line: %w", err)
	}
	return nil
}

// ReadTail returns the last maxLines lines of the log, reading at most
// maxBytes bytes from the end of the file. Memory use is bounded by
// maxBytes regardless of how large the log has grown. Non-positive
// arguments select the package defaults. A missing log file yields an
// empty tail, not an error.
func (l *FileLog) ReadTail(maxLines, maxBytes int) ([]string, error) {
	if maxLines <= 0 {
		maxLines = audit.DefaultTailLines
	}
	if maxBytes <= 0 {
		maxBytes = audit.DefaultTailBytes
	}

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat audit log: %w", err)
	}

	offset := info.Size() - int64(maxBytes)
	if offset < 0 {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek audit log: %w", err)
	}

	buf := make([]byte, info.Size()-offset)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read audit log tail: %w", err)
	}
	buf = buf[:n]

	lines := strings.Split(strings.TrimRight(string(buf), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines, nil
}

// Close releases the append handle if one is open.
func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ensureOpenLocked opens the append handle if needed. Must be called with
// l.mu held.
func (l *FileLog) ensureOpenLocked() error {
	if l.file != nil {
		return nil
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	l.file = f
	return nil
}

// Compile-time interface verification.
var _ audit.Log = (*FileLog)(nil)
