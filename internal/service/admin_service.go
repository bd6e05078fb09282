// Package service orchestrates the policy domain: the administrative
// mutation path and the access-attempt evaluation path.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gjdunga/ModernItemBlocker/internal/adapter/outbound/state"
	"github.com/gjdunga/ModernItemBlocker/internal/domain/audit"
	"github.com/gjdunga/ModernItemBlocker/internal/domain/auth"
	"github.com/gjdunga/ModernItemBlocker/internal/domain/policy"
)

// Validation errors for administrative input. These are rejected at the
// boundary with no partial mutation.
var (
	// ErrEmptyAlias is returned when an alias is empty after trimming.
	ErrEmptyAlias = errors.New("alias name is empty")
	// ErrAliasTooLong is returned when an alias exceeds the configured
	// maximum length.
	ErrAliasTooLong = errors.New("alias name too long")
)

// Listing is the read-only rendering input for the list command: all six
// collections in insertion order.
type Listing struct {
	Sections []ListingSection
}

// ListingSection is one (class, kind) collection.
type ListingSection struct {
	Class   policy.ResourceClass
	Kind    policy.BlockKind
	Aliases []string
}

// AdminService owns the mutation path. Every state-changing operation runs
// as one unit under the mutex: store mutation, index rebuild, gate
// recompute, persistence, audit entry. A reader can therefore never
// observe a rebuilt index against a not-yet-updated store or vice versa.
type AdminService struct {
	mu      sync.Mutex
	store   *policy.Store
	engine  *policy.Engine
	gate    *policy.Gate
	window  *policy.Window
	persist *state.FileStore
	record  *state.Record
	log     audit.Log
	metrics Instrumentation
	logger  *slog.Logger

	maxAliasLen int
	tailLines   int
	tailBytes   int
	now         func() time.Time
}

// AdminDeps bundles the collaborators an AdminService needs.
type AdminDeps struct {
	Store   *policy.Store
	Engine  *policy.Engine
	Gate    *policy.Gate
	Window  *policy.Window
	Persist *state.FileStore
	Record  *state.Record
	Log     audit.Log
	Metrics Instrumentation
	Logger  *slog.Logger

	MaxAliasLength int
	TailLines      int
	TailBytes      int
}

// NewAdminService creates an AdminService. Nil Metrics defaults to a no-op
// recorder; zero limits default to the domain defaults.
func NewAdminService(d AdminDeps) *AdminService {
	if d.Metrics == nil {
		d.Metrics = NopInstrumentation()
	}
	if d.MaxAliasLength <= 0 {
		d.MaxAliasLength = 64
	}
	if d.TailLines <= 0 {
		d.TailLines = audit.DefaultTailLines
	}
	if d.TailBytes <= 0 {
		d.TailBytes = audit.DefaultTailBytes
	}
	return &AdminService{
		store:       d.Store,
		engine:      d.Engine,
		gate:        d.Gate,
		window:      d.Window,
		persist:     d.Persist,
		record:      d.Record,
		log:         d.Log,
		metrics:     d.Metrics,
		logger:      d.Logger,
		maxAliasLen: d.MaxAliasLength,
		tailLines:   d.TailLines,
		tailBytes:   d.TailBytes,
		now:         time.Now,
	}
}

// AddAlias validates the alias and adds it to the selected list. Only a
// state-changing outcome triggers persistence, index rebuild, gate
// recompute, and an audit entry; a duplicate add is a reported no-op.
func (s *AdminService) AddAlias(caller auth.Caller, kind policy.BlockKind, class policy.ResourceClass, alias string) (policy.MutationOutcome, error) {
	alias, err := s.validateAlias(alias)
	if err != nil {
		s.metrics.Command("add", "rejected")
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.store.Add(class, kind, alias)
	s.metrics.Command("add", outcome.String())
	if !outcome.Changed() {
		return outcome, nil
	}

	err = s.commitLocked(caller, fmt.Sprintf("added %s %s block for %q", kind, class, alias))
	return outcome, err
}

// RemoveAlias validates the alias and removes it from the selected list.
// Removing an absent alias reports NotFound and triggers neither
// persistence nor an audit entry.
func (s *AdminService) RemoveAlias(caller auth.Caller, kind policy.BlockKind, class policy.ResourceClass, alias string) (policy.MutationOutcome, error) {
	alias, err := s.validateAlias(alias)
	if err != nil {
		s.metrics.Command("remove", "rejected")
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.store.Remove(class, kind, alias)
	s.metrics.Command("remove", outcome.String())
	if !outcome.Changed() {
		return outcome, nil
	}

	err = s.commitLocked(caller, fmt.Sprintf("removed %s %s block for %q", kind, class, alias))
	return outcome, err
}

// Listing returns all six collections in insertion order.
func (s *AdminService) Listing() Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	var l Listing
	for _, kind := range policy.Kinds {
		for _, class := range policy.Classes {
			l.Sections = append(l.Sections, ListingSection{
				Class:   class,
				Kind:    kind,
				Aliases: s.store.Resolve(class, kind),
			})
		}
	}
	return l
}

// Reload re-reads the persisted policy record, re-runs the same null
// coercion as the initial load, rebuilds the index, and recomputes the
// gate. The running components stay registered; nothing is torn down.
func (s *AdminService) Reload(caller auth.Caller) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.persist.Load()
	if err != nil {
		s.metrics.Command("reload", "error")
		return fmt.Errorf("reload policy: %w", err)
	}

	s.record = rec
	s.store.LoadSnapshot(rec.Snapshot())
	s.window.SetDuration(rec.DurationHours)
	ix := policy.BuildIndex(s.store)
	s.engine.SetIndex(ix)
	s.gate.Apply(ix)
	s.metrics.Command("reload", "ok")

	s.appendAudit(caller, "reloaded block lists from disk")
	s.logger.Info("policy reloaded",
		"request_id", uuid.New().String(),
		"actor", caller.Name,
		"duration_hours", rec.DurationHours)
	return nil
}

// Tail returns the configured number of most recent audit lines.
func (s *AdminService) Tail() ([]string, error) {
	lines, err := s.log.ReadTail(s.tailLines, s.tailBytes)
	if err != nil {
		s.metrics.Command("loglist", "error")
		return nil, fmt.Errorf("read audit tail: %w", err)
	}
	s.metrics.Command("loglist", "ok")
	return lines, nil
}

// OnEpoch handles the external epoch event: the window is re-armed
// unconditionally and the epoch timestamp is persisted so a restart can
// re-derive the window end. Rapid repeated events are idempotent.
func (s *AdminService) OnEpoch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.window.Rearm()
	s.record.LastEpoch = s.now().UTC().Unix()
	s.metrics.WindowRearm()
	if err := s.persist.Save(s.record); err != nil {
		s.logger.Warn("failed to persist epoch timestamp", "error", err)
	}
	s.logger.Info("epoch event: timed window re-armed",
		"block_end", s.window.End().UTC().Format(time.RFC3339))
}

// Remaining returns the time left on the timed window, clamped at zero.
func (s *AdminService) Remaining() time.Duration {
	return s.window.Remaining()
}

// commitLocked runs the post-mutation sequence: index rebuild and gate
// recompute first (the store and index may never diverge, even when
// persistence fails), then persistence, then the audit entry. Must be
// called with s.mu held.
func (s *AdminService) commitLocked(caller auth.Caller, action string) error {
	ix := policy.BuildIndex(s.store)
	s.engine.SetIndex(ix)
	s.gate.Apply(ix)

	s.record.SetSnapshot(s.store.Snapshot())
	s.appendAudit(caller, action)
	s.logger.Info("block lists updated",
		"request_id", uuid.New().String(),
		"actor", caller.Name,
		"action", action)

	if err := s.persist.Save(s.record); err != nil {
		return fmt.Errorf("persist policy: %w", err)
	}
	return nil
}

// appendAudit writes one audit entry, recording but not propagating
// failures: evaluation and administration must keep functioning while the
// audit log is unwritable.
func (s *AdminService) appendAudit(caller auth.Caller, action string) {
	actor := caller.Name
	if caller.Console {
		actor = "console"
	}
	if err := s.log.Append(actor, caller.ID, action); err != nil {
		s.metrics.AuditFailure()
		s.logger.Error("audit append failed", "error", err)
	}
}

// validateAlias trims and bounds-checks an alias name.
func (s *AdminService) validateAlias(alias string) (string, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return "", ErrEmptyAlias
	}
	if len(alias) > s.maxAliasLen {
		return "", ErrAliasTooLong
	}
	return alias, nil
}
