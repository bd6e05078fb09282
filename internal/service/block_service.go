package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gjdunga/ModernItemBlocker/internal/domain/audit"
	"github.com/gjdunga/ModernItemBlocker/internal/domain/policy"
)

// AccessAttempt is one access-attempt event from the host runtime. Either
// alias may be empty; the subject fields identify who is attempting.
type AccessAttempt struct {
	DisplayName string
	ShortName   string
	Class       policy.ResourceClass
	SubjectID   string
	SubjectName string
	// Location is an optional world-coordinate hint for the audit entry.
	Location string
}

// Denial carries what the transport needs to render a denial notification.
type Denial struct {
	Verdict      policy.Verdict
	ResourceName string
	// Remaining is the time left on the timed window; zero for permanent
	// denials.
	Remaining time.Duration
}

// Messenger is the external messaging collaborator that renders denial
// notifications to the subject. Rendering is entirely its concern.
type Messenger interface {
	NotifyDenied(subjectID string, d Denial)
}

// BlockService handles the access-attempt path: exemption check,
// evaluation, and on deny the subject notification plus an audit entry.
type BlockService struct {
	engine     *policy.Engine
	exemptions *policy.ExemptionChain
	log        audit.Log
	messenger  Messenger
	metrics    Instrumentation
	logger     *slog.Logger
}

// NewBlockService creates a BlockService. Nil metrics defaults to a no-op
// recorder.
func NewBlockService(
	engine *policy.Engine,
	exemptions *policy.ExemptionChain,
	log audit.Log,
	messenger Messenger,
	metrics Instrumentation,
	logger *slog.Logger,
) *BlockService {
	if metrics == nil {
		metrics = NopInstrumentation()
	}
	return &BlockService{
		engine:     engine,
		exemptions: exemptions,
		log:        log,
		messenger:  messenger,
		metrics:    metrics,
		logger:     logger,
	}
}

// Check classifies one access attempt. It returns nil for an allowed
// attempt; for a denied one it notifies the subject, writes an audit
// entry, and returns the denial for the caller's own handling.
func (s *BlockService) Check(att AccessAttempt) *Denial {
	if s.exemptions.IsExempt(att.SubjectID) {
		s.metrics.Evaluation(att.Class.String(), "exempt")
		return nil
	}

	verdict := s.engine.Evaluate(att.DisplayName, att.ShortName, att.Class)
	s.metrics.Evaluation(att.Class.String(), verdict.String())
	if verdict == policy.VerdictAllow {
		return nil
	}

	d := Denial{
		Verdict:      verdict,
		ResourceName: att.DisplayName,
	}
	if d.ResourceName == "" {
		d.ResourceName = att.ShortName
	}
	if verdict == policy.VerdictTimedDeny {
		d.Remaining = s.engine.Window().Remaining()
	}

	if s.messenger != nil {
		s.messenger.NotifyDenied(att.SubjectID, d)
	}

	fields := []string{
		att.SubjectName,
		att.SubjectID,
		fmt.Sprintf("denied %s use of %s %q", verdict, att.Class, d.ResourceName),
	}
	if att.Location != "" {
		fields = append(fields, att.Location)
	}
	if err := s.log.Append(fields...); err != nil {
		s.metrics.AuditFailure()
		s.logger.Error("audit append failed", "error", err)
	}

	return &d
}
