// Package audit records administrative changes to the allowlists.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/harulabs/mintgate/internal/auth"
	"github.com/harulabs/mintgate/internal/ids"
)

// Actions recorded in the trail.
const (
	ActionWalletsAdd             = "wallets.add"
	ActionWalletsRemove          = "wallets.remove"
	ActionWalletsUpdateAllowance = "wallets.update_allowance"
	ActionSignIn                 = "auth.sign_in"
	ActionUserCreate             = "auth.user_create"
)

// List limits.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Event is one audit record.
type Event struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Actor     string         `json:"actor"`
	Tier      string         `json:"tier,omitempty"`
	Subject   string         `json:"subject,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Store persists audit events.
type Store interface {
	InsertAuditEvent(ctx context.Context, event Event) error
	ListAuditEvents(ctx context.Context, limit int) ([]Event, error)
}

// Recorder stamps, persists and logs audit events. A nil Recorder discards
// events.
type Recorder struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewRecorder builds a Recorder. logger may be nil.
func NewRecorder(store Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, logger: logger, now: time.Now}
}

// Record persists event. The actor defaults to the principal in ctx. Storage
// failures are logged and otherwise ignored so the audited operation still
// succeeds.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if r == nil {
		return
	}

	now := r.now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	if event.ID == "" {
		event.ID = ids.NewAt(event.CreatedAt)
	}
	if event.Actor == "" {
		event.Actor = auth.Actor(ctx)
	}

	fields := []zap.Field{
		zap.String("audit_id", event.ID),
		zap.String("action", event.Action),
		zap.String("actor", event.Actor),
	}
	if event.Tier != "" {
		fields = append(fields, zap.String("tier", event.Tier))
	}
	if event.Subject != "" {
		fields = append(fields, zap.String("subject", event.Subject))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}
	r.logger.Info("audit", fields...)

	if r.store == nil {
		return
	}
	if err := r.store.InsertAuditEvent(ctx, event); err != nil {
		r.logger.Error("failed to persist audit event",
			zap.String("audit_id", event.ID),
			zap.String("action", event.Action),
			zap.Error(err))
	}
}

// List returns the most recent events, newest first.
func (r *Recorder) List(ctx context.Context, limit int) ([]Event, error) {
	if r == nil || r.store == nil {
		return []Event{}, nil
	}
	return r.store.ListAuditEvents(ctx, ClampLimit(limit))
}

// ClampLimit maps non-positive limits to DefaultListLimit and caps at
// MaxListLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
