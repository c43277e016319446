package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harulabs/mintgate/internal/audit"
)

// InsertAuditEvent persists one audit event.
func (s *Store) InsertAuditEvent(ctx context.Context, event audit.Event) error {
	if s == nil || s.DB == nil {
		return errNotInitialized
	}

	var details []byte
	if len(event.Details) > 0 {
		encoded, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("encode audit details: %w", err)
		}
		details = encoded
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO audit_events (id, action, actor, tier, subject, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, event.ID, event.Action, event.Actor, event.Tier, event.Subject, details, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns up to limit events, newest first.
func (s *Store) ListAuditEvents(ctx context.Context, limit int) ([]audit.Event, error) {
	if s == nil || s.DB == nil {
		return nil, errNotInitialized
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, action, actor, tier, subject, details, created_at
		FROM audit_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, audit.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup

	events := []audit.Event{}
	for rows.Next() {
		var (
			ev      audit.Event
			details []byte
		)
		if err := rows.Scan(&ev.ID, &ev.Action, &ev.Actor, &ev.Tier, &ev.Subject, &details, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if len(details) > 0 {
			_ = json.Unmarshal(details, &ev.Details)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
