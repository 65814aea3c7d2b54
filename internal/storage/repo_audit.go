package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type auditRepository struct {
	db *sql.DB
}

func (r *auditRepository) Append(ctx context.Context, event *AuditEvent) error {
	if event == nil {
		return fmt.Errorf("append audit event: event is nil")
	}
	if event.Action == "" {
		return fmt.Errorf("append audit event: action is required")
	}

	event.ID = ensureID(event.ID)
	if event.CreatedAt.IsZero() {
		event.CreatedAt = nowUTC()
	}
	if event.Details == "" {
		event.Details = "{}"
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events(id, action, actor, target_id, details, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`, event.ID, event.Action, event.Actor, event.TargetID, event.Details, fmtTime(event.CreatedAt))
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]AuditEvent, error) {
	query := `
		SELECT id, action, actor, target_id, details, created_at
		FROM audit_events
		WHERE 1=1
	`
	args := []any{}

	if filter.Action != "" {
		query += ` AND action = ? `
		args = append(args, filter.Action)
	}
	if filter.Since != nil {
		query += ` AND created_at >= ? `
		args = append(args, fmtTime(*filter.Since))
	}
	query += ` ORDER BY created_at DESC `
	if filter.Limit > 0 {
		query += ` LIMIT ? `
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	events := []AuditEvent{}
	for rows.Next() {
		var (
			event     AuditEvent
			actor     sql.NullString
			targetID  sql.NullString
			createdAt string
		)
		if err := rows.Scan(&event.ID, &event.Action, &actor, &targetID, &event.Details, &createdAt); err != nil {
			return nil, fmt.Errorf("list audit events: scan row: %w", err)
		}
		event.Actor = actor.String
		event.TargetID = targetID.String
		event.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: iterate: %w", err)
	}
	return events, nil
}
