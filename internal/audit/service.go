package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/amanthanvi/assetvault/internal/storage"
)

// Service appends registry actions to the audit trail. Recording is
// best-effort from the caller's point of view but failures are returned so
// the caller can log them; the trail itself is append-only.
type Service struct {
	repo storage.AuditRepository
}

func NewService(repo storage.AuditRepository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("new audit service: repository is nil")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) Record(ctx context.Context, event Event) error {
	if strings.TrimSpace(event.Action) == "" {
		return fmt.Errorf("record audit event: action is required")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	} else {
		event.Timestamp = event.Timestamp.UTC()
	}

	details := "{}"
	if len(event.Details) > 0 {
		payload, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("record audit event: encode details: %w", err)
		}
		details = string(payload)
	}

	entry := &storage.AuditEvent{
		Action:    event.Action,
		Actor:     event.Actor,
		TargetID:  event.TargetID,
		Details:   details,
		CreatedAt: event.Timestamp,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("record audit event: append: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, action string, limit int) ([]storage.AuditEvent, error) {
	events, err := s.repo.List(ctx, storage.AuditFilter{Action: action, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}
