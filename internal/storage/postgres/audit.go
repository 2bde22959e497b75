package postgres

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"realestate-lead-orchestrator/internal/models"
)

// AuditStorage persists the Compliance Gate's immutable audit trail. Adapted
// from the teacher's message storage: same append-only, tenant-agnostic
// insert-and-list shape, repointed from conversation transcripts to
// compliance events.
type AuditStorage struct {
	client *Client
}

// NewAuditStorage creates a new audit storage instance.
func NewAuditStorage(client *Client) *AuditStorage {
	return &AuditStorage{client: client}
}

// Append implements compliance.AuditSink. A record without an ID is given
// a fresh UUID before insert. Insert errors are discarded, neither logged
// nor propagated: the audit trail records what the gate did, it does not
// gate whether the gate does it.
func (s *AuditStorage) Append(record models.AuditRecord) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	query := `
		INSERT INTO audit_records (id, phone, event_type, success, reason, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, _ = s.client.DB.Exec(query,
		record.ID, record.Phone, record.EventType, record.Success,
		record.Reason, record.Content, record.CreatedAt,
	)
}

// ListByPhone retrieves the audit trail for a phone number, most recent first.
func (s *AuditStorage) ListByPhone(phone string, limit int) ([]*models.AuditRecord, error) {
	query := `
		SELECT id, phone, event_type, success, reason, content, created_at
		FROM audit_records
		WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.client.DB.Query(query, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	var records []*models.AuditRecord
	for rows.Next() {
		rec := &models.AuditRecord{}
		var reason, content sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Phone, &rec.EventType, &rec.Success, &reason, &content, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.Reason = reason.String
		rec.Content = content.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit records: %w", err)
	}
	return records, nil
}
