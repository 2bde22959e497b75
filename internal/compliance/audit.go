package compliance

import (
	"realestate-lead-orchestrator/internal/models"
)

// AuditSink persists immutable audit entries for the Compliance Gate.
// Implementations must never fail the calling operation: a persistence
// failure is logged by the sink itself and swallowed, because the audit
// trail is a record of what the gate did, not a gate on whether it does it.
type AuditSink interface {
	Append(record models.AuditRecord)
}

// NopAuditSink discards every record. Used when no durable sink is wired,
// so the gate always has a non-nil sink to call.
type NopAuditSink struct{}

// Append implements AuditSink.
func (NopAuditSink) Append(models.AuditRecord) {}
