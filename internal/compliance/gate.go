// Package compliance implements the Compliance Gate (§4.3): the sole
// authority over outbound SMS. Every send passes through ValidateSend and
// RecordSend; every inbound passes through ProcessInbound. There is no
// other path to sending an SMS in this codebase.
package compliance

import (
	"strings"
	"sync"
	"time"

	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/models"
)

// Clock abstracts time.Now so tests can exercise period-rollover and
// two-year opt-out retention deterministically.
type Clock func() time.Time

type entry struct {
	mu     sync.Mutex
	record models.ComplianceRecord
}

// Gate is the Compliance Gate. The zero value is not usable; construct
// with NewGate. A Gate is safe for concurrent use: operations on the same
// phone are serialised on that phone's entry lock, operations on
// different phones proceed in parallel.
type Gate struct {
	cfg   config.Config
	audit AuditSink
	now   Clock

	registryMu sync.RWMutex
	registry   map[string]*entry
}

// NewGate builds a Gate using the real wall clock.
func NewGate(cfg config.Config, audit AuditSink) *Gate {
	return NewGateWithClock(cfg, audit, time.Now)
}

// NewGateWithClock builds a Gate with an injected clock, for tests.
func NewGateWithClock(cfg config.Config, audit AuditSink, clock Clock) *Gate {
	if audit == nil {
		audit = NopAuditSink{}
	}
	return &Gate{
		cfg:      cfg,
		audit:    audit,
		now:      clock,
		registry: make(map[string]*entry),
	}
}

func (g *Gate) entryFor(phone string) *entry {
	g.registryMu.RLock()
	e, ok := g.registry[phone]
	g.registryMu.RUnlock()
	if ok {
		return e
	}

	g.registryMu.Lock()
	defer g.registryMu.Unlock()
	if e, ok := g.registry[phone]; ok {
		return e
	}
	e = &entry{record: models.ComplianceRecord{Phone: phone}}
	g.registry[phone] = e
	return e
}

// rollover resets counters whose period-start has gone stale. Must be
// called with e.mu held.
func (g *Gate) rollover(e *entry) {
	now := g.now()
	day := now.Format("2006-01-02")
	month := now.Format("2006-01")
	if e.record.DailyPeriod != day {
		e.record.DailyPeriod = day
		e.record.DailyCount = 0
	}
	if e.record.MonthlyPeriod != month {
		e.record.MonthlyPeriod = month
		e.record.MonthlyCount = 0
	}
}

// ValidateSend implements validateSend(phone, content) → {allowed,
// reason?, dailyCount, monthlyCount} (§4.3).
func (g *Gate) ValidateSend(phone, content string) models.ValidateSendResult {
	phone = NormalizePhone(phone)
	e := g.entryFor(phone)
	e.mu.Lock()
	defer e.mu.Unlock()

	g.rollover(e)

	if e.record.OptedOut {
		g.audit.Append(models.AuditRecord{
			Phone: phone, EventType: "validate-send-denied", Success: false,
			Reason: string(models.DenyOptedOut), Content: content, CreatedAt: g.now(),
		})
		return models.ValidateSendResult{
			Allowed: false, Reason: models.DenyOptedOut,
			DailyCount: e.record.DailyCount, MonthlyCount: e.record.MonthlyCount,
		}
	}
	if e.record.DailyCount >= g.cfg.DailySMSLimit {
		g.audit.Append(models.AuditRecord{
			Phone: phone, EventType: "validate-send-denied", Success: false,
			Reason: string(models.DenyDailyLimit), Content: content, CreatedAt: g.now(),
		})
		return models.ValidateSendResult{
			Allowed: false, Reason: models.DenyDailyLimit,
			DailyCount: e.record.DailyCount, MonthlyCount: e.record.MonthlyCount,
		}
	}
	if e.record.MonthlyCount >= g.cfg.MonthlySMSLimit {
		g.audit.Append(models.AuditRecord{
			Phone: phone, EventType: "validate-send-denied", Success: false,
			Reason: string(models.DenyMonthlyLimit), Content: content, CreatedAt: g.now(),
		})
		return models.ValidateSendResult{
			Allowed: false, Reason: models.DenyMonthlyLimit,
			DailyCount: e.record.DailyCount, MonthlyCount: e.record.MonthlyCount,
		}
	}

	result := models.ValidateSendResult{
		Allowed:      true,
		DailyCount:   e.record.DailyCount,
		MonthlyCount: e.record.MonthlyCount,
	}
	if !g.withinBusinessHours(g.now()) {
		result.AdvisoryNote = "business-hours-warning"
	}
	return result
}

func (g *Gate) withinBusinessHours(t time.Time) bool {
	h := t.Hour()
	return h >= g.cfg.BusinessHours.Start && h <= g.cfg.BusinessHours.End
}

// RecordSend implements recordSend(phone, content, success) (§4.3).
// Counters increment only on success; a failed send still produces an
// audit entry so the attempt is never silently lost.
func (g *Gate) RecordSend(phone, content string, success bool) {
	phone = NormalizePhone(phone)
	e := g.entryFor(phone)
	e.mu.Lock()
	defer e.mu.Unlock()

	g.rollover(e)

	if success {
		e.record.DailyCount++
		e.record.MonthlyCount++
		e.record.LastSentAt = g.now()
	}
	g.audit.Append(models.AuditRecord{
		Phone: phone, EventType: "record-send", Success: success,
		Content: content, CreatedAt: g.now(),
	})
}

// ProcessInbound implements processInbound(phone, content) → {action,
// details} (§4.3). STOP-keyword detection is whole-token only:
// "STOPWATCH" never triggers an opt-out.
func (g *Gate) ProcessInbound(phone, content string) models.ProcessInboundResult {
	phone = NormalizePhone(phone)
	if containsStopToken(content, g.cfg.StopKeywords) {
		g.ProcessOptOut(phone, models.OptOutStopKeyword)
		return models.ProcessInboundResult{Action: "opt-out-processed"}
	}
	return models.ProcessInboundResult{
		Action:          "message-processed",
		ComplianceFlags: checkContentFlags(content),
	}
}

// ProcessOptOut implements processOptOut(phone, reason) (§4.3). Idempotent:
// calling it twice in a row leaves the same observable state as once.
func (g *Gate) ProcessOptOut(phone string, reason models.OptOutReason) {
	phone = NormalizePhone(phone)
	e := g.entryFor(phone)
	e.mu.Lock()
	defer e.mu.Unlock()

	already := e.record.OptedOut
	e.record.OptedOut = true
	e.record.OptOutReason = reason
	if !already {
		e.record.OptOutAt = g.now()
	}
	g.audit.Append(models.AuditRecord{
		Phone: phone, EventType: "opt-out-processed", Success: true,
		Reason: string(reason), CreatedAt: g.now(),
	})
}

// Status implements status(phone) → ComplianceStatus (§4.3): a read-only
// snapshot, rollover applied so callers never see a stale period.
func (g *Gate) Status(phone string) models.ComplianceRecord {
	phone = NormalizePhone(phone)
	e := g.entryFor(phone)
	e.mu.Lock()
	defer e.mu.Unlock()
	g.rollover(e)
	return e.record
}

// Sweep evicts opt-out records older than the configured retention
// period. Counters are not subject to this sweep; they roll over on
// their own schedule. This is run on a background timer by the caller,
// separate from (and far less frequent than) session/counter eviction.
func (g *Gate) Sweep(retention time.Duration) int {
	cutoff := g.now().Add(-retention)
	g.registryMu.Lock()
	defer g.registryMu.Unlock()

	evicted := 0
	for phone, e := range g.registry {
		e.mu.Lock()
		stale := e.record.OptedOut && e.record.OptOutAt.Before(cutoff)
		e.mu.Unlock()
		if stale {
			delete(g.registry, phone)
			evicted++
		}
	}
	return evicted
}

// containsStopToken reports whether content, tokenised on whitespace and
// stripped of edge punctuation, contains a whole token from keywords.
func containsStopToken(content string, keywords map[string]bool) bool {
	upper := strings.ToUpper(strings.TrimSpace(content))
	for _, word := range strings.Fields(upper) {
		token := strings.Trim(word, ".,!?;:\"'()")
		if keywords[token] {
			return true
		}
	}
	return false
}
