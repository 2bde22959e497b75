package compliance

import (
	"testing"
	"time"

	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/models"
)

func testGate(t *testing.T, clock Clock) *Gate {
	t.Helper()
	return NewGateWithClock(config.Default(), NopAuditSink{}, clock)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestValidateSend_DailyLimitBoundary(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	g := testGate(t, fixedClock(now))
	phone := "+15551234567"

	for i := 0; i < 2; i++ {
		g.RecordSend(phone, "hi", true)
	}
	result := g.ValidateSend(phone, "hello")
	if !result.Allowed {
		t.Fatalf("expected allowed after 2 sends, got denied: %+v", result)
	}
	g.RecordSend(phone, "hi", true)
	if g.Status(phone).DailyCount != 3 {
		t.Fatalf("daily count = %d, want 3", g.Status(phone).DailyCount)
	}
	result = g.ValidateSend(phone, "one more")
	if result.Allowed {
		t.Fatal("expected denial at daily limit")
	}
	if result.Reason != models.DenyDailyLimit {
		t.Errorf("reason = %v, want daily-limit", result.Reason)
	}
}

func TestValidateSend_MonthlyBoundaryThenRollover(t *testing.T) {
	lastDayOfMonth := time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC)
	clockVal := lastDayOfMonth
	clock := func() time.Time { return clockVal }
	g := testGate(t, clock)
	phone := "+15551234567"

	for i := 0; i < 19; i++ {
		// bypass the daily cap by zeroing the daily count before each send; the clock (and so the month) stays fixed.
		g.resetDailyForTest(phone)
		g.RecordSend(phone, "hi", true)
	}
	if g.Status(phone).MonthlyCount != 19 {
		t.Fatalf("monthly count = %d, want 19", g.Status(phone).MonthlyCount)
	}
	result := g.ValidateSend(phone, "final")
	if !result.Allowed {
		t.Fatalf("expected allowed at monthlyCount=19, got denied: %+v", result)
	}
	g.RecordSend(phone, "final", true)
	if g.Status(phone).MonthlyCount != 20 {
		t.Fatalf("monthly count = %d, want 20", g.Status(phone).MonthlyCount)
	}

	clockVal = time.Date(2026, 2, 1, 0, 1, 0, 0, time.UTC)
	result = g.ValidateSend(phone, "next month")
	if !result.Allowed {
		t.Fatal("expected allowed after monthly rollover")
	}
	if result.MonthlyCount != 0 {
		t.Errorf("monthly count after rollover = %d, want 0", result.MonthlyCount)
	}
}

func TestProcessInbound_StopwatchIsNotOptOut(t *testing.T) {
	g := testGate(t, fixedClock(time.Now()))
	phone := "+15551234567"
	result := g.ProcessInbound(phone, "please don't use my STOPWATCH app")
	if result.Action != "message-processed" {
		t.Errorf("action = %v, want message-processed", result.Action)
	}
	if g.Status(phone).OptedOut {
		t.Error("STOPWATCH should not trigger an opt-out")
	}
}

func TestProcessInbound_WholeTokenStopOptsOut(t *testing.T) {
	g := testGate(t, fixedClock(time.Now()))
	phone := "+15551234567"
	result := g.ProcessInbound(phone, "STOP")
	if result.Action != "opt-out-processed" {
		t.Errorf("action = %v, want opt-out-processed", result.Action)
	}
	if !g.Status(phone).OptedOut {
		t.Error("expected opt-out to be recorded")
	}
}

func TestProcessOptOut_IdempotentObservableState(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	g := testGate(t, fixedClock(now))
	phone := "+15551234567"
	g.ProcessOptOut(phone, models.OptOutUserRequest)
	first := g.Status(phone)
	g.ProcessOptOut(phone, models.OptOutUserRequest)
	second := g.Status(phone)
	if first.OptOutAt != second.OptOutAt {
		t.Error("second processOptOut changed OptOutAt, expected idempotence")
	}
	if !second.OptedOut {
		t.Error("expected still opted out")
	}
}

func TestValidateSend_OptedOutDeniesForTwoYears(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clockVal := base
	clock := func() time.Time { return clockVal }
	g := testGate(t, clock)
	phone := "+15551234567"
	g.ProcessOptOut(phone, models.OptOutStopKeyword)

	clockVal = base.Add(300 * 24 * time.Hour)
	result := g.ValidateSend(phone, "are you still there")
	if result.Allowed {
		t.Fatal("expected denial while still opted out")
	}
	if result.Reason != models.DenyOptedOut {
		t.Errorf("reason = %v, want opted-out", result.Reason)
	}
}

func TestValidateSend_BusinessHoursAdvisory(t *testing.T) {
	lateNight := time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC)
	g := testGate(t, fixedClock(lateNight))
	result := g.ValidateSend("+15551234567", "hello")
	if !result.Allowed {
		t.Fatal("expected advisory-only result, not a denial")
	}
	if result.AdvisoryNote != "business-hours-warning" {
		t.Errorf("advisory note = %q, want business-hours-warning", result.AdvisoryNote)
	}
}

// resetDailyForTest works around the daily cap so the monthly-boundary
// test can exercise 19 sends within a single fixed day without the daily
// limit interfering; it simulates an independent day rollover per send.
func (g *Gate) resetDailyForTest(phone string) {
	e := g.entryFor(NormalizePhone(phone))
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record.DailyCount = 0
}
