package session

import (
	"testing"
	"time"

	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/models"
)

func TestGetOrCreate_Idempotent(t *testing.T) {
	store := New(config.Default(), nil)
	first := store.GetOrCreate("lead-1", Seed{LeadName: "Jane", LeadKind: models.LeadKindSeller})
	second := store.GetOrCreate("lead-1", Seed{LeadName: "Different", LeadKind: models.LeadKindBuyer})
	if first != second {
		t.Fatal("expected the same session instance on second call")
	}
	if second.LeadName != "Jane" {
		t.Errorf("LeadName = %q, want Jane (seed should not apply twice)", second.LeadName)
	}
}

func TestUpdate_AppliesMutatorUnderLock(t *testing.T) {
	store := New(config.Default(), nil)
	store.GetOrCreate("lead-1", Seed{LeadKind: models.LeadKindBuyer})
	ok := store.Update("lead-1", func(s *models.Session) {
		s.ConversationHistory = append(s.ConversationHistory, models.ConversationTurn{
			Role: models.RoleUser, Content: "hello", Timestamp: time.Now(),
		})
	})
	if !ok {
		t.Fatal("expected Update to succeed for existing session")
	}
	snap, ok := store.Snapshot("lead-1")
	if !ok {
		t.Fatal("expected snapshot to succeed")
	}
	if len(snap.ConversationHistory) != 1 {
		t.Errorf("history length = %d, want 1", len(snap.ConversationHistory))
	}
}

func TestUpdate_UnknownLeadReturnsFalse(t *testing.T) {
	store := New(config.Default(), nil)
	ok := store.Update("never-created", func(*models.Session) {})
	if ok {
		t.Fatal("expected false for a lead that was never created")
	}
}

func TestSessionExpiry_EvictsPastTTL(t *testing.T) {
	cfg := config.Default()
	cfg.SessionTTL = 10 * time.Minute
	store := New(cfg, nil)

	evictedLead := ""
	store.onEvict = func(leadID string) { evictedLead = leadID }

	fixedNow := time.Now()
	store.now = func() time.Time { return fixedNow }
	store.GetOrCreate("lead-1", Seed{})

	store.now = func() time.Time { return fixedNow.Add(11 * time.Minute) }
	_, ok := store.Snapshot("lead-1")
	if ok {
		t.Fatal("expected session to be evicted past TTL")
	}
	if evictedLead != "lead-1" {
		t.Errorf("onEvict called with %q, want lead-1", evictedLead)
	}
}

func TestHistoryNonDecreasing(t *testing.T) {
	store := New(config.Default(), nil)
	store.GetOrCreate("lead-1", Seed{})
	for i := 0; i < 5; i++ {
		store.Update("lead-1", func(s *models.Session) {
			s.ConversationHistory = append(s.ConversationHistory, models.ConversationTurn{
				Role: models.RoleUser, Content: "msg", Timestamp: time.Now(),
			})
		})
	}
	snap, _ := store.Snapshot("lead-1")
	if len(snap.ConversationHistory) != 5 {
		t.Errorf("history length = %d, want 5", len(snap.ConversationHistory))
	}
}

func TestScoreHistoryCap(t *testing.T) {
	store := New(config.Default(), nil)
	store.GetOrCreate("lead-1", Seed{})
	store.Update("lead-1", func(s *models.Session) {
		for i := 0; i < models.ScoreHistoryCap+5; i++ {
			s.AppendScoreSnapshot(models.ScoreSnapshot{FRSTotal: float64(i)})
		}
	})
	snap, _ := store.Snapshot("lead-1")
	if len(snap.ScoreHistory) != models.ScoreHistoryCap {
		t.Errorf("score history length = %d, want cap %d", len(snap.ScoreHistory), models.ScoreHistoryCap)
	}
	if snap.ScoreHistory[0].FRSTotal != 5 {
		t.Errorf("oldest retained FRSTotal = %v, want 5 (first 5 dropped)", snap.ScoreHistory[0].FRSTotal)
	}
}
