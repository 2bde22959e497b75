// Package session implements the Session Store (§4.4): an in-memory,
// TTL-evicted registry keyed by leadID, with per-session mutual exclusion
// so exactly one handler mutates a session at a time.
package session

import (
	"sync"
	"time"

	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/models"
)

// EvictionNotifier is called with the leadID of every session the store
// evicts, so the caller can emit a session-evicted event. It must not
// block.
type EvictionNotifier func(leadID string)

type slot struct {
	mu      sync.Mutex
	session *models.Session
}

// Store is the Session Store. The zero value is not usable; construct
// with New.
type Store struct {
	ttl      time.Duration
	onEvict  EvictionNotifier
	now      func() time.Time
	registryMu sync.RWMutex
	registry map[string]*slot
}

// Seed supplies the initial values for a session created by GetOrCreate.
type Seed struct {
	LeadName string
	LeadKind models.LeadKind
	Phone    string
}

// New builds a Store with the given TTL and eviction notifier. onEvict
// may be nil.
func New(cfg config.Config, onEvict EvictionNotifier) *Store {
	if onEvict == nil {
		onEvict = func(string) {}
	}
	return &Store{
		ttl:      cfg.SessionTTL,
		onEvict:  onEvict,
		now:      time.Now,
		registry: make(map[string]*slot),
	}
}

func (s *Store) slotFor(leadID string) *slot {
	s.registryMu.RLock()
	sl, ok := s.registry[leadID]
	s.registryMu.RUnlock()
	if ok {
		return sl
	}

	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	if sl, ok := s.registry[leadID]; ok {
		return sl
	}
	sl = &slot{}
	s.registry[leadID] = sl
	return sl
}

// GetOrCreate implements getOrCreate(leadID, seed) → Session (§4.4).
// Idempotent: a second call with the same leadID returns the existing
// session untouched by seed.
func (s *Store) GetOrCreate(leadID string, seed Seed) *models.Session {
	sl := s.slotFor(leadID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	now := s.now()
	if sl.session != nil {
		if s.expired(sl.session, now) {
			s.evictLocked(leadID, sl)
		} else {
			return sl.session
		}
	}

	sl.session = &models.Session{
		LeadID:         leadID,
		LeadName:       seed.LeadName,
		LeadKind:       seed.LeadKind,
		Phone:          seed.Phone,
		CurrentBotKind: "",
		CreatedAt:      now,
		LastInboundAt:  now,
	}
	return sl.session
}

// Update implements update(leadID, fn) (§4.4): applies a mutator under
// the per-session lock. Returns false if the session does not exist or
// has expired (and has just been evicted).
func (s *Store) Update(leadID string, fn func(*models.Session)) bool {
	sl := s.slotFor(leadID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.session == nil {
		return false
	}
	if s.expired(sl.session, s.now()) {
		s.evictLocked(leadID, sl)
		return false
	}
	fn(sl.session)
	return true
}

// Snapshot implements snapshot(leadID) → SessionSnapshot (§4.4): a cheap
// clone of metadata plus the append-only history.
func (s *Store) Snapshot(leadID string) (*models.Session, bool) {
	sl := s.slotFor(leadID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.session == nil {
		return nil, false
	}
	if s.expired(sl.session, s.now()) {
		s.evictLocked(leadID, sl)
		return nil, false
	}
	return sl.session.Clone(), true
}

func (s *Store) expired(sess *models.Session, now time.Time) bool {
	last := sess.LastInboundAt
	if sess.LastOutboundAt.After(last) {
		last = sess.LastOutboundAt
	}
	return now.Sub(last) > s.ttl
}

// evictLocked removes the session and fires onEvict. Caller must hold
// sl.mu.
func (s *Store) evictLocked(leadID string, sl *slot) {
	sl.session = nil
	s.onEvict(leadID)
}

// Sweep walks every session and evicts those past TTL. Intended to be run
// periodically in the background as a backstop to per-operation eviction
// (§4.4: "a background sweeper may also evict").
func (s *Store) Sweep() int {
	s.registryMu.RLock()
	leadIDs := make([]string, 0, len(s.registry))
	for id := range s.registry {
		leadIDs = append(leadIDs, id)
	}
	s.registryMu.RUnlock()

	evicted := 0
	now := s.now()
	for _, leadID := range leadIDs {
		sl := s.slotFor(leadID)
		sl.mu.Lock()
		if sl.session != nil && s.expired(sl.session, now) {
			s.evictLocked(leadID, sl)
			evicted++
		}
		sl.mu.Unlock()
	}
	return evicted
}
