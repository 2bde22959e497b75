// Package events implements the fire-and-forget orchestration event
// stream (§3, §4.6 step 9). Publish never fails the inbound path: a
// panicking sink is recovered and logged. Sinks run synchronously, so a
// slow sink delays the caller.
package events

import (
	"log"
	"sync"
	"time"

	"realestate-lead-orchestrator/internal/models"
)

// Sink receives published events. Implementations must not block for
// long: Emitter calls sinks synchronously, one after another, while holding
// its mutex, so a slow sink delays every Publish. A sink that panics is
// recovered and logged (callers own any internal buffering).
type Sink func(models.Event)

// Emitter publishes events for a lead in the order Publish is called for
// that lead. Ordering across leads is not guaranteed. A single mutex
// serialises dispatch, which is enough at this system's scale (§5) and
// keeps per-lead ordering trivially correct.
type Emitter struct {
	mu    sync.Mutex
	sinks []Sink
}

// New builds an Emitter with the given sinks. A nil or empty sink list is
// valid; Publish becomes a no-op.
func New(sinks ...Sink) *Emitter {
	return &Emitter{sinks: sinks}
}

// Publish emits kind for leadID with payload, best-effort. It never
// returns an error: a sink failure is logged, not propagated.
func (e *Emitter) Publish(kind models.EventKind, leadID string, payload map[string]interface{}) {
	evt := models.Event{Kind: kind, LeadID: leadID, Timestamp: time.Now(), Payload: payload}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, sink := range e.sinks {
		safeDispatch(sink, evt)
	}
}

func safeDispatch(sink Sink, evt models.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EVENTS] sink panicked for lead %s kind %s: %v", evt.LeadID, evt.Kind, r)
		}
	}()
	sink(evt)
}

// LogSink is a Sink that writes events via the standard logger, matching
// this codebase's bracketed-tag logging convention.
func LogSink(evt models.Event) {
	log.Printf("[EVENT] lead=%s kind=%s payload=%v", evt.LeadID, evt.Kind, evt.Payload)
}
