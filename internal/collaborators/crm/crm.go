// Package crm defines the CRM collaborator contract (§6) and a
// lightweight stub implementation for environments with no CRM wired.
package crm

import (
	"context"
	"fmt"
	"sync"

	"realestate-lead-orchestrator/internal/models"
)

// SendResult is sendMessage's return value.
type SendResult struct {
	Success          bool
	ProviderMessageID string
	ErrorKind        string
}

// Contact is the shape returned by the lead-sourcing queries.
type Contact struct {
	ID    string
	Phone string
	Email string
	Name  string
	Stage string
}

// Client is the CRM collaborator interface (§6). All methods accept a
// context so the orchestrator can bound the call with crmDeadline.
type Client interface {
	SendMessage(ctx context.Context, target string, content string, channel models.Channel) (SendResult, error)
	AddTags(ctx context.Context, contactID string, tags []string) error
	GetContactsByPipelineStage(ctx context.Context, locationID, stageID string, limit int) ([]Contact, error)
	GetContactsInactiveSince(ctx context.Context, locationID string, sinceUnix int64, limit int) ([]Contact, error)
	UpdateContact(ctx context.Context, contactID string, fields map[string]interface{}) error
}

// StubClient is an in-memory CRM double: it records every call it
// receives and always succeeds. It exists so the orchestrator and
// workflows have something concrete to exercise before a real CRM
// integration is wired, and so tests can assert on what was sent without
// a network dependency.
type StubClient struct {
	mu       sync.Mutex
	Sent     []SentMessage
	Tagged   map[string][]string
	Updated  map[string]map[string]interface{}
	Contacts []Contact
}

// SentMessage is one recorded SendMessage call.
type SentMessage struct {
	Target  string
	Content string
	Channel models.Channel
}

// NewStubClient builds a StubClient ready for use.
func NewStubClient() *StubClient {
	return &StubClient{
		Tagged:  make(map[string][]string),
		Updated: make(map[string]map[string]interface{}),
	}
}

// SendMessage implements Client.
func (c *StubClient) SendMessage(_ context.Context, target, content string, channel models.Channel) (SendResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sent = append(c.Sent, SentMessage{Target: target, Content: content, Channel: channel})
	return SendResult{Success: true, ProviderMessageID: fmt.Sprintf("stub-%d", len(c.Sent))}, nil
}

// AddTags implements Client.
func (c *StubClient) AddTags(_ context.Context, contactID string, tags []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Tagged[contactID] = append(c.Tagged[contactID], tags...)
	return nil
}

// GetContactsByPipelineStage implements Client.
func (c *StubClient) GetContactsByPipelineStage(_ context.Context, _, stageID string, limit int) ([]Contact, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Contact
	for _, ct := range c.Contacts {
		if ct.Stage == stageID {
			out = append(out, ct)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// GetContactsInactiveSince implements Client. The stub has no notion of
// activity timestamps, so it returns the full contact list capped at
// limit; a real CRM integration filters by last-activity.
func (c *StubClient) GetContactsInactiveSince(_ context.Context, _ string, _ int64, limit int) ([]Contact, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if limit > len(c.Contacts) {
		limit = len(c.Contacts)
	}
	return append([]Contact(nil), c.Contacts[:limit]...), nil
}

// UpdateContact implements Client.
func (c *StubClient) UpdateContact(_ context.Context, contactID string, fields map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Updated[contactID] == nil {
		c.Updated[contactID] = make(map[string]interface{})
	}
	for k, v := range fields {
		c.Updated[contactID][k] = v
	}
	return nil
}
