package postgres

import (
	"database/sql"
	"fmt"

	"realestate-lead-orchestrator/internal/models"
)

// EscalationConfigStorage handles escalation-gate configuration database
// operations: the tenant-wide default for whether a workflow's drafted
// OutboundPlan auto-sends or waits for a human agent, plus per-lead
// overrides.
type EscalationConfigStorage struct {
	client *Client
}

// NewEscalationConfigStorage creates a new escalation config storage instance.
func NewEscalationConfigStorage(client *Client) *EscalationConfigStorage {
	return &EscalationConfigStorage{client: client}
}

// GetGlobalConfig retrieves global escalation configuration for a tenant.
func (s *EscalationConfigStorage) GetGlobalConfig(tenantID string) (*models.EscalationGlobalConfig, error) {
	query := `
		SELECT tenant_id, auto_send_enabled, confidence_threshold, updated_at
		FROM escalation_global
		WHERE tenant_id = $1
	`
	config := &models.EscalationGlobalConfig{}
	err := s.client.DB.QueryRow(query, tenantID).Scan(
		&config.TenantID, &config.AutoSendEnabled, &config.ConfidenceThreshold, &config.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return &models.EscalationGlobalConfig{
			TenantID:            tenantID,
			AutoSendEnabled:     false,
			ConfidenceThreshold: 0.8,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get global escalation config: %w", err)
	}
	return config, nil
}

// UpdateGlobalConfig updates or creates global escalation configuration.
func (s *EscalationConfigStorage) UpdateGlobalConfig(config *models.EscalationGlobalConfig) error {
	if s.client.DBType == "sqlite" {
		query := `
			INSERT OR REPLACE INTO escalation_global (tenant_id, auto_send_enabled, confidence_threshold, updated_at)
			VALUES ($1, $2, $3, $4)
		`
		_, err := s.client.DB.Exec(query, config.TenantID, config.AutoSendEnabled, config.ConfidenceThreshold, config.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update global escalation config: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO escalation_global (tenant_id, auto_send_enabled, confidence_threshold, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT(tenant_id) DO UPDATE SET
			auto_send_enabled = excluded.auto_send_enabled,
			confidence_threshold = excluded.confidence_threshold,
			updated_at = excluded.updated_at
	`
	_, err := s.client.DB.Exec(query, config.TenantID, config.AutoSendEnabled, config.ConfidenceThreshold, config.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update global escalation config: %w", err)
	}
	return nil
}

// GetLeadConfig retrieves a per-lead escalation override.
func (s *EscalationConfigStorage) GetLeadConfig(leadID string) (*models.EscalationLeadConfig, error) {
	query := `
		SELECT lead_id, auto_send_enabled, confidence_threshold, updated_at
		FROM escalation_leads
		WHERE lead_id = $1
	`
	config := &models.EscalationLeadConfig{}
	var confidenceThreshold sql.NullFloat64
	err := s.client.DB.QueryRow(query, leadID).Scan(
		&config.LeadID, &config.AutoSendEnabled, &confidenceThreshold, &config.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lead escalation config not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead escalation config: %w", err)
	}
	if confidenceThreshold.Valid {
		config.ConfidenceThreshold = &confidenceThreshold.Float64
	}
	return config, nil
}

// UpdateLeadConfig updates or creates a per-lead escalation override.
func (s *EscalationConfigStorage) UpdateLeadConfig(config *models.EscalationLeadConfig) error {
	var confidenceThreshold interface{}
	if config.ConfidenceThreshold != nil {
		confidenceThreshold = *config.ConfidenceThreshold
	}

	if s.client.DBType == "sqlite" {
		query := `
			INSERT OR REPLACE INTO escalation_leads (lead_id, auto_send_enabled, confidence_threshold, updated_at)
			VALUES ($1, $2, $3, $4)
		`
		_, err := s.client.DB.Exec(query, config.LeadID, config.AutoSendEnabled, confidenceThreshold, config.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update lead escalation config: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO escalation_leads (lead_id, auto_send_enabled, confidence_threshold, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT(lead_id) DO UPDATE SET
			auto_send_enabled = excluded.auto_send_enabled,
			confidence_threshold = excluded.confidence_threshold,
			updated_at = excluded.updated_at
	`
	_, err := s.client.DB.Exec(query, config.LeadID, config.AutoSendEnabled, confidenceThreshold, config.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update lead escalation config: %w", err)
	}
	return nil
}
