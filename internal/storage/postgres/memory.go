package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"realestate-lead-orchestrator/internal/models"
)

// MemoryStorage handles behavioral-profile database operations.
type MemoryStorage struct {
	client *Client
}

// NewMemoryStorage creates a new memory storage instance.
func NewMemoryStorage(client *Client) *MemoryStorage {
	return &MemoryStorage{client: client}
}

// CreateProfile creates a new behavioral profile record.
func (s *MemoryStorage) CreateProfile(tenantID string, profile *models.BehavioralProfile) error {
	pastObjectionsJSON, _ := json.Marshal(profile.PastObjections)

	query := `
		INSERT INTO behavioral_profiles (id, tenant_id, lead_id, preferred_channel, median_response_seconds, past_objections, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.client.DB.Exec(query,
		profile.ID, tenantID, profile.LeadID, string(profile.PreferredChannel),
		profile.MedianResponseSeconds, string(pastObjectionsJSON),
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create behavioral profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a behavioral profile by lead ID (tenant-scoped).
func (s *MemoryStorage) GetProfile(tenantID, leadID string) (*models.BehavioralProfile, error) {
	query := `
		SELECT id, tenant_id, lead_id, preferred_channel, median_response_seconds, past_objections, created_at, updated_at
		FROM behavioral_profiles
		WHERE lead_id = $1 AND tenant_id = $2
	`
	profile := &models.BehavioralProfile{}
	var tenant, preferredChannel, pastObjectionsJSON string

	err := s.client.DB.QueryRow(query, leadID, tenantID).Scan(
		&profile.ID, &tenant, &profile.LeadID, &preferredChannel,
		&profile.MedianResponseSeconds, &pastObjectionsJSON,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("behavioral profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get behavioral profile: %w", err)
	}
	profile.PreferredChannel = models.Channel(preferredChannel)
	if err := json.Unmarshal([]byte(pastObjectionsJSON), &profile.PastObjections); err != nil {
		profile.PastObjections = []string{}
	}
	return profile, nil
}

// UpsertProfile creates or updates a lead's behavioral profile (tenant-scoped).
func (s *MemoryStorage) UpsertProfile(tenantID string, profile *models.BehavioralProfile) error {
	pastObjectionsJSON, _ := json.Marshal(profile.PastObjections)

	if s.client.DBType == "sqlite" {
		query := `
			INSERT OR REPLACE INTO behavioral_profiles (id, tenant_id, lead_id, preferred_channel, median_response_seconds, past_objections, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := s.client.DB.Exec(query,
			profile.ID, tenantID, profile.LeadID, string(profile.PreferredChannel),
			profile.MedianResponseSeconds, string(pastObjectionsJSON),
			profile.CreatedAt, profile.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert behavioral profile: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO behavioral_profiles (id, tenant_id, lead_id, preferred_channel, median_response_seconds, past_objections, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT(tenant_id, lead_id) DO UPDATE SET
			preferred_channel = excluded.preferred_channel,
			median_response_seconds = excluded.median_response_seconds,
			past_objections = excluded.past_objections,
			updated_at = excluded.updated_at
	`
	_, err := s.client.DB.Exec(query,
		profile.ID, tenantID, profile.LeadID, string(profile.PreferredChannel),
		profile.MedianResponseSeconds, string(pastObjectionsJSON),
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert behavioral profile: %w", err)
	}
	return nil
}

// ListProfiles lists behavioral profiles for a tenant with pagination.
func (s *MemoryStorage) ListProfiles(tenantID string, limit, offset int) ([]*models.BehavioralProfile, error) {
	query := `
		SELECT id, tenant_id, lead_id, preferred_channel, median_response_seconds, past_objections, created_at, updated_at
		FROM behavioral_profiles
		WHERE tenant_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.client.DB.Query(query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list behavioral profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.BehavioralProfile
	for rows.Next() {
		profile := &models.BehavioralProfile{}
		var tenant, preferredChannel, pastObjectionsJSON string

		if err := rows.Scan(
			&profile.ID, &tenant, &profile.LeadID, &preferredChannel,
			&profile.MedianResponseSeconds, &pastObjectionsJSON,
			&profile.CreatedAt, &profile.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan behavioral profile: %w", err)
		}
		profile.PreferredChannel = models.Channel(preferredChannel)
		if err := json.Unmarshal([]byte(pastObjectionsJSON), &profile.PastObjections); err != nil {
			profile.PastObjections = []string{}
		}
		profiles = append(profiles, profile)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating behavioral profiles: %w", err)
	}
	return profiles, nil
}

// DeleteProfile deletes a lead's behavioral profile (tenant-scoped).
func (s *MemoryStorage) DeleteProfile(tenantID, leadID string) error {
	query := `DELETE FROM behavioral_profiles WHERE lead_id = $1 AND tenant_id = $2`
	result, err := s.client.DB.Exec(query, leadID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete behavioral profile: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("behavioral profile not found")
	}
	return nil
}
