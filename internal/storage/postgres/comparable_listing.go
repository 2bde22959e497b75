package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"realestate-lead-orchestrator/internal/models"
)

// ComparableListingStorage handles comparable-sale database operations. It
// backs the CMA collaborator's Store interface, adapted from the teacher's
// product catalog storage: same tenant-scoped CRUD shape, repointed from
// product SKUs to sold comparables.
type ComparableListingStorage struct {
	client *Client
}

// NewComparableListingStorage creates a new comparable-listing storage instance.
func NewComparableListingStorage(client *Client) *ComparableListingStorage {
	return &ComparableListingStorage{client: client}
}

// CreateListing creates a new comparable listing.
func (s *ComparableListingStorage) CreateListing(tenantID string, listing *models.ComparableListing) error {
	query := `
		INSERT INTO comparable_listings (id, tenant_id, address, neighborhood, sale_price, sold_at, bedrooms, square_feet, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.client.DB.Exec(query,
		listing.ID, tenantID, listing.Address, listing.Neighborhood, listing.SalePrice,
		listing.SoldAt, listing.Bedrooms, listing.SquareFeet, listing.Notes,
		listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comparable listing: %w", err)
	}
	return nil
}

// GetListing retrieves a comparable listing by ID (tenant-scoped).
func (s *ComparableListingStorage) GetListing(tenantID, listingID string) (*models.ComparableListing, error) {
	query := `
		SELECT id, tenant_id, address, neighborhood, sale_price, sold_at, bedrooms, square_feet, notes, created_at, updated_at
		FROM comparable_listings
		WHERE id = $1 AND tenant_id = $2
	`
	listing := &models.ComparableListing{}
	err := s.client.DB.QueryRow(query, listingID, tenantID).Scan(
		&listing.ID, &listing.TenantID, &listing.Address, &listing.Neighborhood, &listing.SalePrice,
		&listing.SoldAt, &listing.Bedrooms, &listing.SquareFeet, &listing.Notes,
		&listing.CreatedAt, &listing.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("comparable listing not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comparable listing: %w", err)
	}
	return listing, nil
}

// ListByNeighborhood implements the CMA collaborator's Store interface: the
// most recently sold comparables in a neighborhood, most recent first.
func (s *ComparableListingStorage) ListByNeighborhood(ctx context.Context, neighborhood string, limit int) ([]models.ComparableListing, error) {
	query := `
		SELECT id, tenant_id, address, neighborhood, sale_price, sold_at, bedrooms, square_feet, notes, created_at, updated_at
		FROM comparable_listings
		WHERE neighborhood = $1
		ORDER BY sold_at DESC
		LIMIT $2
	`
	rows, err := s.client.DB.QueryContext(ctx, query, neighborhood, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comparable listings: %w", err)
	}
	defer rows.Close()

	var listings []models.ComparableListing
	for rows.Next() {
		var listing models.ComparableListing
		if err := rows.Scan(
			&listing.ID, &listing.TenantID, &listing.Address, &listing.Neighborhood, &listing.SalePrice,
			&listing.SoldAt, &listing.Bedrooms, &listing.SquareFeet, &listing.Notes,
			&listing.CreatedAt, &listing.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comparable listing: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comparable listings: %w", err)
	}
	return listings, nil
}

// UpdateListing updates a comparable listing (tenant-scoped).
func (s *ComparableListingStorage) UpdateListing(tenantID string, listing *models.ComparableListing) error {
	query := `
		UPDATE comparable_listings
		SET address = $1, neighborhood = $2, sale_price = $3, sold_at = $4, bedrooms = $5, square_feet = $6, notes = $7, updated_at = $8
		WHERE id = $9 AND tenant_id = $10
	`
	result, err := s.client.DB.Exec(query,
		listing.Address, listing.Neighborhood, listing.SalePrice, listing.SoldAt,
		listing.Bedrooms, listing.SquareFeet, listing.Notes, listing.UpdatedAt,
		listing.ID, tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comparable listing: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("comparable listing not found")
	}
	return nil
}

// DeleteListing deletes a comparable listing (tenant-scoped).
func (s *ComparableListingStorage) DeleteListing(tenantID, listingID string) error {
	query := `DELETE FROM comparable_listings WHERE id = $1 AND tenant_id = $2`
	result, err := s.client.DB.Exec(query, listingID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete comparable listing: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("comparable listing not found")
	}
	return nil
}
