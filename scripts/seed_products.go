package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"realestate-lead-orchestrator/internal/models"
	"realestate-lead-orchestrator/internal/storage/postgres"
)

// main loads a handful of recent sales per neighborhood
// so the CMA collaborator has something to retrieve from on a fresh
// deployment.
func main() {
	dbClient, err := postgres.NewClient()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbClient.Close()

	listingStorage := postgres.NewComparableListingStorage(dbClient)

	tenantID := "OMX26"
	now := time.Now()

	listings := []*models.ComparableListing{
		{ID: uuid.New().String(), TenantID: tenantID, Address: "412 Maple St", Neighborhood: "Riverside", SalePrice: 415000, SoldAt: now.AddDate(0, -1, 0), Bedrooms: 3, SquareFeet: 1650, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), TenantID: tenantID, Address: "88 Birchwood Ln", Neighborhood: "Riverside", SalePrice: 438000, SoldAt: now.AddDate(0, -2, 0), Bedrooms: 3, SquareFeet: 1720, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), TenantID: tenantID, Address: "2210 Oak Park Dr", Neighborhood: "Oak Park", SalePrice: 512000, SoldAt: now.AddDate(0, -1, -15), Bedrooms: 4, SquareFeet: 2100, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), TenantID: tenantID, Address: "77 Summit Ave", Neighborhood: "Summit Hills", SalePrice: 615000, SoldAt: now.AddDate(0, -3, 0), Bedrooms: 4, SquareFeet: 2400, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), TenantID: tenantID, Address: "15 Lakeview Ct", Neighborhood: "Summit Hills", SalePrice: 598000, SoldAt: now.AddDate(0, -2, -10), Bedrooms: 3, SquareFeet: 2250, CreatedAt: now, UpdatedAt: now},
	}

	for _, listing := range listings {
		if err := listingStorage.CreateListing(tenantID, listing); err != nil {
			log.Printf("Failed to create comparable listing %s: %v", listing.Address, err)
			continue
		}
		log.Printf("Seeded comparable listing: %s (%s)", listing.Address, listing.Neighborhood)
	}

	fmt.Println("Comparable listing seeding completed!")
}
