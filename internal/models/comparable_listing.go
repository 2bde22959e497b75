package models

import "time"

// ComparableListing is a sold/listed property used by the CMA collaborator
// to ground a Comparative Market Analysis. Adapted from the teacher's
// Product catalog model: same "domain knowledge the LLM can cite" shape,
// repointed from product SKUs to comparable sales.
type ComparableListing struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	Address       string    `json:"address"`
	Neighborhood  string    `json:"neighborhood"`
	SalePrice     float64   `json:"sale_price"`
	SoldAt        time.Time `json:"sold_at"`
	Bedrooms      int       `json:"bedrooms"`
	SquareFeet    int       `json:"square_feet"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
