package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"realestate-lead-orchestrator/internal/storage/postgres"
)

func main() {
	var direction string
	flag.StringVar(&direction, "direction", "up", "Migration direction: up or down")
	flag.Parse()

	client, err := postgres.NewClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	if direction == "up" {
		if err := runMigrations(client.DB); err != nil {
			fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations completed successfully")
	} else {
		fmt.Println("Down migrations not implemented in MVP")
	}
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		createUsersTable,
		createRulesTable,
		createBrandToneTable,
		createBehavioralProfilesTable,
		createEscalationGlobalTable,
		createEscalationLeadsTable,
		createComparableListingsTable,
		createAuditRecordsTable,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		fmt.Printf("Migration %d completed\n", i+1)
	}

	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL CHECK(role IN ('agent', 'admin')),
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_tenant_id ON users(tenant_id);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`

const createRulesTable = `
CREATE TABLE IF NOT EXISTS rules (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT,
	type TEXT NOT NULL,
	pattern TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('block', 'auto_correct', 'flag')),
	is_active BOOLEAN NOT NULL DEFAULT true,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_rules_tenant_id ON rules(tenant_id);
CREATE INDEX IF NOT EXISTS idx_rules_is_active ON rules(is_active);
`

const createBrandToneTable = `
CREATE TABLE IF NOT EXISTS brand_tone (
	tenant_id TEXT PRIMARY KEY,
	tone TEXT NOT NULL CHECK(tone IN ('Professional', 'Friendly', 'Sales-focused')),
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const createBehavioralProfilesTable = `
CREATE TABLE IF NOT EXISTS behavioral_profiles (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	lead_id TEXT NOT NULL,
	preferred_channel TEXT NOT NULL DEFAULT 'sms',
	median_response_seconds REAL NOT NULL DEFAULT 0,
	past_objections TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(tenant_id, lead_id)
);

CREATE INDEX IF NOT EXISTS idx_behavioral_profiles_lead_id ON behavioral_profiles(lead_id);
`

const createEscalationGlobalTable = `
CREATE TABLE IF NOT EXISTS escalation_global (
	tenant_id TEXT PRIMARY KEY,
	auto_send_enabled BOOLEAN NOT NULL DEFAULT false,
	confidence_threshold REAL NOT NULL DEFAULT 0.8,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const createEscalationLeadsTable = `
CREATE TABLE IF NOT EXISTS escalation_leads (
	lead_id TEXT PRIMARY KEY,
	auto_send_enabled BOOLEAN NOT NULL DEFAULT false,
	confidence_threshold REAL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const createComparableListingsTable = `
CREATE TABLE IF NOT EXISTS comparable_listings (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	address TEXT NOT NULL,
	neighborhood TEXT NOT NULL,
	sale_price REAL NOT NULL,
	sold_at TIMESTAMP NOT NULL,
	bedrooms INTEGER NOT NULL,
	square_feet INTEGER,
	notes TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_comparable_listings_neighborhood ON comparable_listings(tenant_id, neighborhood);
`

const createAuditRecordsTable = `
CREATE TABLE IF NOT EXISTS audit_records (
	id TEXT PRIMARY KEY,
	phone TEXT NOT NULL,
	event_type TEXT NOT NULL,
	success BOOLEAN NOT NULL,
	reason TEXT,
	content TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_audit_records_phone ON audit_records(phone);
`
