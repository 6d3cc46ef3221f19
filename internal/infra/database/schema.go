package database

import (
	"context"
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'ACTIVE',
	manager_id UUID REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS password_resets (
	token UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	expires_at TIMESTAMPTZ NOT NULL,
	used_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS companies (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	website TEXT NOT NULL DEFAULT '',
	industry TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	owner_id UUID NOT NULL REFERENCES users(id),
	deleted_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
	id UUID PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	position TEXT NOT NULL DEFAULT '',
	company_id UUID REFERENCES companies(id),
	owner_id UUID NOT NULL REFERENCES users(id),
	deleted_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	value BIGINT NOT NULL DEFAULT 0,
	currency TEXT NOT NULL DEFAULT 'IDR',
	stage TEXT NOT NULL DEFAULT 'Lead In',
	status TEXT NOT NULL DEFAULT 'ACTIVE',
	owner_id UUID NOT NULL REFERENCES users(id),
	contact_id UUID REFERENCES contacts(id),
	company_id UUID REFERENCES companies(id),
	source TEXT NOT NULL DEFAULT '',
	deleted_at TIMESTAMPTZ,
	closed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_owner ON leads(owner_id) WHERE deleted_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_leads_stage ON leads(stage) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS labels (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	color TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS lead_labels (
	lead_id UUID NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
	label_id UUID NOT NULL REFERENCES labels(id) ON DELETE CASCADE,
	PRIMARY KEY (lead_id, label_id)
);

CREATE TABLE IF NOT EXISTS activities (
	id UUID PRIMARY KEY,
	kind TEXT NOT NULL,
	title TEXT NOT NULL,
	start_time TIMESTAMPTZ NOT NULL,
	reminder_minutes_before INT NOT NULL DEFAULT 0,
	reminder_sent BOOLEAN NOT NULL DEFAULT FALSE,
	owner_id UUID NOT NULL REFERENCES users(id),
	lead_id UUID REFERENCES leads(id),
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activities_reminder ON activities(start_time) WHERE reminder_sent = FALSE;

CREATE TABLE IF NOT EXISTS emails (
	id UUID PRIMARY KEY,
	owner_id UUID NOT NULL REFERENCES users(id),
	lead_id UUID REFERENCES leads(id),
	recipient TEXT NOT NULL,
	subject TEXT NOT NULL,
	body TEXT NOT NULL,
	sent_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	lead_id UUID,
	message TEXT NOT NULL,
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, is_read);

CREATE TABLE IF NOT EXISTS invoices (
	id UUID PRIMARY KEY,
	number TEXT NOT NULL UNIQUE,
	lead_id UUID REFERENCES leads(id),
	customer_name TEXT NOT NULL,
	customer_email TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'DRAFT',
	currency TEXT NOT NULL DEFAULT 'IDR',
	total BIGINT NOT NULL DEFAULT 0,
	owner_id UUID NOT NULL REFERENCES users(id),
	issued_at TIMESTAMPTZ NOT NULL,
	due_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS invoice_items (
	id UUID PRIMARY KEY,
	invoice_id UUID NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
	description TEXT NOT NULL,
	quantity BIGINT NOT NULL,
	unit_price BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id UUID PRIMARY KEY,
	actor_id UUID NOT NULL,
	action TEXT NOT NULL,
	entity TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
`

// Migrate applies the schema. Statements are idempotent so a restart is
// always safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
