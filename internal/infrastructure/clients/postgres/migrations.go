package postgres

import (
	"context"
	"fmt"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS hospitals (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
		longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
		distance_miles DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (distance_miles >= 0),
		estimated_wait_minutes INTEGER NOT NULL DEFAULT 0 CHECK (estimated_wait_minutes >= 0),
		beds_available INTEGER NOT NULL DEFAULT 0,
		icu_beds_available INTEGER NOT NULL DEFAULT 0,
		operating_rooms_available INTEGER NOT NULL DEFAULT 0,
		specialties TEXT[] NOT NULL DEFAULT '{}',
		has_helicopter_pad BOOLEAN NOT NULL DEFAULT FALSE,
		position SERIAL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		specialty TEXT NOT NULL,
		hospital_id TEXT NOT NULL REFERENCES hospitals(id),
		success_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		experience_years INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'patient',
		phone TEXT NOT NULL DEFAULT '',
		date_of_birth TIMESTAMPTZ,
		gender TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS patient_profiles (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		medical_history TEXT[] NOT NULL DEFAULT '{}',
		allergies TEXT[] NOT NULL DEFAULT '{}',
		current_medications JSONB NOT NULL DEFAULT '[]',
		blood_type TEXT NOT NULL DEFAULT '',
		emergency_contact JSONB NOT NULL DEFAULT '{}',
		insurance_provider TEXT NOT NULL DEFAULT '',
		insurance_number TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id UUID PRIMARY KEY,
		patient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		doctor_id TEXT NOT NULL,
		hospital_id TEXT NOT NULL REFERENCES hospitals(id),
		appointment_date TIMESTAMPTZ NOT NULL,
		time_slot TEXT NOT NULL,
		reason_for_visit TEXT NOT NULL,
		symptoms TEXT[] NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'scheduled',
		notes TEXT NOT NULL DEFAULT '',
		consultation_mode TEXT NOT NULL DEFAULT 'in-person',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_patient_date ON appointments (patient_id, appointment_date DESC)`,
	`CREATE TABLE IF NOT EXISTS history_entries (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		action TEXT NOT NULL,
		details TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_user_created ON history_entries (user_id, created_at DESC)`,
}

// Migrate creates every table the service needs
func (c *Client) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	return nil
}

// Truncate empties all tables, children first
func (c *Client) Truncate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `TRUNCATE history_entries, appointments, patient_profiles, users, doctors, hospitals RESTART IDENTITY CASCADE`)
	return err
}
