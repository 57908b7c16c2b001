package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaDDL creates the engine's tables. Statements are idempotent so
// the bootstrap can run on every seed invocation.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS wallets (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL UNIQUE REFERENCES users(id),
		balance NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS bus_schedules (
		id BIGSERIAL PRIMARY KEY,
		bus_number TEXT NOT NULL,
		bus_type TEXT NOT NULL,
		seat_layout TEXT NOT NULL,
		operator_name TEXT NOT NULL,
		from_city TEXT NOT NULL,
		to_city TEXT NOT NULL,
		travel_date DATE NOT NULL,
		departure_time TEXT NOT NULL,
		arrival_time TEXT NOT NULL,
		base_price NUMERIC(12,2) NOT NULL,
		total_seats INT NOT NULL,
		available_seats INT NOT NULL CHECK (available_seats >= 0),
		status TEXT NOT NULL DEFAULT 'scheduled',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schedules_route_date
		ON bus_schedules (from_city, to_city, travel_date)`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		booking_code TEXT NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id),
		schedule_id BIGINT NOT NULL REFERENCES bus_schedules(id),
		total_amount NUMERIC(12,2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'confirmed',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		cancelled_at TIMESTAMPTZ,
		CONSTRAINT bookings_booking_code_key UNIQUE (booking_code)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings (user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS booking_passengers (
		id BIGSERIAL PRIMARY KEY,
		booking_id BIGINT NOT NULL REFERENCES bookings(id),
		seat_id BIGINT NOT NULL,
		seat_number TEXT NOT NULL,
		name TEXT NOT NULL,
		age INT NOT NULL,
		gender TEXT NOT NULL,
		UNIQUE (booking_id, seat_number)
	)`,

	`CREATE TABLE IF NOT EXISTS seats (
		id BIGSERIAL PRIMARY KEY,
		schedule_id BIGINT NOT NULL REFERENCES bus_schedules(id),
		seat_number TEXT NOT NULL,
		seat_type TEXT NOT NULL,
		price NUMERIC(12,2) NOT NULL,
		row_number INT NOT NULL,
		column_number INT NOT NULL,
		deck TEXT NOT NULL,
		side TEXT NOT NULL,
		is_window BOOLEAN NOT NULL DEFAULT FALSE,
		is_ladies_only BOOLEAN NOT NULL DEFAULT FALSE,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		booking_passenger_id BIGINT REFERENCES booking_passengers(id),
		UNIQUE (schedule_id, seat_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_seats_schedule ON seats (schedule_id)`,

	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id BIGSERIAL PRIMARY KEY,
		wallet_id BIGINT NOT NULL REFERENCES wallets(id),
		type TEXT NOT NULL CHECK (type IN ('credit', 'debit')),
		amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
		description TEXT NOT NULL DEFAULT '',
		booking_id BIGINT REFERENCES bookings(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_wallet_tx_wallet
		ON wallet_transactions (wallet_id, created_at DESC)`,
}

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(db *sqlx.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
