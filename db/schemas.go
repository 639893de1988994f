package db

var schema = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

CREATE TABLE IF NOT EXISTS users (
	user_id UUID PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	role VARCHAR(16) NOT NULL DEFAULT 'member',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS wallets (
	wallet_id UUID PRIMARY KEY,
	user_id UUID NOT NULL UNIQUE REFERENCES users (user_id),
	amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
	currency CHAR(3) NOT NULL,
	suspended BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS wallet_ledger (
	entry_id UUID PRIMARY KEY,
	wallet_id UUID NOT NULL REFERENCES wallets (wallet_id),
	kind VARCHAR(32) NOT NULL,
	amount NUMERIC(12, 2) NOT NULL,
	currency CHAR(3) NOT NULL,
	reference_id VARCHAR(64) NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS kyc_applications (
	application_id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users (user_id),
	full_name VARCHAR(255) NOT NULL,
	document_number VARCHAR(64) NOT NULL,
	document_url VARCHAR(512) NOT NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'pending',
	reason VARCHAR(512) NOT NULL DEFAULT '',
	submitted_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	reviewed_at TIMESTAMPTZ,
	reviewed_by UUID
);

CREATE TABLE IF NOT EXISTS events (
	event_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	organizer_id UUID NOT NULL REFERENCES users (user_id),
	title VARCHAR(255) NOT NULL,
	venue VARCHAR(255) NOT NULL,
	start_time TIMESTAMPTZ NOT NULL,
	capacity INT NOT NULL,
	price_amount NUMERIC(12, 2) NOT NULL,
	price_currency CHAR(3) NOT NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'pending',
	reason VARCHAR(512) NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tickets (
	ticket_id UUID PRIMARY KEY,
	event_id UUID NOT NULL REFERENCES events (event_id),
	user_id UUID NOT NULL REFERENCES users (user_id),
	price_amount NUMERIC(12, 2) NOT NULL,
	price_currency CHAR(3) NOT NULL,
	fee_amount NUMERIC(12, 2) NOT NULL,
	fee_currency CHAR(3) NOT NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'confirmed',
	purchased_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS redeem_pools (
	pool_id UUID PRIMARY KEY,
	amount NUMERIC(12, 2) NOT NULL,
	currency CHAR(3) NOT NULL,
	quantity INT NOT NULL,
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS redeem_codes (
	code VARCHAR(32) PRIMARY KEY,
	pool_id UUID NOT NULL REFERENCES redeem_pools (pool_id),
	status VARCHAR(16) NOT NULL DEFAULT 'unused',
	used_by UUID,
	used_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS invoices (
	invoice_id UUID PRIMARY KEY,
	issuer_id UUID NOT NULL REFERENCES users (user_id),
	payer_id UUID NOT NULL REFERENCES users (user_id),
	amount NUMERIC(12, 2) NOT NULL,
	currency CHAR(3) NOT NULL,
	memo VARCHAR(512) NOT NULL DEFAULT '',
	status VARCHAR(16) NOT NULL DEFAULT 'issued',
	issued_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	paid_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS news_posts (
	post_id UUID PRIMARY KEY,
	author_id UUID NOT NULL REFERENCES users (user_id),
	title VARCHAR(255) NOT NULL,
	body TEXT NOT NULL,
	published BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	published_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS withdrawals (
	withdrawal_id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users (user_id),
	amount NUMERIC(12, 2) NOT NULL,
	currency CHAR(3) NOT NULL,
	fee_amount NUMERIC(12, 2) NOT NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'requested',
	requested_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	reviewed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS fee_ledger (
	fee_id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	source VARCHAR(16) NOT NULL,
	reference_id VARCHAR(64) NOT NULL,
	amount NUMERIC(12, 2) NOT NULL,
	currency CHAR(3) NOT NULL,
	collected_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS system_settings (
	id INT PRIMARY KEY CHECK (id = 1),
	p2p_fee_bps INT NOT NULL,
	ticket_fee_bps INT NOT NULL,
	invoice_fee_bps INT NOT NULL,
	withdrawal_fee_bps INT NOT NULL,
	min_withdrawal_amount NUMERIC(12, 2) NOT NULL,
	min_withdrawal_currency CHAR(3) NOT NULL
);

INSERT INTO system_settings (id, p2p_fee_bps, ticket_fee_bps, invoice_fee_bps, withdrawal_fee_bps, min_withdrawal_amount, min_withdrawal_currency)
VALUES (1, 150, 500, 250, 100, 10.00, 'USD')
ON CONFLICT (id) DO NOTHING;

CREATE TABLE IF NOT EXISTS read_model_ops_accounts (
	user_id UUID PRIMARY KEY,
	payload JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS event_log (
	event_id UUID PRIMARY KEY,
	published_at TIMESTAMPTZ NOT NULL,
	event_name VARCHAR(255) NOT NULL,
	event_payload JSONB NOT NULL
);
`
