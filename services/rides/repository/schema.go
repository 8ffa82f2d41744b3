package repository

// Schema creates the ride request and chat tables. The partial unique index
// backs the single active request per passenger rule.
const Schema = `
CREATE TABLE IF NOT EXISTS ride_requests (
	id                  TEXT PRIMARY KEY,
	passenger_id        TEXT NOT NULL,
	driver_id           TEXT,
	origin_address      TEXT NOT NULL DEFAULT '',
	origin_lat          DOUBLE PRECISION,
	origin_lng          DOUBLE PRECISION,
	destination_address TEXT NOT NULL DEFAULT '',
	destination_lat     DOUBLE PRECISION,
	destination_lng     DOUBLE PRECISION,
	status              TEXT NOT NULL,
	proposed_price      BIGINT,
	accepted_price      BIGINT,
	payment_method      TEXT,
	cancelled_by        TEXT,
	version             BIGINT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL,
	write_id            TEXT NOT NULL DEFAULT ''
);

ALTER TABLE ride_requests ADD COLUMN IF NOT EXISTS write_id TEXT NOT NULL DEFAULT '';

CREATE UNIQUE INDEX IF NOT EXISTS ride_requests_active_passenger_idx
	ON ride_requests (passenger_id)
	WHERE status IN ('waitingPrice', 'priceProposed', 'accepted', 'inProgress');

CREATE INDEX IF NOT EXISTS ride_requests_driver_status_idx ON ride_requests (driver_id, status);
CREATE INDEX IF NOT EXISTS ride_requests_status_updated_idx ON ride_requests (status, updated_at);

CREATE TABLE IF NOT EXISTS ride_messages (
	id          TEXT PRIMARY KEY,
	ride_id     TEXT NOT NULL REFERENCES ride_requests (id),
	sender_id   TEXT NOT NULL,
	sender_role TEXT NOT NULL,
	receiver_id TEXT NOT NULL,
	content     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS ride_messages_ride_created_idx ON ride_messages (ride_id, created_at);
`
