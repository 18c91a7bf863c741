package sqlite

import "database/sql"

// Split records are immutable documents addressed by fingerprint, so the
// nested receipt, assignments, and result are stored as JSON columns and the
// fields used for listing or filtering get their own columns.
const schema = `
CREATE TABLE IF NOT EXISTS splits (
    id TEXT PRIMARY KEY,
    receipt_json TEXT,
    people_json TEXT NOT NULL,
    assignments_json TEXT NOT NULL,
    split_evenly INTEGER NOT NULL,
    discount REAL NOT NULL,
    tax REAL NOT NULL,
    tip REAL NOT NULL,
    result_json TEXT NOT NULL,
    image_ref TEXT NOT NULL DEFAULT '',
    share_link TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    payment_json TEXT,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_splits_created_at ON splits(created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
