package store

import "database/sql"

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS bids (
  id TEXT PRIMARY KEY,
  user_email TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  link TEXT NOT NULL DEFAULT '',
  amount REAL NOT NULL DEFAULT 0,
  period INTEGER NOT NULL DEFAULT 0,
  bid_text TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'stored',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_bids_user_created
ON bids(user_email, created_at DESC);
`); err != nil {
		return err
	}

	// Duplicate probe: one user should bid on a project link at most once.
	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_bids_user_link
ON bids(user_email, link);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
