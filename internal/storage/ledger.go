package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Ledger records which repositories a collection run has already
// processed, accepted or not, so an interrupted run can resume without
// refetching them.
type Ledger struct {
	db *sql.DB
}

// OpenLedger creates or opens the ledger database.
func OpenLedger(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	l := &Ledger{db: db}
	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return l, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) initSchema() error {
	_, err := l.db.Exec(`CREATE TABLE IF NOT EXISTS processed_repos (
		full_name    TEXT PRIMARY KEY,
		accepted     INTEGER NOT NULL,
		processed_at TEXT NOT NULL
	)`)
	return err
}

// Seen reports whether a repository was already processed by a previous
// (or the current) run.
func (l *Ledger) Seen(ctx context.Context, fullName string) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx,
		`SELECT 1 FROM processed_repos WHERE full_name = ?`, fullName).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkProcessed records the outcome for a repository.
func (l *Ledger) MarkProcessed(ctx context.Context, fullName string, accepted bool) error {
	acceptedInt := 0
	if accepted {
		acceptedInt = 1
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO processed_repos (full_name, accepted, processed_at) VALUES (?, ?, ?)`,
		fullName, acceptedInt, time.Now().UTC().Format(time.RFC3339))
	return err
}

// AcceptedCount returns how many processed repositories were accepted.
func (l *Ledger) AcceptedCount(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM processed_repos WHERE accepted = 1`).Scan(&n)
	return n, err
}
