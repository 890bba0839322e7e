// Package ledger implements the durable dedup ledger for watering
// reminders. A marker row means "a needs-water transition for this exact
// scheduled instant was already raised on this device"; its presence is the
// sole defense against the live poller and the catch-up pass double-firing
// the same occurrence across process restarts.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Ledger is a SQLite-backed marker store. Markers are append-only; the only
// mutation besides insert is the age-based purge.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at the given path and
// ensures the schema exists. WAL mode keeps reads from blocking the
// reconciler's writes.
func Open(path string) (*Ledger, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open ledger database: %w", err)
	}
	if _, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS markers (
            plant_id    TEXT NOT NULL,
            time_of_day TEXT NOT NULL,
            day         TEXT NOT NULL,
            created_at  INTEGER NOT NULL,
            PRIMARY KEY (plant_id, time_of_day, day)
        )
    `); err != nil {
		db.Close()
		return nil, fmt.Errorf("error: failed to create markers table: %w", err)
	}
	return &Ledger{db: db}, nil
}

// IsHandled reports whether a marker exists for the given occurrence.
func (l *Ledger) IsHandled(ctx context.Context, plantID string, tod, day string) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx, `
        SELECT 1 FROM markers
        WHERE plant_id = ? AND time_of_day = ? AND day = ?
    `, plantID, tod, day).Scan(&one)
	switch err {
	case nil:
		return true, nil
	case sql.ErrNoRows:
		return false, nil
	default:
		return false, fmt.Errorf("error: failed to query marker: %w", err)
	}
}

// MarkHandled records a marker for the given occurrence. Marking the same
// occurrence twice has no additional effect.
func (l *Ledger) MarkHandled(ctx context.Context, plantID string, tod, day string) error {
	_, err := l.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO markers (plant_id, time_of_day, day, created_at)
        VALUES (?, ?, ?, ?)
    `, plantID, tod, day, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("error: failed to insert marker: %w", err)
	}
	return nil
}

// PurgeOlderThan removes markers for calendar days strictly before day,
// returning the number of rows removed. Day keys sort lexically, so a plain
// string comparison is a date comparison. Only today and yesterday are ever
// queried; anything older is dead weight.
func (l *Ledger) PurgeOlderThan(ctx context.Context, day string) (int64, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM markers WHERE day < ?`, day)
	if err != nil {
		return 0, fmt.Errorf("error: failed to purge markers: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}
