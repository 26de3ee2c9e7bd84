package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists fetch and render metadata to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex

	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetch_log (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			source      TEXT,
			tickers     TEXT,
			years       INTEGER,
			start_date  TEXT,
			end_date    TEXT,
			returned    INTEGER,
			points      INTEGER,
			duration_ms INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_ts ON fetch_log(timestamp)`,

		`CREATE TABLE IF NOT EXISTS render_log (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			years     INTEGER,
			charts    INTEGER,
			warnings  TEXT,
			failed    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_render_ts ON render_log(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`INSERT INTO fetch_log
		(id, timestamp, source, tickers, years, start_date, end_date, returned, points, duration_ms, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		evt.ID, r.now().Unix(), evt.Source, strings.Join(evt.Tickers, ","), evt.Years,
		evt.Start.Format("2006-01-02"), evt.End.Format("2006-01-02"),
		evt.Returned, evt.Points, evt.Duration.Milliseconds(), evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) RecordRender(evt *RenderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO render_log
		(timestamp, years, charts, warnings, failed)
		VALUES (?,?,?,?,?)`,
		r.now().Unix(), evt.Years, evt.Charts, strings.Join(evt.Warnings, "; "), evt.Failed,
	)
	return err
}

// FetchCount returns the number of logged fetches.
func (r *SQLiteRecorder) FetchCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM fetch_log`).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
