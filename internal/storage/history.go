package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/alishwani-112/auto-subdomain/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id          TEXT PRIMARY KEY,
	target      TEXT NOT NULL,
	version     TEXT,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS stage_results (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	scan_id     TEXT NOT NULL REFERENCES scans(id),
	stage       TEXT NOT NULL,
	status      TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	error       TEXT
);

CREATE INDEX IF NOT EXISTS idx_stage_results_scan ON stage_results(scan_id);
`

// History is the per-workspace scan index. It answers "what ran, when, and
// how long did each stage take" across runs; the flat artifact files stay
// the source of truth for findings.
type History struct {
	db *sql.DB
}

// GenerateScanID returns a unique scan identifier
func GenerateScanID() string {
	return uuid.NewString()
}

// Open opens (creating if needed) the history database at the given path
func Open(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

// CreateScan records the start of a run
func (h *History) CreateScan(id, target, version string, started time.Time) error {
	_, err := h.db.Exec(
		`INSERT INTO scans (id, target, version, started_at) VALUES (?, ?, ?, ?)`,
		id, target, version, started.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create scan record: %w", err)
	}
	return nil
}

// FinishScan stamps the run's end time
func (h *History) FinishScan(id string, finished time.Time) error {
	_, err := h.db.Exec(`UPDATE scans SET finished_at = ? WHERE id = ?`, finished.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to finish scan record: %w", err)
	}
	return nil
}

// RecordStage stores one stage result for a scan
func (h *History) RecordStage(scanID string, r pipeline.StageResult) error {
	var errText sql.NullString
	if r.Err != nil {
		errText = sql.NullString{String: r.Err.Error(), Valid: true}
	}
	_, err := h.db.Exec(
		`INSERT INTO stage_results (scan_id, stage, status, duration_ms, error) VALUES (?, ?, ?, ?, ?)`,
		scanID, r.Name, string(r.Status), r.Duration.Milliseconds(), errText,
	)
	if err != nil {
		return fmt.Errorf("failed to record stage result: %w", err)
	}
	return nil
}

// StageCount returns the number of stage rows recorded for a scan
func (h *History) StageCount(scanID string) (int, error) {
	var n int
	err := h.db.QueryRow(`SELECT COUNT(*) FROM stage_results WHERE scan_id = ?`, scanID).Scan(&n)
	return n, err
}
