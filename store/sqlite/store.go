// Package sqlite archives analysis runs in a SQLite database so repeated
// analyses of the same material can be listed and compared.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/cwbudde/algo-raman/analysis/change"
	"github.com/cwbudde/algo-raman/analysis/phase"
	"github.com/cwbudde/algo-raman/analysis/pipeline"
	"github.com/cwbudde/algo-raman/format/report"
	"github.com/cwbudde/algo-raman/store/sqlite/migrations"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a run ID is unknown.
var ErrNotFound = errors.New("sqlite: run not found")

// Run is the catalog entry of one archived analysis.
type Run struct {
	ID        string
	Label     string
	CreatedAt time.Time
	Spectra   int
	Tracks    int
	Events    int // surfaced events only
}

// EventRecord is an archived surfaced event together with its run.
type EventRecord struct {
	RunID string
	Seq   int
	Event change.Event
}

// Store persists analysis runs in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the archive at path and applies the
// embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save archives res under a new run ID.
func (s *Store) Save(ctx context.Context, res *pipeline.Result, label string) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	if res == nil {
		return Run{}, fmt.Errorf("result is required")
	}

	var blob bytes.Buffer
	if err := report.WriteMsgpack(&blob, res); err != nil {
		return Run{}, fmt.Errorf("encode result: %w", err)
	}
	cfg, err := json.Marshal(res.Config)
	if err != nil {
		return Run{}, fmt.Errorf("encode config: %w", err)
	}

	events := res.Surfaced()
	run := Run{
		ID:        uuid.NewString(),
		Label:     strings.TrimSpace(label),
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		Spectra:   len(res.Spectra),
		Tracks:    len(res.Tracks),
		Events:    len(events),
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, label, created_at, config, spectrum_count, track_count, event_count, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Label, toMillis(run.CreatedAt), string(cfg), run.Spectra, run.Tracks, run.Events, blob.Bytes(),
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	for _, sp := range res.Spectra {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_spectra (run_id, idx, temperature, source, peaks, shoulders) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, sp.Index, sp.Temperature, sp.Source, sp.Peaks, sp.Shoulders,
		); err != nil {
			return Run{}, fmt.Errorf("insert spectrum %d: %w", sp.Index, err)
		}
	}

	for seq, e := range events {
		var pct any
		if !math.IsInf(e.PercentChange, 0) && !math.IsNaN(e.PercentChange) {
			pct = e.PercentChange
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_events (run_id, seq, kind, track, from_temperature, to_temperature,
			   position, to_position, percent_change, shift, qualifier, phases)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, seq, e.Kind.String(), e.Track, e.FromTemperature, e.ToTemperature,
			e.Position, e.ToPosition, pct, e.Shift, e.Qualifier, encodePhases(e.Phases),
		); err != nil {
			return Run{}, fmt.Errorf("insert event %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit save: %w", err)
	}
	return run, nil
}

// Load returns the archived result of run id.
func (s *Store) Load(ctx context.Context, id string) (*pipeline.Result, error) {
	var blob []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT result FROM runs WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	res, err := report.ReadMsgpack(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return res, nil
}

// List returns the archived runs, newest first.
func (s *Store) List(ctx context.Context) ([]Run, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, label, created_at, spectrum_count, track_count, event_count
		 FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &r.Label, &created, &r.Spectra, &r.Tracks, &r.Events); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt = fromMillis(created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes run id and its rows.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// EventsNear returns the archived surfaced events of every run whose position
// lies within tol of pos, ordered by run creation time and sequence.
func (s *Store) EventsNear(ctx context.Context, pos, tol float64) ([]EventRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT e.run_id, e.seq, e.kind, e.track, e.from_temperature, e.to_temperature,
		        e.position, e.to_position, e.percent_change, e.shift, e.qualifier, e.phases
		 FROM run_events e JOIN runs r ON r.id = e.run_id
		 WHERE e.position BETWEEN ? AND ?
		 ORDER BY r.created_at, e.run_id, e.seq`,
		pos-tol, pos+tol,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var rec EventRecord
		var kind, phases string
		var pct sql.NullFloat64
		e := &rec.Event
		if err := rows.Scan(&rec.RunID, &rec.Seq, &kind, &e.Track, &e.FromTemperature, &e.ToTemperature,
			&e.Position, &e.ToPosition, &pct, &e.Shift, &e.Qualifier, &phases); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if err := e.Kind.UnmarshalText([]byte(kind)); err != nil {
			return nil, err
		}
		e.PercentChange = math.Inf(1)
		if pct.Valid {
			e.PercentChange = pct.Float64
		}
		if e.Phases, err = decodePhases(phases); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func encodePhases(ms []phase.Match) string {
	if len(ms) == 0 {
		return ""
	}
	b, err := json.Marshal(ms)
	if err != nil {
		return ""
	}
	return string(b)
}

func decodePhases(s string) ([]phase.Match, error) {
	if s == "" {
		return nil, nil
	}
	var ms []phase.Match
	if err := json.Unmarshal([]byte(s), &ms); err != nil {
		return nil, fmt.Errorf("decode phases: %w", err)
	}
	return ms, nil
}
