package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/okian/epochline/internal/domain/model"
)

//go:embed schema.sql
var schema string

const selectColumns = `id, title, summary, start_year, start_month, start_day,
	end_year, end_month, end_day, date_precision, scope, importance, status,
	created_at, updated_at`

// SQLiteStore keeps events in a sqlite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens the database at path and applies the schema.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	cfg := newStoreConfig(opts)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.maxOpenConns)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db, now: cfg.now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Insert stores rec and returns it with its id and timestamps.
func (s *SQLiteStore) Insert(ctx context.Context, rec Record) (Record, error) {
	rec = rec.withDefaults()
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := s.now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (`+selectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, nullString(rec.Summary), rec.StartYear,
		nullInt(rec.StartMonth), nullInt(rec.StartDay),
		nullInt(rec.EndYear), nullInt(rec.EndMonth), nullInt(rec.EndDay),
		rec.DatePrecision, rec.Scope, rec.Importance, rec.Status,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert event: %w", err)
	}
	return rec, nil
}

// Get returns the row with the given id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM events WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("get event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get event: %w", err)
	}
	return rec, nil
}

// ListApproved returns approved events ordered by start year ascending.
func (s *SQLiteStore) ListApproved(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM events
		 WHERE status = ?
		 ORDER BY start_year ASC, created_at ASC, id ASC`,
		StatusApproved,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return toEvents(recs), nil
}

// Count returns the number of rows.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec      Record
		summary  sql.NullString
		startMon sql.NullInt64
		startDay sql.NullInt64
		endYear  sql.NullInt64
		endMon   sql.NullInt64
		endDay   sql.NullInt64
	)
	err := sc.Scan(
		&rec.ID, &rec.Title, &summary, &rec.StartYear, &startMon, &startDay,
		&endYear, &endMon, &endDay, &rec.DatePrecision, &rec.Scope,
		&rec.Importance, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	if summary.Valid {
		rec.Summary = &summary.String
	}
	rec.StartMonth = intPtr(startMon)
	rec.StartDay = intPtr(startDay)
	rec.EndYear = intPtr(endYear)
	rec.EndMonth = intPtr(endMon)
	rec.EndDay = intPtr(endDay)
	return rec, nil
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
