package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"

	"github.com/i474232898/weather-lookup/internal/queries"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	tableSavedQueries = "saved_queries"

	dialectSQLite   = "sqlite3"
	dialectPostgres = "postgres"

	// Fixed width, so lexical order is chronological order.
	timestampLayout = "2006-01-02T15:04:05.000000Z"
)

var summaryColumns = []interface{}{
	"id", "label", "location_name", "latitude", "longitude",
	"start_date", "end_date", "created_at", "updated_at",
}

var fullColumns = append(append([]interface{}{}, summaryColumns...),
	"weather_data", "geocoding_confidence", "location_type",
)

// SQLStore implements queries.Store on database/sql, building statements with
// goqu for either SQLite or PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	goqu    *goqu.Database
	dialect string
}

var _ queries.Store = (*SQLStore)(nil)

// NewSQLStore wraps db. dialect is "sqlite3" or "postgres".
func NewSQLStore(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{
		db:      db,
		goqu:    goqu.New(dialect, db),
		dialect: dialect,
	}
}

// Migrate creates the saved_queries table if it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	ddl := sqliteSchema
	if s.dialect == dialectPostgres {
		ddl = postgresSchema
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", tableSavedQueries, err)
	}
	return nil
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS saved_queries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	label TEXT,
	location_name TEXT NOT NULL,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	weather_data TEXT NOT NULL,
	geocoding_confidence REAL,
	location_type TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

const postgresSchema = `CREATE TABLE IF NOT EXISTS saved_queries (
	id BIGSERIAL PRIMARY KEY,
	label TEXT,
	location_name TEXT NOT NULL,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	start_date TIMESTAMPTZ NOT NULL,
	end_date TIMESTAMPTZ NOT NULL,
	weather_data JSONB NOT NULL,
	geocoding_confidence DOUBLE PRECISION,
	location_type TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

func (s *SQLStore) Create(ctx context.Context, q *queries.SavedQuery) error {
	record := goqu.Record{
		"label":                nullString(q.Label),
		"location_name":        q.LocationName,
		"latitude":             q.Latitude,
		"longitude":            q.Longitude,
		"start_date":           formatTimestamp(q.StartDate),
		"end_date":             formatTimestamp(q.EndDate),
		"weather_data":         string(q.WeatherData.Raw()),
		"geocoding_confidence": nullFloat(q.GeocodingConfidence),
		"location_type":        nullString(q.LocationType),
		"created_at":           formatTimestamp(q.CreatedAt),
		"updated_at":           formatTimestamp(q.UpdatedAt),
	}

	insert := s.goqu.Insert(tableSavedQueries).Rows(record)

	if s.dialect == dialectPostgres {
		query, args, err := insert.Returning("id").ToSQL()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&q.ID); err != nil {
			return fmt.Errorf("insert saved query: %w", err)
		}
		return nil
	}

	query, args, err := insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert saved query: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted id: %w", err)
	}
	q.ID = id
	return nil
}

func (s *SQLStore) List(ctx context.Context) ([]queries.Summary, error) {
	query, args, err := s.goqu.Select(summaryColumns...).
		From(tableSavedQueries).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list saved queries: %w", err)
	}
	defer rows.Close()

	result := []queries.Summary{}
	for rows.Next() {
		var (
			sum                          queries.Summary
			label                        sql.NullString
			start, end, created, updated dbTime
		)
		if err := rows.Scan(
			&sum.ID, &label, &sum.LocationName, &sum.Latitude, &sum.Longitude,
			&start, &end, &created, &updated,
		); err != nil {
			return nil, fmt.Errorf("scan saved query: %w", err)
		}
		sum.Label = stringPtr(label)
		sum.StartDate, sum.EndDate = start.Time, end.Time
		sum.CreatedAt, sum.UpdatedAt = created.Time, updated.Time
		result = append(result, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list saved queries: %w", err)
	}
	return result, nil
}

func (s *SQLStore) Get(ctx context.Context, id int64) (*queries.SavedQuery, error) {
	query, args, err := s.goqu.Select(fullColumns...).
		From(tableSavedQueries).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get: %w", err)
	}

	var (
		q                            queries.SavedQuery
		label, locationType          sql.NullString
		confidence                   sql.NullFloat64
		raw                          []byte
		start, end, created, updated dbTime
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&q.ID, &label, &q.LocationName, &q.Latitude, &q.Longitude,
		&start, &end, &created, &updated,
		&raw, &confidence, &locationType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, queries.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get saved query %d: %w", id, err)
	}

	q.Label = stringPtr(label)
	q.LocationType = stringPtr(locationType)
	if confidence.Valid {
		c := confidence.Float64
		q.GeocodingConfidence = &c
	}
	q.WeatherData = weather.NewPayload(raw)
	q.StartDate, q.EndDate = start.Time, end.Time
	q.CreatedAt, q.UpdatedAt = created.Time, updated.Time
	return &q, nil
}

func (s *SQLStore) UpdateLabel(ctx context.Context, id int64, label *string, updatedAt time.Time) (*queries.SavedQuery, error) {
	query, args, err := s.goqu.Update(tableSavedQueries).
		Set(goqu.Record{
			"label":      nullString(label),
			"updated_at": formatTimestamp(updatedAt),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update saved query %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return nil, queries.ErrNotFound
	}

	return s.Get(ctx, id)
}

func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	query, args, err := s.goqu.Delete(tableSavedQueries).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete saved query %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return queries.ErrNotFound
	}
	return nil
}

// dbTime scans a timestamp stored either natively (PostgreSQL) or as
// timestampLayout text (SQLite).
type dbTime struct {
	Time time.Time
}

func (t *dbTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *dbTime) parse(v string) error {
	parsed, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", v, err)
	}
	t.Time = parsed.UTC()
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Microsecond).Format(timestampLayout)
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
