package rectifiers

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ReadingFilter narrows reading listings.
type ReadingFilter struct {
	Country string
	SiteID  string
	Param   string
	Query   string
	From    time.Time
	To      time.Time
}

// Store persists rectifier readings.
type Store interface {
	UpsertReading(ctx context.Context, r *Reading) (created bool, err error)
	ListReadings(ctx context.Context, f ReadingFilter) ([]Reading, error)
	ListParams(ctx context.Context) ([]string, error)
}

// PgStore runs the readings on Postgres.
type PgStore struct {
	DB *sql.DB
}

func NewPgStore(db *sql.DB) *PgStore { return &PgStore{DB: db} }

func (s *PgStore) UpsertReading(ctx context.Context, r *Reading) (bool, error) {
	var created bool
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO rectifier_readings (
			country_id, site_id, param_name, param_value, measure,
			measured_at, source_filename, imported_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		ON CONFLICT (site_id, param_name, measured_at) DO UPDATE SET
			country_id = EXCLUDED.country_id,
			param_value = EXCLUDED.param_value,
			measure = EXCLUDED.measure,
			source_filename = EXCLUDED.source_filename,
			imported_at = NOW()
		RETURNING id, (xmax = 0)
	`,
		r.CountryID, r.SiteID, r.ParamName, r.ParamValue, r.Measure,
		r.MeasuredAt, r.SourceFilename,
	).Scan(&r.ID, &created)
	if err != nil {
		return false, fmt.Errorf("upsert reading %s %s: %w", r.SiteCode, r.ParamName, err)
	}
	return created, nil
}

func (s *PgStore) ListReadings(ctx context.Context, f ReadingFilter) ([]Reading, error) {
	q := `
		SELECT r.id, r.country_id, c.name, r.site_id, si.site_id, si.site_name,
		       r.param_name, r.param_value, r.measure, r.measured_at,
		       r.source_filename, r.imported_at
		FROM rectifier_readings r
		JOIN sites si ON si.id = r.site_id
		JOIN countries c ON c.id = r.country_id
		WHERE 1=1
	`
	args := []interface{}{}
	n := 0
	if f.Country != "" {
		n++
		q += fmt.Sprintf(" AND LOWER(c.name) = LOWER($%d)", n)
		args = append(args, f.Country)
	}
	if f.SiteID != "" {
		n++
		q += fmt.Sprintf(" AND LOWER(si.site_id) = LOWER($%d)", n)
		args = append(args, f.SiteID)
	}
	if f.Param != "" {
		n++
		q += fmt.Sprintf(" AND LOWER(r.param_name) = LOWER($%d)", n)
		args = append(args, f.Param)
	}
	if f.Query != "" {
		n++
		q += fmt.Sprintf(" AND (si.site_id ILIKE '%%'||$%d||'%%' OR si.site_name ILIKE '%%'||$%d||'%%' OR r.param_name ILIKE '%%'||$%d||'%%')", n, n, n)
		args = append(args, f.Query)
	}
	if !f.From.IsZero() {
		n++
		q += fmt.Sprintf(" AND r.measured_at >= $%d", n)
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		n++
		q += fmt.Sprintf(" AND r.measured_at <= $%d", n)
		args = append(args, f.To)
	}
	q += ` ORDER BY r.measured_at DESC, si.site_id`

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Reading
	for rows.Next() {
		var r Reading
		if err := rows.Scan(
			&r.ID, &r.CountryID, &r.Country, &r.SiteID, &r.SiteCode, &r.SiteName,
			&r.ParamName, &r.ParamValue, &r.Measure, &r.MeasuredAt,
			&r.SourceFilename, &r.ImportedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PgStore) ListParams(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT DISTINCT param_name FROM rectifier_readings ORDER BY param_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
