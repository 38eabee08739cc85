package powerquality

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter narrows report listings.
type ReportFilter struct {
	Country string
	Site    string
	From    time.Time
	To      time.Time
}

// Store persists power quality reports.
type Store interface {
	UpsertReport(ctx context.Context, r *Report) error
	ListReports(ctx context.Context, f ReportFilter) ([]Report, error)
}

// PgStore keeps one physical column per metric; the column list is derived
// from the same spec table the importer resolves against, so the two cannot
// drift apart.
type PgStore struct {
	DB *sql.DB
}

func NewPgStore(db *sql.DB) *PgStore { return &PgStore{DB: db} }

func (s *PgStore) UpsertReport(ctx context.Context, r *Report) error {
	names := MetricFieldNames()
	cols := []string{"country_id", "site_id", "begin_period", "end_period", "extract_date", "source_filename", "imported_at"}
	args := []interface{}{r.CountryID, r.SiteID, r.BeginPeriod, r.EndPeriod, r.ExtractDate, r.SourceFilename, time.Now().UTC()}
	for _, n := range names {
		cols = append(cols, n)
		args = append(args, r.Metrics[n])
	}

	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	var sets []string
	for _, c := range cols {
		if c == "site_id" || c == "begin_period" || c == "end_period" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	q := fmt.Sprintf(`
		INSERT INTO pq_reports (%s) VALUES (%s)
		ON CONFLICT (site_id, begin_period, end_period) DO UPDATE SET %s
		RETURNING id
	`, strings.Join(cols, ", "), strings.Join(ph, ", "), strings.Join(sets, ", "))

	if err := s.DB.QueryRowContext(ctx, q, args...).Scan(&r.ID); err != nil {
		return fmt.Errorf("upsert pq report %s %s: %w", r.SiteCode, r.BeginPeriod.Format("2006-01-02"), err)
	}
	return nil
}

func (s *PgStore) ListReports(ctx context.Context, f ReportFilter) ([]Report, error) {
	names := MetricFieldNames()
	sel := make([]string, len(names))
	for i, n := range names {
		sel[i] = "r." + n
	}
	q := fmt.Sprintf(`
		SELECT r.id, r.country_id, c.name, r.site_id, si.site_id,
		       r.begin_period, r.end_period, r.extract_date,
		       r.source_filename, r.imported_at, %s
		FROM pq_reports r
		JOIN sites si ON si.id = r.site_id
		JOIN countries c ON c.id = r.country_id
		WHERE 1=1
	`, strings.Join(sel, ", "))

	args := []interface{}{}
	n := 0
	if f.Country != "" {
		n++
		q += fmt.Sprintf(" AND LOWER(c.name) = LOWER($%d)", n)
		args = append(args, f.Country)
	}
	if f.Site != "" {
		n++
		q += fmt.Sprintf(" AND si.site_id ILIKE '%%'||$%d||'%%'", n)
		args = append(args, f.Site)
	}
	if !f.From.IsZero() {
		n++
		q += fmt.Sprintf(" AND r.begin_period >= $%d", n)
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		n++
		q += fmt.Sprintf(" AND r.end_period <= $%d", n)
		args = append(args, f.To)
	}
	q += ` ORDER BY r.begin_period DESC, si.site_id`

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		r := Report{Metrics: make(map[string]decimal.NullDecimal, len(names))}
		dest := []interface{}{
			&r.ID, &r.CountryID, &r.Country, &r.SiteID, &r.SiteCode,
			&r.BeginPeriod, &r.EndPeriod, &r.ExtractDate,
			&r.SourceFilename, &r.ImportedAt,
		}
		vals := make([]decimal.NullDecimal, len(names))
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, name := range names {
			r.Metrics[name] = vals[i]
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
