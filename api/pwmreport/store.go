package pwmreport

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"EnerTrack/internal/ingest"
)

// ReportFilter narrows report listings.
type ReportFilter struct {
	Country string
	SiteID  string
	Query   string
	From    time.Time
	To      time.Time
}

// Store persists PWM reports.
type Store interface {
	UpsertReport(ctx context.Context, r *Report) error
	ListReports(ctx context.Context, f ReportFilter) ([]Report, error)
}

// PgStore runs PWM reports on Postgres.
type PgStore struct {
	DB *sql.DB
}

func NewPgStore(db *sql.DB) *PgStore { return &PgStore{DB: db} }

func dcColumns() []string {
	out := make([]string, 12)
	for k := range out {
		out[k] = fmt.Sprintf("dc%d_pwm_avg_w", k+1)
	}
	return out
}

func (s *PgStore) UpsertReport(ctx context.Context, r *Report) error {
	cols := []string{
		"country_id", "site_id", "report_date", "period_start", "period_end",
		"site_name", "site_class",
		"grid_status", "dg_status", "solar_status",
		"typology_power_w", "grid_act_pwm_avg_w",
		"total_pwm_min_w", "total_pwm_avg_w", "total_pwm_max_w", "total_pwc_avg_load_w",
		"dc_pwm_avg_uptime_pct", "pwc_uptime_pct", "router_uptime_pct",
		"typology_load_vs_pwm_real_load_pct", "grid_availability_pct",
		"number_grid_cuts", "total_grid_cuts_minutes",
		"source_filename", "imported_at",
	}
	args := []interface{}{
		r.CountryID, r.SiteID, r.ReportDate, r.PeriodStart, r.PeriodEnd,
		r.SiteName, r.SiteClass,
		string(r.GridStatus), string(r.DGStatus), string(r.SolarStatus),
		r.TypologyPowerW, r.GridActAvgW,
		r.TotalPwmMinW, r.TotalPwmAvgW, r.TotalPwmMaxW, r.TotalPwcAvgW,
		r.DCUptimePct, r.PwcUptimePct, r.RouterUptimePct,
		r.TypologyVsRealPct, r.GridAvailabilityPct,
		r.GridCuts, r.GridCutsMinutes,
		r.SourceFilename, time.Now().UTC(),
	}
	for k, c := range dcColumns() {
		cols = append(cols, c)
		args = append(args, r.DCAvgW[k])
	}

	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	var sets []string
	for _, c := range cols {
		if c == "site_id" || c == "period_start" || c == "period_end" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	q := fmt.Sprintf(`
		INSERT INTO pwm_reports (%s) VALUES (%s)
		ON CONFLICT (site_id, period_start, period_end) DO UPDATE SET %s
		RETURNING id
	`, strings.Join(cols, ", "), strings.Join(ph, ", "), strings.Join(sets, ", "))

	if err := s.DB.QueryRowContext(ctx, q, args...).Scan(&r.ID); err != nil {
		return fmt.Errorf("upsert pwm report %s %s: %w", r.SiteCode, r.PeriodStart.Format("2006-01-02"), err)
	}
	return nil
}

func (s *PgStore) ListReports(ctx context.Context, f ReportFilter) ([]Report, error) {
	q := `
		SELECT r.id, r.country_id, c.name, r.site_id, si.site_id,
		       r.report_date, r.period_start, r.period_end,
		       r.site_name, r.site_class,
		       r.grid_status, r.dg_status, r.solar_status,
		       r.typology_power_w, r.grid_act_pwm_avg_w,
		       r.total_pwm_min_w, r.total_pwm_avg_w, r.total_pwm_max_w, r.total_pwc_avg_load_w,
		       r.dc_pwm_avg_uptime_pct, r.pwc_uptime_pct, r.router_uptime_pct,
		       r.typology_load_vs_pwm_real_load_pct, r.grid_availability_pct,
		       r.number_grid_cuts, r.total_grid_cuts_minutes,
		       r.source_filename, r.imported_at, ` + strings.Join(prefixed(dcColumns(), "r."), ", ") + `
		FROM pwm_reports r
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
	if f.Query != "" {
		n++
		q += fmt.Sprintf(" AND (si.site_id ILIKE '%%'||$%d||'%%' OR si.site_name ILIKE '%%'||$%d||'%%')", n, n)
		args = append(args, f.Query)
	}
	if !f.From.IsZero() {
		n++
		q += fmt.Sprintf(" AND r.period_start >= $%d", n)
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		n++
		q += fmt.Sprintf(" AND r.period_end <= $%d", n)
		args = append(args, f.To)
	}
	q += ` ORDER BY r.period_start DESC, si.site_id`

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		var r Report
		var gs, ds, ss string
		dest := []interface{}{
			&r.ID, &r.CountryID, &r.Country, &r.SiteID, &r.SiteCode,
			&r.ReportDate, &r.PeriodStart, &r.PeriodEnd,
			&r.SiteName, &r.SiteClass,
			&gs, &ds, &ss,
			&r.TypologyPowerW, &r.GridActAvgW,
			&r.TotalPwmMinW, &r.TotalPwmAvgW, &r.TotalPwmMaxW, &r.TotalPwcAvgW,
			&r.DCUptimePct, &r.PwcUptimePct, &r.RouterUptimePct,
			&r.TypologyVsRealPct, &r.GridAvailabilityPct,
			&r.GridCuts, &r.GridCutsMinutes,
			&r.SourceFilename, &r.ImportedAt,
		}
		for k := 0; k < 12; k++ {
			dest = append(dest, &r.DCAvgW[k])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		r.GridStatus = ingest.InstallStatus(gs)
		r.DGStatus = ingest.InstallStatus(ds)
		r.SolarStatus = ingest.InstallStatus(ss)
		out = append(out, r)
	}
	return out, rows.Err()
}

func prefixed(cols []string, pfx string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pfx + c
	}
	return out
}
