package energy

import (
	"context"
	"database/sql"
	"fmt"

	"EnerTrack/internal/ingest"
)

// StatFilter narrows stat listings.
type StatFilter struct {
	Country string
	Year    int
	Month   int
	Query   string
}

// Store persists the monthly energy stats.
type Store interface {
	UpsertCountryStat(ctx context.Context, s *CountryMonthlyStat) error
	UpsertSiteStat(ctx context.Context, s *SiteMonthlyStat) error
	ListCountryStats(ctx context.Context, f StatFilter) ([]CountryMonthlyStat, error)
	ListSiteStats(ctx context.Context, f StatFilter) ([]SiteMonthlyStat, error)
}

// PgStore runs the energy stats on Postgres.
type PgStore struct {
	DB *sql.DB
}

func NewPgStore(db *sql.DB) *PgStore { return &PgStore{DB: db} }

func (s *PgStore) UpsertCountryStat(ctx context.Context, st *CountryMonthlyStat) error {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO energy_country_monthly_stats (
			country_id, year, month,
			sites_integrated, sites_monitored,
			grid_mwh, solar_mwh, generators_mwh, telecom_mwh,
			grid_pct, rer_pct, generators_pct,
			avg_telecom_load_mw, source_filename, imported_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW())
		ON CONFLICT (country_id, year, month) DO UPDATE SET
			sites_integrated = EXCLUDED.sites_integrated,
			sites_monitored = EXCLUDED.sites_monitored,
			grid_mwh = EXCLUDED.grid_mwh, solar_mwh = EXCLUDED.solar_mwh,
			generators_mwh = EXCLUDED.generators_mwh, telecom_mwh = EXCLUDED.telecom_mwh,
			grid_pct = EXCLUDED.grid_pct, rer_pct = EXCLUDED.rer_pct,
			generators_pct = EXCLUDED.generators_pct,
			avg_telecom_load_mw = EXCLUDED.avg_telecom_load_mw,
			source_filename = EXCLUDED.source_filename,
			imported_at = NOW()
		RETURNING id
	`,
		st.CountryID, st.Year, st.Month,
		st.SitesIntegrated, st.SitesMonitored,
		st.GridMWh, st.SolarMWh, st.GeneratorsMWh, st.TelecomMWh,
		st.GridPct, st.RERPct, st.GeneratorsPct,
		st.AvgTelecomLoadMW, st.SourceFilename,
	).Scan(&st.ID)
	if err != nil {
		return fmt.Errorf("upsert country stat %s %d-%02d: %w", st.Country, st.Year, st.Month, err)
	}
	return nil
}

func (s *PgStore) UpsertSiteStat(ctx context.Context, st *SiteMonthlyStat) error {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO energy_site_monthly_stats (
			site_id, year, month,
			grid_status, dg_status, solar_status,
			grid_energy_kwh, solar_energy_kwh, telecom_load_kwh,
			grid_energy_pct, rer_pct,
			router_availability_pct, pwm_availability_pct, pwc_availability_pct,
			source_filename, imported_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,NOW())
		ON CONFLICT (site_id, year, month) DO UPDATE SET
			grid_status = EXCLUDED.grid_status,
			dg_status = EXCLUDED.dg_status,
			solar_status = EXCLUDED.solar_status,
			grid_energy_kwh = EXCLUDED.grid_energy_kwh,
			solar_energy_kwh = EXCLUDED.solar_energy_kwh,
			telecom_load_kwh = EXCLUDED.telecom_load_kwh,
			grid_energy_pct = EXCLUDED.grid_energy_pct,
			rer_pct = EXCLUDED.rer_pct,
			router_availability_pct = EXCLUDED.router_availability_pct,
			pwm_availability_pct = EXCLUDED.pwm_availability_pct,
			pwc_availability_pct = EXCLUDED.pwc_availability_pct,
			source_filename = EXCLUDED.source_filename,
			imported_at = NOW()
		RETURNING id
	`,
		st.SiteID, st.Year, st.Month,
		string(st.GridStatus), string(st.DGStatus), string(st.SolarStatus),
		st.GridEnergyKWh, st.SolarEnergyKWh, st.TelecomLoadKWh,
		st.GridEnergyPct, st.RERPct,
		st.RouterAvailabilityPct, st.PwmAvailabilityPct, st.PwcAvailabilityPct,
		st.SourceFilename,
	).Scan(&st.ID)
	if err != nil {
		return fmt.Errorf("upsert site stat %s %d-%02d: %w", st.SiteCode, st.Year, st.Month, err)
	}
	return nil
}

func (s *PgStore) ListCountryStats(ctx context.Context, f StatFilter) ([]CountryMonthlyStat, error) {
	q := `
		SELECT st.id, st.country_id, c.name, st.year, st.month,
		       st.sites_integrated, st.sites_monitored,
		       st.grid_mwh, st.solar_mwh, st.generators_mwh, st.telecom_mwh,
		       st.grid_pct, st.rer_pct, st.generators_pct,
		       st.avg_telecom_load_mw, st.source_filename, st.imported_at
		FROM energy_country_monthly_stats st
		JOIN countries c ON c.id = st.country_id
		WHERE 1=1
	`
	args := []interface{}{}
	n := 0
	if f.Country != "" {
		n++
		q += fmt.Sprintf(" AND LOWER(c.name) = LOWER($%d)", n)
		args = append(args, f.Country)
	}
	if f.Year != 0 {
		n++
		q += fmt.Sprintf(" AND st.year = $%d", n)
		args = append(args, f.Year)
	}
	if f.Month != 0 {
		n++
		q += fmt.Sprintf(" AND st.month = $%d", n)
		args = append(args, f.Month)
	}
	q += ` ORDER BY st.year DESC, st.month DESC`
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CountryMonthlyStat
	for rows.Next() {
		var st CountryMonthlyStat
		if err := rows.Scan(
			&st.ID, &st.CountryID, &st.Country, &st.Year, &st.Month,
			&st.SitesIntegrated, &st.SitesMonitored,
			&st.GridMWh, &st.SolarMWh, &st.GeneratorsMWh, &st.TelecomMWh,
			&st.GridPct, &st.RERPct, &st.GeneratorsPct,
			&st.AvgTelecomLoadMW, &st.SourceFilename, &st.ImportedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PgStore) ListSiteStats(ctx context.Context, f StatFilter) ([]SiteMonthlyStat, error) {
	q := `
		SELECT st.id, st.site_id, si.site_id, si.site_name, c.name, st.year, st.month,
		       st.grid_status, st.dg_status, st.solar_status,
		       st.grid_energy_kwh, st.solar_energy_kwh, st.telecom_load_kwh,
		       st.grid_energy_pct, st.rer_pct,
		       st.router_availability_pct, st.pwm_availability_pct, st.pwc_availability_pct,
		       st.source_filename, st.imported_at
		FROM energy_site_monthly_stats st
		JOIN sites si ON si.id = st.site_id
		JOIN countries c ON c.id = si.country_id
		WHERE 1=1
	`
	args := []interface{}{}
	n := 0
	if f.Country != "" {
		n++
		q += fmt.Sprintf(" AND LOWER(c.name) = LOWER($%d)", n)
		args = append(args, f.Country)
	}
	if f.Year != 0 {
		n++
		q += fmt.Sprintf(" AND st.year = $%d", n)
		args = append(args, f.Year)
	}
	if f.Month != 0 {
		n++
		q += fmt.Sprintf(" AND st.month = $%d", n)
		args = append(args, f.Month)
	}
	if f.Query != "" {
		n++
		q += fmt.Sprintf(" AND (si.site_id ILIKE '%%'||$%d||'%%' OR si.site_name ILIKE '%%'||$%d||'%%')", n, n)
		args = append(args, f.Query)
	}
	q += ` ORDER BY si.site_id, st.year DESC, st.month DESC`
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SiteMonthlyStat
	for rows.Next() {
		var st SiteMonthlyStat
		var gs, ds, ss string
		if err := rows.Scan(
			&st.ID, &st.SiteID, &st.SiteCode, &st.SiteName, &st.Country, &st.Year, &st.Month,
			&gs, &ds, &ss,
			&st.GridEnergyKWh, &st.SolarEnergyKWh, &st.TelecomLoadKWh,
			&st.GridEnergyPct, &st.RERPct,
			&st.RouterAvailabilityPct, &st.PwmAvailabilityPct, &st.PwcAvailabilityPct,
			&st.SourceFilename, &st.ImportedAt,
		); err != nil {
			return nil, err
		}
		st.GridStatus = ingest.InstallStatus(gs)
		st.DGStatus = ingest.InstallStatus(ds)
		st.SolarStatus = ingest.InstallStatus(ss)
		out = append(out, st)
	}
	return out, rows.Err()
}
