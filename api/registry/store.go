package registry

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Store is the referential every importer resolves countries and sites
// through.
type Store interface {
	GetOrCreateCountry(ctx context.Context, name string) (Country, error)
	GetOrCreateSite(ctx context.Context, country, siteID, siteName string) (Site, error)
	GetSiteByName(ctx context.Context, siteName string) (Site, bool, error)
	ListCountries(ctx context.Context) ([]Country, error)
	ListSites(ctx context.Context, country string) ([]Site, error)
}

// PgStore runs the referential on Postgres.
type PgStore struct {
	DB *sql.DB
}

func NewPgStore(db *sql.DB) *PgStore { return &PgStore{DB: db} }

// GetOrCreateCountry inserts the country when absent. The insert uses ON
// CONFLICT DO NOTHING so two concurrent imports never race into a duplicate.
func (s *PgStore) GetOrCreateCountry(ctx context.Context, name string) (Country, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Unknown"
	}
	var c Country
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO countries (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`, name).Scan(&c.ID, &c.Name)
	if err != nil {
		return Country{}, fmt.Errorf("get-or-create country %q: %w", name, err)
	}
	return c, nil
}

// GetOrCreateSite resolves a site by site_id, creating it (and its country)
// on first sight. When the sheet carries a different name or country for a
// known site the row is updated: the latest import wins.
func (s *PgStore) GetOrCreateSite(ctx context.Context, country, siteID, siteName string) (Site, error) {
	c, err := s.GetOrCreateCountry(ctx, country)
	if err != nil {
		return Site{}, err
	}
	var site Site
	err = s.DB.QueryRowContext(ctx, `
		INSERT INTO sites (country_id, site_id, site_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (site_id) DO UPDATE
		SET country_id = EXCLUDED.country_id,
		    site_name  = CASE WHEN EXCLUDED.site_name <> '' THEN EXCLUDED.site_name ELSE sites.site_name END
		RETURNING id, country_id, site_id, site_name
	`, c.ID, siteID, siteName).Scan(&site.ID, &site.CountryID, &site.SiteID, &site.SiteName)
	if err != nil {
		return Site{}, fmt.Errorf("get-or-create site %q: %w", siteID, err)
	}
	site.Country = c.Name
	return site, nil
}

// GetSiteByName looks a site up by its human name, case-insensitively. Used
// by the invoice import where the sheet only carries names.
func (s *PgStore) GetSiteByName(ctx context.Context, siteName string) (Site, bool, error) {
	var site Site
	err := s.DB.QueryRowContext(ctx, `
		SELECT s.id, s.country_id, s.site_id, s.site_name, c.name
		FROM sites s JOIN countries c ON c.id = s.country_id
		WHERE LOWER(s.site_name) = LOWER($1)
		LIMIT 1
	`, strings.TrimSpace(siteName)).Scan(&site.ID, &site.CountryID, &site.SiteID, &site.SiteName, &site.Country)
	if err == sql.ErrNoRows {
		return Site{}, false, nil
	}
	if err != nil {
		return Site{}, false, fmt.Errorf("site by name %q: %w", siteName, err)
	}
	return site, true, nil
}

func (s *PgStore) ListCountries(ctx context.Context) ([]Country, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name FROM countries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Country
	for rows.Next() {
		var c Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PgStore) ListSites(ctx context.Context, country string) ([]Site, error) {
	q := `
		SELECT s.id, s.country_id, s.site_id, s.site_name, c.name
		FROM sites s JOIN countries c ON c.id = s.country_id
	`
	args := []interface{}{}
	if country != "" {
		q += ` WHERE LOWER(c.name) = LOWER($1)`
		args = append(args, country)
	}
	q += ` ORDER BY s.site_id`
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Site
	for rows.Next() {
		var site Site
		if err := rows.Scan(&site.ID, &site.CountryID, &site.SiteID, &site.SiteName, &site.Country); err != nil {
			return nil, err
		}
		out = append(out, site)
	}
	return out, rows.Err()
}
