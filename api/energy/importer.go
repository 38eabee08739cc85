package energy

import (
	"context"
	"fmt"
	"log"
	"strings"

	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

const (
	headerScanRows = 40
	headTextRows   = 12
	pctScale       = 1
	mwhScale       = 2
)

// ImportResult reports one energy upload.
type ImportResult struct {
	Country  string   `json:"country"`
	Year     int      `json:"year"`
	Month    int      `json:"month,omitempty"`
	Upserted int      `json:"upserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Importer ingests both flavors of the energy efficiency report.
type Importer struct {
	Registry registry.Store
	Store    Store
}

// ImportCountry ingests the country-level monthly sheet. The country and
// year come from the request override or the pre-header text; each data row
// names its month. Rows whose month cell is empty or a "Total" footer are
// skipped silently, an unparseable month is a row diagnostic.
func (imp *Importer) ImportCountry(ctx context.Context, data []byte, filename string, ictx ingest.ImportContext) (*ImportResult, error) {
	rows, err := ingest.ReadGrid(data, filename)
	if err != nil {
		return nil, ingest.Structuralf("unreadable file %s: %v", filename, err)
	}

	head := ingest.HeadText(rows, headTextRows)
	country := ictx.Country
	if country == "" {
		if country = ictx.UserCountry; country == "" {
			country = ingest.DetectCountry(head)
		}
	}
	if country == "" {
		country = "Unknown"
	}
	year := ictx.Year
	if year == 0 {
		year = ingest.DetectYear(head)
	}
	if year == 0 && !ictx.ReportDate.IsZero() {
		year = ictx.ReportDate.Year()
	}
	if year == 0 {
		return nil, ingest.Structuralf("year not found in file head; pass year explicitly")
	}

	headerIdx := ingest.LocateHeader(rows, headerScanRows, isCountryHeader)
	if headerIdx < 0 {
		return nil, ingest.Structuralf("header row with 'Month' column not found")
	}
	cols, err := ingest.ResolveColumns(rows[headerIdx], countryFields, false)
	if err != nil {
		return nil, err
	}

	c, err := imp.Registry.GetOrCreateCountry(ctx, country)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Country: c.Name, Year: year}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		m := ingest.CleanCell(cols.Cell(row, "month"))
		if m == "" || strings.HasPrefix(strings.ToLower(m), "total") {
			continue
		}
		monthIdx := ingest.MonthIndex(m)
		if monthIdx == 0 {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: unrecognized month %s", i+1, m))
			continue
		}

		stat := &CountryMonthlyStat{
			CountryID:        c.ID,
			Country:          c.Name,
			Year:             year,
			Month:            monthIdx,
			SitesIntegrated:  ingest.ParseInt(cols.Cell(row, "sites_integrated")),
			SitesMonitored:   ingest.ParseInt(cols.Cell(row, "sites_monitored")),
			GridMWh:          ingest.ParseDecimal(cols.Cell(row, "grid_mwh"), mwhScale),
			SolarMWh:         ingest.ParseDecimal(cols.Cell(row, "solar_mwh"), mwhScale),
			GeneratorsMWh:    ingest.ParseDecimal(cols.Cell(row, "generators_mwh"), mwhScale),
			TelecomMWh:       ingest.ParseDecimal(cols.Cell(row, "telecom_mwh"), mwhScale),
			GridPct:          ingest.ParseDecimal(cols.Cell(row, "grid_pct"), pctScale),
			RERPct:           ingest.ParseDecimal(cols.Cell(row, "rer_pct"), pctScale),
			GeneratorsPct:    ingest.ParseDecimal(cols.Cell(row, "generators_pct"), pctScale),
			AvgTelecomLoadMW: ingest.ParseDecimal(cols.Cell(row, "avg_telecom_load_mw"), mwhScale),
			SourceFilename:   filename,
		}
		if err := imp.Store.UpsertCountryStat(ctx, stat); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		res.Upserted++
	}
	log.Printf("[INFO] energy country import %s: %s %d, %d upserted, %d skipped",
		filename, res.Country, res.Year, res.Upserted, res.Skipped)
	return res, nil
}

// ImportSites ingests the per-site sheet. Here the whole file belongs to
// one year and month, both mandatory: from the override or the pre-header.
func (imp *Importer) ImportSites(ctx context.Context, data []byte, filename string, ictx ingest.ImportContext) (*ImportResult, error) {
	rows, err := ingest.ReadGrid(data, filename)
	if err != nil {
		return nil, ingest.Structuralf("unreadable file %s: %v", filename, err)
	}

	head := ingest.HeadText(rows, headTextRows)
	country := ictx.Country
	if country == "" {
		if country = ictx.UserCountry; country == "" {
			country = ingest.DetectCountry(head)
		}
	}
	if country == "" {
		country = "Unknown"
	}
	year := ictx.Year
	if year == 0 {
		year = ingest.DetectYear(head)
	}
	month := ictx.Month
	if month == 0 {
		month = ingest.DetectMonth(head)
	}
	if year == 0 {
		return nil, ingest.Structuralf("year not found in file head; pass year explicitly")
	}
	if month == 0 {
		return nil, ingest.Structuralf("month not found in file head; pass month explicitly")
	}

	headerIdx := ingest.LocateHeader(rows, headerScanRows, isSiteHeader)
	if headerIdx < 0 {
		return nil, ingest.Structuralf("header row with 'Site ID' / 'Site Name' not found")
	}
	cols, err := ingest.ResolveColumns(rows[headerIdx], siteFields, false)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Country: country, Year: year, Month: month}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		sid := ingest.CleanCell(cols.Cell(row, "site_id"))
		if sid == "" || strings.HasPrefix(strings.ToLower(sid), "total") {
			continue
		}
		sname := ingest.CleanCell(cols.Cell(row, "site_name"))
		if sname == "" {
			sname = sid
		}
		site, err := imp.Registry.GetOrCreateSite(ctx, country, sid, sname)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		stat := &SiteMonthlyStat{
			SiteID:                site.ID,
			SiteCode:              site.SiteID,
			SiteName:              site.SiteName,
			Country:               site.Country,
			Year:                  year,
			Month:                 month,
			GridStatus:            ingest.StatusFromCell(cols.Cell(row, "grid_status")),
			DGStatus:              ingest.StatusFromCell(cols.Cell(row, "dg_status")),
			SolarStatus:           ingest.StatusFromCell(cols.Cell(row, "solar_status")),
			GridEnergyKWh:         ingest.ParseInt(cols.Cell(row, "grid_kwh")),
			SolarEnergyKWh:        ingest.ParseInt(cols.Cell(row, "solar_kwh")),
			TelecomLoadKWh:        ingest.ParseInt(cols.Cell(row, "telecom_kwh")),
			GridEnergyPct:         ingest.PctGuard(cols.Cell(row, "grid_pct"), pctScale),
			RERPct:                ingest.PctGuard(cols.Cell(row, "rer_pct"), pctScale),
			RouterAvailabilityPct: ingest.PctGuard(cols.Cell(row, "router_pct"), pctScale),
			PwmAvailabilityPct:    ingest.PctGuard(cols.Cell(row, "pwm_pct"), pctScale),
			PwcAvailabilityPct:    ingest.PctGuard(cols.Cell(row, "pwc_pct"), pctScale),
			SourceFilename:        filename,
		}
		if err := imp.Store.UpsertSiteStat(ctx, stat); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		res.Upserted++
	}
	log.Printf("[INFO] energy site import %s: %s %d-%02d, %d upserted, %d skipped",
		filename, res.Country, res.Year, res.Month, res.Upserted, res.Skipped)
	return res, nil
}
