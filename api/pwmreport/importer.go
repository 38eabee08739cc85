package pwmreport

import (
	"context"
	"fmt"
	"log"

	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

const (
	headerScanRows = 40
	headTextRows   = 15
)

// ImportResult reports one PWM upload.
type ImportResult struct {
	Country     string   `json:"country"`
	PeriodStart string   `json:"period_start"`
	PeriodEnd   string   `json:"period_end"`
	Upserted    int      `json:"upserted"`
	Skipped     int      `json:"skipped"`
	Errors      []string `json:"errors,omitempty"`
}

// Importer ingests weekly PWM report files.
type Importer struct {
	Registry registry.Store
	Store    Store
}

// Import reads the labelled pre-header ("Report Date: ...", "Start Date:
// ...", "End Date: ...", "Country ...") for the period and country, then
// upserts one report per site row. A file whose pre-header carries no period
// is rejected outright: every row would be unanchored.
func (imp *Importer) Import(ctx context.Context, data []byte, filename string, ictx ingest.ImportContext) (*ImportResult, error) {
	rows, err := ingest.ReadGrid(data, filename)
	if err != nil {
		return nil, ingest.Structuralf("unreadable file %s: %v", filename, err)
	}

	head := ingest.HeadText(rows, headTextRows)
	meta := ingest.DetectHeaderMeta(head)

	start := ingest.ParseDate(meta.StartDate)
	end := ingest.ParseDate(meta.EndDate)
	if !start.Valid || !end.Valid {
		return nil, ingest.Structuralf("start/end dates not found in file head")
	}
	reportDate := ingest.ParseDateTime(meta.ReportDate)
	if !reportDate.Valid && !ictx.ReportDate.IsZero() {
		reportDate.Time, reportDate.Valid = ictx.ReportDate, true
	}
	country := ictx.ResolveCountry(meta.Country)

	headerIdx := ingest.LocateHeader(rows, headerScanRows, isReportHeader)
	if headerIdx < 0 {
		return nil, ingest.Structuralf("table header (Site ID / GRID ACT PWM Average Power) not found")
	}
	cols, err := ingest.ResolveColumns(rows[headerIdx], reportFields, false)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{
		Country:     country,
		PeriodStart: start.Time.Format("2006-01-02"),
		PeriodEnd:   end.Time.Format("2006-01-02"),
	}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		sid := ingest.CleanCell(cols.Cell(row, "site_id"))
		if sid == "" || sid == "#" {
			continue
		}
		rowCountry := country
		if c := ingest.CleanCell(cols.Cell(row, "country")); ictx.Country == "" && c != "" {
			rowCountry = c
		}
		sname := ingest.CleanCell(cols.Cell(row, "site_name"))
		if sname == "" {
			sname = sid
		}
		site, err := imp.Registry.GetOrCreateSite(ctx, rowCountry, sid, sname)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		rep := &Report{
			CountryID:           site.CountryID,
			Country:             site.Country,
			SiteID:              site.ID,
			SiteCode:            site.SiteID,
			ReportDate:          reportDate,
			PeriodStart:         start.Time,
			PeriodEnd:           end.Time,
			SiteName:            sname,
			SiteClass:           ingest.ParseString(cols.Cell(row, "site_class")),
			GridStatus:          ingest.StatusFromCell(cols.Cell(row, "grid_status")),
			DGStatus:            ingest.StatusFromCell(cols.Cell(row, "dg_status")),
			SolarStatus:         ingest.StatusFromCell(cols.Cell(row, "solar_status")),
			TypologyPowerW:      ingest.ParseInt(cols.Cell(row, "typology_power")),
			GridActAvgW:         ingest.ParseDecimal(cols.Cell(row, "grid_act_avg"), metricScale),
			TotalPwmMinW:        ingest.ParseDecimal(cols.Cell(row, "total_pwm_min"), metricScale),
			TotalPwmAvgW:        ingest.ParseDecimal(cols.Cell(row, "total_pwm_avg"), metricScale),
			TotalPwmMaxW:        ingest.ParseDecimal(cols.Cell(row, "total_pwm_max"), metricScale),
			TotalPwcAvgW:        ingest.ParseDecimal(cols.Cell(row, "total_pwc_avg"), metricScale),
			DCUptimePct:         ingest.ParseDecimal(cols.Cell(row, "dc_uptime"), metricScale),
			PwcUptimePct:        ingest.ParseDecimal(cols.Cell(row, "pwc_uptime"), metricScale),
			RouterUptimePct:     ingest.ParseDecimal(cols.Cell(row, "router_uptime"), metricScale),
			TypologyVsRealPct:   ingest.ParseDecimal(cols.Cell(row, "typology_vs_real"), metricScale),
			GridAvailabilityPct: ingest.ParseDecimal(cols.Cell(row, "grid_availability"), metricScale),
			GridCuts:            ingest.ParseInt(cols.Cell(row, "grid_cuts")),
			GridCutsMinutes:     ingest.HHMMToMinutes(cols.Cell(row, "grid_cuts_duration")),
			SourceFilename:      filename,
		}
		for k := 0; k < 12; k++ {
			rep.DCAvgW[k] = ingest.ParseDecimal(cols.Cell(row, fmt.Sprintf("dc%d_avg", k+1)), metricScale)
		}

		if err := imp.Store.UpsertReport(ctx, rep); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		res.Upserted++
	}
	log.Printf("[INFO] pwm import %s: %s %s..%s, %d upserted, %d skipped",
		filename, res.Country, res.PeriodStart, res.PeriodEnd, res.Upserted, res.Skipped)
	return res, nil
}
