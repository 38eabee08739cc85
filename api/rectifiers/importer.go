package rectifiers

import (
	"context"
	"fmt"
	"log"

	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

const headerScanRows = 30

// ImportResult reports one rectifier telemetry upload.
type ImportResult struct {
	Upserted int      `json:"upserted"`
	Created  int      `json:"created"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Importer ingests rectifier telemetry exports.
type Importer struct {
	Registry registry.Store
	Store    Store
}

// Import upserts one reading per row. Rows with a blank site are ignored,
// rows with an unreadable timestamp or an out-of-range value are skipped
// with a diagnostic.
func (imp *Importer) Import(ctx context.Context, data []byte, filename string, ictx ingest.ImportContext) (*ImportResult, error) {
	rows, err := ingest.ReadGrid(data, filename)
	if err != nil {
		return nil, ingest.Structuralf("unreadable file %s: %v", filename, err)
	}

	headerIdx := ingest.LocateHeader(rows, headerScanRows, isReadingHeader)
	if headerIdx < 0 {
		return nil, ingest.Structuralf("table header (Country, Site ID, Param Name, Param Value, Measure, Date) not found")
	}
	cols, err := ingest.ResolveColumns(rows[headerIdx], readingFields, false)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		sid := ingest.CleanCell(cols.Cell(row, "site_id"))
		if sid == "" {
			continue
		}
		country := ictx.ResolveCountry(ingest.CleanCell(cols.Cell(row, "country")))
		site, err := imp.Registry.GetOrCreateSite(ctx, country, sid, sid)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d (%s): %v", i+1, sid, err))
			continue
		}

		measuredAt := ingest.ParseDateTime(cols.Cell(row, "measured_at"))
		if !measuredAt.Valid {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d (%s): unreadable date %q", i+1, sid, cols.Cell(row, "measured_at")))
			continue
		}
		val := ingest.ParseDecimal(cols.Cell(row, "param_value"), valueScale)
		if val.Valid && val.Decimal.Abs().GreaterThanOrEqual(maxAbsValue) {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d (%s): value out of range %q",
				i+1, sid, cols.Cell(row, "param_value")))
			continue
		}

		rd := &Reading{
			CountryID:      site.CountryID,
			Country:        site.Country,
			SiteID:         site.ID,
			SiteCode:       site.SiteID,
			SiteName:       site.SiteName,
			ParamName:      ingest.CleanCell(cols.Cell(row, "param_name")),
			ParamValue:     val,
			Measure:        ingest.CleanCell(cols.Cell(row, "measure")),
			MeasuredAt:     measuredAt.Time,
			SourceFilename: filename,
		}
		created, err := imp.Store.UpsertReading(ctx, rd)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("%s %s %s: %v", sid, rd.ParamName, rd.MeasuredAt.Format("2006-01-02"), err))
			continue
		}
		res.Upserted++
		if created {
			res.Created++
		}
	}
	log.Printf("[INFO] rectifier import %s: %d upserted (%d created), %d skipped",
		filename, res.Upserted, res.Created, res.Skipped)
	return res, nil
}
