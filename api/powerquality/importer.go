package powerquality

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

const headerScanRows = 35

// ImportResult reports one power quality upload.
type ImportResult struct {
	Upserted int      `json:"upserted"`
	Skipped  int      `json:"skipped"`
	Unmapped []string `json:"unmapped_fields,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Importer ingests power quality workbooks.
type Importer struct {
	Registry registry.Store
	Store    Store
}

// Import parses the two-row header (group row plus sub-label row), resolves
// the electrical columns and upserts one report per site and period. The
// country comes from each row, overridable through the context.
func (imp *Importer) Import(ctx context.Context, data []byte, filename string, ictx ingest.ImportContext) (*ImportResult, error) {
	rows, err := ingest.ReadGrid(data, filename)
	if err != nil {
		return nil, ingest.Structuralf("unreadable file %s: %v", filename, err)
	}

	headerIdx := ingest.LocateHeader(rows, headerScanRows, isReportHeader)
	if headerIdx < 0 {
		return nil, ingest.Structuralf("header row (Country / Site ID / Begin Period) not found")
	}
	if headerIdx+1 >= len(rows) {
		return nil, ingest.Structuralf("file ends after the group header row")
	}
	combined := ingest.CombineHeaderRows(rows[headerIdx], rows[headerIdx+1])

	keys, err := ingest.ResolveColumns(combined, keyFields, true)
	if err != nil {
		return nil, err
	}
	metrics, err := ingest.ResolveColumns(combined, metricFields, true)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{}
	for _, spec := range metricFields {
		if !metrics.Has(spec.Name) {
			res.Unmapped = append(res.Unmapped, spec.Name)
		}
	}

	for i := headerIdx + 2; i < len(rows); i++ {
		row := rows[i]
		sid := ingest.CleanCell(keys.Cell(row, "site_id"))
		if sid == "" {
			continue
		}
		country := ictx.ResolveCountry(keys.Cell(row, "country"))
		site, err := imp.Registry.GetOrCreateSite(ctx, country, sid, sid)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		begin := ingest.ParseDateTime(keys.Cell(row, "begin_period"))
		end := ingest.ParseDateTime(keys.Cell(row, "end_period"))
		if !begin.Valid || !end.Valid {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d (%s): invalid period %q / %q",
				i+1, sid, keys.Cell(row, "begin_period"), keys.Cell(row, "end_period")))
			continue
		}

		rep := &Report{
			CountryID:      site.CountryID,
			Country:        site.Country,
			SiteID:         site.ID,
			SiteCode:       site.SiteID,
			BeginPeriod:    begin.Time,
			EndPeriod:      end.Time,
			ExtractDate:    ingest.ParseDateTime(keys.Cell(row, "extract_date")),
			Metrics:        make(map[string]decimal.NullDecimal, len(metricFields)),
			SourceFilename: filename,
		}
		for _, spec := range metricFields {
			if metrics.Has(spec.Name) {
				rep.Metrics[spec.Name] = ingest.ParseDecimal(metrics.Cell(row, spec.Name), metricScale)
			} else {
				rep.Metrics[spec.Name] = decimal.NullDecimal{}
			}
		}

		if err := imp.Store.UpsertReport(ctx, rep); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		res.Upserted++
	}
	log.Printf("[INFO] power quality import %s: %d upserted, %d skipped, %d unmapped columns",
		filename, res.Upserted, res.Skipped, len(res.Unmapped))
	return res, nil
}
