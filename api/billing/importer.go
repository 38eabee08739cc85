package billing

import (
	"context"
	"fmt"
	"log"

	"EnerTrack/internal/ingest"
)

const headerScanRows = 30

// ImportResult is what one billing upload reports back.
type ImportResult struct {
	Batch          ImportBatch `json:"batch"`
	RowsCreated    int         `json:"rows_created"`
	RowsUpdated    int         `json:"rows_updated"`
	RowsSkipped    int         `json:"rows_skipped"`
	MonthlyRows    int         `json:"monthly_rows_created"`
	RowDiagnostics []string    `json:"row_errors,omitempty"`
}

// Importer ingests billing files into the store.
type Importer struct {
	Store Store
}

// Import parses one billing workbook and upserts every usable row. File
// defects (unreadable workbook, header not found, required columns missing)
// return a structural error and persist nothing; bad rows are skipped with a
// diagnostic and the rest of the file goes through.
func (imp *Importer) Import(ctx context.Context, data []byte, filename string, ictx ingest.ImportContext) (*ImportResult, error) {
	rows, err := ingest.ReadGrid(data, filename)
	if err != nil {
		return nil, ingest.Structuralf("unreadable file %s: %v", filename, err)
	}

	headerIdx := ingest.LocateHeader(rows, headerScanRows, isInvoiceHeader)
	if headerIdx < 0 {
		return nil, ingest.Structuralf("no billing header row found in first %d rows", headerScanRows)
	}
	cols, err := ingest.ResolveColumns(rows[headerIdx], invoiceFields, false)
	if err != nil {
		return nil, err
	}

	batch, err := imp.Store.CreateBatch(ctx, filename)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Batch: batch}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if rowIsBlank(row) {
			continue
		}
		inv := parseInvoiceRow(cols, row)
		inv.BatchID = batch.ID

		if inv.InvoiceNumber == "" || inv.PeriodStart.IsZero() || inv.PeriodEnd.IsZero() {
			res.RowsSkipped++
			res.RowDiagnostics = append(res.RowDiagnostics,
				fmt.Sprintf("row %d: missing invoice number or billing period", i+1))
			continue
		}

		allocs := BuildAllocations(inv)
		created, err := imp.Store.UpsertInvoice(ctx, inv, allocs)
		if err != nil {
			res.RowsSkipped++
			res.RowDiagnostics = append(res.RowDiagnostics, fmt.Sprintf("row %d: %v", i+1, err))
			log.Printf("[ERROR] billing import row %d: %v", i+1, err)
			continue
		}
		if created {
			res.RowsCreated++
		} else {
			res.RowsUpdated++
		}
		res.MonthlyRows += len(allocs)
	}
	log.Printf("[INFO] billing import %s: %d created, %d updated, %d skipped, %d monthly rows",
		filename, res.RowsCreated, res.RowsUpdated, res.RowsSkipped, res.MonthlyRows)
	return res, nil
}

func rowIsBlank(row []string) bool {
	for _, c := range row {
		if ingest.CleanCell(c) != "" {
			return false
		}
	}
	return true
}

func parseInvoiceRow(cols ingest.ColumnMap, row []string) *Invoice {
	get := func(f string) string { return cols.Cell(row, f) }
	return &Invoice{
		ContractAccount:   ingest.CleanCell(get("contract_account")),
		Partner:           ingest.ParseString(get("partner")),
		Locality:          ingest.ParseString(get("locality")),
		District:          ingest.ParseString(get("district")),
		Street:            ingest.ParseString(get("street")),
		InvoiceNumber:     ingest.CleanCell(get("invoice_number")),
		AccountingDate:    ingest.ParseDate(get("accounting_date")),
		AmountEnergy:      ingest.ParseDecimal(get("amount_energy"), allocScale),
		AmountFee:         ingest.ParseDecimal(get("amount_fee"), allocScale),
		AmountTCO:         ingest.ParseDecimal(get("amount_tco"), allocScale),
		AmountExclVAT:     ingest.ParseDecimal(get("amount_excl_vat"), allocScale),
		AmountVAT:         ingest.ParseDecimal(get("amount_vat"), allocScale),
		AmountTTC:         ingest.ParseDecimal(get("amount_ttc"), allocScale),
		PeriodStart:       ingest.ParseDate(get("period_start")).Time,
		PeriodEnd:         ingest.ParseDate(get("period_end")).Time,
		OldIndexK1:        ingest.ParseDecimal(get("old_index_k1"), allocScale),
		OldIndexK2:        ingest.ParseDecimal(get("old_index_k2"), allocScale),
		NewIndexK1:        ingest.ParseDecimal(get("new_index_k1"), allocScale),
		NewIndexK2:        ingest.ParseDecimal(get("new_index_k2"), allocScale),
		BilledConsumption: ingest.ParseDecimal(get("billed_consumption"), allocScale),
		Agency:            ingest.ParseString(get("agency")),
		MeterNumber:       ingest.ParseString(get("meter_number")),
	}
}
