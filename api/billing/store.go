package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists billing batches, invoice rows and their monthly
// allocations.
type Store interface {
	CreateBatch(ctx context.Context, filename string) (ImportBatch, error)
	// UpsertInvoice writes the row under its natural key and swaps its
	// allocation set atomically. Returns true when the row is new.
	UpsertInvoice(ctx context.Context, inv *Invoice, allocs []MonthlyAllocation) (bool, error)
	ListBatches(ctx context.Context) ([]ImportBatch, error)
	ListInvoices(ctx context.Context, search string) ([]Invoice, error)
	ListAllocations(ctx context.Context, f AllocationFilter) ([]MonthlyAllocation, error)
}

// AllocationFilter narrows the allocation listing.
type AllocationFilter struct {
	Year    int
	Month   int
	Account string
	Invoice string
}

// PgStore runs billing on pgx. Allocation rows go in with CopyFrom since an
// invoice spanning many months produces a burst of them.
type PgStore struct {
	Pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore { return &PgStore{Pool: pool} }

func (s *PgStore) CreateBatch(ctx context.Context, filename string) (ImportBatch, error) {
	b := ImportBatch{ID: uuid.New(), SourceFilename: filename, ImportedAt: time.Now().UTC()}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO billing_import_batches (id, source_filename, imported_at)
		VALUES ($1, $2, $3)
	`, b.ID, b.SourceFilename, b.ImportedAt)
	if err != nil {
		return ImportBatch{}, fmt.Errorf("create batch: %w", err)
	}
	return b, nil
}

func (s *PgStore) UpsertInvoice(ctx context.Context, inv *Invoice, allocs []MonthlyAllocation) (bool, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var created bool
	err = tx.QueryRow(ctx, `
		INSERT INTO billing_invoices (
			batch_id, contract_account, partner, locality, district, street,
			invoice_number, accounting_date,
			amount_energy, amount_fee, amount_tco, amount_excl_vat, amount_vat, amount_ttc,
			period_start, period_end,
			old_index_k1, old_index_k2, new_index_k1, new_index_k2, billed_consumption,
			agency, meter_number
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		ON CONFLICT (contract_account, invoice_number, period_start, period_end) DO UPDATE SET
			batch_id = EXCLUDED.batch_id,
			partner = EXCLUDED.partner, locality = EXCLUDED.locality,
			district = EXCLUDED.district, street = EXCLUDED.street,
			accounting_date = EXCLUDED.accounting_date,
			amount_energy = EXCLUDED.amount_energy, amount_fee = EXCLUDED.amount_fee,
			amount_tco = EXCLUDED.amount_tco, amount_excl_vat = EXCLUDED.amount_excl_vat,
			amount_vat = EXCLUDED.amount_vat, amount_ttc = EXCLUDED.amount_ttc,
			old_index_k1 = EXCLUDED.old_index_k1, old_index_k2 = EXCLUDED.old_index_k2,
			new_index_k1 = EXCLUDED.new_index_k1, new_index_k2 = EXCLUDED.new_index_k2,
			billed_consumption = EXCLUDED.billed_consumption,
			agency = EXCLUDED.agency, meter_number = EXCLUDED.meter_number
		RETURNING id, (xmax = 0) AS inserted
	`,
		inv.BatchID, inv.ContractAccount, inv.Partner, inv.Locality, inv.District, inv.Street,
		inv.InvoiceNumber, inv.AccountingDate,
		inv.AmountEnergy, inv.AmountFee, inv.AmountTCO, inv.AmountExclVAT, inv.AmountVAT, inv.AmountTTC,
		inv.PeriodStart, inv.PeriodEnd,
		inv.OldIndexK1, inv.OldIndexK2, inv.NewIndexK1, inv.NewIndexK2, inv.BilledConsumption,
		inv.Agency, inv.MeterNumber,
	).Scan(&inv.ID, &created)
	if err != nil {
		return false, fmt.Errorf("upsert invoice %s: %w", inv.InvoiceNumber, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM billing_monthly_allocations WHERE invoice_id = $1`, inv.ID); err != nil {
		return false, fmt.Errorf("clear allocations: %w", err)
	}

	src := make([][]interface{}, len(allocs))
	for i, a := range allocs {
		src[i] = []interface{}{
			inv.ID, a.Year, a.Month, a.PeriodStart, a.PeriodEnd,
			a.PeriodTotalDays, a.DaysCovered,
			a.Consumption, a.AmountEnergy, a.AmountTTC,
			a.ContractAccount, a.InvoiceNumber,
		}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"billing_monthly_allocations"},
		[]string{
			"invoice_id", "year", "month", "period_start", "period_end",
			"period_total_days", "days_covered",
			"consumption", "amount_energy", "amount_ttc",
			"contract_account", "invoice_number",
		},
		pgx.CopyFromRows(src),
	)
	if err != nil {
		return false, fmt.Errorf("copy allocations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return created, nil
}

func (s *PgStore) ListBatches(ctx context.Context) ([]ImportBatch, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, source_filename, imported_at
		FROM billing_import_batches ORDER BY imported_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ImportBatch
	for rows.Next() {
		var b ImportBatch
		if err := rows.Scan(&b.ID, &b.SourceFilename, &b.ImportedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PgStore) ListInvoices(ctx context.Context, search string) ([]Invoice, error) {
	q := `
		SELECT id, batch_id, contract_account, partner, locality, district, street,
		       invoice_number, accounting_date,
		       amount_energy, amount_fee, amount_tco, amount_excl_vat, amount_vat, amount_ttc,
		       period_start, period_end,
		       old_index_k1, old_index_k2, new_index_k1, new_index_k2, billed_consumption,
		       agency, meter_number
		FROM billing_invoices
	`
	args := []interface{}{}
	if search != "" {
		q += ` WHERE invoice_number ILIKE '%'||$1||'%'
		       OR contract_account ILIKE '%'||$1||'%'
		       OR meter_number ILIKE '%'||$1||'%'`
		args = append(args, search)
	}
	q += ` ORDER BY accounting_date DESC NULLS LAST`
	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(
			&inv.ID, &inv.BatchID, &inv.ContractAccount, &inv.Partner, &inv.Locality, &inv.District, &inv.Street,
			&inv.InvoiceNumber, &inv.AccountingDate,
			&inv.AmountEnergy, &inv.AmountFee, &inv.AmountTCO, &inv.AmountExclVAT, &inv.AmountVAT, &inv.AmountTTC,
			&inv.PeriodStart, &inv.PeriodEnd,
			&inv.OldIndexK1, &inv.OldIndexK2, &inv.NewIndexK1, &inv.NewIndexK2, &inv.BilledConsumption,
			&inv.Agency, &inv.MeterNumber,
		); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *PgStore) ListAllocations(ctx context.Context, f AllocationFilter) ([]MonthlyAllocation, error) {
	q := `
		SELECT id, invoice_id, year, month, period_start, period_end,
		       period_total_days, days_covered,
		       consumption, amount_energy, amount_ttc,
		       contract_account, invoice_number
		FROM billing_monthly_allocations WHERE 1=1
	`
	args := []interface{}{}
	n := 0
	add := func(cond string, v interface{}) {
		n++
		q += fmt.Sprintf(" AND %s = $%d", cond, n)
		args = append(args, v)
	}
	if f.Year != 0 {
		add("year", f.Year)
	}
	if f.Month != 0 {
		add("month", f.Month)
	}
	if f.Account != "" {
		add("contract_account", f.Account)
	}
	if f.Invoice != "" {
		add("invoice_number", f.Invoice)
	}
	q += ` ORDER BY year DESC, month DESC`
	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MonthlyAllocation
	for rows.Next() {
		var a MonthlyAllocation
		if err := rows.Scan(
			&a.ID, &a.InvoiceID, &a.Year, &a.Month, &a.PeriodStart, &a.PeriodEnd,
			&a.PeriodTotalDays, &a.DaysCovered,
			&a.Consumption, &a.AmountEnergy, &a.AmountTTC,
			&a.ContractAccount, &a.InvoiceNumber,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
