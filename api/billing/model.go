package billing

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImportBatch records one uploaded billing file.
type ImportBatch struct {
	ID             uuid.UUID `json:"id"`
	SourceFilename string    `json:"source_filename"`
	ImportedAt     time.Time `json:"imported_at"`
}

// Invoice is one raw billing row: one contract, one invoice, one billing
// period. The natural key is contract + invoice + period start + period end.
type Invoice struct {
	ID      int64     `json:"id"`
	BatchID uuid.UUID `json:"batch_id"`

	ContractAccount string         `json:"contract_account"`
	Partner         sql.NullString `json:"partner"`
	Locality        sql.NullString `json:"locality"`
	District        sql.NullString `json:"district"`
	Street          sql.NullString `json:"street"`

	InvoiceNumber  string       `json:"invoice_number"`
	AccountingDate sql.NullTime `json:"accounting_date"`

	AmountEnergy  decimal.NullDecimal `json:"amount_energy"`
	AmountFee     decimal.NullDecimal `json:"amount_fee"`
	AmountTCO     decimal.NullDecimal `json:"amount_tco"`
	AmountExclVAT decimal.NullDecimal `json:"amount_excl_vat"`
	AmountVAT     decimal.NullDecimal `json:"amount_vat"`
	AmountTTC     decimal.NullDecimal `json:"amount_ttc"`

	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	OldIndexK1        decimal.NullDecimal `json:"old_index_k1"`
	OldIndexK2        decimal.NullDecimal `json:"old_index_k2"`
	NewIndexK1        decimal.NullDecimal `json:"new_index_k1"`
	NewIndexK2        decimal.NullDecimal `json:"new_index_k2"`
	BilledConsumption decimal.NullDecimal `json:"billed_consumption"`

	Agency      sql.NullString `json:"agency"`
	MeterNumber sql.NullString `json:"meter_number"`
}

// MonthlyAllocation is the day-prorated share of one invoice falling in one
// calendar month. Regenerated wholesale whenever the source row changes.
type MonthlyAllocation struct {
	ID        int64 `json:"id"`
	InvoiceID int64 `json:"invoice_id"`

	Year  int `json:"year"`
	Month int `json:"month"`

	PeriodStart     time.Time `json:"period_start"`
	PeriodEnd       time.Time `json:"period_end"`
	PeriodTotalDays int       `json:"period_total_days"`
	DaysCovered     int       `json:"days_covered"`

	Consumption  decimal.NullDecimal `json:"consumption"`
	AmountEnergy decimal.NullDecimal `json:"amount_energy"`
	AmountTTC    decimal.NullDecimal `json:"amount_ttc"`

	ContractAccount string `json:"contract_account"`
	InvoiceNumber   string `json:"invoice_number"`
}
