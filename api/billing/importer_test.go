package billing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EnerTrack/internal/ingest"
)

const billingCSV = `EXPORT FACTURATION
;;
Numero Compte Contrat;Numero Facture;Date Debut Periode Facturation;Date Fin Periode Facturation; Montant Facture TTC ;Consommation Facturée;Date comptable Facture;Partenaire
CC-001;F-001;15/01/2024;15/03/2024;610;122;20/03/2024;Sonatel
CC-002;F-002;01/07/2024;31/07/2024;458 543;48,5;05/08/2024;
CC-003;;01/07/2024;31/07/2024;100;10;05/08/2024;Sonatel
CC-004;F-004;;31/07/2024;100;10;05/08/2024;Sonatel
`

func TestImportBillingFile(t *testing.T) {
	store := NewMemStore()
	imp := &Importer{Store: store}

	res, err := imp.Import(context.Background(), []byte(billingCSV), "billing_2024.csv", ingest.ImportContext{})
	require.NoError(t, err)

	// Two usable rows; the ones missing invoice number or period start are
	// skipped without failing the file, each leaving a diagnostic.
	assert.Equal(t, 2, res.RowsCreated)
	assert.Equal(t, 0, res.RowsUpdated)
	assert.Equal(t, 2, res.RowsSkipped)
	require.Len(t, res.RowDiagnostics, 2)
	assert.Contains(t, res.RowDiagnostics[0], "row 6")
	assert.Contains(t, res.RowDiagnostics[0], "missing invoice number")
	assert.Contains(t, res.RowDiagnostics[1], "row 7")
	// F-001 spans three months, F-002 one.
	assert.Equal(t, 4, res.MonthlyRows)
	assert.Equal(t, "billing_2024.csv", res.Batch.SourceFilename)

	invs, err := store.ListInvoices(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, invs, 2)

	allocs, err := store.ListAllocations(context.Background(), AllocationFilter{Invoice: "F-002"})
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, 2024, allocs[0].Year)
	assert.Equal(t, 7, allocs[0].Month)
	assert.Equal(t, 31, allocs[0].DaysCovered)
	assert.Equal(t, "458543", allocs[0].AmountTTC.Decimal.String())
	assert.Equal(t, "48.5", allocs[0].Consumption.Decimal.String())
}

func TestImportBillingIdempotent(t *testing.T) {
	store := NewMemStore()
	imp := &Importer{Store: store}
	ctx := context.Background()

	first, err := imp.Import(ctx, []byte(billingCSV), "billing_2024.csv", ingest.ImportContext{})
	require.NoError(t, err)
	require.Equal(t, 2, first.RowsCreated)

	second, err := imp.Import(ctx, []byte(billingCSV), "billing_2024_again.csv", ingest.ImportContext{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.RowsCreated)
	assert.Equal(t, 2, second.RowsUpdated)

	invs, err := store.ListInvoices(ctx, "")
	require.NoError(t, err)
	assert.Len(t, invs, 2)

	// Allocations are regenerated, not accumulated.
	allocs, err := store.ListAllocations(ctx, AllocationFilter{Invoice: "F-001"})
	require.NoError(t, err)
	assert.Len(t, allocs, 3)
}

func TestImportBillingNoHeader(t *testing.T) {
	imp := &Importer{Store: NewMemStore()}
	data := []byte("just;some;cells\nwithout;a;header\n")

	_, err := imp.Import(context.Background(), data, "noise.csv", ingest.ImportContext{})
	require.Error(t, err)
	assert.True(t, ingest.IsStructural(err))
	assert.Contains(t, err.Error(), "header")
}

func TestImportBillingMissingRequiredColumn(t *testing.T) {
	imp := &Importer{Store: NewMemStore()}
	// The header row is recognizable but lacks the contract column.
	data := strings.Join([]string{
		"Numero Facture;Date Debut Periode Facturation;Date Fin Periode Facturation",
		"F-001;01/01/2024;31/01/2024",
	}, "\n")

	_, err := imp.Import(context.Background(), []byte(data), "partial.csv", ingest.ImportContext{})
	require.Error(t, err)
	assert.True(t, ingest.IsStructural(err))
	assert.Contains(t, err.Error(), "contract_account")
}
