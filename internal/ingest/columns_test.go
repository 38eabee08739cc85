package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumnsExact(t *testing.T) {
	header := []string{" Numero Facture ", "Date Debut Periode Facturation", "  Montant   Facture TTC ", "Site"}
	specs := []FieldSpec{
		Required("invoice_number", "Numero Facture", "N Facture"),
		Required("period_start", "Date Debut Periode Facturation"),
		Optional("amount_ttc", "Montant Facture TTC"),
		Optional("absent", "Conso Reactive"),
	}

	m, err := ResolveColumns(header, specs, false)
	require.NoError(t, err)
	assert.Equal(t, 0, m["invoice_number"])
	assert.Equal(t, 1, m["period_start"])
	assert.Equal(t, 2, m["amount_ttc"])
	assert.False(t, m.Has("absent"))

	row := []string{"F-2024-001", "01/01/2024", "458 543"}
	assert.Equal(t, "F-2024-001", m.Cell(row, "invoice_number"))
	assert.Equal(t, "", m.Cell(row, "site")) // unresolved field
	assert.Equal(t, "", m.Cell(row[:1], "amount_ttc"))
}

func TestResolveColumnsAccents(t *testing.T) {
	header := []string{"N° POLICE", "CONS FACTURÉE", "ÉCHÉANCE"}
	specs := []FieldSpec{
		Required("police", "N Police"),
		Required("cons", "Cons Facturee"),
		Required("due", "Echeance"),
	}
	m, err := ResolveColumns(header, specs, false)
	require.NoError(t, err)
	assert.Equal(t, 0, m["police"])
	assert.Equal(t, 1, m["cons"])
	assert.Equal(t, 2, m["due"])
}

func TestResolveColumnsMissingRequired(t *testing.T) {
	header := []string{"Site", "Month"}
	specs := []FieldSpec{
		Required("site", "Site"),
		Required("grid_energy", "Grid Energy"),
		Required("fuel", "Fuel Consumption"),
	}
	_, err := ResolveColumns(header, specs, false)
	require.Error(t, err)
	assert.True(t, IsStructural(err))
	assert.Contains(t, err.Error(), "grid_energy")
	assert.Contains(t, err.Error(), "fuel")
}

func TestResolveColumnsContainment(t *testing.T) {
	header := []string{"Site ID", "TriPhase 2 THD V3 [%] avg", "MonoPhase Vrms [V]"}
	specs := []FieldSpec{
		Required("site_id", "Site ID"),
		Required("tri2_thd_v3", "TriPhase 2 THD V3"),
		Required("mono_vrms", "MonoPhase Vrms"),
	}

	// Exact matching alone misses the decorated labels.
	_, err := ResolveColumns(header, specs, false)
	require.Error(t, err)

	m, err := ResolveColumns(header, specs, true)
	require.NoError(t, err)
	assert.Equal(t, 1, m["tri2_thd_v3"])
	assert.Equal(t, 2, m["mono_vrms"])
}

func TestStructuralErrors(t *testing.T) {
	err := Structuralf("no header row within first %d rows", 30)
	assert.True(t, IsStructural(err))
	assert.False(t, IsStructural(assert.AnError))
}
