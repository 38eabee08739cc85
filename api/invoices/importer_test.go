package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

const facturesCSV = `SITE;FACTURE;DATE FACTURE;N° POLICE;SOCIÉTÉ;MONTANT HT;MONTANT TTC;CONS FACTURÉE;ÉCHÉANCE;NOMBRE DE JOURS;COS PHI;ANNÉE
Dakar North;F-2024-001;15/01/2024;P-889;SENELEC;1 250 000;1 475 000;4 580,5;15/02/2024;30;0.92;2024
Dakar North;F-2024-002;15/02/2024;P-889;SENELEC;980 000;1 156 400;3 890;15/03/2024;31;0.91;2024
Ghost Site;F-2024-003;15/01/2024;;;10;;;;;;
Dakar North;;15/01/2024;;;10;;;;;;
Dakar North;F-2024-004;garbage;;;10;;;;;;
`

func seededRegistry(t *testing.T) registry.Store {
	t.Helper()
	reg := registry.NewMemStore()
	_, err := reg.GetOrCreateSite(context.Background(), "Senegal", "DKR001", "Dakar North")
	require.NoError(t, err)
	return reg
}

func TestImportFactures(t *testing.T) {
	store := NewMemStore()
	imp := &Importer{Registry: seededRegistry(t), Store: store}

	res, err := imp.Import(context.Background(), []byte(facturesCSV), "factures_jan.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 3, res.Skipped)
	require.Len(t, res.Errors, 3)
	assert.Contains(t, res.Errors[0], "unknown site \"Ghost Site\"")
	assert.Contains(t, res.Errors[1], "empty invoice number")
	assert.Contains(t, res.Errors[2], "unreadable invoice date")

	factures, err := store.ListFactures(context.Background(), FactureFilter{})
	require.NoError(t, err)
	require.Len(t, factures, 2)
	// Newest first.
	assert.Equal(t, "F-2024-002", factures[0].FactureNumber)

	f := factures[1]
	assert.Equal(t, "F-2024-001", f.FactureNumber)
	assert.Equal(t, "Senegal", f.Country)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), f.DateFacture)
	require.True(t, f.DateEcheance.Valid)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), f.DateEcheance.Time)
	require.True(t, f.MontantHT.Valid)
	assert.Equal(t, "1250000", f.MontantHT.Decimal.String())
	assert.Equal(t, "4580.5", f.ConsommationKWh.Decimal.String())
	require.True(t, f.CosPhi.Valid)
	assert.InDelta(t, 0.92, f.CosPhi.Float64, 1e-9)
	require.True(t, f.NbJours.Valid)
	assert.Equal(t, int64(30), f.NbJours.Int64)
	require.True(t, f.AnneeBusiness.Valid)
	assert.Equal(t, int64(2024), f.AnneeBusiness.Int64)
	assert.Equal(t, "SENELEC", f.Societe.String)
	assert.Equal(t, "P-889", f.PoliceNumber.String)
}

func TestImportFacturesIdempotent(t *testing.T) {
	store := NewMemStore()
	imp := &Importer{Registry: seededRegistry(t), Store: store}

	_, err := imp.Import(context.Background(), []byte(facturesCSV), "factures_jan.csv")
	require.NoError(t, err)
	res, err := imp.Import(context.Background(), []byte(facturesCSV), "factures_jan.csv")
	require.NoError(t, err)

	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Updated)

	factures, err := store.ListFactures(context.Background(), FactureFilter{})
	require.NoError(t, err)
	assert.Len(t, factures, 2)
}

func TestImportFacturesHeaderRequired(t *testing.T) {
	imp := &Importer{Registry: registry.NewMemStore(), Store: NewMemStore()}
	// No FACTURE column.
	data := []byte("SITE;DATE FACTURE;MONTANT HT\nDakar North;15/01/2024;10\n")

	_, err := imp.Import(context.Background(), data, "bad.csv")
	require.Error(t, err)
	assert.True(t, ingest.IsStructural(err))
}

func TestImportFacturesDateRange(t *testing.T) {
	store := NewMemStore()
	imp := &Importer{Registry: seededRegistry(t), Store: store}
	_, err := imp.Import(context.Background(), []byte(facturesCSV), "factures_jan.csv")
	require.NoError(t, err)

	factures, err := store.ListFactures(context.Background(), FactureFilter{
		From: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, factures, 1)
	assert.Equal(t, "F-2024-002", factures[0].FactureNumber)
}
