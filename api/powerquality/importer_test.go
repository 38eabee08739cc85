package powerquality

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

var pqCSV = strings.Join([]string{
	"PQ EXTRACT;;;;;;;;;;",
	"Country;Site ID;Begin Period 00h00;End Period 23h59;Extract Date;MonoPhase;;;TriPhase;;",
	";;;;;Vavg (V);Pmax (kW);Total Energy (kWh);Vavg U1 (V);Pavg (kW);Active Energy Consumed (kWh)",
	"Senegal;BKL_0086;01/03/2024 00:00;31/03/2024 23:59;01/04/2024;228,5;12,75;1 234,567;230;15;458 543",
	";DKR_0001;01/03/2024 00:00;31/03/2024 23:59;;231;NI;100;;;",
	";;;;;;;;;;",
	"Mali;TMB_0001;notadate;31/03/2024 23:59;;1;1;1;1;1;1",
	"",
}, "\n")

func TestImportReports(t *testing.T) {
	reg := registry.NewMemStore()
	store := NewMemStore()
	imp := &Importer{Registry: reg, Store: store}

	ictx := ingest.ImportContext{UserCountry: "Senegal"}
	res, err := imp.Import(context.Background(), []byte(pqCSV), "pq_march.csv", ictx)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Upserted)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "row 7 (TMB_0001)")
	assert.Contains(t, res.Errors[0], "invalid period")
	// Only six electrical columns exist in this extract.
	assert.NotEmpty(t, res.Unmapped)
	assert.Contains(t, res.Unmapped, "tri2_vavg_u1_v")
	assert.NotContains(t, res.Unmapped, "mono_vavg_v")

	reports, err := store.ListReports(context.Background(), ReportFilter{Site: "BKL"})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	r := reports[0]
	assert.Equal(t, "Senegal", r.Country)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.BeginPeriod)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC), r.EndPeriod)
	assert.True(t, r.ExtractDate.Valid)
	assert.Equal(t, "228.5", r.Metrics["mono_vavg_v"].Decimal.String())
	assert.Equal(t, "12.75", r.Metrics["mono_pmax_kw"].Decimal.String())
	assert.Equal(t, "1234.567", r.Metrics["mono_total_energy_kwh"].Decimal.String())
	assert.Equal(t, "230", r.Metrics["tri_vavg_u1_v"].Decimal.String())
	assert.Equal(t, "458543", r.Metrics["tri_active_energy_kwh"].Decimal.String())
	assert.False(t, r.Metrics["tri2_vavg_u1_v"].Valid)

	// Sentinel codes inside metric cells go null instead of poisoning the row.
	dkr, err := store.ListReports(context.Background(), ReportFilter{Site: "DKR"})
	require.NoError(t, err)
	require.Len(t, dkr, 1)
	assert.False(t, dkr[0].ExtractDate.Valid)
	assert.False(t, dkr[0].Metrics["mono_pmax_kw"].Valid)
	assert.Equal(t, "231", dkr[0].Metrics["mono_vavg_v"].Decimal.String())
	// No country cell on the row: the importing user's country applies.
	assert.Equal(t, "Senegal", dkr[0].Country)
}

func TestImportReportsIdempotent(t *testing.T) {
	reg := registry.NewMemStore()
	store := NewMemStore()
	imp := &Importer{Registry: reg, Store: store}
	ctx := context.Background()

	_, err := imp.Import(ctx, []byte(pqCSV), "pq_march.csv", ingest.ImportContext{})
	require.NoError(t, err)
	_, err = imp.Import(ctx, []byte(pqCSV), "pq_march_v2.csv", ingest.ImportContext{})
	require.NoError(t, err)

	reports, err := store.ListReports(ctx, ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, reports, 2)
	for _, r := range reports {
		assert.Equal(t, "pq_march_v2.csv", r.SourceFilename)
	}
}

func TestImportReportsHeaderMissing(t *testing.T) {
	imp := &Importer{Registry: registry.NewMemStore(), Store: NewMemStore()}
	_, err := imp.Import(context.Background(), []byte("a;b;c\n1;2;3\n"), "junk.csv", ingest.ImportContext{})
	require.Error(t, err)
	assert.True(t, ingest.IsStructural(err))
}

func TestMetricFieldNamesStable(t *testing.T) {
	names := MetricFieldNames()
	// 11 mono + 25 tri + 25 tri2.
	assert.Len(t, names, 61)
	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate field %s", n)
		seen[n] = true
	}
	assert.True(t, seen["mono_energy_consumed_kwh"])
	assert.True(t, seen["tri_imax_i3_a"])
	assert.True(t, seen["tri2_apparent_energy_kvah"])
}
