package pwmreport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

const pwmCSV = `PWM WEEKLY REPORT;;;;;;;;;;;;;;
Report Date: 05/03/2024;;;;;;;;;;;;;;
Start Date: 26-02-2024;End Date: 03-03-2024;;;;;;;;;;;;;
Country: Senegal;;;;;;;;;;;;;;
Country;Site ID;Site Name;Site Class;GRID;DG;Solar;Typology Power [W];GRID ACT PWM Average Power [W];DC1 PWM Average Power [W];DC2 PWM Average Power [W];Total PWM Average Power [W];DC PWM Average Up Time [%];Number of GRID Cuts [Cuts];Total GRID Cuts Duration [HH:mm]
Senegal;DKR001;Dakar North;Indoor;Yes;No;Yes;3 500;1 234,56;800,1;420;1 250;99,5;3;02:45
Senegal;DKR002;Dakar South;Outdoor;0DG;NI;Yes;;No Last Value;;;;;;
;;;;;;;;;;;;;;
#;;;;;;;;;;;;;;
`

func TestImportPwmReports(t *testing.T) {
	reg := registry.NewMemStore()
	store := NewMemStore()
	imp := &Importer{Registry: reg, Store: store}

	res, err := imp.Import(context.Background(), []byte(pwmCSV), "pwm_senegal.csv", ingest.ImportContext{})
	require.NoError(t, err)

	assert.Equal(t, "Senegal", res.Country)
	assert.Equal(t, "2024-02-26", res.PeriodStart)
	assert.Equal(t, "2024-03-03", res.PeriodEnd)
	assert.Equal(t, 2, res.Upserted)
	assert.Equal(t, 0, res.Skipped)
	assert.Empty(t, res.Errors)

	got, err := store.ListReports(context.Background(), ReportFilter{SiteID: "DKR001"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	r := got[0]
	assert.Equal(t, "Dakar North", r.SiteName)
	assert.Equal(t, ingest.StatusYes, r.GridStatus)
	assert.Equal(t, ingest.StatusNo, r.DGStatus)
	require.True(t, r.TypologyPowerW.Valid)
	assert.Equal(t, int64(3500), r.TypologyPowerW.Int64)
	require.True(t, r.GridActAvgW.Valid)
	assert.Equal(t, "1234.56", r.GridActAvgW.Decimal.String())
	require.True(t, r.DCAvgW[0].Valid)
	assert.Equal(t, "800.1", r.DCAvgW[0].Decimal.String())
	assert.False(t, r.DCAvgW[2].Valid)
	require.True(t, r.GridCutsMinutes.Valid)
	assert.Equal(t, int64(165), r.GridCutsMinutes.Int64)
	require.True(t, r.ReportDate.Valid)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), r.ReportDate.Time)
	assert.Equal(t, time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC), r.PeriodStart)

	got, err = store.ListReports(context.Background(), ReportFilter{SiteID: "DKR002"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	// "No Last Value" and blanks stay null, statuses map onto the enum.
	assert.False(t, got[0].GridActAvgW.Valid)
	assert.False(t, got[0].TypologyPowerW.Valid)
	assert.Equal(t, ingest.StatusODG, got[0].GridStatus)
	assert.Equal(t, ingest.StatusNI, got[0].DGStatus)
}

func TestImportPwmIdempotent(t *testing.T) {
	store := NewMemStore()
	imp := &Importer{Registry: registry.NewMemStore(), Store: store}

	_, err := imp.Import(context.Background(), []byte(pwmCSV), "pwm_senegal.csv", ingest.ImportContext{})
	require.NoError(t, err)
	res, err := imp.Import(context.Background(), []byte(pwmCSV), "pwm_senegal.csv", ingest.ImportContext{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Upserted)

	all, err := store.ListReports(context.Background(), ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportPwmPeriodRequired(t *testing.T) {
	imp := &Importer{Registry: registry.NewMemStore(), Store: NewMemStore()}
	data := []byte("PWM WEEKLY REPORT;;\nSite ID;Site Name;GRID ACT PWM Average Power [W]\nDKR001;Dakar North;500\n")

	_, err := imp.Import(context.Background(), data, "pwm_no_period.csv", ingest.ImportContext{})
	require.Error(t, err)
	assert.True(t, ingest.IsStructural(err))
}

func TestImportPwmHeaderRequired(t *testing.T) {
	imp := &Importer{Registry: registry.NewMemStore(), Store: NewMemStore()}
	data := []byte("Start Date: 01-09-2024;End Date: 30-09-2024\nfoo;bar\n1;2\n")

	_, err := imp.Import(context.Background(), data, "pwm_no_header.csv", ingest.ImportContext{})
	require.Error(t, err)
	assert.True(t, ingest.IsStructural(err))
}

func TestImportPwmReportDateFallback(t *testing.T) {
	store := NewMemStore()
	imp := &Importer{Registry: registry.NewMemStore(), Store: store}
	data := []byte("Start Date: 01-09-2024;End Date: 30-09-2024;\nCountry;Site ID;Site Name;GRID ACT PWM Average Power [W]\nMali;BKO001;Bamako West;750\n")

	fallback := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)
	res, err := imp.Import(context.Background(), data, "pwm_mali.csv", ingest.ImportContext{ReportDate: fallback})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Upserted)
	// No country anywhere in the pre-header or the context.
	assert.Equal(t, "Unknown", res.Country)

	got, err := store.ListReports(context.Background(), ReportFilter{SiteID: "BKO001"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].ReportDate.Valid)
	assert.Equal(t, fallback, got[0].ReportDate.Time)
	assert.Equal(t, "Mali", got[0].Country)
}
