package energy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

const countryCSV = `ENERGY EFFICIENCY REPORT;;
Senegal 2024;;
Month;Grid Energy [MWh];Solar Energy [MWh];Grid Energy [%];RER Renewable Energy Ratio [%]
January;1 250,5;85;92,3;6,8
Januray;1 100;90;91;7,5
Total;2 350;175;;
NotAMonth;1;1;1;1
`

func TestImportCountryStats(t *testing.T) {
	reg := registry.NewMemStore()
	store := NewMemStore()
	imp := &Importer{Registry: reg, Store: store}

	res, err := imp.ImportCountry(context.Background(), []byte(countryCSV), "energy_senegal.csv", ingest.ImportContext{})
	require.NoError(t, err)

	assert.Equal(t, "Senegal", res.Country)
	assert.Equal(t, 2024, res.Year)
	// January plus the misspelled "Januray" (same month, second wins);
	// "Total" is a footer, "NotAMonth" a row error.
	assert.Equal(t, 2, res.Upserted)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "NotAMonth")

	stats, err := store.ListCountryStats(context.Background(), StatFilter{Country: "Senegal", Year: 2024})
	require.NoError(t, err)
	require.Len(t, stats, 1) // both rows landed on 2024-01
	assert.Equal(t, 1, stats[0].Month)
	assert.Equal(t, "1100", stats[0].GridMWh.Decimal.String())
	assert.Equal(t, "7.5", stats[0].RERPct.Decimal.String())
}

func TestImportCountryStatsYearRequired(t *testing.T) {
	imp := &Importer{Registry: registry.NewMemStore(), Store: NewMemStore()}
	data := []byte("Senegal;;\nMonth;Grid Energy [MWh]\nJanuary;10\n")

	_, err := imp.ImportCountry(context.Background(), data, "no_year.csv", ingest.ImportContext{})
	require.Error(t, err)
	assert.True(t, ingest.IsStructural(err))

	// Explicit year unblocks the same file.
	res, err := imp.ImportCountry(context.Background(), data, "no_year.csv", ingest.ImportContext{Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, 2023, res.Year)
	assert.Equal(t, 1, res.Upserted)
}

const siteCSV = `SITE ENERGY EFFICIENCY;;;;;;;
Senegal July 2024;;;;;;;
Site ID;Site Name;GRID;DG;Solar;GRID Energy [kWh];GRID Energy [%];RER Renewable Energy Ratio [%]
BKL_0086;BAKEL01;YES;NO;NI;12 500;95,2;4,8
DKR_0001;DAKAR05;yes;0DG;NM;8 200;101,4;2500000
Total;;;;;;;
`

func TestImportSiteStats(t *testing.T) {
	reg := registry.NewMemStore()
	store := NewMemStore()
	imp := &Importer{Registry: reg, Store: store}

	res, err := imp.ImportSites(context.Background(), []byte(siteCSV), "sites_july.csv", ingest.ImportContext{})
	require.NoError(t, err)

	assert.Equal(t, "Senegal", res.Country)
	assert.Equal(t, 2024, res.Year)
	assert.Equal(t, 7, res.Month)
	assert.Equal(t, 2, res.Upserted)

	sites, err := reg.ListSites(context.Background(), "Senegal")
	require.NoError(t, err)
	assert.Len(t, sites, 2)

	stats, err := store.ListSiteStats(context.Background(), StatFilter{Query: "BKL"})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, ingest.StatusYes, stats[0].GridStatus)
	assert.Equal(t, ingest.StatusNI, stats[0].SolarStatus)
	assert.Equal(t, int64(12500), stats[0].GridEnergyKWh.Int64)
	assert.Equal(t, "95.2", stats[0].GridEnergyPct.Decimal.String())

	dkr, err := store.ListSiteStats(context.Background(), StatFilter{Query: "DKR"})
	require.NoError(t, err)
	require.Len(t, dkr, 1)
	assert.Equal(t, ingest.StatusODG, dkr[0].DGStatus)
	// Values above 100 stay; telemetry overflow garbage goes null.
	assert.Equal(t, "101.4", dkr[0].GridEnergyPct.Decimal.String())
	assert.False(t, dkr[0].RERPct.Valid)
}

func TestImportSiteStatsCountryPrecedence(t *testing.T) {
	reg := registry.NewMemStore()
	imp := &Importer{Registry: reg, Store: NewMemStore()}

	// The banner says Senegal, but the importing user's country wins when
	// no override is given. Sites must land under Mali, not Senegal.
	res, err := imp.ImportSites(context.Background(), []byte(siteCSV), "sites_july.csv", ingest.ImportContext{UserCountry: "Mali"})
	require.NoError(t, err)
	assert.Equal(t, "Mali", res.Country)

	sites, err := reg.ListSites(context.Background(), "Mali")
	require.NoError(t, err)
	assert.Len(t, sites, 2)

	// An explicit override outranks the user country.
	res, err = imp.ImportSites(context.Background(), []byte(siteCSV), "sites_july.csv", ingest.ImportContext{Country: "Benin", UserCountry: "Mali"})
	require.NoError(t, err)
	assert.Equal(t, "Benin", res.Country)
}

func TestImportSiteStatsMonthRequired(t *testing.T) {
	imp := &Importer{Registry: registry.NewMemStore(), Store: NewMemStore()}
	data := []byte("Senegal 2024;;;;\nSite ID;Site Name;GRID;DG;Solar\nBKL_0086;BAKEL01;YES;NO;NI\n")

	_, err := imp.ImportSites(context.Background(), data, "sites.csv", ingest.ImportContext{})
	require.Error(t, err)
	assert.True(t, ingest.IsStructural(err))
	assert.Contains(t, err.Error(), "month")

	res, err := imp.ImportSites(context.Background(), data, "sites.csv", ingest.ImportContext{Month: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Upserted)
}
