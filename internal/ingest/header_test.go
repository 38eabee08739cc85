package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "cons facturee", NormalizeLabel("CONS FACTURÉE"))
	assert.Equal(t, "n police", NormalizeLabel("N° POLICE"))
	assert.Equal(t, "montant facture ttc", NormalizeLabel("  Montant   Facture TTC "))
	assert.Equal(t, "grid energy kwh", NormalizeLabel("Grid Energy [kWh]"))
	assert.Equal(t, "grid energy", NormalizeLabel("GRID Energy [%]"))
	assert.Equal(t, "echeance", NormalizeLabel("ÉCHÉANCE"))
}

func TestLocateHeader(t *testing.T) {
	rows := make([][]string, 12)
	for i := range rows {
		rows[i] = []string{"Report for", "Senegal", "2024"}
	}
	rows[7] = []string{"Site ID", "Site Name", "Grid Energy [kWh]"}

	idx := LocateHeader(rows, 20, func(norm []string) bool {
		return RowHasAll(norm, "site id", "site name")
	})
	assert.Equal(t, 7, idx)
}

func TestLocateHeaderNotFound(t *testing.T) {
	rows := [][]string{
		{"hello"},
		{"world"},
	}
	idx := LocateHeader(rows, 20, func(norm []string) bool {
		return RowHasAll(norm, "site id")
	})
	assert.Equal(t, -1, idx)
}

func TestCombineHeaderRows(t *testing.T) {
	group := []string{"", "MonoPhase", "", "", "TriPhase", "", "TriPhase 2", ""}
	sub := []string{"Site ID", "Vrms", "THD", "Freq", "V1", "V2", "V1", "V2"}

	got := CombineHeaderRows(group, sub)
	assert.Equal(t, []string{
		"Site ID",
		"MonoPhase Vrms",
		"MonoPhase THD",
		"MonoPhase Freq",
		"TriPhase V1",
		"TriPhase V2",
		"TriPhase 2 V1",
		"TriPhase 2 V2",
	}, got)
}

func TestHeadTextDetection(t *testing.T) {
	rows := [][]string{
		{"ENERGY EFFICIENCY REPORT", "", "nan"},
		{"Senegal", "July", "2024"},
		{"Site ID", "Site Name"},
	}
	head := HeadText(rows, 2)
	assert.Equal(t, 2024, DetectYear(head))
	assert.Equal(t, 7, DetectMonth(head))
	assert.Equal(t, "Senegal", DetectCountry(head))
}

func TestDetectCountrySkipsNoise(t *testing.T) {
	assert.Equal(t, "Benin", DetectCountry("REPORT 2024 Q1 Benin sites"))
	assert.Equal(t, "", DetectCountry("TOTAL 123 kwh"))
}

func TestDetectHeaderMeta(t *testing.T) {
	head := "PWM Weekly Report Date: 05/03/2024 Start Date: 26/02/2024 End Date: 03/03/2024 Country Senegal"
	meta := DetectHeaderMeta(head)
	assert.Equal(t, "05/03/2024", meta.ReportDate)
	assert.Equal(t, "26/02/2024", meta.StartDate)
	assert.Equal(t, "03/03/2024", meta.EndDate)
	assert.Equal(t, "Senegal", meta.Country)

	rd := ParseDate(meta.ReportDate)
	require.True(t, rd.Valid)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), rd.Time)
}

func TestDetectHeaderMetaCountryBeforeTable(t *testing.T) {
	head := "Start Date: 01-09-2024 End Date: 30-09-2024 Country Ivory Coast Site ID Site Name Site Class"
	meta := DetectHeaderMeta(head)
	assert.Equal(t, "Ivory Coast", meta.Country)
	assert.Equal(t, "01-09-2024", meta.StartDate)
	assert.Equal(t, "30-09-2024", meta.EndDate)
}

func TestResolveCountryPrecedence(t *testing.T) {
	ctx := ImportContext{Country: "Mali", UserCountry: "Senegal"}
	assert.Equal(t, "Mali", ctx.ResolveCountry("Benin"))

	ctx.Country = ""
	assert.Equal(t, "Benin", ctx.ResolveCountry("Benin"))
	assert.Equal(t, "Senegal", ctx.ResolveCountry(""))
	assert.Equal(t, "Senegal", ctx.ResolveCountry("nan"))

	ctx.UserCountry = ""
	assert.Equal(t, "Unknown", ctx.ResolveCountry(""))
}
