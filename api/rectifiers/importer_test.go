package rectifiers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

const rectifierCSV = `Rectifier telemetry export;;;;;
Country;Site ID;Param Name;Param Value;Measure;Date
Senegal;DKR001;avg_im_CurrentRectifierValue;147,663194;A;01/03/2024 06:00
Senegal;DKR001;avg_im_CurrentRectifierValue;150,2;A;01/03/2024 12:00
Mali;BKO001;avg_im_VoltageRectifierValue;54.1;V;01/03/2024 06:00
Senegal;DKR002;avg_im_CurrentRectifierValue;99999999999;A;01/03/2024 06:00
Senegal;DKR003;avg_im_CurrentRectifierValue;10;A;not a date
;;;;;
`

func TestImportReadings(t *testing.T) {
	reg := registry.NewMemStore()
	store := NewMemStore()
	imp := &Importer{Registry: reg, Store: store}

	res, err := imp.Import(context.Background(), []byte(rectifierCSV), "rectifier_week9.csv", ingest.ImportContext{})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Upserted)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "row 6 (DKR002)")
	assert.Contains(t, res.Errors[0], "out of range")
	assert.Contains(t, res.Errors[1], "row 7 (DKR003)")
	assert.Contains(t, res.Errors[1], "unreadable date")

	got, err := store.ListReadings(context.Background(), ReadingFilter{SiteID: "DKR001"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest first.
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), got[0].MeasuredAt)
	require.True(t, got[0].ParamValue.Valid)
	assert.Equal(t, "150.2", got[0].ParamValue.Decimal.String())
	assert.Equal(t, "147.663194", got[1].ParamValue.Decimal.String())
	assert.Equal(t, "A", got[0].Measure)
	assert.Equal(t, "Senegal", got[0].Country)

	params, err := store.ListParams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"avg_im_CurrentRectifierValue", "avg_im_VoltageRectifierValue"}, params)
}

func TestImportReadingsIdempotent(t *testing.T) {
	store := NewMemStore()
	imp := &Importer{Registry: registry.NewMemStore(), Store: store}

	_, err := imp.Import(context.Background(), []byte(rectifierCSV), "rectifier_week9.csv", ingest.ImportContext{})
	require.NoError(t, err)
	res, err := imp.Import(context.Background(), []byte(rectifierCSV), "rectifier_week9.csv", ingest.ImportContext{})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Upserted)
	assert.Equal(t, 0, res.Created)

	all, err := store.ListReadings(context.Background(), ReadingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImportReadingsCountryOverride(t *testing.T) {
	store := NewMemStore()
	imp := &Importer{Registry: registry.NewMemStore(), Store: store}

	_, err := imp.Import(context.Background(), []byte(rectifierCSV), "rectifier_week9.csv",
		ingest.ImportContext{Country: "Benin"})
	require.NoError(t, err)

	all, err := store.ListReadings(context.Background(), ReadingFilter{Country: "Benin"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImportReadingsHeaderRequired(t *testing.T) {
	imp := &Importer{Registry: registry.NewMemStore(), Store: NewMemStore()}

	_, err := imp.Import(context.Background(), []byte("foo;bar\n1;2\n"), "junk.csv", ingest.ImportContext{})
	require.Error(t, err)
	assert.True(t, ingest.IsStructural(err))
}
