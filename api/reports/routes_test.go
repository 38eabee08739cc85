package reports

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EnerTrack/api/billing"
	"EnerTrack/api/energy"
	"EnerTrack/api/invoices"
	"EnerTrack/api/powerquality"
	"EnerTrack/api/pwmreport"
	"EnerTrack/api/rectifiers"
	"EnerTrack/api/registry"
)

func testStores() Stores {
	return Stores{
		Registry:     registry.NewMemStore(),
		Billing:      billing.NewMemStore(),
		Energy:       energy.NewMemStore(),
		PowerQuality: powerquality.NewMemStore(),
		PWM:          pwmreport.NewMemStore(),
		Rectifiers:   rectifiers.NewMemStore(),
		Invoices:     invoices.NewMemStore(),
		Tasks:        invoices.NewTaskRunner(),
	}
}

func uploadRequest(t *testing.T, url, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	router := NewRouter(testStores())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRectifierImportRoundTrip(t *testing.T) {
	router := NewRouter(testStores())
	csv := "Country;Site ID;Param Name;Param Value;Measure;Date\n" +
		"Senegal;DKR001;avg_im_CurrentRectifierValue;147,66;A;01/03/2024 06:00\n"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/rectifiers/import", "rectifier_week9.csv", []byte(csv)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Rows    struct {
			Upserted int `json:"upserted"`
			Created  int `json:"created"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Rows.Upserted)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rectifiers/readings?site_id=DKR001", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "avg_im_CurrentRectifierValue")
}

func TestImportRejectsMissingFile(t *testing.T) {
	router := NewRouter(testStores())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rectifiers/import", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportRejectsStructuralDefect(t *testing.T) {
	router := NewRouter(testStores())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/rectifiers/import", "rectifier_junk.csv", []byte("foo;bar\n1;2\n")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestInvoiceAsyncImport(t *testing.T) {
	stores := testStores()
	router := NewRouter(stores)

	csv := "SITE;FACTURE;DATE FACTURE;MONTANT HT\nDakar North;F-1;15/01/2024;100\n"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/invoices/import-async", "factures_jan.csv", []byte(csv)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp struct {
		TaskID string `json:"task_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.TaskID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/import-status/"+resp.TaskID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/import-status/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
