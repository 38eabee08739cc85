package billing

import (
	"net/http"
	"strconv"

	"EnerTrack/api"
	"EnerTrack/api/constants"
	"EnerTrack/internal/ingest"
)

// ImportHandler serves POST /billing/import: multipart upload of one
// billing workbook.
func ImportHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, filename, err := api.ReadUploadedFile(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrFileRequired)
			return
		}

		ictx := ingest.ImportContext{
			Country: r.FormValue("country"),
			UserID:  r.FormValue("user_id"),
		}
		imp := &Importer{Store: store}
		res, err := imp.Import(r.Context(), data, filename, ictx)
		if err != nil {
			status := http.StatusInternalServerError
			if ingest.IsStructural(err) {
				status = http.StatusUnprocessableEntity
			}
			api.RespondWithError(w, status, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", res)
	}
}

// ListBatchesHandler serves GET /billing/batches.
func ListBatchesHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batches, err := store.ListBatches(r.Context())
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", batches)
	}
}

// ListInvoicesHandler serves GET /billing/invoices?search=.
func ListInvoicesHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invs, err := store.ListInvoices(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", invs)
	}
}

// ListAllocationsHandler serves GET /billing/monthly with year/month/
// account/facture filters.
func ListAllocationsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := AllocationFilter{
			Account: q.Get("account"),
			Invoice: q.Get("facture"),
		}
		if v := q.Get("year"); v != "" {
			f.Year, _ = strconv.Atoi(v)
		}
		if v := q.Get("month"); v != "" {
			f.Month, _ = strconv.Atoi(v)
		}
		allocs, err := store.ListAllocations(r.Context(), f)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", allocs)
	}
}
