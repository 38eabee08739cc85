package powerquality

import (
	"net/http"

	"EnerTrack/api"
	"EnerTrack/api/constants"
	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

// ImportHandler serves POST /power-quality/import.
func ImportHandler(reg registry.Store, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, filename, err := api.ReadUploadedFile(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrFileRequired)
			return
		}
		ictx := ingest.ImportContext{
			Country:     r.FormValue("country"),
			UserCountry: r.FormValue("user_country"),
			UserID:      r.FormValue("user_id"),
		}
		imp := &Importer{Registry: reg, Store: store}
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

// ListReportsHandler serves GET /power-quality/reports.
func ListReportsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := ReportFilter{Country: q.Get("country"), Site: q.Get("site")}
		if v := q.Get("from"); v != "" {
			if d := ingest.ParseDate(v); d.Valid {
				f.From = d.Time
			}
		}
		if v := q.Get("to"); v != "" {
			if d := ingest.ParseDate(v); d.Valid {
				f.To = d.Time
			}
		}
		reports, err := store.ListReports(r.Context(), f)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", reports)
	}
}
