package pwmreport

import (
	"net/http"

	"EnerTrack/api"
	"EnerTrack/api/constants"
	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

// ImportHandler serves POST /pwm/import.
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
		if v := r.FormValue("report_date"); v != "" {
			if d := ingest.ParseDate(v); d.Valid {
				ictx.ReportDate = d.Time
			}
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

// ListReportsHandler serves GET /pwm/reports.
func ListReportsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := ReportFilter{
			Country: q.Get("country"),
			SiteID:  q.Get("site_id"),
			Query:   q.Get("q"),
		}
		if v := q.Get("date_from"); v != "" {
			if d := ingest.ParseDate(v); d.Valid {
				f.From = d.Time
			}
		}
		if v := q.Get("date_to"); v != "" {
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
