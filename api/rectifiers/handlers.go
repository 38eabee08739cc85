package rectifiers

import (
	"net/http"

	"EnerTrack/api"
	"EnerTrack/api/constants"
	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

// ImportHandler serves POST /rectifiers/import.
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

// ListReadingsHandler serves GET /rectifiers/readings.
func ListReadingsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := ReadingFilter{
			Country: q.Get("country"),
			SiteID:  q.Get("site_id"),
			Param:   q.Get("param"),
			Query:   q.Get("q"),
		}
		if v := q.Get("date_from"); v != "" {
			if d := ingest.ParseDateTime(v); d.Valid {
				f.From = d.Time
			}
		}
		if v := q.Get("date_to"); v != "" {
			if d := ingest.ParseDateTime(v); d.Valid {
				f.To = d.Time
			}
		}
		readings, err := store.ListReadings(r.Context(), f)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", readings)
	}
}

// ListParamsHandler serves GET /rectifiers/params.
func ListParamsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := store.ListParams(r.Context())
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", params)
	}
}
