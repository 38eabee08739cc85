package energy

import (
	"net/http"
	"strconv"

	"EnerTrack/api"
	"EnerTrack/api/constants"
	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

func contextFromForm(r *http.Request) ingest.ImportContext {
	ictx := ingest.ImportContext{
		Country:     r.FormValue("country"),
		UserCountry: r.FormValue("user_country"),
		UserID:      r.FormValue("user_id"),
	}
	if v := r.FormValue("year"); v != "" {
		ictx.Year, _ = strconv.Atoi(v)
	}
	if v := r.FormValue("month"); v != "" {
		ictx.Month = ingest.MonthIndex(v)
	}
	if v := r.FormValue("report_date"); v != "" {
		if d := ingest.ParseDate(v); d.Valid {
			ictx.ReportDate = d.Time
		}
	}
	return ictx
}

func runImport(w http.ResponseWriter, r *http.Request,
	run func(data []byte, filename string, ictx ingest.ImportContext) (*ImportResult, error)) {
	data, filename, err := api.ReadUploadedFile(r)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrFileRequired)
		return
	}
	res, err := run(data, filename, contextFromForm(r))
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

// ImportCountryHandler serves POST /energy/stats/import.
func ImportCountryHandler(reg registry.Store, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imp := &Importer{Registry: reg, Store: store}
		runImport(w, r, func(data []byte, filename string, ictx ingest.ImportContext) (*ImportResult, error) {
			return imp.ImportCountry(r.Context(), data, filename, ictx)
		})
	}
}

// ImportSitesHandler serves POST /energy/site-stats/import.
func ImportSitesHandler(reg registry.Store, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imp := &Importer{Registry: reg, Store: store}
		runImport(w, r, func(data []byte, filename string, ictx ingest.ImportContext) (*ImportResult, error) {
			return imp.ImportSites(r.Context(), data, filename, ictx)
		})
	}
}

func filterFromQuery(r *http.Request) StatFilter {
	q := r.URL.Query()
	f := StatFilter{Country: q.Get("country"), Query: q.Get("q")}
	if v := q.Get("year"); v != "" {
		f.Year, _ = strconv.Atoi(v)
	}
	if v := q.Get("month"); v != "" {
		f.Month, _ = strconv.Atoi(v)
	}
	return f
}

// ListCountryStatsHandler serves GET /energy/stats.
func ListCountryStatsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.ListCountryStats(r.Context(), filterFromQuery(r))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", stats)
	}
}

// ListSiteStatsHandler serves GET /energy/site-stats.
func ListSiteStatsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.ListSiteStats(r.Context(), filterFromQuery(r))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", stats)
	}
}
