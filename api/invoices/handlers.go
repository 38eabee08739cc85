package invoices

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"EnerTrack/api"
	"EnerTrack/api/constants"
	"EnerTrack/api/registry"
	"EnerTrack/internal/ingest"
)

// ImportHandler serves POST /invoices/import: synchronous import of one
// finance export.
func ImportHandler(reg registry.Store, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, filename, err := api.ReadUploadedFile(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrFileRequired)
			return
		}
		imp := &Importer{Registry: reg, Store: store}
		res, err := imp.Import(r.Context(), data, filename)
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

// AsyncImportHandler serves POST /invoices/import-async: returns a task id
// immediately and runs the import in the background.
func AsyncImportHandler(runner *TaskRunner, reg registry.Store, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, filename, err := api.ReadUploadedFile(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrFileRequired)
			return
		}
		imp := &Importer{Registry: reg, Store: store}
		id := runner.Submit(imp, data, filename)
		w.Header().Set("Content-Type", constants.ContentTypeJSON)
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "task_id": id})
	}
}

// ImportStatusHandler serves GET /invoices/import-status/{task_id}.
func ImportStatusHandler(runner *TaskRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["task_id"]
		st, ok := runner.Status(id)
		if !ok {
			api.RespondWithError(w, http.StatusNotFound, "unknown task id")
			return
		}
		api.RespondWithPayload(w, true, "", st)
	}
}

func filterFromQuery(r *http.Request) FactureFilter {
	q := r.URL.Query()
	f := FactureFilter{Country: q.Get("country")}
	if v := q.Get("start_date"); v != "" {
		if d := ingest.ParseDate(v); d.Valid {
			f.From = d.Time
		}
	}
	if v := q.Get("end_date"); v != "" {
		if d := ingest.ParseDate(v); d.Valid {
			f.To = d.Time
		}
	}
	return f
}

// ListFacturesHandler serves GET /invoices, newest first.
func ListFacturesHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		factures, err := store.ListFactures(r.Context(), filterFromQuery(r))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", factures)
	}
}

// BetweenHandler serves GET /invoices/between: the raw list between two
// dates, grouped by site name then newest first.
func BetweenHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := filterFromQuery(r)
		f.BySiteName = true
		factures, err := store.ListFactures(r.Context(), f)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", factures)
	}
}

// StatsHandler serves GET /invoices/stats: per-site averages between two
// dates.
func StatsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.SiteStats(r.Context(), filterFromQuery(r))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", stats)
	}
}

// KPIStatsHandler serves GET /invoices/kpi-stats: rolling per-site
// averages for the dashboard.
func KPIStatsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kpis, err := store.SiteKPIs(r.Context(), r.URL.Query().Get("country"), time.Now().UTC())
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", kpis)
	}
}
