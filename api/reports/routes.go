package reports

import (
	"net/http"

	"github.com/gorilla/mux"

	"EnerTrack/api"
	"EnerTrack/api/billing"
	"EnerTrack/api/energy"
	"EnerTrack/api/invoices"
	"EnerTrack/api/powerquality"
	"EnerTrack/api/pwmreport"
	"EnerTrack/api/rectifiers"
	"EnerTrack/api/registry"
)

// Stores bundles every domain store the HTTP surface serves.
type Stores struct {
	Registry     registry.Store
	Billing      billing.Store
	Energy       energy.Store
	PowerQuality powerquality.Store
	PWM          pwmreport.Store
	Rectifiers   rectifiers.Store
	Invoices     invoices.Store
	Tasks        *invoices.TaskRunner
}

// NewRouter mounts every import and query endpoint.
func NewRouter(s Stores) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		api.RespondWithResult(w, true, "")
	}).Methods("GET")

	reg := r.PathPrefix("/registry").Subrouter()
	reg.HandleFunc("/countries", registry.ListCountriesHandler(s.Registry)).Methods("GET")
	reg.HandleFunc("/sites", registry.ListSitesHandler(s.Registry)).Methods("GET")

	b := r.PathPrefix("/billing").Subrouter()
	b.HandleFunc("/import", billing.ImportHandler(s.Billing)).Methods("POST")
	b.HandleFunc("/batches", billing.ListBatchesHandler(s.Billing)).Methods("GET")
	b.HandleFunc("/invoices", billing.ListInvoicesHandler(s.Billing)).Methods("GET")
	b.HandleFunc("/allocations", billing.ListAllocationsHandler(s.Billing)).Methods("GET")

	e := r.PathPrefix("/energy").Subrouter()
	e.HandleFunc("/import-country", energy.ImportCountryHandler(s.Registry, s.Energy)).Methods("POST")
	e.HandleFunc("/import-sites", energy.ImportSitesHandler(s.Registry, s.Energy)).Methods("POST")
	e.HandleFunc("/country-stats", energy.ListCountryStatsHandler(s.Energy)).Methods("GET")
	e.HandleFunc("/site-stats", energy.ListSiteStatsHandler(s.Energy)).Methods("GET")

	pq := r.PathPrefix("/power-quality").Subrouter()
	pq.HandleFunc("/import", powerquality.ImportHandler(s.Registry, s.PowerQuality)).Methods("POST")
	pq.HandleFunc("/reports", powerquality.ListReportsHandler(s.PowerQuality)).Methods("GET")

	pwm := r.PathPrefix("/pwm").Subrouter()
	pwm.HandleFunc("/import", pwmreport.ImportHandler(s.Registry, s.PWM)).Methods("POST")
	pwm.HandleFunc("/reports", pwmreport.ListReportsHandler(s.PWM)).Methods("GET")

	rect := r.PathPrefix("/rectifiers").Subrouter()
	rect.HandleFunc("/import", rectifiers.ImportHandler(s.Registry, s.Rectifiers)).Methods("POST")
	rect.HandleFunc("/readings", rectifiers.ListReadingsHandler(s.Rectifiers)).Methods("GET")
	rect.HandleFunc("/params", rectifiers.ListParamsHandler(s.Rectifiers)).Methods("GET")

	inv := r.PathPrefix("/invoices").Subrouter()
	inv.HandleFunc("/import", invoices.ImportHandler(s.Registry, s.Invoices)).Methods("POST")
	inv.HandleFunc("/import-async", invoices.AsyncImportHandler(s.Tasks, s.Registry, s.Invoices)).Methods("POST")
	inv.HandleFunc("/import-status/{task_id}", invoices.ImportStatusHandler(s.Tasks)).Methods("GET")
	inv.HandleFunc("/kpi-stats", invoices.KPIStatsHandler(s.Invoices)).Methods("GET")
	inv.HandleFunc("/stats", invoices.StatsHandler(s.Invoices)).Methods("GET")
	inv.HandleFunc("/between", invoices.BetweenHandler(s.Invoices)).Methods("GET")
	inv.HandleFunc("", invoices.ListFacturesHandler(s.Invoices)).Methods("GET")

	return r
}
