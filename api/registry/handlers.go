package registry

import (
	"net/http"

	"EnerTrack/api"
)

// ListCountriesHandler serves GET /countries.
func ListCountriesHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		countries, err := store.ListCountries(r.Context())
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", countries)
	}
}

// ListSitesHandler serves GET /sites, optionally filtered by ?country=.
func ListSitesHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sites, err := store.ListSites(r.Context(), r.URL.Query().Get("country"))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", sites)
	}
}
