package registry

// Country is a row of the countries referential.
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Site is a row of the sites referential. SiteID is the technical code from
// the sheets (BKL_0086), SiteName the human label (BAKEL01).
type Site struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	Country   string `json:"country"`
	SiteID    string `json:"site_id"`
	SiteName  string `json:"site_name"`
}
