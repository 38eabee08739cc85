package energy

import "EnerTrack/internal/ingest"

// countryFields maps the country-level monthly sheet. Only the month column
// is mandatory; the metric columns vary between exports.
var countryFields = []ingest.FieldSpec{
	ingest.Required("month", "Month"),
	ingest.Optional("sites_integrated", "# of Sites (Integrated Sites)", "of Sites Integrated Sites"),
	ingest.Optional("sites_monitored", "No of Sites Monitored", "Number of Sites Monitored"),
	ingest.Optional("grid_mwh", "Grid Energy [MWh]"),
	ingest.Optional("solar_mwh", "Solar Energy [MWh]"),
	ingest.Optional("generators_mwh", "Generators Energy [MWh]"),
	ingest.Optional("telecom_mwh", "Telecom Load Energy [MWh]"),
	ingest.Optional("grid_pct", "Grid Energy [%]"),
	ingest.Optional("rer_pct", "RER Renewable Energy Ratio [%]"),
	ingest.Optional("generators_pct", "Generators Energy [%]"),
	ingest.Optional("avg_telecom_load_mw", "Avg Monthly Telecom Load Power [MW]"),
}

func isCountryHeader(norm []string) bool {
	return ingest.RowHasAll(norm, "month") && ingest.RowHasContaining(norm, "grid energy")
}

// siteFields maps the per-site sheet. Statuses and identifiers are
// required, the energy and availability metrics optional.
var siteFields = []ingest.FieldSpec{
	ingest.Required("site_id", "Site ID"),
	ingest.Required("site_name", "Site Name"),
	ingest.Required("grid_status", "GRID"),
	ingest.Required("dg_status", "DG"),
	ingest.Required("solar_status", "Solar"),
	ingest.Optional("grid_kwh", "GRID Energy [kWh]"),
	ingest.Optional("solar_kwh", "SOLAR Energy [kWh]"),
	ingest.Optional("telecom_kwh", "TELECOM LOAD Energy [kWh]"),
	ingest.Optional("grid_pct", "GRID Energy [%]"),
	ingest.Optional("rer_pct", "RER Renewable Energy Ratio [%]"),
	ingest.Optional("router_pct", "Router Monitoring Availability [%]"),
	ingest.Optional("pwm_pct", "PwM Monitoring Availability [%]"),
	ingest.Optional("pwc_pct", "PwC Monitoring Availability [%]"),
}

func isSiteHeader(norm []string) bool {
	return ingest.RowHasAll(norm, "site id", "site name")
}
