package energy

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"EnerTrack/internal/ingest"
)

// CountryMonthlyStat is one month of the country-level energy efficiency
// report.
type CountryMonthlyStat struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	Country   string `json:"country"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`

	SitesIntegrated sql.NullInt64 `json:"sites_integrated"`
	SitesMonitored  sql.NullInt64 `json:"sites_monitored"`

	GridMWh       decimal.NullDecimal `json:"grid_mwh"`
	SolarMWh      decimal.NullDecimal `json:"solar_mwh"`
	GeneratorsMWh decimal.NullDecimal `json:"generators_mwh"`
	TelecomMWh    decimal.NullDecimal `json:"telecom_mwh"`

	GridPct       decimal.NullDecimal `json:"grid_pct"`
	RERPct        decimal.NullDecimal `json:"rer_pct"`
	GeneratorsPct decimal.NullDecimal `json:"generators_pct"`

	AvgTelecomLoadMW decimal.NullDecimal `json:"avg_telecom_load_mw"`

	SourceFilename string    `json:"source_filename"`
	ImportedAt     time.Time `json:"imported_at"`
}

// SiteMonthlyStat is the per-site monthly energy efficiency snapshot.
type SiteMonthlyStat struct {
	ID       int64  `json:"id"`
	SiteID   int64  `json:"site_id"`
	SiteCode string `json:"site_code"`
	SiteName string `json:"site_name"`
	Country  string `json:"country"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`

	GridStatus  ingest.InstallStatus `json:"grid_status"`
	DGStatus    ingest.InstallStatus `json:"dg_status"`
	SolarStatus ingest.InstallStatus `json:"solar_status"`

	GridEnergyKWh  sql.NullInt64 `json:"grid_energy_kwh"`
	SolarEnergyKWh sql.NullInt64 `json:"solar_energy_kwh"`
	TelecomLoadKWh sql.NullInt64 `json:"telecom_load_kwh"`

	GridEnergyPct decimal.NullDecimal `json:"grid_energy_pct"`
	RERPct        decimal.NullDecimal `json:"rer_pct"`

	RouterAvailabilityPct decimal.NullDecimal `json:"router_availability_pct"`
	PwmAvailabilityPct    decimal.NullDecimal `json:"pwm_availability_pct"`
	PwcAvailabilityPct    decimal.NullDecimal `json:"pwc_availability_pct"`

	SourceFilename string    `json:"source_filename"`
	ImportedAt     time.Time `json:"imported_at"`
}
