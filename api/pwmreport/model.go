package pwmreport

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"EnerTrack/internal/ingest"
)

const metricScale = 6

// Report is one weekly PWM power measurement line for a site. Natural key
// is site + period start + period end; the period comes from the labelled
// pre-header, not from the data rows.
type Report struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	Country   string `json:"country"`
	SiteID    int64  `json:"site_id"`
	SiteCode  string `json:"site_code"`

	ReportDate  sql.NullTime `json:"report_date"`
	PeriodStart time.Time    `json:"period_start"`
	PeriodEnd   time.Time    `json:"period_end"`

	SiteName  string         `json:"site_name"`
	SiteClass sql.NullString `json:"site_class"`

	GridStatus  ingest.InstallStatus `json:"grid_status"`
	DGStatus    ingest.InstallStatus `json:"dg_status"`
	SolarStatus ingest.InstallStatus `json:"solar_status"`

	TypologyPowerW sql.NullInt64       `json:"typology_power_w"`
	GridActAvgW    decimal.NullDecimal `json:"grid_act_pwm_avg_w"`

	// DC rectifier feeds, averaged power in watts. Index 0 is DC1.
	DCAvgW [12]decimal.NullDecimal `json:"dc_pwm_avg_w"`

	TotalPwmMinW decimal.NullDecimal `json:"total_pwm_min_w"`
	TotalPwmAvgW decimal.NullDecimal `json:"total_pwm_avg_w"`
	TotalPwmMaxW decimal.NullDecimal `json:"total_pwm_max_w"`
	TotalPwcAvgW decimal.NullDecimal `json:"total_pwc_avg_load_w"`

	DCUptimePct     decimal.NullDecimal `json:"dc_pwm_avg_uptime_pct"`
	PwcUptimePct    decimal.NullDecimal `json:"pwc_uptime_pct"`
	RouterUptimePct decimal.NullDecimal `json:"router_uptime_pct"`

	TypologyVsRealPct   decimal.NullDecimal `json:"typology_load_vs_pwm_real_load_pct"`
	GridAvailabilityPct decimal.NullDecimal `json:"grid_availability_pct"`

	GridCuts        sql.NullInt64 `json:"number_grid_cuts"`
	GridCutsMinutes sql.NullInt64 `json:"total_grid_cuts_minutes"`

	SourceFilename string    `json:"source_filename"`
	ImportedAt     time.Time `json:"imported_at"`
}

// reportFields maps the wide PWM table. Units are inconsistent between
// exports, so every metric lists both the bare and the unit-suffixed label.
var reportFields = buildReportFields()

func buildReportFields() []ingest.FieldSpec {
	specs := []ingest.FieldSpec{
		ingest.Optional("country", "Country"),
		ingest.Required("site_id", "Site ID"),
		ingest.Optional("site_name", "Site Name"),
		ingest.Optional("site_class", "Site Class"),
		ingest.Optional("grid_status", "GRID"),
		ingest.Optional("dg_status", "DG"),
		ingest.Optional("solar_status", "Solar"),
		ingest.Optional("typology_power", "Typology Power [W]", "Typology Power"),
		ingest.Required("grid_act_avg", "GRID ACT PWM Average Power [W]", "GRID ACT PWM Average Power"),
		ingest.Optional("total_pwm_min", "Total PWM Minimum Power [W]", "Total PWM Minimum Power"),
		ingest.Optional("total_pwm_avg", "Total PWM Average Power [W]", "Total PWM Average Power"),
		ingest.Optional("total_pwm_max", "Total PWM Maximum Power [W]", "Total PWM Maximum Power"),
		ingest.Optional("total_pwc_avg", "Total PWC Average Load Power [W]", "Total PWC Average Load Power"),
		ingest.Optional("dc_uptime", "DC PWM Average Up Time [%]", "DC PWM Average Up Time"),
		ingest.Optional("pwc_uptime", "PWC Up Time [%]", "PWC Up Time"),
		ingest.Optional("router_uptime", "Router Up Time [%]", "Router Up Time"),
		ingest.Optional("typology_vs_real", "Typology Load Power VS PWM Real Load Power [%]", "Typology Load Power VS PWM Real Load Power"),
		ingest.Optional("grid_availability", "GRID Availability [%]", "GRID Availability"),
		ingest.Optional("grid_cuts", "Number of GRID Cuts [Cuts]", "Number of GRID Cuts"),
		ingest.Optional("grid_cuts_duration", "Total GRID Cuts Duration [HH:mm]", "Total GRID Cuts Duration"),
	}
	for k := 1; k <= 12; k++ {
		specs = append(specs, ingest.Optional(
			fmt.Sprintf("dc%d_avg", k),
			fmt.Sprintf("DC%d PWM Average Power [W]", k),
			fmt.Sprintf("DC%d PWM Average Power", k),
		))
	}
	return specs
}

func isReportHeader(norm []string) bool {
	return ingest.RowHasAll(norm, "site id") &&
		ingest.RowHasContaining(norm, "grid act pwm average power")
}
