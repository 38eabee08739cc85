package powerquality

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"EnerTrack/internal/ingest"
)

const metricScale = 6

// Report is one power quality measurement window for one site: the
// MonoPhase block plus the two TriPhase blocks. Natural key is site +
// begin + end.
type Report struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	Country   string `json:"country"`
	SiteID    int64  `json:"site_id"`
	SiteCode  string `json:"site_code"`

	BeginPeriod time.Time    `json:"begin_period"`
	EndPeriod   time.Time    `json:"end_period"`
	ExtractDate sql.NullTime `json:"extract_date"`

	// Metrics holds every electrical column keyed by its canonical field
	// name (mono_vavg_v, tri_imax_i2_a, tri2_apparent_energy_kvah, ...).
	Metrics map[string]decimal.NullDecimal `json:"metrics"`

	SourceFilename string    `json:"source_filename"`
	ImportedAt     time.Time `json:"imported_at"`
}

// keyFields are the identifying columns of the combined two-row header.
var keyFields = []ingest.FieldSpec{
	ingest.Optional("country", "Country"),
	ingest.Required("site_id", "Site ID"),
	ingest.Required("begin_period", "Begin Period 00h00", "Begin Period"),
	ingest.Required("end_period", "End Period 23h59", "End Period"),
	ingest.Optional("extract_date", "Extract Date"),
}

// metricSpecs declares the full electrical column set block by block. The
// sheets label energies inconsistently ("Active Energy Consumed" vs "Active
// Energy"), hence the candidate pairs.
func metricSpecs() []ingest.FieldSpec {
	var specs []ingest.FieldSpec
	add := func(name string, candidates ...string) {
		specs = append(specs, ingest.Optional(name, candidates...))
	}

	// MonoPhase
	for _, q := range [][2]string{
		{"vmin_v", "vmin v"}, {"vavg_v", "vavg v"}, {"vmax_v", "vmax v"},
		{"imin_a", "imin a"}, {"iavg_a", "iavg a"}, {"imax_a", "imax a"},
		{"pmin_kw", "pmin kw"}, {"pavg_kw", "pavg kw"}, {"pmax_kw", "pmax kw"},
	} {
		add("mono_"+q[0], "monophase "+q[1])
	}
	add("mono_total_energy_kwh", "monophase total energy kwh")
	add("mono_energy_consumed_kwh", "monophase energy consumed kwh")

	// TriPhase and TriPhase 2
	for _, blk := range [][2]string{{"tri", "triphase"}, {"tri2", "triphase 2"}} {
		pfx, grp := blk[0], blk[1]
		for i := 1; i <= 3; i++ {
			for _, agg := range []string{"vmin", "vavg", "vmax"} {
				add(fmt.Sprintf("%s_%s_u%d_v", pfx, agg, i), fmt.Sprintf("%s %s u%d v", grp, agg, i))
			}
		}
		for i := 1; i <= 3; i++ {
			for _, agg := range []string{"imin", "iavg", "imax"} {
				add(fmt.Sprintf("%s_%s_i%d_a", pfx, agg, i), fmt.Sprintf("%s %s i%d a", grp, agg, i))
			}
		}
		for _, agg := range []string{"pmin", "pavg", "pmax"} {
			add(fmt.Sprintf("%s_%s_kw", pfx, agg), fmt.Sprintf("%s %s kw", grp, agg))
		}
		add(pfx+"_total_energy_kwh", grp+" total energy kwh")
		add(pfx+"_active_energy_kwh",
			grp+" active energy consumed kwh", grp+" active energy kwh")
		add(pfx+"_reactive_energy_kvarh",
			grp+" reactive energy consumed kvarh", grp+" reactive energy kvarh")
		add(pfx+"_apparent_energy_kvah",
			grp+" apparent energy produced kvah", grp+" apparent energy kvah")
	}
	return specs
}

var metricFields = metricSpecs()

// MetricFieldNames is the canonical column order used by the store.
func MetricFieldNames() []string {
	out := make([]string, len(metricFields))
	for i, s := range metricFields {
		out[i] = s.Name
	}
	return out
}

func isReportHeader(norm []string) bool {
	return ingest.RowHasAll(norm, "country", "site id") &&
		ingest.RowHasAny(norm, "begin period 00h00", "begin period")
}
