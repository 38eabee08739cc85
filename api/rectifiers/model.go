package rectifiers

import (
	"time"

	"github.com/shopspring/decimal"

	"EnerTrack/internal/ingest"
)

const valueScale = 6

// maxAbsValue guards the numeric(16,6) column. Values at or past 10^10
// would overflow the column, so they become row diagnostics instead of
// insert failures.
var maxAbsValue = decimal.New(1, 10)

// Reading is one rectifier telemetry sample, e.g.
// avg_im_CurrentRectifierValue = 147.663194 A at a timestamp. Natural key
// is site + parameter + timestamp.
type Reading struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	Country   string `json:"country"`
	SiteID    int64  `json:"site_id"`
	SiteCode  string `json:"site_code"`
	SiteName  string `json:"site_name"`

	ParamName  string              `json:"param_name"`
	ParamValue decimal.NullDecimal `json:"param_value"`
	Measure    string              `json:"measure"`
	MeasuredAt time.Time           `json:"measured_at"`

	SourceFilename string    `json:"source_filename"`
	ImportedAt     time.Time `json:"imported_at"`
}

var readingFields = []ingest.FieldSpec{
	ingest.Optional("country", "Country"),
	ingest.Required("site_id", "Site ID"),
	ingest.Required("param_name", "Param Name"),
	ingest.Required("param_value", "Param Value", "Value"),
	ingest.Optional("measure", "Measure", "Unit"),
	ingest.Required("measured_at", "Date", "Timestamp", "Time"),
}

func isReadingHeader(norm []string) bool {
	return ingest.RowHasAll(norm, "country", "site id", "param name")
}
