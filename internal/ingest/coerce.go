package ingest

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"EnerTrack/api/constants"

	"github.com/shopspring/decimal"
)

// sentinelCodes are the domain codes meaning "not installed / not measured /
// not applicable". They are folded to empty before any numeric parse so the
// numeric coercers never have to know about them.
var sentinelCodes = map[string]bool{
	"":              true,
	"NAN":           true,
	"NONE":          true,
	"NULL":          true,
	"#N/A":          true,
	"N/A":           true,
	"NA":            true,
	"N A":           true,
	"NI":            true,
	"NM":            true,
	"NC":            true,
	"NO LAST VALUE": true,
}

// CleanCell trims a raw cell, collapses whitespace (including NBSP) and
// returns "" when the cell holds a sentinel code.
func CleanCell(v string) string {
	v = strings.ReplaceAll(v, constants.NBSP, " ")
	v = strings.Join(strings.Fields(v), " ")
	if sentinelCodes[strings.ToUpper(v)] {
		return ""
	}
	return v
}

// ParseString returns the cleaned cell as a nullable string.
func ParseString(v string) sql.NullString {
	s := CleanCell(v)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// cleanNumber strips thousands separators and settles the comma-versus-dot
// question: with both present the commas are separators, a lone decimal-style
// comma is the decimal point, and comma-grouped digits are separators.
func cleanNumber(v string) string {
	s := CleanCell(v)
	if s == "" {
		return ""
	}
	spaceGrouped := strings.Contains(s, " ")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		switch {
		case strings.Contains(s, "."):
			s = strings.ReplaceAll(s, ",", "")
		case spaceGrouped:
			// spaces already group the thousands, so the comma is decimal
			s = strings.Replace(s, ",", ".", 1)
		case strings.Count(s, ",") == 1 && len(s)-strings.Index(s, ",")-1 != 3:
			s = strings.Replace(s, ",", ".", 1)
		default:
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}

// ParseDecimal coerces a raw cell into a decimal rounded to the given number
// of places. Empty, sentinel and algebraically invalid input all come back
// null; this never fails.
func ParseDecimal(v string, places int32) decimal.NullDecimal {
	s := cleanNumber(v)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d.Round(places), Valid: true}
}

// ParseInt coerces via float parse then truncation, so "12.0" and "1,234"
// both land on an integer.
func ParseInt(v string) sql.NullInt64 {
	s := cleanNumber(v)
	if s == "" {
		return sql.NullInt64{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(f), Valid: true}
}

// ParseFloat is ParseInt without the truncation.
func ParseFloat(v string) sql.NullFloat64 {
	s := cleanNumber(v)
	if s == "" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// PctGuard parses a percentage but refuses absurd magnitudes that would
// overflow the storage precision (numeric(6,1) and friends).
func PctGuard(v string, places int32) decimal.NullDecimal {
	d := ParseDecimal(v, places)
	if !d.Valid {
		return d
	}
	if d.Decimal.Abs().GreaterThanOrEqual(decimal.NewFromInt(100000)) {
		return decimal.NullDecimal{}
	}
	return d
}

// Date layouts tried in order. dd/mm variants MUST come before anything
// month-first: these are French exports.
var dateLayouts = []string{
	"02/01/2006",
	constants.DateFormat,
	constants.DateFormatAlt,
	"2006/01/02",
	"02.01.2006",
	"2006.01.02",
	constants.DateTimeFormat,
	"2/1/2006",
	"02/01/06",
	"2-1-2006",
	"02/01/2006 15:04:05",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02/01/2006 15:04",
	constants.DateFormatISO,
	time.RFC3339,
}

// ParseDate coerces strings in the documented layouts, falling back to an
// Excel serial number guarded to the plausible range 30000..60000 so small
// integers are not mistaken for dates. Time-of-day is dropped.
func ParseDate(v string) sql.NullTime {
	t := ParseDateTime(v)
	if !t.Valid {
		return t
	}
	y, m, d := t.Time.Date()
	return sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// ParseDateTime is the day-first tolerant datetime parser shared by the
// period and timestamp columns.
func ParseDateTime(v string) sql.NullTime {
	s := CleanCell(v)
	if s == "" {
		return sql.NullTime{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return sql.NullTime{Time: t.UTC(), Valid: true}
		}
	}
	if t, ok := parseExcelSerial(s); ok {
		return sql.NullTime{Time: t, Valid: true}
	}
	return sql.NullTime{}
}

// parseExcelSerial converts an Excel day count (epoch 1899-12-30) into a
// time, accepting only serials between 30000 and 60000.
func parseExcelSerial(s string) (time.Time, bool) {
	s = strings.Replace(s, ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, false
	}
	if f < 30000 || f > 60000 {
		return time.Time{}, false
	}
	days := int(f)
	frac := f - float64(days)
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	t := base.AddDate(0, 0, days)
	return t.Add(time.Duration(frac * float64(24*time.Hour))), true
}

// monthsByName tolerates the "Januray" typo seen in real report files.
var monthsByName = map[string]int{
	"january": 1, "januray": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8, "september": 9,
	"october": 10, "november": 11, "december": 12,
}

// MonthIndex resolves a month cell ("July", "jul", "07") to 1..12, or 0.
func MonthIndex(v string) int {
	s := strings.ToLower(CleanCell(v))
	if s == "" {
		return 0
	}
	if m, ok := monthsByName[s]; ok {
		return m
	}
	if len(s) >= 3 {
		abbr := strings.ToUpper(s[:1]) + s[1:3]
		if t, err := time.Parse("Jan", abbr); err == nil {
			return int(t.Month())
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return n
	}
	return 0
}

// HHMMToMinutes converts a "HH:MM" duration cell to whole minutes, with a
// plain numeric fallback.
func HHMMToMinutes(v string) sql.NullInt64 {
	s := CleanCell(v)
	if s == "" {
		return sql.NullInt64{}
	}
	if strings.Count(s, ":") == 1 {
		parts := strings.SplitN(s, ":", 2)
		h, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
		m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errH == nil && errM == nil {
			return sql.NullInt64{Int64: int64(h*60 + m), Valid: true}
		}
		return sql.NullInt64{}
	}
	if f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil {
		return sql.NullInt64{Int64: int64(f), Valid: true}
	}
	return sql.NullInt64{}
}
