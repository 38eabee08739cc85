package ingest

import (
	"fmt"
	"regexp"
	"strings"
)

// accentFold maps the accented characters seen in French report headers to
// plain ASCII so "CONS FACTURÉE" and "cons facturee" normalize identically.
var accentFold = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a", "ä", "a",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
	"°", "", "’", "'",
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeLabel lowercases a header label, folds accents and collapses
// every non-alphanumeric run to a single space. Unit brackets reduce to
// their contents, which keeps "GRID Energy [kWh]" and "GRID Energy [%]"
// distinct: the former normalizes to "grid energy kwh", the latter to
// "grid energy".
func NormalizeLabel(s string) string {
	s = strings.ToLower(s)
	s = accentFold.Replace(s)
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeRow normalizes every cell of a grid row.
func NormalizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = NormalizeLabel(c)
	}
	return out
}

// RowHasAll reports whether every keyword appears as a whole normalized cell.
func RowHasAll(norm []string, keys ...string) bool {
	for _, k := range keys {
		found := false
		for _, c := range norm {
			if c == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RowHasContaining reports whether any normalized cell contains the token.
func RowHasContaining(norm []string, substr string) bool {
	for _, c := range norm {
		if strings.Contains(c, substr) {
			return true
		}
	}
	return false
}

// RowHasAny reports whether at least one of the keywords appears as a whole
// normalized cell.
func RowHasAny(norm []string, keys ...string) bool {
	for _, k := range keys {
		for _, c := range norm {
			if c == k {
				return true
			}
		}
	}
	return false
}

// LocateHeader scans the first scanMax rows for the real column-header row
// and returns its index. The first matching row wins. A miss returns -1;
// callers turn that into a structural error naming the expected keywords.
func LocateHeader(rows [][]string, scanMax int, match func(norm []string) bool) int {
	if scanMax > len(rows) {
		scanMax = len(rows)
	}
	for i := 0; i < scanMax; i++ {
		if match(NormalizeRow(rows[i])) {
			return i
		}
	}
	return -1
}

// CombineHeaderRows builds effective column names from a two-row header: the
// group row ("MonoPhase", "TriPhase", "TriPhase 2") is forward-filled across
// blank cells, then concatenated with the sub-label row.
func CombineHeaderRows(group, sub []string) []string {
	n := len(group)
	if len(sub) > n {
		n = len(sub)
	}
	out := make([]string, n)
	current := ""
	for i := 0; i < n; i++ {
		g := ""
		if i < len(group) {
			g = strings.TrimSpace(group[i])
		}
		if g != "" && !strings.EqualFold(g, "nan") && !strings.EqualFold(g, "none") {
			current = g
		}
		s := ""
		if i < len(sub) {
			s = strings.TrimSpace(sub[i])
		}
		switch {
		case current != "" && s != "":
			out[i] = current + " " + s
		case s != "":
			out[i] = s
		default:
			out[i] = current
		}
	}
	return out
}

// HeadText joins the first n rows into the blob used for country/year/month
// detection.
func HeadText(rows [][]string, n int) string {
	if n > len(rows) {
		n = len(rows)
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		for _, c := range rows[i] {
			c = strings.TrimSpace(c)
			if c == "" || strings.EqualFold(c, "nan") {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(c)
		}
	}
	return b.String()
}

var yearRe = regexp.MustCompile(`\b(20\d{2})\b`)

// DetectYear pulls the first 20xx year token out of the pre-header text.
func DetectYear(head string) int {
	m := yearRe.FindStringSubmatch(head)
	if m == nil {
		return 0
	}
	var y int
	fmt.Sscanf(m[1], "%d", &y)
	return y
}

// DetectMonth looks for a month name anywhere in the pre-header text.
func DetectMonth(head string) int {
	for _, tok := range strings.Fields(head) {
		if m := MonthIndex(tok); m != 0 {
			return m
		}
	}
	return 0
}

// DetectCountry applies the title-cased-token heuristic: the first word that
// starts uppercase, continues lowercase and is at least three letters long.
func DetectCountry(head string) string {
	for _, tok := range strings.Fields(head) {
		if len(tok) < 3 {
			continue
		}
		r := []rune(tok)
		if r[0] < 'A' || r[0] > 'Z' {
			continue
		}
		rest := string(r[1:])
		if rest != strings.ToLower(rest) {
			continue
		}
		if strings.IndexFunc(tok, func(c rune) bool { return c >= '0' && c <= '9' }) >= 0 {
			continue
		}
		if MonthIndex(tok) != 0 {
			continue
		}
		return tok
	}
	return ""
}

var (
	reportDateRe = regexp.MustCompile(`(?i)report\s*date[: ]+([0-9/.\- :apmAPM]+)`)
	startDateRe  = regexp.MustCompile(`(?i)start\s*date[: ]+([0-9/.\- :]+)`)
	endDateRe    = regexp.MustCompile(`(?i)end\s*date[: ]+([0-9/.\- :]+)`)
	countryLblRe = regexp.MustCompile(`(?i)\bcountry\b[\s:]+([A-Za-z ]+)`)
)

// HeaderMeta is what the labelled pre-header lines of a PWM-style report
// carry.
type HeaderMeta struct {
	ReportDate string
	StartDate  string
	EndDate    string
	Country    string
}

// DetectHeaderMeta extracts the "Report Date: ... Start Date: ... End Date:
// ... Country ..." metadata from the pre-header text. Missing pieces stay
// empty.
func DetectHeaderMeta(head string) HeaderMeta {
	var meta HeaderMeta
	if m := reportDateRe.FindStringSubmatch(head); m != nil {
		meta.ReportDate = strings.TrimSpace(m[1])
	}
	if m := startDateRe.FindStringSubmatch(head); m != nil {
		meta.StartDate = strings.TrimSpace(m[1])
	}
	if m := endDateRe.FindStringSubmatch(head); m != nil {
		meta.EndDate = strings.TrimSpace(m[1])
	}
	if m := countryLblRe.FindStringSubmatch(head); m != nil {
		c := strings.TrimSpace(m[1])
		// The head text is space-joined, so the capture can run into the
		// next labelled line or the table header. Cut it there.
		lc := strings.ToLower(c)
		for _, stop := range []string{"report date", "start date", "end date", "country", "site id", "site name"} {
			if i := strings.Index(lc, stop); i >= 0 {
				c = strings.TrimSpace(c[:i])
				lc = lc[:i]
			}
		}
		meta.Country = c
	}
	return meta
}
