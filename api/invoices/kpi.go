package invoices

import "time"

// Windows are the three KPI ranges the dashboard compares: roughly the
// last three calendar months, the year to date and the whole previous
// year.
type Windows struct {
	Today         time.Time
	Last3Start    time.Time
	YearStart     time.Time
	PrevYearStart time.Time
	PrevYearEnd   time.Time
}

func KPIWindows(today time.Time) Windows {
	y, m, _ := today.Date()
	firstOfMonth := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	return Windows{
		Today:         today,
		Last3Start:    firstOfMonth.AddDate(0, -3, 0),
		YearStart:     yearStart,
		PrevYearStart: time.Date(y-1, 1, 1, 0, 0, 0, 0, time.UTC),
		PrevYearEnd:   yearStart.AddDate(0, 0, -1),
	}
}

// InWindow reports whether d falls in [from, to] by calendar day.
func InWindow(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}
