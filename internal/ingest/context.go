package ingest

import (
	"errors"
	"fmt"
	"time"
)

// ImportContext carries the caller-supplied parameters an import runs under.
// Nothing here is ambient: handlers build it from the request and pass it
// down explicitly.
type ImportContext struct {
	Country     string
	Year        int
	Month       int
	ReportDate  time.Time
	UserCountry string
	UserID      string
}

// ResolveCountry applies the precedence rule: explicit override, then the
// row-level cell, then the importing user's country, then "Unknown".
func (c ImportContext) ResolveCountry(rowCell string) string {
	if c.Country != "" {
		return c.Country
	}
	if s := CleanCell(rowCell); s != "" {
		return s
	}
	if c.UserCountry != "" {
		return c.UserCountry
	}
	return "Unknown"
}

// StructuralError marks a defect in the file itself: missing header,
// unreadable workbook, absent required columns. Structural errors abort the
// import; anything else is a row-level problem that only skips its row.
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string { return e.Msg }

// Structuralf builds a StructuralError.
func Structuralf(format string, args ...interface{}) error {
	return &StructuralError{Msg: fmt.Sprintf(format, args...)}
}

// IsStructural reports whether err is a file-level defect.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// Result accumulates the outcome of one import run.
type Result struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Rowf records a row-level diagnostic. rowNum is 1-based as users see it in
// the spreadsheet.
func (r *Result) Rowf(rowNum int, format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %s", rowNum, fmt.Sprintf(format, args...)))
}

// Total is the number of rows that landed in the database.
func (r *Result) Total() int { return r.Created + r.Updated }
