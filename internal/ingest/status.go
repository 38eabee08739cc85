package ingest

import "strings"

// InstallStatus is the closed set of install/monitoring codes used by the
// site-level report files.
type InstallStatus string

const (
	StatusYes InstallStatus = "YES"
	StatusNo  InstallStatus = "NO"
	StatusNI  InstallStatus = "NI"  // not installed
	StatusNM  InstallStatus = "NM"  // not monitored
	StatusODG InstallStatus = "0DG" // DG not installed
	StatusNC  InstallStatus = "NC"  // not collected
)

// StatusFromCell maps the file variants onto the enum. Anything unknown or
// missing is "not collected".
func StatusFromCell(v string) InstallStatus {
	s := strings.ToUpper(strings.TrimSpace(v))
	switch s {
	case "YES", "Y":
		return StatusYes
	case "NO", "N":
		return StatusNo
	case "NI":
		return StatusNI
	case "NM":
		return StatusNM
	case "0DG", "ODG":
		return StatusODG
	}
	return StatusNC
}
