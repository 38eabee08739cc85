package config

const (
	DefaultTimeZone = "Africa/Dakar"

	// Inbox importer: how often the drop directory is scanned for report
	// files pushed by the monitoring platforms.
	DefaultInboxSchedule = "*/5 * * * *"
	DefaultInboxDir      = "./inbox"
	DoneSubdir           = "done"
	FailedSubdir         = "failed"
)
