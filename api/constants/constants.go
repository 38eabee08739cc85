package constants

// Common error messages
const (
	ErrFileRequired               = "file is required"
	ErrInvalidJSON                = "Invalid JSON"
	ErrMethodNotAllowed           = "Method Not Allowed"
	ErrFailedToParseMultipartForm = "failed to parse multipart form"
	ErrUnsupportedFileType        = "unsupported file type"
	ErrFailedToQuery              = "Failed to query"
	ErrDB                         = "DB error"
)

// DB / SQL error templates
const (
	ErrTxStartFailed  = "failed to start transaction: "
	ErrTxCommitFailed = "failed to commit transaction: "
	ErrQueryFailed    = "query failed: "
)

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "Content-Type"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
	DateFormatAlt  = "02-01-2006"
	DateFormatISO  = "2006-01-02T15:04:05"
)

// NBSP is the non-breaking space that shows up as a thousands separator in
// French spreadsheet exports.
const NBSP = " "
