package constants

// Session and context keys
const (
	SessionCookieName = "hr_session"
	ContextKeyUserID  = "user_id"
	ContextKeyRole    = "role"
	ContextKeyTask    = "task"
	ContextKeyRequest = "request_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Task messages
const (
	DefaultRecentMessages = 50
	MaxRecentMessages     = 200
	MaxMessageLength      = 4000
)

const MinPasswordLength = 8

// Documents
const MaxUploadSize = 25 << 20
