package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
)

// Authorization scheme
const BearerScheme = "Bearer"

// Common HTTP Error Messages
const (
	MsgUnauthorized    = "Unauthorized"
	MsgBadRequest      = "Invalid request"
	MsgInternalError   = "Internal server error"
	MsgTooManyRequests = "Rate limit exceeded"
)
