package shared

const (
	AdminID     = "admin_id"
	ClientIPKey = "client_ip"

	SessionCookieName = "admin_session"

	BlockTypeIP    = "ip"
	BlockTypeEmail = "email"

	ChatErrServiceUnavailable = "SERVICE_UNAVAILABLE"
	ChatErrRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ChatErrInvalidInput       = "INVALID_INPUT"
)
