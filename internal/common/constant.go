package common

// AuthHeaderName carries the bearer token on outbound requests.
const AuthHeaderName = "Authorization"

// RequestIDHeaderName carries a per-call correlation id.
const RequestIDHeaderName = "X-Request-ID"

// Session cache keys. They match the keys the web client kept in its
// browser store so a shared cache stays readable by both.
const (
	SessionTokenKey = "authToken"
	SessionUserKey  = "user"
)

// MinPasswordLength is enforced before a password reset is sent.
const MinPasswordLength = 8
