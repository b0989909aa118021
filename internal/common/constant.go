// Package common contains shared constants, sentinel errors and small helpers
// used across the tasklist client.
package common

// AuthorizationHeaderName carries the bearer credential on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the credential in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName correlates client log lines with server requests.
const RequestIDHeaderName = "X-Request-ID"

// Well-known page locations used for redirects.
const (
	PathHome     = "/"
	PathLogin    = "/login"
	PathRegister = "/register"
	PathLogout   = "/logout"
	PathTasks    = "/tasks"
)
