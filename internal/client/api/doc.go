// Package api is the HTTP transport of the tasklist client.
//
// A Client joins endpoint paths to a fixed base URL, encodes JSON bodies,
// attaches "Authorization: Bearer <credential>" when the session holds one
// and decodes JSON responses.
//
// # Error Handling
//
// Failures come back as one of two typed errors:
//
//   - *TransportError: no response reached the client (dial failure,
//     timeout, cancellation). errors.Is(err, common.ErrUnavailable) holds.
//   - *Error: the server answered with a non-2xx status. Message carries the
//     server's "message" field when present. errors.Is matches
//     common.ErrUnauthorized for 401/403 and common.ErrNotFound for 404.
//
// Message(err, fallback) picks the text a page should show to the user.
//
// The client never writes to the session store; login and logout flows do.
package api
