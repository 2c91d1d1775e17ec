// Package api is the single egress point for every call the client makes to
// the documentation backend.
//
// # Overview
//
// Gateway knows the backend base address and header conventions. Each
// backend resource has one typed method (auth, uploads, documents,
// projects, summarization) which resolves with the decoded response body or
// fails with an explicit error value.
//
// # Credentials
//
// All requests pass through a RoundTripper that sets
// "Authorization: Bearer <token>" from the configured TokenSource, or omits
// the header when no token is held. Callers never attach it themselves.
// WithToken pins a single call to a specific token. When a request that
// needed authentication and carried a token comes back 401, the
// unauthorized handler is told which token failed.
//
// # Errors
//
// Backend failures are surfaced verbatim as *Error (status, detail, raw
// body); transport failures wrap ErrUnavailable. 401/403 responses match
// ErrUnauthorized with errors.Is. Message picks the backend detail or a
// caller-supplied fallback for display.
//
// There is no retry, caching or de-duplication: each call is one round trip.
package api
