package sketchfab

import "errors"

// Failure kinds surfaced by catalog operations. Callers classify with
// errors.Is; the tool boundary renders every kind as a structured error
// payload rather than letting it propagate.
var (
	// ErrAuthRequired indicates an operation needs an access token that
	// is absent. It fails fast, before any network call.
	ErrAuthRequired = errors.New("an access token is required")

	// ErrRemoteRequest indicates a catalog call failed with a transport
	// error, a non-2xx status or an undecodable response.
	ErrRemoteRequest = errors.New("catalog request failed")

	// ErrDownloadFailed indicates a transport or extraction error during
	// file retrieval.
	ErrDownloadFailed = errors.New("download failed")
)
