// Package oauth manages the Sketchfab OAuth2 credential lifecycle.
//
// It covers three concerns:
//
//   - Credential resolution at startup, layering explicit flag values over
//     environment variables over the persisted credentials file (Resolve).
//   - Persistence of the credential record to a JSON file in the user's
//     home directory, written atomically so a crashed save never corrupts
//     a previously valid file (Store).
//   - Token lifetime tracking and proactive refresh via the provider's
//     refresh grant, with rotated tokens persisted back through the store
//     (Lifecycle).
//
// Refresh is strictly best-effort: a failed or impossible refresh never
// blocks a request, because the remote API - not this package - is
// authoritative on whether a token still works.
//
// SECURITY: token values are never logged. The credentials file is written
// with 0600 permissions.
package oauth
