// Package sketchfab is the client for the Sketchfab model catalog.
//
// It exposes the four catalog operations the application needs: model
// search, model detail, download-link resolution and file retrieval with
// ZIP unpacking, plus the composite ResolveGltfURL used by the tool
// boundary. Authenticated calls route through the oauth.Lifecycle, which
// transparently refreshes the access token when it approaches expiry.
//
// Search is deliberately the softest operation: any transport or decode
// failure degrades to an empty result list rather than an error, because a
// partial listing is a better caller experience than a hard failure for a
// best-effort operation.
package sketchfab
