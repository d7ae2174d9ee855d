// Package http exposes the solver, the rule catalog and stored playback
// sessions over a chi router. The API is described by the embedded
// openapi.yaml, served at /openapi.yaml.
//
// Session actions broadcast a domain.PlaybackDiff to subscribers of
// /sessions/{id}/events as server-sent events.
package http
