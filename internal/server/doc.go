// Package server exposes the langworker HTTP surface.
//
// It owns the listener lifecycle, the route table, and the per-request
// dispatch pipeline: extract the language tag, resolve it against the
// immutable registry snapshot, and answer with the catalog resource or a
// structured JSON error. The landing page is rendered once at startup from
// the registry and served verbatim afterwards. All handlers read shared
// immutable state only, so the server needs no request-path locking.
package server
