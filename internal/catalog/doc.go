// Package catalog binds registered language entries to their servable
// payloads.
//
// Resources are read from disk exactly once, when the catalog is built from
// a validated registry snapshot, and held as shared read-only buffers for
// the process lifetime. Lookup by canonical tag is total for every entry
// the loader produced; a miss indicates a programming error, not a runtime
// condition.
package catalog
