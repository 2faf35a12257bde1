// Package registry loads the declarative language registry and resolves
// incoming language tags against it.
//
// The registry is parsed from TOML once at startup into an immutable
// snapshot; validation is strict (duplicate tags, duplicate aliases, and
// dangling resource references all abort the load) so a partially valid
// registry is never served. The Resolver built over a snapshot is a pure
// lookup structure: exact matches over canonical tags and aliases first,
// then rightmost-subtag stripping against canonical tags only, so a request
// for sme-FI falls back to sme. Resolution never mutates shared state and is
// safe for concurrent use without synchronization.
package registry
