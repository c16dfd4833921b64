// Package activity records privileged state transitions as immutable,
// append-only log entries in the key-value store, and classifies a subset of
// them into a separate security stream.
//
// # Storage layout
//
// One entry per key:
//
//	activity:<userID>:<timestamp>:<entryID>
//	security:<userID>:<timestamp>:<entryID>
//
// The timestamp segment is zero-padded so keys sort chronologically. Because
// every append writes a fresh key, concurrent appends for the same user can
// never clobber each other and no single value grows without bound.
//
// # What this package must NOT do
//
//   - Mutate or delete entries after creation (retention is operational).
//   - Accept caller-supplied timestamps: entries are stamped at write time.
//   - Decide who may read logs — access gating belongs to the caller.
package activity
