// Package shieldcore provides the authorization and audit core of the SHIELD
// QHSE platform: a permission catalog with role expansion, pure authorization
// decisions over materialized principal permission lists, and an append-only
// activity/security log persisted in a flat key-value namespace.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// shieldcore is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Principal, UserRecord, ActivityEntry, MetricsSnapshot).
// The permission catalog, the persistence contract, and the recorder live in
// their own sub-packages and never import this one.
//
// Authentication is deliberately out of scope: passwords, tokens, and login
// flows belong to the host's auth provider. shieldcore consumes the resulting
// Principal and answers "may this actor do X", recording what privileged
// actors did.
//
// # What this package must NOT do
//
//   - Render HTTP responses; denial maps to "forbidden" at the boundary the
//     host owns, with no leakage of which token was required.
//   - Fail a business operation because its audit entry could not be written;
//     such failures go to the operational sink instead.
//   - Re-derive a principal's permissions from its role at decision time.
package shieldcore
