// Package kv defines the flat key-value persistence contract the shieldcore
// engine reads and writes through, plus the Redis-backed implementation.
//
// # Contract
//
// Keys are strings. A fixed namespace prefix (for example "senator:") is
// prepended by the implementation before every call and stripped again on
// listing, so callers always work with unprefixed keys. Values are opaque
// bytes; the store enforces no schema, and callers validate shape on read.
//
// # Architecture boundaries
//
// This package owns key namespacing and transport errors. It does NOT know
// about permissions, activity entries, or users — those shapes belong to the
// packages that persist them.
//
// # What this package must NOT do
//
//   - Interpret or validate stored values.
//   - Import shieldcore, permission, or activity.
package kv
