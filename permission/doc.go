// Package permission provides the permission token catalog, the role table, and the
// pure decision functions used by shieldcore authorization checks.
//
// # Tokens
//
// A permission is an opaque string token namespaced as <resource>.<action>
// (for example "document.edit"). Tokens form a flat set: there is no hierarchy and
// no wildcard matching, so holding "document.edit" implies nothing about any other
// document token. Comparison is exact-string, case-sensitive.
//
// # Roles
//
// Roles are declared as an explicit table validated at construction time. The admin
// role is always computed as the union of every catalog token rather than hand-listed,
// so new tokens cannot drift out of it.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. Decisions consult only
// the principal's materialized permission list, never a live role derivation.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import shieldcore, kv, or activity.
//   - Re-derive a principal's permissions from its role at check time.
package permission
