// Package middleware exposes HTTP middleware adapters that gate handlers on
// shieldcore permission decisions.
//
// # Guards
//
//   - [RequireAny] — passes when the principal holds at least one of the
//     named permissions.
//   - [RequireAll] — passes when the principal holds every named permission.
//
// Each guard reads the Authorization bearer token, materializes the
// [shieldcore.Principal] through a [Verifier], asks the Engine for the
// decision, and injects the principal into the request context on success.
//
// # Denial semantics
//
// A missing or invalid token maps to 401. A valid principal lacking the
// required permissions maps to a bare 403 "forbidden" — which specific token
// was required is never echoed to the caller.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. Token issuance
// belongs to the host's auth provider; the [Verifier] only validates and
// reads claims.
package middleware
