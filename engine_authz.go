package shieldcore

import (
	"context"

	"github.com/shieldhq/shieldcore/permission"
)

// Can reports whether the principal holds the permission. Pure decision over
// the materialized permission list; see [permission.Has].
func (e *Engine) Can(p *Principal, perm string) bool {
	allowed := permission.Has(p, perm)
	e.countDecision(allowed)
	return allowed
}

// CanAny reports whether the principal holds at least one requested
// permission. An empty request list never grants access.
func (e *Engine) CanAny(p *Principal, perms []string) bool {
	allowed := permission.HasAny(p, perms)
	e.countDecision(allowed)
	return allowed
}

// CanAll reports whether the principal holds every requested permission.
// An empty request list passes vacuously.
func (e *Engine) CanAll(p *Principal, perms []string) bool {
	allowed := permission.HasAll(p, perms)
	e.countDecision(allowed)
	return allowed
}

// Check returns nil iff [Engine.Can] would return true and otherwise signals
// a [*permission.AuthorizationError] carrying the denied token. Denials are
// additionally surfaced on the operational channel; the error itself must not
// reach the end user verbatim — the boundary maps it to a generic forbidden
// outcome.
func (e *Engine) Check(ctx context.Context, p *Principal, perm string) error {
	err := permission.Check(p, perm)
	if err == nil {
		e.countDecision(true)
		return nil
	}

	e.countDecision(false)
	e.metricInc(MetricCheckDenied)

	event := OpsEvent{
		EventType: OpsEventAuthzDenied,
		Action:    perm,
	}
	if p != nil {
		event.UserID = p.UserID
	}
	e.emitOps(ctx, event)

	return err
}

// TierAtLeast reports whether the principal's subscription tier sits at or
// above min. Tier gating is a feature-visibility axis only; it never grants
// permissions and permission checks never consult it.
func (e *Engine) TierAtLeast(p *Principal, min SubscriptionTier) bool {
	if p == nil {
		return false
	}
	return TierAtLeast(SubscriptionTier(p.Tier), min)
}

func (e *Engine) countDecision(allowed bool) {
	if allowed {
		e.metricInc(MetricAuthzAllowed)
	} else {
		e.metricInc(MetricAuthzDenied)
	}
}
