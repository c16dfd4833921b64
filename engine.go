package shieldcore

import (
	"context"
	"time"

	"github.com/shieldhq/shieldcore/activity"
	"github.com/shieldhq/shieldcore/kv"
	"github.com/shieldhq/shieldcore/permission"
)

// Engine is the assembled authorization and audit core. Construct it through
// [Builder.Build]; all methods are safe for concurrent use afterwards.
type Engine struct {
	config   Config
	catalog  *permission.Catalog
	roles    *permission.RoleSet
	store    kv.Store
	recorder *activity.Recorder
	ops      *opsDispatcher
	metrics  *Metrics
}

// Close drains the operational dispatcher. Safe to call on a nil engine.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.ops != nil {
		e.ops.Close()
	}
}

// Catalog returns the frozen permission catalog.
func (e *Engine) Catalog() *permission.Catalog {
	if e == nil {
		return nil
	}
	return e.catalog
}

// DerivePermissions returns the materialized permission set for a role.
// Total: an unrecognized role yields an empty set.
func (e *Engine) DerivePermissions(role string) []string {
	if e == nil || e.roles == nil {
		return []string{}
	}
	return e.roles.Derive(role)
}

// Roles returns the role names known to the engine, including the derived
// admin role.
func (e *Engine) Roles() []string {
	if e == nil || e.roles == nil {
		return nil
	}
	return e.roles.Roles()
}

// OpsDropped reports how many operational events were discarded under
// drop-if-full pressure.
func (e *Engine) OpsDropped() uint64 {
	if e == nil || e.ops == nil {
		return 0
	}
	return e.ops.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) observe(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

func (e *Engine) emitOps(ctx context.Context, event OpsEvent) {
	if e == nil || e.ops == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	e.ops.Emit(ctx, event)
}
