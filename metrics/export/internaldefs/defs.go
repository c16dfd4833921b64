package internaldefs

import (
	shieldcore "github.com/shieldhq/shieldcore"
)

// CounterDef defines a public type used by shieldcore exporter APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   shieldcore.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by shieldcore exporter APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   shieldcore.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authorization engine.
var CounterDefs = []CounterDef{
	{ID: shieldcore.MetricAuthzAllowed, Name: "shieldcore_authz_allowed_total", Help: "Authorization decisions that granted access."},
	{ID: shieldcore.MetricAuthzDenied, Name: "shieldcore_authz_denied_total", Help: "Authorization decisions that denied access."},
	{ID: shieldcore.MetricCheckDenied, Name: "shieldcore_check_denied_total", Help: "Check calls that signaled a missing permission."},
	{ID: shieldcore.MetricActivityRecorded, Name: "shieldcore_activity_recorded_total", Help: "Entries appended to the general activity stream."},
	{ID: shieldcore.MetricSecurityRecorded, Name: "shieldcore_security_recorded_total", Help: "Entries classified into the security stream."},
	{ID: shieldcore.MetricActivityWriteFailure, Name: "shieldcore_activity_write_failure_total", Help: "Activity appends lost to store failures."},
	{ID: shieldcore.MetricUserCreated, Name: "shieldcore_user_created_total", Help: "User records created."},
	{ID: shieldcore.MetricPermissionsUpdated, Name: "shieldcore_permissions_updated_total", Help: "User permission grant replacements."},
	{ID: shieldcore.MetricStatusChanged, Name: "shieldcore_status_changed_total", Help: "User account status transitions."},
}

// HistogramDefs is an exported constant or variable used by the authorization engine.
var HistogramDefs = []HistogramDef{
	{ID: shieldcore.MetricLogQueryLatency, Name: "shieldcore_log_query_latency_seconds", Help: "Activity log query latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authorization engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the authorization engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
