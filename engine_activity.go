package shieldcore

import (
	"context"
	"time"

	"github.com/shieldhq/shieldcore/activity"
)

// RecordActivity durably appends one activity entry, classifying
// security-sensitive actions into the security stream as well. Best-effort
// from the caller's perspective: the triggering operation must not fail
// because its log entry could not be written, so append failures are routed
// to the operational sink instead of being returned.
//
// Client IP and user agent attached to ctx via [WithClientIP] and
// [WithUserAgent] are stamped onto the entry when it does not carry them.
func (e *Engine) RecordActivity(ctx context.Context, entry ActivityEntry) {
	if e == nil || e.recorder == nil {
		return
	}

	if entry.IPAddress == "" {
		entry.IPAddress = clientIPFromContext(ctx)
	}
	if entry.UserAgent == "" {
		entry.UserAgent = userAgentFromContext(ctx)
	}

	stored, err := e.recorder.Append(ctx, entry)
	if err != nil {
		e.metricInc(MetricActivityWriteFailure)
		e.emitOps(ctx, OpsEvent{
			EventType: OpsEventLogWriteFailure,
			UserID:    entry.UserID,
			Action:    entry.Action,
			Error:     err.Error(),
		})
		return
	}

	e.metricInc(MetricActivityRecorded)
	if activity.IsSecurityAction(stored.Action) {
		e.metricInc(MetricSecurityRecorded)
	}
}

// ActivityLogs returns general-stream entries matching the filter,
// newest-first. The limit is defaulted and capped by [ActivityConfig].
// Callers are responsible for having passed the users.view / users.manage
// gate; this method does not re-check.
func (e *Engine) ActivityLogs(ctx context.Context, filter ActivityFilter) ([]ActivityEntry, error) {
	if e == nil || e.recorder == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	entries, err := e.recorder.Query(ctx, e.clampFilter(filter))
	e.observe(MetricLogQueryLatency, time.Since(start))
	return entries, err
}

// SecurityLogs returns security-stream entries matching the filter,
// newest-first, with the same limit handling as [Engine.ActivityLogs].
func (e *Engine) SecurityLogs(ctx context.Context, filter ActivityFilter) ([]ActivityEntry, error) {
	if e == nil || e.recorder == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	entries, err := e.recorder.SecurityQuery(ctx, e.clampFilter(filter))
	e.observe(MetricLogQueryLatency, time.Since(start))
	return entries, err
}

func (e *Engine) clampFilter(filter activity.Filter) activity.Filter {
	if filter.Limit <= 0 {
		filter.Limit = e.config.Activity.DefaultPageSize
	}
	if filter.Limit > e.config.Activity.MaxPageSize {
		filter.Limit = e.config.Activity.MaxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}
