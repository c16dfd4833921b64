package shieldcore

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Operational event types emitted by the engine.
const (
	// OpsEventLogWriteFailure reports an activity append that could not be
	// persisted. The triggering operation already succeeded; the entry is lost
	// unless the host replays it.
	OpsEventLogWriteFailure = "activity_write_failure"
	// OpsEventAuthzDenied reports a failed Check. Useful for spotting probing
	// or misconfigured role tables.
	OpsEventAuthzDenied = "authorization_denied"
)

// OpsEvent is a structured operational record: something the engine could not
// or would not surface to the end user but that operators need to see.
type OpsEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	Action    string            `json:"action,omitempty"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// OpsSink receives emitted operational events.
type OpsSink interface {
	Emit(ctx context.Context, event OpsEvent)
}

// NoOpSink drops operational events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, OpsEvent) {}

// ChannelSink writes operational events into a buffered channel.
type ChannelSink struct {
	events chan OpsEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan OpsEvent, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event OpsEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan OpsEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event OpsEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
