package shieldcore

import (
	"context"
	"sync"
	"sync/atomic"
)

// opsDispatcher decouples event producers from the sink: Emit never blocks
// the hot path when drop-if-full is on, and Close hands every buffered event
// to the sink before returning.
type opsDispatcher struct {
	sink       OpsSink
	ch         chan OpsEvent
	done       chan struct{}
	dropIfFull bool

	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func newOpsDispatcher(cfg OpsConfig, sink OpsSink) *opsDispatcher {
	if !cfg.Enabled {
		return nil
	}

	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &opsDispatcher{
		sink:       sink,
		ch:         make(chan OpsEvent, buffer),
		done:       make(chan struct{}),
		dropIfFull: cfg.DropIfFull,
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *opsDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.ch:
			d.sink.Emit(context.Background(), event)
		case <-d.done:
			d.drain()
			return
		}
	}
}

func (d *opsDispatcher) drain() {
	for {
		select {
		case event := <-d.ch:
			d.sink.Emit(context.Background(), event)
		default:
			return
		}
	}
}

// Emit forwards one event to the sink. With drop-if-full the event is
// discarded (and counted) rather than blocking the caller; otherwise Emit
// blocks until the buffer accepts it or ctx ends. Safe to call on a nil
// dispatcher.
func (d *opsDispatcher) Emit(ctx context.Context, event OpsEvent) {
	if d == nil || d.closed.Load() {
		return
	}

	if d.dropIfFull {
		select {
		case d.ch <- event:
		default:
			d.dropped.Add(1)
		}
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case d.ch <- event:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Close drains the buffer into the sink and stops the worker.
func (d *opsDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped reports how many events were discarded under drop-if-full pressure.
func (d *opsDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
