// Package persist sequences snapshot writes to host storage.
//
// A Writer owns a single worker goroutine. Submitted snapshots replace any
// snapshot still waiting, so only the most recent one is ever written and a
// write never lands after a newer one. Bursts inside the debounce window are
// coalesced, and a snapshot identical to the last one written is skipped.
package persist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("persist writer closed")

// WriteFunc stores one snapshot.
type WriteFunc func(ctx context.Context, data []byte) error

// Options configures a Writer.
type Options struct {
	// Debounce delays a write until no new snapshot arrived for this long.
	// Zero writes as soon as the worker is free.
	Debounce time.Duration
	// WriteTimeout bounds a single write. Zero means no bound.
	WriteTimeout time.Duration
	// OnError is called from the worker goroutine when a write fails.
	OnError func(error)
	Logger  *slog.Logger
}

// Writer coalesces snapshots and writes them one at a time.
type Writer struct {
	write        WriteFunc
	debounce     time.Duration
	writeTimeout time.Duration
	onError      func(error)
	logger       *slog.Logger

	mu         sync.Mutex
	pending    []byte
	hasPending bool
	inFlight   bool
	urgent     bool
	failed     []byte // last snapshot whose write failed, retried by Flush
	lastErr    error
	lastSum    uint64
	hasSum     bool
	waiters    []chan struct{}
	closed     bool
	writes     int

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewWriter starts a writer goroutine around fn.
func NewWriter(fn WriteFunc, opts Options) *Writer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := &Writer{
		write:        fn,
		debounce:     opts.Debounce,
		writeTimeout: opts.WriteTimeout,
		onError:      opts.OnError,
		logger:       logger,
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	go w.run()
	return w
}

// Submit queues data as the latest snapshot. It never blocks on I/O.
func (w *Writer) Submit(data []byte) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.pending = data
	w.hasPending = true
	w.failed = nil
	w.mu.Unlock()

	w.signal()
	return nil
}

// Flush blocks until every submitted snapshot has been written or skipped,
// skipping the debounce window. A snapshot whose last write failed is
// retried once. It returns the error of the last write attempt.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	if w.failed != nil && !w.hasPending && !w.closed {
		w.pending = w.failed
		w.hasPending = true
		w.failed = nil
	}
	if w.idleLocked() {
		err := w.lastErr
		w.mu.Unlock()
		return err
	}
	ch := make(chan struct{})
	w.waiters = append(w.waiters, ch)
	w.urgent = true
	w.mu.Unlock()

	w.signal()

	select {
	case <-ch:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Close flushes pending snapshots and stops the worker.
func (w *Writer) Close(ctx context.Context) error {
	err := w.Flush(ctx)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return err
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	select {
	case <-w.done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// Writes returns the number of write attempts made so far.
func (w *Writer) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

func (w *Writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Writer) idleLocked() bool {
	return !w.hasPending && !w.inFlight
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
		case <-w.stop:
			w.writePending()
			return
		}
		w.waitQuiet()
		w.writePending()
	}
}

// waitQuiet holds off until the debounce window passes without a new
// snapshot, a flush is requested, or the writer stops.
func (w *Writer) waitQuiet() {
	if w.debounce <= 0 {
		return
	}
	timer := time.NewTimer(w.debounce)
	defer timer.Stop()
	for {
		w.mu.Lock()
		urgent := w.urgent
		w.mu.Unlock()
		if urgent {
			return
		}
		select {
		case <-timer.C:
			return
		case <-w.stop:
			return
		case <-w.wake:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
		}
	}
}

func (w *Writer) writePending() {
	w.mu.Lock()
	if !w.hasPending {
		w.notifyIdleLocked()
		w.mu.Unlock()
		return
	}
	data := w.pending
	w.pending = nil
	w.hasPending = false
	w.inFlight = true
	sum := xxhash.Sum64(data)
	skip := w.hasSum && w.lastSum == sum
	w.mu.Unlock()

	var err error
	if skip {
		w.logger.Debug("snapshot unchanged, skipping write", "bytes", len(data))
	} else {
		err = w.doWrite(data)
	}
	if err != nil {
		w.logger.Warn("snapshot write failed", "err", err, "bytes", len(data))
		if w.onError != nil {
			w.onError(err)
		}
	} else if !skip {
		w.logger.Debug("snapshot written", "bytes", len(data))
	}

	w.mu.Lock()
	w.inFlight = false
	if !skip {
		w.writes++
		if err != nil {
			w.lastErr = err
			w.hasSum = false
			if !w.hasPending {
				w.failed = data
			}
		} else {
			w.lastErr = nil
			w.lastSum = sum
			w.hasSum = true
		}
	}
	again := w.hasPending
	if !again {
		w.notifyIdleLocked()
	}
	w.mu.Unlock()

	if again {
		w.signal()
	}
}

func (w *Writer) doWrite(data []byte) error {
	ctx := context.Background()
	if w.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.writeTimeout)
		defer cancel()
	}
	return w.write(ctx, data)
}

func (w *Writer) notifyIdleLocked() {
	w.urgent = false
	for _, ch := range w.waiters {
		close(ch)
	}
	w.waiters = nil
}
