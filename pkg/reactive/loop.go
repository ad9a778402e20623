package reactive

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// LoopConfig configures a Loop.
type LoopConfig struct {
	// QueueSize is the capacity of the dispatch queue.
	// Default: 256.
	QueueSize int

	// Logger receives panic reports from dispatched callbacks.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultLoopConfig returns a LoopConfig with sensible defaults.
func DefaultLoopConfig() *LoopConfig {
	return &LoopConfig{
		QueueSize: 256,
		Logger:    slog.Default(),
	}
}

// Loop is the single cooperative thread every signal read and write happens
// on. Callbacks run one at a time in dispatch order; asynchronous work is
// started with Spawn and re-enters the loop only through Dispatch, so code
// resuming after I/O never interleaves with another callback.
type Loop struct {
	dispatchCh chan func()
	done       chan struct{}
	closeOnce  sync.Once
	closed     atomic.Bool
	running    atomic.Bool

	// gid is the goroutine currently executing Run.
	gid atomic.Uint64

	// tracking is the scope pinned for the loop goroutine while Run is
	// active. Only touched by the loop goroutine.
	tracking *scope

	// local holds callbacks dispatched from the loop goroutine itself.
	// Only touched by the loop goroutine.
	local []func()

	// pending counts Spawn work that has not yet queued its completion.
	pending   int
	pendingMu sync.Mutex
	idle      *sync.Cond

	logger *slog.Logger
}

// NewLoop creates a loop. It does nothing until Run is called.
func NewLoop(config *LoopConfig) *Loop {
	defaults := DefaultLoopConfig()
	if config == nil {
		config = defaults
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.Logger == nil {
		config.Logger = defaults.Logger
	}

	l := &Loop{
		dispatchCh: make(chan func(), config.QueueSize),
		done:       make(chan struct{}),
		logger:     config.Logger.With("component", "loop"),
	}
	l.idle = sync.NewCond(&l.pendingMu)
	return l
}

// Run executes dispatched callbacks until ctx is cancelled or Close is
// called. It returns ErrLoopRunning if another goroutine is already running
// the loop.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	// Every callback shares one tracking scope, released when Run returns.
	tracking, unpin := pinScope()
	l.tracking = tracking
	l.gid.Store(goroutineID())
	defer func() {
		l.gid.Store(0)
		l.tracking = nil
		unpin()
	}()

	for {
		select {
		case fn := <-l.dispatchCh:
			l.execute(fn)
			l.drainLocal()

		case <-ctx.Done():
			l.Close()
			return ctx.Err()

		case <-l.done:
			return nil
		}
	}
}

// Close stops the loop. Queued callbacks that have not run are discarded.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
}

// Done returns a channel closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// OnLoop reports whether the caller is running on the loop goroutine.
func (l *Loop) OnLoop() bool {
	gid := l.gid.Load()
	return gid != 0 && gid == goroutineID()
}

// Dispatch queues fn to run on the loop. It is safe to call from any
// goroutine. From a non-loop goroutine it blocks while the queue is full;
// from the loop goroutine it never blocks and fn runs after the current
// callback returns.
func (l *Loop) Dispatch(fn func()) error {
	if l.closed.Load() {
		return ErrLoopClosed
	}
	if l.OnLoop() {
		l.local = append(l.local, fn)
		return nil
	}
	select {
	case l.dispatchCh <- fn:
		return nil
	case <-l.done:
		return ErrLoopClosed
	}
}

// Do runs fn on the loop and waits for it to return. Called from the loop
// goroutine it runs fn inline.
func (l *Loop) Do(fn func()) error {
	if l.OnLoop() {
		fn()
		return nil
	}
	finished := make(chan struct{})
	if err := l.Dispatch(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopClosed
	}
}

// Settle waits until every spawned job has finished and its completion
// callback has run on the loop. Completions that spawn further work are
// waited for as well.
func (l *Loop) Settle() error {
	for {
		l.pendingMu.Lock()
		for l.pending > 0 {
			l.idle.Wait()
		}
		l.pendingMu.Unlock()

		if err := l.Do(func() {}); err != nil {
			return err
		}

		l.pendingMu.Lock()
		idle := l.pending == 0
		l.pendingMu.Unlock()
		if idle {
			return nil
		}
	}
}

// Pending returns the number of spawned jobs still running.
func (l *Loop) Pending() int {
	l.pendingMu.Lock()
	defer l.pendingMu.Unlock()
	return l.pending
}

func (l *Loop) begin() {
	l.pendingMu.Lock()
	l.pending++
	l.pendingMu.Unlock()
}

func (l *Loop) end() {
	l.pendingMu.Lock()
	l.pending--
	if l.pending == 0 {
		l.idle.Broadcast()
	}
	l.pendingMu.Unlock()
}

// execute runs a dispatched callback, recovering and logging panics so one
// bad callback cannot stop the loop.
func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("dispatch panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (l *Loop) drainLocal() {
	for len(l.local) > 0 {
		fn := l.local[0]
		l.local = l.local[1:]
		l.execute(fn)
	}
}

// Spawn runs work on its own goroutine and applies done(result, err) on the
// loop. It must be called on the loop or before the loop starts; state the
// caller needs after the I/O has to be captured before calling Spawn.
//
// If the loop closes before the completion is queued, done is dropped.
func Spawn[T any](l *Loop, ctx context.Context, work func(context.Context) (T, error), done func(T, error)) {
	l.begin()
	go func() {
		defer l.end()
		v, err := work(ctx)
		if derr := l.Dispatch(func() { done(v, err) }); derr != nil {
			l.logger.Debug("completion dropped", "error", derr)
		}
	}()
}
