package resource

import (
	"context"
	"log/slog"

	"github.com/vango-dev/todoview/pkg/reactive"
)

// State represents the settled state of a resource.
type State int

const (
	Pending State = iota // No fetch has completed yet
	Ready                // Last fetch produced a value
	Failed               // Last fetch failed
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Snapshot is the visible value of a resource. Value is only meaningful when
// State is Ready, Err only when State is Failed.
type Snapshot[T any] struct {
	State State
	Value T
	Err   error
}

// Resource manages asynchronous data fetching keyed by a tracked input.
type Resource[I comparable, T any] struct {
	loop   *reactive.Loop
	input  func() I
	loader func(context.Context, I) (T, error)

	snapshot *reactive.Signal[Snapshot[T]]
	loading  *reactive.Signal[bool]

	effect *reactive.Effect

	// Loop-confined fetch bookkeeping.
	fetchID   uint64 // For ignoring outdated fetches
	lastInput I
	hasInput  bool
	cancel    context.CancelFunc
	disposed  bool

	onSuccess func(T)
	onError   func(error)
	logger    *slog.Logger
}

// New creates a Resource and starts the first fetch. input is read inside a
// tracked effect; a change in the value it returns starts a new fetch.
//
// New must be called on the loop, or before the loop runs. The input effect
// belongs to the current owner and is disposed with it.
func New[I comparable, T any](loop *reactive.Loop, input func() I, loader func(context.Context, I) (T, error)) *Resource[I, T] {
	r := &Resource[I, T]{
		loop:     loop,
		input:    input,
		loader:   loader,
		snapshot: reactive.NewSignal(Snapshot[T]{State: Pending}),
		loading:  reactive.NewSignal(false),
		logger:   slog.Default().With("component", "resource"),
	}

	r.effect = reactive.CreateEffect(func() reactive.Cleanup {
		in := r.input()
		reactive.Untracked(func() {
			if r.hasInput && in == r.lastInput {
				return
			}
			r.fetch(in)
		})
		return nil
	})

	reactive.OnCleanup(r.Dispose)

	return r
}

// Read returns the current snapshot and tracks it.
func (r *Resource[I, T]) Read() Snapshot[T] {
	return r.snapshot.Get()
}

// Peek returns the current snapshot without tracking.
func (r *Resource[I, T]) Peek() Snapshot[T] {
	return r.snapshot.Peek()
}

// State returns the settled state and tracks it.
func (r *Resource[I, T]) State() State {
	return r.snapshot.Get().State
}

// Loading reports whether a fetch is outstanding. After the first result a
// refetch keeps the last snapshot visible and only flips this flag.
func (r *Resource[I, T]) Loading() bool {
	return r.loading.Get()
}

// Refetch forces a fetch with the current input, superseding any fetch in
// flight. It must be called on the loop.
func (r *Resource[I, T]) Refetch() {
	if r.disposed {
		return
	}
	var in I
	reactive.Untracked(func() { in = r.input() })
	r.fetch(in)
}

// Dispose stops input tracking and cancels the outstanding fetch. A result
// arriving afterwards is dropped.
func (r *Resource[I, T]) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	r.fetchID++
	if r.effect != nil {
		r.effect.Dispose()
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Resource[I, T]) fetch(in I) {
	if r.disposed {
		return
	}

	r.fetchID++
	currentID := r.fetchID
	r.lastInput = in
	r.hasInput = true

	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.logger.Debug("fetch started", "fetch_id", currentID)
	r.loading.Set(true)

	reactive.Spawn(r.loop, ctx,
		func(ctx context.Context) (T, error) {
			return r.loader(ctx, in)
		},
		func(value T, err error) {
			cancel()
			if r.fetchID != currentID {
				r.logger.Debug("stale fetch discarded", "fetch_id", currentID, "latest", r.fetchID)
				return
			}
			r.cancel = nil
			r.settle(value, err)
		},
	)
}

func (r *Resource[I, T]) settle(value T, err error) {
	reactive.Batch(func() {
		if err != nil {
			r.snapshot.Set(Snapshot[T]{State: Failed, Err: err})
		} else {
			r.snapshot.Set(Snapshot[T]{State: Ready, Value: value})
		}
		r.loading.Set(false)
	})

	if err != nil {
		r.logger.Warn("fetch failed", "fetch_id", r.fetchID, "error", err)
		if r.onError != nil {
			r.onError(err)
		}
		return
	}
	if r.onSuccess != nil {
		r.onSuccess(value)
	}
}
