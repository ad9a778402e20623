package todo

import (
	"context"
	"log/slog"

	"github.com/vango-dev/todoview/pkg/reactive"
)

// ItemState is the toggle machine state of one item.
type ItemState int

const (
	Idle     ItemState = iota // Accepting gestures
	Updating                  // Remote toggle outstanding
	Failed                    // Last toggle failed; accepts a new gesture
)

// String returns the string representation of the ItemState.
func (s ItemState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Updating:
		return "Updating"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// TogglePolicy decides what happens to a gesture while a toggle is in
// flight.
type TogglePolicy int

const (
	// RejectWhileUpdating refuses the gesture with ErrToggleInFlight. The
	// rendered checkbox is disabled while updating.
	RejectWhileUpdating TogglePolicy = iota

	// AllowConcurrent issues every gesture. Each one captures the completed
	// flag at gesture time, so two overlapping toggles both adjust the
	// counter in the same direction and can double count.
	AllowConcurrent
)

// ItemOptions configures items created by a List.
type ItemOptions struct {
	Policy  TogglePolicy
	Metrics *Metrics
	Logger  *slog.Logger
}

// Item is the per-record toggle machine. Its completed flag is seeded from
// the record once and afterwards changes only through Toggle.
type Item struct {
	id   int64
	text string
	seed bool

	completed *reactive.Signal[bool]
	updating  *reactive.Signal[bool]
	state     *reactive.Signal[ItemState]
	err       *reactive.Signal[error]

	loop    *reactive.Loop
	counter *Counter
	toggler Toggler
	policy  TogglePolicy
	metrics *Metrics
	logger  *slog.Logger

	// Loop-confined lifecycle bookkeeping.
	mounted  bool
	disposed bool
	inflight int
}

// NewItem creates an unmounted item for rec.
func NewItem(loop *reactive.Loop, rec Record, counter *Counter, toggler Toggler, opts ItemOptions) *Item {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Item{
		id:        rec.ID,
		text:      rec.Text,
		seed:      rec.Completed,
		completed: reactive.NewSignal(rec.Completed),
		updating:  reactive.NewSignal(false),
		state:     reactive.NewSignal(Idle),
		err:       reactive.NewSignal[error](nil),
		loop:      loop,
		counter:   counter,
		toggler:   toggler,
		policy:    opts.Policy,
		metrics:   opts.Metrics,
		logger:    logger.With("component", "todo_item", "id", rec.ID),
	}
}

// ID returns the record id.
func (it *Item) ID() int64 { return it.id }

// Text returns the record text.
func (it *Item) Text() string { return it.text }

// Completed returns the completed flag and tracks it.
func (it *Item) Completed() bool { return it.completed.Get() }

// Updating reports whether a remote toggle is outstanding and tracks it.
func (it *Item) Updating() bool { return it.updating.Get() }

// State returns the machine state and tracks it.
func (it *Item) State() ItemState { return it.state.Get() }

// Err returns the error of the last failed toggle and tracks it.
func (it *Item) Err() error { return it.err.Get() }

// Mounted reports whether Mount has run and Dispose has not.
func (it *Item) Mounted() bool { return it.mounted && !it.disposed }

// Mount performs the one-shot contribution to the remaining tally: +1 when
// the seed is not completed. Further calls do nothing.
func (it *Item) Mount() {
	if it.mounted || it.disposed {
		return
	}
	it.mounted = true
	if !it.seed {
		it.counter.Add(1)
	}
}

// Toggle starts a remote toggle. It returns ErrToggleInFlight when the
// policy rejects the gesture and ErrItemDisposed after unmount; a remote
// failure is reported through State and Err, not here.
//
// Toggle must be called on the loop.
func (it *Item) Toggle(ctx context.Context) error {
	if it.disposed {
		return ErrItemDisposed
	}
	if it.policy == RejectWhileUpdating && it.updating.Peek() {
		it.metrics.toggleRejected()
		return ErrToggleInFlight
	}

	// Captured before the call: the flag may change while we wait.
	wasCompleted := it.completed.Peek()

	it.inflight++
	reactive.Batch(func() {
		it.updating.Set(true)
		it.state.Set(Updating)
		it.err.Set(nil)
	})

	reactive.Spawn(it.loop, ctx,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, it.toggler.Toggle(ctx, it.id)
		},
		func(_ struct{}, err error) {
			it.finish(wasCompleted, err)
		},
	)
	return nil
}

func (it *Item) finish(wasCompleted bool, err error) {
	it.inflight--
	if it.disposed {
		it.logger.Debug("toggle completed after dispose", "error", err)
		return
	}
	settled := it.inflight == 0

	if err != nil {
		it.logger.Warn("toggle failed", "error", err)
		it.metrics.toggleFailed()
		reactive.Batch(func() {
			it.err.Set(err)
			if settled {
				it.updating.Set(false)
				it.state.Set(Failed)
			}
		})
		return
	}

	reactive.Batch(func() {
		// Sign comes from the pre-toggle value.
		if wasCompleted {
			it.counter.Add(1)
		} else {
			it.counter.Add(-1)
		}
		it.completed.Set(!wasCompleted)
		if settled {
			it.updating.Set(false)
			it.state.Set(Idle)
		}
	})
}

// Dispose unmounts the item. A still-incomplete item retracts its
// contribution so the tally keeps matching the mounted items; a toggle
// completing afterwards is ignored.
func (it *Item) Dispose() {
	if it.disposed {
		return
	}
	it.disposed = true
	if it.mounted && !it.completed.Peek() {
		it.counter.Add(-1)
	}
}
