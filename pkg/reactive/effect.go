package reactive

import (
	"sync"
	"sync/atomic"
)

// maxEffectReruns bounds how often an effect may re-trigger itself within a
// single run before it is treated as a cycle.
const maxEffectReruns = 100

// Effect is a tracked computation with side effects. It runs immediately when
// created and re-runs synchronously whenever a signal it read on its last run
// is written. Dependencies are exact: every run starts from an empty source
// set, so a signal that stopped being read no longer triggers it.
type Effect struct {
	id uint64

	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// sources are the signals read during the last run.
	sources   []*signalBase
	sourcesMu sync.Mutex

	owner *Owner

	// running is set while fn executes; a notification arriving then sets
	// rerun instead of recursing.
	running atomic.Bool
	rerun   atomic.Bool

	disposed atomic.Bool

	runs atomic.Uint64
}

// MarkDirty re-runs the effect. Implements Listener.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.running.Load() {
		e.rerun.Store(true)
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs returns how many times the effect body has executed.
func (e *Effect) Runs() uint64 {
	return e.runs.Load()
}

// IsDisposed reports whether the effect has been disposed.
func (e *Effect) IsDisposed() bool {
	return e.disposed.Load()
}

func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}
	e.running.Store(true)
	defer e.running.Store(false)

	for i := 0; ; i++ {
		if i >= maxEffectReruns {
			panic(ErrEffectCycle)
		}
		e.rerun.Store(false)
		e.runOnce()
		if !e.rerun.Load() || e.disposed.Load() {
			return
		}
	}
}

func (e *Effect) runOnce() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.dropSources()

	oldListener := setCurrentListener(e)
	defer setCurrentListener(oldListener)

	e.runs.Add(1)
	e.cleanup = e.fn()
}

// addSource records a signal read during the current run.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

func (e *Effect) dropSources() {
	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(e)
	}
}

// Dispose runs the last cleanup and unsubscribes from all sources.
// A disposed effect never runs again.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.dropSources()
}

// CreateEffect creates and runs a new effect within the current owner.
// The effect is disposed together with its owner.
//
// Example:
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { fmt.Println("Cleanup") }
//	})
func CreateEffect(fn func() Cleanup) *Effect {
	owner := getCurrentOwner()

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}

	if owner != nil {
		owner.registerEffect(e)
	}

	e.run()

	return e
}

// OnCleanup registers fn to run when the current owner is disposed.
// Outside an owner it does nothing.
func OnCleanup(fn func()) {
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}
