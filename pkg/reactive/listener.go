package reactive

// Listener is anything that can be notified when a dependency changes.
// Effects implement it; tests and hosts may provide their own.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies was written.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication of subscriptions and batched notifications.
	ID() uint64
}

// Cleanup is a function returned by effects to clean up resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()

// sourceTracker is implemented by listeners that own their subscriptions and
// need to know which signals they read, so they can unsubscribe on re-run.
type sourceTracker interface {
	addSource(source *signalBase)
}
