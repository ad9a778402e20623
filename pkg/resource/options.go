package resource

import "log/slog"

// OnSuccess registers a callback run on the loop after a fetch publishes a
// value.
func (r *Resource[I, T]) OnSuccess(fn func(T)) *Resource[I, T] {
	r.onSuccess = fn
	return r
}

// OnError registers a callback run on the loop after a fetch fails.
func (r *Resource[I, T]) OnError(fn func(error)) *Resource[I, T] {
	r.onError = fn
	return r
}

// WithLogger replaces the resource's logger.
func (r *Resource[I, T]) WithLogger(logger *slog.Logger) *Resource[I, T] {
	if logger != nil {
		r.logger = logger.With("component", "resource")
	}
	return r
}
