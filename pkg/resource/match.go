package resource

import "github.com/vango-dev/todoview/pkg/view"

// Handler renders a node for one resource state.
type Handler[T any] interface {
	handle(Snapshot[T]) (*view.Node, bool)
}

// Match renders content for the resource's current state. The first handler
// registered for that state wins; nil is returned when none matches.
func (r *Resource[I, T]) Match(handlers ...Handler[T]) *view.Node {
	snap := r.Read()
	for _, h := range handlers {
		if node, ok := h.handle(snap); ok {
			return node
		}
	}
	return nil
}

type pendingHandler[T any] struct {
	fn func() *view.Node
}

func (h pendingHandler[T]) handle(s Snapshot[T]) (*view.Node, bool) {
	if s.State == Pending {
		return h.fn(), true
	}
	return nil, false
}

type failedHandler[T any] struct {
	fn func(error) *view.Node
}

func (h failedHandler[T]) handle(s Snapshot[T]) (*view.Node, bool) {
	if s.State == Failed {
		return h.fn(s.Err), true
	}
	return nil, false
}

type readyHandler[T any] struct {
	fn func(T) *view.Node
}

func (h readyHandler[T]) handle(s Snapshot[T]) (*view.Node, bool) {
	if s.State == Ready {
		return h.fn(s.Value), true
	}
	return nil, false
}

// OnPending handles the Pending state.
func OnPending[T any](fn func() *view.Node) Handler[T] {
	return pendingHandler[T]{fn: fn}
}

// OnFailed handles the Failed state.
func OnFailed[T any](fn func(error) *view.Node) Handler[T] {
	return failedHandler[T]{fn: fn}
}

// OnReady handles the Ready state.
func OnReady[T any](fn func(T) *view.Node) Handler[T] {
	return readyHandler[T]{fn: fn}
}
