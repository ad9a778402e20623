package reactive

// Derived is a pure function over signals. It holds no value of its own:
// every Get recomputes, and the listener active at that moment subscribes to
// exactly the signals this call read.
//
// Side effects inside fn run on every recomputation. One-shot work such as
// mount-time initialisation belongs in a constructor, not here.
type Derived[T any] struct {
	fn func() T
}

// NewDerived wraps fn as a derived value.
func NewDerived[T any](fn func() T) *Derived[T] {
	return &Derived[T]{fn: fn}
}

// Get recomputes the value. Signal reads inside fn are tracked against the
// caller's listener.
func (d *Derived[T]) Get() T {
	return d.fn()
}

// Peek recomputes the value without tracking any read.
func (d *Derived[T]) Peek() T {
	var v T
	Untracked(func() {
		v = d.fn()
	})
	return v
}

var _ ReadSignal[int] = (*Derived[int])(nil)
