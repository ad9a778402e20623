package todo

import "context"

// Lister fetches the full record list.
type Lister interface {
	List(ctx context.Context) ([]Record, error)
}

// Toggler flips the completed flag of one record remotely. Only success or
// failure matters; any response body is discarded.
type Toggler interface {
	Toggle(ctx context.Context, id int64) error
}

// ListerFunc adapts a function to Lister.
type ListerFunc func(ctx context.Context) ([]Record, error)

func (f ListerFunc) List(ctx context.Context) ([]Record, error) { return f(ctx) }

// TogglerFunc adapts a function to Toggler.
type TogglerFunc func(ctx context.Context, id int64) error

func (f TogglerFunc) Toggle(ctx context.Context, id int64) error { return f(ctx, id) }
