// Package reactive provides the fine-grained reactive core used by todoview.
//
// Dependencies are tracked automatically at runtime: reading a signal while
// a listener is active subscribes that listener to the signal.
//
// # Core Types
//
// Signal[T] is a mutable reactive cell:
//
//	count := NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (always notifies subscribers)
//	count.Update(func(n int) int { return n + 1 })
//
// Writes never compare old and new values. An Update that returns its input
// unchanged still notifies every dependent.
//
// Derived[T] is a function over signals. It stores nothing and recomputes on
// every Get, so whoever reads it depends on exactly the signals the last call
// read:
//
//	doubled := NewDerived(func() int { return count.Get() * 2 })
//
// Effect is the tracked rendering context. It runs immediately and re-runs
// synchronously whenever a dependency is written:
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//
// # Scheduling
//
// All reactive reads and writes are meant to happen on one logical thread,
// the Loop. Blocking work runs off-loop through Spawn and its completion is
// applied back on the loop:
//
//	Spawn(loop, ctx, fetchTodos, func(todos []Todo, err error) {
//	    list.Set(todos)
//	})
//
// Notifications from a single write are delivered in subscription order
// before the write returns. Batch defers them to the end of the outermost
// batch and delivers each dependent once.
//
// # Tracking Context
//
// The current listener and owner are kept per goroutine. Goroutines that
// create effects must establish their owner explicitly via WithOwner.
package reactive
