package reactive

import (
	"sync"
	"testing"
)

// testListener is a simple listener for testing.
type testListener struct {
	id         uint64
	dirtyCount int
	mu         sync.Mutex
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() {
	l.mu.Lock()
	l.dirtyCount++
	l.mu.Unlock()
}

func (l *testListener) ID() uint64 {
	return l.id
}

func (l *testListener) getDirtyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirtyCount
}

func TestGoroutineID(t *testing.T) {
	here := goroutineID()
	if here == 0 {
		t.Fatal("goroutineID returned 0")
	}
	if goroutineID() != here {
		t.Error("goroutineID should be stable within a goroutine")
	}

	var other uint64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		other = goroutineID()
	}()
	wg.Wait()

	if other == here || other == 0 {
		t.Errorf("expected a distinct id for another goroutine, got %d and %d", here, other)
	}
}

func TestScopeIsolation(t *testing.T) {
	main := newTestListener()
	var otherSaw Listener

	WithListener(main, func() {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			otherSaw = getCurrentListener()
		}()
		wg.Wait()
	})

	if otherSaw != nil {
		t.Error("listener should not leak into other goroutines")
	}
}

func TestScopeReleasedOffLoop(t *testing.T) {
	count := NewSignal(0)
	owner := NewOwner(nil)
	defer owner.Dispose()

	var (
		gid       uint64
		runs      int
		heldBatch bool
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		gid = goroutineID()

		WithOwner(owner, func() {
			CreateEffect(func() Cleanup {
				count.Get()
				runs++
				return nil
			})
		})
		count.Set(1)
		Batch(func() {
			_, heldBatch = scopes.Load(gid)
			count.Set(2)
			count.Set(3)
		})
		count.Update(func(n int) int { return n + 1 })
	}()
	<-done

	if !heldBatch {
		t.Error("expected a scope while the batch was open")
	}
	if runs != 4 {
		t.Errorf("expected 4 effect runs, got %d", runs)
	}
	if _, ok := scopes.Load(gid); ok {
		t.Error("goroutine left its tracking scope behind")
	}
}

func TestScopeReleasedAfterPlainWrites(t *testing.T) {
	sig := NewSignal(0)
	listener := newTestListener()
	sig.base.subscribe(listener)

	var gid uint64
	done := make(chan struct{})
	go func() {
		defer close(done)
		gid = goroutineID()
		sig.Set(1)
		_ = sig.Get()
	}()
	<-done

	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}
	if _, ok := scopes.Load(gid); ok {
		t.Error("Set from a plain goroutine left a tracking scope behind")
	}
}

func TestWithListenerRestores(t *testing.T) {
	outer := newTestListener()
	inner := newTestListener()

	WithListener(outer, func() {
		WithListener(inner, func() {
			if getCurrentListener() != inner {
				t.Error("inner listener should be current")
			}
		})
		if getCurrentListener() != outer {
			t.Error("outer listener should be restored")
		}
	})

	if IsTracking() {
		t.Error("no listener should be active after WithListener returns")
	}
}

func TestWithOwnerRestores(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	WithOwner(owner, func() {
		if getCurrentOwner() != owner {
			t.Error("owner should be current inside WithOwner")
		}
	})

	if getCurrentOwner() != nil {
		t.Error("owner should be restored after WithOwner")
	}
}
