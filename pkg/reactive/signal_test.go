package reactive

import (
	"sync"
	"testing"
)

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestSignalPeek(t *testing.T) {
	count := NewSignal(42)

	listener := newTestListener()
	WithListener(listener, func() {
		if v := count.Peek(); v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	})

	count.Set(100)
	if listener.getDirtyCount() != 0 {
		t.Errorf("Peek should not subscribe listener, got %d notifications", listener.getDirtyCount())
	}
}

func TestSignalSubscription(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})

	count.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}

	// Same value still notifies.
	count.Set(1)
	if listener.getDirtyCount() != 2 {
		t.Errorf("same value should notify, got %d", listener.getDirtyCount())
	}
}

func TestSignalIdentityUpdateNotifies(t *testing.T) {
	flag := NewSignal(true)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = flag.Get()
	})

	flag.Update(func(b bool) bool { return b })

	if listener.getDirtyCount() != 1 {
		t.Errorf("identity update should notify once, got %d", listener.getDirtyCount())
	}
}

func TestSignalNoTrackingOutsideContext(t *testing.T) {
	count := NewSignal(0)

	_ = count.Get()

	if count.Subscribers() != 0 {
		t.Errorf("read outside tracked context should not subscribe, got %d subscribers", count.Subscribers())
	}
}

func TestSignalDeduplicatesSubscription(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
		_ = count.Get()
		_ = count.Get()
	})

	if count.Subscribers() != 1 {
		t.Errorf("expected 1 subscriber, got %d", count.Subscribers())
	}

	count.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}
}

type orderListener struct {
	id    uint64
	name  string
	order *[]string
}

func (l *orderListener) MarkDirty() { *l.order = append(*l.order, l.name) }
func (l *orderListener) ID() uint64 { return l.id }

func TestSignalNotifiesInSubscriptionOrder(t *testing.T) {
	sig := NewSignal(0)
	var order []string

	for _, name := range []string{"a", "b", "c", "d"} {
		l := &orderListener{id: nextID(), name: name, order: &order}
		WithListener(l, func() { _ = sig.Get() })
	}

	// Removing one from the middle must not reorder the rest.
	sig.base.subMu.RLock()
	second := sig.base.subs[1]
	sig.base.subMu.RUnlock()
	sig.base.unsubscribe(second)

	sig.Set(1)

	want := []string{"a", "c", "d"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestSignalConcurrentAccess(t *testing.T) {
	count := NewSignal(0)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			count.Update(func(n int) int { return n + 1 })
		}()
	}
	wg.Wait()

	if count.Peek() != 50 {
		t.Errorf("expected 50, got %d", count.Peek())
	}
}
