package reactive

import "testing"

func TestDerivedRecomputesEveryRead(t *testing.T) {
	count := NewSignal(4)
	calls := 0
	doubled := NewDerived(func() int {
		calls++
		return count.Get() * 2
	})

	if doubled.Get() != 8 {
		t.Errorf("expected 8, got %d", doubled.Get())
	}
	_ = doubled.Get()

	if calls != 2 {
		t.Errorf("expected 2 computations, got %d", calls)
	}

	count.Set(5)
	if doubled.Get() != 10 {
		t.Errorf("expected 10, got %d", doubled.Get())
	}
}

func TestDerivedTracksThroughToReader(t *testing.T) {
	count := NewSignal(1)
	doubled := NewDerived(func() int { return count.Get() * 2 })

	var seen []int
	owner := NewOwner(nil)
	defer owner.Dispose()

	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			seen = append(seen, doubled.Get())
			return nil
		})
	})

	count.Set(3)

	if len(seen) != 2 || seen[0] != 2 || seen[1] != 6 {
		t.Errorf("expected [2 6], got %v", seen)
	}
}

func TestDerivedIdentityUpdateRecomputes(t *testing.T) {
	x := NewSignal(7)
	computations := 0
	derived := NewDerived(func() int {
		computations++
		return x.Get()
	})

	owner := NewOwner(nil)
	defer owner.Dispose()

	var e *Effect
	WithOwner(owner, func() {
		e = CreateEffect(func() Cleanup {
			_ = derived.Get()
			return nil
		})
	})

	before := computations
	x.Update(func(v int) int { return v })

	if computations != before+1 {
		t.Errorf("expected one recomputation, got %d", computations-before)
	}
	if e.Runs() != 2 {
		t.Errorf("expected dependent effect to run twice, got %d", e.Runs())
	}
}

func TestDerivedDynamicDependencies(t *testing.T) {
	useA := NewSignal(true)
	a := NewSignal("a")
	b := NewSignal("b")
	pick := NewDerived(func() string {
		if useA.Get() {
			return a.Get()
		}
		return b.Get()
	})

	owner := NewOwner(nil)
	defer owner.Dispose()

	var e *Effect
	WithOwner(owner, func() {
		e = CreateEffect(func() Cleanup {
			_ = pick.Get()
			return nil
		})
	})

	useA.Set(false)
	runs := e.Runs()

	// a is no longer read, so writing it must not re-run the effect.
	a.Set("a2")
	if e.Runs() != runs {
		t.Errorf("stale dependency re-ran effect: %d -> %d", runs, e.Runs())
	}
	if a.Subscribers() != 0 {
		t.Errorf("expected a to have no subscribers, got %d", a.Subscribers())
	}

	b.Set("b2")
	if e.Runs() != runs+1 {
		t.Errorf("expected effect to re-run on b, got %d runs", e.Runs())
	}
}

func TestDerivedPeekDoesNotTrack(t *testing.T) {
	count := NewSignal(1)
	d := NewDerived(func() int { return count.Get() })
	listener := newTestListener()

	WithListener(listener, func() {
		_ = d.Peek()
	})

	count.Set(2)
	if listener.getDirtyCount() != 0 {
		t.Errorf("Peek should not track, got %d notifications", listener.getDirtyCount())
	}
}
