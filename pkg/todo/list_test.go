package todo

import (
	"context"
	"testing"

	"github.com/vango-dev/todoview/pkg/reactive"
)

func newTestList(t *testing.T, loop *reactive.Loop, toggler Toggler) (*List, *reactive.Signal[int]) {
	t.Helper()
	var list *List
	var tally *reactive.Signal[int]
	onLoop(t, loop, func() {
		tally = reactive.NewSignal(0)
		list = NewList(loop, NewCounter(tally), toggler, ItemOptions{})
	})
	return list, tally
}

func TestReconcileIsIdempotent(t *testing.T) {
	loop := startLoop(t)
	list, tally := newTestList(t, loop, okToggler)
	records := []Record{{ID: 1}, {ID: 2, Completed: true}, {ID: 3}}

	var first []*Item
	onLoop(t, loop, func() {
		list.Reconcile(records)
		first = list.Items()
		list.Reconcile(records)
		list.Reconcile(records)

		if tally.Peek() != 2 {
			t.Errorf("tally = %d after repeated reconcile, want 2", tally.Peek())
		}
		again := list.Items()
		for i := range first {
			if first[i] != again[i] {
				t.Errorf("item %d was re-created", i)
			}
		}
	})
}

func TestReconcileTracksOrder(t *testing.T) {
	loop := startLoop(t)
	list, _ := newTestList(t, loop, okToggler)

	renders := 0
	onLoop(t, loop, func() {
		reactive.CreateEffect(func() reactive.Cleanup {
			list.Items()
			renders++
			return nil
		})
		list.Reconcile([]Record{{ID: 1}, {ID: 2}})
		list.Reconcile([]Record{{ID: 1}, {ID: 2}})
		list.Reconcile([]Record{{ID: 2}, {ID: 1}})

		items := list.Items()
		if items[0].ID() != 2 || items[1].ID() != 1 {
			t.Errorf("expected reordered items, got %d,%d", items[0].ID(), items[1].ID())
		}
	})

	// Initial run, first reconcile, reorder. The unchanged reconcile
	// notifies nobody.
	if renders != 3 {
		t.Errorf("expected 3 runs, got %d", renders)
	}
}

func TestDisposeRetractsContribution(t *testing.T) {
	loop := startLoop(t)
	list, tally := newTestList(t, loop, okToggler)

	onLoop(t, loop, func() {
		list.Reconcile([]Record{{ID: 1}, {ID: 2, Completed: true}, {ID: 3}})
		list.Reconcile([]Record{{ID: 2, Completed: true}, {ID: 3}})
		if tally.Peek() != 1 {
			t.Errorf("tally = %d after removing an open item, want 1", tally.Peek())
		}
		list.Reconcile([]Record{{ID: 3}})
		if tally.Peek() != 1 {
			t.Errorf("removing a completed item must not move the tally, got %d", tally.Peek())
		}
		list.Dispose()
		if tally.Peek() != 0 {
			t.Errorf("tally = %d after dispose, want 0", tally.Peek())
		}
	})
}

func TestDisposeIgnoresLateToggle(t *testing.T) {
	loop := startLoop(t)
	tog := newGatedToggler()
	list, tally := newTestList(t, loop, tog)

	var it *Item
	onLoop(t, loop, func() {
		list.Reconcile([]Record{{ID: 1}})
		it, _ = list.Item(1)
		if err := it.Toggle(context.Background()); err != nil {
			t.Errorf("Toggle failed: %v", err)
		}
	})
	call := tog.next(t)

	onLoop(t, loop, func() { list.Reconcile(nil) })
	call.reply <- nil
	settle(t, loop)

	onLoop(t, loop, func() {
		if tally.Peek() != 0 {
			t.Errorf("late completion changed the tally to %d", tally.Peek())
		}
		if it.Completed() {
			t.Error("late completion flipped a disposed item")
		}
		if err := it.Toggle(context.Background()); err != ErrItemDisposed {
			t.Errorf("expected ErrItemDisposed, got %v", err)
		}
	})
}

func TestItemMountGuard(t *testing.T) {
	loop := startLoop(t)
	onLoop(t, loop, func() {
		tally := reactive.NewSignal(0)
		it := NewItem(loop, Record{ID: 1, Text: "x"}, NewCounter(tally), okToggler, ItemOptions{})
		it.Mount()
		it.Mount()
		if tally.Peek() != 1 {
			t.Errorf("tally = %d after double mount, want 1", tally.Peek())
		}
		if !it.Mounted() {
			t.Error("expected Mounted")
		}
	})
}

func TestItemStateString(t *testing.T) {
	tests := map[ItemState]string{Idle: "Idle", Updating: "Updating", Failed: "Failed", ItemState(7): "Unknown"}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("ItemState(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
