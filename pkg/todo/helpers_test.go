package todo

import (
	"context"
	"testing"
	"time"

	"github.com/vango-dev/todoview/pkg/reactive"
)

func startLoop(t *testing.T) *reactive.Loop {
	t.Helper()
	loop := reactive.NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(cancel)
	return loop
}

func onLoop(t *testing.T, loop *reactive.Loop, fn func()) {
	t.Helper()
	if err := loop.Do(fn); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
}

func settle(t *testing.T, loop *reactive.Loop) {
	t.Helper()
	if err := loop.Settle(); err != nil {
		t.Fatalf("Settle failed: %v", err)
	}
}

func staticLister(records ...Record) Lister {
	return ListerFunc(func(context.Context) ([]Record, error) {
		out := make([]Record, len(records))
		copy(out, records)
		return out, nil
	})
}

var okToggler = TogglerFunc(func(context.Context, int64) error { return nil })

type toggleCall struct {
	id    int64
	reply chan error
}

// gatedToggler hands every call to the test and blocks until it replies.
type gatedToggler struct {
	calls chan toggleCall
}

func newGatedToggler() *gatedToggler {
	return &gatedToggler{calls: make(chan toggleCall, 16)}
}

func (g *gatedToggler) Toggle(ctx context.Context, id int64) error {
	reply := make(chan error, 1)
	g.calls <- toggleCall{id: id, reply: reply}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gatedToggler) next(t *testing.T) toggleCall {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for toggle call")
		return toggleCall{}
	}
}

func newTestPage(t *testing.T, loop *reactive.Loop, config PageConfig) *Page {
	t.Helper()
	page, err := NewPage(loop, config)
	if err != nil {
		t.Fatalf("NewPage failed: %v", err)
	}
	t.Cleanup(func() { _ = page.Dispose() })
	settle(t, loop)
	return page
}

func itemByID(t *testing.T, loop *reactive.Loop, page *Page, id int64) *Item {
	t.Helper()
	var it *Item
	var ok bool
	onLoop(t, loop, func() { it, ok = page.Item(id) })
	if !ok {
		t.Fatalf("item %d not mounted", id)
	}
	return it
}
