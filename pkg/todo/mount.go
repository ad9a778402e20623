package todo

import (
	"context"
	"sync"

	"github.com/vango-dev/todoview/pkg/reactive"
	"github.com/vango-dev/todoview/pkg/view"
)

// Host is the mount point. Render receives every re-render of the page on
// the loop goroutine and must not block on it.
type Host interface {
	Render(node *view.Node)
}

// HostFunc adapts a function to Host.
type HostFunc func(node *view.Node)

func (f HostFunc) Render(node *view.Node) { f(node) }

// Mount begins rendering page into host: the page is rendered once right
// away and again whenever anything it read changes. Rendering stops when
// ctx is cancelled or the returned unmount function is called.
func Mount(ctx context.Context, host Host, page *Page) (unmount func(), err error) {
	var effect *reactive.Effect
	err = page.loop.Do(func() {
		reactive.WithOwner(page.owner, func() {
			effect = reactive.CreateEffect(func() reactive.Cleanup {
				host.Render(page.Render())
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}

	var once sync.Once
	stop := make(chan struct{})
	unmount = func() {
		once.Do(func() {
			close(stop)
			_ = page.loop.Dispatch(effect.Dispose)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unmount()
		case <-stop:
		case <-page.loop.Done():
		}
	}()

	return unmount, nil
}
