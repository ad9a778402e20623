package todo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vango-dev/todoview/pkg/reactive"
	"github.com/vango-dev/todoview/pkg/resource"
)

// PageConfig configures a Page.
type PageConfig struct {
	Lister  Lister
	Toggler Toggler

	// Policy applies to every item (default: RejectWhileUpdating).
	Policy TogglePolicy

	Metrics *Metrics
	Logger  *slog.Logger
}

// Progress is the completed share of the mounted items.
type Progress struct {
	Done  int
	Total int
}

// Page is the page-level view state. It owns the refresh signal the list
// resource tracks, the remaining tally and its Counter, and the List.
type Page struct {
	loop   *reactive.Loop
	owner  *reactive.Owner
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	refresh   *reactive.Signal[int]
	remaining *reactive.Signal[int]
	counter   *Counter

	todos *resource.Resource[int, []Record]
	list  *List

	headline *reactive.Derived[string]
	progress *reactive.Derived[Progress]
}

// NewPage builds a page on loop and starts the first list fetch. The loop
// must be running.
func NewPage(loop *reactive.Loop, config PageConfig) (*Page, error) {
	if config.Lister == nil || config.Toggler == nil {
		return nil, fmt.Errorf("todo: page needs a Lister and a Toggler")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Page{
		loop:   loop,
		owner:  reactive.NewOwner(nil),
		ctx:    ctx,
		cancel: cancel,
		logger: config.Logger.With("component", "todo_page"),
	}

	err := loop.Do(func() {
		p.refresh = reactive.NewSignal(0)
		p.remaining = reactive.NewSignal(0)
		p.counter = NewCounter(p.remaining)
		p.list = NewList(loop, p.counter, config.Toggler, ItemOptions{
			Policy:  config.Policy,
			Metrics: config.Metrics,
			Logger:  config.Logger,
		})

		p.headline = reactive.NewDerived(func() string {
			return Headline(p.remaining.Get())
		})
		p.progress = reactive.NewDerived(func() Progress {
			total := p.list.Len()
			return Progress{Done: total - p.remaining.Get(), Total: total}
		})

		reactive.WithOwner(p.owner, func() {
			p.todos = resource.New(loop, p.refresh.Get, func(ctx context.Context, _ int) ([]Record, error) {
				return config.Lister.List(ctx)
			}).WithLogger(config.Logger)

			// Items follow the resource's Ready value; a failed fetch
			// unmounts them so the tally only counts what is shown.
			reactive.CreateEffect(func() reactive.Cleanup {
				snap := p.todos.Read()
				reactive.Untracked(func() {
					switch snap.State {
					case resource.Ready:
						p.list.Reconcile(snap.Value)
					case resource.Failed:
						p.list.Reconcile(nil)
					}
				})
				return nil
			})

			reactive.CreateEffect(func() reactive.Cleanup {
				config.Metrics.setRemaining(p.remaining.Get())
				return nil
			})

			reactive.OnCleanup(func() {
				p.list.Dispose()
				p.cancel()
			})
		})
	})
	if err != nil {
		cancel()
		return nil, err
	}
	return p, nil
}

// Headline is the sentence shown above the list for n remaining items.
func Headline(n int) string {
	switch n {
	case 0:
		return "All done, enjoy the day!"
	case 1:
		return "Just one more item"
	default:
		return fmt.Sprintf("%d things left to do", n)
	}
}

// Remaining returns the remaining tally and tracks it. Call on the loop.
func (p *Page) Remaining() int { return p.remaining.Get() }

// Headline returns the headline for the current tally. Call on the loop.
func (p *Page) Headline() string { return p.headline.Get() }

// Progress returns the done/total split of the mounted items. Call on the
// loop.
func (p *Page) Progress() Progress { return p.progress.Get() }

// Snapshot returns the list resource's snapshot and tracks it. Call on the
// loop.
func (p *Page) Snapshot() resource.Snapshot[[]Record] { return p.todos.Read() }

// Loading reports whether a list fetch is outstanding. Call on the loop.
func (p *Page) Loading() bool { return p.todos.Loading() }

// Items returns the mounted items in list order. Call on the loop.
func (p *Page) Items() []*Item { return p.list.Items() }

// Item looks up a mounted item by id. Call on the loop.
func (p *Page) Item(id int64) (*Item, bool) { return p.list.Item(id) }

// Refresh re-fetches the list by bumping the tracked input. Safe from any
// goroutine.
func (p *Page) Refresh() error {
	return p.loop.Do(func() {
		p.refresh.Update(func(n int) int { return n + 1 })
	})
}

// Toggle starts a toggle for the item with id. Safe from any goroutine.
// The remote call runs under the page's context, not ctx: a toggle that has
// been accepted runs to completion even if the requester goes away. ctx only
// bounds waiting for the loop.
func (p *Page) Toggle(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var toggleErr error
	if err := p.loop.Do(func() {
		it, ok := p.list.Item(id)
		if !ok {
			toggleErr = fmt.Errorf("%w: %d", ErrUnknownItem, id)
			return
		}
		toggleErr = it.Toggle(p.ctx)
	}); err != nil {
		return err
	}
	return toggleErr
}

// Dispose unmounts every item, stops the resource and cancels outstanding
// remote calls. Safe from any goroutine.
func (p *Page) Dispose() error {
	return p.loop.Do(p.owner.Dispose)
}
