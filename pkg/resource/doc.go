// Package resource provides asynchronous, input-keyed values for todoview.
//
// A Resource wraps a loader behind a tri-state value (Pending, Ready,
// Failed). Its input function is tracked: whenever the value it returns
// differs from the one used for the last fetch, a new fetch starts. Only the
// most recently started fetch may publish its result; completions of
// superseded fetches are discarded and their contexts cancelled.
//
// Resources live on a reactive.Loop. Create them, read them and call
// Refetch from loop callbacks:
//
//	list := resource.New(loop, refresh.Get, func(ctx context.Context, _ int) ([]Record, error) {
//	    return client.List(ctx)
//	}).OnError(func(err error) { logger.Warn("list failed", "error", err) })
//
//	return list.Match(
//	    resource.OnPending[[]Record](func() *view.Node { return view.Text("Loading...") }),
//	    resource.OnFailed[[]Record](func(err error) *view.Node { return ErrorBlock(err) }),
//	    resource.OnReady(func(recs []Record) *view.Node { return Items(recs) }),
//	)
package resource
