// Package todo is the to-do view state layer: records and their remote
// source, the per-item toggle machine, the shared remaining counter, keyed
// list composition and the page that ties them together.
//
// Everything here runs on a reactive.Loop. Page.Toggle and Page.Refresh may
// be called from any goroutine; they hop onto the loop themselves. All other
// methods must be called on the loop, typically from inside a render effect.
//
//	loop := reactive.NewLoop(nil)
//	go loop.Run(ctx)
//
//	client, _ := todo.NewHTTPClient(todo.ClientConfig{BaseURL: "https://example.com"})
//	page, _ := todo.NewPage(loop, todo.PageConfig{Lister: client, Toggler: client})
//	unmount, _ := todo.Mount(ctx, hub, page)
//	defer unmount()
package todo
