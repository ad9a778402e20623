package todo

import (
	"strconv"

	"github.com/vango-dev/todoview/pkg/resource"
	"github.com/vango-dev/todoview/pkg/view"
)

// Render builds the page's node tree. Called inside an effect, it tracks
// everything it shows.
func (p *Page) Render() *view.Node {
	progress := p.Progress()

	return view.El("main", view.Class("todoview"),
		view.El("header",
			view.El("h1", view.ID("headline"), p.Headline()),
			view.El("progress", view.ID("progress"),
				view.Max(progress.Total),
				view.Value(progress.Done),
			),
			view.El("button",
				view.Type("button"),
				view.Data("action", "refresh"),
				view.Disabled(p.Loading()),
				"Refresh",
			),
		),
		p.todos.Match(
			resource.OnPending[[]Record](func() *view.Node {
				return view.El("p", view.Class("placeholder"), "Loading...")
			}),
			resource.OnFailed[[]Record](func(err error) *view.Node {
				return view.El("div", view.Class("error"), view.Attr{Key: "role", Value: "alert"},
					view.Textf("Could not load the list: %v", err),
				)
			}),
			resource.OnReady(func([]Record) *view.Node {
				return p.renderItems()
			}),
		),
	)
}

func (p *Page) renderItems() *view.Node {
	items := p.list.Items()
	rows := make([]*view.Node, 0, len(items))
	for _, it := range items {
		rows = append(rows, it.Render())
	}
	return view.El("ul", view.ID("todos"), rows)
}

// Render builds the row for one item.
func (it *Item) Render() *view.Node {
	completed := it.Completed()
	updating := it.Updating()
	state := it.State()

	classes := []string{"todo"}
	if completed {
		classes = append(classes, "done")
	}
	if updating {
		classes = append(classes, "updating")
	}

	var status *view.Node
	switch {
	case updating:
		status = view.El("span", view.Class("status"), "saving...")
	case state == Failed:
		status = view.El("span", view.Class("status", "error"), view.Textf("Toggle failed: %v", it.Err()))
	}

	return view.El("li",
		view.Class(classes...),
		view.Data("id", strconv.FormatInt(it.id, 10)),
		view.AriaBusy(updating),
		view.El("input",
			view.Type("checkbox"),
			view.Data("toggle", strconv.FormatInt(it.id, 10)),
			view.Checked(completed),
			view.Disabled(updating && it.policy == RejectWhileUpdating),
		),
		view.El("span", view.Class("text"), it.text),
		status,
	)
}
