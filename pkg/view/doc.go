// Package view is the minimal node tree todoview renders into, and its HTML
// serialisation.
//
// Nodes are plain data. A render function builds a tree on every run of its
// tracked effect; the host decides how to ship it (full page, websocket
// push):
//
//	node := view.El("div", view.Class("todo"),
//	    view.El("input", view.Type("checkbox"), view.Checked(done)),
//	    view.Text(text),
//	)
//	html := view.RenderString(node)
package view
