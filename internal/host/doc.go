// Package host serves a todo.Page over HTTP.
//
// The Hub is the page's mount point: every re-render is serialised to HTML,
// kept as the current document and pushed to connected browsers over a
// websocket. Browsers send toggle and refresh gestures back on the same
// socket; plain POST routes exist for clients without websockets.
//
// Routes:
//
//	GET  /             full page
//	POST /toggle/{id}  toggle one item
//	POST /refresh      re-fetch the list
//	GET  /ws           live updates
//	GET  /metrics      Prometheus metrics
//	GET  /healthz      liveness
package host
