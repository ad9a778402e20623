package host

import (
	"html/template"
	"io"
)

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
.todo.done .text { text-decoration: line-through; }
.todo.updating { opacity: 0.6; }
.error { color: #b00020; }
</style>
</head>
<body>
<div id="app">{{.Body}}</div>
<script>
(function () {
  var app = document.getElementById("app");
  var suffix = {{.Suffix}};
  var version = 0;
  var ws;

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    ws = new WebSocket(proto + location.host + "/ws");
    ws.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === "render" && msg.version >= version) {
        version = msg.version;
        app.innerHTML = msg.html;
        if (msg.title) { document.title = msg.title + " · " + suffix; }
      } else if (msg.type === "error") {
        console.warn(msg.error);
      }
    };
    ws.onclose = function () { setTimeout(connect, 1000); };
  }

  function send(msg) {
    if (ws && ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify(msg));
      return;
    }
    var path = msg.type === "toggle" ? "/toggle/" + msg.id : "/refresh";
    fetch(path, { method: "POST" });
  }

  app.addEventListener("click", function (ev) {
    var t = ev.target;
    if (t.dataset && t.dataset.toggle !== undefined) {
      ev.preventDefault();
      send({ type: "toggle", id: Number(t.dataset.toggle) });
    } else if (t.dataset && t.dataset.action === "refresh") {
      send({ type: "refresh" });
    }
  });

  connect();
})();
</script>
</body>
</html>
`))

// writeDocument writes the full page around body, which is trusted markup
// produced by the view renderer.
func writeDocument(w io.Writer, title, suffix, body string) error {
	return documentTemplate.Execute(w, struct {
		Title  string
		Suffix string
		Body   template.HTML
	}{
		Title:  title,
		Suffix: suffix,
		Body:   template.HTML(body),
	})
}
