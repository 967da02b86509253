// Package webui renders the single static page served to the browser: a
// canvas drawn from the StateUpdate stream over /ws. Simplified from
// server.go's renderTemplate -- one flat page, not a tree of ViewComponents,
// since the wire protocol here is one GameState snapshot rather than
// per-element DOM patches.
package webui

import (
	"html/template"
	"io"
	"net/http"
)

// PageData parameterizes the rendered page.
type PageData struct {
	WebSocketURL string
}

const pageTemplate = `
{{ define "index.html" }}
<!DOCTYPE html>
<html>
	<head>
		<link rel="icon" href="data:,">
		<style>
			body { margin: 0; background: #111; }
			canvas { display: block; }
		</style>
	</head>
	<body>
		<canvas id="board" width="1000" height="1000"></canvas>
		<script>
			const canvas = document.getElementById("board");
			const ctx = canvas.getContext("2d");
			const shapeColor = { 0: "#6cf", 1: "#fc6", 2: "#f66" };

			function project(p) {
				return { x: canvas.width / 2 + p.X, y: canvas.height / 2 + p.Y };
			}

			function draw(state) {
				ctx.clearRect(0, 0, canvas.width, canvas.height);

				ctx.strokeStyle = "#888";
				for (const line of state.Lines || []) {
					ctx.beginPath();
					for (const edge of line.Edges || []) {
						const a = project(edge.Origin !== undefined ? stationPos(state, edge.Origin) : edge.Via);
						ctx.moveTo(a.x, a.y);
						const via = project(edge.Via);
						ctx.lineTo(via.x, via.y);
						const b = project(stationPos(state, edge.Dest));
						ctx.lineTo(b.x, b.y);
					}
					ctx.stroke();
				}

				for (const station of state.Stations || []) {
					const p = project(station.Pos);
					ctx.fillStyle = shapeColor[station.Kind] || "#fff";
					ctx.beginPath();
					ctx.arc(p.x, p.y, 8, 0, Math.PI * 2);
					ctx.fill();
				}

				ctx.fillStyle = "#fff";
				for (const train of state.Trains || []) {
					const p = project(train.Pos);
					ctx.fillRect(p.x - 4, p.y - 4, 8, 8);
				}
			}

			function stationPos(state, id) {
				const s = (state.Stations || [])[id];
				return s ? s.Pos : { X: 0, Y: 0 };
			}

			const ws = new WebSocket("{{ .WebSocketURL }}");
			ws.onmessage = function (event) {
				const msg = JSON.parse(event.data);
				if (msg.GameState) {
					draw(msg.GameState);
				}
			};
			ws.onerror = function (event) {
				console.log("websocket error: ", event);
			};
		</script>
	</body>
</html>
{{ end }}
`

var page = template.Must(template.New("webui").Parse(pageTemplate))

// Render writes the rendered page to w.
func Render(w io.Writer, data PageData) error {
	return page.ExecuteTemplate(w, "index.html", data)
}

// Handler serves the rendered page at "/", with the client bootstrapped to
// connect to wsURL.
func Handler(wsURL string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		if err := Render(w, PageData{WebSocketURL: wsURL}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
