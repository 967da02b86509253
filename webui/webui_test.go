package webui

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRender(t *testing.T) {
	Convey("Rendering the page with a websocket URL", t, func() {
		var buf bytes.Buffer
		err := Render(&buf, PageData{WebSocketURL: "ws://example.test/ws"})

		Convey("it succeeds and embeds the URL in the bootstrap script", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, `new WebSocket("ws://example.test/ws")`)
			So(buf.String(), ShouldContainSubstring, `<canvas id="board"`)
		})
	})
}

func TestHandler(t *testing.T) {
	Convey("Given a Handler for a known websocket URL", t, func() {
		h := Handler("ws://localhost:8080/ws")

		Convey("GET / serves the rendered page", func() {
			req := httptest.NewRequest("GET", "/", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, 200)
			So(strings.Contains(rec.Body.String(), "ws://localhost:8080/ws"), ShouldBeTrue)
		})

		Convey("GET /missing is a 404", func() {
			req := httptest.NewRequest("GET", "/missing", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, 404)
		})

		Convey("POST / is a 405", func() {
			req := httptest.NewRequest("POST", "/", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, 405)
		})
	})
}
