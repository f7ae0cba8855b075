package htmlstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lwmacct/251207-go-pkg-htmlstream/pkg/htmlstream"
)

func failing(cause error) htmlstream.Deferred {
	return htmlstream.Defer(func(context.Context) (any, error) { return nil, cause })
}

func TestHandler(t *testing.T) {
	t.Run("streams the page", func(t *testing.T) {
		h := htmlstream.Handler(func(r *http.Request) (htmlstream.Chunks, error) {
			return htmlstream.HTML("<p>Hello ${}</p>", r.URL.Query().Get("name"))
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?name=%3Cbob%3E", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "<p>Hello &lt;bob&gt;</p>", rec.Body.String())
		assert.True(t, rec.Flushed)
	})

	t.Run("construction error is a 500", func(t *testing.T) {
		h := htmlstream.Handler(func(*http.Request) (htmlstream.Chunks, error) {
			return htmlstream.HTML("${}")
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("failure before the first byte is a 500", func(t *testing.T) {
		h := htmlstream.Handler(func(*http.Request) (htmlstream.Chunks, error) {
			return htmlstream.HTML("${}<p>never</p>", failing(errors.New("early")))
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "never")
	})

	t.Run("failure mid-stream aborts the response", func(t *testing.T) {
		h := htmlstream.Handler(func(*http.Request) (htmlstream.Chunks, error) {
			return htmlstream.HTML("<p>start</p>${}<p>end</p>", failing(errors.New("late")))
		})

		rec := httptest.NewRecorder()
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		})
		assert.Equal(t, "<p>start</p>", rec.Body.String())
	})
}
