package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"

	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/config"
	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/guestbook"
	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/site"
)

// HeaderRequestID 响应中携带请求 ID 的头部。
const HeaderRequestID = "X-Request-Id"

// NewHandler 组装路由：健康检查、留言板页面，以及日志与可选的 gzip 中间件。
func NewHandler(cfg *config.Config, store *guestbook.Store) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health)
	site.New(store, site.WithDrip(cfg.Server.Drip)).Routes(mux)

	var h http.Handler = mux
	if cfg.Server.Gzip {
		h = gzhttp.GzipHandler(h)
	}

	return logRequests(h)
}

// recorder 记录状态码与写出字节数，Flush 透传给底层连接。
type recorder struct {
	http.ResponseWriter

	status int
	bytes  int64
}

func (r *recorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += int64(n)

	return n, err
}

func (r *recorder) Flush() {
	_ = http.NewResponseController(r.ResponseWriter).Flush()
}

func (r *recorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		rec := &recorder{ResponseWriter: w}
		start := time.Now()
		defer func() {
			// 流式响应中途失败时 htmlstream 以 http.ErrAbortHandler 中止连接
			if v := recover(); v != nil {
				slog.Warn("Request aborted", "id", id, "method", r.Method, "path", r.URL.Path,
					"bytes", rec.bytes, "duration", time.Since(start))
				panic(v)
			}
			slog.Info("Request", "id", id, "method", r.Method, "path", r.URL.Path,
				"status", rec.status, "bytes", rec.bytes, "duration", time.Since(start))
		}()

		next.ServeHTTP(rec, r)
	})
}
