package htmlstream

import (
	"io"
	"log/slog"
	"net/http"
)

// Handler 将返回片段序列的函数适配为 http.Handler。
//
// 响应以 text/html 流式输出，每个片段写入后立即刷新。
// 首个字节之前失败返回 500；之后失败会记录日志并以 [http.ErrAbortHandler] 中止连接，
// 客户端不会收到一个看似成功、实则被截断的响应。
type Handler func(r *http.Request) (Chunks, error)

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	src, err := h(r)
	if err != nil {
		slog.ErrorContext(ctx, "Render failed", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	rd := NewReader(ctx, src)
	defer func() { _ = rd.Close() }()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	rc := http.NewResponseController(w)
	written := false
	for {
		chunk, err := rd.Pull()
		if err == io.EOF { //nolint:errorlint // io.EOF is returned unwrapped
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				slog.DebugContext(ctx, "Client went away", "path", r.URL.Path, "error", err)
				return
			}
			slog.ErrorContext(ctx, "Render failed", "path", r.URL.Path, "written", written, "error", err)
			if !written {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			panic(http.ErrAbortHandler)
		}
		if len(chunk) == 0 {
			continue
		}

		written = true
		if _, err := w.Write(chunk); err != nil {
			slog.DebugContext(ctx, "Write failed", "path", r.URL.Path, "error", err)
			return
		}
		_ = rc.Flush()
	}
}
