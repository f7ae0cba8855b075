package htmlstream

import (
	"context"
	"io"
	"strings"
)

// Reader 将片段序列适配为拉取驱动的字节源。
//
// 每次 [Reader.Pull] 恰好推进序列一次，并返回该片段的 UTF-8 字节；
// 序列耗尽返回 io.EOF，失败后始终返回同一个错误，不会静默截断。
type Reader struct {
	ctx context.Context
	src Chunks
	buf []byte
	err error
}

// NewReader 创建 Reader。ctx 用于所有后续拉取。
func NewReader(ctx context.Context, src Chunks) *Reader {
	return &Reader{ctx: ctx, src: src}
}

// Pull 推进序列一次并返回编码后的片段。
//
// 片段可能为空（例如空的静态片段）。
func (r *Reader) Pull() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}

	chunk, err := r.src.Next(r.ctx)
	if err != nil {
		r.err = err
		return nil, err
	}

	return []byte(strings.ToValidUTF8(chunk, "\uFFFD")), nil
}

// Read 实现 io.Reader。缓冲区为空时才会拉取新片段。
func (r *Reader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		chunk, err := r.Pull()
		if err != nil {
			return 0, err
		}
		r.buf = chunk
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]

	return n, nil
}

// WriteTo 实现 io.WriterTo，逐片段写入 w。
//
// w 实现 Flush() 时（如 http.ResponseWriter）每个片段写入后立即刷新。
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	flusher, _ := w.(interface{ Flush() })

	var total int64
	if len(r.buf) > 0 {
		n, err := w.Write(r.buf)
		total += int64(n)
		r.buf = r.buf[n:]
		if err != nil {
			return total, err
		}
	}

	for {
		chunk, err := r.Pull()
		if err == io.EOF { //nolint:errorlint // io.EOF is returned unwrapped
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if len(chunk) == 0 {
			continue
		}

		n, err := w.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// Close 停止拉取；来源实现 io.Closer 时一并关闭。
func (r *Reader) Close() error {
	if r.err == nil {
		r.err = io.EOF
	}
	r.buf = nil
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
