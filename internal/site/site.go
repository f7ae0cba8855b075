// Package site 使用 htmlstream 组装演示页面：留言板首页与说明页。
package site

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/guestbook"
	"github.com/lwmacct/251207-go-pkg-htmlstream/pkg/htmlstream"
	"github.com/lwmacct/251207-go-pkg-htmlstream/pkg/richtext"
)

// DefaultLimit 首页展示的留言数量。
const DefaultLimit = 50

// Site 演示站点。
type Site struct {
	store *guestbook.Store
	drip  time.Duration
	limit int
}

// Option 站点选项。
type Option func(*Site)

// WithDrip 设置逐条输出留言之间的间隔，用于观察流式效果。
func WithDrip(d time.Duration) Option {
	return func(s *Site) {
		s.drip = d
	}
}

// WithLimit 设置首页展示的留言数量。
func WithLimit(n int) Option {
	return func(s *Site) {
		s.limit = n
	}
}

// New 创建站点。store 为 nil 时只提供说明页。
func New(store *guestbook.Store, opts ...Option) *Site {
	s := &Site{store: store, limit: DefaultLimit}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Routes 注册页面路由。
func (s *Site) Routes(mux *http.ServeMux) {
	mux.Handle("GET /about", htmlstream.Handler(func(*http.Request) (htmlstream.Chunks, error) {
		return s.About()
	}))

	if s.store == nil {
		return
	}

	mux.Handle("GET /{$}", htmlstream.Handler(func(r *http.Request) (htmlstream.Chunks, error) {
		return s.Index(r.Context())
	}))
	mux.HandleFunc("POST /guestbook", s.handleAdd)
}

func (s *Site) handleAdd(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	entry, err := s.store.Add(r.Context(), r.PostForm.Get("name"), r.PostForm.Get("message"))
	if errors.Is(err, guestbook.ErrInvalidEntry) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Add guestbook entry failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Guestbook entry added", "id", entry.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ═══════════════════════════════════════════════════════════════════════════
// 页面
// ═══════════════════════════════════════════════════════════════════════════

const intro = `Entries below are read from SQLite **while the page is being sent**:
the header reaches your browser before the first row is queried.

Messages accept *Markdown*; any raw HTML is stripped.`

// Index 留言板首页。留言逐条从数据库读取并流式输出。
func (s *Site) Index(ctx context.Context) (*htmlstream.Sequence, error) {
	count := htmlstream.Async(func(context.Context) (any, error) {
		n, err := s.store.Count(ctx)
		if err != nil {
			return nil, err
		}

		return n, nil
	})

	body, err := htmlstream.HTML(`<h1>Guestbook</h1>
<section class="intro">${}</section>
<form method="post" action="/guestbook">
  <input name="name" placeholder="Name" maxlength="${}" required>
  <textarea name="message" placeholder="Message" required></textarea>
  <button>Sign</button>
</form>
<p class="count">${} entries</p>
<ol class="entries">
${}</ol>
`,
		richtext.MarkdownValue(intro),
		guestbook.MaxNameLen,
		count,
		htmlstream.FromIterator(s.entries(ctx)),
	)
	if err != nil {
		return nil, err
	}

	return layout("Guestbook", body)
}

func entry(e guestbook.Entry) (*htmlstream.Sequence, error) {
	message, err := richtext.Markdown(e.Message)
	if err != nil {
		return nil, err
	}

	return htmlstream.HTML(`<li id="entry-${}">
  <strong class="name">${}</strong>
  <time datetime="${}">${}</time>
  <div class="message">${}</div>
</li>
`, e.ID, e.Name, e.CreatedAt.Format(time.RFC3339), humanize.Time(e.CreatedAt), message)
}

// entryIterator 按需拉取留言，首次调用 Next 时才执行查询。
type entryIterator struct {
	site  *Site
	ctx   context.Context
	next  func() (guestbook.Entry, error, bool)
	stop  func()
	count int
}

func (s *Site) entries(ctx context.Context) *entryIterator {
	return &entryIterator{site: s, ctx: ctx}
}

func (it *entryIterator) Next(ctx context.Context) (any, bool, error) {
	if it.next == nil {
		it.next, it.stop = iter.Pull2(it.site.store.Recent(it.ctx, it.site.limit))
	}

	if it.count > 0 && it.site.drip > 0 {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(it.site.drip):
		}
	}

	e, err, ok := it.next()
	if !ok {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	it.count++

	seq, err := entry(e)
	if err != nil {
		return nil, false, err
	}

	return seq, true, nil
}

func (it *entryIterator) Close() error {
	if it.stop != nil {
		it.stop()
	}

	return nil
}

const aboutText = "This page is assembled from nested templates and written to the response one chunk at a time.\n\n" +
	"- strings are escaped\n" +
	"- `MarkSafe` values are not\n" +
	"- slices, iterators and channels are flattened in place\n" +
	"- deferred values are awaited without blocking earlier output\n"

const aboutCode = `page := htmlstream.MustHTML("<ul>${}</ul>", htmlstream.Map(names, func(n string) any {
	return htmlstream.MustHTML("<li>${}</li>", n)
}))
out, err := htmlstream.Collect(ctx, page)`

// About 说明页，不依赖数据库。
func (s *Site) About() (*htmlstream.Sequence, error) {
	text, err := richtext.Markdown(aboutText)
	if err != nil {
		return nil, err
	}
	code, err := richtext.Code(aboutCode, "go")
	if err != nil {
		return nil, err
	}

	body, err := htmlstream.HTML(`<h1>About htmlstream</h1>
<section>${}</section>
<h2>Example</h2>
${}
`, text, code)
	if err != nil {
		return nil, err
	}

	return layout("About", body)
}

func layout(title string, body any) (*htmlstream.Sequence, error) {
	return htmlstream.HTML(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>${} · htmlstream</title>
<style>body{font-family:system-ui,sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem}</style>
</head>
<body>
<nav><a href="/">Guestbook</a> · <a href="/about">About</a></nav>
<main>
${}</main>
</body>
</html>
`, title, body)
}
