package richtext

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/lwmacct/251207-go-pkg-htmlstream/pkg/htmlstream"
)

var (
	markdownOnce     sync.Once
	markdownInstance goldmark.Markdown
)

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
		)
	})

	return markdownInstance
}

// Markdown 将 Markdown 渲染为 HTML 并经 [Sanitize] 清理。
//
// 源文本中的原始 HTML 不会被保留。
func Markdown(src string) (htmlstream.Safe, error) {
	var buf bytes.Buffer
	if err := markdown().Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("richtext: render markdown: %w", err)
	}

	return Sanitize(buf.String()), nil
}

// MarkdownValue 与 [Markdown] 相同，但以延迟值的形式在解析时才渲染。
func MarkdownValue(src string) htmlstream.Deferred {
	return htmlstream.Defer(func(context.Context) (any, error) {
		return Markdown(src)
	})
}
