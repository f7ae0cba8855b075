package richtext

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/lwmacct/251207-go-pkg-htmlstream/pkg/htmlstream"
)

// DefaultStyle 代码高亮使用的配色。
const DefaultStyle = "github"

var codeFormatter = html.New(
	html.WithClasses(false),
	html.TabWidth(4),
)

// Code 对源代码做语法高亮，返回 <pre> 片段。
//
// lang 为空或无法识别时按内容猜测，仍无法识别则作为纯文本输出。
// chroma 会转义源代码中的全部文本，因此结果不再经过 [Sanitize]。
func Code(src, lang string) (htmlstream.Safe, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(src)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("richtext: tokenise %s: %w", lang, err)
	}

	var buf bytes.Buffer
	if err := codeFormatter.Format(&buf, styles.Get(DefaultStyle), iterator); err != nil {
		return "", fmt.Errorf("richtext: format %s: %w", lang, err)
	}

	return htmlstream.MarkSafe(buf.String()), nil
}
