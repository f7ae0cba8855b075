package richtext

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/lwmacct/251207-go-pkg-htmlstream/pkg/htmlstream"
)

var (
	ugcPolicyOnce sync.Once
	ugcPolicy     *bluemonday.Policy
)

// Sanitize 按用户内容白名单清理 HTML，移除脚本、事件属性与危险链接。
func Sanitize(raw string) htmlstream.Safe {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	return htmlstream.MarkSafe(sanitizer().Sanitize(trimmed))
}

func sanitizer() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		// chroma 与 goldmark 输出的 class
		policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span")

		ugcPolicy = policy
	})

	return ugcPolicy
}
