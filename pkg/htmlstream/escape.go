package htmlstream

import "html"

// Escape 将 &、<、>、"、' 替换为 HTML 实体。
//
// 仅适用于元素内容（PCDATA）上下文，不处理属性、脚本或样式上下文。
func Escape(s string) string {
	return html.EscapeString(s)
}
