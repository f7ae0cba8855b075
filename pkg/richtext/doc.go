// Package richtext 将富文本转换为可直接嵌入模板的安全值。
//
//   - [Sanitize] - 按白名单清理用户提交的 HTML
//   - [Markdown] - Markdown 渲染后再清理
//   - [Code] - 代码语法高亮
//
// 返回值均为 [htmlstream.Safe]，嵌入模板时不会被再次转义。
package richtext
