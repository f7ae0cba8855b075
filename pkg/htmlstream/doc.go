// Package htmlstream 提供流式的服务端 HTML 模板。
//
// 一次模板调用由静态片段与穿插其间的动态值组成，结果是惰性的文本片段序列，
// 可以在数据就绪时逐块写入 HTTP 响应，而不必先在内存中拼出完整页面。
// 不编译模板、不缓存、不加载模板文件。
//
// # 值的分类
//
// 每个动态值在解析时归入以下一类（见 [From]）：
//
//  1. 延迟值 [Deferred] - 先等待完成，再对结果重新分类
//  2. 符号 [Symbol] - 输出其描述
//  3. 字符串 [Text] - HTML 转义后输出
//  4. 安全值 [Safe] - 原样输出，仅能由 [MarkSafe] 创建
//  5. 生产者 [Producer] - 切片、迭代器、通道，逐个元素递归解析并就地展开
//  6. 嵌套模板 [*Sequence] - 其输出已经转义，不会再次转义
//  7. 其余 [Scalar] - 数字、布尔、nil 等使用规范文本形式
//
// # 消费方式
//
//   - [Collect] - 拼接为完整字符串
//   - [NewReader] - 拉取驱动的字节源，每次拉取推进一个片段
//   - [Handler] - 直接作为 http.Handler 流式输出
//
// # 快速开始
//
//	item := func(name string) *htmlstream.Sequence {
//	    return htmlstream.MustHTML(`<li>${}</li>`, name)
//	}
//	page := htmlstream.MustHTML(`<ul>${}</ul>`, htmlstream.Map(names, func(n string) any { return item(n) }))
//	out, err := htmlstream.Collect(ctx, page)
//
// # 错误
//
// 延迟值失败时返回 [*ResolutionError]，序列随之终止；
// 片段数量不匹配在创建时返回 [ErrMalformedTemplate]。
// 不做重试，也不会用默认内容替代失败的值。
package htmlstream
