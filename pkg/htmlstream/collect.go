package htmlstream

import (
	"context"
	"io"
	"strings"
)

// Chunks 惰性文本片段的来源，耗尽时返回 io.EOF。
//
// [*Sequence] 实现了该接口；消费方只依赖这一形态。
type Chunks interface {
	Next(ctx context.Context) (string, error)
}

// Collect 拉取全部片段并按顺序拼接。
//
// 任一片段失败时返回该错误，不返回部分结果。
func Collect(ctx context.Context, src Chunks) (string, error) {
	var buf strings.Builder
	for {
		chunk, err := src.Next(ctx)
		if err == io.EOF { //nolint:errorlint // io.EOF is returned unwrapped
			return buf.String(), nil
		}
		if err != nil {
			return "", err
		}
		buf.WriteString(chunk)
	}
}
