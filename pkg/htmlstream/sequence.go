package htmlstream

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Placeholder 是 [HTML] 布局字符串中的值占位符。
const Placeholder = "${}"

// Sequence 一次模板调用产生的惰性文本片段序列。
//
// 输出顺序与源顺序一致：片段、值、片段、值……最后一个片段；
// 嵌套的生产者按深度优先就地展开。
//
// Sequence 只能单次向前消费，不支持并发调用。
// 作为值嵌入其他模板时，其输出视为已转义，不会被再次转义。
type Sequence struct {
	fragments []string
	values    []any

	pos     int // 下一个位置：偶数为片段，奇数为值
	index   int // 当前解析的值下标
	stack   []frame
	err     error
	running bool
}

// Template 创建一次模板调用。
//
// fragments 为静态片段，values 为穿插其间的动态值，
// 要求 len(fragments) == len(values)+1，否则返回 [ErrMalformedTemplate]。
func Template(fragments []string, values ...any) (*Sequence, error) {
	if len(fragments) != len(values)+1 {
		return nil, fmt.Errorf("%w: %d fragments for %d values", ErrMalformedTemplate, len(fragments), len(values))
	}

	return &Sequence{
		fragments: fragments,
		values:    values,
	}, nil
}

// MustTemplate 调用 [Template] 并在失败时 panic，适合包级变量或固定布局。
func MustTemplate(fragments []string, values ...any) *Sequence {
	seq, err := Template(fragments, values...)
	if err != nil {
		panic(err)
	}

	return seq
}

// HTML 按 [Placeholder] 切分 layout 后调用 [Template]。
//
// 示例：
//
//	seq, err := htmlstream.HTML(`<p>${}</p>`, name)
func HTML(layout string, values ...any) (*Sequence, error) {
	return Template(strings.Split(layout, Placeholder), values...)
}

// MustHTML 调用 [HTML] 并在失败时 panic。
func MustHTML(layout string, values ...any) *Sequence {
	seq, err := HTML(layout, values...)
	if err != nil {
		panic(err)
	}

	return seq
}

// Map 对每个元素调用 fn，结果作为生产者按顺序展开。
func Map[T any](items []T, fn func(T) any) Producer {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}

	return Slice(out...)
}

// Next 拉取下一个片段，序列耗尽时返回 io.EOF。
//
// 遇到延迟值或阻塞的生产者时会挂起。错误是粘滞的：
// 失败之后不再产生任何片段，后续调用返回同一个错误。
func (s *Sequence) Next(ctx context.Context) (string, error) {
	if s == nil {
		return "", io.EOF
	}
	if s.err != nil {
		return "", s.err
	}
	if s.running {
		return "", fmt.Errorf("%w: sequence embeds itself", ErrDepthExceeded)
	}

	s.running = true
	defer func() { s.running = false }()

	chunk, err := s.advance(ctx)
	if err != nil {
		s.err = err
		s.closeFrames()
	}

	return chunk, err
}

func (s *Sequence) advance(ctx context.Context) (string, error) {
	for {
		if n := len(s.stack); n > 0 {
			top := s.stack[n-1]
			if top.items == nil {
				s.pop()
				continue
			}

			item, ok, err := top.items.Next(ctx)
			if err != nil {
				return "", err
			}
			if !ok {
				s.pop()
				continue
			}

			chunk, fr, err := s.resolve(ctx, item, top.safe)
			if err != nil {
				return "", err
			}
			if fr != nil {
				if err := s.push(*fr); err != nil {
					return "", err
				}
				continue
			}

			return chunk, nil
		}

		if s.pos >= 2*len(s.fragments)-1 {
			return "", io.EOF
		}

		k := s.pos
		s.pos++
		if k%2 == 0 {
			return s.fragments[k/2], nil
		}

		s.index = k / 2
		chunk, fr, err := s.resolve(ctx, s.values[s.index], false)
		if err != nil {
			return "", err
		}
		if fr != nil {
			if err := s.push(*fr); err != nil {
				return "", err
			}
			continue
		}

		return chunk, nil
	}
}

// All 以 Go 迭代器形式遍历剩余片段。
//
// 出错时产出一次 ("", err) 后结束；调用方提前停止时序列会被关闭。
func (s *Sequence) All(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			chunk, err := s.Next(ctx)
			if err == io.EOF { //nolint:errorlint // io.EOF is returned unwrapped
				return
			}
			if err != nil {
				yield("", err)
				return
			}
			if !yield(chunk, nil) {
				_ = s.Close()
				return
			}
		}
	}
}

// Close 停止序列并释放尚未耗尽的生产者，之后 Next 返回 io.EOF。
//
// 对已结束的序列调用 Close 是安全的。
func (s *Sequence) Close() error {
	if s == nil || s.running {
		return nil
	}
	s.closeFrames()
	if s.err == nil {
		s.err = io.EOF
	}

	return nil
}
