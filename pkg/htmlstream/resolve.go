package htmlstream

import (
	"context"
	"io"
)

// MaxDepth 单个序列允许的最大嵌套生产者层数，同时限制单个值的连续等待次数。
const MaxDepth = 512

// frame 工作栈中的一个生产者。
type frame struct {
	items Iterator
	safe  bool
}

// resolve 对单个值分类并解析。
//
// 返回的 frame 非 nil 表示该值是生产者，由调用方压栈后逐个展开；
// 否则 chunk 即为输出片段。safe 表示该值是安全生产者的直接元素。
func (s *Sequence) resolve(ctx context.Context, v any, safe bool) (string, *frame, error) {
	for awaits := 0; ; awaits++ {
		if awaits > MaxDepth {
			return "", nil, ErrDepthExceeded
		}

		switch x := From(v).(type) {
		case Deferred:
			settled, err := x.Await(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return "", nil, ctx.Err()
				}
				return "", nil, &ResolutionError{Index: s.index, Err: err}
			}
			v = settled
		case Scalar:
			return s.text(string(x), safe), nil, nil
		case Text:
			return s.text(string(x), safe), nil, nil
		case Safe:
			return string(x), nil, nil
		case Producer:
			return "", &frame{items: x.Items, safe: x.Safe}, nil
		case *Sequence:
			if x == nil {
				return "", &frame{}, nil
			}
			return "", &frame{items: &chunkIterator{seq: x}, safe: true}, nil
		default:
			// From 只返回上面的类型
			return "", nil, nil
		}
	}
}

func (s *Sequence) text(raw string, safe bool) string {
	if safe {
		return raw
	}
	return Escape(raw)
}

// push 压入生产者，超过 MaxDepth 时失败。
func (s *Sequence) push(fr frame) error {
	if len(s.stack) >= MaxDepth {
		closeIterator(fr.items)
		return ErrDepthExceeded
	}
	s.stack = append(s.stack, fr)
	return nil
}

func (s *Sequence) pop() {
	n := len(s.stack) - 1
	closeIterator(s.stack[n].items)
	s.stack[n] = frame{}
	s.stack = s.stack[:n]
}

func (s *Sequence) closeFrames() {
	for len(s.stack) > 0 {
		s.pop()
	}
}

func closeIterator(it Iterator) {
	if c, ok := it.(io.Closer); ok {
		_ = c.Close()
	}
}

// chunkIterator 将嵌套模板的输出作为已转义的元素。
type chunkIterator struct {
	seq *Sequence
}

func (it *chunkIterator) Next(ctx context.Context) (any, bool, error) {
	chunk, err := it.seq.Next(ctx)
	if err == io.EOF { //nolint:errorlint // io.EOF is returned unwrapped
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return Safe(chunk), true, nil
}

func (it *chunkIterator) Close() error {
	return it.seq.Close()
}
