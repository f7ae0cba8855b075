package htmlstream

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTemplate 片段数量不等于值数量加一。
	ErrMalformedTemplate = errors.New("htmlstream: malformed template")

	// ErrDepthExceeded 嵌套生产者或连续等待超过 [MaxDepth]，通常意味着自引用数据。
	ErrDepthExceeded = errors.New("htmlstream: nesting depth exceeded")
)

// ResolutionError 延迟值在解析过程中失败。
//
// Index 为该值在模板中的位置；嵌套模板中的失败保留最内层的位置。
type ResolutionError struct {
	Index int
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("htmlstream: resolve value %d: %v", e.Index, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
