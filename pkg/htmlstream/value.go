package htmlstream

import (
	"context"
	"fmt"
	"iter"
	"reflect"
)

// ═══════════════════════════════════════════════════════════════════════════
// 值类型（封闭联合）
// ═══════════════════════════════════════════════════════════════════════════

// Value 是解析器接受的封闭输入类型。
//
// 只有本包内的类型实现该接口：[Scalar]、[Text]、[Safe]、[Producer]、[Deferred]、[*Sequence]。
// 任意 Go 值通过 [From] 在边界处转换一次。
type Value interface {
	isValue()
}

// Scalar 非字符串值的规范文本形式（数字、布尔、缺省标记、符号、普通对象）。
type Scalar string

// Text 普通字符串，输出前进行 HTML 转义。
type Text string

// Safe 已标记为安全的字符串，原样输出。
type Safe string

// 缺省标记。
const (
	Null      Scalar = "null"
	Undefined Scalar = "undefined"
)

func (Scalar) isValue()    {}
func (Text) isValue()      {}
func (Safe) isValue()      {}
func (Producer) isValue()  {}
func (Deferred) isValue()  {}
func (*Sequence) isValue() {}

// MarkSafe 将字符串标记为安全，解析时跳过转义。
//
// 这是普通字符串绕过转义的唯一途径。
func MarkSafe(s string) Safe {
	return Safe(s)
}

// Symbol 类似唯一符号的标记，输出时使用其描述。
type Symbol struct {
	desc string
}

// NewSymbol 创建一个新的符号，每次调用都返回不同的实例。
func NewSymbol(desc string) *Symbol {
	return &Symbol{desc: desc}
}

// String 返回符号的描述。
func (s *Symbol) String() string {
	return s.desc
}

// ═══════════════════════════════════════════════════════════════════════════
// 生产者
// ═══════════════════════════════════════════════════════════════════════════

// Iterator 按顺序拉取下一个元素；ok 为 false 表示已耗尽。
//
// 实现可以阻塞（例如等待网络或数据库），但应尊重 ctx。
// 若同时实现 io.Closer，序列提前关闭时会调用 Close。
type Iterator interface {
	Next(ctx context.Context) (item any, ok bool, err error)
}

// IteratorFunc 适配普通函数为 [Iterator]。
type IteratorFunc func(ctx context.Context) (any, bool, error)

// Next 调用 f。
func (f IteratorFunc) Next(ctx context.Context) (any, bool, error) {
	return f(ctx)
}

// Producer 产生一组有序值，每个元素都会递归解析并就地展开。
//
// Safe 为 true 时，其直接的字符串元素不再转义。
type Producer struct {
	Items Iterator
	Safe  bool
}

// MarkSafe 返回标记为安全的生产者副本。
func (p Producer) MarkSafe() Producer {
	p.Safe = true
	return p
}

// FromIterator 包装任意 [Iterator]。
func FromIterator(it Iterator) Producer {
	return Producer{Items: it}
}

// Slice 由固定元素构成的生产者。
func Slice(items ...any) Producer {
	return Producer{Items: &sliceIterator{items: items}}
}

// Seq 由同步迭代器构成的生产者。
//
// 迭代器在首次拉取时才启动；nil 迭代器视为空。
func Seq(seq iter.Seq[any]) Producer {
	if seq == nil {
		return Slice()
	}
	return Producer{Items: &seqIterator{seq: seq}}
}

// SeqOf 由任意元素类型的同步迭代器构成的生产者，例如 slices.Values、maps.Keys 的结果。
func SeqOf[T any](seq iter.Seq[T]) Producer {
	if seq == nil {
		return Slice()
	}
	return Seq(func(yield func(any) bool) {
		for v := range seq {
			if !yield(v) {
				return
			}
		}
	})
}

// Seq2Of 由成对迭代器构成的生产者，每对按 k、v 的顺序展开。
func Seq2Of[K, V any](seq iter.Seq2[K, V]) Producer {
	if seq == nil {
		return Slice()
	}
	return Seq(func(yield func(any) bool) {
		for k, v := range seq {
			if !yield(k) || !yield(v) {
				return
			}
		}
	})
}

// Chan 由通道构成的生产者，通道关闭即耗尽。
func Chan[T any](ch <-chan T) Producer {
	return Producer{Items: IteratorFunc(func(ctx context.Context) (any, bool, error) {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case v, ok := <-ch:
			if !ok {
				return nil, false, nil
			}
			return v, true, nil
		}
	})}
}

type sliceIterator struct {
	items []any
	pos   int
}

func (it *sliceIterator) Next(context.Context) (any, bool, error) {
	if it.pos >= len(it.items) {
		return nil, false, nil
	}
	v := it.items[it.pos]
	it.pos++
	return v, true, nil
}

type seqIterator struct {
	seq  iter.Seq[any]
	next func() (any, bool)
	stop func()
}

func (it *seqIterator) Next(context.Context) (any, bool, error) {
	if it.next == nil {
		it.next, it.stop = iter.Pull(it.seq)
	}
	v, ok := it.next()
	if !ok {
		it.stop()
	}
	return v, ok, nil
}

func (it *seqIterator) Close() error {
	if it.stop != nil {
		it.stop()
	}
	return nil
}

// reflectIterator 遍历任意切片或数组。
type reflectIterator struct {
	val reflect.Value
	pos int
}

func (it *reflectIterator) Next(context.Context) (any, bool, error) {
	if it.pos >= it.val.Len() {
		return nil, false, nil
	}
	v := it.val.Index(it.pos).Interface()
	it.pos++
	return v, true, nil
}

// reflectChanIterator 接收任意元素类型的通道。
type reflectChanIterator struct {
	ch reflect.Value
}

func (it *reflectChanIterator) Next(ctx context.Context) (any, bool, error) {
	chosen, v, ok := reflect.Select([]reflect.SelectCase{
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
		{Dir: reflect.SelectRecv, Chan: it.ch},
	})
	if chosen == 0 {
		return nil, false, ctx.Err()
	}
	if !ok {
		return nil, false, nil
	}
	return v.Interface(), true, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 延迟值
// ═══════════════════════════════════════════════════════════════════════════

// Deferred 尚未就绪的结果。解析时等待其完成，再对结果重新分类。
type Deferred struct {
	wait func(ctx context.Context) (any, error)
}

// Defer 延迟计算，在解析到该值时才调用 fn。
func Defer(fn func(ctx context.Context) (any, error)) Deferred {
	return Deferred{wait: fn}
}

// Async 立即在新的 goroutine 中启动 fn，结果只计算一次。
//
// fn 收到的是 context.Background()：其生命周期独立于消费方，
// 消费方取消只会停止等待。
func Async(fn func(ctx context.Context) (any, error)) Deferred {
	var (
		done   = make(chan struct{})
		result any
		err    error
	)
	go func() {
		defer close(done)
		result, err = fn(context.Background())
	}()
	return Deferred{wait: func(ctx context.Context) (any, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
			return result, err
		}
	}}
}

// Resolved 已完成的延迟值。
func Resolved(v any) Deferred {
	return Deferred{wait: func(context.Context) (any, error) { return v, nil }}
}

// Await 等待延迟值完成。零值 Deferred 的结果为 [Undefined]。
func (d Deferred) Await(ctx context.Context) (any, error) {
	if d.wait == nil {
		return Undefined, nil
	}
	return d.wait(ctx)
}

// ═══════════════════════════════════════════════════════════════════════════
// 边界适配
// ═══════════════════════════════════════════════════════════════════════════

// From 将任意 Go 值转换为 [Value]。
//
// 分类优先级：延迟值 → 符号 → 字符串 → 生产者或安全值 → 普通对象。
//   - Deferred、func(context.Context) (any, error) → 延迟值
//   - *Symbol → Scalar(描述)
//   - string、[]byte → Text
//   - Value、iter.Seq[T]、iter.Seq2[K, V]、Iterator、切片、数组、可接收的通道 → 原值或 Producer
//   - nil 迭代器 → 空 Producer；nil、nil 指针、nil 通道 → Null；error → 错误信息；fmt.Stringer → String()；其余 → fmt.Sprint
func From(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null
	case Deferred:
		return x
	case func(context.Context) (any, error):
		return Defer(x)
	case *Symbol:
		if x == nil {
			return Null
		}
		return Scalar(x.desc)
	case string:
		return Text(x)
	case []byte:
		return Text(x)
	case Value:
		return x
	case iter.Seq[any]:
		return Seq(x)
	case Iterator:
		if isNil(reflect.ValueOf(x)) {
			return Slice()
		}
		return FromIterator(x)
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, uintptr, float32, float64:
		return Scalar(fmt.Sprint(x))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return Slice()
		}
		return Producer{Items: &reflectIterator{val: rv}}
	case reflect.Array:
		return Producer{Items: &reflectIterator{val: rv}}
	case reflect.Chan:
		if rv.IsNil() {
			return Null
		}
		if rv.Type().ChanDir()&reflect.RecvDir != 0 {
			return Producer{Items: &reflectChanIterator{ch: rv}}
		}
	case reflect.Func:
		if seq, ok := reflectSeq(rv); ok {
			return Seq(seq)
		}
		if rv.IsNil() {
			return Null
		}
	case reflect.Pointer, reflect.Interface, reflect.Map:
		if rv.IsNil() {
			return Null
		}
	}

	switch x := v.(type) {
	case error:
		return Scalar(x.Error())
	case fmt.Stringer:
		return Scalar(x.String())
	}

	return Scalar(fmt.Sprint(v))
}

func isNil(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

// reflectSeq 识别 func(yield func(T) bool) 与 func(yield func(K, V) bool) 形态的迭代器。
//
// 成对迭代器的每一对按 k、v 的顺序展开；nil 迭代器返回 nil，由 [Seq] 视为空。
func reflectSeq(rv reflect.Value) (iter.Seq[any], bool) {
	typ := rv.Type()
	if typ.NumIn() != 1 || typ.NumOut() != 0 || typ.IsVariadic() {
		return nil, false
	}
	yieldType := typ.In(0)
	if yieldType.Kind() != reflect.Func || yieldType.IsVariadic() ||
		yieldType.NumOut() != 1 || yieldType.Out(0).Kind() != reflect.Bool {
		return nil, false
	}
	arity := yieldType.NumIn()
	if arity != 1 && arity != 2 {
		return nil, false
	}
	if rv.IsNil() {
		return nil, true
	}

	return func(yield func(any) bool) {
		fn := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
			more := true
			for _, arg := range args {
				if more = yield(arg.Interface()); !more {
					break
				}
			}
			return []reflect.Value{reflect.ValueOf(more).Convert(yieldType.Out(0))}
		})
		rv.Call([]reflect.Value{fn})
	}, true
}
