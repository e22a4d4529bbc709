package effect

type kind uint8

const (
	kindPure kind = iota
	kindSuspend
	kindBind
)

// Computation describes a unit of work that produces a T.
// Building one never performs side effects; only Run does.
type Computation[T any] struct {
	kind  kind
	value T
	thunk func() T
}

// Unit is the result of computations that only matter for their effect.
type Unit struct{}

// Pure lifts an already known value.
func Pure[T any](v T) Computation[T] {
	return Computation[T]{kind: kindPure, value: v}
}

// Suspend defers fn until Run.
func Suspend[T any](fn func() T) Computation[T] {
	return Computation[T]{kind: kindSuspend, thunk: fn}
}

// Run executes the whole chain synchronously on the calling goroutine.
func (c Computation[T]) Run() T {
	switch c.kind {
	case kindSuspend, kindBind:
		if c.thunk == nil {
			var zero T
			return zero
		}
		return c.thunk()
	default:
		return c.value
	}
}

// IsPure reports whether c holds a value without any pending effect.
func (c Computation[T]) IsPure() bool { return c.kind == kindPure }

// Map runs c then applies f to its result.
func Map[A, B any](c Computation[A], f func(A) B) Computation[B] {
	return Computation[B]{kind: kindBind, thunk: func() B { return f(c.Run()) }}
}

// FlatMap runs c, hands the result to f and runs the computation f returns.
func FlatMap[A, B any](c Computation[A], f func(A) Computation[B]) Computation[B] {
	return Computation[B]{kind: kindBind, thunk: func() B { return f(c.Run()).Run() }}
}
