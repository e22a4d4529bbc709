package effect

import "reflect"

// Outcome is either a Success carrying a T or a Failure carrying an E.
type Outcome[E, T any] struct {
	ok    bool
	value T
	err   E
}

func Success[E, T any](v T) Outcome[E, T] {
	return Outcome[E, T]{ok: true, value: v}
}

func Failure[E, T any](e E) Outcome[E, T] {
	return Outcome[E, T]{err: e}
}

func (o Outcome[E, T]) IsSuccess() bool { return o.ok }
func (o Outcome[E, T]) IsFailure() bool { return !o.ok }

// Value returns the success value and true, or the zero value and false.
func (o Outcome[E, T]) Value() (T, bool) { return o.value, o.ok }

// Error returns the failure payload and true, or the zero value and false.
func (o Outcome[E, T]) Error() (E, bool) { return o.err, !o.ok }

// Get unpacks both sides at once.
func (o Outcome[E, T]) Get() (T, E, bool) { return o.value, o.err, o.ok }

// Equal compares two outcomes by variant and payload.
func (o Outcome[E, T]) Equal(other Outcome[E, T]) bool {
	if o.ok != other.ok {
		return false
	}
	if o.ok {
		return reflect.DeepEqual(o.value, other.value)
	}
	return reflect.DeepEqual(o.err, other.err)
}

// MapOutcome transforms the success value. Failures pass through untouched.
func MapOutcome[E, A, B any](o Outcome[E, A], f func(A) B) Outcome[E, B] {
	if !o.ok {
		return Failure[E, B](o.err)
	}
	return Success[E](f(o.value))
}

// FlatMapOutcome chains a fallible step. f is never called on a Failure.
func FlatMapOutcome[E, A, B any](o Outcome[E, A], f func(A) Outcome[E, B]) Outcome[E, B] {
	if !o.ok {
		return Failure[E, B](o.err)
	}
	return f(o.value)
}

// MapError transforms the failure payload only.
func MapError[E, F, T any](o Outcome[E, T], f func(E) F) Outcome[F, T] {
	if o.ok {
		return Success[F](o.value)
	}
	return Failure[F, T](f(o.err))
}

// Match folds an outcome into a single value.
func Match[E, T, R any](o Outcome[E, T], onSuccess func(T) R, onFailure func(E) R) R {
	if o.ok {
		return onSuccess(o.value)
	}
	return onFailure(o.err)
}
