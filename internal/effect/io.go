package effect

// Result is the outcome shape shared by repositories and services.
type Result[T any] = Outcome[ErrorDetails, T]

// IO is a deferred computation that ends in a Result.
type IO[T any] = Computation[Result[T]]

// Succeed is an IO that succeeds with v without doing anything.
func Succeed[T any](v T) IO[T] {
	return Pure(Success[ErrorDetails](v))
}

// Fail is an IO that fails with err without doing anything.
func Fail[T any](err ErrorDetails) IO[T] {
	return Pure(Failure[ErrorDetails, T](err))
}

// Attempt wraps a Go-style call. A returned ErrorDetails is kept as is,
// any other error becomes code/message with the cause under "cause".
func Attempt[T any](code, message string, fn func() (T, error)) IO[T] {
	return Suspend(func() Result[T] {
		v, err := fn()
		if err != nil {
			return Failure[ErrorDetails, T](Wrap(err, code, message))
		}
		return Success[ErrorDetails](v)
	})
}

// Wrap converts err into ErrorDetails unless it already is one.
func Wrap(err error, code, message string) ErrorDetails {
	if ed, ok := err.(ErrorDetails); ok {
		return ed
	}
	return NewError(code, message, map[string]string{"cause": err.Error()})
}

// Then runs next with the success value of io. Failures skip next.
func Then[A, B any](io IO[A], next func(A) IO[B]) IO[B] {
	return FlatMap(io, func(r Result[A]) IO[B] {
		v, err, ok := r.Get()
		if !ok {
			return Fail[B](err)
		}
		return next(v)
	})
}

// MapIO transforms the success value of io.
func MapIO[A, B any](io IO[A], f func(A) B) IO[B] {
	return Map(io, func(r Result[A]) Result[B] { return MapOutcome(r, f) })
}

// Exec runs io and converts a failure into a Go error.
func Exec[T any](io IO[T]) (T, error) {
	v, err, ok := io.Run().Get()
	if !ok {
		return v, err
	}
	return v, nil
}
