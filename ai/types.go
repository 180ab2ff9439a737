package ai

// Result carries the outcome of a call to an AI collaborator. A degraded
// result holds the documented fallback value in Value and the failure that
// caused it in Err; callers keep going with Value either way.
type Result[T any] struct {
	Value    T
	Degraded bool
	Err      error
}

// Ok wraps a value produced by the collaborator itself.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fallback wraps a fallback value used because the collaborator failed
// or was not configured. err may be nil when no collaborator was available.
func Fallback[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Degraded: true, Err: err}
}
