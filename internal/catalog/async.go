package catalog

import "context"

type Result[T any] struct {
	Value T
	Err   error
}

// Async runs fn on its own goroutine. The returned channel yields exactly one
// Result and is then closed.
func Async[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, err := fn(ctx)
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}
