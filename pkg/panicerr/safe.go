package panicerr

import (
	"context"

	"github.com/sourcegraph/conc/panics"
)

// Safe wraps fn so that a panic inside it comes back as an error.
func Safe(fn func() error) func() error {
	return func() error {
		var (
			catcher panics.Catcher
			err     error
		)
		catcher.Try(func() {
			err = fn()
		})
		if err != nil {
			return err
		}
		return catcher.Recovered().AsError()
	}
}

// SafeContext is Safe for functions that take a context.
func SafeContext(fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		return Safe(func() error { return fn(ctx) })()
	}
}

// Call runs fn and converts a panic into an error, keeping fn's result.
func Call[T any](fn func() (T, error)) (T, error) {
	var out T
	err := Safe(func() error {
		var err error
		out, err = fn()
		return err
	})()
	return out, err
}
