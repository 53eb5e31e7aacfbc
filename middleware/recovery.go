package middleware

import (
	"fmt"
	"os"
	"runtime"
)

// Recovery turns a panic in a later middleware, a converter or a validator
// into a *RecoveryError.
func Recovery(options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	return RecoveryWithHandler(func(panicVal any, stack []byte) error {
		if config.PrintStack && len(stack) > 0 {
			out := config.Output
			if out == nil {
				out = os.Stderr
			}
			fmt.Fprintf(out, "PANIC during parse: %v\nStack trace:\n%s\n", panicVal, stack)
		}
		return &RecoveryError{Panic: panicVal, Stack: stack}
	}, options...)
}

// RecoveryWithHandler recovers panics and returns whatever handler returns.
func RecoveryWithHandler(handler func(panicVal any, stack []byte) error, options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	return func(next ActionFunc) ActionFunc {
		return func(inv Invocation) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var stack []byte
					if config.StackSize > 0 {
						stack = make([]byte, config.StackSize)
						stack = stack[:runtime.Stack(stack, false)]
					}
					inv.Set("panic_value", r)
					err = handler(r, stack)
				}
			}()
			return next(inv)
		}
	}
}

// RecoveryStats counts recovered panics.
type RecoveryStats struct {
	TotalPanics int
	LastPanic   *RecoveryError
}

// RecoveryWithStats is Recovery that also records into stats. stats is not
// synchronized; share it across goroutines only behind a lock.
func RecoveryWithStats(stats *RecoveryStats, options ...MiddlewareOption) Middleware {
	return RecoveryWithHandler(func(panicVal any, stack []byte) error {
		stats.TotalPanics++
		stats.LastPanic = &RecoveryError{Panic: panicVal, Stack: stack}
		return stats.LastPanic
	}, options...)
}
