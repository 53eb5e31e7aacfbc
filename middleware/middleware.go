// Package middleware wraps a parse invocation with cross-cutting behavior:
// logging, panic recovery and post-parse validation.
package middleware

import (
	"fmt"
	"io"
	"time"
)

// The parser package imports this one, so the types it hands to middleware
// are described here as interfaces.

// Outcome is the read-only view of a successful parse.
type Outcome interface {
	// IsPresent reports whether the named flag or key matched.
	IsPresent(name string) bool

	// Value returns the converted value of a key. The boolean is false when
	// the key did not match; the value is nil for a bare key or an absent
	// optional.
	Value(name string) (any, bool)

	// Raw returns the value text of a key as it appeared after tokenization.
	Raw(name string) (string, bool)

	// Leftover returns unmatched text in input order.
	Leftover() []string
}

// Invocation is one call to Parse as seen by middleware.
type Invocation interface {
	// Args returns the raw arguments. Treat the slice as read-only.
	Args() []string

	// Outcome returns the parse outcome. It is nil until the core parse has
	// returned without error.
	Outcome() Outcome

	// Set stores a value for later middleware. Namespace keys, for example
	// "logger.start".
	Set(key string, value any)

	// Get returns a value stored with Set, or nil.
	Get(key string) any
}

// ActionFunc is the parse step being wrapped.
type ActionFunc func(inv Invocation) error

// Middleware decorates an ActionFunc.
type Middleware func(next ActionFunc) ActionFunc

// MiddlewareChain is an ordered list of middleware.
type MiddlewareChain []Middleware

// Apply wraps action so that chain[0] runs outermost.
func (chain MiddlewareChain) Apply(action ActionFunc) ActionFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		action = chain[i](action)
	}
	return action
}

// Use returns a new chain with middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	out := make(MiddlewareChain, 0, len(chain)+len(middleware))
	out = append(out, chain...)
	return append(out, middleware...)
}

// Chain builds a chain preserving order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// ValidationError is returned by validators. The parser reports it as an
// invalid value for Name.
type ValidationError struct {
	Name    string
	Value   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// RecoveryError carries a recovered panic.
type RecoveryError struct {
	Panic any
	Stack []byte
}

func (e *RecoveryError) Error() string {
	return "parse panicked: " + toString(e.Panic)
}

// MiddlewareConfig configures the built-in middleware.
type MiddlewareConfig struct {
	LogLevel    LogLevel
	LogFormat   LogFormat
	Output      io.Writer
	IncludeArgs bool
	PrintStack  bool
	StackSize   int
	// Now is the clock used for durations.
	Now func() time.Time
}

// LogLevel selects which invocations are logged.
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

// LogFormat selects the log line encoding.
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// RequestInfo is one logged invocation.
type RequestInfo struct {
	Args      []string
	StartTime time.Time
	Duration  time.Duration
	Error     error
	Metadata  map[string]any
}

// MiddlewareOption mutates a MiddlewareConfig.
type MiddlewareOption func(config *MiddlewareConfig)

// DefaultConfig returns the defaults: info level text logs without stack
// traces. A nil Output means stderr.
func DefaultConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LogLevel:    LogLevelInfo,
		LogFormat:   LogFormatText,
		IncludeArgs: true,
		StackSize:   4096,
		Now:         time.Now,
	}
}

func newConfig(options []MiddlewareOption) *MiddlewareConfig {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return config
}

func WithLogLevel(level LogLevel) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.LogLevel = level }
}

func WithLogFormat(format LogFormat) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.LogFormat = format }
}

func WithOutput(w io.Writer) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.Output = w }
}

// WithArgs controls whether raw arguments appear in log lines. PAM
// arguments can carry secrets, so callers may turn this off.
func WithArgs(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.IncludeArgs = enabled }
}

func WithStackTrace(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.PrintStack = enabled }
}

func WithClock(now func() time.Time) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.Now = now }
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
