package pamargs

import (
	"context"
	"fmt"
	"log/slog"
)

// Logger is the optional sink receiving diagnostics from the pipeline.
// *pamio.Logger satisfies it, and SlogLogger adapts a *slog.Logger.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
}

// Component tags log lines with the pipeline stage that produced them.
type Component string

const (
	ComponentParser    Component = "parser"
	ComponentTokenizer Component = "tokenizer"
	ComponentStore     Component = "kv_store"
	ComponentValidator Component = "validator"
	ComponentBinding   Component = "binding"
)

// tracer prefixes messages with a component and drops them when no sink is set.
type tracer struct {
	sink Logger
}

func (t tracer) debug(c Component, format string, args ...any) {
	if t.sink == nil {
		return
	}
	t.sink.Debug("[%s] %s", c, fmt.Sprintf(format, args...))
}

func (t tracer) warn(c Component, format string, args ...any) {
	if t.sink == nil {
		return
	}
	t.sink.Warning("[%s] %s", c, fmt.Sprintf(format, args...))
}

func (t tracer) error(c Component, err error) {
	if t.sink == nil {
		return
	}
	if pe, ok := err.(*ParseError); ok {
		t.sink.Error("[%s] %s (%s)", c, pe.Error(), pe.Code())
		return
	}
	t.sink.Error("[%s] %v", c, err)
}

type slogLogger struct {
	l *slog.Logger
}

// SlogLogger adapts a structured slog logger to the Logger interface.
// Messages are formatted eagerly and emitted under the "pamargs" group.
func SlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return slogLogger{l: l.WithGroup("pamargs")}
}

func (s slogLogger) log(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, fmt.Sprintf(format, args...))
}

func (s slogLogger) Debug(format string, args ...any)   { s.log(slog.LevelDebug, format, args...) }
func (s slogLogger) Info(format string, args ...any)    { s.log(slog.LevelInfo, format, args...) }
func (s slogLogger) Warning(format string, args ...any) { s.log(slog.LevelWarn, format, args...) }
func (s slogLogger) Error(format string, args ...any)   { s.log(slog.LevelError, format, args...) }
