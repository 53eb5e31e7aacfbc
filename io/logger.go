package pamio

import (
	"encoding/json"
	"fmt"
	stdio "io"
	"strings"
	"sync"
	"time"

	"github.com/dzonerzy/go-pamargs/pamargs"
)

var _ pamargs.Logger = (*Logger)(nil)

// LogLevel is the severity of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogFormat selects how a message is rendered.
type LogFormat int

const (
	LogFormatTagged  LogFormat = iota // [INFO] message
	LogFormatSymbols                  // ◆ message
	LogFormatPlain                    // message
	LogFormatJSON                     // {"level":"INFO","message":"..."}
)

// Logger writes leveled messages to a Streams pair. It is safe for
// concurrent use.
type Logger struct {
	mu           sync.Mutex
	streams      *Streams
	format       LogFormat
	prefixes     map[LogLevel]string
	minLevel     LogLevel
	withTime     bool
	timeFormat   string
	errorsStderr bool
	theme        Theme
	now          func() time.Time
}

// NewLogger creates a tagged logger on st that shows Info and above.
func NewLogger(st *Streams) *Logger {
	return &Logger{
		streams:      st,
		format:       LogFormatTagged,
		prefixes:     taggedPrefixes(),
		minLevel:     LevelInfo,
		timeFormat:   "15:04:05",
		errorsStderr: true,
		theme:        DefaultTheme(st),
		now:          time.Now,
	}
}

func taggedPrefixes() map[LogLevel]string {
	return map[LogLevel]string{
		LevelDebug:   "[DEBUG]",
		LevelInfo:    "[INFO]",
		LevelWarning: "[WARN]",
		LevelError:   "[ERROR]",
	}
}

func symbolPrefixes() map[LogLevel]string {
	return map[LogLevel]string{
		LevelDebug:   "●",
		LevelInfo:    "◆",
		LevelWarning: "▲",
		LevelError:   "✗",
	}
}

func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	switch format {
	case LogFormatTagged:
		l.prefixes = taggedPrefixes()
	case LogFormatSymbols:
		l.prefixes = symbolPrefixes()
	default:
		l.prefixes = map[LogLevel]string{}
	}
	return l
}

// SetPrefix overrides the prefix of one level.
func (l *Logger) SetPrefix(level LogLevel, prefix string) *Logger {
	l.prefixes[level] = prefix
	return l
}

// WithLevel drops messages below level.
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.minLevel = level
	return l
}

func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.withTime = enabled
	return l
}

func (l *Logger) WithTimeFormat(format string) *Logger {
	l.timeFormat = format
	return l
}

// WithClock replaces the time source used for timestamps.
func (l *Logger) WithClock(now func() time.Time) *Logger {
	l.now = now
	return l
}

// ErrorsToStderr controls whether errors and warnings go to the error stream.
func (l *Logger) ErrorsToStderr(enabled bool) *Logger {
	l.errorsStderr = enabled
	return l
}

func (l *Logger) WithTheme(theme Theme) *Logger {
	l.theme = theme
	return l
}

// Log writes one message at level.
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if level < l.minLevel {
		return
	}
	msg := fmt.Sprintf(format, args...)
	line := l.render(level, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.writer(level), line)
}

type jsonRecord struct {
	Time    string `json:"time,omitempty"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (l *Logger) render(level LogLevel, msg string) string {
	if l.format == LogFormatJSON {
		rec := jsonRecord{Level: level.String(), Message: msg}
		if l.withTime {
			rec.Time = l.now().Format(time.RFC3339)
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return msg
		}
		return string(b)
	}

	if strings.TrimSpace(msg) == "" {
		return msg
	}
	parts := make([]string, 0, 3)
	if p := l.prefixes[level]; p != "" {
		parts = append(parts, p)
	}
	if l.withTime {
		parts = append(parts, "["+l.now().Format(l.timeFormat)+"]")
	}
	parts = append(parts, msg)
	return l.colorize(level, strings.Join(parts, " "))
}

func (l *Logger) colorize(level LogLevel, text string) string {
	if !l.streams.SupportsColor() {
		return text
	}
	var c ColorSpec
	switch level {
	case LevelDebug:
		c = l.theme.Debug
	case LevelInfo:
		c = l.theme.Info
	case LevelWarning:
		c = l.theme.Warning
	case LevelError:
		c = l.theme.Error
	default:
		return text
	}
	return NewStyle().Fg(c).Sprint(l.streams, text)
}

func (l *Logger) writer(level LogLevel) stdio.Writer {
	if l.errorsStderr && level >= LevelWarning {
		return l.streams.Err()
	}
	return l.streams.Out()
}

func (l *Logger) Debug(format string, args ...any)   { l.Log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)    { l.Log(LevelInfo, format, args...) }
func (l *Logger) Warning(format string, args ...any) { l.Log(LevelWarning, format, args...) }
func (l *Logger) Error(format string, args ...any)   { l.Log(LevelError, format, args...) }
