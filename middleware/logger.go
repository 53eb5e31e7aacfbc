package middleware

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/dzonerzy/go-pamargs/internal/pool"
)

// maxIdleRequests bounds the idle RequestInfo records kept between parses.
const maxIdleRequests = 64

var requestInfoPool = func() *pool.Pool[RequestInfo] {
	p := pool.NewPoolWithReset(
		func() *RequestInfo {
			return &RequestInfo{Metadata: make(map[string]any, 4)}
		},
		func(info *RequestInfo) {
			info.Args = info.Args[:0]
			info.StartTime = time.Time{}
			info.Duration = 0
			info.Error = nil
			clear(info.Metadata)
		},
	)
	p.SetMaxSize(maxIdleRequests)
	return p
}()

var logBuffers = pool.NewBufferPool()

// MetadataKey prefixes the invocation keys written by SetLogField.
const MetadataKey = "log."

// Logger logs every parse invocation once it returns.
func Logger(options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	writer := config.Output
	if writer == nil {
		writer = os.Stderr
	}

	return func(next ActionFunc) ActionFunc {
		return func(inv Invocation) error {
			if config.LogLevel == LogLevelNone {
				return next(inv)
			}

			info := requestInfoPool.Get()
			defer requestInfoPool.Put(info)

			info.Args = append(info.Args, inv.Args()...)
			info.StartTime = config.Now()

			if config.LogLevel >= LogLevelDebug {
				writeLog(writer, config, info, "START")
			}

			err := next(inv)

			info.Duration = config.Now().Sub(info.StartTime)
			info.Error = err
			collectMetadata(inv, info)

			level := "SUCCESS"
			if err != nil {
				level = "ERROR"
			}
			if shouldLog(config.LogLevel, level) {
				writeLog(writer, config, info, level)
			}
			return err
		}
	}
}

// LoggerWithWriter is Logger writing to w.
func LoggerWithWriter(w io.Writer, options ...MiddlewareOption) Middleware {
	return Logger(append(options, WithOutput(w))...)
}

// JSONLogger logs JSON lines to stderr.
func JSONLogger() Middleware {
	return Logger(WithLogFormat(LogFormatJSON))
}

// SilentLogger discards everything.
func SilentLogger() Middleware {
	return Logger(WithLogLevel(LogLevelNone))
}

func collectMetadata(inv Invocation, info *RequestInfo) {
	if keys, ok := inv.Get(metadataKeysKey).([]string); ok {
		for _, k := range keys {
			info.Metadata[k] = inv.Get(MetadataKey + k)
		}
	}
}

// metadataKeysKey holds the list of log.* keys set through SetLogField.
const metadataKeysKey = "log.__keys"

// SetLogField records a field that Logger adds to the invocation's line.
func SetLogField(inv Invocation, key string, value any) {
	keys, _ := inv.Get(metadataKeysKey).([]string)
	for _, k := range keys {
		if k == key {
			inv.Set(MetadataKey+key, value)
			return
		}
	}
	inv.Set(metadataKeysKey, append(keys, key))
	inv.Set(MetadataKey+key, value)
}

func shouldLog(configLevel LogLevel, level string) bool {
	switch level {
	case "ERROR":
		return configLevel >= LogLevelError
	case "START":
		return configLevel >= LogLevelDebug
	default:
		return configLevel >= LogLevelInfo
	}
}

func writeLog(w io.Writer, config *MiddlewareConfig, info *RequestInfo, level string) {
	if config.LogFormat == LogFormatJSON {
		writeJSONLog(w, info, level, config)
		return
	}
	writeTextLog(w, info, level, config)
}

func writeTextLog(w io.Writer, info *RequestInfo, level string, config *MiddlewareConfig) {
	buf := logBuffers.Get(256)
	defer logBuffers.Put(buf)

	*buf = append(*buf, '[')
	*buf = info.StartTime.AppendFormat(*buf, "2006-01-02 15:04:05")
	*buf = append(*buf, "] "...)
	*buf = append(*buf, level...)
	*buf = append(*buf, " event=parse"...)

	if info.Duration > 0 {
		*buf = append(*buf, " duration="...)
		*buf = append(*buf, info.Duration.String()...)
	}
	if config.IncludeArgs && len(info.Args) > 0 {
		*buf = append(*buf, " args="...)
		for i, arg := range info.Args {
			if i > 0 {
				*buf = append(*buf, ' ')
			}
			*buf = append(*buf, arg...)
		}
	}
	keys := make([]string, 0, len(info.Metadata))
	for k := range info.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		*buf = append(*buf, ' ')
		*buf = append(*buf, k...)
		*buf = append(*buf, '=')
		*buf = append(*buf, toString(info.Metadata[k])...)
	}
	if info.Error != nil {
		*buf = append(*buf, " error="...)
		*buf = strconv.AppendQuote(*buf, info.Error.Error())
	}
	*buf = append(*buf, '\n')

	//nolint:errcheck,gosec // Logging is best-effort; ignore write errors.
	w.Write(*buf)
}

func writeJSONLog(w io.Writer, info *RequestInfo, level string, config *MiddlewareConfig) {
	buf := logBuffers.Get(512)
	defer logBuffers.Put(buf)

	*buf = append(*buf, `{"timestamp":"`...)
	*buf = info.StartTime.AppendFormat(*buf, time.RFC3339)
	*buf = append(*buf, `","level":"`...)
	*buf = append(*buf, level...)
	*buf = append(*buf, `","event":"parse"`...)

	if info.Duration > 0 {
		*buf = append(*buf, `,"duration_us":`...)
		*buf = strconv.AppendInt(*buf, info.Duration.Microseconds(), 10)
	}
	if config.IncludeArgs && len(info.Args) > 0 {
		*buf = append(*buf, `,"args":[`...)
		for i, arg := range info.Args {
			if i > 0 {
				*buf = append(*buf, ',')
			}
			enc, _ := json.Marshal(arg)
			*buf = append(*buf, enc...)
		}
		*buf = append(*buf, ']')
	}
	if info.Error != nil {
		*buf = append(*buf, `,"error":`...)
		enc, _ := json.Marshal(info.Error.Error())
		*buf = append(*buf, enc...)
	}
	if len(info.Metadata) > 0 {
		if enc, err := json.Marshal(info.Metadata); err == nil {
			*buf = append(*buf, `,"metadata":`...)
			*buf = append(*buf, enc...)
		}
	}
	*buf = append(*buf, "}\n"...)

	//nolint:errcheck,gosec // Logging is best-effort; ignore write errors.
	w.Write(*buf)
}
