package middleware

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// mockOutcome is a fixed parse outcome.
type mockOutcome struct {
	present  map[string]bool
	values   map[string]any
	raw      map[string]string
	leftover []string
}

func newMockOutcome() *mockOutcome {
	return &mockOutcome{
		present: make(map[string]bool),
		values:  make(map[string]any),
		raw:     make(map[string]string),
	}
}

func (o *mockOutcome) flag(name string) *mockOutcome {
	o.present[name] = true
	return o
}

func (o *mockOutcome) kv(name, raw string) *mockOutcome {
	o.present[name] = true
	o.values[name] = raw
	o.raw[name] = raw
	return o
}

func (o *mockOutcome) IsPresent(name string) bool { return o.present[name] }
func (o *mockOutcome) Value(name string) (any, bool) {
	v, ok := o.values[name]
	return v, ok
}
func (o *mockOutcome) Raw(name string) (string, bool) {
	v, ok := o.raw[name]
	return v, ok
}
func (o *mockOutcome) Leftover() []string { return o.leftover }

// mockInvocation publishes its outcome only once the core action ran.
type mockInvocation struct {
	args     []string
	outcome  *mockOutcome
	done     bool
	metadata map[string]any
}

func newMockInvocation(args ...string) *mockInvocation {
	return &mockInvocation{args: args, outcome: newMockOutcome(), metadata: make(map[string]any)}
}

func (m *mockInvocation) Args() []string { return m.args }
func (m *mockInvocation) Outcome() Outcome {
	if !m.done {
		return nil
	}
	return m.outcome
}
func (m *mockInvocation) Set(key string, value any) { m.metadata[key] = value }
func (m *mockInvocation) Get(key string) any        { return m.metadata[key] }

func successAction(inv Invocation) error {
	if m, ok := inv.(*mockInvocation); ok {
		m.done = true
	}
	return nil
}

func errorAction(Invocation) error { return errors.New("test error") }

func panicAction(Invocation) error { panic("test panic") }

// stepClock advances by step on every call.
func stepClock(step time.Duration) func() time.Time {
	t := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next ActionFunc) ActionFunc {
			return func(inv Invocation) error {
				order = append(order, name+">")
				err := next(inv)
				order = append(order, "<"+name)
				return err
			}
		}
	}

	base := Chain(tag("a"))
	extended := base.Use(tag("b"), tag("c"))
	if len(base) != 1 {
		t.Fatalf("Use modified the receiver: len=%d", len(base))
	}

	err := extended.Apply(func(Invocation) error {
		order = append(order, "core")
		return nil
	})(newMockInvocation())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "a> b> c> core <c <b <a"
	if got := strings.Join(order, " "); got != want {
		t.Fatalf("order = %q, want %q", got, want)
	}
}

func TestRecovery(t *testing.T) {
	inv := newMockInvocation()
	err := Recovery()(panicAction)(inv)

	var re *RecoveryError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RecoveryError, got %T: %v", err, err)
	}
	if re.Panic != "test panic" {
		t.Errorf("Panic = %v", re.Panic)
	}
	if len(re.Stack) == 0 {
		t.Error("expected a stack trace")
	}
	if err.Error() != "parse panicked: test panic" {
		t.Errorf("Error() = %q", err.Error())
	}
	if inv.Get("panic_value") != "test panic" {
		t.Errorf("panic_value = %v", inv.Get("panic_value"))
	}

	if err := Recovery()(successAction)(newMockInvocation()); err != nil {
		t.Errorf("unexpected error without panic: %v", err)
	}
}

func TestRecoveryPrintsStack(t *testing.T) {
	var buf bytes.Buffer
	_ = Recovery(WithStackTrace(true), WithOutput(&buf))(panicAction)(newMockInvocation())
	out := buf.String()
	if !strings.Contains(out, "PANIC during parse: test panic") || !strings.Contains(out, "Stack trace:") {
		t.Fatalf("unexpected output: %q", out)
	}

	buf.Reset()
	_ = Recovery(WithOutput(&buf))(panicAction)(newMockInvocation())
	if buf.Len() != 0 {
		t.Fatalf("stack printed without WithStackTrace: %q", buf.String())
	}
}

func TestRecoveryWithHandler(t *testing.T) {
	sentinel := errors.New("handled")
	mw := RecoveryWithHandler(func(panicVal any, stack []byte) error {
		if panicVal != "test panic" {
			t.Errorf("panicVal = %v", panicVal)
		}
		if stack != nil {
			t.Errorf("expected no stack with StackSize 0")
		}
		return sentinel
	}, func(c *MiddlewareConfig) { c.StackSize = 0 })

	if err := mw(panicAction)(newMockInvocation()); !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want %v", err, sentinel)
	}
}

func TestRecoveryWithStats(t *testing.T) {
	var stats RecoveryStats
	mw := RecoveryWithStats(&stats)
	_ = mw(panicAction)(newMockInvocation())
	_ = mw(successAction)(newMockInvocation())
	_ = mw(panicAction)(newMockInvocation())

	if stats.TotalPanics != 2 {
		t.Fatalf("TotalPanics = %d, want 2", stats.TotalPanics)
	}
	if stats.LastPanic == nil || stats.LastPanic.Panic != "test panic" {
		t.Fatalf("LastPanic = %+v", stats.LastPanic)
	}
}

func TestLoggerText(t *testing.T) {
	var buf bytes.Buffer
	mw := LoggerWithWriter(&buf, WithClock(stepClock(3*time.Millisecond)))

	if err := mw(successAction)(newMockInvocation("DEBUG", "USER=admin")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[2024-05-06 07:08:09] SUCCESS event=parse duration=3ms args=DEBUG USER=admin\n"
	if buf.String() != want {
		t.Fatalf("got %q\nwant %q", buf.String(), want)
	}

	buf.Reset()
	if err := mw(errorAction)(newMockInvocation("X")); err == nil {
		t.Fatal("expected the action error to pass through")
	}
	if !strings.Contains(buf.String(), ` ERROR event=parse`) || !strings.HasSuffix(buf.String(), "error=\"test error\"\n") {
		t.Fatalf("unexpected error line: %q", buf.String())
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	errorsOnly := LoggerWithWriter(&buf, WithLogLevel(LogLevelError))
	_ = errorsOnly(successAction)(newMockInvocation())
	if buf.Len() != 0 {
		t.Fatalf("success logged at error level: %q", buf.String())
	}
	_ = errorsOnly(errorAction)(newMockInvocation())
	if !strings.Contains(buf.String(), "ERROR") {
		t.Fatalf("error not logged: %q", buf.String())
	}

	buf.Reset()
	debug := LoggerWithWriter(&buf, WithLogLevel(LogLevelDebug))
	_ = debug(successAction)(newMockInvocation())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "START") || !strings.Contains(lines[1], "SUCCESS") {
		t.Fatalf("unexpected debug lines: %q", lines)
	}

	buf.Reset()
	silent := Logger(WithOutput(&buf), WithLogLevel(LogLevelNone))
	_ = silent(errorAction)(newMockInvocation())
	if buf.Len() != 0 {
		t.Fatalf("silent logger wrote %q", buf.String())
	}
}

func TestLoggerHidesArgs(t *testing.T) {
	var buf bytes.Buffer
	mw := LoggerWithWriter(&buf, WithArgs(false))
	_ = mw(successAction)(newMockInvocation("PASSWORD=hunter2"))
	if strings.Contains(buf.String(), "hunter2") {
		t.Fatalf("args leaked: %q", buf.String())
	}
}

func TestSetLogField(t *testing.T) {
	var buf bytes.Buffer
	mw := LoggerWithWriter(&buf, WithArgs(false), WithClock(stepClock(0)))
	action := func(inv Invocation) error {
		SetLogField(inv, "user", "alice")
		SetLogField(inv, "attempt", 1)
		SetLogField(inv, "user", "bob")
		return nil
	}
	_ = mw(action)(newMockInvocation())
	if !strings.Contains(buf.String(), "event=parse attempt=1 user=bob\n") {
		t.Fatalf("metadata missing or unsorted: %q", buf.String())
	}
}

func TestRequestInfoPoolResets(t *testing.T) {
	info := requestInfoPool.Get()
	info.Args = append(info.Args, "a")
	info.Error = errors.New("x")
	info.Metadata["k"] = "v"
	requestInfoPool.Put(info)

	again := requestInfoPool.Get()
	defer requestInfoPool.Put(again)
	if len(again.Args) != 0 || again.Error != nil || len(again.Metadata) != 0 {
		t.Fatalf("pooled RequestInfo not reset: %+v", again)
	}
}

func TestValidate(t *testing.T) {
	inv := newMockInvocation()
	inv.outcome.flag("TLS").kv("PORT", "80")

	calls := 0
	ok := Custom("ok", func(Outcome) error { calls++; return nil })
	port := Custom("port", func(out Outcome) error {
		calls++
		if v, _ := out.Raw("PORT"); v == "80" {
			return &ValidationError{Name: "PORT", Value: v, Message: "port 80 not allowed with TLS"}
		}
		return nil
	})
	never := Custom("never", func(Outcome) error { t.Error("validator after a failure ran"); return nil })

	err := Validate(ok, port, never)(successAction)(inv)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if ve.Name != "PORT" || ve.Value != "80" || calls != 2 {
		t.Fatalf("unexpected result: %+v, calls=%d", ve, calls)
	}
}

func TestValidateWrapsPlainErrors(t *testing.T) {
	inv := newMockInvocation()
	cause := errors.New("nope")
	err := Validate(Custom("mine", func(Outcome) error { return cause }))(successAction)(inv)

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Name != "mine" || !errors.Is(err, cause) {
		t.Fatalf("unexpected error: %#v", err)
	}
	if err.Error() != "validation failed: nope" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestValidateSkipsFailedParse(t *testing.T) {
	ran := false
	v := Custom("v", func(Outcome) error { ran = true; return nil })
	if err := Validate(v)(errorAction)(newMockInvocation()); err == nil || err.Error() != "test error" {
		t.Fatalf("err = %v", err)
	}
	if ran {
		t.Fatal("validator ran after the parse failed")
	}
}

func TestConditionalRequired(t *testing.T) {
	fn := ConditionalRequired(Present("TLS"), "CERT", "KEY")

	if err := fn(newMockOutcome()); err != nil {
		t.Fatalf("condition false, got %v", err)
	}
	if err := fn(newMockOutcome().flag("TLS").kv("CERT", "c").kv("KEY", "k")); err != nil {
		t.Fatalf("all present, got %v", err)
	}

	err := fn(newMockOutcome().flag("TLS").kv("KEY", "k"))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Name != "CERT" {
		t.Fatalf("unexpected error: %v", err)
	}

	err = fn(newMockOutcome().flag("TLS"))
	if !errors.As(err, &ve) || ve.Name != "CERT, KEY" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPathValidators(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "authfile")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing")

	tests := []struct {
		name    string
		fn      ValidatorFunc
		path    string
		wantErr bool
	}{
		{"file ok", FileExists("P"), file, false},
		{"file is dir", FileExists("P"), dir, true},
		{"file missing", FileExists("P"), missing, true},
		{"dir ok", DirectoryExists("P"), dir, false},
		{"dir is file", DirectoryExists("P"), file, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(newMockOutcome().kv("P", tt.path))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			var ve *ValidationError
			if tt.wantErr && (!errors.As(err, &ve) || ve.Name != "P" || ve.Value != tt.path) {
				t.Fatalf("unexpected error: %#v", err)
			}
		})
	}

	if err := FileExists("P")(newMockOutcome()); err != nil {
		t.Fatalf("absent key should pass, got %v", err)
	}
	if err := File("P").Fn(newMockOutcome().kv("P", file)); err != nil {
		t.Fatalf("File: %v", err)
	}
	if err := Dir("P").Fn(newMockOutcome().kv("P", dir)); err != nil {
		t.Fatalf("Dir: %v", err)
	}
}

func TestNoopValidator(t *testing.T) {
	if err := NoopValidator()(errorAction)(newMockInvocation()); err == nil {
		t.Fatal("NoopValidator swallowed the error")
	}
}
