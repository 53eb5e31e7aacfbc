package main

import (
	"errors"
	"os"
	"reflect"

	"github.com/dzonerzy/go-pamargs/internal/declfile"
	"github.com/dzonerzy/go-pamargs/middleware"
	"github.com/dzonerzy/go-pamargs/pamargs"
)

// ExitError requests a specific exit code from inside a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// usageError marks command line mistakes caught before any parsing.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// ExitCodeDefaults holds the codes used when no specific mapping matches.
type ExitCodeDefaults struct {
	Success         int // 0
	GeneralError    int // 1
	MisusageError   int // 2
	ValidationError int // 3
	NoInput         int // 66
	ConfigError     int // 78
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisusageError: 2, ValidationError: 3, NoInput: 66, ConfigError: 78}
}

// ExitCodeManager maps errors to process exit codes.
type ExitCodeManager struct {
	codesByParse    map[pamargs.ErrorType]int
	codesByType     map[reflect.Type]int
	codesBySentinel []sentinelCode
	defaults        ExitCodeDefaults
}

type sentinelCode struct {
	err  error
	code int
}

func newExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByParse: make(map[pamargs.ErrorType]int),
		codesByType:  make(map[reflect.Type]int),
		defaults:     defaultExitDefaults(),
	}
	d := m.defaults

	// Input the module would reject at authentication time.
	for _, t := range []pamargs.ErrorType{
		pamargs.ErrorTypeRequiredArgMissing,
		pamargs.ErrorTypeMutuallyExclusiveArgs,
		pamargs.ErrorTypeDependencyNotMet,
		pamargs.ErrorTypeUnrecognizedArg,
		pamargs.ErrorTypeUnclosedDelimiter,
		pamargs.ErrorTypeNestedBrackets,
		pamargs.ErrorTypeInvalidKeyValue,
	} {
		m.codesByParse[t] = d.MisusageError
	}
	for _, t := range []pamargs.ErrorType{
		pamargs.ErrorTypeInvalidValue,
		pamargs.ErrorTypeInvalidIntValue,
		pamargs.ErrorTypeInvalidBoolValue,
	} {
		m.codesByParse[t] = d.ValidationError
	}
	// Broken declarations.
	m.codesByParse[pamargs.ErrorTypeDuplicateArgName] = d.ConfigError
	m.codesByParse[pamargs.ErrorTypeInvalidInput] = d.ConfigError
	m.codesByParse[pamargs.ErrorTypeUnexpectedError] = d.GeneralError

	m.codesByType[reflect.TypeOf(&middleware.ValidationError{})] = d.ValidationError
	m.codesByType[reflect.TypeOf(&middleware.RecoveryError{})] = d.GeneralError
	m.codesByType[reflect.TypeOf(&usageError{})] = d.MisusageError

	m.codesBySentinel = []sentinelCode{
		{declfile.ErrSchema, d.ConfigError},
		{declfile.ErrVersion, d.ConfigError},
		{os.ErrNotExist, d.NoInput},
	}
	return m
}

// DefineParse overrides the code for one parse error type.
func (e *ExitCodeManager) DefineParse(typ pamargs.ErrorType, code int) *ExitCodeManager {
	e.codesByParse[typ] = code
	return e
}

// DefineError maps an error's dynamic type to a code.
func (e *ExitCodeManager) DefineError(err error, code int) *ExitCodeManager {
	if err == nil {
		return e
	}
	e.codesByType[reflect.TypeOf(err)] = code
	return e
}

// resolve converts err to an exit code. Precedence:
//  1. ExitError
//  2. ParseError type
//  3. concrete error type
//  4. sentinel (errors.Is)
//  5. GeneralError
func (e *ExitCodeManager) resolve(err error) int {
	if err == nil {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var pe *pamargs.ParseError
	if errors.As(err, &pe) {
		if code, ok := e.codesByParse[pe.Type]; ok {
			return code
		}
		return e.defaults.GeneralError
	}

	for t, code := range e.codesByType {
		if errors.As(err, reflect.New(t).Interface()) {
			return code
		}
	}

	for _, s := range e.codesBySentinel {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	return e.defaults.GeneralError
}
