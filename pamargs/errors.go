package pamargs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType identifies one of the closed set of parse failures.
// The string value doubles as the stable error code.
type ErrorType string

const (
	ErrorTypeRequiredArgMissing    ErrorType = "REQUIRED_ARG_MISSING"
	ErrorTypeMutuallyExclusiveArgs ErrorType = "MUTUALLY_EXCLUSIVE_ARGS"
	ErrorTypeInvalidKeyValue       ErrorType = "INVALID_KEY_VALUE"
	ErrorTypeUnrecognizedArg       ErrorType = "UNRECOGNIZED_ARG"
	ErrorTypeInvalidIntValue       ErrorType = "INVALID_INT_VALUE"
	ErrorTypeInvalidBoolValue      ErrorType = "INVALID_BOOL_VALUE"
	ErrorTypeDependencyNotMet      ErrorType = "DEPENDENCY_NOT_MET"
	ErrorTypeInvalidValue          ErrorType = "INVALID_VALUE"
	ErrorTypeDuplicateArgName      ErrorType = "DUPLICATE_ARG_NAME"
	ErrorTypeUnclosedDelimiter     ErrorType = "UNCLOSED_DELIMITER"
	ErrorTypeNestedBrackets        ErrorType = "NESTED_BRACKETS"
	ErrorTypeInvalidInput          ErrorType = "INVALID_INPUT"
	ErrorTypeUnexpectedError       ErrorType = "UNEXPECTED_ERROR"
)

// Sentinels for errors.Is. A *ParseError matches the sentinel of its Type.
var (
	ErrRequiredArgMissing    = &ParseError{Type: ErrorTypeRequiredArgMissing}
	ErrMutuallyExclusiveArgs = &ParseError{Type: ErrorTypeMutuallyExclusiveArgs}
	ErrInvalidKeyValue       = &ParseError{Type: ErrorTypeInvalidKeyValue}
	ErrUnrecognizedArg       = &ParseError{Type: ErrorTypeUnrecognizedArg}
	ErrInvalidIntValue       = &ParseError{Type: ErrorTypeInvalidIntValue}
	ErrInvalidBoolValue      = &ParseError{Type: ErrorTypeInvalidBoolValue}
	ErrDependencyNotMet      = &ParseError{Type: ErrorTypeDependencyNotMet}
	ErrInvalidValue          = &ParseError{Type: ErrorTypeInvalidValue}
	ErrDuplicateArgName      = &ParseError{Type: ErrorTypeDuplicateArgName}
	ErrUnclosedDelimiter     = &ParseError{Type: ErrorTypeUnclosedDelimiter}
	ErrNestedBrackets        = &ParseError{Type: ErrorTypeNestedBrackets}
	ErrInvalidInput          = &ParseError{Type: ErrorTypeInvalidInput}
	ErrUnexpectedError       = &ParseError{Type: ErrorTypeUnexpectedError}
)

// ParseError is the only error type returned by the parser.
//
// Which fields are set depends on Type:
//   - Name: the declaration or key involved (RequiredArgMissing, DependencyNotMet,
//     MutuallyExclusiveArgs, InvalidValue, DuplicateArgName, InvalidKeyValue)
//   - Other: the counterpart declaration (DependencyNotMet, MutuallyExclusiveArgs)
//   - Value: the offending value (InvalidValue, InvalidIntValue, InvalidBoolValue)
//   - Input: the offending raw text or a description of the syntax problem
type ParseError struct {
	Type       ErrorType
	Name       string
	Other      string
	Value      string
	Input      string
	Suggestion string
	Cause      error
}

// Error renders the short, single line message.
func (e *ParseError) Error() string {
	switch e.Type {
	case ErrorTypeRequiredArgMissing:
		return "Required argument missing: " + e.Name
	case ErrorTypeMutuallyExclusiveArgs:
		return fmt.Sprintf("Mutually exclusive arguments found: %s and %s", e.Name, e.Other)
	case ErrorTypeInvalidKeyValue:
		return "Invalid key-value pair: " + e.Input
	case ErrorTypeUnrecognizedArg:
		return "Unrecognized argument: " + e.Input
	case ErrorTypeInvalidIntValue:
		return "Invalid integer value: " + e.Value
	case ErrorTypeInvalidBoolValue:
		return "Invalid boolean value: " + e.Value
	case ErrorTypeDependencyNotMet:
		return fmt.Sprintf("Dependency not met: %s requires %s", e.Name, e.Other)
	case ErrorTypeInvalidValue:
		return fmt.Sprintf("Invalid value for %s: %s", e.Name, e.Value)
	case ErrorTypeDuplicateArgName:
		return "Duplicate argument name: " + e.Name
	case ErrorTypeUnclosedDelimiter:
		return "Unclosed delimiter: " + e.Input
	case ErrorTypeNestedBrackets:
		return "Nested brackets not supported: " + e.Input
	case ErrorTypeInvalidInput:
		return "Invalid input: " + e.Input
	case ErrorTypeUnexpectedError:
		return "Unexpected error: " + e.Input
	default:
		return string(e.Type)
	}
}

// Code returns the stable machine readable code, e.g. "REQUIRED_ARG_MISSING".
func (e *ParseError) Code() string { return string(e.Type) }

// Details returns a longer explanation suitable for end users, followed by
// the suggestion when one is known.
func (e *ParseError) Details() string {
	var msg string
	switch e.Type {
	case ErrorTypeRequiredArgMissing:
		msg = fmt.Sprintf("The required argument '%s' was not provided. "+
			"Please ensure all required arguments are included.", e.Name)
	case ErrorTypeMutuallyExclusiveArgs:
		msg = fmt.Sprintf("The arguments '%s' and '%s' cannot be used together. "+
			"Please provide only one of these arguments.", e.Name, e.Other)
	case ErrorTypeInvalidKeyValue:
		msg = fmt.Sprintf("The key-value pair '%s' has an invalid format. "+
			"Key-value pairs should be in the format 'key=value'.", e.Input)
	case ErrorTypeUnrecognizedArg:
		msg = fmt.Sprintf("The argument '%s' is not recognized. "+
			"Please check for typos or refer to the documentation for valid arguments.", e.Input)
	case ErrorTypeInvalidIntValue:
		msg = fmt.Sprintf("The value '%s' could not be parsed as an integer. "+
			"Please provide a valid integer value.", e.Value)
	case ErrorTypeInvalidBoolValue:
		msg = fmt.Sprintf("The value '%s' could not be parsed as a boolean. "+
			"Valid boolean values include 'true', 'false', 'yes', 'no', '1', '0', 'on', 'off'.", e.Value)
	case ErrorTypeDependencyNotMet:
		msg = fmt.Sprintf("The argument '%s' requires '%s' to also be provided. "+
			"Please include the required dependency.", e.Name, e.Other)
	case ErrorTypeInvalidValue:
		msg = fmt.Sprintf("The value '%s' is not valid for the argument '%s'. "+
			"Please refer to the documentation for allowed values.", e.Value, e.Name)
	case ErrorTypeDuplicateArgName:
		msg = fmt.Sprintf("The argument name '%s' is defined more than once. "+
			"Each argument name must be unique.", e.Name)
	case ErrorTypeUnclosedDelimiter:
		msg = fmt.Sprintf("An unclosed delimiter was found: %s. "+
			"Please ensure all quotes and brackets are properly closed.", e.Input)
	case ErrorTypeNestedBrackets:
		msg = fmt.Sprintf("Nested brackets are not supported: %s. "+
			"Please restructure your arguments to avoid nested brackets.", e.Input)
	case ErrorTypeInvalidInput:
		msg = fmt.Sprintf("The input is invalid: %s. "+
			"Please check your input and try again.", e.Input)
	case ErrorTypeUnexpectedError:
		msg = fmt.Sprintf("An unexpected error occurred: %s. "+
			"Please report this issue.", e.Input)
	default:
		msg = e.Error()
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" Did you mean '%s'?", e.Suggestion)
	}
	return msg
}

// Unwrap exposes the underlying cause, if any.
func (e *ParseError) Unwrap() error { return e.Cause }

// Is reports whether target is a *ParseError of the same Type.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Error constructors

func errRequiredArgMissing(name string) *ParseError {
	return &ParseError{Type: ErrorTypeRequiredArgMissing, Name: name}
}

func errMutuallyExclusive(name, other string) *ParseError {
	return &ParseError{Type: ErrorTypeMutuallyExclusiveArgs, Name: name, Other: other}
}

func errInvalidKeyValue(key, input string) *ParseError {
	return &ParseError{Type: ErrorTypeInvalidKeyValue, Name: key, Input: input}
}

func errUnrecognizedArg(input string) *ParseError {
	return &ParseError{Type: ErrorTypeUnrecognizedArg, Input: input}
}

func errInvalidInt(value string, cause error) *ParseError {
	return &ParseError{Type: ErrorTypeInvalidIntValue, Value: value, Cause: cause}
}

func errInvalidBool(value string) *ParseError {
	return &ParseError{Type: ErrorTypeInvalidBoolValue, Value: value}
}

func errDependencyNotMet(name, dependency string) *ParseError {
	return &ParseError{Type: ErrorTypeDependencyNotMet, Name: name, Other: dependency}
}

func errInvalidValue(name, value string) *ParseError {
	return &ParseError{Type: ErrorTypeInvalidValue, Name: name, Value: value}
}

func errDuplicateArgName(name string) *ParseError {
	return &ParseError{Type: ErrorTypeDuplicateArgName, Name: name}
}

func errUnclosed(format string, args ...any) *ParseError {
	return &ParseError{Type: ErrorTypeUnclosedDelimiter, Input: fmt.Sprintf(format, args...)}
}

func errNested(input string) *ParseError {
	return &ParseError{Type: ErrorTypeNestedBrackets, Input: input}
}

func errInvalidInput(format string, args ...any) *ParseError {
	return &ParseError{Type: ErrorTypeInvalidInput, Input: fmt.Sprintf(format, args...)}
}

func errUnexpected(cause error) *ParseError {
	return &ParseError{Type: ErrorTypeUnexpectedError, Input: cause.Error(), Cause: cause}
}

// ErrorTypeOf returns the ErrorType carried by err, or "" when err is not a
// *ParseError.
func ErrorTypeOf(err error) ErrorType {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ""
}

// joinNames renders a list of names the way format errors print them: [A, B].
func joinNames(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}
