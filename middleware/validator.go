package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ValidatorFunc checks a parse outcome against rules the declarations
// cannot express, such as conditional requirements or file existence.
type ValidatorFunc func(out Outcome) error

// NamedValidator pairs a ValidatorFunc with the name used in errors.
type NamedValidator struct {
	Name string
	Fn   ValidatorFunc
}

// Custom wraps fn with a name.
func Custom(name string, fn ValidatorFunc) NamedValidator {
	return NamedValidator{Name: name, Fn: fn}
}

// File checks that the named keys, when present, point at regular files.
func File(keys ...string) NamedValidator {
	return NamedValidator{Name: "file_exists", Fn: FileExists(keys...)}
}

// Dir checks that the named keys, when present, point at directories.
func Dir(keys ...string) NamedValidator {
	return NamedValidator{Name: "directory_exists", Fn: DirectoryExists(keys...)}
}

// Validate runs the validators, in order, after the core parse succeeded.
// The first failure is returned as a *ValidationError.
//
//	parser, err := pamargs.New().
//	    KeyValue("authfile", "").Back().
//	    Use(middleware.Validate(middleware.File("authfile"))).
//	    Build()
func Validate(validators ...NamedValidator) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(inv Invocation) error {
			if err := next(inv); err != nil {
				return err
			}
			out := inv.Outcome()
			if out == nil {
				return nil
			}
			for _, v := range validators {
				if v.Fn == nil {
					continue
				}
				if err := v.Fn(out); err != nil {
					validationErr := &ValidationError{}
					if errors.As(err, &validationErr) {
						return validationErr
					}
					return &ValidationError{Name: v.Name, Message: "validation failed", Cause: err}
				}
			}
			return nil
		}
	}
}

// ConditionalRequired requires names whenever condition holds.
func ConditionalRequired(condition func(Outcome) bool, names ...string) ValidatorFunc {
	return func(out Outcome) error {
		if !condition(out) {
			return nil
		}
		var missing []string
		for _, name := range names {
			if !out.IsPresent(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return &ValidationError{
				Name:    strings.Join(missing, ", "),
				Message: "arguments required when condition is met: " + strings.Join(missing, ", "),
			}
		}
		return nil
	}
}

// Present is a condition for ConditionalRequired.
func Present(name string) func(Outcome) bool {
	return func(out Outcome) bool { return out.IsPresent(name) }
}

// FileExists checks regular files named by the keys.
func FileExists(keys ...string) ValidatorFunc {
	return pathValidator("file", keys, func(path string) error {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		return nil
	})
}

// DirectoryExists checks directories named by the keys.
func DirectoryExists(keys ...string) ValidatorFunc {
	return pathValidator("directory", keys, func(path string) error {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", path)
		}
		return nil
	})
}

func pathValidator(kind string, keys []string, check func(string) error) ValidatorFunc {
	return func(out Outcome) error {
		for _, key := range keys {
			path, ok := out.Raw(key)
			if !ok || path == "" {
				continue
			}
			if err := check(path); err != nil {
				return &ValidationError{
					Name:    key,
					Value:   path,
					Message: fmt.Sprintf("%s validation failed for '%s'", kind, key),
					Cause:   err,
				}
			}
		}
		return nil
	}
}

// NoopValidator passes every outcome.
func NoopValidator() Middleware {
	return func(next ActionFunc) ActionFunc { return next }
}
