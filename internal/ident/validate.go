// Package ident is the sole defense against SQL injection in the read path:
// every table name, column name, and group-by key must pass Validate before
// it is ever interpolated into a query string.
package ident

import "fmt"

// Error is returned when an identifier fails validation. It never embeds the
// generated SQL, only the rejected identifier itself.
type Error struct {
	Identifier string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid identifier: %q", e.Identifier)
}

// Validate reports an error unless s matches ^[A-Za-z0-9_]+$ and is
// non-empty. Quoting is never a substitute for this check.
func Validate(s string) error {
	if s == "" {
		return &Error{Identifier: s}
	}
	for _, c := range s {
		if c >= 'a' && c <= 'z' {
			continue
		}
		if c >= 'A' && c <= 'Z' {
			continue
		}
		if c >= '0' && c <= '9' {
			continue
		}
		if c == '_' {
			continue
		}
		return &Error{Identifier: s}
	}
	return nil
}

// ValidateAll validates every identifier in ss, short-circuiting on the
// first failure.
func ValidateAll(ss []string) error {
	for _, s := range ss {
		if err := Validate(s); err != nil {
			return err
		}
	}
	return nil
}

// Quote wraps a validated identifier in double quotes for interpolation
// into SQL. Callers must call Validate (directly or via ValidateAll) first;
// Quote itself performs no validation.
func Quote(s string) string {
	return `"` + s + `"`
}
