// Package uerr defines the error kinds shared by the unit packages.
//
// Every error raised by dimension parsing, unit parsing or conversion unwraps to
// exactly one of the sentinels below, so callers classify failures with errors.Is:
//   - ErrFormat: malformed literal syntax (illegal characters, bad exponent token)
//   - ErrDomain: parseable but semantically invalid input (unknown symbol, bad
//     dimension code, dimension mismatch, disallowed prefix, exponent out of range)
//   - ErrNoPath: the conversion graph holds no path between two valid units
package uerr

import (
	"errors"
	"fmt"
)

var (
	ErrFormat = errors.New("format error")
	ErrDomain = errors.New("domain error")
	ErrNoPath = errors.New("no conversion path")
)

// Error is a classified error. Kind is one of the package sentinels.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Formatf returns an ErrFormat error.
func Formatf(format string, args ...any) error {
	return &Error{Kind: ErrFormat, Msg: fmt.Sprintf(format, args...)}
}

// Domainf returns an ErrDomain error.
func Domainf(format string, args ...any) error {
	return &Error{Kind: ErrDomain, Msg: fmt.Sprintf(format, args...)}
}

// NoPathf returns an ErrNoPath error.
func NoPathf(format string, args ...any) error {
	return &Error{Kind: ErrNoPath, Msg: fmt.Sprintf(format, args...)}
}
