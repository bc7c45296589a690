// Package result holds the outcome type returned by every API call.
package result

import "fmt"

// Kind tells which variant of a Result is populated.
type Kind int

const (
	KindSuccess Kind = iota + 1
	KindAuthenticationFailed
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindAuthenticationFailed:
		return "authentication_failed"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is one of Success(value), AuthenticationFailed or Failed(message).
// The zero value is Failed with an empty message.
type Result[T any] struct {
	kind    Kind
	value   T
	message string
}

// Success wraps value.
func Success[T any](value T) Result[T] {
	return Result[T]{kind: KindSuccess, value: value}
}

// AuthenticationFailed signals rejected credentials.
func AuthenticationFailed[T any]() Result[T] {
	return Result[T]{kind: KindAuthenticationFailed}
}

// Failed carries the server status description or the transport error text.
func Failed[T any](message string) Result[T] {
	return Result[T]{kind: KindFailed, message: message}
}

// Kind returns the populated variant.
func (r Result[T]) Kind() Kind {
	if r.kind == 0 {
		return KindFailed
	}
	return r.kind
}

// Value returns the success payload; ok is false for other variants.
func (r Result[T]) Value() (T, bool) {
	if r.kind != KindSuccess {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Message returns the failure message; empty for other variants.
func (r Result[T]) Message() string {
	if r.Kind() != KindFailed {
		return ""
	}
	return r.message
}

func (r Result[T]) IsSuccess() bool              { return r.kind == KindSuccess }
func (r Result[T]) IsAuthenticationFailed() bool { return r.kind == KindAuthenticationFailed }
func (r Result[T]) IsFailed() bool               { return r.Kind() == KindFailed }

func (r Result[T]) String() string {
	switch r.Kind() {
	case KindSuccess:
		return fmt.Sprintf("success(%v)", r.value)
	case KindAuthenticationFailed:
		return "authentication failed"
	default:
		return fmt.Sprintf("failed(%q)", r.message)
	}
}

// Map converts the payload of a successful result, keeping other variants.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	switch r.Kind() {
	case KindSuccess:
		return Success(fn(r.value))
	case KindAuthenticationFailed:
		return AuthenticationFailed[U]()
	default:
		return Failed[U](r.message)
	}
}
