// ABOUTME: Error classification for startup and runtime failures
// ABOUTME: Maps each failure kind onto the process exit code
package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure
type Kind int

const (
	// KindRuntime is a failure while running, e.g. a transport receive error
	KindRuntime Kind = iota
	// KindConfig is an invalid or unreadable configuration
	KindConfig
	// KindResource is a sample, step table or socket that could not be acquired
	KindResource
	// KindBackend is an audio backend that could not be connected or controlled
	KindBackend
)

// Exit codes per failure kind
const (
	ExitOK       = 0
	ExitRuntime  = 1
	ExitConfig   = 2
	ExitResource = 3
	ExitBackend  = 4
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration"
	case KindResource:
		return "resource"
	case KindBackend:
		return "backend"
	default:
		return "runtime"
	}
}

// Error is a classified service failure
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ConfigError wraps err as a configuration failure
func ConfigError(op string, err error) error {
	return &Error{Kind: KindConfig, Op: op, Err: err}
}

func resourceError(op string, err error) error {
	return &Error{Kind: KindResource, Op: op, Err: err}
}

func backendError(op string, err error) error {
	return &Error{Kind: KindBackend, Op: op, Err: err}
}

func runtimeError(op string, err error) error {
	return &Error{Kind: KindRuntime, Op: op, Err: err}
}

// ExitCode returns the process exit code for err
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var se *Error
	if !errors.As(err, &se) {
		return ExitRuntime
	}

	switch se.Kind {
	case KindConfig:
		return ExitConfig
	case KindResource:
		return ExitResource
	case KindBackend:
		return ExitBackend
	default:
		return ExitRuntime
	}
}
