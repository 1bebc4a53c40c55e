package main

import (
	"errors"
	"fmt"

	"github.com/hakim/driftwatch/internal/policy"
	"github.com/hakim/driftwatch/internal/snapshot"
	"github.com/hakim/driftwatch/internal/storage"
)

// Process exit codes
const (
	exitOK           = 0
	exitFailure      = 1
	exitRunNotFound  = 2
	exitEmptyHistory = 3
)

// exitError carries a specific process exit code out of a command.
// err may be nil when the command already printed everything it needs to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// exitCode maps a command error onto the process exit status
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

// describeError names the error class for operator-facing messages
func describeError(err error) string {
	var (
		pe  *policy.ParseError
		se  *snapshot.ParseError
		per *storage.PersistenceError
	)
	switch {
	case errors.As(err, &pe):
		return "policy error"
	case errors.As(err, &se):
		return "snapshot error"
	case errors.As(err, &per):
		return "persistence error"
	case errors.Is(err, storage.ErrRunNotFound):
		return "not found"
	default:
		return "error"
	}
}
