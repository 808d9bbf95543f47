// Package testutil provides testing utilities for conductor.
//
// This package contains mock errors and log-capture helpers used across
// test files. It should only be imported by test files (*_test.go).
package testutil

import (
	"bytes"
	"errors"

	"github.com/rs/zerolog"
)

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockTransient simulates a transient failure worth retrying.
	ErrMockTransient = errors.New("transient failure")

	// ErrMockPermanent simulates a permanent failure.
	ErrMockPermanent = errors.New("permanent failure")

	// ErrMockBadInput simulates invalid caller input.
	ErrMockBadInput = errors.New("bad input")
)

// CaptureLogger returns a logger writing JSON records into the returned
// buffer, for asserting on structured log output.
func CaptureLogger() (zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return zerolog.New(&buf), &buf
}
