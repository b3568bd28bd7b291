package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/cgast/should/pkg/plan"
)

// Exit codes for CLI commands.
const (
	exitSuccess      = 0 // Plan passed, command succeeded
	exitFailure      = 1 // A check or a validation failed
	exitCommandError = 2 // Bad flags, unreadable files, broken config
)

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{code: exitCommandError, err: err}
}

func failure(format string, args ...any) error {
	return &exitError{code: exitFailure, err: fmt.Errorf(format, args...)}
}

// exitCode extracts the exit code from an error. Errors without one are
// command errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitCommandError
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderReport writes the human-readable form of a plan report.
func renderReport(w io.Writer, r plan.Report) {
	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%s %s (%s, %s mode, %d checks)\n", status, r.Plan, r.Kind, r.Mode, r.Checks)
	if r.Fault == nil {
		return
	}
	fmt.Fprintf(w, "  %s: %s\n", r.Fault.Code(), r.Fault.Message())
	for _, e := range r.Fault.Metadata() {
		fmt.Fprintf(w, "    %s: %s\n", e.Key, e.Value)
	}
	if r.Raised {
		fmt.Fprintln(w, "  raised at the first failure")
	}
}

// renderValidation writes validation errors one per line.
func renderValidation(w io.Writer, path string, res plan.ValidationResult) {
	if res.Valid() {
		fmt.Fprintf(w, "%s: valid\n", path)
		return
	}
	fmt.Fprintf(w, "%s: %d error(s)\n", path, len(res.Errors))
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  %s: %s\n", e.Field, e.Message)
	}
}
