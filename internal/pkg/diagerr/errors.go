// Package diagerr defines the coded errors tracediag reports.
//
// Errors are split in two tiers. Fatal errors abort the run and map to a
// process exit code. ErrDiagnosticComputationFailed is the only recoverable
// kind: it is caught per trace row and reported as a warning.
package diagerr

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	CodeMalformedInput              = "MALFORMED_INPUT"
	CodeEmptySeries                 = "EMPTY_SERIES"
	CodeDiagnosticComputationFailed = "DIAGNOSTIC_COMPUTATION_FAILED"
	CodePlotFailed                  = "PLOT_FAILED"
	CodeArchiveFailed               = "ARCHIVE_FAILED"
)

// Exit codes follow sysexits(3) where one fits.
const (
	ExitOK      = 0
	ExitGeneric = 1
	ExitDataErr = 65
	ExitIOErr   = 74
)

var (
	// ErrMalformedInput is returned when the trace file is missing, unreadable or not a well-formed trace.
	ErrMalformedInput = New(ExitDataErr, CodeMalformedInput, "malformed input: trace file is missing or not a well-formed trace")

	// ErrEmptySeries is returned when summary statistics are requested for a row without samples.
	ErrEmptySeries = New(ExitDataErr, CodeEmptySeries, "empty series: no samples to summarize")

	// ErrDiagnosticComputationFailed is returned when a convergence diagnostic or its plot could not be produced.
	ErrDiagnosticComputationFailed = New(ExitGeneric, CodeDiagnosticComputationFailed, "diagnostic computation failed")

	// ErrPlotFailed is returned when a trace plot could not be rendered or saved.
	ErrPlotFailed = New(ExitIOErr, CodePlotFailed, "failed to render plot")

	// ErrArchiveFailed is returned when run artifacts could not be archived.
	ErrArchiveFailed = New(ExitIOErr, CodeArchiveFailed, "failed to archive artifacts")
)

type Extras map[string]interface{}

type DiagError struct {
	ExitCode  int
	ErrorCode string
	Message   string
	Extras    *Extras

	cause error
}

func New(exitCode int, errorCode string, message string) *DiagError {
	return &DiagError{
		ExitCode:  exitCode,
		ErrorCode: errorCode,
		Message:   message,
	}
}

func (e DiagError) Msg(format string, parts ...interface{}) *DiagError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e DiagError) WithExtras(extras Extras) *DiagError {
	e.Extras = &extras
	return &e
}

// Wrap returns a copy of e that carries cause as its underlying error.
func (e DiagError) Wrap(cause error) *DiagError {
	e.cause = cause
	return &e
}

func (e *DiagError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.ErrorCode, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

func (e *DiagError) Unwrap() error {
	return e.cause
}

// Is reports whether target carries the same error code, so that
// errors.Is(err, ErrMalformedInput) matches any copy made by Msg, WithExtras or Wrap.
func (e *DiagError) Is(target error) bool {
	t, ok := target.(*DiagError)
	if !ok {
		return false
	}
	return t.ErrorCode == e.ErrorCode
}

// ExitCode maps err to a process exit status. Errors outside the taxonomy map to ExitGeneric.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var de *DiagError
	if errors.As(err, &de) {
		return de.ExitCode
	}
	return ExitGeneric
}

// IsRecoverable reports whether err belongs to the per-row recoverable tier.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrDiagnosticComputationFailed)
}
