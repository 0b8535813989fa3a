package cli

import (
	"errors"

	"github.com/statgate/statgate/internal/expect"
	"github.com/statgate/statgate/internal/report"
	"github.com/statgate/statgate/internal/schema"
)

// Error codes carried in CLIResponse envelopes. Every code here maps to
// exit code 2 except E_OUT_OF_RANGE and E_SCHEMA, which are verification
// verdicts (exit code 1).
const (
	ErrCodeGeneric    = "E_GENERIC"
	ErrCodeDiscovery  = "E_DISCOVERY"    // zero or multiple discovery matches
	ErrCodeReport     = "E_REPORT"       // report unreadable or invalid JSON
	ErrCodeSuite      = "E_SUITE"        // suite unreadable or malformed
	ErrCodePath       = "E_PATH"         // suite names a path the report lacks
	ErrCodeConfig     = "E_CONFIG"       // tool configuration invalid
	ErrCodeSchema     = "E_SCHEMA"       // report fails schema vetting
	ErrCodeOutOfRange = "E_OUT_OF_RANGE" // metrics outside tolerance
)

// classifyError maps a verification-path error to its envelope code.
// Everything a Run can return is a command error, never a range verdict:
// out-of-range metrics come back as failed checks, not errors.
func classifyError(err error) string {
	var discErr *report.DiscoveryError
	if errors.As(err, &discErr) {
		return ErrCodeDiscovery
	}
	var pathErr *report.PathError
	if errors.As(err, &pathErr) {
		return ErrCodePath
	}
	var suiteErr *expect.SuiteError
	if errors.As(err, &suiteErr) {
		return ErrCodeSuite
	}
	var vetErr *schema.VetError
	if errors.As(err, &vetErr) {
		return ErrCodeSchema
	}
	return ErrCodeReport
}

// commandError renders err through the formatter and converts it to an
// ExitError with ExitCommandError, keeping text and JSON surfaces in sync.
func commandError(formatter *OutputFormatter, err error) error {
	code := classifyError(err)
	if outErr := formatter.Error(code, err.Error(), nil); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitCommandError, code, err)
}
