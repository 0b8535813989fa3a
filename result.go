package statgate

import (
	"fmt"
	"strings"
)

// Check is the outcome of verifying one expectation against the report.
type Check struct {
	Path      string `json:"path"`
	Expected  int64  `json:"expected"`
	Tolerance int64  `json:"tolerance"`
	Actual    int64  `json:"actual"`
	Window    Window `json:"window"`
	Pass      bool   `json:"pass"`
}

// FailureMessage renders the canonical out-of-range diagnostic for a failed
// check. The wording is stable; test suites and CI logs key off it.
func (c Check) FailureMessage() string {
	return fmt.Sprintf("Expected %s to be within range [%d +- %d%%] but was %d",
		c.Path, c.Expected, c.Tolerance, c.Actual)
}

// Report is the result of one verification run. Checks appear in suite
// path order.
type Report struct {
	ReportPath string  `json:"report_path"`
	Suite      string  `json:"suite"`
	Checks     []Check `json:"checks"`
}

// Pass reports whether every check passed.
func (r *Report) Pass() bool {
	for _, c := range r.Checks {
		if !c.Pass {
			return false
		}
	}
	return true
}

// Violations returns the failed checks, preserving path order.
func (r *Report) Violations() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.Pass {
			out = append(out, c)
		}
	}
	return out
}

// Render writes the human-readable verification summary: one line per
// check, then a pass/fail trailer.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "report: %s\n", r.ReportPath)
	fmt.Fprintf(&b, "suite:  %s\n", r.Suite)
	b.WriteString("\n")

	for _, c := range r.Checks {
		if c.Pass {
			fmt.Fprintf(&b, "  ok   %s = %d (expected %d +- %d%%, window %s)\n",
				c.Path, c.Actual, c.Expected, c.Tolerance, c.Window)
			continue
		}
		fmt.Fprintf(&b, "  FAIL %s\n", c.FailureMessage())
	}

	b.WriteString("\n")
	violations := r.Violations()
	if len(violations) == 0 {
		fmt.Fprintf(&b, "PASS: %d of %d metrics within tolerance\n", len(r.Checks), len(r.Checks))
	} else {
		fmt.Fprintf(&b, "FAIL: %d of %d metrics out of range\n", len(violations), len(r.Checks))
	}
	return b.String()
}
