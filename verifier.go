package statgate

import (
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/statgate/statgate/internal/expect"
	"github.com/statgate/statgate/internal/report"
)

// Verifier runs one verification pass: locate the build-output report,
// parse it, load an expectation suite, and check every expectation.
type Verifier struct {
	workdir     string
	suiteFS     fs.FS
	suite       string
	conventions report.Conventions
	logger      *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithWorkdir sets the directory the report is discovered under.
// Default: the current working directory.
func WithWorkdir(dir string) Option {
	return func(v *Verifier) {
		v.workdir = dir
	}
}

// WithSuite sets the expectation resource name to load instead of the
// conventional image-metrics-test.properties.
func WithSuite(name string) Option {
	return func(v *Verifier) {
		v.suite = name
	}
}

// WithSuiteFS sets the filesystem expectation suites are resolved on.
// Default: the working directory. Pass an embed.FS to ship expectations
// inside the test binary.
func WithSuiteFS(fsys fs.FS) Option {
	return func(v *Verifier) {
		v.suiteFS = fsys
	}
}

// WithConventions overrides the report discovery layout.
func WithConventions(conv report.Conventions) Option {
	return func(v *Verifier) {
		v.conventions = conv
	}
}

// WithLogger sets the diagnostic logger. Logging is off by default; the
// failure messages themselves are the primary diagnostic surface.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// New creates a Verifier with the conventional defaults applied, then any
// options.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		workdir:     ".",
		suite:       expect.DefaultResource,
		conventions: report.DefaultConventions(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.suiteFS == nil {
		v.suiteFS = os.DirFS(v.workdir)
	}
	return v
}

// Run executes the verification pass.
//
// The returned error covers everything that prevents checking: discovery
// ambiguity, an unreadable or invalid report, a malformed suite, and a
// suite path the report cannot resolve to an integer. Out-of-range metrics
// are not errors; they are failed Checks on the Report, all of them, in
// path order.
func (v *Verifier) Run() (*Report, error) {
	reportPath, err := report.Locate(v.workdir, v.conventions)
	if err != nil {
		return nil, err
	}
	v.logger.Debug("report located", "path", reportPath)

	tree, err := report.Load(reportPath)
	if err != nil {
		return nil, err
	}

	suite, err := expect.Load(v.suiteFS, v.suite)
	if err != nil {
		return nil, err
	}
	v.logger.Debug("suite loaded", "resource", suite.Resource, "expectations", len(suite.Expectations))

	result := &Report{
		ReportPath: reportPath,
		Suite:      suite.Resource,
		Checks:     make([]Check, 0, len(suite.Expectations)),
	}
	for _, exp := range suite.Expectations {
		actual, err := tree.ResolveInt(exp.Path)
		if err != nil {
			return nil, err
		}
		window := ToleranceWindow(exp.Expected, exp.Tolerance)
		check := Check{
			Path:      exp.Path,
			Expected:  exp.Expected,
			Tolerance: exp.Tolerance,
			Actual:    actual,
			Window:    window,
			Pass:      window.Contains(actual),
		}
		if !check.Pass {
			v.logger.Debug("metric out of range",
				"path", check.Path,
				"actual", check.Actual,
				"window", check.Window.String(),
			)
		}
		result.Checks = append(result.Checks, check)
	}
	return result, nil
}
