package statgate

// TestingT is the minimal testing surface VerifyImageMetrics needs.
// *testing.T satisfies it.
type TestingT interface {
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

type tHelper interface {
	Helper()
}

// VerifyImageMetrics locates the native-image build-output report under the
// working directory, loads the expectation suite (by default
// image-metrics-test.properties, override with WithSuite), and fails t for
// every metric outside its tolerance window.
//
// Problems that prevent checking at all (an ambiguous or missing report,
// unparseable report content, a malformed suite, a suite path absent from
// the report) abort the test immediately via Fatalf. Out-of-range metrics
// are reported individually via Errorf so a single run surfaces every
// drifted metric.
func VerifyImageMetrics(t TestingT, opts ...Option) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	result, err := New(opts...).Run()
	if err != nil {
		t.Fatalf("%v", err)
		return
	}
	for _, check := range result.Violations() {
		t.Errorf("%s", check.FailureMessage())
	}
}
