// Package statgate verifies native-image build statistics against expected
// values with percentage tolerances.
//
// A native-image build writes a stats report to
// target/<artifact>-native-image-source-jar/<artifact>-build-output-stats.json.
// statgate locates that report, loads an expectation suite
// (image-metrics-test.properties by default), and checks each dotted metric
// path against its expected value and tolerance:
//
//	func TestImageMetrics(t *testing.T) {
//		statgate.VerifyImageMetrics(t)
//	}
//
// Each suite key names a metric path in the report and must carry a
// companion <key>.tolerance entry giving the allowed deviation in percent.
// A metric whose reported value falls outside the inclusive window around
// the expected value fails the test with the metric's path, expected value,
// tolerance, and actual value.
//
// The same verification runs standalone through the statgate CLI.
package statgate
