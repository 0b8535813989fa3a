// Package expect loads expectation suites: the sets of metric paths,
// expected values, and percentage tolerances a verification run checks a
// build report against.
//
// Two on-disk formats are supported. The flat properties format pairs each
// dotted metric path with a companion <path>.tolerance key:
//
//	image_details.total_bytes=104857600
//	image_details.total_bytes.tolerance=5
//
// The structured YAML format carries the same data as a checks list and is
// decoded strictly, rejecting unknown fields.
//
// A metric key without a tolerance companion is a configuration defect and
// loading fails with a SuiteError rather than defaulting the tolerance.
package expect
