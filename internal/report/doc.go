// Package report locates and parses native-image build-output statistics.
//
// A native-image build drops a JSON report summarizing the size and
// composition of the produced binary (classes, methods, heap objects, code
// area bytes, ...). The report lives in a conventionally-named directory:
//
//	target/<artifact>-native-image-source-jar/<artifact>-build-output-stats.json
//
// Discovery is strict: at each level exactly one entry must match the
// conventional suffix (case-insensitively), otherwise a DiscoveryError
// identifies the failing level. The file parses into a sealed Value tree
// whose integer leaves are addressed with dotted paths such as
// "analysis_results.classes.total".
package report
