package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleReport = `{
	"general_info": {
		"name": "app",
		"graalvm_version": "GraalVM CE 21",
		"java_version": "21.0.2"
	},
	"analysis_results": {
		"classes": {"total": 12500, "reachable": 10200, "reflection": 310, "jni": 58},
		"methods": {"total": 93000, "reachable": 61000, "reflection": 1200, "jni": 52},
		"fields": {"total": 21000, "reachable": 14500, "reflection": 480, "jni": 45}
	},
	"image_details": {
		"total_bytes": 104857600,
		"code_area": {"bytes": 42991616, "compilation_units": 61000},
		"image_heap": {"bytes": 57671680, "objects": {"count": 650000}},
		"debug_info": {"bytes": 2097152}
	},
	"resource_usage": {
		"cpu": {"load": 6.37, "total_cores": 8},
		"garbage_collection": {"count": 23, "total_secs": 1.84},
		"memory": {"system_total": 33421772800, "peak_rss_bytes": 6442450944},
		"total_secs": 118.5
	}
}`

// writeLayout creates workdir/target/app-native-image-source-jar with the
// given report content and returns workdir.
func writeLayout(t *testing.T, reportJSON string) string {
	t.Helper()
	workdir := t.TempDir()
	dir := filepath.Join(workdir, "target", "app-native-image-source-jar")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "app-build-output-stats.json"),
		[]byte(reportJSON), 0o644))
	return workdir
}

func writeSuite(t *testing.T, workdir, name, content string) string {
	t.Helper()
	path := filepath.Join(workdir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
