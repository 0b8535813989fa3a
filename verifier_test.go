package statgate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statgate/statgate/internal/expect"
	"github.com/statgate/statgate/internal/report"
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

func writeSuite(t *testing.T, workdir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(workdir, name), []byte(content), 0o644))
}

func TestVerifier_Run_AllWithinTolerance(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "image-metrics-test.properties", `
analysis_results.classes.total=12000
analysis_results.classes.total.tolerance=10
image_details.total_bytes=100000000
image_details.total_bytes.tolerance=10
`)

	result, err := New(WithWorkdir(workdir)).Run()
	require.NoError(t, err)

	assert.True(t, result.Pass())
	require.Len(t, result.Checks, 2)
	assert.Equal(t, "analysis_results.classes.total", result.Checks[0].Path)
	assert.Equal(t, int64(12500), result.Checks[0].Actual)
	assert.Equal(t, "image_details.total_bytes", result.Checks[1].Path)
	assert.Equal(t, int64(104857600), result.Checks[1].Actual)
}

func TestVerifier_Run_CollectsEveryViolation(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	// classes.total drifts high and methods.total drifts low; fields is fine.
	writeSuite(t, workdir, "image-metrics-test.properties", `
analysis_results.classes.total=10000
analysis_results.classes.total.tolerance=5
analysis_results.fields.total=21000
analysis_results.fields.total.tolerance=1
analysis_results.methods.total=200000
analysis_results.methods.total.tolerance=10
`)

	result, err := New(WithWorkdir(workdir)).Run()
	require.NoError(t, err)

	assert.False(t, result.Pass())
	violations := result.Violations()
	require.Len(t, violations, 2)
	// Path order, not file or hash order.
	assert.Equal(t, "analysis_results.classes.total", violations[0].Path)
	assert.Equal(t, "analysis_results.methods.total", violations[1].Path)
	assert.Equal(t,
		"Expected analysis_results.classes.total to be within range [10000 +- 5%] but was 12500",
		violations[0].FailureMessage())
}

func TestVerifier_Run_MissingToleranceAborts(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "image-metrics-test.properties", `
analysis_results.classes.total=12500
`)

	_, err := New(WithWorkdir(workdir)).Run()
	require.Error(t, err)

	var suiteErr *expect.SuiteError
	require.True(t, errors.As(err, &suiteErr))
	assert.Equal(t, expect.CodeMissingTolerance, suiteErr.Code)
}

func TestVerifier_Run_UnresolvablePathAborts(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "image-metrics-test.properties", `
analysis_results.lambdas.total=5
analysis_results.lambdas.total.tolerance=10
`)

	_, err := New(WithWorkdir(workdir)).Run()
	require.Error(t, err)

	var pathErr *report.PathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, report.ReasonMissingSegment, pathErr.Reason)
	assert.Equal(t, "lambdas", pathErr.Segment)
}

func TestVerifier_Run_FloatLeafAborts(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "image-metrics-test.properties", `
resource_usage.cpu.load=6
resource_usage.cpu.load.tolerance=50
`)

	_, err := New(WithWorkdir(workdir)).Run()
	require.Error(t, err)

	var pathErr *report.PathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, report.ReasonNotAnInteger, pathErr.Reason)
}

func TestVerifier_Run_AmbiguousDiscoveryAborts(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	second := filepath.Join(workdir, "target", "other-native-image-source-jar")
	require.NoError(t, os.MkdirAll(second, 0o755))

	_, err := New(WithWorkdir(workdir)).Run()
	require.Error(t, err)

	var discErr *report.DiscoveryError
	require.True(t, errors.As(err, &discErr))
	assert.Equal(t, report.LevelDirectory, discErr.Level)
}

func TestVerifier_Run_InvalidReportAborts(t *testing.T) {
	workdir := writeLayout(t, "not json")
	writeSuite(t, workdir, "image-metrics-test.properties", "")

	_, err := New(WithWorkdir(workdir)).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not load build output")
}

func TestVerifier_WithSuite(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "strict-metrics.properties", `
image_details.total_bytes=104857600
image_details.total_bytes.tolerance=0
`)

	result, err := New(WithWorkdir(workdir), WithSuite("strict-metrics.properties")).Run()
	require.NoError(t, err)
	assert.True(t, result.Pass())
	assert.Equal(t, "strict-metrics.properties", result.Suite)
}

func TestVerifier_WithSuiteFS(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	fsys := fstest.MapFS{
		"embedded.properties": &fstest.MapFile{Data: []byte(
			"image_details.total_bytes=104857600\nimage_details.total_bytes.tolerance=1\n")},
	}

	result, err := New(
		WithWorkdir(workdir),
		WithSuiteFS(fsys),
		WithSuite("embedded.properties"),
	).Run()
	require.NoError(t, err)
	assert.True(t, result.Pass())
}

func TestVerifier_WithConventions(t *testing.T) {
	workdir := t.TempDir()
	dir := filepath.Join(workdir, "out", "app-imgsrc")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app-stats.json"), []byte(sampleReport), 0o644))
	writeSuite(t, workdir, "image-metrics-test.properties", `
image_details.total_bytes=104857600
image_details.total_bytes.tolerance=5
`)

	result, err := New(
		WithWorkdir(workdir),
		WithConventions(report.Conventions{
			BuildDir:     "out",
			DirSuffix:    "-imgsrc",
			ReportSuffix: "-stats.json",
		}),
	).Run()
	require.NoError(t, err)
	assert.True(t, result.Pass())
}

func TestVerifier_Run_YAMLSuite(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "image-metrics.yaml", `
checks:
  - path: analysis_results.classes.total
    expected: 12500
    tolerance: 0
`)

	result, err := New(WithWorkdir(workdir), WithSuite("image-metrics.yaml")).Run()
	require.NoError(t, err)
	assert.True(t, result.Pass())
}
