package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// verifyEnvelope mirrors CLIResponse with a typed data payload.
type verifyEnvelope struct {
	Status string       `json:"status"`
	Data   VerifyResult `json:"data"`
	Error  *CLIError    `json:"error,omitempty"`
}

func TestVerifyCommand_AllWithinTolerance(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "image-metrics-test.properties", `
analysis_results.classes.total=12000
analysis_results.classes.total.tolerance=10
image_details.total_bytes=104857600
image_details.total_bytes.tolerance=5
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{workdir})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "PASS: 2 of 2 metrics within tolerance")
	assert.Contains(t, output, "ok   analysis_results.classes.total = 12500")
	assert.Contains(t, output, "suite:  image-metrics-test.properties")
}

func TestVerifyCommand_OutOfRange(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "image-metrics-test.properties", `
analysis_results.classes.total=10000
analysis_results.classes.total.tolerance=5
image_details.total_bytes=104857600
image_details.total_bytes.tolerance=5
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{workdir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output,
		"Expected analysis_results.classes.total to be within range [10000 +- 5%] but was 12500")
	assert.Contains(t, output, "FAIL: 1 of 2 metrics out of range")
}

func TestVerifyCommand_JSONOutput(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "image-metrics-test.properties", `
analysis_results.methods.total=93000
analysis_results.methods.total.tolerance=0
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{workdir})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp verifyEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.NotEmpty(t, resp.Data.RunID)
	assert.NotEmpty(t, resp.Data.GeneratedAt)
	assert.Equal(t, "image-metrics-test.properties", resp.Data.Suite)
	assert.Contains(t, resp.Data.ReportPath, "app-build-output-stats.json")
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 0, resp.Data.Failed)
	require.Len(t, resp.Data.Checks, 1)
	assert.Equal(t, "analysis_results.methods.total", resp.Data.Checks[0].Path)
	assert.Equal(t, int64(93000), resp.Data.Checks[0].Actual)
	assert.True(t, resp.Data.Checks[0].Pass)
}

func TestVerifyCommand_JSONOutOfRange(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "image-metrics-test.properties", `
analysis_results.fields.total=10000
analysis_results.fields.total.tolerance=10
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{workdir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp verifyEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeOutOfRange, resp.Error.Code)
	assert.Equal(t, "1 metric(s) out of range", resp.Error.Message)
	// The full check list still ships alongside the error.
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Checks, 1)
	assert.False(t, resp.Data.Checks[0].Pass)
}

func TestVerifyCommand_SuiteFlag(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "ci-metrics.properties", `
image_details.total_bytes=104857600
image_details.total_bytes.tolerance=0
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{workdir, "--suite", "ci-metrics.properties"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "suite:  ci-metrics.properties")
	assert.Contains(t, buf.String(), "PASS: 1 of 1 metrics within tolerance")
}

func TestVerifyCommand_SuiteDirFlag(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	suiteDir := t.TempDir()
	writeSuite(t, suiteDir, "image-metrics-test.properties", `
analysis_results.classes.total=12500
analysis_results.classes.total.tolerance=1
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{workdir, "--suite-dir", suiteDir})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "PASS: 1 of 1 metrics within tolerance")
}

func TestVerifyCommand_AmbiguousDiscovery(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	second := filepath.Join(workdir, "target", "other-native-image-source-jar")
	require.NoError(t, os.MkdirAll(second, 0o755))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{workdir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E_DISCOVERY]")
	assert.Contains(t, buf.String(), "could not identify the native image build directory")
}

func TestVerifyCommand_MissingTolerance(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "image-metrics-test.properties", `
analysis_results.classes.total=12500
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{workdir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E_SUITE]")
	assert.Contains(t, buf.String(), "tolerance not defined for analysis_results.classes.total")
}

func TestVerifyCommand_MissingSuite(t *testing.T) {
	workdir := writeLayout(t, sampleReport)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{workdir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "could not load properties from image-metrics-test.properties")
}

func TestVerifyCommand_ConfigFile(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	writeSuite(t, workdir, "nightly.properties", `
image_details.total_bytes=104857600
image_details.total_bytes.tolerance=2
`)
	writeSuite(t, workdir, "statgate.yaml", `
suite:
  name: nightly.properties
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{workdir})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "suite:  nightly.properties")
}

func TestVerifyCommand_ConfigConventions(t *testing.T) {
	workdir := t.TempDir()
	dir := filepath.Join(workdir, "build", "app-imgsrc")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app-stats.json"), []byte(sampleReport), 0o644))
	writeSuite(t, workdir, "image-metrics-test.properties", `
analysis_results.methods.total=93000
analysis_results.methods.total.tolerance=1
`)
	configPath := writeSuite(t, workdir, "custom.yaml", `
discovery:
  build_dir: build
  dir_suffix: -imgsrc
  report_suffix: -stats.json
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", ConfigPath: configPath}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{workdir})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "PASS: 1 of 1 metrics within tolerance")
}

func TestVerifyCommand_BadConfig(t *testing.T) {
	workdir := writeLayout(t, sampleReport)
	configPath := writeSuite(t, workdir, "broken.yaml", `
output:
  format: xml
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", ConfigPath: configPath}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{workdir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E_CONFIG]")
	assert.Contains(t, buf.String(), "invalid configuration")
}
