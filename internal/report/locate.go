package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Layout conventions of the native-image build step. The report always
// lives in target/<artifact>-native-image-source-jar/<artifact>-build-output-stats.json
// relative to the working directory.
const (
	DefaultBuildDir     = "target"
	DefaultDirSuffix    = "-native-image-source-jar"
	DefaultReportSuffix = "-build-output-stats.json"
)

// Conventions describes where to look for the build-output report.
// The zero value is not usable; start from DefaultConventions.
type Conventions struct {
	BuildDir     string // directory scanned for the source-jar directory
	DirSuffix    string // suffix of the native-image source-jar directory
	ReportSuffix string // suffix of the build-output stats file
}

// DefaultConventions returns the conventional native-image layout.
func DefaultConventions() Conventions {
	return Conventions{
		BuildDir:     DefaultBuildDir,
		DirSuffix:    DefaultDirSuffix,
		ReportSuffix: DefaultReportSuffix,
	}
}

// DiscoveryLevel identifies which stage of report discovery failed.
type DiscoveryLevel string

const (
	// LevelDirectory is the search for the *-native-image-source-jar
	// directory under the build dir.
	LevelDirectory DiscoveryLevel = "build directory"

	// LevelReport is the search for the *-build-output-stats.json file
	// inside the source-jar directory.
	LevelReport DiscoveryLevel = "build output"
)

// DiscoveryError reports that the build-output stats file could not be
// identified unambiguously. Zero matches and multiple matches are both
// fatal; ambiguity is never resolved silently.
type DiscoveryError struct {
	Level   DiscoveryLevel // stage that failed
	Dir     string         // directory that was scanned
	Suffix  string         // suffix searched for
	Matches []string       // entries that matched (empty or len > 1)
	Err     error          // underlying error when the scan itself failed
}

func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not identify the native image %s: scanning %s: %v", e.Level, e.Dir, e.Err)
	}
	if len(e.Matches) == 0 {
		return fmt.Sprintf("could not identify the native image %s: no entry in %s matches suffix %q", e.Level, e.Dir, e.Suffix)
	}
	return fmt.Sprintf("could not identify the native image %s: %d entries in %s match suffix %q: %s",
		e.Level, len(e.Matches), e.Dir, e.Suffix, strings.Join(e.Matches, ", "))
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// lower applies Unicode default case mapping, the locale-independent
// lowering the build tooling itself uses for these names.
var lower = cases.Lower(language.Und)

func hasSuffixFold(name, suffix string) bool {
	return strings.HasSuffix(lower.String(name), lower.String(suffix))
}

// Locate finds the single build-output stats file under workdir using the
// given layout conventions. It fails with a DiscoveryError if either level
// of the search matches zero entries or more than one.
func Locate(workdir string, conv Conventions) (string, error) {
	buildDir := filepath.Join(workdir, conv.BuildDir)
	srcJarDir, err := matchOne(buildDir, conv.DirSuffix, LevelDirectory)
	if err != nil {
		return "", err
	}
	return matchOne(srcJarDir, conv.ReportSuffix, LevelReport)
}

// matchOne returns the one entry of dir whose name ends with suffix
// (case-insensitively), or a DiscoveryError.
func matchOne(dir, suffix string, level DiscoveryLevel) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", &DiscoveryError{Level: level, Dir: dir, Suffix: suffix, Err: err}
	}

	var matches []string
	for _, entry := range entries {
		if hasSuffixFold(entry.Name(), suffix) {
			matches = append(matches, entry.Name())
		}
	}
	if len(matches) != 1 {
		return "", &DiscoveryError{Level: level, Dir: dir, Suffix: suffix, Matches: matches}
	}
	return filepath.Join(dir, matches[0]), nil
}
