package expect

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
)

// DefaultResource is the conventional expectation suite name, loaded when
// the caller does not supply one.
const DefaultResource = "image-metrics-test.properties"

// ToleranceSuffix marks the companion key holding a metric's allowed
// percentage deviation. Every plain key in a suite must have one.
const ToleranceSuffix = ".tolerance"

// Expectation pairs a dotted metric path with its expected value and
// allowed percentage deviation.
type Expectation struct {
	Path      string `json:"path"      yaml:"path"`
	Expected  int64  `json:"expected"  yaml:"expected"`
	Tolerance int64  `json:"tolerance" yaml:"tolerance"`
}

// Suite is one loaded expectation set. Expectations are sorted by path so
// verification output is deterministic regardless of file order.
type Suite struct {
	Resource     string
	Expectations []Expectation
}

// SuiteErrorCode categorizes suite loading failures.
type SuiteErrorCode string

const (
	// CodeUnreadable means the resource could not be read at all.
	CodeUnreadable SuiteErrorCode = "SUITE_UNREADABLE"

	// CodeInvalid means the resource was read but could not be parsed.
	CodeInvalid SuiteErrorCode = "SUITE_INVALID"

	// CodeMissingTolerance means a metric key has no companion
	// <key>.tolerance entry. This indicates malformed test configuration,
	// not a runtime condition.
	CodeMissingTolerance SuiteErrorCode = "MISSING_TOLERANCE"

	// CodeBadInteger means an expected value or tolerance is not an integer.
	CodeBadInteger SuiteErrorCode = "BAD_INTEGER"

	// CodeBadEntry means a structured suite entry is incomplete.
	CodeBadEntry SuiteErrorCode = "BAD_ENTRY"

	// CodeOrphanTolerance means a .tolerance key has no base metric key.
	// Verification ignores orphans; only Lint reports them.
	CodeOrphanTolerance SuiteErrorCode = "ORPHAN_TOLERANCE"
)

// SuiteError reports a configuration-level problem with an expectation
// suite. It is distinct from a metric being out of range: a SuiteError
// means the test setup itself is malformed and the whole verification call
// must abort.
type SuiteError struct {
	Resource string         // suite resource name
	Key      string         // offending key, when one is known
	Code     SuiteErrorCode // failure category
	Err      error          // underlying error, if any
}

func (e *SuiteError) Error() string {
	switch e.Code {
	case CodeUnreadable:
		return fmt.Sprintf("could not load properties from %s: %v", e.Resource, e.Err)
	case CodeInvalid:
		return fmt.Sprintf("suite %s is not parseable: %v", e.Resource, e.Err)
	case CodeMissingTolerance:
		return fmt.Sprintf("suite %s: tolerance not defined for %s", e.Resource, e.Key)
	case CodeBadInteger:
		return fmt.Sprintf("suite %s: %s is not an integer: %v", e.Resource, e.Key, e.Err)
	case CodeBadEntry:
		return fmt.Sprintf("suite %s: %s: %v", e.Resource, e.Key, e.Err)
	case CodeOrphanTolerance:
		return fmt.Sprintf("suite %s: %s has no matching metric key", e.Resource, e.Key)
	default:
		return fmt.Sprintf("suite %s: %s", e.Resource, e.Code)
	}
}

func (e *SuiteError) Unwrap() error { return e.Err }

// loadMode selects between aborting on the first suite problem and
// collecting all of them.
type loadMode int

const (
	loadModeFailFast loadMode = iota
	loadModeCollectAll
)

// Load reads an expectation suite named resource from fsys, stopping at
// the first problem. Resources ending in .yaml or .yml decode as
// structured suites; everything else is parsed as a Java-style flat
// properties file with the .tolerance pairing convention.
//
// The fs.FS parameter keeps the lookup mechanism pluggable: production
// callers pass os.DirFS or an embed.FS, tests pass an fstest.MapFS.
func Load(fsys fs.FS, resource string) (*Suite, error) {
	suite, errs := load(fsys, resource, loadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return suite, nil
}

// Lint reads a suite like Load but collects every problem instead of
// stopping at the first, including orphan .tolerance keys that
// verification would silently skip. The returned suite holds the entries
// that did load cleanly.
func Lint(fsys fs.FS, resource string) (*Suite, []error) {
	return load(fsys, resource, loadModeCollectAll)
}

func load(fsys fs.FS, resource string, mode loadMode) (*Suite, []error) {
	data, err := fs.ReadFile(fsys, resource)
	if err != nil {
		return nil, []error{&SuiteError{Resource: resource, Code: CodeUnreadable, Err: err}}
	}

	switch strings.ToLower(path.Ext(resource)) {
	case ".yaml", ".yml":
		return loadYAML(resource, data, mode)
	default:
		return loadProperties(resource, data, mode)
	}
}

// loadProperties parses the flat dotted-key=value format. Keys ending in
// .tolerance are companions, not expectations; every other key must have
// such a companion.
func loadProperties(resource string, data []byte, mode loadMode) (*Suite, []error) {
	loader := &properties.Loader{Enc: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes(data)
	if err != nil {
		return nil, []error{&SuiteError{Resource: resource, Code: CodeInvalid, Err: err}}
	}

	var errs []error
	fail := func(e *SuiteError) bool {
		errs = append(errs, e)
		return mode == loadModeFailFast
	}

	suite := &Suite{Resource: resource}
	seen := make(map[string]bool)
	for _, key := range props.Keys() {
		if strings.HasSuffix(key, ToleranceSuffix) {
			continue
		}
		seen[key] = true

		value, _ := props.Get(key)
		tolerance, ok := props.Get(key + ToleranceSuffix)
		if !ok {
			if fail(&SuiteError{Resource: resource, Key: key, Code: CodeMissingTolerance}) {
				return nil, errs
			}
			continue
		}

		expected, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			if fail(&SuiteError{Resource: resource, Key: key, Code: CodeBadInteger, Err: err}) {
				return nil, errs
			}
			continue
		}
		pct, err := strconv.ParseInt(strings.TrimSpace(tolerance), 10, 64)
		if err != nil {
			if fail(&SuiteError{Resource: resource, Key: key + ToleranceSuffix, Code: CodeBadInteger, Err: err}) {
				return nil, errs
			}
			continue
		}

		suite.Expectations = append(suite.Expectations, Expectation{
			Path:      key,
			Expected:  expected,
			Tolerance: pct,
		})
	}

	// Orphan companions are lint findings only; verification skips them the
	// way the properties convention always has.
	if mode == loadModeCollectAll {
		for _, key := range props.Keys() {
			base, isTolerance := strings.CutSuffix(key, ToleranceSuffix)
			if isTolerance && !seen[base] {
				errs = append(errs, &SuiteError{Resource: resource, Key: key, Code: CodeOrphanTolerance})
			}
		}
	}

	sortExpectations(suite.Expectations)
	return suite, errs
}

func sortExpectations(list []Expectation) {
	sort.Slice(list, func(i, j int) bool { return list[i].Path < list[j].Path })
}
