package expect

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlSuite is the structured alternative to the flat properties format.
// Pointer fields distinguish "absent" from a literal zero during
// validation.
type yamlSuite struct {
	Checks []yamlCheck `yaml:"checks"`
}

type yamlCheck struct {
	Path      string `yaml:"path"`
	Expected  *int64 `yaml:"expected"`
	Tolerance *int64 `yaml:"tolerance"`
}

// loadYAML decodes a structured suite. Decoding is strict: unknown fields
// are rejected so typos like "tolerence" fail loudly instead of silently
// loosening a check.
func loadYAML(resource string, data []byte, mode loadMode) (*Suite, []error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var raw yamlSuite
	if err := decoder.Decode(&raw); err != nil {
		return nil, []error{&SuiteError{Resource: resource, Code: CodeInvalid, Err: err}}
	}

	var errs []error
	fail := func(e *SuiteError) bool {
		errs = append(errs, e)
		return mode == loadModeFailFast
	}

	suite := &Suite{Resource: resource}
	for i, check := range raw.Checks {
		key := check.Path
		if key == "" {
			key = fmt.Sprintf("checks[%d]", i)
			if fail(&SuiteError{Resource: resource, Key: key, Code: CodeBadEntry, Err: errors.New("path is required")}) {
				return nil, errs
			}
			continue
		}
		if check.Expected == nil {
			if fail(&SuiteError{Resource: resource, Key: key, Code: CodeBadEntry, Err: errors.New("expected is required")}) {
				return nil, errs
			}
			continue
		}
		if check.Tolerance == nil {
			if fail(&SuiteError{Resource: resource, Key: key, Code: CodeMissingTolerance}) {
				return nil, errs
			}
			continue
		}
		suite.Expectations = append(suite.Expectations, Expectation{
			Path:      check.Path,
			Expected:  *check.Expected,
			Tolerance: *check.Tolerance,
		})
	}

	sortExpectations(suite.Expectations)
	return suite, errs
}
