// Package schema vets build-output reports against an embedded CUE schema
// of the native-image stats format. Vetting is advisory tooling; the
// verification path itself only requires the report to be JSON with the
// expected integer leaves.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed buildreport.cue
var schemaSource string

// Issue is one schema violation, positioned in the vetted document when the
// evaluator can attribute it.
type Issue struct {
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
	Position string `json:"position,omitempty"`
}

func (i Issue) String() string {
	var b strings.Builder
	if i.Path != "" {
		fmt.Fprintf(&b, "%s: ", i.Path)
	}
	b.WriteString(i.Message)
	if i.Position != "" {
		fmt.Fprintf(&b, " (%s)", i.Position)
	}
	return b.String()
}

// VetError reports that a syntactically valid JSON document is not a
// build-output report. It is deliberately distinct from a JSON syntax
// error.
type VetError struct {
	Issues []Issue
}

func (e *VetError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("report does not match the build-output schema: %s", e.Issues[0])
	}
	return fmt.Sprintf("report does not match the build-output schema: %d issues", len(e.Issues))
}

// Vet checks report bytes against the embedded build-output schema. name
// labels positions in returned issues, usually the report file name.
//
// Returns nil for a conforming report, a plain error for malformed JSON or
// an unusable schema, and a *VetError when the JSON is valid but does not
// describe a build-output report.
func Vet(name string, data []byte) error {
	if !json.Valid(data) {
		// Surface the decoder's diagnostic rather than a bare "invalid".
		var probe any
		err := json.Unmarshal(data, &probe)
		return fmt.Errorf("invalid report JSON: %w", err)
	}

	ctx := cuecontext.New()

	compiled := ctx.CompileString(schemaSource, cue.Filename("buildreport.cue"))
	if err := compiled.Err(); err != nil {
		return fmt.Errorf("compiling build-output schema: %w", err)
	}
	def := compiled.LookupPath(cue.ParsePath("#Report"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("resolving #Report definition: %w", err)
	}

	// JSON is a subset of CUE, so the document compiles directly.
	doc := ctx.CompileBytes(data, cue.Filename(name))
	if err := doc.Err(); err != nil {
		return fmt.Errorf("invalid report JSON: %w", err)
	}

	unified := def.Unify(doc)
	err := unified.Validate(cue.Concrete(true), cue.Final())
	if err == nil {
		return nil
	}

	vetErr := &VetError{}
	for _, cueErr := range cueerrors.Errors(err) {
		format, args := cueErr.Msg()
		issue := Issue{Message: fmt.Sprintf(format, args...)}
		if path := cueErr.Path(); len(path) > 0 {
			issue.Path = strings.Join(path, ".")
		}
		if pos := cueErr.Position(); pos.IsValid() {
			issue.Position = pos.String()
		}
		vetErr.Issues = append(vetErr.Issues, issue)
	}
	return vetErr
}
