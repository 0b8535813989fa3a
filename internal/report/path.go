package report

import (
	"fmt"
	"strings"
)

// PathReason categorizes why resolving a dotted path failed.
type PathReason string

const (
	// ReasonMissingSegment means a named segment does not exist at its level.
	ReasonMissingSegment PathReason = "MISSING_SEGMENT"

	// ReasonNotAnObject means an interior segment resolved to a non-object,
	// so descent cannot continue.
	ReasonNotAnObject PathReason = "NOT_AN_OBJECT"

	// ReasonNotAnInteger means the final segment exists but is not an
	// integer leaf.
	ReasonNotAnInteger PathReason = "NOT_AN_INTEGER"
)

// PathError reports a failed dotted-path resolution. A missing or
// wrongly-typed segment is always surfaced; resolution never falls back to
// a default value.
type PathError struct {
	Path    string     // the full dotted path being resolved
	Segment string     // the segment that failed
	Kind    string     // the node kind actually found, if any
	Reason  PathReason // what went wrong
}

func (e *PathError) Error() string {
	switch e.Reason {
	case ReasonMissingSegment:
		return fmt.Sprintf("path %q: segment %q not found", e.Path, e.Segment)
	case ReasonNotAnObject:
		return fmt.Sprintf("path %q: segment %q is %s, not an object", e.Path, e.Segment, e.Kind)
	case ReasonNotAnInteger:
		return fmt.Sprintf("path %q: segment %q is %s, not an integer", e.Path, e.Segment, e.Kind)
	default:
		return fmt.Sprintf("path %q: segment %q: %s", e.Path, e.Segment, e.Reason)
	}
}

// SplitPath splits a dotted path into its segments. The empty path yields
// a single empty segment, which can never resolve.
func SplitPath(path string) []string {
	return strings.Split(path, ".")
}

// ResolveInt descends the report tree one object per segment for all but
// the last segment, then reads the final segment as an integer leaf.
func (o Object) ResolveInt(path string) (int64, error) {
	segments := SplitPath(path)
	current := o
	for _, seg := range segments[:len(segments)-1] {
		child, ok := current[seg]
		if !ok {
			return 0, &PathError{Path: path, Segment: seg, Reason: ReasonMissingSegment}
		}
		obj, ok := child.(Object)
		if !ok {
			return 0, &PathError{Path: path, Segment: seg, Kind: Kind(child), Reason: ReasonNotAnObject}
		}
		current = obj
	}

	last := segments[len(segments)-1]
	leaf, ok := current[last]
	if !ok {
		return 0, &PathError{Path: path, Segment: last, Reason: ReasonMissingSegment}
	}
	n, ok := leaf.(Int)
	if !ok {
		return 0, &PathError{Path: path, Segment: last, Kind: Kind(leaf), Reason: ReasonNotAnInteger}
	}
	return int64(n), nil
}

// Resolve descends the tree like ResolveInt but returns the node itself,
// whatever its kind. Used by inspection tooling.
func (o Object) Resolve(path string) (Value, error) {
	segments := SplitPath(path)
	current := o
	for _, seg := range segments[:len(segments)-1] {
		child, ok := current[seg]
		if !ok {
			return nil, &PathError{Path: path, Segment: seg, Reason: ReasonMissingSegment}
		}
		obj, ok := child.(Object)
		if !ok {
			return nil, &PathError{Path: path, Segment: seg, Kind: Kind(child), Reason: ReasonNotAnObject}
		}
		current = obj
	}

	last := segments[len(segments)-1]
	leaf, ok := current[last]
	if !ok {
		return nil, &PathError{Path: path, Segment: last, Reason: ReasonMissingSegment}
	}
	return leaf, nil
}
