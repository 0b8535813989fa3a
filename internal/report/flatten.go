package report

import "strings"

// Metric is one integer leaf addressed by its dotted path.
type Metric struct {
	Path  string `json:"path"`
	Value int64  `json:"value"`
}

// Metrics returns every integer leaf of the tree as dotted-path metrics in
// path order. These are exactly the values a suite can verify. Keys that
// themselves contain a dot are skipped; their flattened path could not be
// resolved back.
func (o Object) Metrics() []Metric {
	var out []Metric
	flattenInto(&out, "", o)
	return out
}

func flattenInto(out *[]Metric, prefix string, o Object) {
	for _, key := range o.SortedKeys() {
		if strings.Contains(key, ".") {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch child := o[key].(type) {
		case Int:
			*out = append(*out, Metric{Path: path, Value: int64(child)})
		case Object:
			flattenInto(out, path, child)
		}
	}
}
