package expect

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/magiconair/properties"
)

// MarshalProperties renders a suite back to the flat properties format,
// one key=value pair per expectation followed by its .tolerance companion.
// Expectations are emitted in path order.
func MarshalProperties(suite *Suite) ([]byte, error) {
	sorted := make([]Expectation, len(suite.Expectations))
	copy(sorted, suite.Expectations)
	sortExpectations(sorted)

	props := properties.NewProperties()
	props.DisableExpansion = true
	for _, exp := range sorted {
		if _, _, err := props.Set(exp.Path, strconv.FormatInt(exp.Expected, 10)); err != nil {
			return nil, fmt.Errorf("set %s: %w", exp.Path, err)
		}
		if _, _, err := props.Set(exp.Path+ToleranceSuffix, strconv.FormatInt(exp.Tolerance, 10)); err != nil {
			return nil, fmt.Errorf("set %s: %w", exp.Path+ToleranceSuffix, err)
		}
	}

	var buf bytes.Buffer
	if _, err := props.Write(&buf, properties.UTF8); err != nil {
		return nil, fmt.Errorf("write properties: %w", err)
	}
	return buf.Bytes(), nil
}
