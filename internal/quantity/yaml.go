package quantity

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML encodes q in its display form, e.g. "2.1 nS".
func (q Quantity) MarshalYAML() (interface{}, error) {
	if q.Dim == Dimensionless {
		return q.Value, nil
	}
	return q.String(), nil
}

// UnmarshalYAML accepts "5 ms" style strings and bare numbers.
func (q *Quantity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected scalar", ErrMalformed, node.Line)
	}
	parsed, err := Parse(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*q = parsed
	return nil
}
