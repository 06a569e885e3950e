package rcsp

import (
	"fmt"
	"strings"
)

// Path represents a feasible path returned by Decode together with its
// total traversal cost. Nodes always starts at the graph's source and ends
// at its sink.
type Path struct {
	Nodes []int
	Cost  float64
}

// String returns a string representation of the path as a sequence of
// nodes separated by " -> ". For example: "0 -> 2 -> 4".
func (p Path) String() string {
	sb := strings.Builder{}
	for i, n := range p.Nodes {
		if i > 0 {
			sb.WriteString(" -> ")
		}
		sb.WriteString(fmt.Sprintf("%d", n))
	}
	return sb.String()
}
