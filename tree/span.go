package tree

import "fmt"

// Span is an interval of byte offsets into the source text of a tree.
// Both Start and End are inclusive and denote the first byte of a character.
// End is -1 as long as a node is open.
type Span struct {
	Start, End int
}

const openEnd = -1

// IsOpen is true if the end of s is not yet known.
func (s Span) IsOpen() bool {
	return s.End == openEnd
}

func (s Span) String() string {
	if s.IsOpen() {
		return fmt.Sprintf("[%d-…]", s.Start)
	}
	if s.Start == s.End {
		return fmt.Sprintf("[%d]", s.Start)
	}
	return fmt.Sprintf("[%d-%d]", s.Start, s.End)
}
