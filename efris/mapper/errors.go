package mapper

import "fmt"

// MappingError reports an ERP document that cannot be turned into a
// valid fiscal document. Line is 1-based; zero means the problem is at
// document level.
type MappingError struct {
	Line   int
	Reason string
}

func (e *MappingError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("mapping: line %d: %s", e.Line, e.Reason)
	}
	return "mapping: " + e.Reason
}
