package llvm

import (
	"fmt"

	"aliasc/internal/source"
)

// DuplicateGlobalError reports a second alias with an already emitted name.
type DuplicateGlobalError struct {
	Name  string
	First source.Range
	Range source.Range
}

func (e *DuplicateGlobalError) Error() string {
	return fmt.Sprintf("duplicate global @%s at %s (first defined at %s)", e.Name, e.Range.Start, e.First.Start)
}

// UnsupportedExprError reports an alias value the backend cannot lower.
type UnsupportedExprError struct {
	Name  string
	Range source.Range
}

func (e *UnsupportedExprError) Error() string {
	return fmt.Sprintf("unsupported initializer for @%s at %s", e.Name, e.Range.Start)
}
