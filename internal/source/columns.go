package source

import "fmt"

// ColumnMode selects how Stream counts columns across line breaks.
type ColumnMode uint8

const (
	// ColumnReset restarts the column at 0 after every '\n'.
	ColumnReset ColumnMode = iota
	// ColumnMonotonic keeps incrementing the column for every consumed
	// character, newlines included; the column never goes back to 0.
	ColumnMonotonic
)

func (m ColumnMode) String() string {
	switch m {
	case ColumnReset:
		return "reset"
	case ColumnMonotonic:
		return "monotonic"
	default:
		return "unknown"
	}
}

// ParseColumnMode converts a flag/manifest value to a ColumnMode.
func ParseColumnMode(s string) (ColumnMode, error) {
	switch s {
	case "", "reset":
		return ColumnReset, nil
	case "monotonic":
		return ColumnMonotonic, nil
	default:
		return ColumnReset, fmt.Errorf("invalid column mode: %q (expected: reset|monotonic)", s)
	}
}
