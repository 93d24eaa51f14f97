package diag

import (
	"math"

	"aliasc/internal/source"
)

// NoFile marks diagnostics not tied to a loaded file (e.g. read failures).
const NoFile source.FileID = math.MaxUint32

type Note struct {
	Range source.Range
	Msg   string
}

// Diagnostic — одна находка фазы. Range не знает файла, поэтому File хранится рядом.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	File     source.FileID
	Primary  source.Range
	Notes    []Note
}
