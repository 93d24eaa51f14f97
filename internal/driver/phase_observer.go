package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary of one file.
type PhaseEvent struct {
	Path    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events; in directory mode it is called from worker goroutines.
type PhaseObserver func(PhaseEvent)

// ProgressStatus — состояние файла при обработке каталога.
type ProgressStatus uint8

const (
	ProgressQueued ProgressStatus = iota
	ProgressWorking
	ProgressDone
	ProgressFailed
	ProgressCached
)

func (s ProgressStatus) String() string {
	switch s {
	case ProgressQueued:
		return "queued"
	case ProgressWorking:
		return "working"
	case ProgressDone:
		return "done"
	case ProgressFailed:
		return "failed"
	case ProgressCached:
		return "cached"
	default:
		return "unknown"
	}
}

// Final reports whether the file will get no further events.
func (s ProgressStatus) Final() bool {
	return s == ProgressDone || s == ProgressFailed || s == ProgressCached
}

type ProgressEvent struct {
	Path   string
	Index  int
	Total  int
	Status ProgressStatus
}

// ProgressObserver must be safe for concurrent use.
type ProgressObserver func(ProgressEvent)
