// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import "github.com/pdiddy/snapmerge/pkg/types"

// Phase is the submission status of a session.
type Phase int

const (
	// Idle: nothing submitted since the last selection.
	Idle Phase = iota
	// Submitting: one request is in flight.
	Submitting
	// Succeeded: the last submission produced an artifact.
	Succeeded
	// Failed: the last submission ended with an error message.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of a session's state, taken atomically.
type Snapshot struct {
	// ID identifies the session in logs.
	ID string

	// Files is the current selection in order.
	Files []types.FileEntry

	Phase Phase

	// Artifact is set only when Phase is Succeeded.
	Artifact *types.Artifact

	// Message is set only when Phase is Failed.
	Message string

	// Cycle counts submissions started in this session.
	Cycle uint64
}

// Busy reports whether a submission is in flight. Presentation disables the
// submit trigger while it is true.
func (s Snapshot) Busy() bool {
	return s.Phase == Submitting
}

// CanSubmit reports whether a submit trigger should be offered.
func (s Snapshot) CanSubmit() bool {
	return len(s.Files) > 0 && !s.Busy()
}

// TotalSize returns the combined size of the selected files.
func (s Snapshot) TotalSize() int64 {
	var n int64
	for _, f := range s.Files {
		n += f.Size
	}
	return n
}
